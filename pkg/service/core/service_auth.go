package core

import (
	"context"

	"github.com/exweb/exweb-backend/pkg/auth"
	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

var _ service.AuthService = &authService{}

// authService exchanges a login for a stateless session token. There is no
// local account store: a login succeeds when a downstream Exchange
// credential can be obtained for the username, which is the only identity
// this system knows about.
type authService struct {
	codec *auth.TokenCodec
	creds *auth.CredentialProvider
}

func NewAuthService(codec *auth.TokenCodec, creds *auth.CredentialProvider) *authService {
	return &authService{
		codec: codec,
		creds: creds,
	}
}

func (s *authService) Login(ctx context.Context, login service.LoginRequest) (*service.TokenResponse, error) {
	const op errs.Op = "authService.Login"

	if _, ok := s.creds.AccessToken(ctx, login.Username); !ok {
		return nil, errs.E(op, errs.Unavailable, errs.Str("no downstream credential available for user"))
	}

	token, err := s.codec.Issue(login.Username)
	if err != nil {
		return nil, errs.E(op, errs.Internal, err)
	}

	return &service.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.codec.TTL().Seconds()),
	}, nil
}
