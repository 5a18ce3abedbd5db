package service

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// User identifies the authenticated caller of an inbound request.
type User struct {
	Username string `json:"username"`
}

type AuthService interface {
	Login(ctx context.Context, creds LoginRequest) (*TokenResponse, error)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (l LoginRequest) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Username, validation.Required),
	)
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}
