package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/exweb/exweb-backend/pkg/errs"
	"github.com/exweb/exweb-backend/pkg/service"
)

type MiddlewareHandler func(http.Handler) http.Handler

type contextKey int

const ContextUserKey contextKey = 1

func GetUser(ctx context.Context) *service.User {
	user := ctx.Value(ContextUserKey)
	if user == nil {
		return nil
	}

	return user.(*service.User)
}

func SetUser(ctx context.Context, user *service.User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

// Middleware rejects requests without a valid bearer session token and
// injects the verified subject into the request context.
func Middleware(codec *TokenCodec, log zerolog.Logger) MiddlewareHandler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op errs.Op = "auth.Middleware"

			token, ok := bearerToken(r)
			if !ok {
				errs.HTTPErrorResponse(w, log, errs.E(op, errs.Unauthenticated, errs.Str("missing bearer token")))
				return
			}

			subject, ok := codec.Verify(token)
			if !ok {
				errs.HTTPErrorResponse(w, log, errs.E(op, errs.Unauthenticated, errs.Str("invalid or expired session token")))
				return
			}

			ctx := SetUser(r.Context(), &service.User{Username: subject})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}

	return token, true
}
