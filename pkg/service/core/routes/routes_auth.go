package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/exweb/exweb-backend/pkg/service/core/handlers"
	"github.com/exweb/exweb-backend/pkg/service/core/transport"
)

type AuthEndpoints struct {
	Login http.HandlerFunc
}

func NewAuthEndpoints(log zerolog.Logger, h *handlers.AuthHandler) *AuthEndpoints {
	return &AuthEndpoints{
		Login: transport.For(h.Login).RequestFromJSON().Build(log),
	}
}

func NewAuthRoutes(endpoints *AuthEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Post("/api/v1/token", endpoints.Login)
	}
}
