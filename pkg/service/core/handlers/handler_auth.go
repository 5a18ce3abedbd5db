package handlers

import (
	"context"
	"net/http"

	"github.com/exweb/exweb-backend/pkg/service"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Login(ctx context.Context, _ *http.Request, in service.LoginRequest) (*service.TokenResponse, error) {
	return h.service.Login(ctx, in)
}
