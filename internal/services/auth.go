package services

import (
	"context"
	"net/http"

	"marketplace-client/internal/gateway"
	"marketplace-client/internal/models"
)

// AuthService talks to /auth. It satisfies session.Authenticator.
type AuthService struct {
	doer gateway.Doer
}

func NewAuthService(d gateway.Doer) *AuthService {
	return &AuthService{doer: d}
}

// Login never carries a bearer and a rejection does not tear the current session down
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	return gateway.Call[models.LoginResponse](ctx, s.doer, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      req,
		Anonymous: true,
	})
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	return gateway.Exec(ctx, s.doer, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		Body:      req,
		Anonymous: true,
	})
}

func (s *AuthService) Me(ctx context.Context) (models.AuthUser, error) {
	return gateway.Call[models.AuthUser](ctx, s.doer, gateway.Request{Path: "/auth/me"})
}
