package replayapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fckoffmw/replay-service/internal/gateway"
	"github.com/fckoffmw/replay-service/internal/session"
)

// AuthService exchanges credentials for a token. The request body shape
// follows the configured identity mode; persisting the returned token is the
// caller's job, the credential stays owned by the session store.
type AuthService struct {
	gateway *gateway.Gateway
	mode    session.IdentityMode
}

func NewAuthService(gw *gateway.Gateway, mode session.IdentityMode) *AuthService {
	return &AuthService{gateway: gw, mode: mode}
}

type authResponse struct {
	Token string `json:"token"`
}

func (s *AuthService) Login(ctx context.Context, login, password string) (string, error) {
	var body any
	if s.mode == session.IdentityModeEmail {
		body = map[string]string{"email": login, "password": password}
	} else {
		body = map[string]string{"login": login, "password": password}
	}

	var resp authResponse
	err := s.gateway.Do(ctx, http.MethodPost, "/auth/login", body, &resp)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return resp.Token, nil
}

func (s *AuthService) Register(ctx context.Context, login, password string) (string, error) {
	var body any
	if s.mode == session.IdentityModeEmail {
		body = map[string]string{"username": login, "email": login, "password": password}
	} else {
		body = map[string]string{"login": login, "password": password}
	}

	var resp authResponse
	err := s.gateway.Do(ctx, http.MethodPost, "/auth/register", body, &resp)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return resp.Token, nil
}
