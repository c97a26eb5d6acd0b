package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/studiowebux/sihui/internal/client"
	"github.com/studiowebux/sihui/internal/session"
	"github.com/studiowebux/sihui/internal/types"
)

// ErrNoRefreshToken is returned by Refresh when no refresh token is stored
var ErrNoRefreshToken = errors.New("no refresh token stored")

// AuthService wraps /api/auth and keeps the credential store in sync
type AuthService struct {
	c     *client.Client
	store session.Store
}

// Login authenticates and persists the returned credentials when a token is present
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*types.AuthResponse, error) {
	resp, err := ref(post[types.AuthResponse](ctx, s.c, "/api/auth/login", types.LoginRequest{
		UsernameOrEmail: usernameOrEmail,
		Password:        password,
	}))
	if err != nil {
		return nil, err
	}

	if resp.Token != "" {
		if err := session.SaveAuth(s.store, resp); err != nil {
			return nil, fmt.Errorf("failed to save credentials: %w", err)
		}
	}
	return resp, nil
}

// Refresh exchanges the stored refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context) (*types.AuthResponse, error) {
	refreshToken := session.RefreshToken(s.store)
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	resp, err := ref(post[types.AuthResponse](ctx, s.c, "/api/auth/refresh", types.RefreshTokenRequest{
		RefreshToken: refreshToken,
	}))
	if err != nil {
		return nil, err
	}

	if resp.Token != "" {
		if err := session.SaveTokens(s.store, resp.Token, resp.RefreshToken); err != nil {
			return nil, fmt.Errorf("failed to save tokens: %w", err)
		}
	}
	return resp, nil
}

// Logout ends the server session. Local credentials are cleared whatever the server answers.
func (s *AuthService) Logout(ctx context.Context) (err error) {
	defer func() {
		if clearErr := session.ClearAuth(s.store); clearErr != nil && err == nil {
			err = fmt.Errorf("failed to clear credentials: %w", clearErr)
		}
	}()
	return exec(ctx, s.c, client.Request{Method: http.MethodPost, Endpoint: "/api/auth/logout"})
}

// CurrentUser returns the cached profile
func (s *AuthService) CurrentUser() (*types.User, error) {
	return session.LoadUser(s.store)
}

// IsAuthenticated reports whether a token is stored
func (s *AuthService) IsAuthenticated() bool {
	return session.Token(s.store) != ""
}

// Sessions lists the active sessions of the current account
func (s *AuthService) Sessions(ctx context.Context) ([]types.UserSession, error) {
	return get[[]types.UserSession](ctx, s.c, "/api/auth/enhanced/sessions", nil)
}

// SessionStats summarizes sessions
func (s *AuthService) SessionStats(ctx context.Context) (*types.SessionStats, error) {
	return ref(get[types.SessionStats](ctx, s.c, "/api/auth/enhanced/sessions/stats", nil))
}

// TerminateSession ends one session
func (s *AuthService) TerminateSession(ctx context.Context, sessionID string) error {
	return exec(ctx, s.c, client.Request{
		Method:   http.MethodDelete,
		Endpoint: "/api/auth/enhanced/sessions/" + sessionID,
	})
}

// TerminateAllSessions ends every session of the current account
func (s *AuthService) TerminateAllSessions(ctx context.Context) error {
	return exec(ctx, s.c, client.Request{Method: http.MethodDelete, Endpoint: "/api/auth/enhanced/sessions/all"})
}

// MfaConfig reads the multi-factor configuration
func (s *AuthService) MfaConfig(ctx context.Context) (*types.MfaConfig, error) {
	return ref(get[types.MfaConfig](ctx, s.c, "/api/auth/mfa/config", nil))
}
