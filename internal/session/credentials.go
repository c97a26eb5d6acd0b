package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/studiowebux/sihui/internal/types"
)

// ErrNoUser is returned when no profile is cached
var ErrNoUser = errors.New("no cached user")

// authKeys are the keys owned by a login
var authKeys = []string{KeyToken, KeyRefreshToken, KeyUser, KeyLoggedIn}

// Token returns the stored bearer token, if any
func Token(store Store) string {
	token, _ := store.Get(KeyToken)
	return token
}

// RefreshToken returns the stored refresh token, if any
func RefreshToken(store Store) string {
	token, _ := store.Get(KeyRefreshToken)
	return token
}

// SaveAuth persists a login response: tokens, the cached profile and the legacy flag
func SaveAuth(store Store, resp *types.AuthResponse) error {
	if resp == nil || resp.Token == "" {
		return fmt.Errorf("auth response carries no token")
	}
	if err := SaveTokens(store, resp.Token, resp.RefreshToken); err != nil {
		return err
	}
	if resp.User != nil {
		if err := SaveUser(store, resp.User); err != nil {
			return err
		}
	}
	if err := store.Set(KeyLoggedIn, "true"); err != nil {
		return fmt.Errorf("failed to store login flag: %w", err)
	}
	return nil
}

// SaveTokens persists the access and refresh tokens
func SaveTokens(store Store, token, refreshToken string) error {
	if err := store.Set(KeyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if refreshToken != "" {
		if err := store.Set(KeyRefreshToken, refreshToken); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}
	return nil
}

// SaveUser caches the profile as JSON
func SaveUser(store Store, user *types.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := store.Set(KeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// LoadUser returns the cached profile
func LoadUser(store Store) (*types.User, error) {
	raw, ok := store.Get(KeyUser)
	if !ok || raw == "" {
		return nil, ErrNoUser
	}
	var user types.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to parse cached user: %w", err)
	}
	return &user, nil
}

// ClearAuth removes every credential written by a login
func ClearAuth(store Store) error {
	return store.Clear(authKeys...)
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// ok is false for opaque tokens or tokens without exp.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenSubject reads the sub claim of a JWT without verifying it
func TokenSubject(token string) string {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	return claims.Subject
}
