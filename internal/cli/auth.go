package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/studiowebux/sihui/internal/auth"
	"github.com/studiowebux/sihui/internal/config"
	"github.com/studiowebux/sihui/internal/session"
	"github.com/studiowebux/sihui/internal/types"
)

// Status is what `sihui status` reports
type Status struct {
	APIURL        string      `json:"apiUrl" yaml:"apiUrl"`
	Authenticated bool        `json:"authenticated" yaml:"authenticated"`
	User          *types.User `json:"user,omitempty" yaml:"user,omitempty"`
	Subject       string      `json:"subject,omitempty" yaml:"subject,omitempty"`
	ExpiresAt     *time.Time  `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// Login resolves missing credentials interactively and signs in
func (a *App) Login(ctx context.Context, username, password string) error {
	var err error
	if username == "" {
		if !IsInteractive() {
			return fmt.Errorf("username is required (use -u)")
		}
		if username, err = PromptLine("Username or email: "); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}
	if password == "" {
		password = os.Getenv(config.EnvPassword)
	}
	if password == "" {
		if password, err = PromptPassword("Password: "); err != nil {
			return err
		}
	}

	result, err := Fetch(ctx, a, "login", func(ctx context.Context) (auth.LoginResult, error) {
		res := a.Auth.Login(ctx, strings.TrimSpace(username), password)
		if !res.Success {
			return res, errors.New(res.Error)
		}
		return res, nil
	})
	if err != nil {
		return err
	}

	user := a.Auth.State().User
	if user == nil || a.Printer.Format() != FormatText {
		return a.Printer.Print(result)
	}
	a.Printer.Success(fmt.Sprintf("Logged in as %s", user.DisplayName()))
	return nil
}

// Logout ends the session; local credentials are dropped even when the server call fails
func (a *App) Logout(ctx context.Context) error {
	return Exec(ctx, a, "logout", a.Auth.Logout, "Logged out")
}

// Status reports the stored session without calling the backend
func (a *App) Status() error {
	state := a.Auth.CheckAuth()
	status := Status{
		APIURL:        a.Client.BaseURL(),
		Authenticated: state.Authenticated,
		User:          state.User,
	}

	if token := session.Token(a.Store); token != "" {
		status.Subject = session.TokenSubject(token)
		if exp, ok := session.TokenExpiry(token); ok {
			status.ExpiresAt = &exp
		}
	}

	if a.Printer.Format() != FormatText {
		return a.Printer.Print(status)
	}

	a.Printer.Line("API", status.APIURL)
	if !status.Authenticated {
		a.Printer.Line("Session", errorStyle.Render("not logged in"))
		return nil
	}
	a.Printer.Line("Session", successStyle.Render("authenticated"))
	a.Printer.Line("User", fmt.Sprintf("%s (id %s)", status.User.DisplayName(), status.User.ID))
	if status.ExpiresAt != nil {
		a.Printer.Line("Expires", status.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new pair
func (a *App) Refresh(ctx context.Context) error {
	_, err := Fetch(ctx, a, "refresh", a.Services.Auth.Refresh)
	if err != nil {
		return err
	}
	a.Printer.Success("Token refreshed")
	return nil
}
