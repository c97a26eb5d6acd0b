package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the token pair",
	Long: `Sign in with a username or email.

The password is read from -p, then SIHUI_PASSWORD, then an interactive prompt.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Login(ctx, loginUsername, loginPassword)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the stored tokens",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Logout(ctx)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, app *cli.App, _ []string) error {
		return app.Status()
	}),
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new token pair",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Refresh(ctx)
	}),
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prefer SIHUI_PASSWORD or the prompt)")
}
