package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
	"github.com/studiowebux/sihui/internal/config"
	"github.com/studiowebux/sihui/internal/mock"
)

var (
	mockConfigPath string
	mockAddr       string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve canned API responses for local testing",
	Long: `Start a mock Sihui backend.

Routes are read from --routes, then ~/.sihui/mock.yaml. Without either,
the built-in routes are served: login, refresh, logout,
the current user, a small user listing and a healthy health report.
Point the client at the server root, e.g. --api-url http://localhost:8080.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		path := mockConfigPath
		if path == "" {
			if _, err := os.Stat(config.MockConfigFile); err == nil {
				path = config.MockConfigFile
			}
		}

		cfg := mock.DefaultConfig()
		if path != "" {
			loaded, err := mock.LoadConfig(path)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		logger := cli.NewLogger(flagVerbose, cmd.ErrOrStderr())
		server := mock.NewServer(cfg, logger)
		if err := server.Start(mockAddr); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mock server %q listening on %s (%d routes)\n", cfg.Name, server.Address(), len(cfg.Routes))

		<-cmd.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Stop(ctx)
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockConfigPath, "routes", "", "Route file (.yaml or .json)")
	mockCmd.Flags().StringVar(&mockAddr, "addr", "localhost:8080", "Listen address")
}
