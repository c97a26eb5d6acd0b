package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !cli.IsReported(err) && !errors.Is(err, cli.ErrCancelled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sihui",
	Short: "Sihui - training platform command line client",
	Long: `Sihui talks to the Sihui training platform API.

Sign in once with 'sihui login'; the token pair is kept in ~/.sihui/credentials.json
and refreshed automatically before it expires. Failed calls are classified and
reported on stderr, and every exchange is logged locally for 'sihui history'
and 'sihui stats'.

Examples:
  sihui login -u admin                     # Prompt for the password
  sihui users list --status ACTIVE         # List active users
  sihui questionnaires publish             # Pick a questionnaire and publish it
  sihui content upload slides.pdf -c Safety
  sihui monitor watch --interval 10s       # Poll the health endpoint
  sihui request GET /api/users -q page=0 --query 'data.content[].username'
  sihui mock --addr :8080                  # Serve canned API responses`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Global flags
var (
	flagAPIURL  string
	flagTimeout time.Duration
	flagRetries int
	flagOutput  string
	flagFilter  string
	flagQuery   string
	flagVerbose bool
	flagConfig  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL (overrides SIHUI_API_URL and the config file)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Request timeout (default from config, 10s)")
	rootCmd.PersistentFlags().IntVar(&flagRetries, "retries", -1, "Retry budget for failed calls (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text)")
	rootCmd.PersistentFlags().StringVar(&flagFilter, "filter", "", "JMESPath filter applied to the result")
	rootCmd.PersistentFlags().StringVar(&flagQuery, "query", "", "JMESPath query or $(shell command) applied after --filter")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log requests and retries")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.sihui/config.yaml)")

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd, refreshCmd)
	rootCmd.AddCommand(usersCmd, questionnairesCmd, contentCmd, aiCmd, monitorCmd)
	rootCmd.AddCommand(requestCmd, historyCmd, statsCmd, mockCmd)
}

// newApp builds the client stack from the global flags
func newApp(cmd *cobra.Command) (*cli.App, error) {
	return cli.NewApp(cli.Options{
		APIURL:     flagAPIURL,
		Timeout:    flagTimeout,
		Retries:    flagRetries,
		Output:     flagOutput,
		Filter:     flagFilter,
		Query:      flagQuery,
		Verbose:    flagVerbose,
		ConfigPath: flagConfig,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
	})
}

// withApp adapts an App-level action to a cobra RunE
func withApp(run func(ctx context.Context, app *cli.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd.Context(), app, args)
	}
}
