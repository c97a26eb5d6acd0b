package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
)

var (
	benchOpts  cli.BenchOptions
	benchRuns  bool
	benchLimit int
)

var benchCmd = &cobra.Command{
	Use:   "bench [method] [endpoint]",
	Short: "Load-test one endpoint",
	Long: `Send many concurrent requests to one endpoint and report latency percentiles.

Requests carry the stored token and honour rate_limit. Nothing is retried.
Finished runs are kept in the local database; list them with --runs.

Examples:
  sihui bench GET /api/monitoring/health -n 200 -c 10
  sihui bench GET /api/questionnaires -q size=20 --ramp-up 5s --duration 30s
  sihui bench --runs`,
	Args: func(cmd *cobra.Command, args []string) error {
		if benchRuns {
			return cobra.NoArgs(cmd, args)
		}
		if len(args) != 2 {
			return fmt.Errorf("expected <method> <endpoint>")
		}
		return nil
	},
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		if benchRuns {
			return app.BenchRuns(benchLimit)
		}
		opts := benchOpts
		opts.Method, opts.Endpoint = args[0], args[1]
		return app.Bench(ctx, opts)
	}),
}

func init() {
	benchCmd.Flags().IntVarP(&benchOpts.Requests, "requests", "n", 100, "Total requests")
	benchCmd.Flags().IntVarP(&benchOpts.Concurrency, "concurrency", "c", 10, "Concurrent workers")
	benchCmd.Flags().DurationVar(&benchOpts.RampUp, "ramp-up", 0, "Spread request starts over this window")
	benchCmd.Flags().DurationVar(&benchOpts.Duration, "duration", 0, "Stop after this long (0 = when all requests finish)")
	benchCmd.Flags().StringArrayVarP(&benchOpts.Query, "param", "q", nil, "Query parameter key=value (repeatable)")
	benchCmd.Flags().StringVarP(&benchOpts.Body, "data", "d", "", "JSON request body")
	benchCmd.Flags().BoolVar(&benchOpts.NoSave, "no-save", false, "Do not store the run")
	benchCmd.Flags().BoolVar(&benchRuns, "runs", false, "List stored runs instead of running")
	benchCmd.Flags().IntVar(&benchLimit, "limit", 20, "Number of stored runs to list with --runs")

	rootCmd.AddCommand(benchCmd)
}
