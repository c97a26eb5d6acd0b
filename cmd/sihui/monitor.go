package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
	"github.com/studiowebux/sihui/internal/types"
)

var watchOpts cli.WatchOptions

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Inspect backend health and performance",
}

var monitorHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show the health report",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return cli.Show(ctx, app, "monitor health", app.Services.Monitoring.Health)
	}),
}

var monitorMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show system metrics",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return cli.Show(ctx, app, "monitor metrics", func(ctx context.Context) (*types.SystemMetrics, error) {
			return app.Services.Monitoring.Metrics(ctx)
		})
	}),
}

var monitorOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show health, metrics and performance together",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Overview(ctx)
	}),
}

var monitorWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the health endpoint until interrupted",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return app.Watch(ctx, watchOpts)
	}),
}

func init() {
	monitorWatchCmd.Flags().DurationVar(&watchOpts.Interval, "interval", 5*time.Second, "Time between polls")
	monitorWatchCmd.Flags().IntVar(&watchOpts.Count, "count", 0, "Stop after this many polls (0 = forever)")
	monitorWatchCmd.Flags().StringVar(&watchOpts.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	monitorCmd.AddCommand(monitorHealthCmd, monitorMetricsCmd, monitorOverviewCmd, monitorWatchCmd)
}
