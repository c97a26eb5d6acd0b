package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
)

var (
	historyLimit int
	historyClear bool
	statsAll     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently logged requests",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, app *cli.App, _ []string) error {
		return app.ShowHistory(historyLimit, historyClear)
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-endpoint request statistics",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, app *cli.App, _ []string) error {
		return app.ShowStats(statsAll)
	}),
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show (0 = all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the request log")
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "Include every API host, not just the current one")
}
