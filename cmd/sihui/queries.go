package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Manage saved JMESPath queries",
	Long: `Save expressions under a name and reuse them with --query @name or --filter @name.

Examples:
  sihui queries save names 'data.content[].username'
  sihui request GET /api/users --query @names`,
}

var queriesSaveCmd = &cobra.Command{
	Use:   "save <name> <expression>",
	Short: "Save or replace a query",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(_ context.Context, app *cli.App, args []string) error {
		return app.SaveQuery(args[0], args[1])
	}),
}

var queriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved queries",
	Args:  cobra.NoArgs,
	RunE: withApp(func(_ context.Context, app *cli.App, _ []string) error {
		return app.ListQueries()
	}),
}

var queriesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved query",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(_ context.Context, app *cli.App, args []string) error {
		return app.DeleteQuery(args[0])
	}),
}

func init() {
	queriesCmd.AddCommand(queriesSaveCmd, queriesListCmd, queriesDeleteCmd)
	rootCmd.AddCommand(queriesCmd)
}
