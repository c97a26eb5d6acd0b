package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
)

var rawRequest cli.RawRequest

var requestCmd = &cobra.Command{
	Use:   "request <method> <endpoint>",
	Short: "Send a raw authenticated request",
	Long: `Send any request through the authenticated client and print the response envelope.

Examples:
  sihui request GET /api/users -q page=0 -q size=5
  sihui request PATCH /api/users/3/status -q status=ACTIVE
  sihui request POST /api/roles -d '{"name":"TRAINER"}'`,
	Args: cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		raw := rawRequest
		raw.Method, raw.Endpoint = args[0], args[1]
		return app.Request(ctx, raw)
	}),
}

func init() {
	requestCmd.Flags().StringArrayVarP(&rawRequest.Query, "param", "q", nil, "Query parameter key=value (repeatable)")
	requestCmd.Flags().StringVarP(&rawRequest.Body, "data", "d", "", "JSON request body")
}
