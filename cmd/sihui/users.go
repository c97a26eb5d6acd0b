package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
	"github.com/studiowebux/sihui/internal/services"
	"github.com/studiowebux/sihui/internal/types"
)

var (
	listPage    int
	listSize    int
	listSort    []string
	listKeyword string
	listStatus  string
	userRole    string
)

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return cli.Show(ctx, app, "users list", func(ctx context.Context) (*types.Page[types.User], error) {
			return app.Services.Users.List(ctx, services.UserQuery{
				PaginationParams: pagination(),
				Keyword:          listKeyword,
				Status:           listStatus,
				Role:             userRole,
			})
		})
	}),
}

var usersGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one user",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := app.ResolveID(ctx, args, app.PickUser)
		if err != nil {
			return err
		}
		return cli.Show(ctx, app, "users get", func(ctx context.Context) (*types.User, error) {
			return app.Services.Users.Get(ctx, id)
		})
	}),
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a user",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := app.ResolveID(ctx, args, app.PickUser)
		if err != nil {
			return err
		}
		return cli.Exec(ctx, app, "users delete", func(ctx context.Context) error {
			return app.Services.Users.Delete(ctx, id)
		}, fmt.Sprintf("User %s deleted", id))
	}),
}

var usersStatusCmd = &cobra.Command{
	Use:   "status <ACTIVE|INACTIVE|SUSPENDED> [id]",
	Short: "Change a user's account status",
	Args:  cobra.RangeArgs(1, 2),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		status := strings.ToUpper(args[0])
		switch status {
		case types.UserActive, types.UserInactive, types.UserSuspended:
		default:
			return fmt.Errorf("invalid status %q (expected ACTIVE, INACTIVE or SUSPENDED)", args[0])
		}

		id, err := app.ResolveID(ctx, args[1:], app.PickUser)
		if err != nil {
			return err
		}
		return cli.Exec(ctx, app, "users status", func(ctx context.Context) error {
			return app.Services.Users.UpdateStatus(ctx, id, status)
		}, fmt.Sprintf("User %s is now %s", id, status))
	}),
}

// pagination builds list paging from the shared list flags
func pagination() types.PaginationParams {
	var sorts []string
	for _, raw := range listSort {
		sorts = append(sorts, types.ParseSort(raw)...)
	}
	return types.PaginationParams{Page: listPage, Size: listSize, Sort: sorts}
}

// addListFlags registers the paging and keyword flags shared by list commands
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&listPage, "page", 0, "Page number (0-based)")
	cmd.Flags().IntVar(&listSize, "size", 20, "Page size")
	cmd.Flags().StringArrayVar(&listSort, "sort", nil, "Sort field,direction; repeat the flag or separate entries with ';'")
	cmd.Flags().StringVarP(&listKeyword, "keyword", "k", "", "Keyword filter")
}

func init() {
	addListFlags(usersListCmd)
	usersListCmd.Flags().StringVar(&listStatus, "status", "", "Account status filter")
	usersListCmd.Flags().StringVar(&userRole, "role", "", "Role filter")

	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersDeleteCmd, usersStatusCmd)
}
