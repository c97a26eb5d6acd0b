package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studiowebux/sihui/internal/cli"
	"github.com/studiowebux/sihui/internal/services"
	"github.com/studiowebux/sihui/internal/types"
)

var questionnaireType string

var questionnairesCmd = &cobra.Command{
	Use:     "questionnaires",
	Aliases: []string{"q", "questionnaire"},
	Short:   "Manage questionnaires",
}

var questionnairesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questionnaires",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		return cli.Show(ctx, app, "questionnaires list", func(ctx context.Context) (*types.Page[types.Questionnaire], error) {
			return app.Services.Questionnaires.List(ctx, services.QuestionnaireQuery{
				PaginationParams: pagination(),
				Status:           listStatus,
				Type:             questionnaireType,
				Keyword:          listKeyword,
			})
		})
	}),
}

var questionnairesGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one questionnaire",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := app.ResolveID(ctx, args, app.PickQuestionnaire)
		if err != nil {
			return err
		}
		return cli.Show(ctx, app, "questionnaires get", func(ctx context.Context) (*types.Questionnaire, error) {
			return app.Services.Questionnaires.Get(ctx, id)
		})
	}),
}

var questionnairesPublishCmd = &cobra.Command{
	Use:   "publish [id]",
	Short: "Publish a draft questionnaire",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := app.ResolveID(ctx, args, app.PickQuestionnaire)
		if err != nil {
			return err
		}
		return cli.Exec(ctx, app, "questionnaires publish", func(ctx context.Context) error {
			return app.Services.Questionnaires.Publish(ctx, id)
		}, fmt.Sprintf("Questionnaire %s published", id))
	}),
}

var questionnairesCloseCmd = &cobra.Command{
	Use:   "close [id]",
	Short: "Stop accepting answers",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := app.ResolveID(ctx, args, app.PickQuestionnaire)
		if err != nil {
			return err
		}
		return cli.Exec(ctx, app, "questionnaires close", func(ctx context.Context) error {
			return app.Services.Questionnaires.Close(ctx, id)
		}, fmt.Sprintf("Questionnaire %s closed", id))
	}),
}

var questionnairesStatsCmd = &cobra.Command{
	Use:   "stats [id]",
	Short: "Show answer statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		id, err := app.ResolveID(ctx, args, app.PickQuestionnaire)
		if err != nil {
			return err
		}
		return cli.Show(ctx, app, "questionnaires stats", func(ctx context.Context) (*types.QuestionnaireStats, error) {
			return app.Services.Questionnaires.Stats(ctx, id)
		})
	}),
}

func init() {
	addListFlags(questionnairesListCmd)
	questionnairesListCmd.Flags().StringVar(&listStatus, "status", "", "DRAFT, PUBLISHED or CLOSED")
	questionnairesListCmd.Flags().StringVar(&questionnaireType, "type", "", "Questionnaire type filter")

	questionnairesCmd.AddCommand(
		questionnairesListCmd,
		questionnairesGetCmd,
		questionnairesPublishCmd,
		questionnairesCloseCmd,
		questionnairesStatsCmd,
	)
}
