package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/studiowebux/sihui/internal/services"
	"github.com/studiowebux/sihui/internal/types"
)

// pickPageSize is how many entries the pickers load
const pickPageSize = 50

// ResolveID parses args[0] as an id, or lets the user pick one interactively
func (a *App) ResolveID(ctx context.Context, args []string, pick func(context.Context) (types.ID, error)) (types.ID, error) {
	if len(args) > 0 {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid id %q", args[0])
		}
		return types.ID(n), nil
	}
	if !IsInteractive() {
		return 0, fmt.Errorf("an id is required when stdin is not a terminal")
	}
	return pick(ctx)
}

// PickQuestionnaire lists questionnaires and lets the user choose one
func (a *App) PickQuestionnaire(ctx context.Context) (types.ID, error) {
	page, err := Fetch(ctx, a, "questionnaires list", func(ctx context.Context) (*types.Page[types.Questionnaire], error) {
		return a.Services.Questionnaires.List(ctx, services.QuestionnaireQuery{
			PaginationParams: types.PaginationParams{Size: pickPageSize},
		})
	})
	if err != nil {
		return 0, err
	}
	return pickID("Select a questionnaire", questionnaireOptions(page.Content))
}

// PickUser lists users and lets the user choose one
func (a *App) PickUser(ctx context.Context) (types.ID, error) {
	page, err := Fetch(ctx, a, "users list", func(ctx context.Context) (*types.Page[types.User], error) {
		return a.Services.Users.List(ctx, services.UserQuery{
			PaginationParams: types.PaginationParams{Size: pickPageSize},
		})
	})
	if err != nil {
		return 0, err
	}
	return pickID("Select a user", userOptions(page.Content))
}

// PickContent lists files and lets the user choose one by name
func (a *App) PickContent(ctx context.Context) (string, error) {
	page, err := Fetch(ctx, a, "content list", func(ctx context.Context) (*types.Page[types.FileInfo], error) {
		return a.Services.Content.List(ctx, services.ContentQuery{
			PaginationParams: types.PaginationParams{Size: pickPageSize},
		})
	})
	if err != nil {
		return "", err
	}

	options := make([]Option, 0, len(page.Content))
	for _, f := range page.Content {
		options = append(options, Option{Value: f.FileName, Label: f.FileName, Note: f.Category})
	}
	return Pick("Select a file", options)
}

func pickID(title string, options []Option) (types.ID, error) {
	choice, err := Pick(title, options)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(choice, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", choice)
	}
	return types.ID(n), nil
}

func questionnaireOptions(items []types.Questionnaire) []Option {
	options := make([]Option, 0, len(items))
	for _, q := range items {
		options = append(options, Option{Value: q.ID.String(), Label: q.Title, Note: q.Status})
	}
	return options
}

func userOptions(items []types.User) []Option {
	options := make([]Option, 0, len(items))
	for _, u := range items {
		options = append(options, Option{Value: u.ID.String(), Label: u.DisplayName(), Note: u.Status})
	}
	return options
}
