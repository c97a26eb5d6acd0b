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
	contentCategory    string
	contentFolder      string
	contentTags        []string
	contentPublic      bool
	contentDescription string
	contentExpires     int
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage training material files",
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List files",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
		query := services.ContentQuery{
			PaginationParams: pagination(),
			Category:         contentCategory,
			Folder:           contentFolder,
			Tags:             contentTags,
			Keyword:          listKeyword,
		}
		if contentPublic {
			query.IsPublic = &contentPublic
		}
		return cli.Show(ctx, app, "content list", func(ctx context.Context) (*types.Page[types.FileInfo], error) {
			return app.Services.Content.List(ctx, query)
		})
	}),
}

var contentUploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload one or more files",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		meta := types.UploadFileRequest{
			Category:    contentCategory,
			Description: contentDescription,
			Folder:      contentFolder,
			IsPublic:    contentPublic,
		}
		if len(contentTags) > 0 {
			meta.Tags = strings.Join(contentTags, ",")
		}

		if len(args) == 1 {
			return cli.Show(ctx, app, "content upload", func(ctx context.Context) (*types.FileInfo, error) {
				return app.Services.Content.UploadFile(ctx, args[0], meta)
			})
		}
		return cli.Show(ctx, app, "content upload", func(ctx context.Context) ([]types.FileInfo, error) {
			return app.Services.Content.UploadFiles(ctx, args, meta)
		})
	}),
}

var contentDeleteCmd = &cobra.Command{
	Use:   "delete [file]...",
	Short: "Delete files by name",
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		if len(args) == 0 {
			name, err := pickFile(ctx, app)
			if err != nil {
				return err
			}
			args = []string{name}
		}

		if len(args) == 1 {
			return cli.Exec(ctx, app, "content delete", func(ctx context.Context) error {
				return app.Services.Content.Delete(ctx, args[0])
			}, fmt.Sprintf("%s deleted", args[0]))
		}
		return cli.Exec(ctx, app, "content delete", func(ctx context.Context) error {
			return app.Services.Content.BatchDelete(ctx, args)
		}, fmt.Sprintf("%d files deleted", len(args)))
	}),
}

var contentURLCmd = &cobra.Command{
	Use:   "url [file]",
	Short: "Create a signed download link",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			picked, err := pickFile(ctx, app)
			if err != nil {
				return err
			}
			name = picked
		}

		signed, err := cli.Fetch(ctx, app, "content url", func(ctx context.Context) (*types.SignedURL, error) {
			return app.Services.Content.SignedURL(ctx, name, contentExpires)
		})
		if err != nil {
			return err
		}
		if app.Printer.Format() == cli.FormatText {
			fmt.Fprintln(app.Out(), signed.URL)
			return nil
		}
		return app.Printer.Print(signed)
	}),
}

// pickFile asks for a file name when none was given on the command line
func pickFile(ctx context.Context, app *cli.App) (string, error) {
	if !cli.IsInteractive() {
		return "", fmt.Errorf("a file name is required when stdin is not a terminal")
	}
	return app.PickContent(ctx)
}

func init() {
	addListFlags(contentListCmd)
	for _, cmd := range []*cobra.Command{contentListCmd, contentUploadCmd} {
		cmd.Flags().StringVarP(&contentCategory, "category", "c", "", "Category")
		cmd.Flags().StringVar(&contentFolder, "folder", "", "Folder")
		cmd.Flags().StringSliceVar(&contentTags, "tags", nil, "Tags (comma separated)")
		cmd.Flags().BoolVar(&contentPublic, "public", false, "Public files only / upload as public")
	}
	contentUploadCmd.Flags().StringVarP(&contentDescription, "description", "d", "", "Description")
	contentURLCmd.Flags().IntVar(&contentExpires, "expires", 3600, "Link lifetime in seconds")

	contentCmd.AddCommand(contentListCmd, contentUploadCmd, contentDeleteCmd, contentURLCmd)
}
