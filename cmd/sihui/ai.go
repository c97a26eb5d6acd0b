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
	chatMode    string
	chatSession string
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Talk to the training assistant",
}

var aiChatCmd = &cobra.Command{
	Use:   "chat <message>...",
	Short: "Send one message to the assistant",
	Long: `Send one message to the assistant and print its reply.

Modes: general, conversation (keeps context via --session), knowledge
(answers from the knowledge base) and memory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		mode, err := services.ParseChatMode(chatMode)
		if err != nil {
			return err
		}

		req := types.ChatRequest{Message: strings.Join(args, " "), SessionID: chatSession}
		if user := app.Auth.CheckAuth().User; user != nil {
			req.UserID = user.ID
		}

		reply, err := cli.Fetch(ctx, app, "ai chat", func(ctx context.Context) (*types.ChatResponse, error) {
			return app.Services.AI.Chat(ctx, mode, req)
		})
		if err != nil {
			return err
		}

		if app.Printer.Format() != cli.FormatText {
			return app.Printer.Print(reply)
		}
		fmt.Fprintln(app.Out(), reply.Response)
		if reply.SessionID != "" {
			app.Logger.WithField("session", reply.SessionID).Debug("Chat session")
		}
		return nil
	}),
}

func init() {
	aiChatCmd.Flags().StringVarP(&chatMode, "mode", "m", "general", "general, conversation, knowledge or memory")
	aiChatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "Session id to continue")

	aiCmd.AddCommand(aiChatCmd)
}
