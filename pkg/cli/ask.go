package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/edopt/chatbot/pkg/cli/config"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdAsk() *cli.Command {
	var sessionID string
	var showTools bool
	var rt runtimeConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session",
			Usage:       "Continue an existing conversation",
			Destination: &sessionID,
		},
		&cli.BoolFlag{
			Name:        "show-tools",
			Usage:       "Print the tool calls made for the answer",
			Destination: &showTools,
		},
	}
	flags = append(flags, rt.chatFlags()...)

	return &cli.Command{
		Name:      "ask",
		Aliases:   []string{"a"},
		Usage:     "Ask the assistant a single question from the terminal",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return goerr.New("question is required")
			}

			appCfg, err := config.LoadAppConfiguration(rt.configPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			repo, err := rt.repo.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer closeRepository(ctx, repo)

			_, engine, err := setupSearch(ctx, repo, &rt.gemini, appCfg)
			if err != nil {
				return err
			}

			progress := color.New(color.FgCyan)
			chat, err := setupChat(repo, engine, &rt.anthropic, appCfg,
				usecase.WithToolUpdate(func(_ context.Context, msg string) {
					_, _ = progress.Fprintf(os.Stderr, "  %s\n", msg)
				}),
			)
			if err != nil {
				return err
			}

			out, err := chat.Process(ctx, usecase.ChatInput{
				SessionID:     model.SessionID(sessionID),
				Message:       question,
				ClientAddress: "cli",
			})
			if err != nil {
				return goerr.Wrap(err, "failed to answer question")
			}

			if showTools {
				for _, tc := range out.ToolCalls {
					_, _ = color.New(color.FgYellow).Fprintf(os.Stderr, "  [%s] %v\n", tc.Tool, tc.Input)
				}
			}

			fmt.Println(out.Answer)
			if !out.Persisted {
				_, _ = color.New(color.FgRed).Fprintln(os.Stderr, "(this exchange was not saved)")
			}
			_, _ = color.New(color.Faint).Fprintf(os.Stderr, "session: %s\n", out.SessionID)
			return nil
		},
	}
}
