package cli

import (
	"context"
	"os"

	"github.com/edopt/chatbot/pkg/cli/config"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdReindex() *cli.Command {
	var typeNames []string
	var rt runtimeConfig

	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "Content type to rebuild (repeatable). All types when omitted.",
			Destination: &typeNames,
		},
	}
	flags = append(flags, rt.storageFlags()...)

	return &cli.Command{
		Name:    "reindex",
		Aliases: []string{"r"},
		Usage:   "Rebuild stored embeddings from the ingested content",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			contentTypes := make([]types.ContentType, 0, len(typeNames))
			for _, name := range typeNames {
				ct, err := types.ParseContentType(name)
				if err != nil {
					return goerr.Wrap(err, "invalid content type", goerr.V("type", name))
				}
				contentTypes = append(contentTypes, ct)
			}

			if _, err := config.LoadAppConfiguration(rt.configPath); err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			embedder := rt.gemini.Configure()
			if embedder == nil {
				return goerr.New("gemini-project is required to compute embeddings")
			}

			repo, err := rt.repo.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer closeRepository(ctx, repo)

			// Running servers pick up the new vectors on their next refresh
			index := usecase.NewIndexUseCase(repo, embedder, nil)
			counts, err := index.Rebuild(ctx, contentTypes...)
			if err != nil {
				return goerr.Wrap(err, "failed to rebuild index")
			}

			total := 0
			for _, ct := range types.AllContentTypes() {
				n, ok := counts[ct]
				if !ok {
					continue
				}
				total += n
				_, _ = color.New(color.FgGreen).Fprintf(os.Stdout, "%-12s", ct)
				_, _ = color.New(color.Bold).Fprintf(os.Stdout, "%6d records\n", n)
			}
			logging.Default().Info("Reindex completed", "records", total)
			return nil
		},
	}
}
