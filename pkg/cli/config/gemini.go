package config

import (
	"context"
	"log/slog"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/service/embedding"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for the Vertex AI embedding client
type Gemini struct {
	projectID string
	location  string
	batchSize int64
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for the embedding model",
			Sources:     cli.EnvVars("EDOPT_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for the embedding model",
			Value:       "us-central1",
			Sources:     cli.EnvVars("EDOPT_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.Int64Flag{
			Name:        "embedding-batch-size",
			Usage:       "Number of texts per embedding request",
			Value:       embedding.DefaultBatchSize,
			Sources:     cli.EnvVars("EDOPT_EMBEDDING_BATCH_SIZE"),
			Destination: &g.batchSize,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.Int64("batch_size", g.batchSize),
	}
}

// Enabled reports whether a project is configured
func (g *Gemini) Enabled() bool {
	return g.projectID != ""
}

// Configure returns an embedding service whose Gemini client is created on
// first use. Returns nil if projectID is not configured (semantic search
// will be disabled).
func (g *Gemini) Configure() *embedding.Service {
	if !g.Enabled() {
		return nil
	}

	projectID, location := g.projectID, g.location
	factory := func(ctx context.Context) (gollem.LLMClient, error) {
		client, err := gemini.New(ctx, projectID, location)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client",
				goerr.V("project_id", projectID), goerr.V("location", location))
		}
		return client, nil
	}

	return embedding.New(factory,
		embedding.WithDimension(model.EmbeddingDimension),
		embedding.WithBatchSize(int(g.batchSize)),
	)
}
