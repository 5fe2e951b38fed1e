package config

import (
	"log/slog"
	"time"

	"github.com/edopt/chatbot/pkg/service/llm"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Anthropic holds configuration for the chat model client
type Anthropic struct {
	apiKey     string
	model      string
	maxTokens  int64
	baseURL    string
	maxRetries int64
	timeout    time.Duration
}

// Flags returns CLI flags for Anthropic configuration
func (a *Anthropic) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("EDOPT_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"),
			Destination: &a.apiKey,
		},
		&cli.StringFlag{
			Name:        "anthropic-model",
			Usage:       "Claude model name",
			Value:       llm.DefaultModel,
			Sources:     cli.EnvVars("EDOPT_ANTHROPIC_MODEL"),
			Destination: &a.model,
		},
		&cli.Int64Flag{
			Name:        "anthropic-max-tokens",
			Usage:       "Output token limit of a single model call",
			Value:       llm.DefaultMaxTokens,
			Sources:     cli.EnvVars("EDOPT_ANTHROPIC_MAX_TOKENS"),
			Destination: &a.maxTokens,
		},
		&cli.StringFlag{
			Name:        "anthropic-base-url",
			Usage:       "Alternative Anthropic API endpoint",
			Sources:     cli.EnvVars("EDOPT_ANTHROPIC_BASE_URL"),
			Destination: &a.baseURL,
		},
		&cli.Int64Flag{
			Name:        "anthropic-max-retries",
			Usage:       "Retries of a failed API request",
			Value:       2,
			Sources:     cli.EnvVars("EDOPT_ANTHROPIC_MAX_RETRIES"),
			Destination: &a.maxRetries,
		},
		&cli.DurationFlag{
			Name:        "anthropic-request-timeout",
			Usage:       "Timeout of a single HTTP attempt to the API (0 disables)",
			Sources:     cli.EnvVars("EDOPT_ANTHROPIC_REQUEST_TIMEOUT"),
			Destination: &a.timeout,
		},
	}
}

// LogAttrs returns log attributes for the Anthropic configuration
func (a *Anthropic) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("model", a.model),
		slog.Int64("max_tokens", a.maxTokens),
		slog.String("base_url", a.baseURL),
		slog.Bool("api_key_set", a.apiKey != ""),
	}
}

// Configure creates the Claude chat model from the configured flags
func (a *Anthropic) Configure() (*llm.Claude, error) {
	if a.apiKey == "" {
		return nil, goerr.Wrap(ErrMissingAPIKey, "anthropic-api-key is required", goerr.V(FieldKey, "anthropic-api-key"))
	}

	opts := []llm.Option{
		llm.WithModel(a.model),
		llm.WithMaxRetries(int(a.maxRetries)),
	}
	if a.maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(a.maxTokens))
	}
	if a.baseURL != "" {
		opts = append(opts, llm.WithBaseURL(a.baseURL))
	}
	if a.timeout > 0 {
		opts = append(opts, llm.WithRequestTimeout(a.timeout))
	}

	client, err := llm.NewClaude(a.apiKey, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Claude client")
	}
	return client, nil
}
