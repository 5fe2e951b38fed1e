package cli

import (
	"context"

	"github.com/edopt/chatbot/pkg/agent/tool"
	"github.com/edopt/chatbot/pkg/agent/tool/core"
	"github.com/edopt/chatbot/pkg/cli/config"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/service/embedding"
	"github.com/edopt/chatbot/pkg/service/retrieval"
	"github.com/edopt/chatbot/pkg/service/vectorstore"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/edopt/chatbot/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// runtimeConfig groups the flags shared by commands that talk to storage and models
type runtimeConfig struct {
	configPath string
	repo       config.Repository
	gemini     config.Gemini
	anthropic  config.Anthropic
}

func (r *runtimeConfig) storageFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("EDOPT_CONFIG"),
			Destination: &r.configPath,
		},
	}
	flags = append(flags, r.repo.Flags()...)
	flags = append(flags, r.gemini.Flags()...)
	return flags
}

func (r *runtimeConfig) chatFlags() []cli.Flag {
	return append(r.storageFlags(), r.anthropic.Flags()...)
}

// setupSearch builds the in-memory vector index and fills it from storage.
// Both return values are nil when no embedding model is configured.
func setupSearch(ctx context.Context, repo interfaces.Repository, geminiCfg *config.Gemini, appCfg *config.AppConfig) (*embedding.Service, *retrieval.Engine, error) {
	embedder := geminiCfg.Configure()
	if embedder == nil {
		logging.Default().Warn("Embedding model not configured, semantic search is disabled")
		return nil, nil, nil
	}

	store := vectorstore.New(vectorstore.WithDimension(model.EmbeddingDimension))
	engine, err := retrieval.New(embedder, store,
		retrieval.WithSource(repo.Embedding()),
		retrieval.WithQueryCacheSize(appCfg.Search.QueryCacheSize),
	)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create retrieval engine")
	}

	if err := engine.Refresh(ctx); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load embedding index")
	}

	return embedder, engine, nil
}

// setupChat wires the tool registry and chat model into a ChatUseCase.
// engine may be nil, in which case the search tools report that search is unavailable.
func setupChat(repo interfaces.Repository, engine *retrieval.Engine, anthropicCfg *config.Anthropic, appCfg *config.AppConfig, extra ...usecase.ChatOption) (*usecase.ChatUseCase, error) {
	var searcher core.Searcher
	if engine != nil {
		searcher = engine
	}

	handlers := core.New(repo, searcher,
		core.WithSessionYear(appCfg.Search.SessionYear),
		core.WithSynonyms(appCfg.SynonymGroups()),
		core.WithContentTopK(appCfg.Search.DefaultTopK),
	)

	var registryOpts []tool.RegistryOption
	toolTimeout, err := appCfg.ToolTimeout()
	if err != nil {
		return nil, err
	}
	if toolTimeout > 0 {
		registryOpts = append(registryOpts, tool.WithTimeout(toolTimeout))
	}
	registry, err := tool.NewRegistry(handlers, registryOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create tool registry")
	}

	chatModel, err := anthropicCfg.Configure()
	if err != nil {
		return nil, err
	}

	opts := []usecase.ChatOption{
		usecase.WithPromptSessionYear(appCfg.Search.SessionYear),
		usecase.WithMaxHistoryTurns(appCfg.Chat.MaxHistoryTurns),
	}

	prompt, err := appCfg.SystemPrompt()
	if err != nil {
		return nil, err
	}
	if prompt != "" {
		opts = append(opts, usecase.WithSystemPrompt(prompt))
	}

	modelTimeout, err := appCfg.ModelTimeout()
	if err != nil {
		return nil, err
	}
	if modelTimeout > 0 {
		opts = append(opts, usecase.WithModelTimeout(modelTimeout))
	}

	chat, err := usecase.NewChatUseCase(repo, chatModel, registry, append(opts, extra...)...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create chat use case")
	}
	return chat, nil
}

func closeRepository(ctx context.Context, repo interfaces.Repository) {
	safe.Close(ctx, repo, "resource", "repository")
}
