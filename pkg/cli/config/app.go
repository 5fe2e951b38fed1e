package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/edopt/chatbot/pkg/agent/tool/core"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig represents the optional TOML configuration file of the chatbot.
// Every field has a default, so an absent file yields a working service.
type AppConfig struct {
	Chat    ChatConfig    `toml:"chat"`
	Search  SearchConfig  `toml:"search"`
	HTTP    HTTPConfig    `toml:"http"`
	Timeout TimeoutConfig `toml:"timeout"`
}

// ChatConfig tunes the conversation orchestrator
type ChatConfig struct {
	MaxHistoryTurns  int    `toml:"max_history_turns"`
	SystemPromptFile string `toml:"system_prompt_file"`
}

// SearchConfig tunes retrieval and the search tools
type SearchConfig struct {
	DefaultTopK    int             `toml:"default_top_k"`
	SessionYear    int             `toml:"session_year"`
	QueryCacheSize int             `toml:"query_cache_size"`
	Synonyms       []SynonymConfig `toml:"synonym"`
}

// SynonymConfig is one legislation search expansion group
type SynonymConfig struct {
	Key   string   `toml:"key"`
	Terms []string `toml:"terms"`
}

// HTTPConfig holds cross-origin and rate limit settings of the API server
type HTTPConfig struct {
	AllowedOrigins     []string `toml:"allowed_origins"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
}

// TimeoutConfig holds time limits expressed as Go durations ("30s", "1m")
type TimeoutConfig struct {
	Model string `toml:"model"`
	Tool  string `toml:"tool"`
}

// DefaultAppConfig returns the configuration used when no file is given
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Chat: ChatConfig{
			MaxHistoryTurns: usecase.DefaultMaxHistoryTurns,
		},
		Search: SearchConfig{
			DefaultTopK:    5,
			SessionYear:    core.DefaultSessionYear,
			QueryCacheSize: 256,
		},
		HTTP: HTTPConfig{
			RateLimitPerMinute: 15,
		},
		Timeout: TimeoutConfig{
			Model: "60s",
			Tool:  "20s",
		},
	}
}

// Validate checks the configuration for invalid values
func (c *AppConfig) Validate() error {
	if c.Chat.MaxHistoryTurns < 0 {
		return goerr.Wrap(ErrInvalidConfig, "max_history_turns must not be negative",
			goerr.V(FieldKey, "chat.max_history_turns"), goerr.V("value", c.Chat.MaxHistoryTurns))
	}
	if c.Search.DefaultTopK <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "default_top_k must be positive",
			goerr.V(FieldKey, "search.default_top_k"), goerr.V("value", c.Search.DefaultTopK))
	}
	if c.Search.SessionYear < 2000 {
		return goerr.Wrap(ErrInvalidConfig, "session_year is out of range",
			goerr.V(FieldKey, "search.session_year"), goerr.V("value", c.Search.SessionYear))
	}
	if c.Search.QueryCacheSize < 0 {
		return goerr.Wrap(ErrInvalidConfig, "query_cache_size must not be negative",
			goerr.V(FieldKey, "search.query_cache_size"), goerr.V("value", c.Search.QueryCacheSize))
	}
	if c.HTTP.RateLimitPerMinute <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "rate_limit_per_minute must be positive",
			goerr.V(FieldKey, "http.rate_limit_per_minute"), goerr.V("value", c.HTTP.RateLimitPerMinute))
	}

	seen := make(map[string]bool)
	for i, s := range c.Search.Synonyms {
		key := strings.ToLower(strings.TrimSpace(s.Key))
		if key == "" {
			return goerr.Wrap(ErrInvalidConfig, "synonym key is required", goerr.V("index", i))
		}
		if len(s.Terms) == 0 {
			return goerr.Wrap(ErrInvalidConfig, "synonym terms are required", goerr.V("key", s.Key))
		}
		if seen[key] {
			return goerr.Wrap(ErrDuplicateSynKey, "synonym key appears twice", goerr.V("key", s.Key))
		}
		seen[key] = true
	}

	if _, err := c.ModelTimeout(); err != nil {
		return err
	}
	if _, err := c.ToolTimeout(); err != nil {
		return err
	}
	return nil
}

func parseTimeout(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidConfig, "invalid duration", goerr.V(FieldKey, field), goerr.V("value", value))
	}
	if d < 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "duration must not be negative", goerr.V(FieldKey, field), goerr.V("value", value))
	}
	return d, nil
}

// ModelTimeout returns the bound on a single model call. Zero means unbounded.
func (c *AppConfig) ModelTimeout() (time.Duration, error) {
	return parseTimeout("timeout.model", c.Timeout.Model)
}

// ToolTimeout returns the bound on a single tool execution. Zero keeps the registry default.
func (c *AppConfig) ToolTimeout() (time.Duration, error) {
	return parseTimeout("timeout.tool", c.Timeout.Tool)
}

// SynonymGroups returns the configured synonym groups, or the built-in ones when none are set
func (c *AppConfig) SynonymGroups() []core.SynonymGroup {
	if len(c.Search.Synonyms) == 0 {
		return core.DefaultSynonyms()
	}
	groups := make([]core.SynonymGroup, 0, len(c.Search.Synonyms))
	for _, s := range c.Search.Synonyms {
		groups = append(groups, core.SynonymGroup{Key: s.Key, Terms: s.Terms})
	}
	return groups
}

// SystemPrompt reads the prompt template file. An empty string means the built-in template.
func (c *AppConfig) SystemPrompt() (string, error) {
	if c.Chat.SystemPromptFile == "" {
		return "", nil
	}
	// #nosec G304 - path comes from the operator's configuration file
	data, err := os.ReadFile(c.Chat.SystemPromptFile)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read system prompt file", goerr.V("path", c.Chat.SystemPromptFile))
	}
	return string(data), nil
}

// LogValue implements slog.LogValuer
func (c *AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("max_history_turns", c.Chat.MaxHistoryTurns),
		slog.String("system_prompt_file", c.Chat.SystemPromptFile),
		slog.Int("default_top_k", c.Search.DefaultTopK),
		slog.Int("session_year", c.Search.SessionYear),
		slog.Int("synonym_groups", len(c.Search.Synonyms)),
		slog.Any("allowed_origins", c.HTTP.AllowedOrigins),
		slog.Int("rate_limit_per_minute", c.HTTP.RateLimitPerMinute),
	)
}

// LoadAppConfiguration loads the TOML file at path over the defaults.
// An empty path returns the defaults.
func LoadAppConfiguration(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path == "" {
		return cfg, nil
	}

	// #nosec G304 - path is provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid configuration", goerr.V(ConfigPathKey, path))
	}

	return cfg, nil
}
