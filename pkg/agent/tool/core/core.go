package core

import (
	"context"

	"github.com/edopt/chatbot/pkg/agent/tool"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrSearchUnavailable is returned by semantic searches when no embedding index is configured
var ErrSearchUnavailable = goerr.New("semantic search is not available")

// DefaultSessionYear is the legislative session searched when the model does not name one
const DefaultSessionYear = 2026

// Searcher runs semantic similarity queries over the embedding index
type Searcher interface {
	Search(ctx context.Context, query string, contentType types.ContentType, topK int) ([]*model.SearchResult, error)
}

// SynonymGroup expands a legislation keyword search. When Key appears in the
// search text, every term of Terms is searched as well.
type SynonymGroup struct {
	Key   string
	Terms []string
}

// DefaultSynonyms returns the synonym groups for common education topics
func DefaultSynonyms() []SynonymGroup {
	return []SynonymGroup{
		{Key: "open enrollment", Terms: []string{"open enrollment", "school assignment", "school choice", "district enrollment", "transfer"}},
		{Key: "school choice", Terms: []string{"school choice", "open enrollment", "education freedom", "education options"}},
		{Key: "homeschool", Terms: []string{"home education", "homeschool", "home school", "home instruction"}},
		{Key: "efa", Terms: []string{"education freedom account", "EFA", "scholarship account"}},
		{Key: "charter", Terms: []string{"charter school", "charter", "public academy"}},
		{Key: "voucher", Terms: []string{"voucher", "education freedom account", "scholarship", "tuition"}},
		{Key: "special education", Terms: []string{"special education", "disability", "IEP", "504"}},
	}
}

type config struct {
	sessionYear int
	synonyms    []SynonymGroup
	topK        int
}

type unavailableSearcher struct{}

func (unavailableSearcher) Search(context.Context, string, types.ContentType, int) ([]*model.SearchResult, error) {
	return nil, ErrSearchUnavailable
}

// Option configures the core tools
type Option func(*config)

// WithSessionYear sets the default legislative session year
func WithSessionYear(year int) Option {
	return func(c *config) {
		c.sessionYear = year
	}
}

// WithSynonyms replaces the legislation search synonym groups
func WithSynonyms(groups []SynonymGroup) Option {
	return func(c *config) {
		c.synonyms = groups
	}
}

// WithContentTopK sets how many hits search_content asks the retrieval engine for
func WithContentTopK(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.topK = n
		}
	}
}

// New builds the tools exposed to the chat model. Declaration order is the
// order the model sees them in.
func New(repo interfaces.Repository, searcher Searcher, opts ...Option) []tool.Handler {
	cfg := &config{
		sessionYear: DefaultSessionYear,
		synonyms:    DefaultSynonyms(),
		topK:        contentSearchTopK,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if searcher == nil {
		searcher = unavailableSearcher{}
	}

	return []tool.Handler{
		&searchProvidersTool{repo: repo},
		&lookupRSATool{repo: repo, searcher: searcher},
		&searchLegislationTool{repo: repo, searcher: searcher, sessionYear: cfg.sessionYear, synonyms: cfg.synonyms},
		&searchContentTool{repo: repo, searcher: searcher, topK: cfg.topK},
	}
}
