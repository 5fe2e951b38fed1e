package retrieval

import (
	"context"
	"strings"
	"time"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/edopt/chatbot/pkg/utils/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTopK is the number of results returned when the caller passes 0
const DefaultTopK = 10

// DefaultQueryCacheSize is the number of query vectors kept in memory
const DefaultQueryCacheSize = 256

var ErrNoSource = goerr.New("embedding source is not configured")

// Engine vectorizes query text and delegates ranking to a VectorIndex it owns
type Engine struct {
	embedder interfaces.Embedder
	index    interfaces.VectorIndex
	source   interfaces.EmbeddingRepository
	cache    *lru.Cache[string, []float32]
}

// Option configures an Engine
type Option func(*engineConfig)

type engineConfig struct {
	source    interfaces.EmbeddingRepository
	cacheSize int
}

// WithSource sets the durable store Refresh loads records from
func WithSource(source interfaces.EmbeddingRepository) Option {
	return func(c *engineConfig) {
		c.source = source
	}
}

// WithQueryCacheSize sets the LRU size of the query vector cache. 0 disables caching.
func WithQueryCacheSize(n int) Option {
	return func(c *engineConfig) {
		c.cacheSize = n
	}
}

// New creates an Engine over index, vectorizing queries with embedder
func New(embedder interfaces.Embedder, index interfaces.VectorIndex, opts ...Option) (*Engine, error) {
	cfg := &engineConfig{cacheSize: DefaultQueryCacheSize}
	for _, opt := range opts {
		opt(cfg)
	}

	e := &Engine{
		embedder: embedder,
		index:    index,
		source:   cfg.source,
	}

	if cfg.cacheSize > 0 {
		cache, err := lru.New[string, []float32](cfg.cacheSize)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create query cache", goerr.V("size", cfg.cacheSize))
		}
		e.cache = cache
	}

	return e, nil
}

// Search returns up to topK records most similar to query. topK 0 means
// DefaultTopK. An empty contentType searches every type. When the query
// cannot be embedded, Search returns an empty result together with the error.
func (e *Engine) Search(ctx context.Context, query string, contentType types.ContentType, topK int) ([]*model.SearchResult, error) {
	defer metrics.ObserveSearch(time.Now())

	if topK == 0 {
		topK = DefaultTopK
	}
	query = strings.TrimSpace(query)
	if query == "" || topK < 0 {
		return []*model.SearchResult{}, nil
	}

	vec, err := e.vectorize(ctx, query)
	if err != nil {
		return []*model.SearchResult{}, goerr.Wrap(err, "failed to embed search query", goerr.V("query", query))
	}

	results, err := e.index.Query(vec, contentType, topK)
	if err != nil {
		return []*model.SearchResult{}, goerr.Wrap(err, "failed to query vector index",
			goerr.V("content_type", contentType),
			goerr.V("top_k", topK),
		)
	}

	logging.From(ctx).Debug("semantic search",
		"query", query,
		"content_type", contentType,
		"top_k", topK,
		"hits", len(results),
	)
	return results, nil
}

func (e *Engine) vectorize(ctx context.Context, query string) ([]float32, error) {
	if e.cache != nil {
		if vec, ok := e.cache.Get(query); ok {
			return vec, nil
		}
	}

	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Add(query, vec)
	}
	return vec, nil
}

type statsReporter interface {
	Stats() map[types.ContentType]int
	Size() int
}

// Refresh reloads the whole index from the configured source
func (e *Engine) Refresh(ctx context.Context) error {
	if e.source == nil {
		return ErrNoSource
	}

	records, err := e.source.List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list embeddings")
	}

	if err := e.index.Load(records); err != nil {
		return goerr.Wrap(err, "failed to load embeddings into index", goerr.V("count", len(records)))
	}

	// Duplicate keys collapse on load, so prefer the index's own count
	total := len(records)
	var stats map[types.ContentType]int
	if r, ok := e.index.(statsReporter); ok {
		total = r.Size()
		stats = r.Stats()
	}

	attrs := []any{"total", total}
	if stats != nil {
		counts := make(map[string]int, len(stats))
		for ct, n := range stats {
			counts[ct.String()] = n
			attrs = append(attrs, ct.String(), n)
		}
		metrics.SetIndexRecords(counts)
	}
	logging.From(ctx).Info("loaded embeddings into memory", attrs...)

	return nil
}
