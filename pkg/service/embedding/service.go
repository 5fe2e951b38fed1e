package embedding

import (
	"context"
	"math"
	"sync"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

var (
	ErrNotConfigured     = goerr.New("embedding client is not configured")
	ErrUnexpectedCount   = goerr.New("embedding count does not match input count")
	ErrDimensionMismatch = goerr.New("embedding dimension mismatch")
	ErrZeroVector        = goerr.New("embedding is a zero vector")
)

// DefaultBatchSize is the number of texts sent per embedding request
const DefaultBatchSize = 32

// ClientFactory creates the underlying LLM client on first use
type ClientFactory func(ctx context.Context) (gollem.LLMClient, error)

// Service converts text into unit-norm vectors. The LLM client is created
// lazily by the factory at most once; a failed creation is retried by the
// next call.
type Service struct {
	factory   ClientFactory
	dimension int
	batchSize int

	mu     sync.Mutex
	client gollem.LLMClient
}

// Option configures a Service
type Option func(*Service)

// WithDimension sets the requested embedding dimension
func WithDimension(n int) Option {
	return func(s *Service) {
		s.dimension = n
	}
}

// WithBatchSize sets the number of texts per embedding request
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// New creates a Service that builds its client with factory on first use
func New(factory ClientFactory, opts ...Option) *Service {
	s := &Service{
		factory:   factory,
		dimension: model.EmbeddingDimension,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWithClient creates a Service around an already constructed client
func NewWithClient(client gollem.LLMClient, opts ...Option) *Service {
	s := New(nil, opts...)
	s.client = client
	return s
}

func (s *Service) llm(ctx context.Context) (gollem.LLMClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	if s.factory == nil {
		return nil, ErrNotConfigured
	}

	logging.From(ctx).Info("initializing embedding client", "dimension", s.dimension)
	client, err := s.factory(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize embedding client")
	}
	if client == nil {
		return nil, ErrNotConfigured
	}
	s.client = client
	return client, nil
}

// Embed returns the unit-norm embedding of text
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one unit-norm embedding per text, in input order
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	client, err := s.llm(ctx)
	if err != nil {
		return nil, err
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		batch := texts[start:end]

		embeddings, err := client.GenerateEmbedding(ctx, s.dimension, batch)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate embeddings",
				goerr.V("offset", start),
				goerr.V("count", len(batch)),
			)
		}
		if len(embeddings) != len(batch) {
			return nil, goerr.Wrap(ErrUnexpectedCount, "embedding provider returned wrong number of vectors",
				goerr.V("expected", len(batch)),
				goerr.V("actual", len(embeddings)),
			)
		}

		for i, vec := range embeddings {
			normalized, err := s.normalize(vec)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid embedding", goerr.V("position", start+i))
			}
			result = append(result, normalized)
		}
	}

	return result, nil
}

// normalize converts v to float32 scaled to unit L2 norm
func (s *Service) normalize(v []float64) ([]float32, error) {
	if len(v) != s.dimension {
		return nil, goerr.Wrap(ErrDimensionMismatch, "unexpected embedding length",
			goerr.V("expected", s.dimension),
			goerr.V("actual", len(v)),
		)
	}

	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, ErrZeroVector
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out, nil
}
