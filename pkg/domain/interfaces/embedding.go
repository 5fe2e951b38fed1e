package interfaces

import (
	"context"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
)

// EmbeddingRepository defines the interface for durable embedding storage
type EmbeddingRepository interface {
	// ReplaceByType deletes every record of contentType and writes records in its place
	ReplaceByType(ctx context.Context, contentType types.ContentType, records []*model.EmbeddingRecord) error

	// List retrieves all records ordered by content type, content ID and chunk index
	List(ctx context.Context) ([]*model.EmbeddingRecord, error)
}

// Embedder converts text into unit-norm vectors
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex answers top-k similarity queries over a wholesale-loaded set of records
type VectorIndex interface {
	// Load replaces the whole index
	Load(records []*model.EmbeddingRecord) error

	// Query returns at most topK records ranked by descending similarity.
	// An empty filter searches every content type.
	Query(vector []float32, filter types.ContentType, topK int) ([]*model.SearchResult, error)
}
