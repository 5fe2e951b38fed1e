package model

import (
	"time"

	"github.com/edopt/chatbot/pkg/domain/types"
)

// EmbeddingDimension is the dimension of the embedding vector.
// all-MiniLM-L6-v2 compatible embeddings use 384 dimensions.
const EmbeddingDimension = 384

// EmbeddingKey identifies one indexed chunk. It is unique across the index.
type EmbeddingKey struct {
	ContentType types.ContentType
	ContentID   int64
	ChunkIndex  int
}

// EmbeddingRecord is one unit of indexed text
type EmbeddingRecord struct {
	ContentType types.ContentType
	ContentID   int64
	ChunkIndex  int       // zero-based, 0 when the source text was not chunked
	TextChunk   string    // the literal text that was embedded
	Vector      []float32 // unit L2 norm
	CreatedAt   time.Time
}

// Key returns the uniqueness key of the record
func (r *EmbeddingRecord) Key() EmbeddingKey {
	return EmbeddingKey{
		ContentType: r.ContentType,
		ContentID:   r.ContentID,
		ChunkIndex:  r.ChunkIndex,
	}
}

// SearchResult is a ranked hit returned by a similarity query
type SearchResult struct {
	ContentType types.ContentType
	ContentID   int64
	ChunkIndex  int
	TextChunk   string
	Score       float64
}
