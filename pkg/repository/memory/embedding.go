package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type embeddingRepository struct {
	mu      sync.RWMutex
	records map[types.ContentType][]*model.EmbeddingRecord
}

var _ interfaces.EmbeddingRepository = &embeddingRepository{}

func newEmbeddingRepository() *embeddingRepository {
	return &embeddingRepository{
		records: make(map[types.ContentType][]*model.EmbeddingRecord),
	}
}

func copyEmbeddingRecord(rec *model.EmbeddingRecord) *model.EmbeddingRecord {
	copied := *rec
	copied.Vector = slices.Clone(rec.Vector)
	return &copied
}

func (r *embeddingRepository) ReplaceByType(_ context.Context, contentType types.ContentType, records []*model.EmbeddingRecord) error {
	if !contentType.IsValid() {
		return goerr.Wrap(ErrInvalidArgument, "invalid content type", goerr.V("contentType", contentType))
	}

	copied := make([]*model.EmbeddingRecord, 0, len(records))
	for _, rec := range records {
		if rec.ContentType != contentType {
			return goerr.Wrap(ErrInvalidArgument, "record content type mismatch",
				goerr.V("expected", contentType),
				goerr.V("actual", rec.ContentType),
				goerr.V("contentID", rec.ContentID))
		}
		copied = append(copied, copyEmbeddingRecord(rec))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[contentType] = copied
	return nil
}

func (r *embeddingRepository) List(_ context.Context) ([]*model.EmbeddingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.EmbeddingRecord, 0)
	for _, recs := range r.records {
		for _, rec := range recs {
			records = append(records, copyEmbeddingRecord(rec))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.ContentType != b.ContentType {
			return a.ContentType < b.ContentType
		}
		if a.ContentID != b.ContentID {
			return a.ContentID < b.ContentID
		}
		return a.ChunkIndex < b.ChunkIndex
	})
	return records, nil
}
