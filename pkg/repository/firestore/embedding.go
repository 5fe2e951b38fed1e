package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// embeddingDoc stores the vector as firestore.Vector32 so that FindNearest vector search works
type embeddingDoc struct {
	ContentType string             `firestore:"ContentType"`
	ContentID   int64              `firestore:"ContentID"`
	ChunkIndex  int                `firestore:"ChunkIndex"`
	TextChunk   string             `firestore:"TextChunk"`
	Embedding   firestore.Vector32 `firestore:"Embedding"`
	CreatedAt   time.Time          `firestore:"CreatedAt"`
}

func toEmbeddingDoc(rec *model.EmbeddingRecord) *embeddingDoc {
	return &embeddingDoc{
		ContentType: string(rec.ContentType),
		ContentID:   rec.ContentID,
		ChunkIndex:  rec.ChunkIndex,
		TextChunk:   rec.TextChunk,
		Embedding:   firestore.Vector32(rec.Vector),
		CreatedAt:   rec.CreatedAt,
	}
}

func fromEmbeddingDoc(d *embeddingDoc) *model.EmbeddingRecord {
	return &model.EmbeddingRecord{
		ContentType: types.ContentType(d.ContentType),
		ContentID:   d.ContentID,
		ChunkIndex:  d.ChunkIndex,
		TextChunk:   d.TextChunk,
		Vector:      []float32(d.Embedding),
		CreatedAt:   d.CreatedAt,
	}
}

func embeddingDocID(key model.EmbeddingKey) string {
	return fmt.Sprintf("%s_%d_%d", key.ContentType, key.ContentID, key.ChunkIndex)
}

type embeddingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.EmbeddingRepository = &embeddingRepository{}

func (r *embeddingRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, collectionEmbeddings))
}

func (r *embeddingRepository) ReplaceByType(ctx context.Context, contentType types.ContentType, records []*model.EmbeddingRecord) error {
	if !contentType.IsValid() {
		return goerr.Wrap(ErrInvalidArgument, "invalid content type", goerr.V("contentType", contentType))
	}
	for _, rec := range records {
		if rec.ContentType != contentType {
			return goerr.Wrap(ErrInvalidArgument, "record content type mismatch",
				goerr.V("expected", contentType),
				goerr.V("actual", rec.ContentType),
				goerr.V("contentID", rec.ContentID))
		}
	}

	keep := make(map[string]struct{}, len(records))
	for _, rec := range records {
		keep[embeddingDocID(rec.Key())] = struct{}{}
	}

	// New records are written before stale ones are removed
	bulkWriter := r.client.BulkWriter(ctx)
	for _, rec := range records {
		if _, err := bulkWriter.Set(r.collection().Doc(embeddingDocID(rec.Key())), toEmbeddingDoc(rec)); err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to write embedding",
				goerr.V("contentType", rec.ContentType),
				goerr.V("contentID", rec.ContentID),
				goerr.V("chunkIndex", rec.ChunkIndex))
		}
	}
	bulkWriter.End()

	iter := r.collection().Where("ContentType", "==", string(contentType)).Documents(ctx)
	bulkWriter = r.client.BulkWriter(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			iter.Stop()
			bulkWriter.End()
			return goerr.Wrap(err, "failed to iterate embeddings", goerr.V("contentType", contentType))
		}
		if _, ok := keep[doc.Ref.ID]; ok {
			continue
		}
		if _, err := bulkWriter.Delete(doc.Ref); err != nil {
			iter.Stop()
			bulkWriter.End()
			return goerr.Wrap(err, "failed to delete stale embedding", goerr.V("docID", doc.Ref.ID))
		}
	}
	iter.Stop()
	bulkWriter.End()

	return nil
}

func (r *embeddingRepository) List(ctx context.Context) ([]*model.EmbeddingRecord, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	records := make([]*model.EmbeddingRecord, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate embeddings")
		}

		var d embeddingDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal embedding", goerr.V("docID", doc.Ref.ID))
		}
		records = append(records, fromEmbeddingDoc(&d))
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
