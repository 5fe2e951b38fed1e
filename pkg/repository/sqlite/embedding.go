package sqlite

import (
	"context"
	"database/sql"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type embeddingRepository struct {
	db *sql.DB
}

var _ interfaces.EmbeddingRepository = &embeddingRepository{}

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

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM embeddings WHERE content_type = ?`, string(contentType)); err != nil {
		return goerr.Wrap(err, "failed to delete embeddings", goerr.V("contentType", contentType))
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO embeddings
		(content_type, content_id, chunk_index, text_chunk, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return goerr.Wrap(err, "failed to prepare embedding insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, string(rec.ContentType), rec.ContentID, rec.ChunkIndex,
			rec.TextChunk, encodeVector(rec.Vector), toUnixNano(rec.CreatedAt)); err != nil {
			return goerr.Wrap(err, "failed to insert embedding",
				goerr.V("contentType", rec.ContentType),
				goerr.V("contentID", rec.ContentID),
				goerr.V("chunkIndex", rec.ChunkIndex))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit embeddings", goerr.V("contentType", contentType))
	}
	return nil
}

func (r *embeddingRepository) List(ctx context.Context) ([]*model.EmbeddingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT content_type, content_id, chunk_index, text_chunk, embedding, created_at
		FROM embeddings ORDER BY content_type, content_id, chunk_index`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list embeddings")
	}
	defer func() { _ = rows.Close() }()

	records := make([]*model.EmbeddingRecord, 0)
	for rows.Next() {
		var (
			rec       model.EmbeddingRecord
			ct        string
			blob      []byte
			createdAt int64
		)
		if err := rows.Scan(&ct, &rec.ContentID, &rec.ChunkIndex, &rec.TextChunk, &blob, &createdAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan embedding")
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode embedding",
				goerr.V("contentType", ct), goerr.V("contentID", rec.ContentID))
		}
		rec.ContentType = types.ContentType(ct)
		rec.Vector = vec
		rec.CreatedAt = fromUnixNano(createdAt)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate embeddings")
	}
	return records, nil
}
