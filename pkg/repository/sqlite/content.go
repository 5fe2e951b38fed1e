package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type contentRepository struct {
	db *sql.DB
}

var _ interfaces.ContentRepository = &contentRepository{}

const contentColumns = `id, content_type, slug, title, content_text, excerpt, url, published_at, modified_at, ingested_at`

func scanContentPage(row rowScanner) (*model.ContentPage, error) {
	var (
		p          model.ContentPage
		ct         string
		ingestedAt int64
	)
	if err := row.Scan(&p.ID, &ct, &p.Slug, &p.Title, &p.Text, &p.Excerpt, &p.URL,
		&p.PublishedAt, &p.ModifiedAt, &ingestedAt); err != nil {
		return nil, err
	}
	p.ContentType = types.ContentType(ct)
	p.IngestedAt = fromUnixNano(ingestedAt)
	return &p, nil
}

func (r *contentRepository) Put(ctx context.Context, page *model.ContentPage) error {
	if page == nil || page.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "content ID is required")
	}
	if !page.ContentType.IsPage() {
		return goerr.Wrap(ErrInvalidArgument, "content type is not a page type",
			goerr.V("contentType", page.ContentType))
	}

	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO content_pages (`+contentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		page.ID, string(page.ContentType), page.Slug, page.Title, page.Text, page.Excerpt, page.URL,
		page.PublishedAt, page.ModifiedAt, toUnixNano(page.IngestedAt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to put content", goerr.V("id", page.ID))
	}
	return nil
}

func (r *contentRepository) Get(ctx context.Context, id int64) (*model.ContentPage, error) {
	p, err := scanContentPage(r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content_pages WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get content", goerr.V("id", id))
	}
	return p, nil
}

func (r *contentRepository) List(ctx context.Context, contentType types.ContentType) ([]*model.ContentPage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM content_pages WHERE content_type = ? ORDER BY id`, string(contentType))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list content", goerr.V("contentType", contentType))
	}
	defer func() { _ = rows.Close() }()

	pages := make([]*model.ContentPage, 0)
	for rows.Next() {
		p, err := scanContentPage(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan content")
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate content")
	}
	return pages, nil
}
