package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type statuteRepository struct {
	db *sql.DB
}

var _ interfaces.StatuteRepository = &statuteRepository{}

const statuteColumns = `id, title_no, title_name, chapter_no, chapter_name, section_no, section_name, rsa_text, ingested_at`

func scanStatute(row rowScanner) (*model.Statute, error) {
	var (
		s          model.Statute
		ingestedAt int64
	)
	if err := row.Scan(&s.ID, &s.TitleNo, &s.TitleName, &s.ChapterNo, &s.ChapterName,
		&s.SectionNo, &s.SectionName, &s.Text, &ingestedAt); err != nil {
		return nil, err
	}
	s.IngestedAt = fromUnixNano(ingestedAt)
	return &s, nil
}

func (r *statuteRepository) Put(ctx context.Context, statute *model.Statute) error {
	if statute == nil || statute.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "statute ID is required")
	}

	var existing int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM rsa_sections WHERE chapter_no = ? AND section_no = ?`,
		statute.ChapterNo, statute.SectionNo).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return goerr.Wrap(err, "failed to check statute uniqueness", goerr.V("citation", statute.Citation()))
	case existing != statute.ID:
		return goerr.Wrap(ErrInvalidArgument, "statute section already exists",
			goerr.V("citation", statute.Citation()),
			goerr.V("existingID", existing))
	}

	_, err = r.db.ExecContext(ctx, `INSERT OR REPLACE INTO rsa_sections (`+statuteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		statute.ID, statute.TitleNo, statute.TitleName, statute.ChapterNo, statute.ChapterName,
		statute.SectionNo, statute.SectionName, statute.Text, toUnixNano(statute.IngestedAt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to put statute", goerr.V("id", statute.ID))
	}
	return nil
}

func (r *statuteRepository) getOne(ctx context.Context, query string, args ...any) (*model.Statute, error) {
	s, err := scanStatute(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get statute", goerr.V("args", args))
	}
	return s, nil
}

func (r *statuteRepository) Get(ctx context.Context, chapter, section string) (*model.Statute, error) {
	return r.getOne(ctx, `SELECT `+statuteColumns+` FROM rsa_sections WHERE chapter_no = ? AND section_no = ?`, chapter, section)
}

func (r *statuteRepository) GetByID(ctx context.Context, id int64) (*model.Statute, error) {
	return r.getOne(ctx, `SELECT `+statuteColumns+` FROM rsa_sections WHERE id = ?`, id)
}

func (r *statuteRepository) ListByChapter(ctx context.Context, chapter string) ([]*model.Statute, error) {
	statutes, err := r.list(ctx,
		`SELECT `+statuteColumns+` FROM rsa_sections WHERE chapter_no = ? ORDER BY section_no, id`, chapter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list statutes", goerr.V("chapter", chapter))
	}
	return statutes, nil
}

func (r *statuteRepository) List(ctx context.Context) ([]*model.Statute, error) {
	return r.list(ctx, `SELECT `+statuteColumns+` FROM rsa_sections ORDER BY id`)
}

func (r *statuteRepository) list(ctx context.Context, query string, args ...any) ([]*model.Statute, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query statutes")
	}
	defer func() { _ = rows.Close() }()

	statutes := make([]*model.Statute, 0)
	for rows.Next() {
		s, err := scanStatute(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan statute")
		}
		statutes = append(statutes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate statutes")
	}
	return statutes, nil
}
