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

type providerRepository struct {
	db *sql.DB
}

var _ interfaces.ProviderRepository = &providerRepository{}

const providerColumns = `id, slug, title, description, content_text, url, address,
	latitude, longitude, grade_start, grade_end, education_style, styles_raw,
	website, contact_name, contact_email, contact_phone, online_only, ingested_at`

func gradeToNull(g *types.Grade) sql.NullInt64 {
	if g == nil {
		return sql.NullInt64{}
	}
	v := int64(*g)
	return nullInt64(&v)
}

func scanProvider(row rowScanner) (*model.Provider, error) {
	var (
		p          model.Provider
		style      string
		lat, lon   sql.NullFloat64
		gs, ge     sql.NullInt64
		onlineOnly int
		ingestedAt int64
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.ContentText, &p.URL, &p.Address,
		&lat, &lon, &gs, &ge, &style, &p.StylesRaw,
		&p.Website, &p.ContactName, &p.ContactEmail, &p.ContactPhone, &onlineOnly, &ingestedAt); err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		p.Location = &model.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if gs.Valid {
		g := types.Grade(gs.Int64)
		p.GradeStart = &g
	}
	if ge.Valid {
		g := types.Grade(ge.Int64)
		p.GradeEnd = &g
	}
	p.EducationStyle = types.EducationStyle(style)
	p.OnlineOnly = onlineOnly != 0
	p.IngestedAt = fromUnixNano(ingestedAt)
	return &p, nil
}

func (r *providerRepository) Put(ctx context.Context, provider *model.Provider) error {
	if provider == nil || provider.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "provider ID is required")
	}

	var lat, lon sql.NullFloat64
	if provider.Location != nil {
		lat = sql.NullFloat64{Float64: provider.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: provider.Location.Longitude, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO providers (`+providerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		provider.ID, provider.Slug, provider.Title, provider.Description, provider.ContentText,
		provider.URL, provider.Address, lat, lon,
		gradeToNull(provider.GradeStart), gradeToNull(provider.GradeEnd),
		string(provider.EducationStyle), provider.StylesRaw,
		provider.Website, provider.ContactName, provider.ContactEmail, provider.ContactPhone,
		boolToInt(provider.OnlineOnly), toUnixNano(provider.IngestedAt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to put provider", goerr.V("id", provider.ID))
	}
	return nil
}

func (r *providerRepository) Get(ctx context.Context, id int64) (*model.Provider, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+providerColumns+` FROM providers WHERE id = ?`, id)
	p, err := scanProvider(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get provider", goerr.V("id", id))
	}
	return p, nil
}

func (r *providerRepository) List(ctx context.Context) ([]*model.Provider, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+providerColumns+` FROM providers ORDER BY id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list providers")
	}
	defer func() { _ = rows.Close() }()

	providers := make([]*model.Provider, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan provider")
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate providers")
	}
	return providers, nil
}
