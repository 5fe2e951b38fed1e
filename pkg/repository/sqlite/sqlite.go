package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

// SQLite is a single-file repository backend
type SQLite struct {
	db          *sql.DB
	provider    *providerRepository
	statute     *statuteRepository
	legislation *legislationRepository
	content     *contentRepository
	embedding   *embeddingRepository
	chat        *chatRepository
}

var _ interfaces.Repository = &SQLite{}

// New opens (creating when absent) the database file at path and applies the schema
func New(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, goerr.New("sqlite path is required")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", path))
	}
	// A single connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping database", goerr.V("path", path))
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{
		db:          db,
		provider:    &providerRepository{db: db},
		statute:     &statuteRepository{db: db},
		legislation: &legislationRepository{db: db},
		content:     &contentRepository{db: db},
		embedding:   &embeddingRepository{db: db},
		chat:        &chatRepository{db: db},
	}, nil
}

func (s *SQLite) Provider() interfaces.ProviderRepository {
	return s.provider
}

func (s *SQLite) Statute() interfaces.StatuteRepository {
	return s.statute
}

func (s *SQLite) Legislation() interfaces.LegislationRepository {
	return s.legislation
}

func (s *SQLite) Content() interfaces.ContentRepository {
	return s.content
}

func (s *SQLite) Embedding() interfaces.EmbeddingRepository {
	return s.embedding
}

func (s *SQLite) Chat() interfaces.ChatRepository {
	return s.chat
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
