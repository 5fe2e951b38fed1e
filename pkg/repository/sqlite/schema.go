package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS providers (
		id INTEGER PRIMARY KEY,
		slug TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		content_text TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL,
		grade_start INTEGER,
		grade_end INTEGER,
		education_style TEXT NOT NULL DEFAULT '',
		styles_raw TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		contact_name TEXT NOT NULL DEFAULT '',
		contact_email TEXT NOT NULL DEFAULT '',
		contact_phone TEXT NOT NULL DEFAULT '',
		online_only INTEGER NOT NULL DEFAULT 0,
		ingested_at INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS rsa_sections (
		id INTEGER PRIMARY KEY,
		title_no TEXT NOT NULL DEFAULT '',
		title_name TEXT NOT NULL DEFAULT '',
		chapter_no TEXT NOT NULL,
		chapter_name TEXT NOT NULL DEFAULT '',
		section_no TEXT NOT NULL,
		section_name TEXT NOT NULL DEFAULT '',
		rsa_text TEXT NOT NULL DEFAULT '',
		ingested_at INTEGER NOT NULL DEFAULT 0,
		UNIQUE(chapter_no, section_no)
	)`,
	`CREATE TABLE IF NOT EXISTS legislation (
		id INTEGER PRIMARY KEY,
		bill_number TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		session_year INTEGER NOT NULL,
		general_status TEXT NOT NULL DEFAULT '',
		house_status TEXT NOT NULL DEFAULT '',
		senate_status TEXT NOT NULL DEFAULT '',
		subject_code TEXT NOT NULL DEFAULT '',
		bill_text_summary TEXT NOT NULL DEFAULT '',
		committee_name TEXT NOT NULL DEFAULT '',
		next_hearing_date TEXT NOT NULL DEFAULT '',
		next_hearing_room TEXT NOT NULL DEFAULT '',
		docket_summary TEXT NOT NULL DEFAULT '',
		ingested_at INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_legislation_bill_number ON legislation(bill_number)`,
	`CREATE INDEX IF NOT EXISTS idx_legislation_session_year ON legislation(session_year)`,
	`CREATE TABLE IF NOT EXISTS legislation_sponsors (
		legislation_id INTEGER NOT NULL REFERENCES legislation(id) ON DELETE CASCADE,
		person_id INTEGER NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		party TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		legislative_body TEXT NOT NULL DEFAULT '',
		is_prime_sponsor INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sponsors_legislation ON legislation_sponsors(legislation_id)`,
	`CREATE TABLE IF NOT EXISTS content_pages (
		id INTEGER PRIMARY KEY,
		content_type TEXT NOT NULL,
		slug TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		content_text TEXT NOT NULL DEFAULT '',
		excerpt TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		published_at TEXT NOT NULL DEFAULT '',
		modified_at TEXT NOT NULL DEFAULT '',
		ingested_at INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS embeddings (
		content_type TEXT NOT NULL,
		content_id INTEGER NOT NULL,
		chunk_index INTEGER NOT NULL DEFAULT 0,
		text_chunk TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (content_type, content_id, chunk_index)
	)`,
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id TEXT PRIMARY KEY,
		ip_address TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		last_active INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_sessions_last_active ON chat_sessions(last_active)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES chat_sessions(id),
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		tool_calls_json TEXT,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, created_at, seq)`,
}

// Schema returns the DDL statements applied by Migrate
func Schema() []string {
	out := make([]string, len(schema))
	copy(out, schema)
	return out
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		return goerr.Wrap(err, "failed to enable foreign keys")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin migration")
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to apply schema", goerr.V("statement", stmt))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit migration")
	}
	return nil
}
