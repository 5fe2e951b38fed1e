package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type chatRepository struct {
	db *sql.DB
}

var _ interfaces.ChatRepository = &chatRepository{}

func scanSession(row rowScanner) (*model.ChatSession, error) {
	var (
		s                     model.ChatSession
		id                    string
		createdAt, lastActive int64
	)
	if err := row.Scan(&id, &s.ClientAddress, &createdAt, &lastActive); err != nil {
		return nil, err
	}
	s.ID = model.SessionID(id)
	s.CreatedAt = fromUnixNano(createdAt)
	s.LastActive = fromUnixNano(lastActive)
	return &s, nil
}

func scanMessage(row rowScanner) (*model.ChatMessage, error) {
	var (
		m         model.ChatMessage
		sessionID string
		role      string
		toolCalls sql.NullString
		createdAt int64
	)
	if err := row.Scan(&m.Seq, &sessionID, &role, &m.Content, &toolCalls, &createdAt); err != nil {
		return nil, err
	}
	m.SessionID = model.SessionID(sessionID)
	m.Role = types.Role(role)
	m.CreatedAt = fromUnixNano(createdAt)
	if toolCalls.Valid && toolCalls.String != "" {
		if err := json.Unmarshal([]byte(toolCalls.String), &m.ToolCalls); err != nil {
			return nil, goerr.Wrap(err, "failed to decode tool calls", goerr.V("seq", m.Seq))
		}
	}
	return &m, nil
}

func (r *chatRepository) GetOrCreate(ctx context.Context, id model.SessionID, clientAddress string) (*model.ChatSession, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrInvalidArgument, "session ID is required")
	}

	now := toUnixNano(time.Now().UTC())
	_, err := r.db.ExecContext(ctx, `INSERT INTO chat_sessions (id, ip_address, created_at, last_active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_active = excluded.last_active`,
		string(id), clientAddress, now, now)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upsert session", goerr.V("sessionID", id))
	}

	s, err := scanSession(r.db.QueryRowContext(ctx,
		`SELECT id, ip_address, created_at, last_active FROM chat_sessions WHERE id = ?`, string(id)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("sessionID", id))
	}
	return s, nil
}

func (r *chatRepository) queryMessages(ctx context.Context, query string, args ...any) ([]*model.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query messages")
	}
	defer func() { _ = rows.Close() }()

	msgs := make([]*model.ChatMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan message")
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate messages")
	}
	return msgs, nil
}

func (r *chatRepository) RecentHistory(ctx context.Context, id model.SessionID, maxTurns int) ([]*model.ChatMessage, error) {
	if maxTurns <= 0 {
		return []*model.ChatMessage{}, nil
	}

	msgs, err := r.queryMessages(ctx, `SELECT seq, session_id, role, content, tool_calls_json, created_at
		FROM chat_messages WHERE session_id = ?
		ORDER BY created_at DESC, seq DESC LIMIT ?`, string(id), maxTurns*2)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get history", goerr.V("sessionID", id))
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *model.ChatMessage) error {
	if msg == nil || msg.SessionID == "" {
		return goerr.Wrap(ErrInvalidArgument, "session ID is required")
	}
	if !msg.Role.IsValid() {
		return goerr.Wrap(ErrInvalidArgument, "invalid message role", goerr.V("role", msg.Role))
	}

	var toolCalls sql.NullString
	if len(msg.ToolCalls) > 0 {
		raw, err := json.Marshal(msg.ToolCalls)
		if err != nil {
			return goerr.Wrap(err, "failed to encode tool calls")
		}
		toolCalls = sql.NullString{String: string(raw), Valid: true}
	}

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM chat_sessions WHERE id = ?`, string(msg.SessionID)).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return goerr.Wrap(ErrNotFound, "session not found", goerr.V("sessionID", msg.SessionID))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to check session", goerr.V("sessionID", msg.SessionID))
	}

	createdAt := toUnixNano(msg.CreatedAt)
	res, err := tx.ExecContext(ctx, `INSERT INTO chat_messages (session_id, role, content, tool_calls_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(msg.SessionID), string(msg.Role), msg.Content, toolCalls, createdAt)
	if err != nil {
		return goerr.Wrap(err, "failed to insert message", goerr.V("sessionID", msg.SessionID))
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chat_sessions SET last_active = max(last_active, ?) WHERE id = ?`,
		createdAt, string(msg.SessionID)); err != nil {
		return goerr.Wrap(err, "failed to touch session", goerr.V("sessionID", msg.SessionID))
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit message", goerr.V("sessionID", msg.SessionID))
	}

	if seq, err := res.LastInsertId(); err == nil {
		msg.Seq = seq
	}
	return nil
}

func (r *chatRepository) ListSessions(ctx context.Context, limit int) ([]*model.ChatSession, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, ip_address, created_at, last_active
		FROM chat_sessions ORDER BY last_active DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sessions")
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]*model.ChatSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan session")
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate sessions")
	}
	return sessions, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, id model.SessionID) ([]*model.ChatMessage, error) {
	msgs, err := r.queryMessages(ctx, `SELECT seq, session_id, role, content, tool_calls_json, created_at
		FROM chat_messages WHERE session_id = ? ORDER BY created_at, seq`, string(id))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list messages", goerr.V("sessionID", id))
	}
	return msgs, nil
}

func (r *chatRepository) CountMessages(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM chat_messages`).Scan(&count); err != nil {
		return 0, goerr.Wrap(err, "failed to count messages")
	}
	return count, nil
}
