package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type chatRepository struct {
	mu       sync.RWMutex
	sessions map[model.SessionID]*model.ChatSession
	messages map[model.SessionID][]*model.ChatMessage
	seq      int64
}

var _ interfaces.ChatRepository = &chatRepository{}

func newChatRepository() *chatRepository {
	return &chatRepository{
		sessions: make(map[model.SessionID]*model.ChatSession),
		messages: make(map[model.SessionID][]*model.ChatMessage),
	}
}

func copySession(s *model.ChatSession) *model.ChatSession {
	copied := *s
	return &copied
}

func copyMessage(m *model.ChatMessage) *model.ChatMessage {
	copied := *m
	if m.ToolCalls != nil {
		copied.ToolCalls = make([]model.ToolCallRecord, len(m.ToolCalls))
		copy(copied.ToolCalls, m.ToolCalls)
	}
	return &copied
}

func (r *chatRepository) GetOrCreate(_ context.Context, id model.SessionID, clientAddress string) (*model.ChatSession, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrInvalidArgument, "session ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if s, ok := r.sessions[id]; ok {
		s.LastActive = now
		return copySession(s), nil
	}

	s := &model.ChatSession{
		ID:            id,
		ClientAddress: clientAddress,
		CreatedAt:     now,
		LastActive:    now,
	}
	r.sessions[id] = s
	return copySession(s), nil
}

func (r *chatRepository) RecentHistory(_ context.Context, id model.SessionID, maxTurns int) ([]*model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.sortedMessages(id)
	if maxTurns <= 0 {
		return []*model.ChatMessage{}, nil
	}
	if limit := maxTurns * 2; len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	result := make([]*model.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, copyMessage(m))
	}
	return result, nil
}

// sortedMessages returns the session messages in chronological order. Caller must hold the lock.
func (r *chatRepository) sortedMessages(id model.SessionID) []*model.ChatMessage {
	msgs := make([]*model.ChatMessage, len(r.messages[id]))
	copy(msgs, r.messages[id])
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].Seq < msgs[j].Seq
	})
	return msgs
}

func (r *chatRepository) AppendMessage(_ context.Context, msg *model.ChatMessage) error {
	if msg == nil || msg.SessionID == "" {
		return goerr.Wrap(ErrInvalidArgument, "session ID is required")
	}
	if !msg.Role.IsValid() {
		return goerr.Wrap(ErrInvalidArgument, "invalid message role", goerr.V("role", msg.Role))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[msg.SessionID]
	if !ok {
		return goerr.Wrap(ErrNotFound, "session not found", goerr.V("sessionID", msg.SessionID))
	}

	r.seq++
	stored := copyMessage(msg)
	stored.Seq = r.seq
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	msg.Seq = stored.Seq
	msg.CreatedAt = stored.CreatedAt

	r.messages[msg.SessionID] = append(r.messages[msg.SessionID], stored)
	if stored.CreatedAt.After(s.LastActive) {
		s.LastActive = stored.CreatedAt
	}
	return nil
}

func (r *chatRepository) ListSessions(_ context.Context, limit int) ([]*model.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*model.ChatSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, copySession(s))
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].LastActive.Equal(sessions[j].LastActive) {
			return sessions[i].LastActive.After(sessions[j].LastActive)
		}
		return sessions[i].ID < sessions[j].ID
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (r *chatRepository) ListMessages(_ context.Context, id model.SessionID) ([]*model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.sortedMessages(id)
	result := make([]*model.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, copyMessage(m))
	}
	return result, nil
}

func (r *chatRepository) CountMessages(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, msgs := range r.messages {
		count += len(msgs)
	}
	return count, nil
}
