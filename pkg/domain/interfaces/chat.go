package interfaces

import (
	"context"

	"github.com/edopt/chatbot/pkg/domain/model"
)

// ChatRepository defines the interface for sessions and their messages
type ChatRepository interface {
	// GetOrCreate returns the session, creating it when absent. An existing
	// session has its LastActive refreshed.
	GetOrCreate(ctx context.Context, id model.SessionID, clientAddress string) (*model.ChatSession, error)

	// RecentHistory returns the most recent maxTurns user/assistant pairs
	// (2*maxTurns messages) in chronological order
	RecentHistory(ctx context.Context, id model.SessionID, maxTurns int) ([]*model.ChatMessage, error)

	// AppendMessage appends a message to the session
	AppendMessage(ctx context.Context, msg *model.ChatMessage) error

	// ListSessions returns up to limit sessions ordered by LastActive descending
	ListSessions(ctx context.Context, limit int) ([]*model.ChatSession, error)

	// ListMessages returns every message of the session in chronological order
	ListMessages(ctx context.Context, id model.SessionID) ([]*model.ChatMessage, error)

	// CountMessages returns the number of stored messages across all sessions
	CountMessages(ctx context.Context) (int, error)
}

// ChatModel is a language model endpoint supporting tool use
type ChatModel interface {
	Generate(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error)
}
