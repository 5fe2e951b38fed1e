package usecase

import (
	"context"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultConversationLimit is the number of sessions listed when no limit is given
const DefaultConversationLimit = 100

// Conversation is a session with its full message log
type Conversation struct {
	Session  *model.ChatSession
	Messages []*model.ChatMessage
}

// ConversationList is the review listing of recent sessions
type ConversationList struct {
	TotalSessions int
	TotalMessages int
	Sessions      []*Conversation
}

// ConversationUseCase lists stored conversations for review
type ConversationUseCase struct {
	repo interfaces.Repository
}

// NewConversationUseCase creates a ConversationUseCase
func NewConversationUseCase(repo interfaces.Repository) *ConversationUseCase {
	return &ConversationUseCase{repo: repo}
}

// List returns up to limit sessions, most recently active first, each with its messages
func (uc *ConversationUseCase) List(ctx context.Context, limit int) (*ConversationList, error) {
	if limit <= 0 {
		limit = DefaultConversationLimit
	}

	sessions, err := uc.repo.Chat().ListSessions(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list chat sessions", goerr.V("limit", limit))
	}

	total, err := uc.repo.Chat().CountMessages(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count chat messages")
	}

	list := &ConversationList{
		TotalSessions: len(sessions),
		TotalMessages: total,
		Sessions:      make([]*Conversation, 0, len(sessions)),
	}
	for _, s := range sessions {
		messages, err := uc.repo.Chat().ListMessages(ctx, s.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list chat messages", goerr.V(SessionIDKey, s.ID))
		}
		list.Sessions = append(list.Sessions, &Conversation{Session: s, Messages: messages})
	}

	return list, nil
}
