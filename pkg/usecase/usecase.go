package usecase

import (
	"github.com/edopt/chatbot/pkg/domain/interfaces"
)

type UseCases struct {
	repo         interfaces.Repository
	Chat         *ChatUseCase
	Index        *IndexUseCase
	Conversation *ConversationUseCase
}

type Option func(*UseCases)

func WithChat(chat *ChatUseCase) Option {
	return func(uc *UseCases) {
		uc.Chat = chat
	}
}

func WithIndex(index *IndexUseCase) Option {
	return func(uc *UseCases) {
		uc.Index = index
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Conversation = NewConversationUseCase(repo)

	return uc
}
