package memory

import (
	"github.com/edopt/chatbot/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	provider    *providerRepository
	statute     *statuteRepository
	legislation *legislationRepository
	content     *contentRepository
	embedding   *embeddingRepository
	chat        *chatRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		provider:    newProviderRepository(),
		statute:     newStatuteRepository(),
		legislation: newLegislationRepository(),
		content:     newContentRepository(),
		embedding:   newEmbeddingRepository(),
		chat:        newChatRepository(),
	}
}

func (m *Memory) Provider() interfaces.ProviderRepository {
	return m.provider
}

func (m *Memory) Statute() interfaces.StatuteRepository {
	return m.statute
}

func (m *Memory) Legislation() interfaces.LegislationRepository {
	return m.legislation
}

func (m *Memory) Content() interfaces.ContentRepository {
	return m.content
}

func (m *Memory) Embedding() interfaces.EmbeddingRepository {
	return m.embedding
}

func (m *Memory) Chat() interfaces.ChatRepository {
	return m.chat
}

func (m *Memory) Close() error {
	return nil
}
