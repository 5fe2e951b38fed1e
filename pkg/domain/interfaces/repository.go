package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Provider() ProviderRepository
	Statute() StatuteRepository
	Legislation() LegislationRepository
	Content() ContentRepository
	Embedding() EmbeddingRepository
	Chat() ChatRepository

	// Close releases the underlying storage resources
	Close() error
}
