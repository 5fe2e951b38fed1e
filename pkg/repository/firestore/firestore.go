package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client      *firestore.Client
	provider    *providerRepository
	statute     *statuteRepository
	legislation *legislationRepository
	content     *contentRepository
	embedding   *embeddingRepository
	chat        *chatRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.provider.collectionPrefix = prefix
		f.statute.collectionPrefix = prefix
		f.legislation.collectionPrefix = prefix
		f.content.collectionPrefix = prefix
		f.embedding.collectionPrefix = prefix
		f.chat.collectionPrefix = prefix
	}
}

// New creates a Firestore repository. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:      client,
		provider:    &providerRepository{client: client},
		statute:     &statuteRepository{client: client},
		legislation: &legislationRepository{client: client},
		content:     &contentRepository{client: client},
		embedding:   &embeddingRepository{client: client},
		chat:        &chatRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Provider() interfaces.ProviderRepository {
	return f.provider
}

func (f *Firestore) Statute() interfaces.StatuteRepository {
	return f.statute
}

func (f *Firestore) Legislation() interfaces.LegislationRepository {
	return f.legislation
}

func (f *Firestore) Content() interfaces.ContentRepository {
	return f.content
}

func (f *Firestore) Embedding() interfaces.EmbeddingRepository {
	return f.embedding
}

func (f *Firestore) Chat() interfaces.ChatRepository {
	return f.chat
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
