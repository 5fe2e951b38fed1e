package interfaces

import (
	"context"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
)

// ProviderRepository defines the interface for the provider directory
type ProviderRepository interface {
	// Put creates or replaces a provider
	Put(ctx context.Context, provider *model.Provider) error

	// Get retrieves a provider by ID. Returns nil, nil if not found.
	Get(ctx context.Context, id int64) (*model.Provider, error)

	// List retrieves all providers ordered by ID
	List(ctx context.Context) ([]*model.Provider, error)
}

// StatuteRepository defines the interface for RSA sections
type StatuteRepository interface {
	// Put creates or replaces a statute. (ChapterNo, SectionNo) is unique.
	Put(ctx context.Context, statute *model.Statute) error

	// Get retrieves a section by chapter and section number. Returns nil, nil if not found.
	Get(ctx context.Context, chapter, section string) (*model.Statute, error)

	// GetByID retrieves a section by ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id int64) (*model.Statute, error)

	// ListByChapter retrieves all sections of a chapter ordered by section number
	ListByChapter(ctx context.Context, chapter string) ([]*model.Statute, error)

	// List retrieves all sections ordered by ID
	List(ctx context.Context) ([]*model.Statute, error)
}

// LegislationRepository defines the interface for tracked bills
type LegislationRepository interface {
	// Put creates or replaces a bill
	Put(ctx context.Context, bill *model.Legislation) error

	// PutSponsors replaces the sponsors of a bill
	PutSponsors(ctx context.Context, legislationID int64, sponsors []*model.Sponsor) error

	// Get retrieves a bill by ID. Returns nil, nil if not found.
	Get(ctx context.Context, id int64) (*model.Legislation, error)

	// FindByBillNumber returns the first bill whose number equals one of the candidates.
	// Returns nil, nil if none matches.
	FindByBillNumber(ctx context.Context, candidates ...string) (*model.Legislation, error)

	// SearchByTitle returns bills of the session whose title contains term
	// (case-insensitive), ordered by bill number, at most limit entries
	SearchByTitle(ctx context.Context, term string, sessionYear, limit int) ([]*model.Legislation, error)

	// ListSponsors returns the sponsors of a bill, prime sponsors first
	ListSponsors(ctx context.Context, legislationID int64) ([]*model.Sponsor, error)

	// List retrieves all bills of every session ordered by ID
	List(ctx context.Context) ([]*model.Legislation, error)
}

// ContentRepository defines the interface for posts, pages and handbook sections
type ContentRepository interface {
	// Put creates or replaces a page
	Put(ctx context.Context, page *model.ContentPage) error

	// Get retrieves a page by ID. Returns nil, nil if not found.
	Get(ctx context.Context, id int64) (*model.ContentPage, error)

	// List retrieves pages of the given type ordered by ID
	List(ctx context.Context, contentType types.ContentType) ([]*model.ContentPage, error)
}
