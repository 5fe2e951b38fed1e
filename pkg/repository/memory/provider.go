package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type providerRepository struct {
	mu        sync.RWMutex
	providers map[int64]*model.Provider
}

var _ interfaces.ProviderRepository = &providerRepository{}

func newProviderRepository() *providerRepository {
	return &providerRepository{
		providers: make(map[int64]*model.Provider),
	}
}

func copyProvider(p *model.Provider) *model.Provider {
	copied := *p
	if p.Location != nil {
		loc := *p.Location
		copied.Location = &loc
	}
	if p.GradeStart != nil {
		g := *p.GradeStart
		copied.GradeStart = &g
	}
	if p.GradeEnd != nil {
		g := *p.GradeEnd
		copied.GradeEnd = &g
	}
	return &copied
}

func (r *providerRepository) Put(_ context.Context, provider *model.Provider) error {
	if provider == nil || provider.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "provider ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[provider.ID] = copyProvider(provider)
	return nil
}

func (r *providerRepository) Get(_ context.Context, id int64) (*model.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	if !ok {
		return nil, nil
	}
	return copyProvider(p), nil
}

func (r *providerRepository) List(_ context.Context) ([]*model.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]*model.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		providers = append(providers, copyProvider(p))
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ID < providers[j].ID
	})
	return providers, nil
}
