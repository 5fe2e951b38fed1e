package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type contentRepository struct {
	mu    sync.RWMutex
	pages map[int64]*model.ContentPage
}

var _ interfaces.ContentRepository = &contentRepository{}

func newContentRepository() *contentRepository {
	return &contentRepository{
		pages: make(map[int64]*model.ContentPage),
	}
}

func copyContentPage(p *model.ContentPage) *model.ContentPage {
	copied := *p
	return &copied
}

func (r *contentRepository) Put(_ context.Context, page *model.ContentPage) error {
	if page == nil || page.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "content ID is required")
	}
	if !page.ContentType.IsPage() {
		return goerr.Wrap(ErrInvalidArgument, "content type is not a page type",
			goerr.V("contentType", page.ContentType))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pages[page.ID] = copyContentPage(page)
	return nil
}

func (r *contentRepository) Get(_ context.Context, id int64) (*model.ContentPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pages[id]
	if !ok {
		return nil, nil
	}
	return copyContentPage(p), nil
}

func (r *contentRepository) List(_ context.Context, contentType types.ContentType) ([]*model.ContentPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pages := make([]*model.ContentPage, 0)
	for _, p := range r.pages {
		if p.ContentType == contentType {
			pages = append(pages, copyContentPage(p))
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].ID < pages[j].ID
	})
	return pages, nil
}
