package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type statuteKey struct {
	chapter string
	section string
}

type statuteRepository struct {
	mu       sync.RWMutex
	statutes map[int64]*model.Statute
	byKey    map[statuteKey]int64
}

var _ interfaces.StatuteRepository = &statuteRepository{}

func newStatuteRepository() *statuteRepository {
	return &statuteRepository{
		statutes: make(map[int64]*model.Statute),
		byKey:    make(map[statuteKey]int64),
	}
}

func copyStatute(s *model.Statute) *model.Statute {
	copied := *s
	return &copied
}

func (r *statuteRepository) Put(_ context.Context, statute *model.Statute) error {
	if statute == nil || statute.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "statute ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := statuteKey{chapter: statute.ChapterNo, section: statute.SectionNo}
	if existing, ok := r.byKey[key]; ok && existing != statute.ID {
		return goerr.Wrap(ErrInvalidArgument, "statute section already exists",
			goerr.V("citation", statute.Citation()),
			goerr.V("existingID", existing))
	}

	if old, ok := r.statutes[statute.ID]; ok {
		delete(r.byKey, statuteKey{chapter: old.ChapterNo, section: old.SectionNo})
	}

	r.statutes[statute.ID] = copyStatute(statute)
	r.byKey[key] = statute.ID
	return nil
}

func (r *statuteRepository) Get(_ context.Context, chapter, section string) (*model.Statute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[statuteKey{chapter: chapter, section: section}]
	if !ok {
		return nil, nil
	}
	return copyStatute(r.statutes[id]), nil
}

func (r *statuteRepository) GetByID(_ context.Context, id int64) (*model.Statute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.statutes[id]
	if !ok {
		return nil, nil
	}
	return copyStatute(s), nil
}

func (r *statuteRepository) ListByChapter(_ context.Context, chapter string) ([]*model.Statute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statutes := make([]*model.Statute, 0)
	for _, s := range r.statutes {
		if s.ChapterNo == chapter {
			statutes = append(statutes, copyStatute(s))
		}
	}
	sort.Slice(statutes, func(i, j int) bool {
		if statutes[i].SectionNo != statutes[j].SectionNo {
			return statutes[i].SectionNo < statutes[j].SectionNo
		}
		return statutes[i].ID < statutes[j].ID
	})
	return statutes, nil
}

func (r *statuteRepository) List(_ context.Context) ([]*model.Statute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	statutes := make([]*model.Statute, 0, len(r.statutes))
	for _, s := range r.statutes {
		statutes = append(statutes, copyStatute(s))
	}
	sort.Slice(statutes, func(i, j int) bool {
		return statutes[i].ID < statutes[j].ID
	})
	return statutes, nil
}
