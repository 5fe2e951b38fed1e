package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type legislationRepository struct {
	mu       sync.RWMutex
	bills    map[int64]*model.Legislation
	sponsors map[int64][]*model.Sponsor
}

var _ interfaces.LegislationRepository = &legislationRepository{}

func newLegislationRepository() *legislationRepository {
	return &legislationRepository{
		bills:    make(map[int64]*model.Legislation),
		sponsors: make(map[int64][]*model.Sponsor),
	}
}

func copyLegislation(l *model.Legislation) *model.Legislation {
	copied := *l
	return &copied
}

func copySponsor(s *model.Sponsor) *model.Sponsor {
	copied := *s
	return &copied
}

func (r *legislationRepository) Put(_ context.Context, bill *model.Legislation) error {
	if bill == nil || bill.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "legislation ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.bills[bill.ID] = copyLegislation(bill)
	return nil
}

func (r *legislationRepository) PutSponsors(_ context.Context, legislationID int64, sponsors []*model.Sponsor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bills[legislationID]; !ok {
		return goerr.Wrap(ErrNotFound, "legislation not found", goerr.V("id", legislationID))
	}

	copied := make([]*model.Sponsor, 0, len(sponsors))
	for _, s := range sponsors {
		c := copySponsor(s)
		c.LegislationID = legislationID
		copied = append(copied, c)
	}
	r.sponsors[legislationID] = copied
	return nil
}

func (r *legislationRepository) Get(_ context.Context, id int64) (*model.Legislation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bills[id]
	if !ok {
		return nil, nil
	}
	return copyLegislation(b), nil
}

// sortedBills returns bills ordered by bill number, then ID. Caller must hold the lock.
func (r *legislationRepository) sortedBills() []*model.Legislation {
	bills := make([]*model.Legislation, 0, len(r.bills))
	for _, b := range r.bills {
		bills = append(bills, b)
	}
	sort.Slice(bills, func(i, j int) bool {
		if bills[i].BillNumber != bills[j].BillNumber {
			return bills[i].BillNumber < bills[j].BillNumber
		}
		return bills[i].ID < bills[j].ID
	})
	return bills
}

func (r *legislationRepository) FindByBillNumber(_ context.Context, candidates ...string) (*model.Legislation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.sortedBills() {
		for _, c := range candidates {
			if b.BillNumber == c {
				return copyLegislation(b), nil
			}
		}
	}
	return nil, nil
}

func (r *legislationRepository) SearchByTitle(_ context.Context, term string, sessionYear, limit int) ([]*model.Legislation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)
	results := make([]*model.Legislation, 0)
	for _, b := range r.sortedBills() {
		if limit > 0 && len(results) >= limit {
			break
		}
		if b.SessionYear != sessionYear {
			continue
		}
		if !strings.Contains(strings.ToLower(b.Title), needle) {
			continue
		}
		results = append(results, copyLegislation(b))
	}
	return results, nil
}

func (r *legislationRepository) ListSponsors(_ context.Context, legislationID int64) ([]*model.Sponsor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sponsors := make([]*model.Sponsor, 0, len(r.sponsors[legislationID]))
	for _, s := range r.sponsors[legislationID] {
		sponsors = append(sponsors, copySponsor(s))
	}
	sort.SliceStable(sponsors, func(i, j int) bool {
		return sponsors[i].IsPrime && !sponsors[j].IsPrime
	})
	return sponsors, nil
}

func (r *legislationRepository) List(_ context.Context) ([]*model.Legislation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bills := make([]*model.Legislation, 0, len(r.bills))
	for _, b := range r.bills {
		bills = append(bills, copyLegislation(b))
	}
	sort.Slice(bills, func(i, j int) bool {
		return bills[i].ID < bills[j].ID
	})
	return bills, nil
}
