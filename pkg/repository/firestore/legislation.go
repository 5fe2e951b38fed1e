package firestore

import (
	"context"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type sponsorDoc struct {
	model.Sponsor
	Position int `firestore:"Position"`
}

type legislationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.LegislationRepository = &legislationRepository{}

func (r *legislationRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, collectionLegislation))
}

func (r *legislationRepository) sponsorsCollection(legislationID int64) *firestore.CollectionRef {
	return r.collection().Doc(docID(legislationID)).Collection(collectionSponsors)
}

func (r *legislationRepository) query(ctx context.Context, q firestore.Query) ([]*model.Legislation, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	bills := make([]*model.Legislation, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate legislation")
		}

		var l model.Legislation
		if err := doc.DataTo(&l); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal legislation", goerr.V("docID", doc.Ref.ID))
		}
		bills = append(bills, &l)
	}

	sort.Slice(bills, func(i, j int) bool {
		if bills[i].BillNumber != bills[j].BillNumber {
			return bills[i].BillNumber < bills[j].BillNumber
		}
		return bills[i].ID < bills[j].ID
	})
	return bills, nil
}

func (r *legislationRepository) Put(ctx context.Context, bill *model.Legislation) error {
	if bill == nil || bill.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "legislation ID is required")
	}

	if _, err := r.collection().Doc(docID(bill.ID)).Set(ctx, bill); err != nil {
		return goerr.Wrap(err, "failed to put legislation", goerr.V("id", bill.ID))
	}
	return nil
}

func (r *legislationRepository) PutSponsors(ctx context.Context, legislationID int64, sponsors []*model.Sponsor) error {
	bill, err := r.Get(ctx, legislationID)
	if err != nil {
		return err
	}
	if bill == nil {
		return goerr.Wrap(ErrNotFound, "legislation not found", goerr.V("id", legislationID))
	}

	iter := r.sponsorsCollection(legislationID).Documents(ctx)
	bulkWriter := r.client.BulkWriter(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			iter.Stop()
			bulkWriter.End()
			return goerr.Wrap(err, "failed to iterate sponsors", goerr.V("id", legislationID))
		}
		if _, err := bulkWriter.Delete(doc.Ref); err != nil {
			iter.Stop()
			bulkWriter.End()
			return goerr.Wrap(err, "failed to delete sponsor", goerr.V("id", legislationID))
		}
	}
	iter.Stop()
	bulkWriter.End()

	bulkWriter = r.client.BulkWriter(ctx)
	for i, s := range sponsors {
		doc := sponsorDoc{Sponsor: *s, Position: i}
		doc.LegislationID = legislationID
		if _, err := bulkWriter.Set(r.sponsorsCollection(legislationID).Doc(docID(int64(i))), doc); err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to write sponsor", goerr.V("id", legislationID), goerr.V("personID", s.PersonID))
		}
	}
	bulkWriter.End()

	return nil
}

func (r *legislationRepository) Get(ctx context.Context, id int64) (*model.Legislation, error) {
	doc, err := r.collection().Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get legislation", goerr.V("id", id))
	}

	var l model.Legislation
	if err := doc.DataTo(&l); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal legislation", goerr.V("id", id))
	}
	return &l, nil
}

func (r *legislationRepository) FindByBillNumber(ctx context.Context, candidates ...string) (*model.Legislation, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	bills, err := r.query(ctx, r.collection().Where("BillNumber", "in", candidates))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find legislation", goerr.V("candidates", candidates))
	}
	if len(bills) == 0 {
		return nil, nil
	}
	return bills[0], nil
}

// SearchByTitle filters titles client-side since Firestore has no substring match
func (r *legislationRepository) SearchByTitle(ctx context.Context, term string, sessionYear, limit int) ([]*model.Legislation, error) {
	bills, err := r.query(ctx, r.collection().Where("SessionYear", "==", sessionYear))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search legislation", goerr.V("term", term))
	}

	needle := strings.ToLower(term)
	results := make([]*model.Legislation, 0)
	for _, b := range bills {
		if limit > 0 && len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(b.Title), needle) {
			results = append(results, b)
		}
	}
	return results, nil
}

func (r *legislationRepository) ListSponsors(ctx context.Context, legislationID int64) ([]*model.Sponsor, error) {
	iter := r.sponsorsCollection(legislationID).Documents(ctx)
	defer iter.Stop()

	docs := make([]*sponsorDoc, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sponsors", goerr.V("id", legislationID))
		}

		var d sponsorDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal sponsor", goerr.V("docID", doc.Ref.ID))
		}
		docs = append(docs, &d)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].IsPrime != docs[j].IsPrime {
			return docs[i].IsPrime
		}
		return docs[i].Position < docs[j].Position
	})

	sponsors := make([]*model.Sponsor, 0, len(docs))
	for _, d := range docs {
		s := d.Sponsor
		sponsors = append(sponsors, &s)
	}
	return sponsors, nil
}

func (r *legislationRepository) List(ctx context.Context) ([]*model.Legislation, error) {
	bills, err := r.query(ctx, r.collection().Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list legislation")
	}

	sort.Slice(bills, func(i, j int) bool {
		return bills[i].ID < bills[j].ID
	})
	return bills, nil
}
