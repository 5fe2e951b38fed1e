package firestore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type statuteRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.StatuteRepository = &statuteRepository{}

func (r *statuteRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, collectionStatutes))
}

func (r *statuteRepository) query(ctx context.Context, q firestore.Query) ([]*model.Statute, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	statutes := make([]*model.Statute, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate statutes")
		}

		var s model.Statute
		if err := doc.DataTo(&s); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal statute", goerr.V("docID", doc.Ref.ID))
		}
		statutes = append(statutes, &s)
	}
	return statutes, nil
}

func (r *statuteRepository) Put(ctx context.Context, statute *model.Statute) error {
	if statute == nil || statute.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "statute ID is required")
	}

	existing, err := r.Get(ctx, statute.ChapterNo, statute.SectionNo)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != statute.ID {
		return goerr.Wrap(ErrInvalidArgument, "statute section already exists",
			goerr.V("citation", statute.Citation()),
			goerr.V("existingID", existing.ID))
	}

	if _, err := r.collection().Doc(docID(statute.ID)).Set(ctx, statute); err != nil {
		return goerr.Wrap(err, "failed to put statute", goerr.V("id", statute.ID))
	}
	return nil
}

func (r *statuteRepository) Get(ctx context.Context, chapter, section string) (*model.Statute, error) {
	statutes, err := r.query(ctx, r.collection().
		Where("ChapterNo", "==", chapter).
		Where("SectionNo", "==", section).
		Limit(1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get statute", goerr.V("chapter", chapter), goerr.V("section", section))
	}
	if len(statutes) == 0 {
		return nil, nil
	}
	return statutes[0], nil
}

func (r *statuteRepository) GetByID(ctx context.Context, id int64) (*model.Statute, error) {
	doc, err := r.collection().Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get statute", goerr.V("id", id))
	}

	var s model.Statute
	if err := doc.DataTo(&s); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal statute", goerr.V("id", id))
	}
	return &s, nil
}

func (r *statuteRepository) ListByChapter(ctx context.Context, chapter string) ([]*model.Statute, error) {
	statutes, err := r.query(ctx, r.collection().Where("ChapterNo", "==", chapter))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list statutes", goerr.V("chapter", chapter))
	}

	sort.Slice(statutes, func(i, j int) bool {
		if statutes[i].SectionNo != statutes[j].SectionNo {
			return statutes[i].SectionNo < statutes[j].SectionNo
		}
		return statutes[i].ID < statutes[j].ID
	})
	return statutes, nil
}

func (r *statuteRepository) List(ctx context.Context) ([]*model.Statute, error) {
	statutes, err := r.query(ctx, r.collection().Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list statutes")
	}

	sort.Slice(statutes, func(i, j int) bool {
		return statutes[i].ID < statutes[j].ID
	})
	return statutes, nil
}
