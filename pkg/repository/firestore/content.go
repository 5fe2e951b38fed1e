package firestore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type contentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ContentRepository = &contentRepository{}

func (r *contentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, collectionContent))
}

func (r *contentRepository) Put(ctx context.Context, page *model.ContentPage) error {
	if page == nil || page.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "content ID is required")
	}
	if !page.ContentType.IsPage() {
		return goerr.Wrap(ErrInvalidArgument, "content type is not a page type",
			goerr.V("contentType", page.ContentType))
	}

	if _, err := r.collection().Doc(docID(page.ID)).Set(ctx, page); err != nil {
		return goerr.Wrap(err, "failed to put content", goerr.V("id", page.ID))
	}
	return nil
}

func (r *contentRepository) Get(ctx context.Context, id int64) (*model.ContentPage, error) {
	doc, err := r.collection().Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get content", goerr.V("id", id))
	}

	var p model.ContentPage
	if err := doc.DataTo(&p); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal content", goerr.V("id", id))
	}
	return &p, nil
}

func (r *contentRepository) List(ctx context.Context, contentType types.ContentType) ([]*model.ContentPage, error) {
	iter := r.collection().Where("ContentType", "==", string(contentType)).Documents(ctx)
	defer iter.Stop()

	pages := make([]*model.ContentPage, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate content", goerr.V("contentType", contentType))
		}

		var p model.ContentPage
		if err := doc.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal content", goerr.V("docID", doc.Ref.ID))
		}
		pages = append(pages, &p)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].ID < pages[j].ID
	})
	return pages, nil
}
