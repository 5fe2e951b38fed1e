package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type providerDoc struct {
	ID             int64     `firestore:"ID"`
	Slug           string    `firestore:"Slug"`
	Title          string    `firestore:"Title"`
	Description    string    `firestore:"Description"`
	ContentText    string    `firestore:"ContentText"`
	URL            string    `firestore:"URL"`
	Address        string    `firestore:"Address"`
	Latitude       *float64  `firestore:"Latitude"`
	Longitude      *float64  `firestore:"Longitude"`
	GradeStart     *int64    `firestore:"GradeStart"`
	GradeEnd       *int64    `firestore:"GradeEnd"`
	EducationStyle string    `firestore:"EducationStyle"`
	StylesRaw      string    `firestore:"StylesRaw"`
	Website        string    `firestore:"Website"`
	ContactName    string    `firestore:"ContactName"`
	ContactEmail   string    `firestore:"ContactEmail"`
	ContactPhone   string    `firestore:"ContactPhone"`
	OnlineOnly     bool      `firestore:"OnlineOnly"`
	IngestedAt     time.Time `firestore:"IngestedAt"`
}

func gradeToDoc(g *types.Grade) *int64 {
	if g == nil {
		return nil
	}
	v := int64(*g)
	return &v
}

func gradeFromDoc(v *int64) *types.Grade {
	if v == nil {
		return nil
	}
	g := types.Grade(*v)
	return &g
}

func toProviderDoc(p *model.Provider) *providerDoc {
	doc := &providerDoc{
		ID:             p.ID,
		Slug:           p.Slug,
		Title:          p.Title,
		Description:    p.Description,
		ContentText:    p.ContentText,
		URL:            p.URL,
		Address:        p.Address,
		GradeStart:     gradeToDoc(p.GradeStart),
		GradeEnd:       gradeToDoc(p.GradeEnd),
		EducationStyle: string(p.EducationStyle),
		StylesRaw:      p.StylesRaw,
		Website:        p.Website,
		ContactName:    p.ContactName,
		ContactEmail:   p.ContactEmail,
		ContactPhone:   p.ContactPhone,
		OnlineOnly:     p.OnlineOnly,
		IngestedAt:     p.IngestedAt,
	}
	if p.Location != nil {
		lat, lon := p.Location.Latitude, p.Location.Longitude
		doc.Latitude = &lat
		doc.Longitude = &lon
	}
	return doc
}

func fromProviderDoc(d *providerDoc) *model.Provider {
	p := &model.Provider{
		ID:             d.ID,
		Slug:           d.Slug,
		Title:          d.Title,
		Description:    d.Description,
		ContentText:    d.ContentText,
		URL:            d.URL,
		Address:        d.Address,
		GradeStart:     gradeFromDoc(d.GradeStart),
		GradeEnd:       gradeFromDoc(d.GradeEnd),
		EducationStyle: types.EducationStyle(d.EducationStyle),
		StylesRaw:      d.StylesRaw,
		Website:        d.Website,
		ContactName:    d.ContactName,
		ContactEmail:   d.ContactEmail,
		ContactPhone:   d.ContactPhone,
		OnlineOnly:     d.OnlineOnly,
		IngestedAt:     d.IngestedAt,
	}
	if d.Latitude != nil && d.Longitude != nil {
		p.Location = &model.Coordinates{Latitude: *d.Latitude, Longitude: *d.Longitude}
	}
	return p
}

type providerRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.ProviderRepository = &providerRepository{}

func (r *providerRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(collectionName(r.collectionPrefix, collectionProviders))
}

func (r *providerRepository) Put(ctx context.Context, provider *model.Provider) error {
	if provider == nil || provider.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "provider ID is required")
	}

	if _, err := r.collection().Doc(docID(provider.ID)).Set(ctx, toProviderDoc(provider)); err != nil {
		return goerr.Wrap(err, "failed to put provider", goerr.V("id", provider.ID))
	}
	return nil
}

func (r *providerRepository) Get(ctx context.Context, id int64) (*model.Provider, error) {
	doc, err := r.collection().Doc(docID(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get provider", goerr.V("id", id))
	}

	var d providerDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal provider", goerr.V("id", id))
	}
	return fromProviderDoc(&d), nil
}

func (r *providerRepository) List(ctx context.Context) ([]*model.Provider, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	providers := make([]*model.Provider, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate providers")
		}

		var d providerDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal provider", goerr.V("docID", doc.Ref.ID))
		}
		providers = append(providers, fromProviderDoc(&d))
	}

	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ID < providers[j].ID
	})
	return providers, nil
}
