package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/service/chunker"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Refresher reloads the in-memory search index from durable storage
type Refresher interface {
	Refresh(ctx context.Context) error
}

// IndexUseCase rebuilds the embedding index from the stored content
type IndexUseCase struct {
	repo      interfaces.Repository
	embedder  interfaces.Embedder
	refresher Refresher
	chunker   *chunker.Chunker
	now       func() time.Time
}

// IndexOption configures an IndexUseCase
type IndexOption func(*IndexUseCase)

// WithChunker replaces the default 512/50 word chunker
func WithChunker(c *chunker.Chunker) IndexOption {
	return func(uc *IndexUseCase) {
		uc.chunker = c
	}
}

// WithIndexClock replaces the clock used for record timestamps
func WithIndexClock(now func() time.Time) IndexOption {
	return func(uc *IndexUseCase) {
		uc.now = now
	}
}

// NewIndexUseCase creates an IndexUseCase. refresher may be nil when no
// in-process index needs reloading, as in the reindex command.
func NewIndexUseCase(repo interfaces.Repository, embedder interfaces.Embedder, refresher Refresher, opts ...IndexOption) *IndexUseCase {
	uc := &IndexUseCase{
		repo:      repo,
		embedder:  embedder,
		refresher: refresher,
		chunker:   chunker.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Rebuild re-embeds every record of the given content types (all types when
// none is given) and replaces their stored embeddings. It returns the number
// of records written per type.
func (uc *IndexUseCase) Rebuild(ctx context.Context, contentTypes ...types.ContentType) (map[types.ContentType]int, error) {
	if uc.embedder == nil {
		return nil, ErrNoEmbedder
	}
	if len(contentTypes) == 0 {
		contentTypes = types.AllContentTypes()
	}
	for _, ct := range contentTypes {
		if !ct.IsValid() {
			return nil, goerr.Wrap(ErrUnknownContentType, "cannot rebuild index", goerr.V(ContentTypeKey, ct))
		}
	}

	logger := logging.From(ctx)
	counts := make(map[types.ContentType]int, len(contentTypes))

	for _, ct := range contentTypes {
		records, err := uc.compose(ctx, ct)
		if err != nil {
			return counts, err
		}

		if err := uc.embed(ctx, records); err != nil {
			return counts, goerr.Wrap(err, "failed to embed records", goerr.V(ContentTypeKey, ct), goerr.V("count", len(records)))
		}

		if err := uc.repo.Embedding().ReplaceByType(ctx, ct, records); err != nil {
			return counts, goerr.Wrap(err, "failed to store embeddings", goerr.V(ContentTypeKey, ct))
		}

		counts[ct] = len(records)
		logger.Info("rebuilt embeddings", "content_type", ct, "records", len(records))
	}

	if uc.refresher != nil {
		if err := uc.refresher.Refresh(ctx); err != nil {
			return counts, goerr.Wrap(err, "failed to refresh search index")
		}
	}

	return counts, nil
}

func (uc *IndexUseCase) embed(ctx context.Context, records []*model.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.TextChunk
	}

	vectors, err := uc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(records) {
		return goerr.New("embedder returned a different number of vectors",
			goerr.V("want", len(records)), goerr.V("got", len(vectors)))
	}

	now := uc.now()
	for i, r := range records {
		r.Vector = vectors[i]
		r.CreatedAt = now
	}
	return nil
}

// compose builds the records of one content type with their text filled in and no vector yet
func (uc *IndexUseCase) compose(ctx context.Context, ct types.ContentType) ([]*model.EmbeddingRecord, error) {
	var records []*model.EmbeddingRecord
	add := func(id int64, chunkIndex int, text string) {
		records = append(records, &model.EmbeddingRecord{
			ContentType: ct,
			ContentID:   id,
			ChunkIndex:  chunkIndex,
			TextChunk:   text,
		})
	}
	addChunks := func(id int64, text string) {
		for i, chunk := range uc.chunker.Split(text) {
			add(id, i, chunk)
		}
	}

	switch ct {
	case types.ContentTypeProvider:
		providers, err := uc.repo.Provider().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list providers")
		}
		for _, p := range providers {
			text := fmt.Sprintf("%s. %s. Styles: %s. Location: %s", p.Title, p.Description, p.StylesRaw, p.Address)
			add(p.ID, 0, strings.TrimSpace(text))
		}

	case types.ContentTypePost, types.ContentTypePage, types.ContentTypeHandbook:
		pages, err := uc.repo.Content().List(ctx, ct)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list content pages", goerr.V(ContentTypeKey, ct))
		}
		for _, page := range pages {
			addChunks(page.ID, fmt.Sprintf("%s. %s", page.Title, page.Text))
		}

	case types.ContentTypeRSA:
		statutes, err := uc.repo.Statute().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list statutes")
		}
		for _, s := range statutes {
			addChunks(s.ID, fmt.Sprintf("RSA %s - %s. %s. %s", s.Citation(), s.SectionName, s.ChapterName, s.Text))
		}

	case types.ContentTypeLegislation:
		bills, err := uc.repo.Legislation().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list legislation")
		}
		for _, b := range bills {
			sponsors, err := uc.repo.Legislation().ListSponsors(ctx, b.ID)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to list sponsors", goerr.V("legislation_id", b.ID))
			}
			names := make([]string, 0, len(sponsors))
			for _, s := range sponsors {
				names = append(names, s.FirstName+" "+s.LastName)
			}
			text := fmt.Sprintf("%s - %s. Sponsors: %s", b.BillNumber, b.Title, strings.Join(names, ", "))
			add(b.ID, 0, strings.TrimSpace(text))
		}
	}

	return records, nil
}
