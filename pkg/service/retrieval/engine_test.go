package retrieval_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"sync/atomic"
	"testing"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/service/retrieval"
	"github.com/edopt/chatbot/pkg/service/vectorstore"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

type mockEmbedder struct {
	calls   atomic.Int32
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	return m.embedFn(ctx, text)
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

type mockSource struct {
	records []*model.EmbeddingRecord
	err     error
}

func (m *mockSource) ReplaceByType(ctx context.Context, contentType types.ContentType, records []*model.EmbeddingRecord) error {
	return nil
}

func (m *mockSource) List(ctx context.Context) ([]*model.EmbeddingRecord, error) {
	return m.records, m.err
}

func unit(v ...float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	n := float32(math.Sqrt(sum))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / n
	}
	return out
}

func fixedEmbedder(vec []float32) *mockEmbedder {
	return &mockEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			return vec, nil
		},
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	engine, err := retrieval.New(fixedEmbedder(unit(1, 0, 0)), vectorstore.New(vectorstore.WithDimension(3)))
	gt.NoError(t, err).Required()

	results, err := engine.Search(context.Background(), "anything", "", 10)
	gt.NoError(t, err).Required()
	gt.Bool(t, results != nil).True()
	gt.Array(t, results).Length(0)
}

func TestSearch_FilterByProvider(t *testing.T) {
	store := vectorstore.New(vectorstore.WithDimension(3))
	source := &mockSource{records: []*model.EmbeddingRecord{
		{ContentType: types.ContentTypeRSA, ContentID: 1, Vector: unit(1, 0, 0)},
		{ContentType: types.ContentTypeRSA, ContentID: 2, Vector: unit(0, 1, 0)},
		{ContentType: types.ContentTypeRSA, ContentID: 3, Vector: unit(0, 0, 1)},
		{ContentType: types.ContentTypeProvider, ContentID: 20, Vector: unit(0, 1, 1)},
		{ContentType: types.ContentTypeProvider, ContentID: 21, Vector: unit(1, 1, 0)},
	}}

	engine, err := retrieval.New(fixedEmbedder(unit(1, 0, 0)), store, retrieval.WithSource(source))
	gt.NoError(t, err).Required()
	gt.NoError(t, engine.Refresh(context.Background())).Required()

	results, err := engine.Search(context.Background(), "schools in concord", types.ContentTypeProvider, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(2).Required()
	gt.Value(t, results[0].ContentID).Equal(int64(21))
	gt.Value(t, results[1].ContentID).Equal(int64(20))
	gt.Bool(t, results[0].Score > results[1].Score).True()
}

func TestSearch_DefaultTopK(t *testing.T) {
	store := vectorstore.New(vectorstore.WithDimension(3))
	var records []*model.EmbeddingRecord
	for i := range 15 {
		records = append(records, &model.EmbeddingRecord{
			ContentType: types.ContentTypePost,
			ContentID:   int64(i),
			Vector:      unit(1, float32(i), 0),
		})
	}
	gt.NoError(t, store.Load(records)).Required()

	engine, err := retrieval.New(fixedEmbedder(unit(1, 0, 0)), store)
	gt.NoError(t, err).Required()

	results, err := engine.Search(context.Background(), "efa", "", 0)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(retrieval.DefaultTopK)
}

func TestSearch_EmbeddingFailure(t *testing.T) {
	embedErr := errors.New("model unavailable")
	embedder := &mockEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			return nil, embedErr
		},
	}
	engine, err := retrieval.New(embedder, vectorstore.New(vectorstore.WithDimension(3)))
	gt.NoError(t, err).Required()

	results, err := engine.Search(context.Background(), "homeschool", "", 10)
	gt.Error(t, err).Is(embedErr)
	gt.Bool(t, results != nil).True()
	gt.Array(t, results).Length(0)
}

func TestSearch_BlankQuerySkipsEmbedding(t *testing.T) {
	embedder := fixedEmbedder(unit(1, 0, 0))
	engine, err := retrieval.New(embedder, vectorstore.New(vectorstore.WithDimension(3)))
	gt.NoError(t, err).Required()

	results, err := engine.Search(context.Background(), "   ", "", 10)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(0)
	gt.Number(t, embedder.calls.Load()).Equal(0)
}

func TestSearch_QueryVectorCache(t *testing.T) {
	embedder := fixedEmbedder(unit(1, 0, 0))
	engine, err := retrieval.New(embedder, vectorstore.New(vectorstore.WithDimension(3)))
	gt.NoError(t, err).Required()

	for range 3 {
		_, err := engine.Search(context.Background(), "charter school", "", 10)
		gt.NoError(t, err).Required()
	}
	gt.Number(t, embedder.calls.Load()).Equal(1)

	uncached, err := retrieval.New(embedder, vectorstore.New(vectorstore.WithDimension(3)), retrieval.WithQueryCacheSize(0))
	gt.NoError(t, err).Required()
	for range 2 {
		_, err := uncached.Search(context.Background(), "charter school", "", 10)
		gt.NoError(t, err).Required()
	}
	gt.Number(t, embedder.calls.Load()).Equal(3)
}

func TestRefresh(t *testing.T) {
	t.Run("without source", func(t *testing.T) {
		engine, err := retrieval.New(fixedEmbedder(unit(1, 0, 0)), vectorstore.New(vectorstore.WithDimension(3)))
		gt.NoError(t, err).Required()
		gt.Error(t, engine.Refresh(context.Background())).Is(retrieval.ErrNoSource)
	})

	t.Run("invalid records keep previous index", func(t *testing.T) {
		store := vectorstore.New(vectorstore.WithDimension(3))
		gt.NoError(t, store.Load([]*model.EmbeddingRecord{
			{ContentType: types.ContentTypeRSA, ContentID: 1, Vector: unit(1, 0, 0)},
		})).Required()

		source := &mockSource{records: []*model.EmbeddingRecord{
			{ContentType: types.ContentTypeRSA, ContentID: 2, Vector: []float32{1, 0}},
		}}
		engine, err := retrieval.New(fixedEmbedder(unit(1, 0, 0)), store, retrieval.WithSource(source))
		gt.NoError(t, err).Required()

		gt.Error(t, engine.Refresh(context.Background())).Is(vectorstore.ErrDimensionMismatch)
		gt.Number(t, store.Size()).Equal(1)
	})
	t.Run("duplicate keys log the deduplicated total", func(t *testing.T) {
		store := vectorstore.New(vectorstore.WithDimension(3))
		source := &mockSource{records: []*model.EmbeddingRecord{
			{ContentType: types.ContentTypeRSA, ContentID: 1, Vector: unit(1, 0, 0)},
			{ContentType: types.ContentTypeRSA, ContentID: 1, Vector: unit(0, 1, 0)},
			{ContentType: types.ContentTypeRSA, ContentID: 2, Vector: unit(0, 0, 1)},
		}}
		engine, err := retrieval.New(fixedEmbedder(unit(1, 0, 0)), store, retrieval.WithSource(source))
		gt.NoError(t, err).Required()

		var buf bytes.Buffer
		ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
		gt.NoError(t, engine.Refresh(ctx)).Required()
		gt.Number(t, store.Size()).Equal(2)

		var entry struct {
			Msg   string `json:"msg"`
			Total int    `json:"total"`
		}
		gt.NoError(t, json.Unmarshal(buf.Bytes(), &entry)).Required()
		gt.Value(t, entry.Msg).Equal("loaded embeddings into memory")
		gt.Number(t, entry.Total).Equal(2)
	})
}
