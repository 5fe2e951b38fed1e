package vectorstore_test

import (
	"math"
	"sync"
	"testing"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/service/vectorstore"
	"github.com/m-mizutani/gt"
)

var _ interfaces.VectorIndex = (*vectorstore.Store)(nil)

// unit returns v scaled to unit length
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

func record(ct types.ContentType, id int64, chunk int, vec []float32) *model.EmbeddingRecord {
	return &model.EmbeddingRecord{
		ContentType: ct,
		ContentID:   id,
		ChunkIndex:  chunk,
		TextChunk:   string(ct),
		Vector:      vec,
	}
}

func newStore(t *testing.T, records ...*model.EmbeddingRecord) *vectorstore.Store {
	t.Helper()
	s := vectorstore.New(vectorstore.WithDimension(3))
	gt.NoError(t, s.Load(records)).Required()
	return s
}

func TestQuery_EmptyIndex(t *testing.T) {
	s := vectorstore.New(vectorstore.WithDimension(3))

	results, err := s.Query(unit(1, 0, 0), "", 10)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(0)
}

func TestQuery_TypeFilter(t *testing.T) {
	s := newStore(t,
		record(types.ContentTypeRSA, 1, 0, unit(1, 0, 0)),
		record(types.ContentTypeRSA, 2, 0, unit(0, 1, 0)),
		record(types.ContentTypeRSA, 3, 0, unit(0, 0, 1)),
		record(types.ContentTypeProvider, 10, 0, unit(1, 1, 0)),
		record(types.ContentTypeProvider, 11, 0, unit(0, 1, 1)),
	)

	t.Run("filter returns only that type ordered by score", func(t *testing.T) {
		results, err := s.Query(unit(1, 0, 0), types.ContentTypeProvider, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(2).Required()

		gt.Value(t, results[0].ContentID).Equal(int64(10))
		gt.Value(t, results[1].ContentID).Equal(int64(11))
		gt.Bool(t, results[0].Score >= results[1].Score).True()
		for _, r := range results {
			gt.Value(t, r.ContentType).Equal(types.ContentTypeProvider)
		}
	})

	t.Run("absent type returns empty without falling back", func(t *testing.T) {
		results, err := s.Query(unit(1, 0, 0), types.ContentTypeLegislation, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(0)
	})

	t.Run("no filter searches every type", func(t *testing.T) {
		results, err := s.Query(unit(1, 0, 0), "", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(5)
	})
}

func TestQuery_TopKBound(t *testing.T) {
	s := newStore(t,
		record(types.ContentTypePost, 1, 0, unit(1, 0, 0)),
		record(types.ContentTypePost, 2, 0, unit(0, 1, 0)),
		record(types.ContentTypePage, 3, 0, unit(0, 0, 1)),
	)

	for _, k := range []int{0, 1, 2, 3, 4, 100} {
		results, err := s.Query(unit(1, 1, 1), "", k)
		gt.NoError(t, err).Required()
		gt.Number(t, len(results)).Equal(min(k, 3))
	}

	results, err := s.Query(unit(1, 1, 1), "", -1)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(0)
}

func TestQuery_DeterministicTieBreak(t *testing.T) {
	same := unit(1, 1, 0)
	s := newStore(t,
		record(types.ContentTypePage, 3, 0, same),
		record(types.ContentTypePost, 1, 0, same),
		record(types.ContentTypePage, 2, 0, same),
		record(types.ContentTypePost, 9, 1, unit(0, 0, 1)),
	)

	first, err := s.Query(unit(1, 0, 0), "", 10)
	gt.NoError(t, err).Required()
	gt.Array(t, first).Length(4).Required()

	// equal scores keep insertion order across types
	gt.Value(t, first[0].ContentID).Equal(int64(3))
	gt.Value(t, first[1].ContentID).Equal(int64(1))
	gt.Value(t, first[2].ContentID).Equal(int64(2))
	gt.Value(t, first[3].ContentID).Equal(int64(9))

	for range 20 {
		again, err := s.Query(unit(1, 0, 0), "", 10)
		gt.NoError(t, err).Required()
		gt.Value(t, again).Equal(first)
	}
}

func TestQuery_CosineBounds(t *testing.T) {
	v := unit(0.3, -0.2, 0.9)
	s := newStore(t,
		record(types.ContentTypeRSA, 1, 0, v),
		record(types.ContentTypeRSA, 2, 0, unit(-0.3, 0.2, -0.9)),
		record(types.ContentTypeRSA, 3, 0, unit(0.5, 0.5, 0.1)),
	)

	results, err := s.Query(v, "", 10)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(3).Required()

	gt.Bool(t, results[0].Score >= 0.999999).True()
	gt.Bool(t, results[0].Score <= 1).True()
	for _, r := range results {
		gt.Bool(t, r.Score >= -1 && r.Score <= 1).True()
	}
	gt.Bool(t, results[2].Score <= -0.999999).True()
}

func TestLoad_DuplicateKeyLastWriteWins(t *testing.T) {
	s := newStore(t,
		record(types.ContentTypeRSA, 1, 0, unit(1, 0, 0)),
		record(types.ContentTypeRSA, 2, 0, unit(1, 0, 0)),
		&model.EmbeddingRecord{
			ContentType: types.ContentTypeRSA,
			ContentID:   1,
			ChunkIndex:  0,
			TextChunk:   "replacement",
			Vector:      unit(1, 0, 0),
		},
	)

	gt.Number(t, s.Size()).Equal(2)

	results, err := s.Query(unit(1, 0, 0), types.ContentTypeRSA, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(2).Required()

	// the surviving record keeps the slot of the first occurrence
	gt.Value(t, results[0].ContentID).Equal(int64(1))
	gt.Value(t, results[0].TextChunk).Equal("replacement")
	gt.Value(t, results[1].ContentID).Equal(int64(2))
}

func TestLoad_DifferentChunksAreDistinct(t *testing.T) {
	s := newStore(t,
		record(types.ContentTypeHandbook, 1, 0, unit(1, 0, 0)),
		record(types.ContentTypeHandbook, 1, 1, unit(0, 1, 0)),
	)
	gt.Number(t, s.Size()).Equal(2)
}

func TestLoad_RejectsInvalidRecordsAndKeepsPreviousIndex(t *testing.T) {
	s := newStore(t, record(types.ContentTypeRSA, 1, 0, unit(1, 0, 0)))

	tests := []struct {
		name   string
		record *model.EmbeddingRecord
		target error
	}{
		{"wrong dimension", record(types.ContentTypeRSA, 2, 0, unit(1, 0)), vectorstore.ErrDimensionMismatch},
		{"not normalized", record(types.ContentTypeRSA, 2, 0, []float32{1, 1, 0}), vectorstore.ErrNotNormalized},
		{"empty type", record("", 2, 0, unit(1, 0, 0)), vectorstore.ErrInvalidRecord},
		{"nil record", nil, vectorstore.ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Load([]*model.EmbeddingRecord{
				record(types.ContentTypePost, 5, 0, unit(0, 1, 0)),
				tt.record,
			})
			gt.Error(t, err).Is(tt.target)

			gt.Number(t, s.Size()).Equal(1)
			gt.Value(t, s.Stats()).Equal(map[types.ContentType]int{types.ContentTypeRSA: 1})
		})
	}
}

func TestQuery_RejectsInvalidQueryVector(t *testing.T) {
	s := newStore(t, record(types.ContentTypeRSA, 1, 0, unit(1, 0, 0)))

	_, err := s.Query([]float32{1, 0}, "", 10)
	gt.Error(t, err).Is(vectorstore.ErrDimensionMismatch)

	_, err = s.Query([]float32{2, 0, 0}, "", 10)
	gt.Error(t, err).Is(vectorstore.ErrNotNormalized)
}

func TestLoad_CallerMutationDoesNotLeakIntoIndex(t *testing.T) {
	vec := unit(1, 0, 0)
	rec := record(types.ContentTypeRSA, 1, 0, vec)
	s := newStore(t, rec)

	vec[0], vec[1] = 0, 1
	rec.TextChunk = "mutated"

	results, err := s.Query(unit(1, 0, 0), "", 1)
	gt.NoError(t, err).Required()
	gt.Bool(t, results[0].Score >= 0.999999).True()
	gt.Value(t, results[0].TextChunk).Equal("rsa")
}

func TestConcurrentLoadAndQuery(t *testing.T) {
	s := vectorstore.New(vectorstore.WithDimension(3))
	small := []*model.EmbeddingRecord{record(types.ContentTypeRSA, 1, 0, unit(1, 0, 0))}
	large := []*model.EmbeddingRecord{
		record(types.ContentTypeRSA, 1, 0, unit(1, 0, 0)),
		record(types.ContentTypeRSA, 2, 0, unit(0, 1, 0)),
		record(types.ContentTypeRSA, 3, 0, unit(0, 0, 1)),
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range 100 {
				if (i+j)%2 == 0 {
					gt.NoError(t, s.Load(small))
				} else {
					gt.NoError(t, s.Load(large))
				}
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				results, err := s.Query(unit(1, 1, 1), types.ContentTypeRSA, 10)
				gt.NoError(t, err)
				// a snapshot is either the small or the large index, never a mix
				n := len(results)
				gt.Bool(t, n == 0 || n == 1 || n == 3).True()
			}
		}()
	}
	wg.Wait()
}

func TestDefaultDimension(t *testing.T) {
	s := vectorstore.New()
	gt.Number(t, s.Dimension()).Equal(model.EmbeddingDimension)

	vec := make([]float32, model.EmbeddingDimension)
	vec[0] = 1
	gt.NoError(t, s.Load([]*model.EmbeddingRecord{record(types.ContentTypePage, 1, 0, vec)})).Required()

	results, err := s.Query(vec, types.ContentTypePage, 10)
	gt.NoError(t, err).Required()
	gt.Array(t, results).Length(1)
}
