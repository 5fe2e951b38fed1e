package vectorstore

import (
	"cmp"
	"math"
	"slices"
	"sync/atomic"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidRecord     = goerr.New("invalid embedding record")
	ErrDimensionMismatch = goerr.New("vector dimension mismatch")
	ErrNotNormalized     = goerr.New("vector is not unit-normalized")
)

// normTolerance is the accepted deviation of a vector's L2 norm from 1
const normTolerance = 1e-3

type entry struct {
	record *model.EmbeddingRecord
	seq    int // global insertion order, used to break score ties
}

// index is immutable once published through Store.current
type index struct {
	byType map[types.ContentType][]*entry
	types  []types.ContentType // in order of first appearance
	size   int
}

func emptyIndex() *index {
	return &index{byType: map[types.ContentType][]*entry{}}
}

// Store is an in-memory embedding index grouped by content type. Load builds a
// new index and publishes it atomically; queries always run against a complete
// snapshot and never observe a partially loaded index.
type Store struct {
	dimension int
	current   atomic.Pointer[index]
}

// Option configures a Store
type Option func(*Store)

// WithDimension sets the vector dimension accepted by the store
func WithDimension(n int) Option {
	return func(s *Store) {
		s.dimension = n
	}
}

// New creates an empty Store
func New(opts ...Option) *Store {
	s := &Store{dimension: model.EmbeddingDimension}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(emptyIndex())
	return s
}

// Dimension returns the vector dimension accepted by the store
func (s *Store) Dimension() int {
	return s.dimension
}

// Load replaces the whole index with records. When the same
// (content type, content ID, chunk index) key appears more than once the last
// record wins and keeps the position of the first occurrence. If any record is
// invalid nothing is replaced.
func (s *Store) Load(records []*model.EmbeddingRecord) error {
	idx := emptyIndex()
	positions := make(map[model.EmbeddingKey]*entry, len(records))

	for i, rec := range records {
		if err := s.validateRecord(rec); err != nil {
			return goerr.Wrap(err, "failed to load embedding index", goerr.V("position", i))
		}

		if e, ok := positions[rec.Key()]; ok {
			e.record = copyRecord(rec)
			continue
		}

		e := &entry{record: copyRecord(rec), seq: idx.size}
		if _, ok := idx.byType[rec.ContentType]; !ok {
			idx.types = append(idx.types, rec.ContentType)
		}
		idx.byType[rec.ContentType] = append(idx.byType[rec.ContentType], e)
		positions[rec.Key()] = e
		idx.size++
	}

	s.current.Store(idx)
	return nil
}

// Query returns at most topK records ranked by descending cosine similarity to
// vector, ties broken by insertion order. A filter naming a type absent from the
// index yields an empty result. An empty filter searches every type.
func (s *Store) Query(vector []float32, filter types.ContentType, topK int) ([]*model.SearchResult, error) {
	if err := s.validateVector(vector); err != nil {
		return nil, goerr.Wrap(err, "invalid query vector")
	}
	if topK <= 0 {
		return []*model.SearchResult{}, nil
	}

	idx := s.current.Load()

	var pool [][]*entry
	if filter != "" {
		entries, ok := idx.byType[filter]
		if !ok {
			return []*model.SearchResult{}, nil
		}
		pool = [][]*entry{entries}
	} else {
		for _, ct := range idx.types {
			pool = append(pool, idx.byType[ct])
		}
	}

	type candidate struct {
		e     *entry
		score float64
	}
	var candidates []candidate
	for _, entries := range pool {
		for _, e := range entries {
			candidates = append(candidates, candidate{e: e, score: cosine(vector, e.record.Vector)})
		}
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.e.seq, b.e.seq)
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]*model.SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = &model.SearchResult{
			ContentType: c.e.record.ContentType,
			ContentID:   c.e.record.ContentID,
			ChunkIndex:  c.e.record.ChunkIndex,
			TextChunk:   c.e.record.TextChunk,
			Score:       c.score,
		}
	}
	return results, nil
}

// Stats returns the number of records per content type
func (s *Store) Stats() map[types.ContentType]int {
	idx := s.current.Load()
	stats := make(map[types.ContentType]int, len(idx.byType))
	for ct, entries := range idx.byType {
		stats[ct] = len(entries)
	}
	return stats
}

// Size returns the total number of records in the index
func (s *Store) Size() int {
	return s.current.Load().size
}

func (s *Store) validateRecord(rec *model.EmbeddingRecord) error {
	if rec == nil {
		return goerr.Wrap(ErrInvalidRecord, "record is nil")
	}
	if rec.ContentType == "" {
		return goerr.Wrap(ErrInvalidRecord, "content type is empty", goerr.V("content_id", rec.ContentID))
	}
	if err := s.validateVector(rec.Vector); err != nil {
		return goerr.Wrap(err, "invalid record vector",
			goerr.V("content_type", rec.ContentType),
			goerr.V("content_id", rec.ContentID),
			goerr.V("chunk_index", rec.ChunkIndex),
		)
	}
	return nil
}

func (s *Store) validateVector(v []float32) error {
	if len(v) != s.dimension {
		return goerr.Wrap(ErrDimensionMismatch, "unexpected vector length",
			goerr.V("expected", s.dimension),
			goerr.V("actual", len(v)),
		)
	}
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if norm := math.Sqrt(sum); math.Abs(norm-1) > normTolerance {
		return goerr.Wrap(ErrNotNormalized, "vector norm is not 1", goerr.V("norm", norm))
	}
	return nil
}

// cosine is the dot product of two unit vectors, clamped to [-1, 1] to absorb rounding
func cosine(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return max(-1, min(1, dot))
}

func copyRecord(r *model.EmbeddingRecord) *model.EmbeddingRecord {
	copied := *r
	copied.Vector = slices.Clone(r.Vector)
	return &copied
}
