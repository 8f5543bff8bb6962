package storage

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStorage is an in-process VectorStore using brute-force cosine similarity.
// Contents are lost when the process exits.
type MemoryStorage struct {
	mu        sync.RWMutex
	dimension int
	chunks    []*Chunk
}

func NewMemoryStorage(dimension int) *MemoryStorage {
	return &MemoryStorage{dimension: dimension}
}

func (s *MemoryStorage) EnsureCollection(ctx context.Context) error { return nil }

func (s *MemoryStorage) ClearCollection(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}

func (s *MemoryStorage) UpsertChunks(ctx context.Context, chunks []*Chunk) error {
	if err := validateChunks(chunks, s.dimension); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		cp := *c
		cp.Embedding = append([]float32(nil), c.Embedding...)
		s.chunks = append(s.chunks, &cp)
	}
	return nil
}

func (s *MemoryStorage) SearchChunksWithScores(ctx context.Context, embedding []float32, limit int) ([]*ScoredChunk, error) {
	if err := validateQuery(embedding, s.dimension); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*ScoredChunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		hit := *c
		hit.Embedding = nil
		results = append(results, &ScoredChunk{Chunk: &hit, Score: cosine(c.Embedding, embedding)})
	}

	// stable so equal scores keep insertion order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit < 0 {
		limit = 0
	}
	if limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStorage) CountChunks(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.chunks)), nil
}

func (s *MemoryStorage) Health(ctx context.Context) error { return nil }

func (s *MemoryStorage) Close() error { return nil }

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
