package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/rag-assistant/internal/embedding"
	"github.com/bull/rag-assistant/internal/storage"
)

const dim = 128

func seed(t *testing.T, store storage.VectorStore, emb embedding.Embedder, texts map[string]string) {
	t.Helper()
	ctx := context.Background()
	for text, source := range texts {
		vecs, err := emb.GenerateEmbeddings(ctx, []string{text})
		require.NoError(t, err)
		require.NoError(t, store.UpsertChunks(ctx, []*storage.Chunk{
			{ID: text, Content: text, Source: source, Page: 1, Embedding: vecs[0]},
		}))
	}
}

func TestSearch_TopKOrdered(t *testing.T) {
	emb := embedding.NewHashingEmbedder(dim)
	store := storage.NewMemoryStorage(dim)
	texts := map[string]string{}
	for i := 0; i < 10; i++ {
		texts[fmt.Sprintf("document %d covers mortgage rates for region %d", i, i)] = "rates.pdf"
	}
	texts["Branch opening hours are nine to five."] = "hours.txt"
	seed(t, store, emb, texts)

	r := NewRetriever(emb, store, 0)
	assert.Equal(t, DefaultTopK, r.TopK())

	results, err := r.Search(context.Background(), "mortgage rates")
	require.NoError(t, err)
	require.Len(t, results, DefaultTopK)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "rates.pdf", results[0].Source)
}

func TestSearch_FewerThanK(t *testing.T) {
	emb := embedding.NewHashingEmbedder(dim)
	store := storage.NewMemoryStorage(dim)
	seed(t, store, emb, map[string]string{"only chunk": "a.txt"})

	results, err := NewRetriever(emb, store, 3).Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_EmptyIndex(t *testing.T) {
	emb := embedding.NewHashingEmbedder(dim)
	results, err := NewRetriever(emb, storage.NewMemoryStorage(dim), 3).Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_DefaultSourceLabel(t *testing.T) {
	emb := embedding.NewHashingEmbedder(dim)
	store := storage.NewMemoryStorage(dim)
	seed(t, store, emb, map[string]string{"orphan text": ""})

	results, err := NewRetriever(emb, store, 3).Search(context.Background(), "orphan")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, UnknownSource, results[0].Source)
}

func TestSearchN_Clamps(t *testing.T) {
	emb := embedding.NewHashingEmbedder(dim)
	store := storage.NewMemoryStorage(dim)
	texts := map[string]string{}
	for i := 0; i < 30; i++ {
		texts[fmt.Sprintf("chunk number %d", i)] = "doc.txt"
	}
	seed(t, store, emb, texts)
	r := NewRetriever(emb, store, 3)

	results, err := r.SearchN(context.Background(), "chunk", 100)
	require.NoError(t, err)
	assert.Len(t, results, MaxTopK)

	results, err = r.SearchN(context.Background(), "chunk", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

type brokenEmbedder struct{}

func (brokenEmbedder) GenerateEmbeddings(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("timeout")
}

func (brokenEmbedder) Dimension() int { return dim }

type brokenStore struct{ storage.VectorStore }

func (brokenStore) SearchChunksWithScores(context.Context, []float32, int) ([]*storage.ScoredChunk, error) {
	return nil, storage.ErrQdrantUnreachable
}

func TestSearch_Errors(t *testing.T) {
	_, err := NewRetriever(brokenEmbedder{}, storage.NewMemoryStorage(dim), 3).Search(context.Background(), "q")
	assert.ErrorIs(t, err, ErrRetrieval)

	_, err = NewRetriever(embedding.NewHashingEmbedder(dim), brokenStore{}, 3).Search(context.Background(), "q")
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, storage.ErrQdrantUnreachable)

	// a store built for another dimension is a retrieval failure, not a panic
	_, err = NewRetriever(embedding.NewHashingEmbedder(dim), storage.NewMemoryStorage(dim+1), 3).Search(context.Background(), "q")
	assert.ErrorIs(t, err, storage.ErrDimensionMismatch)
}
