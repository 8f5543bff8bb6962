//go:build integration

package indexer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/rag-assistant/internal/embedding"
	"github.com/bull/rag-assistant/internal/storage"
)

func TestPipeline_Ingest_Qdrant(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewQdrantStorage(ctx, storage.QdrantOptions{
		Host:       "localhost",
		Port:       6334,
		Collection: "indexer_test_" + uuid.NewString()[:8],
		Dimension:  testDim,
	})
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}
	defer store.Close()

	p := newTestPipeline(store, embedding.NewHashingEmbedder(testDim))
	path := writeFile(t, "doc.txt", bankingText())

	result, err := p.Ingest(ctx, path, "Banking.txt", "recursive")
	require.NoError(t, err)
	assert.Greater(t, result.Chunks, 0, "Should create chunks")

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(result.Chunks), count)

	// Verify searchable
	query, err := embedding.NewHashingEmbedder(testDim).GenerateEmbeddings(ctx, []string{"savings interest"})
	require.NoError(t, err)
	hits, err := store.SearchChunksWithScores(ctx, query[0], 3)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Banking.txt", hits[0].Chunk.Source)

	require.NoError(t, store.ClearCollection(ctx))
}
