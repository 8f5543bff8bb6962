//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 4

// setupTestStorage creates a storage instance on a throwaway collection.
// Skips test if Qdrant is not running.
func setupTestStorage(t *testing.T) *QdrantStorage {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	storage, err := NewQdrantStorage(ctx, QdrantOptions{
		Host:       "localhost",
		Port:       6334,
		Collection: "test_" + uuid.NewString()[:8],
		Dimension:  testDimension,
	})
	if err != nil {
		t.Skipf("Qdrant not available: %v", err)
	}

	require.NoError(t, storage.EnsureCollection(context.Background()), "Failed to ensure collection")
	t.Cleanup(func() {
		_ = storage.client.DeleteCollection(context.Background(), storage.Collection())
		storage.Close()
	})

	return storage
}

func TestChunkSearchRoundTrip(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	chunks := []*Chunk{
		{ID: uuid.NewString(), Content: "savings interest", Source: "Banking.pdf", Page: 1, ChunkIndex: 0, IngestedAt: now, Embedding: []float32{1, 0, 0, 0}},
		{ID: uuid.NewString(), Content: "loan terms", Source: "Banking.pdf", Page: 2, ChunkIndex: 1, IngestedAt: now, Embedding: []float32{0, 1, 0, 0}},
		{ID: uuid.NewString(), Content: "card fees", Source: "fees.txt", Page: 1, ChunkIndex: 0, IngestedAt: now, Embedding: []float32{0, 0, 1, 0}},
	}
	require.NoError(t, storage.UpsertChunks(ctx, chunks))

	results, err := storage.SearchChunksWithScores(ctx, []float32{0.9, 0.1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	top := results[0]
	assert.Equal(t, chunks[0].ID, top.Chunk.ID)
	assert.Equal(t, "savings interest", top.Chunk.Content)
	assert.Equal(t, "Banking.pdf", top.Chunk.Source)
	assert.Equal(t, 1, top.Chunk.Page)
	assert.WithinDuration(t, now, top.Chunk.IngestedAt, time.Second)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	count, err := storage.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestEnsureCollectionIdempotent(t *testing.T) {
	storage := setupTestStorage(t)
	require.NoError(t, storage.EnsureCollection(context.Background()))
}

func TestEnsureCollectionDimensionMismatch(t *testing.T) {
	storage := setupTestStorage(t)

	other := &QdrantStorage{client: storage.client, collection: storage.collection, dimension: testDimension + 1}
	err := other.EnsureCollection(context.Background())
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestClearCollection(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.UpsertChunks(ctx, []*Chunk{
		{ID: uuid.NewString(), Content: "x", Embedding: []float32{1, 1, 1, 1}},
	}))
	require.NoError(t, storage.ClearCollection(ctx))

	count, err := storage.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHealth(t *testing.T) {
	storage := setupTestStorage(t)
	assert.NoError(t, storage.Health(context.Background()))
}
