package storage

import (
	"context"
	"fmt"
)

// VectorStore holds the chunks of a single collection with a fixed vector dimension.
// Ingestion and queries share one store with no isolation between them.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist. Idempotent.
	EnsureCollection(ctx context.Context) error
	// ClearCollection drops every point and recreates the empty collection.
	ClearCollection(ctx context.Context) error
	UpsertChunks(ctx context.Context, chunks []*Chunk) error
	// SearchChunksWithScores returns at most limit chunks, best match first.
	SearchChunksWithScores(ctx context.Context, embedding []float32, limit int) ([]*ScoredChunk, error)
	CountChunks(ctx context.Context) (uint64, error)
	Health(ctx context.Context) error
	Close() error
}

func validateChunks(chunks []*Chunk, dimension int) error {
	for i, chunk := range chunks {
		if len(chunk.Embedding) != dimension {
			return fmt.Errorf("%w: chunk %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(chunk.Embedding), dimension)
		}
	}
	return nil
}

func validateQuery(embedding []float32, dimension int) error {
	if len(embedding) != dimension {
		return fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), dimension)
	}
	return nil
}
