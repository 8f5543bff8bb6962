package storage

import "time"

// Chunk is one indexed document segment with its embedding vector.
type Chunk struct {
	ID         string    // UUID
	Content    string    // Chunk text content
	Source     string    // Original upload filename: "Banking.pdf"
	Page       int       // 1-based page number within the source
	ChunkIndex int       // Position in document (0, 1, 2...)
	IngestedAt time.Time // When this chunk was indexed
	Embedding  []float32
}

// ScoredChunk is a search hit with its similarity score.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// DefaultCollectionName is the Qdrant collection used when none is configured.
const DefaultCollectionName = "banking_docs"

// payload field names shared by every VectorStore implementation
const (
	fieldContent    = "content"
	fieldSource     = "source"
	fieldPage       = "page"
	fieldChunkIndex = "chunk_index"
	fieldIngestedAt = "ingested_at"
)
