// Package indexer turns an uploaded file into searchable vector store entries.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bull/rag-assistant/internal/chunker"
	"github.com/bull/rag-assistant/internal/document"
	"github.com/bull/rag-assistant/internal/embedding"
	"github.com/bull/rag-assistant/internal/storage"
)

// IngestResult contains statistics about one ingestion.
type IngestResult struct {
	Source   string
	Strategy chunker.Strategy
	Pages    int
	Chunks   int
	Duration time.Duration
}

// Pipeline runs load, chunk, embed and store for a single file.
type Pipeline struct {
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	storage  storage.VectorStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline creates a new ingestion pipeline with the given components.
// The embedder must be the same instance the retriever uses.
func NewPipeline(
	chunker *chunker.Chunker,
	embedder embedding.Embedder,
	storage storage.VectorStore,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		chunker:  chunker,
		embedder: embedder,
		storage:  storage,
		logger:   logger,
		now:      time.Now,
	}
}

// Ingest indexes the file at path under the given source name and returns the
// number of chunks stored. Ingesting the same file twice stores its chunks twice.
//
// An unknown strategy name falls back to recursive splitting with a warning.
// Unsupported extensions return document.ErrUnsupportedType; every other failure
// wraps ErrIngestion.
func (p *Pipeline) Ingest(ctx context.Context, path, source, strategyName string) (*IngestResult, error) {
	start := time.Now()

	strategy, ok := chunker.ParseStrategy(strategyName)
	if !ok {
		p.logger.Warn("Unknown chunking strategy, using recursive", "strategy", strategyName)
	}

	// 1. Load
	doc, err := document.Load(path, source)
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedType) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load: %w", ErrIngestion, err)
	}
	p.logger.Debug("Loaded document", "source", doc.Source, "pages", len(doc.Pages))

	result := &IngestResult{
		Source:   doc.Source,
		Strategy: strategy,
		Pages:    len(doc.Pages),
	}

	// 2. Chunk
	var chunks []chunker.Chunk
	if !doc.IsEmpty() {
		chunks = p.chunker.Split(doc, strategy)
	}
	if len(chunks) == 0 {
		p.logger.Warn("Document has no extractable text", "source", doc.Source)
		result.Duration = time.Since(start)
		return result, nil
	}

	// 3. Embed
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := p.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embeddings: %w", ErrIngestion, err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", ErrIngestion, len(embeddings), len(chunks))
	}

	// 4. Store
	if err := p.storage.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("%w: ensure collection: %w", ErrIngestion, err)
	}

	ingestedAt := p.now().UTC()
	storageChunks := make([]*storage.Chunk, len(chunks))
	for i, chunk := range chunks {
		storageChunks[i] = &storage.Chunk{
			ID:         uuid.New().String(),
			Content:    chunk.Text,
			Source:     chunk.Source,
			Page:       chunk.Page,
			ChunkIndex: chunk.Index,
			IngestedAt: ingestedAt,
			Embedding:  embeddings[i],
		}
	}

	if err := p.storage.UpsertChunks(ctx, storageChunks); err != nil {
		return nil, fmt.Errorf("%w: store chunks: %w", ErrIngestion, err)
	}

	result.Chunks = len(chunks)
	result.Duration = time.Since(start)
	p.logger.Info("Ingested document",
		"source", result.Source,
		"strategy", result.Strategy,
		"pages", result.Pages,
		"chunks", result.Chunks,
		"duration", result.Duration,
	)

	return result, nil
}
