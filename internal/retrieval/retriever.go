// Package retrieval finds the chunks most relevant to a query.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/bull/rag-assistant/internal/embedding"
	"github.com/bull/rag-assistant/internal/storage"
)

// ErrRetrieval wraps embedding and vector store failures on the query path.
var ErrRetrieval = errors.New("retrieval failed")

// UnknownSource labels chunks stored without a source.
const UnknownSource = "unknown source"

// DefaultTopK is the number of chunks fed to the model per question.
const DefaultTopK = 3

// MaxTopK bounds caller-supplied k.
const MaxTopK = 20

// Result is one retrieved chunk.
type Result struct {
	Text   string
	Source string
	Page   int
	Score  float64
}

// Retriever embeds queries with the ingestion embedder and searches the vector store.
type Retriever struct {
	embedder embedding.Embedder
	store    storage.VectorStore
	topK     int
}

func NewRetriever(embedder embedding.Embedder, store storage.VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// TopK reports the fixed result count used by Search.
func (r *Retriever) TopK() int { return r.topK }

// Search returns at most TopK results ordered by descending score.
func (r *Retriever) Search(ctx context.Context, query string) ([]Result, error) {
	return r.SearchN(ctx, query, r.topK)
}

// SearchN is Search with an explicit k, clamped to [1, MaxTopK].
func (r *Retriever) SearchN(ctx context.Context, query string, k int) ([]Result, error) {
	k = max(1, min(k, MaxTopK))

	vecs, err := r.embedder.GenerateEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", ErrRetrieval, err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: expected 1 query embedding, got %d", ErrRetrieval, len(vecs))
	}

	hits, err := r.store.SearchChunksWithScores(ctx, vecs[0], k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		source := hit.Chunk.Source
		if source == "" {
			source = UnknownSource
		}
		results = append(results, Result{
			Text:   hit.Chunk.Content,
			Source: source,
			Page:   hit.Chunk.Page,
			Score:  hit.Score,
		})
	}
	return results, nil
}
