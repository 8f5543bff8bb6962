// Package embedding turns chunk texts and queries into fixed-dimension vectors.
// The same Embedder instance must serve ingestion and retrieval.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bull/rag-assistant/internal/config"
)

// Embedder generates one vector per input text, in input order.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// New builds the embedder selected by cfg.Provider.
func New(cfg config.EmbeddingConfig, logger *slog.Logger) (Embedder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		client, err := NewClient(cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using openai embeddings", "model", cfg.Model, "dimension", cfg.Dimension)
		return NewOpenAIEmbedder(client, cfg.Model, cfg.Dimension, cfg.BatchSize), nil
	case "ollama":
		e, err := NewOllamaEmbedder(cfg.OllamaHost, cfg.Model, cfg.Dimension)
		if err != nil {
			return nil, err
		}
		if cfg.MaxConcurrent > 0 {
			e.MaxConcurrent = cfg.MaxConcurrent
		}
		if cfg.BatchSize > 0 {
			e.BatchSize = cfg.BatchSize
		}
		logger.Info("using ollama embeddings", "model", cfg.Model, "dimension", cfg.Dimension)
		return e, nil
	case "hashing":
		logger.Warn("using local hashing embeddings; retrieval quality is lexical only", "dimension", cfg.Dimension)
		return NewHashingEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
