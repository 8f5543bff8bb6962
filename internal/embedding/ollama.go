package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

const (
	// DefaultOllamaModel produces 384-dimension vectors, the same size as all-MiniLM-L6-v2.
	DefaultOllamaModel     = "all-minilm"
	DefaultOllamaDimension = 384
)

// OllamaEmbedder generates embeddings using a local Ollama server.
// Batches are sent in parallel, bounded by MaxConcurrent.
type OllamaEmbedder struct {
	Client        *api.Client
	Model         string
	BatchSize     int
	Timeout       time.Duration
	MaxConcurrent int

	dimension int
}

// NewOllamaEmbedder creates a new Ollama embedder. An empty host falls back to OLLAMA_HOST
// or the Ollama default address.
func NewOllamaEmbedder(host, model string, dimension int) (*OllamaEmbedder, error) {
	hostURL := envconfig.Host()
	if host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
		}
		hostURL = u
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if dimension <= 0 {
		dimension = DefaultOllamaDimension
	}

	return &OllamaEmbedder{
		Client:        api.NewClient(hostURL, http.DefaultClient),
		Model:         model,
		BatchSize:     64,
		Timeout:       30 * time.Second,
		MaxConcurrent: 3, // Limit concurrent requests based on hardware
		dimension:     dimension,
	}, nil
}

func (e *OllamaEmbedder) Dimension() int { return e.dimension }

// GenerateEmbeddings embeds texts batch by batch and returns them in input order.
func (e *OllamaEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := max(e.BatchSize, 1)
	out := make([][]float32, len(texts))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, max(e.MaxConcurrent, 1))
	errChan := make(chan error, (len(texts)+batchSize-1)/batchSize)

	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))

		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(start, end int) {
			defer func() {
				wg.Done()
				<-semaphore
			}()

			vecs, err := e.embedBatch(ctx, texts[start:end])
			if err != nil {
				errChan <- fmt.Errorf("batch %d-%d: %w", start, end, err)
				return
			}
			// each goroutine owns a disjoint range of out
			copy(out[start:end], vecs)
		}(start, end)
	}

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}
	return out, nil
}

func (e *OllamaEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	resp, err := e.Client.Embed(ctxWithTimeout, &api.EmbedRequest{
		Model: e.Model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}
