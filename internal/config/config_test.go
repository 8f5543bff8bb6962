package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.Chunking.Size)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "banking_docs", cfg.Qdrant.Collection)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, "sqlite", cfg.Storage.BookingDriver)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
qdrant:
  host: qdrant.internal
  collection: docs
chunking:
  size: 800
  overlap: 80
server:
  request_timeout: 15s
embedding:
  provider: Ollama
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("QDRANT_COLLECTION", "from_env")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "qdrant.internal", cfg.Qdrant.Host)
	assert.Equal(t, "from_env", cfg.Qdrant.Collection)
	assert.Equal(t, 800, cfg.Chunking.Size)
	assert.Equal(t, 80, cfg.Chunking.Overlap)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)

	// ollama provider switches the model default to a local one
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "all-minilm", cfg.Embedding.Model)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunking: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm api key")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	cfg.LLM.APIKey = "k"
	cfg.Embedding.Provider = "hashing"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.BookingDriver = "postgres"
	assert.Error(t, cfg.Validate())
}
