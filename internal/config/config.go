// Package config builds the single configuration object shared by every component.
// Values come from built-in defaults, an optional YAML file, and environment overrides,
// in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the YAML file read when RAG_CONFIG is not set.
const DefaultPath = "config.yaml"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig configures the HTTP boundary.
type ServerConfig struct {
	Port           string        `yaml:"port"`
	TempDir        string        `yaml:"temp_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

// QdrantConfig selects and configures the vector store.
// Type "memory" keeps vectors in process, which is only useful for local runs.
type QdrantConfig struct {
	Type       string `yaml:"type"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKey     string `yaml:"api_key"`
	UseTLS     bool   `yaml:"use_tls"`
	Collection string `yaml:"collection"`
}

// EmbeddingConfig selects the embedding function. Provider is one of
// "openai", "ollama" or "hashing".
type EmbeddingConfig struct {
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	Dimension     int    `yaml:"dimension"`
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	OllamaHost    string `yaml:"ollama_host"`
	BatchSize     int    `yaml:"batch_size"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// LLMConfig configures the OpenAI-compatible chat model endpoint.
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ChunkingConfig holds the chunk size and overlap shared by every strategy.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrievalConfig configures the retriever.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// StorageConfig configures the relational stores.
// BookingDriver is "sqlite" or "postgres"; HistoryDriver is "sqlite" or "memory".
type StorageConfig struct {
	SQLitePath    string `yaml:"sqlite_path"`
	BookingDriver string `yaml:"booking_driver"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	HistoryDriver string `yaml:"history_driver"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8000",
			TempDir:        "temp",
			RequestTimeout: 60 * time.Second,
			MaxUploadBytes: 32 << 20,
		},
		Qdrant: QdrantConfig{
			Type:       "qdrant",
			Host:       "localhost",
			Port:       6334,
			Collection: "banking_docs",
		},
		Embedding: EmbeddingConfig{
			Provider:      "openai",
			Model:         "text-embedding-3-small",
			Dimension:     1536,
			BatchSize:     500,
			MaxConcurrent: 3,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0,
			Timeout:     60 * time.Second,
		},
		Chunking:  ChunkingConfig{Size: 600, Overlap: 50},
		Retrieval: RetrievalConfig{TopK: 3},
		Storage: StorageConfig{
			SQLitePath:    "bookings.db",
			BookingDriver: "sqlite",
			HistoryDriver: "sqlite",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path (a missing file is not an error), then applies
// environment overrides. An empty path means RAG_CONFIG or DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getEnv("RAG_CONFIG", DefaultPath)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// Validate reports configuration that would make the service unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm api key not set (GROQ_API_KEY or LLM_API_KEY)"))
	}
	if c.Embedding.Provider == "openai" && c.Embedding.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY environment variable not set"))
	}
	if c.Storage.BookingDriver == "postgres" && c.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("postgres booking driver requires DATABASE_URL"))
	}
	if c.Chunking.Size <= 0 {
		errs = append(errs, fmt.Errorf("chunking size must be positive, got %d", c.Chunking.Size))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.TempDir = getEnv("UPLOAD_TEMP_DIR", cfg.Server.TempDir)

	cfg.Qdrant.Type = getEnv("VECTOR_STORE", cfg.Qdrant.Type)
	cfg.Qdrant.Host = getEnv("QDRANT_HOST", cfg.Qdrant.Host)
	cfg.Qdrant.Port = getEnvInt("QDRANT_PORT", cfg.Qdrant.Port)
	cfg.Qdrant.APIKey = getEnv("QDRANT_API_KEY", cfg.Qdrant.APIKey)
	cfg.Qdrant.Collection = getEnv("QDRANT_COLLECTION", cfg.Qdrant.Collection)

	cfg.Embedding.Provider = getEnv("EMBEDDING_PROVIDER", cfg.Embedding.Provider)
	cfg.Embedding.Model = getEnv("EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Embedding.Dimension = getEnvInt("EMBEDDING_DIMENSION", cfg.Embedding.Dimension)
	cfg.Embedding.APIKey = getEnv("OPENAI_API_KEY", cfg.Embedding.APIKey)
	cfg.Embedding.OllamaHost = getEnv("OLLAMA_HOST", cfg.Embedding.OllamaHost)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.APIKey = getEnv("GROQ_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)

	cfg.Storage.SQLitePath = getEnv("SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.Storage.BookingDriver = getEnv("BOOKING_DRIVER", cfg.Storage.BookingDriver)
	cfg.Storage.PostgresDSN = getEnv("DATABASE_URL", cfg.Storage.PostgresDSN)
	cfg.Storage.HistoryDriver = getEnv("HISTORY_DRIVER", cfg.Storage.HistoryDriver)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func applyDefaults(cfg *Config) {
	cfg.Embedding.Provider = strings.ToLower(cfg.Embedding.Provider)
	cfg.Storage.BookingDriver = strings.ToLower(cfg.Storage.BookingDriver)
	cfg.Storage.HistoryDriver = strings.ToLower(cfg.Storage.HistoryDriver)
	cfg.Qdrant.Type = strings.ToLower(cfg.Qdrant.Type)

	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	// all-minilm is what the ollama provider is normally pointed at
	if cfg.Embedding.Provider == "ollama" && cfg.Embedding.Model == "text-embedding-3-small" {
		cfg.Embedding.Model = "all-minilm"
		cfg.Embedding.Dimension = 384
	}
	if cfg.Embedding.Provider == "hashing" && cfg.Embedding.Dimension <= 0 {
		cfg.Embedding.Dimension = 384
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}
