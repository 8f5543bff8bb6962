// Package main provides the command-line interface for the banking assistant.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/rag-assistant/internal/app"
	"github.com/bull/rag-assistant/internal/config"
	"github.com/bull/rag-assistant/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rag-cli",
	Short: "Banking assistant document ingestion and chat tool",
	Long: `CLI for the retrieval-augmented banking assistant.

Environment variables:
  RAG_CONFIG          YAML config file (default: config.yaml)
  QDRANT_HOST         Qdrant hostname (default: localhost)
  QDRANT_PORT         Qdrant gRPC port (default: 6334)
  VECTOR_STORE        qdrant or memory (default: qdrant)
  EMBEDDING_PROVIDER  openai, ollama or hashing (default: openai)
  OPENAI_API_KEY      OpenAI API key for embeddings
  GROQ_API_KEY        API key for the chat model (chat and mcp only)
  SQLITE_PATH         SQLite database for history and bookings (default: bookings.db)`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

// openApp loads configuration and connects to every store. Logs go to stderr
// so command output stays clean.
func openApp(ctx context.Context, opts ...app.Option) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(cfg.Log, os.Stderr)

	a, err := app.New(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return a, nil
}
