// Package app assembles the assistant's components from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/bull/rag-assistant/internal/api"
	"github.com/bull/rag-assistant/internal/assistant"
	"github.com/bull/rag-assistant/internal/booking"
	"github.com/bull/rag-assistant/internal/chunker"
	"github.com/bull/rag-assistant/internal/config"
	"github.com/bull/rag-assistant/internal/conversation"
	"github.com/bull/rag-assistant/internal/database"
	"github.com/bull/rag-assistant/internal/embedding"
	"github.com/bull/rag-assistant/internal/indexer"
	"github.com/bull/rag-assistant/internal/llm"
	"github.com/bull/rag-assistant/internal/logging"
	mcpserver "github.com/bull/rag-assistant/internal/mcp"
	"github.com/bull/rag-assistant/internal/retrieval"
	"github.com/bull/rag-assistant/internal/storage"
)

// Version is reported by the MCP server.
const Version = "v0.1.0"

// App owns every long-lived component. Close releases them.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Embedder    embedding.Embedder
	VectorStore storage.VectorStore
	DB          *sql.DB
	History     conversation.Store
	Bookings    booking.Store
	Executor    *booking.Executor
	Retriever   *retrieval.Retriever
	Pipeline    *indexer.Pipeline
	// Assistant is nil when built WithoutChat.
	Assistant *assistant.Orchestrator

	closers []func() error
}

type options struct {
	chat bool
}

// Option customizes New.
type Option func(*options)

// WithoutChat skips the chat model and orchestrator, so no model API key is
// needed. Used by commands that only ingest or inspect stores.
func WithoutChat() Option {
	return func(o *options) { o.chat = false }
}

// New connects to every dependency named in cfg. On failure, anything already
// opened is closed before returning.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (_ *App, err error) {
	o := options{chat: true}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.New(cfg.Log)
	}

	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.Embedder, err = embedding.New(cfg.Embedding, logging.Component(logger, "embedding"))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	if err := a.openVectorStore(ctx); err != nil {
		return nil, err
	}
	if err := a.openDatabases(ctx); err != nil {
		return nil, err
	}

	a.Executor = booking.NewExecutor(a.Bookings, logging.Component(logger, "booking"))
	a.Retriever = retrieval.NewRetriever(a.Embedder, a.VectorStore, cfg.Retrieval.TopK)
	a.Pipeline = indexer.NewPipeline(
		chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap),
		a.Embedder,
		a.VectorStore,
		logging.Component(logger, "indexer"),
	)

	if o.chat {
		model, err := llm.NewClient(cfg.LLM, logging.Component(logger, "llm"))
		if err != nil {
			return nil, fmt.Errorf("create chat model: %w", err)
		}
		a.Assistant = assistant.NewOrchestrator(
			a.Retriever,
			model,
			a.History,
			a.Executor,
			logging.Component(logger, "assistant"),
		)
	}
	return a, nil
}

func (a *App) openVectorStore(ctx context.Context) error {
	cfg := a.Config.Qdrant
	dim := a.Embedder.Dimension()

	switch cfg.Type {
	case "memory":
		a.Logger.Warn("using in-memory vector store; ingested documents are lost on exit")
		a.VectorStore = storage.NewMemoryStorage(dim)
	case "", "qdrant":
		a.Logger.Info("connecting to qdrant", "host", cfg.Host, "port", cfg.Port, "collection", cfg.Collection)
		store, err := storage.NewQdrantStorage(ctx, storage.QdrantOptions{
			Host:       cfg.Host,
			Port:       cfg.Port,
			APIKey:     cfg.APIKey,
			UseTLS:     cfg.UseTLS,
			Collection: cfg.Collection,
			Dimension:  dim,
		})
		if err != nil {
			return fmt.Errorf("connect to qdrant: %w", err)
		}
		a.VectorStore = store
	default:
		return fmt.Errorf("unknown vector store type %q", cfg.Type)
	}
	a.closers = append(a.closers, a.VectorStore.Close)

	if err := a.VectorStore.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	return nil
}

func (a *App) openDatabases(ctx context.Context) error {
	cfg := a.Config.Storage

	// SQLite backs the conversation store and, by default, bookings.
	if cfg.HistoryDriver != "memory" || cfg.BookingDriver != "postgres" {
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.DB = db
		a.closers = append(a.closers, db.Close)
	}

	switch cfg.HistoryDriver {
	case "memory":
		a.History = conversation.NewMemoryStore()
	case "", "sqlite":
		history, err := conversation.NewSQLiteStore(ctx, a.DB)
		if err != nil {
			return err
		}
		a.History = history
	default:
		return fmt.Errorf("unknown history driver %q", cfg.HistoryDriver)
	}

	switch cfg.BookingDriver {
	case "postgres":
		store, err := booking.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error { store.Close(); return nil })
		a.Bookings = store
	case "", "sqlite":
		store, err := booking.NewSQLiteStore(ctx, a.DB)
		if err != nil {
			return err
		}
		a.Bookings = store
	default:
		return fmt.Errorf("unknown booking driver %q", cfg.BookingDriver)
	}
	return nil
}

// MCPServer exposes the assistant as MCP tools. It requires the chat model.
func (a *App) MCPServer() (*mcpserver.Server, error) {
	if a.Assistant == nil {
		return nil, errors.New("mcp server requires the chat model")
	}
	return mcpserver.NewServer(&mcpserver.Config{
		Assistant: a.Assistant,
		Retriever: a.Retriever,
		Chunks:    a.VectorStore,
		Bookings:  a.Bookings,
		Version:   Version,
	}), nil
}

// Router builds the HTTP API, with the MCP endpoint mounted at /mcp.
func (a *App) Router() (*gin.Engine, error) {
	mcpServer, err := a.MCPServer()
	if err != nil {
		return nil, err
	}
	handler := api.NewHandler(a.Pipeline, a.Assistant, api.Options{
		TempDir:        a.Config.Server.TempDir,
		RequestTimeout: a.Config.Server.RequestTimeout,
		MaxUploadBytes: a.Config.Server.MaxUploadBytes,
	}, logging.Component(a.Logger, "api"))

	health := api.NewHealthHandler(
		api.Dependency{Name: "vector_store", Checker: a.VectorStore},
		api.Dependency{Name: "database", Checker: api.HealthCheckFunc(a.Bookings.Ping)},
	)

	mcpHandler := mcpserver.NewHTTPHandler(mcpServer, &mcpserver.HTTPHandlerOptions{Stateless: true})
	return api.NewRouter(handler, health, mcpHandler), nil
}

// Close releases every opened resource in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
