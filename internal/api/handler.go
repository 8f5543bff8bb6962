// Package api serves the assistant over HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bull/rag-assistant/internal/assistant"
	"github.com/bull/rag-assistant/internal/document"
	"github.com/bull/rag-assistant/internal/indexer"
)

const (
	defaultSessionID = "default_user"
	defaultStrategy  = "recursive"
)

// Ingester indexes one file.
type Ingester interface {
	Ingest(ctx context.Context, path, source, strategy string) (*indexer.IngestResult, error)
}

// Chatter answers one conversational turn.
type Chatter interface {
	Chat(ctx context.Context, query, sessionID string) (*assistant.Answer, error)
}

// Options configures request handling.
type Options struct {
	// TempDir receives uploads while they are ingested.
	TempDir string
	// RequestTimeout bounds a chat request; zero means no bound.
	RequestTimeout time.Duration
	// MaxUploadBytes caps the request body of /ingest; zero means no cap.
	MaxUploadBytes int64
}

// Handler holds the HTTP endpoints.
type Handler struct {
	ingester Ingester
	chatter  Chatter
	opts     Options
	logger   *slog.Logger
}

func NewHandler(ingester Ingester, chatter Chatter, opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &Handler{ingester: ingester, chatter: chatter, opts: opts, logger: logger}
}

// IngestResponse is the body of a successful upload.
type IngestResponse struct {
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	ChunksCount int    `json:"chunks_count"`
}

// ChatResponse is the body of a successful chat turn.
type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Ingest handles POST /ingest with a multipart "file" and optional "strategy".
// The upload is written to TempDir and removed once ingestion finishes.
func (h *Handler) Ingest(c *gin.Context) {
	if h.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	}

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Detail: fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "a file field is required"})
		return
	}

	filename := filepath.Base(file.Filename)
	if !document.IsSupported(filename) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Only .pdf and .txt files are supported"})
		return
	}

	strategy := c.DefaultPostForm("strategy", defaultStrategy)

	if err := os.MkdirAll(h.opts.TempDir, 0o755); err != nil {
		h.fail(c, "create temp dir", err)
		return
	}
	tmpPath := filepath.Join(h.opts.TempDir, uuid.NewString()+"_"+filename)
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		h.fail(c, "save upload", err)
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("failed to remove upload", "path", tmpPath, "error", err)
		}
	}()

	result, err := h.ingester.Ingest(c.Request.Context(), tmpPath, filename, strategy)
	if err != nil {
		h.fail(c, "ingest", err)
		return
	}

	c.JSON(http.StatusOK, IngestResponse{
		Message:     "Successfully ingested " + filename,
		Filename:    filename,
		ChunksCount: result.Chunks,
	})
}

// Chat handles GET /chat?query=...&session_id=...
func (h *Handler) Chat(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "query parameter is required"})
		return
	}
	sessionID := c.DefaultQuery("session_id", defaultSessionID)

	ctx := c.Request.Context()
	if h.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.RequestTimeout)
		defer cancel()
	}

	answer, err := h.chatter.Chat(ctx, query, sessionID)
	if err != nil {
		h.fail(c, "chat", err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Answer:  answer.Text,
		Sources: answer.UniqueSources(),
	})
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	h.logger.Error("request failed", "op", op, "path", c.FullPath(), "status", status, "error", err)
	c.JSON(status, ErrorResponse{Detail: err.Error()})
}
