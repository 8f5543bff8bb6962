package api

import (
	"errors"
	"net/http"

	"github.com/bull/rag-assistant/internal/booking"
	"github.com/bull/rag-assistant/internal/conversation"
	"github.com/bull/rag-assistant/internal/document"
	"github.com/bull/rag-assistant/internal/indexer"
	"github.com/bull/rag-assistant/internal/llm"
	"github.com/bull/rag-assistant/internal/retrieval"
	"github.com/bull/rag-assistant/internal/storage"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// statusFor maps an error kind to its HTTP status. Ingestion is checked before
// the vector store kinds because it wraps them.
func statusFor(err error) int {
	switch {
	case errors.Is(err, document.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, indexer.ErrIngestion):
		return http.StatusInternalServerError
	case errors.Is(err, retrieval.ErrRetrieval),
		errors.Is(err, storage.ErrQdrantUnreachable),
		errors.Is(err, storage.ErrCollectionNotFound),
		errors.Is(err, storage.ErrDimensionMismatch):
		return http.StatusServiceUnavailable
	case errors.Is(err, llm.ErrModelInvocation):
		return http.StatusBadGateway
	case errors.Is(err, conversation.ErrPersistence),
		errors.Is(err, booking.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
