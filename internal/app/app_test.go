package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/rag-assistant/internal/api"
	"github.com/bull/rag-assistant/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeModel answers like an OpenAI-compatible endpoint: a booking tool call when
// the user mentions booking, a plain answer otherwise.
func fakeModel(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		last := req.Messages[len(req.Messages)-1].Content

		message := map[string]any{"role": "assistant", "content": "Savings accounts pay 2% a year."}
		if strings.Contains(last, "book") {
			message = map[string]any{
				"role":    "assistant",
				"content": nil,
				"tool_calls": []map[string]any{{
					"id":   "call_1",
					"type": "function",
					"function": map[string]any{
						"name":      "book_interview",
						"arguments": `{"name":"Ann Lee","email":"ann@example.com","date":"2026-11-02","time":"10:30"}`,
					},
				}},
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "llama-3.3-70b-versatile",
			"choices": []map[string]any{{"index": 0, "finish_reason": "stop", "message": message}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, llmURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Qdrant.Type = "memory"
	cfg.Embedding.Provider = "hashing"
	cfg.Embedding.Dimension = 128
	cfg.Storage.SQLitePath = filepath.Join(dir, "assistant.db")
	cfg.Server.TempDir = filepath.Join(dir, "uploads")
	cfg.LLM.BaseURL = llmURL
	cfg.LLM.APIKey = "test-key"
	return cfg
}

func TestNew_WithoutChat(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLM.APIKey = ""

	a, err := New(context.Background(), cfg, nil, WithoutChat())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Assistant)
	assert.NotNil(t, a.Pipeline)
	_, err = a.MCPServer()
	assert.Error(t, err)
}

func TestNew_MissingModelKey(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.LLM.APIKey = ""

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "llm api key not set")
}

func TestNew_UnknownDrivers(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Qdrant.Type = "pinecone"
	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "unknown vector store type")

	cfg = testConfig(t, "")
	cfg.Storage.BookingDriver = "mysql"
	_, err = New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "unknown booking driver")
}

func TestRouter_EndToEnd(t *testing.T) {
	srv := fakeModel(t)
	a, err := New(context.Background(), testConfig(t, srv.URL), nil)
	require.NoError(t, err)
	defer a.Close()

	router, err := a.Router()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "savings.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Savings accounts pay 2% a year. Interest is paid monthly."))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ingest api.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingest))
	assert.Equal(t, 1, ingest.ChunksCount)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat?query=savings+interest&session_id=ann", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var chat api.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))
	assert.Equal(t, "Savings accounts pay 2% a year.", chat.Answer)
	assert.Equal(t, []string{"savings.txt"}, chat.Sources)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat?query=please+book+an+interview&session_id=ann", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chat))
	assert.Contains(t, chat.Answer, "SUCCESS")
	assert.Equal(t, []string{"bookings database"}, chat.Sources)

	records, err := a.Bookings.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ann@example.com", records[0].Email)

	history, err := a.History.History(context.Background(), "ann")
	require.NoError(t, err)
	assert.Len(t, history, 4)
}
