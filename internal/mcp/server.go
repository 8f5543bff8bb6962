package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/rag-assistant/internal/assistant"
	"github.com/bull/rag-assistant/internal/retrieval"
)

// Chatter answers one conversational turn.
type Chatter interface {
	Chat(ctx context.Context, query, sessionID string) (*assistant.Answer, error)
}

// Searcher runs a similarity search with an explicit result count.
type Searcher interface {
	SearchN(ctx context.Context, query string, k int) ([]retrieval.Result, error)
}

// ChunkCounter reports the number of stored chunks.
type ChunkCounter interface {
	CountChunks(ctx context.Context) (uint64, error)
}

// BookingCounter reports the number of stored bookings.
type BookingCounter interface {
	Count(ctx context.Context) (int, error)
}

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// Config holds server dependencies.
type Config struct {
	Assistant Chatter
	Retriever Searcher
	Chunks    ChunkCounter
	Bookings  BookingCounter
	// Version is reported to clients; defaults to v0.1.0.
	Version string
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	version := cfg.Version
	if version == "" {
		version = "v0.1.0"
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "banking-assistant",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_assistant",
		Description: "Ask the banking assistant a question. Answers come from ingested bank documents and the assistant can book interviews when given a name, email, date and time.",
	}, makeAskHandler(cfg.Assistant))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_knowledge_base",
		Description: "Search ingested bank documents semantically. Returns matching passages with their source file, page and score.",
	}, makeSearchHandler(cfg.Retriever))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_index_status",
		Description: "Get the number of indexed chunks and recorded interview bookings.",
	}, makeStatusHandler(cfg.Chunks, cfg.Bookings))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
