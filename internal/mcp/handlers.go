package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultSessionID  = "default_user"
	defaultMaxResults = 5
)

var errEmptyQuery = errors.New("query must not be empty")

// makeAskHandler creates the ask_assistant tool handler.
func makeAskHandler(chatter Chatter) func(
	context.Context, *mcp.CallToolRequest, AskAssistantInput,
) (*mcp.CallToolResult, AskAssistantOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskAssistantInput) (
		*mcp.CallToolResult, AskAssistantOutput, error,
	) {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return nil, AskAssistantOutput{}, errEmptyQuery
		}
		sessionID := input.SessionID
		if sessionID == "" {
			sessionID = defaultSessionID
		}

		answer, err := chatter.Chat(ctx, query, sessionID)
		if err != nil {
			return nil, AskAssistantOutput{}, fmt.Errorf("chat failed: %w", err)
		}

		return nil, AskAssistantOutput{
			Answer:  answer.Text,
			Sources: answer.UniqueSources(),
		}, nil
	}
}

// makeSearchHandler creates the search_knowledge_base tool handler.
// Results below MinScore are dropped; the rest keep the store's ordering.
func makeSearchHandler(searcher Searcher) func(
	context.Context, *mcp.CallToolRequest, SearchKnowledgeBaseInput,
) (*mcp.CallToolResult, SearchKnowledgeBaseOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchKnowledgeBaseInput) (
		*mcp.CallToolResult, SearchKnowledgeBaseOutput, error,
	) {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return nil, SearchKnowledgeBaseOutput{}, errEmptyQuery
		}
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = defaultMaxResults
		}

		found, err := searcher.SearchN(ctx, query, maxResults)
		if err != nil {
			return nil, SearchKnowledgeBaseOutput{}, fmt.Errorf("search failed: %w", err)
		}

		results := make([]SearchResult, 0, len(found))
		for _, r := range found {
			if r.Score < input.MinScore {
				continue
			}
			results = append(results, SearchResult{
				Text:   r.Text,
				Source: r.Source,
				Page:   r.Page,
				Score:  r.Score,
			})
		}

		if len(results) == 0 {
			return nil, SearchKnowledgeBaseOutput{
				Results: []SearchResult{},
				Message: "No matching passages found. Try broader search terms or ingest more documents.",
			}, nil
		}
		return nil, SearchKnowledgeBaseOutput{Results: results}, nil
	}
}

// makeStatusHandler creates the get_index_status tool handler.
func makeStatusHandler(chunks ChunkCounter, bookings BookingCounter) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		total, err := chunks.CountChunks(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("vector_store_error: failed to count chunks: %w", err)
		}
		booked, err := bookings.Count(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("database_error: failed to count bookings: %w", err)
		}
		return nil, StatusOutput{TotalChunks: total, TotalBookings: booked}, nil
	}
}
