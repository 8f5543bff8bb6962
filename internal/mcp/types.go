// Package mcp exposes the banking assistant and its knowledge base as MCP tools.
package mcp

// AskAssistantInput defines the input parameters for the ask_assistant tool.
type AskAssistantInput struct {
	// Query is the user's message.
	Query string `json:"query" jsonschema:"the question or message for the banking assistant"`
	// SessionID keys conversation history and booking drafts.
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation identifier, defaults to default_user"`
}

// AskAssistantOutput contains the assistant's reply.
type AskAssistantOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// SearchKnowledgeBaseInput defines the input parameters for the search_knowledge_base tool.
type SearchKnowledgeBaseInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"the semantic search query for finding relevant passages"`
	// MaxResults is the maximum number of passages to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"maximum number of passages to return (1-20, default 5)"`
	// MinScore is the minimum relevance threshold (0-1).
	MinScore float64 `json:"min_score,omitempty" jsonschema:"minimum relevance score threshold between 0 and 1"`
}

// SearchKnowledgeBaseOutput contains the search results.
type SearchKnowledgeBaseOutput struct {
	Results []SearchResult `json:"results"`
	// Message provides informational context (e.g., "No matching passages found").
	Message string `json:"message,omitempty"`
}

// SearchResult represents a single passage match.
type SearchResult struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Page   int     `json:"page"`
	Score  float64 `json:"score"`
}

// StatusInput defines the input parameters for the get_index_status tool.
type StatusInput struct{}

// StatusOutput reports the size of the knowledge base and booking log.
type StatusOutput struct {
	TotalChunks   uint64 `json:"total_chunks"`
	TotalBookings int    `json:"total_bookings"`
}
