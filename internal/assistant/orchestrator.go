// Package assistant answers user questions from retrieved context and books
// interviews when the model asks for it.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bull/rag-assistant/internal/booking"
	"github.com/bull/rag-assistant/internal/conversation"
	"github.com/bull/rag-assistant/internal/llm"
	"github.com/bull/rag-assistant/internal/retrieval"
)

// BookingSource is reported as the provenance of answers produced by a booking.
const BookingSource = "bookings database"

// DefaultMaxContextTokens bounds the retrieved context placed in the prompt.
const DefaultMaxContextTokens = 16000

// Retriever finds context for a query.
type Retriever interface {
	Search(ctx context.Context, query string) ([]retrieval.Result, error)
}

// Booker executes book_interview calls.
type Booker interface {
	Book(ctx context.Context, req booking.Request) (booking.Outcome, error)
}

// Answer is the reply to one chat turn. Sources may contain duplicates.
type Answer struct {
	Text    string
	Sources []string
}

// UniqueSources returns Sources without repeats, in first-seen order.
func (a *Answer) UniqueSources() []string {
	seen := make(map[string]struct{}, len(a.Sources))
	out := make([]string, 0, len(a.Sources))
	for _, src := range a.Sources {
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	return out
}

// Orchestrator holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	retriever        Retriever
	model            llm.ChatModel
	history          conversation.Store
	booker           Booker
	logger           *slog.Logger
	maxContextTokens int
	tokenizer        tokenizer
}

func NewOrchestrator(
	retriever Retriever,
	model llm.ChatModel,
	history conversation.Store,
	booker Booker,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		retriever:        retriever,
		model:            model,
		history:          history,
		booker:           booker,
		logger:           logger,
		maxContextTokens: DefaultMaxContextTokens,
		tokenizer:        defaultTokenizer(logger),
	}
}

// Chat runs one conversational turn for sessionID. Any failure of retrieval,
// the model or a store is returned and leaves the history untouched.
func (o *Orchestrator) Chat(ctx context.Context, query, sessionID string) (*Answer, error) {
	// 1. Session state
	turns, err := o.history.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	draft, err := o.history.Draft(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load booking draft: %w", err)
	}
	if draft == nil {
		draft = map[string]string{}
	}

	// 2. Context
	results, err := o.retriever.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(results))
	sources := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
		sources[i] = r.Source
	}
	contextBlock := o.truncateContext(strings.Join(texts, "\n"))

	// 3. Prompt
	messages := make([]llm.Message, 0, len(turns)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt(draft, contextBlock)})
	for _, t := range turns {
		role := llm.RoleUser
		if t.Role == conversation.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: query})

	// 4. Model
	resp, err := o.model.Complete(ctx, llm.Request{
		Messages: messages,
		Tools:    []llm.Tool{BookingTool()},
	})
	if err != nil {
		return nil, err
	}

	var calls []llm.ToolCall
	for _, tc := range resp.ToolCalls {
		if tc.Name == BookingToolName {
			calls = append(calls, tc)
		} else {
			o.logger.Warn("Ignoring call to unknown tool", "tool", tc.Name, "session", sessionID)
		}
	}

	if len(calls) == 0 {
		if err := o.history.Append(ctx, sessionID,
			conversation.UserTurn(query), conversation.AssistantTurn(resp.Content)); err != nil {
			return nil, fmt.Errorf("save history: %w", err)
		}
		return &Answer{Text: resp.Content, Sources: sources}, nil
	}

	return o.handleBooking(ctx, query, sessionID, draft, calls, sources)
}

// handleBooking merges each call into the session draft and dispatches only
// once all four fields are known.
func (o *Orchestrator) handleBooking(
	ctx context.Context,
	query, sessionID string,
	draft map[string]string,
	calls []llm.ToolCall,
	retrieved []string,
) (*Answer, error) {
	var replies []string
	dispatched := false

	for _, call := range calls {
		for _, f := range bookingFields {
			if v := strings.TrimSpace(call.Arguments[f]); v != "" {
				draft[f] = v
			}
		}

		if missing := missingFields(draft); len(missing) > 0 {
			o.logger.Info("Booking held back, details missing", "session", sessionID, "missing", missing)
			replies = append(replies, fmt.Sprintf(
				"I'd be happy to book your interview. I still need your %s before I can do that.", joinFields(missing)))
			continue
		}

		outcome, err := o.booker.Book(ctx, booking.RequestFromArgs(draft))
		if err != nil {
			return nil, err
		}
		dispatched = true

		if outcome.Booked {
			replies = append(replies, "I have successfully booked your appointment. "+outcome.Message)
			draft = map[string]string{}
		} else {
			replies = append(replies, "I could not book your appointment. "+outcome.Message)
		}
	}

	reply := strings.Join(replies, "\n")

	if err := o.history.SaveDraft(ctx, sessionID, draft); err != nil {
		return nil, fmt.Errorf("save booking draft: %w", err)
	}
	if err := o.history.Append(ctx, sessionID,
		conversation.UserTurn(query), conversation.AssistantTurn(reply)); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}

	sources := retrieved
	if dispatched {
		sources = []string{BookingSource}
	}
	return &Answer{Text: reply, Sources: sources}, nil
}
