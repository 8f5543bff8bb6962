// Package conversation persists per-session chat history and booking drafts.
package conversation

import (
	"context"
	"errors"
	"maps"
	"time"
)

// ErrPersistence wraps every storage failure.
var ErrPersistence = errors.New("conversation store failure")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a session.
type Turn struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// UserTurn and AssistantTurn build turns stamped with the current time.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content, CreatedAt: time.Now().UTC()}
}

func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content, CreatedAt: time.Now().UTC()}
}

// Store keeps history and booking drafts keyed by an opaque session id.
// Sessions are created implicitly: reading an unknown session yields an empty
// history and an empty draft.
//
// Append writes all turns of one call atomically. Two concurrent calls for the
// same session may interleave their pairs; that race is accepted.
type Store interface {
	History(ctx context.Context, sessionID string) ([]Turn, error)
	Append(ctx context.Context, sessionID string, turns ...Turn) error
	Draft(ctx context.Context, sessionID string) (map[string]string, error)
	// SaveDraft replaces the session draft. An empty map clears it.
	SaveDraft(ctx context.Context, sessionID string, fields map[string]string) error
}

func cloneDraft(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	maps.Copy(out, fields)
	return out
}
