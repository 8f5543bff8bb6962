// Package llm talks to an OpenAI-compatible chat completions endpoint with tool calling.
package llm

import (
	"context"
	"errors"
)

// ErrModelInvocation wraps every failure to obtain a completion.
var ErrModelInvocation = errors.New("model invocation failed")

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Tool declares a function the model may call. Parameters is a JSON schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a structured invocation emitted by the model. Argument values are
// always strings; numbers and booleans are rendered in their JSON form.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]string
}

type Request struct {
	Messages []Message
	Tools    []Tool
}

type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatModel produces one completion per request.
type ChatModel interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
