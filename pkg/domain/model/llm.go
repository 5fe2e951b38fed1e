package model

import (
	"strings"

	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/gollem"
)

// StopReason tells why the model ended its turn
type StopReason string

const (
	StopReasonEndTurn   StopReason = "end_turn"
	StopReasonToolUse   StopReason = "tool_use"
	StopReasonMaxTokens StopReason = "max_tokens"
)

// ToolCall is a tool invocation requested by the model
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResult is the text produced for a ToolCall, paired by CallID
type ToolResult struct {
	CallID  string
	Content string
	IsError bool
}

// Message is one entry of the working history sent to the model.
// A user message carries either Text or ToolResults; an assistant message
// carries Text and optionally ToolCalls.
type Message struct {
	Role        types.Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// ChatRequest is a single model invocation
type ChatRequest struct {
	SystemPrompt string
	Tools        []gollem.ToolSpec
	Messages     []Message
}

// ChatResponse is the model output for one invocation
type ChatResponse struct {
	StopReason StopReason
	Texts      []string
	ToolCalls  []ToolCall
}

// Text returns the concatenation of all plain-text segments
func (r *ChatResponse) Text() string {
	if r == nil {
		return ""
	}
	return strings.Join(r.Texts, "")
}

// RequestsTools reports whether the model stopped to run tools and named at least one
func (r *ChatResponse) RequestsTools() bool {
	return r != nil && r.StopReason == StopReasonToolUse && len(r.ToolCalls) > 0
}
