package model

import (
	"time"
	"unicode/utf8"

	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/google/uuid"
)

// ToolResultPreviewLength is the number of characters of a tool result kept in the audit trail
const ToolResultPreviewLength = 200

// SessionID is a UUID-based identifier for a chat session
type SessionID string

// NewSessionID generates a new UUID v4 SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// String returns the string representation of the session ID
func (id SessionID) String() string {
	return string(id)
}

// ChatSession groups an ordered sequence of conversation turns
type ChatSession struct {
	ID            SessionID
	ClientAddress string
	CreatedAt     time.Time
	LastActive    time.Time
}

// ChatMessage is one persisted conversation turn. Messages are append-only and
// ordered by CreatedAt, then by Seq for messages sharing a timestamp.
type ChatMessage struct {
	Seq       int64
	SessionID SessionID
	Role      types.Role
	Content   string
	ToolCalls []ToolCallRecord
	CreatedAt time.Time
}

// ToolCallRecord is the audit entry of a single tool invocation
type ToolCallRecord struct {
	Tool          string         `json:"tool" firestore:"tool"`
	Input         map[string]any `json:"input" firestore:"input"`
	ResultPreview string         `json:"result_preview" firestore:"result_preview"`
}

// NewToolCallRecord builds an audit entry, truncating the result to ToolResultPreviewLength characters
func NewToolCallRecord(tool string, input map[string]any, result string) ToolCallRecord {
	return ToolCallRecord{
		Tool:          tool,
		Input:         input,
		ResultPreview: TruncateRunes(result, ToolResultPreviewLength),
	}
}

// TruncateRunes returns at most n characters of s without splitting a multi-byte character
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
