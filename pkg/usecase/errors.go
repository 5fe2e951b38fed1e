package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Input errors
	ErrEmptyMessage       = errors.New("message is empty")
	ErrUnknownContentType = errors.New("unknown content type")

	// Wiring errors
	ErrNoEmbedder = errors.New("embedder is not configured")

	// Internal errors
	ErrInvalidTransition = errors.New("invalid chat state transition")
)

// Context keys for error values
const (
	SessionIDKey   = "session_id"
	ContentTypeKey = "content_type"
)
