package tool

import (
	"context"

	"github.com/edopt/chatbot/pkg/utils/logging"
)

// UpdateFunc receives progress messages emitted by tools while they run
type UpdateFunc func(ctx context.Context, message string)

type updateKey struct{}

// WithUpdate returns a context whose tool progress messages are passed to fn
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, updateKey{}, fn)
}

// Update reports progress of the running tool. The message is always logged at
// debug level and forwarded to the UpdateFunc of ctx when one is set.
func Update(ctx context.Context, message string) {
	logging.From(ctx).Debug("tool progress", "message", message)
	if fn, ok := ctx.Value(updateKey{}).(UpdateFunc); ok && fn != nil {
		fn(ctx, message)
	}
}
