package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/edopt/chatbot/pkg/utils/logging"
)

// Close closes c and logs a failure instead of returning it. A nil closer is ignored.
// attrs are added to the log record to identify the resource.
func Close(ctx context.Context, c io.Closer, attrs ...any) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Error("failed to close", append(attrs, slog.Any("error", err))...)
	}
}

// Write writes data to w and logs a failure. Used for response bodies where
// the status line has already been sent.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("failed to write", slog.Any("error", err))
	}
}
