package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Info("hello", "key", "value")

	gt.String(t, buf.String()).Contains(`"msg":"hello"`)
	gt.String(t, buf.String()).Contains(`"key":"value"`)
}

func TestFromFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	logging.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	logging.From(context.Background()).Info("fallback")

	gt.String(t, buf.String()).Contains("fallback")
}
