package model_test

import (
	"strings"
	"testing"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestNewSessionID(t *testing.T) {
	id1 := model.NewSessionID()
	id2 := model.NewSessionID()

	gt.Value(t, id1.String()).NotEqual("")
	gt.Value(t, id1).NotEqual(id2)
}

func TestNewToolCallRecord(t *testing.T) {
	t.Run("short result is kept as is", func(t *testing.T) {
		rec := model.NewToolCallRecord("lookup_rsa", map[string]any{"chapter": "193-A"}, "RSA 193-A:1")
		gt.Value(t, rec.Tool).Equal("lookup_rsa")
		gt.Value(t, rec.ResultPreview).Equal("RSA 193-A:1")
		gt.Value(t, rec.Input["chapter"]).Equal(any("193-A"))
	})

	t.Run("long result is truncated to preview length", func(t *testing.T) {
		rec := model.NewToolCallRecord("search_content", nil, strings.Repeat("a", 500))
		gt.Number(t, len(rec.ResultPreview)).Equal(model.ToolResultPreviewLength)
	})

	t.Run("multi-byte characters are not split", func(t *testing.T) {
		rec := model.NewToolCallRecord("search_content", nil, strings.Repeat("é", 300))
		gt.Value(t, rec.ResultPreview).Equal(strings.Repeat("é", model.ToolResultPreviewLength))
	})
}

func TestTruncateRunes(t *testing.T) {
	gt.Value(t, model.TruncateRunes("hello", 3)).Equal("hel")
	gt.Value(t, model.TruncateRunes("hello", 10)).Equal("hello")
	gt.Value(t, model.TruncateRunes("hello", 0)).Equal("")
}
