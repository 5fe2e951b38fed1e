package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edopt/chatbot/pkg/cli/config"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestLogger_Configure(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	t.Run("json output to file redacts secrets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		closer, err := config.NewLoggerForTest("info", "json", path).Configure()
		gt.NoError(t, err).Required()

		type credentials struct {
			Token string
		}
		logging.Default().Info("configured", "auth", credentials{Token: "admin-secret"}, "model", "claude")
		logging.Default().Debug("hidden")
		closer()

		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains(`"model":"claude"`)
		gt.Bool(t, strings.Contains(string(data), "admin-secret")).False()
		gt.Bool(t, strings.Contains(string(data), "hidden")).False()
	})

	t.Run("console", func(t *testing.T) {
		closer, err := config.NewLoggerForTest("debug", "console", "stderr").Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "json", "stdout").Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Value(t, err).NotNil()
	})
}
