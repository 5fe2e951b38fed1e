package config_test

import (
	"path/filepath"
	"testing"

	"github.com/edopt/chatbot/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func TestRepository_Configure(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory, "").Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("sqlite creates the database file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "chatbot.db")
		repo, err := config.NewRepositoryForTest(config.BackendSQLite, path).Configure(t.Context())
		gt.NoError(t, err).Required()
		defer func() { gt.NoError(t, repo.Close()) }()

		list, err := repo.Statute().List(t.Context())
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(0)
	})

	t.Run("firestore requires project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendFirestore, "").Configure(t.Context())
		gt.Value(t, err).NotNil()
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("postgres", "").Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})
}
