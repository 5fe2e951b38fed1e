package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/repository/firestore"
	"github.com/edopt/chatbot/pkg/repository/memory"
	"github.com/edopt/chatbot/pkg/repository/sqlite"
	"github.com/m-mizutani/gt"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edopt_chatbot.db")
	repo, err := sqlite.New(context.Background(), path)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

var idSeq atomic.Int64

// uniqueID returns an ID unlikely to collide across test runs against a shared Firestore
func uniqueID() int64 {
	return time.Now().UnixNano()/1000 + idSeq.Add(1)
}

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) ||
		errors.Is(err, sqlite.ErrNotFound) ||
		errors.Is(err, firestore.ErrNotFound)
}

func isInvalidArgument(err error) bool {
	return errors.Is(err, memory.ErrInvalidArgument) ||
		errors.Is(err, sqlite.ErrInvalidArgument) ||
		errors.Is(err, firestore.ErrInvalidArgument)
}
