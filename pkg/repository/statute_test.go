package repository_test

import (
	"context"
	"testing"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func runStatuteRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Get finds a section by chapter and section", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := uniqueID()
		gt.NoError(t, repo.Statute().Put(ctx, &model.Statute{
			ID:          id,
			TitleName:   "EDUCATION",
			ChapterNo:   "193-A",
			ChapterName: "HOME EDUCATION",
			SectionNo:   "1",
			SectionName: "Definitions",
			Text:        "In this chapter: I. \"Home education\" means ...",
		})).Required()

		got, err := repo.Statute().Get(ctx, "193-A", "1")
		gt.NoError(t, err).Required()
		gt.Value(t, got).NotNil().Required()
		gt.Value(t, got.ID).Equal(id)
		gt.Value(t, got.Citation()).Equal("193-A:1")
		gt.Value(t, got.SectionName).Equal("Definitions")

		byID, err := repo.Statute().GetByID(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, byID.ChapterName).Equal("HOME EDUCATION")
	})

	t.Run("Get returns nil for a missing section", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.Statute().Get(context.Background(), "999", "1")
		gt.NoError(t, err)
		gt.Value(t, got).Equal(nil)

		byID, err := repo.Statute().GetByID(context.Background(), uniqueID())
		gt.NoError(t, err)
		gt.Value(t, byID).Equal(nil)
	})

	t.Run("ListByChapter returns only that chapter ordered by section", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := uniqueID()
		for i, sec := range []string{"3", "1", "2"} {
			gt.NoError(t, repo.Statute().Put(ctx, &model.Statute{
				ID:        base + int64(i),
				ChapterNo: "194-B",
				SectionNo: sec,
			})).Required()
		}
		gt.NoError(t, repo.Statute().Put(ctx, &model.Statute{
			ID:        base + 10,
			ChapterNo: "193",
			SectionNo: "1",
		})).Required()

		list, err := repo.Statute().ListByChapter(ctx, "194-B")
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(3).Required()
		gt.Value(t, list[0].SectionNo).Equal("1")
		gt.Value(t, list[1].SectionNo).Equal("2")
		gt.Value(t, list[2].SectionNo).Equal("3")
	})

	t.Run("List returns all sections ordered by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		list, err := repo.Statute().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(0)

		base := uniqueID()
		gt.NoError(t, repo.Statute().Put(ctx, &model.Statute{ID: base + 1, ChapterNo: "189", SectionNo: "1"})).Required()
		gt.NoError(t, repo.Statute().Put(ctx, &model.Statute{ID: base, ChapterNo: "193", SectionNo: "1"})).Required()

		list, err = repo.Statute().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].ChapterNo).Equal("193")
		gt.Value(t, list[1].ChapterNo).Equal("189")
	})

	t.Run("Put rejects a duplicate citation under another ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := uniqueID()
		gt.NoError(t, repo.Statute().Put(ctx, &model.Statute{ID: base, ChapterNo: "193-E", SectionNo: "1"})).Required()
		err := repo.Statute().Put(ctx, &model.Statute{ID: base + 1, ChapterNo: "193-E", SectionNo: "1"})
		gt.Bool(t, isInvalidArgument(err)).True()

		// The same ID may be rewritten
		gt.NoError(t, repo.Statute().Put(ctx, &model.Statute{ID: base, ChapterNo: "193-E", SectionNo: "1", Text: "updated"}))
		got, err := repo.Statute().Get(ctx, "193-E", "1")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Text).Equal("updated")
	})
}

func TestMemoryStatuteRepository(t *testing.T) {
	runStatuteRepositoryTest(t, newMemoryRepository)
}

func TestSQLiteStatuteRepository(t *testing.T) {
	runStatuteRepositoryTest(t, newSQLiteRepository)
}

func TestFirestoreStatuteRepository(t *testing.T) {
	runStatuteRepositoryTest(t, newFirestoreRepository)
}
