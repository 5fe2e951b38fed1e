package repository_test

import (
	"context"
	"testing"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func runLegislationRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	seed := func(t *testing.T, repo interfaces.Repository) int64 {
		ctx := context.Background()
		base := uniqueID()
		bills := []*model.Legislation{
			{ID: base, BillNumber: "HB 1268", Title: "Relative to open enrollment in public schools", SessionYear: 2026, GeneralStatus: "02"},
			{ID: base + 1, BillNumber: "SB 101", Title: "Relative to education freedom accounts", SessionYear: 2026, GeneralStatus: "03"},
			{ID: base + 2, BillNumber: "HB 2", Title: "Relative to OPEN ENROLLMENT funding", SessionYear: 2026},
			{ID: base + 3, BillNumber: "HB 500", Title: "Relative to open enrollment", SessionYear: 2025},
		}
		for _, b := range bills {
			gt.NoError(t, repo.Legislation().Put(ctx, b)).Required()
		}
		return base
	}

	t.Run("FindByBillNumber matches any candidate", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := seed(t, repo)

		got, err := repo.Legislation().FindByBillNumber(ctx, "HB1268", "HB 1268")
		gt.NoError(t, err).Required()
		gt.Value(t, got).NotNil().Required()
		gt.Value(t, got.ID).Equal(base)

		missing, err := repo.Legislation().FindByBillNumber(ctx, "HB9999", "HB 9999")
		gt.NoError(t, err)
		gt.Value(t, missing).Equal(nil)
	})

	t.Run("SearchByTitle is case-insensitive and session scoped", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		seed(t, repo)

		bills, err := repo.Legislation().SearchByTitle(ctx, "open enrollment", 2026, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, bills).Length(2).Required()
		gt.Value(t, bills[0].BillNumber).Equal("HB 1268")
		gt.Value(t, bills[1].BillNumber).Equal("HB 2")

		limited, err := repo.Legislation().SearchByTitle(ctx, "open enrollment", 2026, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, limited).Length(1)
	})

	t.Run("SearchByTitle treats wildcards literally", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo)

		bills, err := repo.Legislation().SearchByTitle(context.Background(), "%", 2026, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, bills).Length(0)
	})

	t.Run("sponsors are listed prime first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		base := seed(t, repo)

		gt.NoError(t, repo.Legislation().PutSponsors(ctx, base, []*model.Sponsor{
			{PersonID: 1, FirstName: "Ann", LastName: "Cosponsor", Party: "d", District: "5", LegislativeBody: "H"},
			{PersonID: 2, FirstName: "Bob", LastName: "Prime", Party: "r", District: "12", LegislativeBody: "H", IsPrime: true},
		})).Required()

		sponsors, err := repo.Legislation().ListSponsors(ctx, base)
		gt.NoError(t, err).Required()
		gt.Array(t, sponsors).Length(2).Required()
		gt.Value(t, sponsors[0].LastName).Equal("Prime")
		gt.Value(t, sponsors[0].LegislationID).Equal(base)
		gt.Bool(t, sponsors[0].IsPrime).True()
		gt.Value(t, sponsors[1].LastName).Equal("Cosponsor")

		// Replacing drops the old set
		gt.NoError(t, repo.Legislation().PutSponsors(ctx, base, []*model.Sponsor{
			{PersonID: 3, FirstName: "Cy", LastName: "Only", LegislativeBody: "S", IsPrime: true},
		})).Required()
		sponsors, err = repo.Legislation().ListSponsors(ctx, base)
		gt.NoError(t, err).Required()
		gt.Array(t, sponsors).Length(1).Required()
		gt.Value(t, sponsors[0].LastName).Equal("Only")
	})

	t.Run("List returns every session ordered by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := uniqueID()
		gt.NoError(t, repo.Legislation().Put(ctx, &model.Legislation{ID: base + 1, BillNumber: "HB100", SessionYear: 2025})).Required()
		gt.NoError(t, repo.Legislation().Put(ctx, &model.Legislation{ID: base, BillNumber: "SB200", SessionYear: 2026})).Required()

		list, err := repo.Legislation().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].BillNumber).Equal("SB200")
		gt.Value(t, list[1].BillNumber).Equal("HB100")
	})

	t.Run("PutSponsors fails for an unknown bill", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Legislation().PutSponsors(context.Background(), uniqueID(), []*model.Sponsor{{PersonID: 1}})
		gt.Bool(t, isNotFound(err)).True()
	})
}

func TestMemoryLegislationRepository(t *testing.T) {
	runLegislationRepositoryTest(t, newMemoryRepository)
}

func TestSQLiteLegislationRepository(t *testing.T) {
	runLegislationRepositoryTest(t, newSQLiteRepository)
}

func TestFirestoreLegislationRepository(t *testing.T) {
	runLegislationRepositoryTest(t, newFirestoreRepository)
}
