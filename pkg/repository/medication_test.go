package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/dosecal/dosecal/pkg/repository/firestore"
	"github.com/dosecal/dosecal/pkg/repository/memory"
)

func runMedicationRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Append and Get by event ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newTestUserID()
		med := &model.Medication{
			ID:          types.EventID(fmt.Sprintf("evt-%s-1", userID)),
			UserID:      userID,
			Name:        "Aspirin",
			Description: "After breakfast",
			Dosage:      "2 pills",
			DosesTaken:  "0",
			TotalDoses:  "30",
		}

		created, err := repo.Medication().Append(ctx, med)
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).Equal(med.ID)
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		retrieved, err := repo.Medication().Get(ctx, userID, med.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved).NotNil()
		gt.Value(t, retrieved.Name).Equal("Aspirin")
		gt.Value(t, retrieved.Dosage).Equal("2 pills")
	})

	t.Run("Get returns nil for missing record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		med, err := repo.Medication().Get(ctx, newTestUserID(), "evt-missing")
		gt.NoError(t, err).Required()
		gt.Value(t, med).Nil()
	})

	t.Run("Get does not leak another user's record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		owner := newTestUserID()
		id := types.EventID(fmt.Sprintf("evt-%s-own", owner))
		_, err := repo.Medication().Append(ctx, &model.Medication{
			ID: id, UserID: owner, Name: "Ibuprofen",
		})
		gt.NoError(t, err).Required()

		med, err := repo.Medication().Get(ctx, newTestUserID(), id)
		gt.NoError(t, err).Required()
		gt.Value(t, med).Nil()
	})

	t.Run("FindByName returns all matches", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newTestUserID()
		for i := 0; i < 2; i++ {
			_, err := repo.Medication().Append(ctx, &model.Medication{
				ID:     types.EventID(fmt.Sprintf("evt-%s-%d", userID, i)),
				UserID: userID,
				Name:   "Aspirin",
			})
			gt.NoError(t, err).Required()
		}
		_, err := repo.Medication().Append(ctx, &model.Medication{
			ID:     types.EventID(fmt.Sprintf("evt-%s-other", userID)),
			UserID: userID,
			Name:   "Vitamin D",
		})
		gt.NoError(t, err).Required()

		meds, err := repo.Medication().FindByName(ctx, userID, "Aspirin")
		gt.NoError(t, err).Required()
		gt.Array(t, meds).Length(2)

		none, err := repo.Medication().FindByName(ctx, userID, "Penicillin")
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	})

	t.Run("ListByUser preserves insertion order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newTestUserID()
		names := []string{"Aspirin", "Ibuprofen", "Vitamin D"}
		for i, name := range names {
			_, err := repo.Medication().Append(ctx, &model.Medication{
				ID:     types.EventID(fmt.Sprintf("evt-%s-%d", userID, i)),
				UserID: userID,
				Name:   name,
			})
			gt.NoError(t, err).Required()
		}

		meds, err := repo.Medication().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, meds).Length(3)
		for i, name := range names {
			gt.Value(t, meds[i].Name).Equal(name)
		}
	})

	t.Run("UpdateDescription overwrites only the description", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newTestUserID()
		id := types.EventID(fmt.Sprintf("evt-%s-upd", userID))
		_, err := repo.Medication().Append(ctx, &model.Medication{
			ID:          id,
			UserID:      userID,
			Name:        "Aspirin",
			Description: "old",
			Dosage:      "1 pill",
		})
		gt.NoError(t, err).Required()

		updated, err := repo.Medication().UpdateDescription(ctx, userID, id, "new")
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Description).Equal("new")
		gt.Value(t, updated.Dosage).Equal("1 pill")
	})

	t.Run("UpdateDescription fails for missing record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Medication().UpdateDescription(ctx, newTestUserID(), "evt-missing", "x")
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, types.ErrMedicationNotFound)).True()
	})

	t.Run("SaveAll applies appends and updates in one batch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newTestUserID()
		existing := types.EventID(fmt.Sprintf("evt-%s-existing", userID))
		_, err := repo.Medication().Append(ctx, &model.Medication{
			ID:          existing,
			UserID:      userID,
			Name:        "Aspirin",
			Description: "old",
			Dosage:      "1 pill",
		})
		gt.NoError(t, err).Required()

		added := types.EventID(fmt.Sprintf("evt-%s-added", userID))
		err = repo.Medication().SaveAll(ctx,
			[]*model.Medication{{ID: added, UserID: userID, Name: "Ibuprofen"}},
			map[types.EventID]string{existing: "new"},
		)
		gt.NoError(t, err).Required()

		updated, err := repo.Medication().Get(ctx, userID, existing)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Description).Equal("new")
		gt.Value(t, updated.Dosage).Equal("1 pill")

		appended, err := repo.Medication().Get(ctx, userID, added)
		gt.NoError(t, err).Required()
		gt.Value(t, appended).NotNil()
	})

	t.Run("SaveAll updates may target appends from the same batch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newTestUserID()
		added := types.EventID(fmt.Sprintf("evt-%s-merged", userID))
		err := repo.Medication().SaveAll(ctx,
			[]*model.Medication{{ID: added, UserID: userID, Name: "Aspirin", Description: "first"}},
			map[types.EventID]string{added: "second"},
		)
		gt.NoError(t, err).Required()

		med, err := repo.Medication().Get(ctx, userID, added)
		gt.NoError(t, err).Required()
		gt.Value(t, med).NotNil()
		gt.Value(t, med.Description).Equal("second")
	})

	t.Run("SaveAll failure leaves prior state unchanged", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newTestUserID()
		err := repo.Medication().SaveAll(ctx,
			[]*model.Medication{{ID: types.EventID(fmt.Sprintf("evt-%s-n", userID)), UserID: userID, Name: "Aspirin"}},
			map[types.EventID]string{"evt-missing": "x"},
		)
		gt.Value(t, err).NotNil()

		meds, err := repo.Medication().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, meds).Length(0)
	})

	t.Run("Concurrent appends for one user do not lose records", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newTestUserID()
		const n = 10

		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Medication().Append(ctx, &model.Medication{
					ID:     types.EventID(fmt.Sprintf("evt-%s-c%d", userID, i)),
					UserID: userID,
					Name:   fmt.Sprintf("Med %d", i),
				})
			}(i)
		}
		wg.Wait()

		for i := range errs {
			gt.NoError(t, errs[i]).Required()
		}

		meds, err := repo.Medication().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, meds).Length(n)
	})
}

func TestMedicationRepository_Memory(t *testing.T) {
	runMedicationRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestMedicationRepository_Firestore(t *testing.T) {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}

	runMedicationRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := firestore.New(context.Background(), projectID, "")
		gt.NoError(t, err).Required()
		return repo
	})
}
