package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type medicationRepository struct {
	mu   sync.RWMutex
	meds map[types.EventID]*model.Medication
	seq  int64
	ord  map[types.EventID]int64
}

func newMedicationRepository() *medicationRepository {
	return &medicationRepository{
		meds: make(map[types.EventID]*model.Medication),
		ord:  make(map[types.EventID]int64),
	}
}

func copyMedication(m *model.Medication) *model.Medication {
	c := *m
	return &c
}

func (r *medicationRepository) Append(ctx context.Context, med *model.Medication) (*model.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.meds[med.ID]; exists {
		return nil, goerr.New("medication already exists",
			goerr.T(types.TagPersistence), goerr.V(types.EventIDKey, med.ID))
	}

	now := time.Now().UTC()
	created := copyMedication(med)
	created.CreatedAt = now
	created.UpdatedAt = now

	r.meds[created.ID] = created
	r.seq++
	r.ord[created.ID] = r.seq

	return copyMedication(created), nil
}

func (r *medicationRepository) Get(ctx context.Context, userID types.UserID, id types.EventID) (*model.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	med, exists := r.meds[id]
	if !exists || med.UserID != userID {
		return nil, nil
	}

	return copyMedication(med), nil
}

func (r *medicationRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var meds []*model.Medication
	for _, med := range r.meds {
		if med.UserID == userID {
			meds = append(meds, copyMedication(med))
		}
	}

	// Insertion order, like a store ordering on creation time
	sort.Slice(meds, func(i, j int) bool {
		return r.ord[meds[i].ID] < r.ord[meds[j].ID]
	})

	return meds, nil
}

func (r *medicationRepository) FindByName(ctx context.Context, userID types.UserID, name string) ([]*model.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var meds []*model.Medication
	for _, med := range r.meds {
		if med.UserID == userID && med.Name == name {
			meds = append(meds, copyMedication(med))
		}
	}

	sort.Slice(meds, func(i, j int) bool {
		return r.ord[meds[i].ID] < r.ord[meds[j].ID]
	})

	return meds, nil
}

func (r *medicationRepository) UpdateDescription(ctx context.Context, userID types.UserID, id types.EventID, description string) (*model.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	med, exists := r.meds[id]
	if !exists || med.UserID != userID {
		return nil, goerr.Wrap(types.ErrMedicationNotFound, "medication not found",
			goerr.T(types.TagNotFound),
			goerr.V(types.UserIDKey, userID),
			goerr.V(types.EventIDKey, id))
	}

	med.Description = description
	med.UpdatedAt = time.Now().UTC()

	return copyMedication(med), nil
}

func (r *medicationRepository) SaveAll(ctx context.Context, appends []*model.Medication, updates map[types.EventID]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate the whole batch before touching state so a failure leaves
	// prior state unchanged. Updates may target records appended in the
	// same batch, since appends are applied first.
	pending := make(map[types.EventID]bool, len(appends))
	for _, med := range appends {
		if _, exists := r.meds[med.ID]; exists {
			return goerr.New("medication already exists",
				goerr.T(types.TagPersistence), goerr.V(types.EventIDKey, med.ID))
		}
		pending[med.ID] = true
	}
	for id := range updates {
		if _, exists := r.meds[id]; !exists && !pending[id] {
			return goerr.Wrap(types.ErrMedicationNotFound, "medication not found",
				goerr.T(types.TagPersistence), goerr.V(types.EventIDKey, id))
		}
	}

	now := time.Now().UTC()
	for _, med := range appends {
		created := copyMedication(med)
		created.CreatedAt = now
		created.UpdatedAt = now
		r.meds[created.ID] = created
		r.seq++
		r.ord[created.ID] = r.seq
	}
	for id, description := range updates {
		r.meds[id].Description = description
		r.meds[id].UpdatedAt = now
	}

	return nil
}
