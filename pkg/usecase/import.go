package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// ImportMedications reconciles a batch of incoming medications against
// the user's stored collection. Matching is by name, not ID: a matching
// record gets only its description overwritten, everything else is left
// alone; a new name is appended as a new record. The store write is one
// atomic batch, so a failure leaves the medication collection untouched.
// A user provisioned just before a failing batch stays provisioned; the
// record carries no medication state and a retry converges.
//
// Unlike the single-create path, this path provisions the user when
// absent. The asymmetry is intentional: bulk import assumes new users,
// single add assumes an already-onboarded one.
func (uc *RetrievalUseCase) ImportMedications(ctx context.Context, userID types.UserID, email string, incoming []*model.Medication) (*model.User, error) {
	if userID == "" {
		return nil, goerr.Wrap(types.ErrValidation, "missing required fields",
			goerr.V("missing", []string{"userId"}))
	}
	for _, med := range incoming {
		if med == nil {
			return nil, goerr.Wrap(types.ErrValidation, "import entries must not be null")
		}
		if med.Name == "" || med.ID == "" {
			return nil, goerr.Wrap(types.ErrValidation, "import entries require id and name",
				goerr.V(types.EventIDKey, med.ID), goerr.V("name", med.Name))
		}
	}

	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, types.ErrUserNotFound) {
			return nil, goerr.Wrap(err, "failed to get user", goerr.V(types.UserIDKey, userID))
		}
		user, err = uc.repo.User().Create(ctx, &model.User{ID: userID, Email: email})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to provision user",
				goerr.V(types.UserIDKey, userID))
		}
	}

	existing, err := uc.repo.Medication().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list medications", goerr.V(types.UserIDKey, userID))
	}

	// First record per name wins as the merge target, mirroring the
	// batch semantics: name is a display key, not an identity.
	byName := make(map[string]*model.Medication, len(existing))
	for _, med := range existing {
		if _, ok := byName[med.Name]; !ok {
			byName[med.Name] = med
		}
	}

	var appends []*model.Medication
	updates := make(map[types.EventID]string)
	for _, med := range incoming {
		if match, ok := byName[med.Name]; ok {
			updates[match.ID] = med.Description
			continue
		}

		appended := *med
		appended.UserID = userID
		appends = append(appends, &appended)
		byName[appended.Name] = &appended
	}

	if err := uc.repo.Medication().SaveAll(ctx, appends, updates); err != nil {
		return nil, goerr.Wrap(err, "failed to save imported medications",
			goerr.V(types.UserIDKey, userID),
			goerr.V("appends", len(appends)),
			goerr.V("updates", len(updates)))
	}

	return user, nil
}
