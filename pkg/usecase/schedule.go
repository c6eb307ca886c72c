package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/dosecal/dosecal/pkg/utils/logging"
)

// ScheduleUseCase coordinates the two-step linked-record write: create
// the event at the external provider, then append the medication record
// locally under the provider-assigned event ID. The two steps are not
// one transaction, so the failure modes are named and kept apart.
type ScheduleUseCase struct {
	repo     interfaces.Repository
	provider interfaces.EventProvider
}

func NewScheduleUseCase(repo interfaces.Repository, provider interfaces.EventProvider) *ScheduleUseCase {
	return &ScheduleUseCase{
		repo:     repo,
		provider: provider,
	}
}

// CreateMedication creates the calendar event and links a medication
// record to it. The event is always created strictly before the local
// append: an orphaned event is detectable and reconcilable, while an
// orphaned medication record pointing at a missing event would corrupt
// retrieval.
//
// Failure modes, in order:
//   - validation failure: no call has been made to either store
//   - provider failure: no local write happened, nothing to reconcile
//   - unknown user: the event exists but no record was written; the
//     user was required to exist beforehand on this path
//   - append failure after event creation: surfaced as a partial write
//     carrying everything a reconciler needs; no compensating delete of
//     the event is attempted here
func (uc *ScheduleUseCase) CreateMedication(ctx context.Context, userID types.UserID, accessToken string, draft *model.EventDraft, fields model.MedicationFields) (*model.Medication, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	event, err := uc.provider.CreateEvent(ctx, accessToken, draft)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create calendar event",
			goerr.V(types.UserIDKey, userID),
			goerr.V(types.CalendarIDKey, draft.CalendarID))
	}

	if _, err := uc.repo.User().Get(ctx, userID); err != nil {
		// The event already exists at the provider. A missing user is a
		// caller error, but the event is now unlinked, so log it the
		// same way as a partial write.
		logging.From(ctx).Warn("event created for unknown user",
			"user_id", userID,
			"event_id", event.ID,
			"calendar_id", draft.CalendarID,
		)
		return nil, goerr.Wrap(err, "cannot link medication to unknown user",
			goerr.V(types.UserIDKey, userID),
			goerr.V(types.EventIDKey, event.ID))
	}

	med := &model.Medication{
		ID:          event.ID,
		UserID:      userID,
		Name:        draft.Title,
		Description: draft.Description,
		Dosage:      fields.Dosage,
		DosesTaken:  fields.DosesTaken,
		TotalDoses:  fields.TotalDoses,
	}

	created, err := uc.repo.Medication().Append(ctx, med)
	if err != nil {
		// Known orphan state: the event exists with no linked record.
		// Log everything a reconciler needs; recovery is relinking or
		// deleting the event, not a blind retry.
		wrapped := goerr.Wrap(err, "event created but medication link failed",
			goerr.T(types.TagPartialWrite),
			goerr.V(types.UserIDKey, userID),
			goerr.V(types.EventIDKey, event.ID),
			goerr.V(types.CalendarIDKey, draft.CalendarID),
			goerr.V("name", draft.Title),
			goerr.V("fields", fields))
		logging.From(ctx).Error("partial write on medication creation",
			"user_id", userID,
			"event_id", event.ID,
			"calendar_id", draft.CalendarID,
			"name", draft.Title,
			"fields", fields,
		)
		return nil, wrapped
	}

	return created, nil
}
