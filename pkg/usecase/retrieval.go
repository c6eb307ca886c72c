package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// RetrievalUseCase joins externally-fetched events with locally-stored
// medication metadata. Lookups by event ID are exact; lookups by name
// are display lookups and may match several records.
type RetrievalUseCase struct {
	repo     interfaces.Repository
	provider interfaces.EventProvider
	policy   model.WindowPolicy
	now      func() time.Time
}

func NewRetrievalUseCase(repo interfaces.Repository, provider interfaces.EventProvider, policy model.WindowPolicy, now func() time.Time) *RetrievalUseCase {
	return &RetrievalUseCase{
		repo:     repo,
		provider: provider,
		policy:   policy,
		now:      now,
	}
}

// ListUpcoming retrieves the non-cancelled events of a calendar within
// the tier's retrieval window, in provider-returned order. No medication
// join happens here; the raw event list drives the schedule view.
//
// from and to are optional caller bounds; zero values mean unset. They
// narrow the window but can never widen it past what the tier allows.
func (uc *RetrievalUseCase) ListUpcoming(ctx context.Context, accessToken string, calendarID types.CalendarID, tier types.Tier, from, to time.Time, limit int) ([]*model.Event, error) {
	window := uc.policy.WindowFor(tier, uc.now())
	if from.After(window.Start) {
		window.Start = from
	}
	if !to.IsZero() && to.Before(window.End) {
		window.End = to
	}
	if window.Start.After(window.End) {
		return []*model.Event{}, nil
	}

	events, err := uc.provider.ListEvents(ctx, accessToken, calendarID, window.Start, window.End, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list events",
			goerr.V(types.CalendarIDKey, calendarID), goerr.V("tier", tier))
	}

	upcoming := make([]*model.Event, 0, len(events))
	for _, ev := range events {
		if ev.Cancelled {
			continue
		}
		upcoming = append(upcoming, ev)
	}

	return upcoming, nil
}

// ListCalendars passes through the caller's calendar list
func (uc *RetrievalUseCase) ListCalendars(ctx context.Context, accessToken string) ([]*model.Calendar, error) {
	calendars, err := uc.provider.ListCalendars(ctx, accessToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list calendars")
	}

	return calendars, nil
}

// GetMedicationsByName retrieves every medication of the user with the
// given name. Names are human-entered and not unique; the caller must
// disambiguate by event ID when an exact record is required. An empty
// result is not an error; an unknown user is.
func (uc *RetrievalUseCase) GetMedicationsByName(ctx context.Context, userID types.UserID, name string) ([]*model.Medication, error) {
	if _, err := uc.repo.User().Get(ctx, userID); err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(types.UserIDKey, userID))
	}

	meds, err := uc.repo.Medication().FindByName(ctx, userID, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find medications",
			goerr.V(types.UserIDKey, userID), goerr.V("name", name))
	}
	if meds == nil {
		// Keep the JSON shape an array even when nothing matches
		meds = []*model.Medication{}
	}

	return meds, nil
}

// GetMedicationByID retrieves the medication linked to the given event.
// Returns nil without error when the user exists but holds no matching
// record.
func (uc *RetrievalUseCase) GetMedicationByID(ctx context.Context, userID types.UserID, id types.EventID) (*model.Medication, error) {
	if _, err := uc.repo.User().Get(ctx, userID); err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(types.UserIDKey, userID))
	}

	med, err := uc.repo.Medication().Get(ctx, userID, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get medication",
			goerr.V(types.UserIDKey, userID), goerr.V(types.EventIDKey, id))
	}

	return med, nil
}

// EnrichedEvent is an event joined with its linked medication, if any
type EnrichedEvent struct {
	Event      *model.Event      `json:"event"`
	Medication *model.Medication `json:"medication,omitempty"`
}

// Overview is the merged view of the two stores for one calendar window.
// Divergence between the stores is reported, not hidden: events without
// a record and records without a live event are listed as orphans.
type Overview struct {
	Events            []*EnrichedEvent    `json:"events"`
	OrphanEvents      []*model.Event      `json:"orphanEvents,omitempty"`
	OrphanMedications []*model.Medication `json:"orphanMedications,omitempty"`
}

// MedicationOverview fetches the window's events and the user's
// medication records concurrently and joins them by event ID.
func (uc *RetrievalUseCase) MedicationOverview(ctx context.Context, userID types.UserID, accessToken string, calendarID types.CalendarID, tier types.Tier) (*Overview, error) {
	if _, err := uc.repo.User().Get(ctx, userID); err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(types.UserIDKey, userID))
	}

	window := uc.policy.WindowFor(tier, uc.now())

	var events []*model.Event
	var meds []*model.Medication

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		events, err = uc.provider.ListEvents(egCtx, accessToken, calendarID, window.Start, window.End, 0)
		if err != nil {
			return goerr.Wrap(err, "failed to list events", goerr.V(types.CalendarIDKey, calendarID))
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		meds, err = uc.repo.Medication().ListByUser(egCtx, userID)
		if err != nil {
			return goerr.Wrap(err, "failed to list medications", goerr.V(types.UserIDKey, userID))
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	medByID := make(map[types.EventID]*model.Medication, len(meds))
	for _, med := range meds {
		medByID[med.ID] = med
	}

	overview := &Overview{}
	linked := make(map[types.EventID]bool, len(events))
	for _, ev := range events {
		if ev.Cancelled {
			// A record linked to a cancelled event is an orphan; the
			// event itself is dropped from the view.
			linked[ev.ID] = false
			continue
		}
		linked[ev.ID] = true

		med := medByID[ev.ID]
		overview.Events = append(overview.Events, &EnrichedEvent{Event: ev, Medication: med})
		if med == nil {
			overview.OrphanEvents = append(overview.OrphanEvents, ev)
		}
	}

	// Only records whose event appeared in the window can be judged: a
	// record pointing at a cancelled event is an orphan, a record whose
	// event lies outside the window is simply not visible here.
	for _, med := range meds {
		if alive, seen := linked[med.ID]; seen && !alive {
			overview.OrphanMedications = append(overview.OrphanMedications, med)
		}
	}

	return overview, nil
}
