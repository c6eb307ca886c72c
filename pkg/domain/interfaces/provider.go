package interfaces

import (
	"context"
	"time"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// EventProvider is the thin client over the external calendar service.
// It holds no state of its own; every call authenticates with the
// caller's access token. Failures, including timeouts, wrap
// types.ErrUpstream.
type EventProvider interface {
	// CreateEvent submits the draft and returns the event with its
	// provider-assigned ID
	CreateEvent(ctx context.Context, accessToken string, draft *model.EventDraft) (*model.Event, error)

	// ListEvents retrieves events of a calendar within [from, to),
	// in provider-returned order. limit <= 0 means no limit.
	ListEvents(ctx context.Context, accessToken string, calendarID types.CalendarID, from, to time.Time, limit int) ([]*model.Event, error)

	// ListCalendars retrieves the calendars visible to the caller
	ListCalendars(ctx context.Context, accessToken string) ([]*model.Calendar, error)
}
