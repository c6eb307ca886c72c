package gcal

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

const defaultRequestTimeout = 10 * time.Second

// client implements interfaces.EventProvider on the Google Calendar API.
// Every call builds a short-lived service with the caller's access
// token; the client itself holds no per-user state.
type client struct {
	timeout time.Duration
	opts    []option.ClientOption
}

type Option func(*client)

// WithTimeout bounds each provider call. Exceeding it surfaces as an
// upstream failure.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// WithClientOptions appends raw Google API client options (used by tests
// to point at a fake endpoint)
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *client) {
		c.opts = append(c.opts, opts...)
	}
}

func New(opts ...Option) interfaces.EventProvider {
	c := &client{
		timeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	if accessToken == "" {
		return nil, goerr.Wrap(types.ErrUpstream, "access token is required", goerr.T(types.TagUpstream))
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, c.opts...)

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create calendar service", goerr.T(types.TagUpstream))
	}
	return svc, nil
}

func (c *client) CreateEvent(ctx context.Context, accessToken string, draft *model.EventDraft) (*model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	ev := &calendar.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Start:       &calendar.EventDateTime{DateTime: draft.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: draft.End.Format(time.RFC3339)},
	}
	for _, email := range draft.ParticipantEmails() {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert(draft.CalendarID.String(), ev).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create event",
			goerr.T(types.TagUpstream),
			goerr.V(types.CalendarIDKey, draft.CalendarID))
	}

	return toEvent(draft.CalendarID, created), nil
}

func (c *client) ListEvents(ctx context.Context, accessToken string, calendarID types.CalendarID, from, to time.Time, limit int) ([]*model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	// Cancelled events are included; filtering them is retrieval policy,
	// not transport policy.
	call := svc.Events.List(calendarID.String()).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(true).
		OrderBy("startTime")
	if limit > 0 {
		call = call.MaxResults(int64(limit))
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list events",
			goerr.T(types.TagUpstream),
			goerr.V(types.CalendarIDKey, calendarID))
	}

	events := make([]*model.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, toEvent(calendarID, item))
	}

	return events, nil
}

func (c *client) ListCalendars(ctx context.Context, accessToken string) ([]*model.Calendar, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list calendars", goerr.T(types.TagUpstream))
	}

	calendars := make([]*model.Calendar, 0, len(resp.Items))
	for _, item := range resp.Items {
		calendars = append(calendars, &model.Calendar{
			ID:          types.CalendarID(item.Id),
			Name:        item.Summary,
			Description: item.Description,
			ReadOnly:    item.AccessRole == "reader" || item.AccessRole == "freeBusyReader",
		})
	}

	return calendars, nil
}
