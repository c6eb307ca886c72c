package memcal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// Client is an in-memory event provider for development and tests. It
// mimics the provider contract: it assigns event IDs and keeps events
// per calendar in creation order.
type Client struct {
	mu     sync.RWMutex
	events map[types.CalendarID][]*model.Event
}

var _ interfaces.EventProvider = &Client{}

func New() *Client {
	return &Client{
		events: make(map[types.CalendarID][]*model.Event),
	}
}

func (c *Client) CreateEvent(ctx context.Context, accessToken string, draft *model.EventDraft) (*model.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ev := &model.Event{
		ID:           types.EventID(uuid.NewString()),
		CalendarID:   draft.CalendarID,
		Title:        draft.Title,
		Description:  draft.Description,
		Start:        draft.Start,
		End:          draft.End,
		Participants: draft.ParticipantEmails(),
	}

	c.events[draft.CalendarID] = append(c.events[draft.CalendarID], ev)

	copied := *ev
	return &copied, nil
}

func (c *Client) ListEvents(ctx context.Context, accessToken string, calendarID types.CalendarID, from, to time.Time, limit int) ([]*model.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var events []*model.Event
	for _, ev := range c.events[calendarID] {
		if ev.Start.Before(from) || !ev.Start.Before(to) {
			continue
		}
		copied := *ev
		events = append(events, &copied)
		if limit > 0 && len(events) >= limit {
			break
		}
	}

	return events, nil
}

func (c *Client) ListCalendars(ctx context.Context, accessToken string) ([]*model.Calendar, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	calendars := make([]*model.Calendar, 0, len(c.events))
	for id := range c.events {
		calendars = append(calendars, &model.Calendar{ID: id, Name: id.String()})
	}

	return calendars, nil
}

// Cancel marks an existing event cancelled. Test helper standing in for
// a cancellation done directly at the provider.
func (c *Client) Cancel(calendarID types.CalendarID, id types.EventID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ev := range c.events[calendarID] {
		if ev.ID == id {
			ev.Cancelled = true
			return true
		}
	}
	return false
}
