package gcal

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

func parseEventTime(t *calendar.EventDateTime) time.Time {
	if t == nil {
		return time.Time{}
	}
	if t.DateTime != "" {
		if ts, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return ts
		}
		return time.Time{}
	}
	// All-day events carry only a date
	if t.Date != "" {
		if ts, err := time.Parse("2006-01-02", t.Date); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func conferenceURI(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData == nil {
		return ""
	}
	for _, ep := range ev.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" {
			return ep.Uri
		}
	}
	return ""
}

func toEvent(calendarID types.CalendarID, ev *calendar.Event) *model.Event {
	out := &model.Event{
		ID:            types.EventID(ev.Id),
		CalendarID:    calendarID,
		Title:         ev.Summary,
		Description:   ev.Description,
		Start:         parseEventTime(ev.Start),
		End:           parseEventTime(ev.End),
		ConferenceURI: conferenceURI(ev),
		Cancelled:     ev.Status == "cancelled",
	}
	for _, a := range ev.Attendees {
		out.Participants = append(out.Participants, a.Email)
	}
	return out
}
