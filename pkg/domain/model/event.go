package model

import (
	"regexp"
	"time"

	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Event is a calendar event owned entirely by the external provider.
// This system reads and creates events but never updates or deletes them.
type Event struct {
	ID            types.EventID    `json:"id"`
	CalendarID    types.CalendarID `json:"calendarId"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	Participants  []string         `json:"participants,omitempty"`
	ConferenceURI string           `json:"conferenceUri,omitempty"`
	Cancelled     bool             `json:"cancelled"`
}

// Calendar is a calendar listing entry from the external provider
type Calendar struct {
	ID          types.CalendarID `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	ReadOnly    bool             `json:"readOnly"`
}

// EventDraft is the client-supplied definition of a new calendar event.
// Participants is a comma-separated list of email addresses.
type EventDraft struct {
	CalendarID   types.CalendarID `json:"calendarId"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Start        time.Time        `json:"startTime"`
	End          time.Time        `json:"endTime"`
	Participants string           `json:"participants,omitempty"`
}

var participantSep = regexp.MustCompile(`\s*,\s*`)

// ParticipantEmails splits the comma-separated participant list.
// Empty entries are dropped.
func (d *EventDraft) ParticipantEmails() []string {
	if d.Participants == "" {
		return nil
	}

	var emails []string
	for _, email := range participantSep.Split(d.Participants, -1) {
		if email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

// Validate checks that all required scheduling fields are present. It
// reports every missing field at once so the caller can fix the request
// in one pass. Must be called before any provider or store call.
func (d *EventDraft) Validate() error {
	var missing []string
	if d.CalendarID == "" {
		missing = append(missing, "calendarId")
	}
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if d.Start.IsZero() {
		missing = append(missing, "startTime")
	}
	if d.End.IsZero() {
		missing = append(missing, "endTime")
	}

	if len(missing) > 0 {
		return goerr.Wrap(types.ErrValidation, "missing required fields", goerr.V("missing", missing))
	}
	return nil
}
