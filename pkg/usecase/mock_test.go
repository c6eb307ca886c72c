package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// mockProvider is a scriptable event provider that records every call
type mockProvider struct {
	mu          sync.Mutex
	createCalls int
	listCalls   int
	createErr   error
	listErr     error
	events      []*model.Event
	lastFrom    time.Time
	lastTo      time.Time
}

var _ interfaces.EventProvider = &mockProvider{}

func (m *mockProvider) CreateEvent(ctx context.Context, accessToken string, draft *model.EventDraft) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}

	ev := &model.Event{
		ID:           types.EventID(fmt.Sprintf("evt-%d", m.createCalls)),
		CalendarID:   draft.CalendarID,
		Title:        draft.Title,
		Description:  draft.Description,
		Start:        draft.Start,
		End:          draft.End,
		Participants: draft.ParticipantEmails(),
	}
	m.events = append(m.events, ev)
	return ev, nil
}

func (m *mockProvider) ListEvents(ctx context.Context, accessToken string, calendarID types.CalendarID, from, to time.Time, limit int) ([]*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	m.lastFrom = from
	m.lastTo = to
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.events, nil
}

func (m *mockProvider) ListCalendars(ctx context.Context, accessToken string) ([]*model.Calendar, error) {
	return []*model.Calendar{{ID: "cal-1", Name: "Medications"}}, nil
}

// failingMedications wraps a medication repository and fails Append
type failingMedications struct {
	interfaces.MedicationRepository
	appendErr error
}

func (f *failingMedications) Append(ctx context.Context, med *model.Medication) (*model.Medication, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	return f.MedicationRepository.Append(ctx, med)
}

// repoWithFailures swaps the medication repository of a real repository
type repoWithFailures struct {
	interfaces.Repository
	medication interfaces.MedicationRepository
}

func (r *repoWithFailures) Medication() interfaces.MedicationRepository {
	return r.medication
}
