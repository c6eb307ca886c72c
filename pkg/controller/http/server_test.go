package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	server "github.com/dosecal/dosecal/pkg/controller/http"
	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/dosecal/dosecal/pkg/repository/memory"
	"github.com/dosecal/dosecal/pkg/service/memcal"
	"github.com/dosecal/dosecal/pkg/usecase"
)

type testEnv struct {
	srv      *server.Server
	repo     *memory.Memory
	provider *memcal.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.New()
	provider := memcal.New()
	uc := usecase.New(repo, provider)

	return &testEnv{
		srv:      server.New(uc),
		repo:     repo,
		provider: provider,
	}
}

func (e *testEnv) createUser(t *testing.T, id types.UserID) {
	t.Helper()
	_, err := e.repo.User().Create(context.Background(), &model.User{
		ID:    id,
		Email: fmt.Sprintf("%s@example.com", id),
	})
	gt.NoError(t, err)
}

func (e *testEnv) request(method, path string, body any, userID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body) //nolint:errcheck
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
		req.Header.Set("Authorization", "Bearer test-token")
	}

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodGet, "/health", nil, "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestIdentityRequired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodGet, "/api/calendars", nil, "")
	gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
}

func TestCreateMedication(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	body := map[string]any{
		"calendarId":  "cal-1",
		"title":       "Aspirin",
		"startTime":   time.Now().Add(time.Hour).Format(time.RFC3339),
		"endTime":     time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		"dosage":      "100mg",
		"dosesTaken":  "0",
		"totalDoses":  "30",
		"description": "after breakfast",
	}

	rec := env.request(http.MethodPost, "/api/events", body, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Medication *model.Medication `json:"medication"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Value(t, resp.Medication.Name).Equal("Aspirin")
	gt.Value(t, resp.Medication.Dosage).Equal("100mg")
	gt.Value(t, resp.Medication.ID).NotEqual(types.EventID(""))

	// The stored record is linked to the provider event
	events, err := env.provider.ListEvents(context.Background(), "test-token", "cal-1",
		time.Now(), time.Now().Add(24*time.Hour), 0)
	gt.NoError(t, err)
	gt.Array(t, events).Length(1)
	gt.Value(t, events[0].ID).Equal(resp.Medication.ID)
}

func TestCreateMedicationValidation(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	body := map[string]any{
		"calendarId": "cal-1",
	}

	rec := env.request(http.MethodPost, "/api/events", body, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	t.Run("calendarId is required", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/events", nil, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown user yields not found", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/events?calendarId=cal-1", nil, "ghost")
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("lists created events", func(t *testing.T) {
		body := map[string]any{
			"calendarId": "cal-1",
			"title":      "Ibuprofen",
			"startTime":  time.Now().Add(time.Hour).Format(time.RFC3339),
			"endTime":    time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		}
		rec := env.request(http.MethodPost, "/api/events", body, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = env.request(http.MethodGet, "/api/events?calendarId=cal-1", nil, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Events []*model.Event `json:"events"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.Array(t, resp.Events).Length(1)
		gt.Value(t, resp.Events[0].Title).Equal("Ibuprofen")
	})
}

func TestSubscriptionEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	rec := env.request(http.MethodGet, "/api/user/premium", nil, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var status struct {
		Premium bool `json:"premium"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	gt.Bool(t, status.Premium).False()

	rec = env.request(http.MethodPut, "/api/user/upgrade", nil, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = env.request(http.MethodGet, "/api/user/premium", nil, "user-1")
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	gt.Bool(t, status.Premium).True()

	rec = env.request(http.MethodPut, "/api/user/downgrade", nil, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = env.request(http.MethodGet, "/api/user/premium", nil, "user-1")
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	gt.Bool(t, status.Premium).False()
}

func TestMedicationLookup(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	body := map[string]any{
		"calendarId": "cal-1",
		"title":      "Aspirin",
		"startTime":  time.Now().Add(time.Hour).Format(time.RFC3339),
		"endTime":    time.Now().Add(2 * time.Hour).Format(time.RFC3339),
	}
	rec := env.request(http.MethodPost, "/api/events", body, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var created struct {
		Medication *model.Medication `json:"medication"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	t.Run("title is required", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/medications/", nil, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("lookup by title", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/medications/?title=Aspirin", nil, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp struct {
			Medications []*model.Medication `json:"medications"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		gt.Array(t, resp.Medications).Length(1)
		gt.Value(t, resp.Medications[0].ID).Equal(created.Medication.ID)
	})

	t.Run("no match yields an empty array", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/medications/?title=Unknown", nil, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Bool(t, strings.Contains(rec.Body.String(), `"medications":[]`)).True()
	})

	t.Run("lookup by event id", func(t *testing.T) {
		path := fmt.Sprintf("/api/medications/%s", created.Medication.ID)
		rec := env.request(http.MethodGet, path, nil, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("missing record yields not found", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/medications/no-such-event", nil, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestMedicationOverview(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "user-1")

	body := map[string]any{
		"calendarId": "cal-1",
		"title":      "Aspirin",
		"startTime":  time.Now().Add(time.Hour).Format(time.RFC3339),
		"endTime":    time.Now().Add(2 * time.Hour).Format(time.RFC3339),
	}
	rec := env.request(http.MethodPost, "/api/events", body, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	t.Run("calendarId is required", func(t *testing.T) {
		rec := env.request(http.MethodGet, "/api/medications/overview", nil, "user-1")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	rec = env.request(http.MethodGet, "/api/medications/overview?calendarId=cal-1", nil, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var overview usecase.Overview
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	gt.Array(t, overview.Events).Length(1)
	gt.Value(t, overview.Events[0].Medication).NotNil()
	gt.Array(t, overview.OrphanEvents).Length(0)
}

func TestImportMedications(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"email": "new@example.com",
		"medications": []map[string]any{
			{"id": "evt-1", "name": "Aspirin", "dosage": "100mg"},
			{"id": "evt-2", "name": "Ibuprofen"},
		},
	}

	// Import provisions the user when absent
	rec := env.request(http.MethodPost, "/api/medications/import", body, "new-user")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		User     *model.User `json:"user"`
		Imported int         `json:"imported"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gt.Value(t, resp.User.ID).Equal(types.UserID("new-user"))
	gt.Value(t, resp.Imported).Equal(2)

	meds, err := env.repo.Medication().ListByUser(context.Background(), "new-user")
	gt.NoError(t, err)
	gt.Array(t, meds).Length(2)
}

func TestImportMedicationsValidation(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"medications": []map[string]any{
			{"name": "missing-id"},
		},
	}

	rec := env.request(http.MethodPost, "/api/medications/import", body, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	// A null element in the array is malformed input, not a server error
	body = map[string]any{
		"medications": []any{
			map[string]any{"id": "evt-1", "name": "Aspirin"},
			nil,
		},
	}

	rec = env.request(http.MethodPost, "/api/medications/import", body, "user-1")
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}
