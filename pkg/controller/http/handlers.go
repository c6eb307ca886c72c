package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/dosecal/dosecal/pkg/domain/model"
	"github.com/dosecal/dosecal/pkg/domain/model/auth"
	"github.com/dosecal/dosecal/pkg/domain/types"
	"github.com/dosecal/dosecal/pkg/usecase"
	"github.com/dosecal/dosecal/pkg/utils/errutil"
)

// tierOf resolves the caller's subscription tier from the local store
func tierOf(r *http.Request, uc *usecase.UseCases, id *auth.Identity) (types.Tier, error) {
	premium, err := uc.Subscription.PremiumStatus(r.Context(), id.UserID)
	if err != nil {
		return "", err
	}
	if premium {
		return types.TierPremium, nil
	}
	return types.TierStandard, nil
}

func listEventsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		calendarID := types.CalendarID(r.URL.Query().Get("calendarId"))
		if calendarID == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "calendarId query parameter is required"))
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "limit must be a non-negative integer"))
				return
			}
			limit = n
		}

		var from, to time.Time
		if raw := r.URL.Query().Get("startsAfter"); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "startsAfter must be RFC3339"))
				return
			}
			from = ts
		}
		if raw := r.URL.Query().Get("endsBefore"); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "endsBefore must be RFC3339"))
				return
			}
			to = ts
		}

		tier, err := tierOf(r, uc, id)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		events, err := uc.Retrieval.ListUpcoming(r.Context(), id.AccessToken, calendarID, tier, from, to, limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]any{"events": events})
	}
}

func listCalendarsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		calendars, err := uc.Retrieval.ListCalendars(r.Context(), id.AccessToken)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]any{"calendars": calendars})
	}
}

type createMedicationRequest struct {
	model.EventDraft
	model.MedicationFields
}

func createMedicationHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "invalid request body"))
			return
		}

		med, err := uc.Schedule.CreateMedication(r.Context(), id.UserID, id.AccessToken, &req.EventDraft, req.MedicationFields)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]any{"medication": med})
	}
}

func setTierHandler(uc *usecase.UseCases, premium bool) http.HandlerFunc {
	tier := types.TierStandard
	if premium {
		tier = types.TierPremium
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		user, err := uc.Subscription.SetTier(r.Context(), id.UserID, tier)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]any{"user": user})
	}
}

func premiumStatusHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		premium, err := uc.Subscription.PremiumStatus(r.Context(), id.UserID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]any{"premium": premium})
	}
}

func medicationsByNameHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		// The query parameter is named after the event title, but the
		// lookup runs against the stored medication name. The two start
		// out equal at creation and only the name is authoritative here.
		title := r.URL.Query().Get("title")
		if title == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "title query parameter is required"))
			return
		}

		meds, err := uc.Retrieval.GetMedicationsByName(r.Context(), id.UserID, title)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]any{"medications": meds})
	}
}

func medicationByIDHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		eventID := types.EventID(chi.URLParam(r, "eventID"))

		med, err := uc.Retrieval.GetMedicationByID(r.Context(), id.UserID, eventID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}
		if med == nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrMedicationNotFound, "no medication for event",
				goerr.V(types.EventIDKey, eventID)))
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]any{"medication": med})
	}
}

func medicationOverviewHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		calendarID := types.CalendarID(r.URL.Query().Get("calendarId"))
		if calendarID == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "calendarId query parameter is required"))
			return
		}

		tier, err := tierOf(r, uc, id)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		overview, err := uc.Retrieval.MedicationOverview(r.Context(), id.UserID, id.AccessToken, calendarID, tier)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, overview)
	}
}

type importMedicationsRequest struct {
	Email       string              `json:"email,omitempty"`
	Medications []*model.Medication `json:"medications"`
}

func importMedicationsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := auth.IdentityFromContext(r.Context())

		var req importMedicationsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(types.ErrValidation, "invalid request body"))
			return
		}

		email := req.Email
		if email == "" {
			email = id.Email
		}

		user, err := uc.Retrieval.ImportMedications(r.Context(), id.UserID, email, req.Medications)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err)
			return
		}

		respondJSON(w, r, http.StatusOK, map[string]any{
			"user":     user,
			"imported": len(req.Medications),
		})
	}
}
