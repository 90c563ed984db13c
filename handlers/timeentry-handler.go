package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/logging"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TimeEntryHandler struct {
	service *services.TimeEntryService
}

func NewTimeEntryHandler(service *services.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{service: service}
}

// RecordEntry logs hours for one day. Soft conditions (daily capacity,
// non-business day) come back as 409 with the warnings; the client
// re-submits with override=true to confirm.
func (h *TimeEntryHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	var body struct {
		services.EntryInput
		Override bool `json:"override"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, warnings, err := h.service.RecordEntry(r.Context(), body.EntryInput, body.Override)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"warnings": warnings,
			"message":  "confirmation required: re-submit with override=true",
		})
		return
	}
	logging.Logger.Infof("Event ID: TIME_ENTRY_CREATED, Description: Entry %s (%g hours) created for task %s", entry.ID.Hex(), entry.Hours, entry.TaskID.Hex())

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// RecordPeriod logs the same hours on every business day of a range. The
// onConflict field ("skip" or "abort") is applied to each day that would
// exceed the daily capacity.
func (h *TimeEntryHandler) RecordPeriod(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	var body struct {
		services.EntryInput
		EndDate    time.Time `json:"endDate"`
		OnConflict string    `json:"onConflict"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	decide := func(warning services.EntryWarning) services.PeriodDecision {
		if body.OnConflict == "skip" {
			return services.DecisionSkip
		}
		return services.DecisionAbort
	}

	result, err := h.service.RecordPeriod(r.Context(), body.EntryInput, body.EndDate, decide)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	logging.Logger.Infof("Event ID: TIME_PERIOD_RECORDED, Description: Bulk entry for task %s: %d created, %d skipped, aborted=%t",
		body.TaskID.Hex(), len(result.Created), len(result.Skipped), result.Aborted)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

func (h *TimeEntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entryID, err := primitive.ObjectIDFromHex(mux.Vars(r)["entryID"])
	if err != nil {
		http.Error(w, "invalid entry ID format", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteEntry(r.Context(), entryID, actor); err != nil {
		writeServiceError(w, err)
		return
	}
	logging.Logger.Infof("Event ID: TIME_ENTRY_DELETED, Description: Entry %s deleted by %s", entryID.Hex(), actor.Hex())
	w.WriteHeader(http.StatusNoContent)
}

func (h *TimeEntryHandler) GetDailyCharge(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	developerID, err := primitive.ObjectIDFromHex(mux.Vars(r)["developerID"])
	if err != nil {
		http.Error(w, "invalid developer ID format", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid or missing date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	total, err := h.service.DailyCharge(r.Context(), developerID, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]float64{"hours": total})
}

func (h *TimeEntryHandler) GetEntriesForTask(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskID"])
	if err != nil {
		http.Error(w, "invalid task ID format", http.StatusBadRequest)
		return
	}
	entries, err := h.service.EntriesForTask(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entries)
}

func (h *TimeEntryHandler) GetEntriesForDeveloper(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	developerID, err := primitive.ObjectIDFromHex(mux.Vars(r)["developerID"])
	if err != nil {
		http.Error(w, "invalid developer ID format", http.StatusBadRequest)
		return
	}

	var from, to *time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		from = &parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to = &parsed
	}

	entries, err := h.service.EntriesForDeveloper(r.Context(), developerID, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entries)
}
