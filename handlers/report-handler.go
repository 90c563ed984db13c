package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func periodFromQuery(r *http.Request) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *ReportHandler) GetDeveloperReport(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	developerID, err := primitive.ObjectIDFromHex(mux.Vars(r)["developerID"])
	if err != nil {
		http.Error(w, "invalid developer ID format", http.StatusBadRequest)
		return
	}
	from, to, ok := periodFromQuery(r)
	if !ok {
		http.Error(w, "from and to query parameters are required, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	report, err := h.service.DeveloperReport(r.Context(), developerID, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
}

func (h *ReportHandler) GetProjectReport(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["projectID"])
	if err != nil {
		http.Error(w, "invalid project ID format", http.StatusBadRequest)
		return
	}

	report, err := h.service.ProjectReport(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
}

// ExportPeriod streams the period's entries as delimited text.
func (h *ReportHandler) ExportPeriod(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	from, to, ok := periodFromQuery(r)
	if !ok {
		http.Error(w, "from and to query parameters are required, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	out, err := h.service.ExportPeriodCSV(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=cra-export.csv")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}
