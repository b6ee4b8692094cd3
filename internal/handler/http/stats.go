package http

import (
	"net/http"

	"github.com/MKhiriev/ai-pills/models"
	"github.com/go-chi/chi/v5"
)

func dateRange(r *http.Request) models.DateRange {
	q := r.URL.Query()
	return models.DateRange{Start: q.Get("start_date"), End: q.Get("end_date")}
}

func (h *Handler) listStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.StatsService.ListStats(r.Context(), caller(r), chi.URLParam(r, "agentID"), dateRange(r))
	if err != nil {
		writeServiceError(w, r, "*Handler.listStats", err)
		return
	}

	writeJSON(w, r, nonNil(stats), http.StatusOK)
}

func (h *Handler) upsertStats(w http.ResponseWriter, r *http.Request) {
	var in models.AgentStatsUpsert
	if !decodeJSON(w, r, "*Handler.upsertStats", &in) {
		return
	}

	stats, err := h.services.StatsService.UpsertStats(r.Context(), caller(r), chi.URLParam(r, "agentID"), in)
	if err != nil {
		writeServiceError(w, r, "*Handler.upsertStats", err)
		return
	}

	writeJSON(w, r, stats, http.StatusCreated)
}

func (h *Handler) statsSummary(w http.ResponseWriter, r *http.Request) {
	dates := dateRange(r)
	summary, err := h.services.StatsService.Summary(r.Context(), caller(r), dates)
	if err != nil {
		writeServiceError(w, r, "*Handler.statsSummary", err)
		return
	}

	summary.StartDate = dates.Start
	summary.EndDate = dates.End
	writeJSON(w, r, summary, http.StatusOK)
}
