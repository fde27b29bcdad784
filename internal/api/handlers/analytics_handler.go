package handlers

import (
	"net/http"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/application/services"
)

// AnalyticsHandler handles search analytics HTTP requests
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetSearchAnalytics handles GET /api/analytics/search
func (h *AnalyticsHandler) GetSearchAnalytics(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	start, ok := parseTimeParam(w, params.Get("start"), "start")
	if !ok {
		return
	}
	end, ok := parseTimeParam(w, params.Get("end"), "end")
	if !ok {
		return
	}

	analytics, err := h.analyticsService.GetSearchAnalytics(r.Context(), start, end)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, analytics)
}

// parseTimeParam accepts RFC 3339 timestamps and bare dates. An empty
// value parses to the zero time, which the service fills with its
// window defaults.
func parseTimeParam(w http.ResponseWriter, value, name string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	respondWithError(w, http.StatusBadRequest, name+" must be RFC 3339 or YYYY-MM-DD")
	return time.Time{}, false
}
