package handlers

import (
	"net/http"
	"strconv"

	"github.com/heritagecrafts/platform/backend/internal/application/services"
)

// SuggestionHandler handles autocomplete HTTP requests
type SuggestionHandler struct {
	suggestionService *services.SuggestionService
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestionService *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
	}
}

// GetSuggestions handles GET /api/suggestions
func (h *SuggestionHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit := 10
	if v := params.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	response, err := h.suggestionService.GetSuggestions(r.Context(), params.Get("q"), params.Get("user_id"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
