package handlers

import (
	"net/http"
	"strconv"

	"github.com/heritagecrafts/platform/backend/internal/application/services"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// SearchHandler handles unified search HTTP requests
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := entities.SearchQuery{
		Query:     params.Get("q"),
		Category:  params.Get("category"),
		CraftType: params.Get("craft_type"),
		FileType:  params.Get("file_type"),
		Language:  params.Get("language"),
		UserID:    params.Get("user_id"),
		SortBy:    params.Get("sort_by"),
		SortOrder: params.Get("sort_order"),
	}

	if v := params.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		query.Limit = limit
	}
	if v := params.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		query.Offset = offset
	}

	response, err := h.searchService.Search(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
