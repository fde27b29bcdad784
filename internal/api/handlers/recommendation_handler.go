package handlers

import (
	"net/http"

	"github.com/heritagecrafts/platform/backend/internal/application/services"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// RecommendationHandler handles recommendation HTTP requests
type RecommendationHandler struct {
	recommendationService *services.RecommendationService
	trendingService       *services.TrendingService
	defaultLanguage       string
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(
	recommendationService *services.RecommendationService,
	trendingService *services.TrendingService,
	defaultLanguage string,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		trendingService:       trendingService,
		defaultLanguage:       defaultLanguage,
	}
}

// GetRecommendations handles GET /api/recommendations
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	rctx := entities.RecommendationContext{
		UserID:            params.Get("user_id"),
		CurrentPage:       params.Get("page"),
		CurrentEntityID:   params.Get("entity_id"),
		CurrentEntityType: entities.EntityType(params.Get("entity_type")),
		UserLocation:      params.Get("location"),
	}
	if rctx.CurrentEntityType != "" && !rctx.CurrentEntityType.Valid() {
		respondWithError(w, http.StatusBadRequest, "unknown entity type")
		return
	}

	sections, err := h.recommendationService.GetRecommendations(r.Context(), rctx)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sections": sections,
	})
}

// GetTrending handles GET /api/trending/{entityType}
func (h *RecommendationHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	entityType := entities.EntityType(r.PathValue("entityType"))
	if !entityType.Valid() {
		respondWithError(w, http.StatusBadRequest, "unknown entity type")
		return
	}

	lang := r.URL.Query().Get("language")
	if lang == "" {
		lang = h.defaultLanguage
	}

	items, err := h.trendingService.Trending(r.Context(), entityType, lang, 10)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}
