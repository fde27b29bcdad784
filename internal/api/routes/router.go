package routes

import (
	"net/http"

	"github.com/heritagecrafts/platform/backend/internal/api/handlers"
	"github.com/heritagecrafts/platform/backend/internal/api/middleware"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler         *handlers.SearchHandler
	recommendationHandler *handlers.RecommendationHandler
	suggestionHandler     *handlers.SuggestionHandler
	trackHandler          *handlers.TrackHandler
	analyticsHandler      *handlers.AnalyticsHandler
	translationHandler    *handlers.TranslationHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	recommendationHandler *handlers.RecommendationHandler,
	suggestionHandler *handlers.SuggestionHandler,
	trackHandler *handlers.TrackHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	translationHandler *handlers.TranslationHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler:         searchHandler,
		recommendationHandler: recommendationHandler,
		suggestionHandler:     suggestionHandler,
		trackHandler:          trackHandler,
		analyticsHandler:      analyticsHandler,
		translationHandler:    translationHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints
	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)
	r.mux.HandleFunc("GET /api/suggestions", r.suggestionHandler.GetSuggestions)

	// Recommendation endpoints
	r.mux.HandleFunc("GET /api/recommendations", r.recommendationHandler.GetRecommendations)
	r.mux.HandleFunc("GET /api/trending/{entityType}", r.recommendationHandler.GetTrending)

	// Behavior tracking endpoints
	r.mux.HandleFunc("POST /api/track/click", r.trackHandler.TrackClick)
	r.mux.HandleFunc("POST /api/track/event", r.trackHandler.TrackEvent)

	// Analytics endpoints
	r.mux.HandleFunc("GET /api/analytics/search", r.analyticsHandler.GetSearchAnalytics)

	// Translation endpoints
	if r.translationHandler != nil {
		r.mux.HandleFunc("POST /api/translate", r.translationHandler.Translate)
		r.mux.HandleFunc("POST /api/translate/detect", r.translationHandler.DetectLanguage)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
