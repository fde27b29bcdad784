package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/heritagecrafts/platform/backend/internal/adapters/cache"
	"github.com/heritagecrafts/platform/backend/internal/adapters/database"
	"github.com/heritagecrafts/platform/backend/internal/adapters/search"
	"github.com/heritagecrafts/platform/backend/internal/adapters/translation"
	"github.com/heritagecrafts/platform/backend/internal/api/handlers"
	"github.com/heritagecrafts/platform/backend/internal/api/middleware"
	"github.com/heritagecrafts/platform/backend/internal/api/routes"
	"github.com/heritagecrafts/platform/backend/internal/application/loaders"
	"github.com/heritagecrafts/platform/backend/internal/application/services"
	"github.com/heritagecrafts/platform/backend/internal/domain/providers"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/postgres"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/redis"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/typesense"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
	"github.com/heritagecrafts/platform/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry pipelines are optional; the metrics handles fall
	// back to no-op providers when Setup is skipped.
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Redis and Typesense are optional: without Redis there is no
	// response caching, without Typesense search falls back to database
	// matching.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, running without response cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info().Msg("Redis client initialized")
	}

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		logger.Warn().Err(err).Msg("Typesense unavailable, using database text matching")
		typesenseClient = nil
	} else {
		logger.Info().Msg("Typesense client initialized")
	}

	// Adapters

	craftsmanAdapter := database.NewCraftsmanAdapter(pgClient)
	courseAdapter := database.NewCourseAdapter(pgClient)
	productAdapter := database.NewProductAdapter(pgClient)
	mediaAdapter := database.NewMediaAdapter(pgClient)
	behaviorAdapter := database.NewBehaviorEventAdapter(pgClient)
	translationCacheAdapter := database.NewTranslationCacheAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var textSearchRepo repositories.TextSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := typesenseClient.InitSchema(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		textSearchRepo = adapter
	}

	translationProvider := translation.NewProvider(&cfg.Translation)
	if translationProvider == nil {
		logger.Warn().Msg("no translation provider configured; cached translations only")
	}

	entityLoaders := loaders.NewLoaders(craftsmanAdapter, courseAdapter, productAdapter, mediaAdapter)

	// Services

	behaviorService := services.NewBehaviorService(behaviorAdapter)
	rankingService := services.NewRankingService(behaviorAdapter)
	preferenceService := services.NewPreferenceService(behaviorAdapter)
	personalizationService := services.NewPersonalizationService(preferenceService)

	searchService := services.NewSearchService(
		craftsmanAdapter,
		courseAdapter,
		productAdapter,
		mediaAdapter,
		textSearchRepo,
		rankingService,
		personalizationService,
		behaviorService,
		metrics,
		cfg.Search,
	)

	trendingService := services.NewTrendingService(behaviorAdapter, entityLoaders, cacheProvider, metrics)
	recommendationService := services.NewRecommendationService(
		trendingService,
		preferenceService,
		behaviorAdapter,
		craftsmanAdapter,
		courseAdapter,
		productAdapter,
		entityLoaders,
		metrics,
		cfg.Search.DiversityFactor,
		cfg.Search.DefaultLanguage,
	)
	suggestionService := services.NewSuggestionService(behaviorAdapter, craftsmanAdapter, cacheProvider)
	analyticsService := services.NewAnalyticsService(behaviorAdapter)
	translationService := services.NewTranslationService(translationCacheAdapter, translationProvider, cfg.Translation)

	// Keep trending sections warm so browse pages mostly hit cache
	var scheduler *cron.Cron
	if cacheProvider != nil {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc("@every 4m", func() {
			warmCtx, warmCancel := context.WithTimeout(ctx, 30*time.Second)
			defer warmCancel()
			if err := trendingService.Warm(warmCtx, cfg.Search.DefaultLanguage, 10); err != nil {
				logger.Warn().Err(err).Msg("trending cache warm failed")
			}
		}); err != nil {
			logger.Warn().Err(err).Msg("failed to schedule trending cache warmer")
		} else {
			scheduler.Start()
			logger.Info().Msg("trending cache warmer scheduled")
		}
	}

	// Handlers

	searchHandler := handlers.NewSearchHandler(searchService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, trendingService, cfg.Search.DefaultLanguage)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	trackHandler := handlers.NewTrackHandler(behaviorService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	translationHandler := handlers.NewTranslationHandler(translationService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		logger.Info().Msg("cache middleware initialized")
	}

	router := routes.NewRouter(
		searchHandler,
		recommendationHandler,
		suggestionHandler,
		trackHandler,
		analyticsHandler,
		translationHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
