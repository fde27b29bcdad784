package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/application/loaders"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/providers"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
)

const (
	trendingWindow   = 7 * 24 * time.Hour
	trendingCacheTTL = 300 // seconds
	trendingReason   = "Trending this week"
)

// trendingBaseScores assigns each entity type a fixed score for its
// trending items. Order within a type comes from event counts; the
// score itself only positions types against each other in mixed
// sections.
var trendingBaseScores = map[entities.EntityType]float64{
	entities.EntityTypeCraftsman: 0.9,
	entities.EntityTypeCourse:    0.8,
	entities.EntityTypeProduct:   0.75,
	entities.EntityTypeMedia:     0.7,
}

// TrendingService surfaces the most engaged-with entities over a seven
// day window. Computed lists are cached for five minutes; entities that
// disappeared since their events were logged are dropped during
// hydration.
type TrendingService struct {
	events  repositories.BehaviorEventRepository
	loaders *loaders.Loaders
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewTrendingService creates a new trending service. cache may be nil.
func NewTrendingService(
	events repositories.BehaviorEventRepository,
	entityLoaders *loaders.Loaders,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *TrendingService {
	return &TrendingService{
		events:  events,
		loaders: entityLoaders,
		cache:   cache,
		metrics: metrics,
	}
}

// Trending returns the top trending entities of one type
func (s *TrendingService) Trending(ctx context.Context, entityType entities.EntityType, lang string, limit int) ([]*entities.RecommendationResult, error) {
	cacheKey := fmt.Sprintf("trending:%s:%s:%d", entityType, lang, limit)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []*entities.RecommendationResult
			if err := json.Unmarshal(data, &cached); err == nil {
				if s.metrics != nil {
					observability.RecordCacheHit(ctx, s.metrics, "trending")
				}
				return cached, nil
			}
		} else if s.metrics != nil {
			observability.RecordCacheMiss(ctx, s.metrics, "trending")
		}
	}

	items, err := s.computeTrending(ctx, entityType, lang, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(items) > 0 {
		if data, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, trendingCacheTTL); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).
					Str("key", cacheKey).Msg("failed to cache trending items")
			}
		}
	}
	return items, nil
}

// Warm precomputes trending lists for all entity types, replacing
// whatever is cached. Called on a schedule so user requests mostly hit
// warm entries.
func (s *TrendingService) Warm(ctx context.Context, lang string, limit int) error {
	if s.cache == nil {
		return nil
	}
	for _, entityType := range entities.AllEntityTypes {
		items, err := s.computeTrending(ctx, entityType, lang, limit)
		if err != nil {
			return fmt.Errorf("warming %s trending: %w", entityType, err)
		}
		data, err := json.Marshal(items)
		if err != nil {
			return err
		}
		cacheKey := fmt.Sprintf("trending:%s:%s:%d", entityType, lang, limit)
		if err := s.cache.Set(ctx, cacheKey, data, trendingCacheTTL); err != nil {
			return err
		}
	}
	return nil
}

func (s *TrendingService) computeTrending(ctx context.Context, entityType entities.EntityType, lang string, limit int) ([]*entities.RecommendationResult, error) {
	since := time.Now().Add(-trendingWindow)
	top, err := s.events.TopEntities(ctx, entityType, entities.TrendingEventTypes, since, limit)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return []*entities.RecommendationResult{}, nil
	}

	ids := make([]string, 0, len(top))
	eventCounts := make(map[string]int, len(top))
	for _, t := range top {
		ids = append(ids, t.EntityID)
		eventCounts[t.EntityID] = t.Count
	}

	hydrated := s.hydrate(ctx, entityType, ids, lang)

	score := trendingBaseScores[entityType]
	items := make([]*entities.RecommendationResult, 0, len(hydrated))
	for _, r := range hydrated {
		rec := resultToRecommendation(r, score, trendingReason)
		if rec.Metadata == nil {
			rec.Metadata = map[string]any{}
		}
		rec.Metadata["trendingEvents"] = eventCounts[rec.ID]
		items = append(items, rec)
	}
	return items, nil
}

// hydrate joins event-derived IDs back to live entities through the
// batched loaders, preserving input order and skipping entities that no
// longer resolve.
func (s *TrendingService) hydrate(ctx context.Context, entityType entities.EntityType, ids []string, lang string) []*entities.SearchResult {
	results := make([]*entities.SearchResult, 0, len(ids))

	switch entityType {
	case entities.EntityTypeCraftsman:
		items, _ := s.loaders.Craftsman.LoadMany(ctx, ids)()
		for _, item := range items {
			if item != nil && item.IsActive {
				results = append(results, craftsmanToResult(item, lang))
			}
		}
	case entities.EntityTypeCourse:
		items, _ := s.loaders.Course.LoadMany(ctx, ids)()
		for _, item := range items {
			if item != nil && item.Status == entities.CourseStatusActive {
				results = append(results, courseToResult(item, lang))
			}
		}
	case entities.EntityTypeProduct:
		items, _ := s.loaders.Product.LoadMany(ctx, ids)()
		for _, item := range items {
			if item != nil && item.Status == entities.ProductStatusActive {
				results = append(results, productToResult(item, lang))
			}
		}
	case entities.EntityTypeMedia:
		items, _ := s.loaders.Media.LoadMany(ctx, ids)()
		for _, item := range items {
			if item != nil && item.Status == "active" {
				results = append(results, mediaToResult(item, lang))
			}
		}
	}

	return results
}
