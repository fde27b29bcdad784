package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/providers"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
)

const (
	suggestionHistoryWindow = 90 * 24 * time.Hour
	popularQueriesWindow    = 7 * 24 * time.Hour
	popularQueriesLimit     = 5
	popularQueriesCacheTTL  = 60 // seconds
	popularQueriesCacheKey  = "suggest:popular"
	recentSearchLimit       = 5
	locationSuggestionLimit = 5
)

// defaultPopularQueries seed the popular list while the event log is
// still empty.
var defaultPopularQueries = []string{
	"手雕麻將", "竹蒸籠", "廣彩", "霓虹燈", "活字印刷",
}

// craftTypeVocabulary is the closed craft taxonomy matched against
// partial queries. Terms are suggested verbatim.
var craftTypeVocabulary = []string{
	"手雕麻將", "霓虹燈牌", "竹蒸籠", "白鐵器具", "廣彩",
	"活字印刷", "紙紮", "蛇羹", "旗袍", "木雕",
	"mahjong carving", "neon signs", "bamboo steamers",
	"galvanised ironware", "canton porcelain", "letterpress printing",
}

// categoryLabels are the localized display names of the four content
// categories, matched against partials in any language.
var categoryLabels = map[entities.EntityType]entities.MultilingualText{
	entities.EntityTypeCraftsman: {"en": "craftsmen", "zh-HK": "師傅"},
	entities.EntityTypeCourse:    {"en": "courses", "zh-HK": "課程"},
	entities.EntityTypeProduct:   {"en": "products", "zh-HK": "產品"},
	entities.EntityTypeMedia:     {"en": "media", "zh-HK": "影音"},
}

// SuggestionService produces autocomplete suggestions from four
// sources: search history, category names, the craft type vocabulary
// and workshop locations. Popular queries are cached briefly; every
// source degrades independently.
type SuggestionService struct {
	events    repositories.BehaviorEventRepository
	craftsmen repositories.CraftsmanRepository
	cache     providers.CacheProvider
}

// NewSuggestionService creates a new suggestion service. cache may be
// nil.
func NewSuggestionService(
	events repositories.BehaviorEventRepository,
	craftsmen repositories.CraftsmanRepository,
	cache providers.CacheProvider,
) *SuggestionService {
	return &SuggestionService{
		events:    events,
		craftsmen: craftsmen,
		cache:     cache,
	}
}

// GetSuggestions returns autocomplete candidates for a partial query.
// An empty partial returns only popular queries and the user's recent
// searches.
func (s *SuggestionService) GetSuggestions(ctx context.Context, partial, userID string, limit int) (*entities.SuggestionResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	response := &entities.SuggestionResponse{
		Suggestions:    []entities.Suggestion{},
		PopularQueries: s.popularQueries(ctx),
		RecentSearches: []string{},
	}

	if userID != "" {
		recent, err := s.events.RecentQueriesByUser(ctx, userID, recentSearchLimit)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("user_id", userID).Msg("recent searches lookup failed")
		} else {
			response.RecentSearches = recent
		}
	}

	partial = strings.TrimSpace(partial)
	if partial == "" {
		return response, nil
	}

	response.Suggestions = s.collectSuggestions(ctx, partial, limit)
	return response, nil
}

func (s *SuggestionService) collectSuggestions(ctx context.Context, partial string, limit int) []entities.Suggestion {
	logger := observability.LoggerFromContext(ctx)
	lower := strings.ToLower(partial)

	suggestions := make([]entities.Suggestion, 0, limit)
	seen := make(map[string]bool)
	add := func(text, source string, score int) {
		key := strings.ToLower(text)
		if text == "" || seen[key] || len(suggestions) >= limit {
			return
		}
		seen[key] = true
		suggestions = append(suggestions, entities.Suggestion{Text: text, Source: source, Score: score})
	}

	history, err := s.events.MatchingQueries(ctx, partial, time.Now().Add(-suggestionHistoryWindow), limit)
	if err != nil {
		logger.Warn().Err(err).Msg("history suggestions failed")
	}
	for _, h := range history {
		add(h.Value, entities.SuggestionSourceHistory, h.Count)
	}

	for _, entityType := range entities.AllEntityTypes {
		for _, label := range categoryLabels[entityType] {
			if strings.Contains(strings.ToLower(label), lower) {
				add(label, entities.SuggestionSourceCategory, 0)
			}
		}
	}

	for _, term := range craftTypeVocabulary {
		if strings.Contains(strings.ToLower(term), lower) {
			add(term, entities.SuggestionSourceCraftType, 0)
		}
	}

	locations, err := s.craftsmen.DistinctLocations(ctx, partial, locationSuggestionLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("location suggestions failed")
	}
	for _, loc := range locations {
		add(loc, entities.SuggestionSourceLocation, 0)
	}

	return suggestions
}

// popularQueries serves the sitewide popular query list, cached for one
// minute, seeded with defaults while the event log is empty.
func (s *SuggestionService) popularQueries(ctx context.Context) []string {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, popularQueriesCacheKey); err == nil {
			var cached []string
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) > 0 {
				return cached
			}
		}
	}

	var popular []string
	now := time.Now()
	top, err := s.events.TopQueries(ctx, now.Add(-popularQueriesWindow), now, popularQueriesLimit)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("popular queries lookup failed")
	}
	for _, q := range top {
		popular = append(popular, q.Value)
	}
	if len(popular) == 0 {
		popular = defaultPopularQueries
	}

	if s.cache != nil {
		if data, err := json.Marshal(popular); err == nil {
			if err := s.cache.Set(ctx, popularQueriesCacheKey, data, popularQueriesCacheTTL); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache popular queries")
			}
		}
	}
	return popular
}
