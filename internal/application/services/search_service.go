package services

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
	"github.com/heritagecrafts/platform/backend/pkg/config"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

// SearchService runs unified cross-entity search: four entity adapters
// are queried concurrently, their candidates merged, ranked, optionally
// personalized, and only then paginated. Facets are aggregated in
// parallel with the entity fan-out.
type SearchService struct {
	craftsmen       repositories.CraftsmanRepository
	courses         repositories.CourseRepository
	products        repositories.ProductRepository
	media           repositories.MediaRepository
	textSearch      repositories.TextSearchRepository
	ranking         *RankingService
	personalization *PersonalizationService
	behavior        *BehaviorService
	metrics         *observability.Metrics
	cfg             config.SearchConfig
}

// NewSearchService creates a new search service. textSearch may be nil;
// the service then relies on the database adapters' own matching.
func NewSearchService(
	craftsmen repositories.CraftsmanRepository,
	courses repositories.CourseRepository,
	products repositories.ProductRepository,
	media repositories.MediaRepository,
	textSearch repositories.TextSearchRepository,
	ranking *RankingService,
	personalization *PersonalizationService,
	behavior *BehaviorService,
	metrics *observability.Metrics,
	cfg config.SearchConfig,
) *SearchService {
	return &SearchService{
		craftsmen:       craftsmen,
		courses:         courses,
		products:        products,
		media:           media,
		textSearch:      textSearch,
		ranking:         ranking,
		personalization: personalization,
		behavior:        behavior,
		metrics:         metrics,
		cfg:             cfg,
	}
}

// Search executes one search request end to end
func (s *SearchService) Search(ctx context.Context, query entities.SearchQuery) (*entities.SearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	query.ApplyDefaults(s.cfg.DefaultLimit, s.cfg.DefaultLanguage)
	if err := query.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	span.SetAttributes(
		attribute.String("search.query", query.Query),
		attribute.String("search.category", query.Category),
		attribute.String("search.craft_type", query.CraftType),
	)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []*entities.SearchResult
		facets  entities.SearchFacets
	)

	collect := func(fetched []*entities.SearchResult) {
		mu.Lock()
		results = append(results, fetched...)
		mu.Unlock()
	}

	for _, entityType := range AllowedEntityTypes(query.Category) {
		entityType := entityType
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetched, err := s.searchEntityType(ctx, entityType, query)
			if err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).
					Str("entity_type", string(entityType)).Msg("entity search failed")
				return
			}
			collect(fetched)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		facets = s.aggregateFacets(ctx)
	}()

	wg.Wait()

	total := len(results)

	switch query.SortBy {
	case entities.SortByDate:
		sortResultsByDate(results, query.SortOrder)
	case entities.SortByPopularity:
		s.sortResultsByPopularity(ctx, results, query.SortOrder)
	default:
		results = s.ranking.Rank(ctx, results)
		if query.UserID != "" && s.personalization != nil {
			results = s.personalization.BoostResults(ctx, query.UserID, results)
		}
		if query.SortOrder == entities.SortOrderAsc {
			reverseResults(results)
		}
	}

	page := paginate(results, query.Offset, query.Limit)

	if s.metrics != nil {
		s.metrics.SearchCount.Add(ctx, 1)
		if total == 0 {
			s.metrics.ZeroResultCount.Add(ctx, 1)
		}
	}
	if s.cfg.TrackSearches && s.behavior != nil {
		s.behavior.TrackSearchAsync(query, total)
	}

	return &entities.SearchResponse{
		Results: page,
		Total:   total,
		Facets:  facets,
		Query:   query,
	}, nil
}

// AllowedEntityTypes maps the optional category filter onto the entity
// types worth querying. An unrecognised category searches everything;
// the per-entity category filters then narrow within each type.
func AllowedEntityTypes(category string) []entities.EntityType {
	if t := entities.EntityType(category); t.Valid() {
		return []entities.EntityType{t}
	}
	return entities.AllEntityTypes
}

func (s *SearchService) searchEntityType(ctx context.Context, entityType entities.EntityType, query entities.SearchQuery) ([]*entities.SearchResult, error) {
	filter := repositories.EntitySearchFilter{
		Query:     query.Query,
		Category:  query.Category,
		CraftType: query.CraftType,
		FileType:  query.FileType,
		Language:  query.Language,
		Limit:     s.cfg.MaxPerType,
	}
	// The four entity types double as category names; a category equal
	// to the entity type means "this type, unfiltered".
	if filter.Category == string(entityType) {
		filter.Category = ""
	}

	if s.textSearch != nil && query.Query != "" {
		return s.searchViaText(ctx, entityType, filter, query.Language)
	}
	return s.searchViaDatabase(ctx, entityType, filter, query.Language)
}

// searchViaText resolves text hits through the search index, then
// hydrates entities from the database keeping hit order and scores.
func (s *SearchService) searchViaText(ctx context.Context, entityType entities.EntityType, filter repositories.EntitySearchFilter, lang string) ([]*entities.SearchResult, error) {
	hits, err := s.textSearch.SearchEntities(ctx, entityType, filter)
	if err != nil {
		// Index trouble must not take search down; fall back to the
		// database path.
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("entity_type", string(entityType)).Msg("text index unavailable, using database search")
		return s.searchViaDatabase(ctx, entityType, filter, lang)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(hits))
	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
		scores[h.ID] = h.Score
	}

	mapped, err := s.fetchByIDs(ctx, entityType, ids, lang)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entities.SearchResult, len(mapped))
	for _, r := range mapped {
		byID[r.ID] = r
	}

	ordered := make([]*entities.SearchResult, 0, len(hits))
	for _, h := range hits {
		if r, ok := byID[h.ID]; ok {
			r.RelevanceScore = scores[h.ID]
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}

func (s *SearchService) searchViaDatabase(ctx context.Context, entityType entities.EntityType, filter repositories.EntitySearchFilter, lang string) ([]*entities.SearchResult, error) {
	switch entityType {
	case entities.EntityTypeCraftsman:
		items, err := s.craftsmen.Search(ctx, filter)
		if err != nil {
			return nil, err
		}
		return mapResults(items, lang, craftsmanToResult), nil
	case entities.EntityTypeCourse:
		items, err := s.courses.Search(ctx, filter)
		if err != nil {
			return nil, err
		}
		return mapResults(items, lang, courseToResult), nil
	case entities.EntityTypeProduct:
		items, err := s.products.Search(ctx, filter)
		if err != nil {
			return nil, err
		}
		return mapResults(items, lang, productToResult), nil
	case entities.EntityTypeMedia:
		items, err := s.media.Search(ctx, filter)
		if err != nil {
			return nil, err
		}
		return mapResults(items, lang, mediaToResult), nil
	}
	return nil, nil
}

func (s *SearchService) fetchByIDs(ctx context.Context, entityType entities.EntityType, ids []string, lang string) ([]*entities.SearchResult, error) {
	switch entityType {
	case entities.EntityTypeCraftsman:
		items, err := s.craftsmen.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return mapResults(items, lang, craftsmanToResult), nil
	case entities.EntityTypeCourse:
		items, err := s.courses.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return mapResults(items, lang, courseToResult), nil
	case entities.EntityTypeProduct:
		items, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return mapResults(items, lang, productToResult), nil
	case entities.EntityTypeMedia:
		items, err := s.media.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return mapResults(items, lang, mediaToResult), nil
	}
	return nil, nil
}

func mapResults[T any](items []T, lang string, toResult func(T, string) *entities.SearchResult) []*entities.SearchResult {
	results := make([]*entities.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, toResult(item, lang))
	}
	return results
}

// aggregateFacets runs the three facet dimensions concurrently. A
// failed dimension comes back empty rather than failing the search.
func (s *SearchService) aggregateFacets(ctx context.Context) entities.SearchFacets {
	logger := observability.LoggerFromContext(ctx)

	var wg sync.WaitGroup
	var facets entities.SearchFacets

	wg.Add(1)
	go func() {
		defer wg.Done()
		counts := []struct {
			name  string
			count func(context.Context) (int, error)
		}{
			{string(entities.EntityTypeCraftsman), s.craftsmen.CountActive},
			{string(entities.EntityTypeCourse), s.courses.CountActive},
			{string(entities.EntityTypeProduct), s.products.CountActive},
			{string(entities.EntityTypeMedia), s.media.CountActive},
		}
		for _, c := range counts {
			n, err := c.count(ctx)
			if err != nil {
				logger.Warn().Err(err).Str("facet", c.name).Msg("category facet failed")
				continue
			}
			facets.Categories = append(facets.Categories, entities.Facet{Name: c.name, Count: n})
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		craftTypes, err := s.craftsmen.CraftTypeCounts(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("craft type facet failed")
			return
		}
		facets.CraftTypes = craftTypes
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		fileTypes, err := s.media.FileTypeCounts(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("file type facet failed")
			return
		}
		facets.FileTypes = fileTypes
	}()

	wg.Wait()
	return facets
}

func (s *SearchService) sortResultsByPopularity(ctx context.Context, results []*entities.SearchResult, order string) {
	counts := s.ranking.PopularityCounts(ctx, results)
	sort.SliceStable(results, func(i, j int) bool {
		ci, cj := counts[results[i].ID], counts[results[j].ID]
		if ci != cj {
			if order == entities.SortOrderAsc {
				return ci < cj
			}
			return ci > cj
		}
		pi, pj := results[i].Type.TieBreakPriority(), results[j].Type.TieBreakPriority()
		if pi != pj {
			return pi < pj
		}
		return results[i].ID < results[j].ID
	})
}

func sortResultsByDate(results []*entities.SearchResult, order string) {
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			if order == entities.SortOrderAsc {
				return results[i].CreatedAt.Before(results[j].CreatedAt)
			}
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		pi, pj := results[i].Type.TieBreakPriority(), results[j].Type.TieBreakPriority()
		if pi != pj {
			return pi < pj
		}
		return results[i].ID < results[j].ID
	})
}

func reverseResults(results []*entities.SearchResult) {
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
}

// paginate slices the merged ranked list. Offsets past the end yield an
// empty page, never an error.
func paginate(results []*entities.SearchResult, offset, limit int) []*entities.SearchResult {
	if offset >= len(results) {
		return []*entities.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
