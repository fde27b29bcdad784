package services

import (
	"context"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/application/loaders"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
)

const (
	sectionItemLimit = 8

	personalBaseScore = 0.85
	personalRankStep  = 0.05
	similarScore      = 0.8
	categoryScore     = 0.75
	locationScore     = 0.7
	popularScore      = 0.6
	latestScore       = 0.5

	popularWindow = 30 * 24 * time.Hour
)

// RecommendationService composes the recommendation sections shown on
// browse pages. Sections are built independently; a failed or empty
// section is skipped, and an entirely empty response falls back to a
// popular section so the surface never renders blank.
type RecommendationService struct {
	trending        *TrendingService
	prefs           *PreferenceService
	events          repositories.BehaviorEventRepository
	craftsmen       repositories.CraftsmanRepository
	courses         repositories.CourseRepository
	products        repositories.ProductRepository
	loaders         *loaders.Loaders
	metrics         *observability.Metrics
	diversityFactor float64
	defaultLanguage string
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	trending *TrendingService,
	prefs *PreferenceService,
	events repositories.BehaviorEventRepository,
	craftsmen repositories.CraftsmanRepository,
	courses repositories.CourseRepository,
	products repositories.ProductRepository,
	entityLoaders *loaders.Loaders,
	metrics *observability.Metrics,
	diversityFactor float64,
	defaultLanguage string,
) *RecommendationService {
	return &RecommendationService{
		trending:        trending,
		prefs:           prefs,
		events:          events,
		craftsmen:       craftsmen,
		courses:         courses,
		products:        products,
		loaders:         entityLoaders,
		metrics:         metrics,
		diversityFactor: diversityFactor,
		defaultLanguage: defaultLanguage,
	}
}

// GetRecommendations builds the sections applicable to the given
// context, applies the diversity filter per section and falls back to a
// popular section when nothing else survives.
func (s *RecommendationService) GetRecommendations(ctx context.Context, rctx entities.RecommendationContext) ([]*entities.RecommendationSection, error) {
	ctx, span := observability.StartSpan(ctx, "RecommendationService.GetRecommendations")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	lang := s.defaultLanguage
	var sections []*entities.RecommendationSection

	var profile *entities.UserPreferenceProfile
	if rctx.UserID != "" {
		var err error
		profile, err = s.prefs.Profile(ctx, rctx.UserID)
		if err != nil {
			logger.Warn().Err(err).Str("user_id", rctx.UserID).Msg("profile unavailable for recommendations")
			profile = nil
		}
	}

	if profile != nil && len(profile.CraftTypes) > 0 {
		if section := s.personalSection(ctx, profile, lang); section != nil {
			sections = append(sections, section)
		}
	}

	if rctx.CurrentEntityID != "" && rctx.CurrentEntityType.Valid() {
		if section := s.similarSection(ctx, rctx.CurrentEntityID, rctx.CurrentEntityType, lang); section != nil {
			sections = append(sections, section)
		}
	}

	if section := s.trendingSection(ctx, lang); section != nil {
		sections = append(sections, section)
	}

	if profile != nil && len(profile.CraftTypes) > 0 {
		if section := s.categorySection(ctx, profile.CraftTypes[0], lang); section != nil {
			sections = append(sections, section)
		}
	}

	if rctx.UserLocation != "" {
		if section := s.locationSection(ctx, rctx.UserLocation, lang); section != nil {
			sections = append(sections, section)
		}
	}

	if len(sections) == 0 {
		if section := s.popularSection(ctx, lang); section != nil {
			sections = append(sections, section)
		}
	}

	if s.metrics != nil {
		s.metrics.SectionCount.Add(ctx, int64(len(sections)))
	}
	return sections, nil
}

// finishSection applies the diversity filter and drops sections that
// end up empty.
func (s *RecommendationService) finishSection(section *entities.RecommendationSection) *entities.RecommendationSection {
	section.Items = ApplyDiversityFilter(section.Items, s.diversityFactor)
	if len(section.Items) > sectionItemLimit {
		section.Items = section.Items[:sectionItemLimit]
	}
	if len(section.Items) == 0 {
		return nil
	}
	return section
}

// personalSection recommends courses and products in the user's top
// craft types, excluding what they already viewed. Scores step down
// with affinity rank so the diversity filter sees a ranked list.
func (s *RecommendationService) personalSection(ctx context.Context, profile *entities.UserPreferenceProfile, lang string) *entities.RecommendationSection {
	logger := observability.LoggerFromContext(ctx)

	viewed := make(map[string]bool, len(profile.RecentViews))
	for _, id := range profile.RecentViews {
		viewed[id] = true
	}

	craftTypes := profile.CraftTypes
	if len(craftTypes) > 2 {
		craftTypes = craftTypes[:2]
	}

	var items []*entities.RecommendationResult
	reason := "Based on your recent activity"

	for rank, craftType := range craftTypes {
		score := clamp01(personalBaseScore - float64(rank)*personalRankStep)

		courses, err := s.courses.ListByCraftType(ctx, craftType, sectionItemLimit)
		if err != nil {
			logger.Warn().Err(err).Str("craft_type", craftType).Msg("personal course lookup failed")
		}
		for _, c := range courses {
			if !viewed[c.ID] {
				items = append(items, resultToRecommendation(courseToResult(c, lang), score, reason))
			}
		}

		products, err := s.products.ListByCraftType(ctx, craftType, sectionItemLimit)
		if err != nil {
			logger.Warn().Err(err).Str("craft_type", craftType).Msg("personal product lookup failed")
		}
		for _, p := range products {
			if !viewed[p.ID] {
				items = append(items, resultToRecommendation(productToResult(p, lang), score, reason))
			}
		}
	}

	return s.finishSection(&entities.RecommendationSection{
		Title:  "Recommended for You",
		Type:   entities.SectionPersonal,
		Items:  items,
		Reason: reason,
	})
}

// similarSection recommends entities sharing the craft type of the
// entity currently on screen.
func (s *RecommendationService) similarSection(ctx context.Context, entityID string, entityType entities.EntityType, lang string) *entities.RecommendationSection {
	logger := observability.LoggerFromContext(ctx)

	craftType := s.craftTypeOf(ctx, entityID, entityType)
	if craftType == "" {
		return nil
	}

	reason := "Similar to what you're viewing"
	var items []*entities.RecommendationResult

	courses, err := s.courses.ListByCraftType(ctx, craftType, sectionItemLimit)
	if err != nil {
		logger.Warn().Err(err).Str("craft_type", craftType).Msg("similar course lookup failed")
	}
	for _, c := range courses {
		if c.ID != entityID {
			items = append(items, resultToRecommendation(courseToResult(c, lang), similarScore, reason))
		}
	}

	products, err := s.products.ListByCraftType(ctx, craftType, sectionItemLimit)
	if err != nil {
		logger.Warn().Err(err).Str("craft_type", craftType).Msg("similar product lookup failed")
	}
	for _, p := range products {
		if p.ID != entityID {
			items = append(items, resultToRecommendation(productToResult(p, lang), similarScore, reason))
		}
	}

	return s.finishSection(&entities.RecommendationSection{
		Title:  "Similar Items",
		Type:   entities.SectionSimilar,
		Items:  items,
		Reason: reason,
	})
}

// craftTypeOf resolves the craft type of the entity being viewed
func (s *RecommendationService) craftTypeOf(ctx context.Context, entityID string, entityType entities.EntityType) string {
	switch entityType {
	case entities.EntityTypeCraftsman:
		c, err := s.loaders.Craftsman.Load(ctx, entityID)()
		if err == nil && len(c.CraftSpecialties) > 0 {
			return c.CraftSpecialties[0]
		}
	case entities.EntityTypeCourse:
		c, err := s.loaders.Course.Load(ctx, entityID)()
		if err == nil {
			return c.CraftType
		}
	case entities.EntityTypeProduct:
		p, err := s.loaders.Product.Load(ctx, entityID)()
		if err == nil {
			return p.CraftType
		}
	case entities.EntityTypeMedia:
		m, err := s.loaders.Media.Load(ctx, entityID)()
		if err == nil {
			return m.CraftType
		}
	}
	return ""
}

// trendingSection mixes trending craftsmen and courses
func (s *RecommendationService) trendingSection(ctx context.Context, lang string) *entities.RecommendationSection {
	logger := observability.LoggerFromContext(ctx)
	var items []*entities.RecommendationResult

	for _, entityType := range []entities.EntityType{entities.EntityTypeCraftsman, entities.EntityTypeCourse} {
		trending, err := s.trending.Trending(ctx, entityType, lang, sectionItemLimit/2)
		if err != nil {
			logger.Warn().Err(err).Str("entity_type", string(entityType)).Msg("trending lookup failed")
			continue
		}
		items = append(items, trending...)
	}

	return s.finishSection(&entities.RecommendationSection{
		Title:  "Trending Now",
		Type:   entities.SectionTrending,
		Items:  items,
		Reason: trendingReason,
	})
}

// categorySection recommends more of the user's favourite craft type
func (s *RecommendationService) categorySection(ctx context.Context, craftType, lang string) *entities.RecommendationSection {
	logger := observability.LoggerFromContext(ctx)
	reason := "More from " + craftType
	var items []*entities.RecommendationResult

	courses, err := s.courses.ListByCraftType(ctx, craftType, sectionItemLimit)
	if err != nil {
		logger.Warn().Err(err).Str("craft_type", craftType).Msg("category course lookup failed")
	}
	for _, c := range courses {
		items = append(items, resultToRecommendation(courseToResult(c, lang), categoryScore, reason))
	}

	products, err := s.products.ListByCraftType(ctx, craftType, sectionItemLimit)
	if err != nil {
		logger.Warn().Err(err).Str("craft_type", craftType).Msg("category product lookup failed")
	}
	for _, p := range products {
		items = append(items, resultToRecommendation(productToResult(p, lang), categoryScore, reason))
	}

	return s.finishSection(&entities.RecommendationSection{
		Title:  "More " + craftType,
		Type:   entities.SectionCategory,
		Items:  items,
		Reason: reason,
	})
}

// locationSection recommends craftsmen whose workshop matches the
// user's location
func (s *RecommendationService) locationSection(ctx context.Context, location, lang string) *entities.RecommendationSection {
	craftsmen, err := s.craftsmen.SearchByLocation(ctx, location, sectionItemLimit)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("location", location).Msg("location lookup failed")
		return nil
	}

	reason := "Craftsmen near " + location
	items := make([]*entities.RecommendationResult, 0, len(craftsmen))
	for _, c := range craftsmen {
		items = append(items, resultToRecommendation(craftsmanToResult(c, lang), locationScore, reason))
	}

	return s.finishSection(&entities.RecommendationSection{
		Title:  "Craftsmen Near You",
		Type:   entities.SectionLocation,
		Items:  items,
		Reason: reason,
	})
}

// popularSection is the guaranteed fallback: most engaged-with entities
// over 30 days, then newest courses when the event log is empty. The
// diversity filter is deliberately not applied here.
func (s *RecommendationService) popularSection(ctx context.Context, lang string) *entities.RecommendationSection {
	logger := observability.LoggerFromContext(ctx)
	since := time.Now().Add(-popularWindow)
	reason := "Popular on the platform"
	var items []*entities.RecommendationResult

	for _, entityType := range []entities.EntityType{entities.EntityTypeCourse, entities.EntityTypeProduct, entities.EntityTypeCraftsman} {
		top, err := s.events.TopEntities(ctx, entityType, entities.EngagementEventTypes, since, sectionItemLimit/2)
		if err != nil {
			logger.Warn().Err(err).Str("entity_type", string(entityType)).Msg("popular lookup failed")
			continue
		}
		ids := make([]string, 0, len(top))
		for _, t := range top {
			ids = append(ids, t.EntityID)
		}
		for _, r := range s.trending.hydrate(ctx, entityType, ids, lang) {
			items = append(items, resultToRecommendation(r, popularScore, reason))
		}
	}

	if len(items) == 0 {
		courses, err := s.courses.ListLatest(ctx, sectionItemLimit)
		if err != nil {
			logger.Warn().Err(err).Msg("latest course fallback failed")
			return nil
		}
		for _, c := range courses {
			items = append(items, resultToRecommendation(courseToResult(c, lang), latestScore, "Newly added"))
		}
	}
	if len(items) == 0 {
		return nil
	}

	if len(items) > sectionItemLimit {
		items = items[:sectionItemLimit]
	}
	return &entities.RecommendationSection{
		Title:  "Popular Now",
		Type:   entities.SectionPopular,
		Items:  items,
		Reason: reason,
	}
}
