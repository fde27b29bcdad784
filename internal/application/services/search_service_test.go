package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/pkg/config"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		MaxPerType:      50,
		DefaultLimit:    20,
		DefaultLanguage: "zh-HK",
		TrackSearches:   false,
	}
}

func newTestSearchService(
	craftsmen *fakeCraftsmanRepo,
	courses *fakeCourseRepo,
	products *fakeProductRepo,
	media *fakeMediaRepo,
) *SearchService {
	return newTestSearchServiceWithText(craftsmen, courses, products, media, nil)
}

func newTestSearchServiceWithText(
	craftsmen *fakeCraftsmanRepo,
	courses *fakeCourseRepo,
	products *fakeProductRepo,
	media *fakeMediaRepo,
	textSearch repositories.TextSearchRepository,
) *SearchService {
	events := &fakeEventRepo{}
	ranking := NewRankingService(events)
	personalization := NewPersonalizationService(NewPreferenceService(events))
	behavior := NewBehaviorService(events)
	return NewSearchService(craftsmen, courses, products, media, textSearch,
		ranking, personalization, behavior, nil, testSearchConfig())
}

func mahjongFixtures() (*fakeCraftsmanRepo, *fakeCourseRepo, *fakeProductRepo, *fakeMediaRepo) {
	now := time.Now()
	craftsmen := &fakeCraftsmanRepo{craftsmen: []*entities.Craftsman{
		{
			ID:   "cm-1",
			Name: entities.MultilingualText{"zh-HK": "師傅甲", "en": "Master Cheung"},
			Bio:  entities.MultilingualText{"zh-HK": "手雕麻將老師傅"},
			CraftSpecialties:   []string{"手雕麻將"},
			WorkshopLocation:   "深水埗",
			VerificationStatus: entities.VerificationVerified,
			IsActive:           true,
			CreatedAt:          now.Add(-48 * time.Hour),
		},
	}}
	courses := &fakeCourseRepo{courses: []*entities.Course{
		{
			ID:        "co-1",
			Title:     entities.MultilingualText{"zh-HK": "手雕麻將工作坊"},
			CraftType: "手雕麻將",
			Category:  "workshop",
			Price:     480,
			Status:    entities.CourseStatusActive,
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID:        "co-2",
			Title:     entities.MultilingualText{"zh-HK": "廣彩入門"},
			CraftType: "廣彩",
			Category:  "workshop",
			Price:     350,
			Status:    entities.CourseStatusActive,
			CreatedAt: now.Add(-72 * time.Hour),
		},
	}}
	products := &fakeProductRepo{products: []*entities.Product{
		{
			ID:        "pr-1",
			Name:      entities.MultilingualText{"zh-HK": "訂製麻將"},
			CraftType: "手雕麻將",
			Category:  "homeware",
			Price:     2800,
			Inventory: 2,
			Status:    entities.ProductStatusActive,
			CreatedAt: now.Add(-12 * time.Hour),
		},
	}}
	media := &fakeMediaRepo{items: []*entities.MediaItem{
		{
			ID:        "md-1",
			Title:     entities.MultilingualText{"zh-HK": "麻將雕刻紀錄片"},
			FileType:  "video",
			Category:  "documentary",
			CraftType: "手雕麻將",
			Status:    "active",
			CreatedAt: now.Add(-6 * time.Hour),
		},
	}}
	return craftsmen, courses, products, media
}

func TestSearch_MergesAllEntityTypes(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	resp, err := svc.Search(context.Background(), entities.SearchQuery{})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Total)
	assert.Len(t, resp.Results, 5)

	types := map[entities.EntityType]bool{}
	for _, r := range resp.Results {
		types[r.Type] = true
	}
	assert.Len(t, types, 4)
}

func TestSearch_CraftTypeFilterHolds(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	resp, err := svc.Search(context.Background(), entities.SearchQuery{CraftType: "手雕麻將"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		assert.Equal(t, "手雕麻將", r.CraftType)
	}
	// The 廣彩 course is filtered out.
	assert.Equal(t, 4, resp.Total)
}

func TestSearch_ResolvesTitlesToRequestLanguage(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	resp, err := svc.Search(context.Background(), entities.SearchQuery{Language: "en"})
	require.NoError(t, err)

	for _, r := range resp.Results {
		if r.ID == "cm-1" {
			assert.Equal(t, "Master Cheung", r.Title)
		}
		if r.ID == "co-1" {
			// No en text; falls back through the resolution chain.
			assert.Equal(t, "手雕麻將工作坊", r.Title)
		}
	}
}

func TestSearch_PaginationSlicesMergedList(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	page1, err := svc.Search(context.Background(), entities.SearchQuery{Limit: 2, Offset: 0})
	require.NoError(t, err)
	page2, err := svc.Search(context.Background(), entities.SearchQuery{Limit: 2, Offset: 2})
	require.NoError(t, err)

	assert.Equal(t, 5, page1.Total)
	assert.Len(t, page1.Results, 2)
	assert.Len(t, page2.Results, 2)
	assert.NotEqual(t, page1.Results[0].ID, page2.Results[0].ID)
}

func TestSearch_OffsetPastEndIsEmptyNotError(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	resp, err := svc.Search(context.Background(), entities.SearchQuery{Limit: 10, Offset: 99})
	require.NoError(t, err)

	assert.Empty(t, resp.Results)
	assert.Equal(t, 5, resp.Total)
}

func TestSearch_RejectsInvalidPagination(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	_, err := svc.Search(context.Background(), entities.SearchQuery{Limit: 500})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = svc.Search(context.Background(), entities.SearchQuery{Offset: -1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = svc.Search(context.Background(), entities.SearchQuery{SortBy: "price"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSearch_SortByDateDescending(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	resp, err := svc.Search(context.Background(), entities.SearchQuery{SortBy: entities.SortByDate})
	require.NoError(t, err)

	for i := 1; i < len(resp.Results); i++ {
		assert.False(t, resp.Results[i].CreatedAt.After(resp.Results[i-1].CreatedAt))
	}
}

func TestSearch_CategoryNarrowsToOneEntityType(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	resp, err := svc.Search(context.Background(), entities.SearchQuery{Category: "course"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		assert.Equal(t, entities.EntityTypeCourse, r.Type)
	}
}

func TestSearch_FacetsAggregated(t *testing.T) {
	svc := newTestSearchService(mahjongFixtures())

	resp, err := svc.Search(context.Background(), entities.SearchQuery{})
	require.NoError(t, err)

	assert.Len(t, resp.Facets.Categories, 4)
	require.NotEmpty(t, resp.Facets.CraftTypes)
	assert.Equal(t, "手雕麻將", resp.Facets.CraftTypes[0].Name)
	require.NotEmpty(t, resp.Facets.FileTypes)
	assert.Equal(t, "video", resp.Facets.FileTypes[0].Name)
}

func TestSearch_TextIndexSuppliesCandidatesAndScores(t *testing.T) {
	craftsmen, courses, products, media := mahjongFixtures()
	textSearch := &fakeTextSearch{
		searchFn: func(entityType entities.EntityType, filter repositories.EntitySearchFilter) ([]repositories.TextHit, error) {
			if entityType != entities.EntityTypeCourse {
				return nil, nil
			}
			return []repositories.TextHit{
				{ID: "co-2", Score: 1.0},
				{ID: "co-1", Score: 0.4},
			}, nil
		},
	}
	svc := newTestSearchServiceWithText(craftsmen, courses, products, media, textSearch)

	resp, err := svc.Search(context.Background(), entities.SearchQuery{Query: "工作坊"})
	require.NoError(t, err)

	// Only the index's hits survive; the stronger hit ranks first.
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "co-2", resp.Results[0].ID)
	assert.Equal(t, "co-1", resp.Results[1].ID)

	factors := resp.Results[0].Metadata["rankingFactors"].(map[string]float64)
	assert.Equal(t, 1.0, factors["relevance"])
}

func TestSearch_TextIndexFailureFallsBackToDatabase(t *testing.T) {
	craftsmen, courses, products, media := mahjongFixtures()
	textSearch := &fakeTextSearch{
		searchFn: func(entityType entities.EntityType, filter repositories.EntitySearchFilter) ([]repositories.TextHit, error) {
			return nil, apperrors.NewExternalError("index down", nil)
		},
	}
	svc := newTestSearchServiceWithText(craftsmen, courses, products, media, textSearch)

	resp, err := svc.Search(context.Background(), entities.SearchQuery{Query: "麻將"})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Total)
}

func TestAllowedEntityTypes(t *testing.T) {
	assert.Equal(t, entities.AllEntityTypes, AllowedEntityTypes(""))
	assert.Equal(t, entities.AllEntityTypes, AllowedEntityTypes("workshop"))
	assert.Equal(t, []entities.EntityType{entities.EntityTypeMedia}, AllowedEntityTypes("media"))
}
