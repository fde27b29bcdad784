package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/heritagecrafts/platform/backend/internal/application/loaders"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

func testLoaders() *loaders.Loaders {
	craftsmen, courses, products, media := mahjongFixtures()
	return loaders.NewLoaders(craftsmen, courses, products, media)
}

func TestTrending_HydratesTopEntitiesInOrder(t *testing.T) {
	events := &fakeEventRepo{
		topEntitiesFn: func(entityType entities.EntityType) ([]entities.EntityCount, error) {
			if entityType != entities.EntityTypeCourse {
				return nil, nil
			}
			return []entities.EntityCount{
				{EntityID: "co-2", Count: 12},
				{EntityID: "co-1", Count: 7},
			}, nil
		},
	}
	svc := NewTrendingService(events, testLoaders(), nil, nil)

	items, err := svc.Trending(context.Background(), entities.EntityTypeCourse, "zh-HK", 10)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "co-2", items[0].ID)
	assert.Equal(t, "co-1", items[1].ID)
	assert.Equal(t, 0.8, items[0].Score)
	assert.Equal(t, 12, items[0].Metadata["trendingEvents"])
}

func TestTrending_DropsVanishedEntities(t *testing.T) {
	events := &fakeEventRepo{
		topEntitiesFn: func(entityType entities.EntityType) ([]entities.EntityCount, error) {
			return []entities.EntityCount{
				{EntityID: "co-1", Count: 5},
				{EntityID: "gone", Count: 4},
			}, nil
		},
	}
	svc := NewTrendingService(events, testLoaders(), nil, nil)

	items, err := svc.Trending(context.Background(), entities.EntityTypeCourse, "zh-HK", 10)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "co-1", items[0].ID)
}

func TestTrending_ServesFromCacheOnSecondCall(t *testing.T) {
	calls := 0
	events := &fakeEventRepo{
		topEntitiesFn: func(entityType entities.EntityType) ([]entities.EntityCount, error) {
			calls++
			return []entities.EntityCount{{EntityID: "cm-1", Count: 9}}, nil
		},
	}
	cache := newFakeCache()
	svc := NewTrendingService(events, testLoaders(), cache, nil)

	first, err := svc.Trending(context.Background(), entities.EntityTypeCraftsman, "zh-HK", 5)
	require.NoError(t, err)
	second, err := svc.Trending(context.Background(), entities.EntityTypeCraftsman, "zh-HK", 5)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 0.9, second[0].Score)
}

func TestTrending_EmptyWindow(t *testing.T) {
	svc := NewTrendingService(&fakeEventRepo{}, testLoaders(), nil, nil)

	items, err := svc.Trending(context.Background(), entities.EntityTypeProduct, "zh-HK", 10)

	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestTrending_EventStoreFailure(t *testing.T) {
	events := &fakeEventRepo{
		topEntitiesFn: func(entityType entities.EntityType) ([]entities.EntityCount, error) {
			return nil, errors.New("event store down")
		},
	}
	svc := NewTrendingService(events, testLoaders(), nil, nil)

	_, err := svc.Trending(context.Background(), entities.EntityTypeCourse, "zh-HK", 10)
	assert.Error(t, err)
}

func TestWarm_PrecomputesAllEntityTypes(t *testing.T) {
	events := &fakeEventRepo{
		topEntitiesFn: func(entityType entities.EntityType) ([]entities.EntityCount, error) {
			return []entities.EntityCount{{EntityID: "cm-1", Count: 3}}, nil
		},
	}
	cache := newFakeCache()
	svc := NewTrendingService(events, testLoaders(), cache, nil)

	err := svc.Warm(context.Background(), "zh-HK", 10)

	assert.NoError(t, err)
	assert.Len(t, cache.store, len(entities.AllEntityTypes))
}
