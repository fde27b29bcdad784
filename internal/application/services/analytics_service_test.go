package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

func TestGetSearchAnalytics_ComputesClickThroughRate(t *testing.T) {
	events := &fakeEventRepo{
		countSearchesFn:     func() (int, error) { return 200, nil },
		countSearchClicksFn: func() (int, error) { return 50, nil },
		topQueriesFn: func() ([]entities.QueryCount, error) {
			return []entities.QueryCount{{Value: "手雕麻將", Count: 80}}, nil
		},
	}
	svc := NewAnalyticsService(events)

	analytics, err := svc.GetSearchAnalytics(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 200, analytics.TotalSearches)
	assert.InDelta(t, 0.25, analytics.ClickThroughRate, 1e-9)
	assert.Equal(t, "手雕麻將", analytics.TopQueries[0].Value)
}

func TestGetSearchAnalytics_DefaultsToThirtyDayWindow(t *testing.T) {
	svc := NewAnalyticsService(&fakeEventRepo{})

	analytics, err := svc.GetSearchAnalytics(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	window := analytics.End.Sub(analytics.Start)
	assert.Equal(t, 30*24*time.Hour, window)
}

func TestGetSearchAnalytics_RejectsInvertedWindow(t *testing.T) {
	svc := NewAnalyticsService(&fakeEventRepo{})

	now := time.Now()
	_, err := svc.GetSearchAnalytics(context.Background(), now, now.Add(-time.Hour))

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestGetSearchAnalytics_AggregatesDegradeSeparately(t *testing.T) {
	events := &fakeEventRepo{
		countSearchesFn: func() (int, error) { return 10, nil },
		countSearchClicksFn: func() (int, error) {
			return 0, errors.New("aggregation failed")
		},
		topQueriesFn: func() ([]entities.QueryCount, error) {
			return nil, errors.New("aggregation failed")
		},
		searchesByDayFn: func() ([]entities.DayCount, error) {
			return []entities.DayCount{{Day: "2026-08-20", Count: 10}}, nil
		},
	}
	svc := NewAnalyticsService(events)

	analytics, err := svc.GetSearchAnalytics(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 10, analytics.TotalSearches)
	assert.Equal(t, 0.0, analytics.ClickThroughRate)
	assert.Empty(t, analytics.TopQueries)
	assert.Equal(t, 10, analytics.SearchesByDay[0].Count)
}

func TestGetSearchAnalytics_ZeroSearchesZeroRate(t *testing.T) {
	svc := NewAnalyticsService(&fakeEventRepo{})

	analytics, err := svc.GetSearchAnalytics(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 0, analytics.TotalSearches)
	assert.Equal(t, 0.0, analytics.ClickThroughRate)
}
