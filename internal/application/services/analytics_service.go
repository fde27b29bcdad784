package services

import (
	"context"
	"sync"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

const (
	analyticsDefaultWindow = 30 * 24 * time.Hour
	analyticsTopLimit      = 10
)

// AnalyticsService aggregates search behavior over a time window. The
// five aggregates run concurrently and degrade independently to zero
// values, so a partially failing event store still yields a report.
type AnalyticsService struct {
	events repositories.BehaviorEventRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(events repositories.BehaviorEventRepository) *AnalyticsService {
	return &AnalyticsService{events: events}
}

// GetSearchAnalytics reports on the [start, end) window. A zero end
// defaults to now, a zero start to thirty days before end.
func (s *AnalyticsService) GetSearchAnalytics(ctx context.Context, start, end time.Time) (*entities.SearchAnalytics, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.Add(-analyticsDefaultWindow)
	}
	if !start.Before(end) {
		return nil, apperrors.NewValidationError("start must be before end")
	}

	logger := observability.LoggerFromContext(ctx)
	analytics := &entities.SearchAnalytics{
		Start:         start,
		End:           end,
		TopQueries:    []entities.QueryCount{},
		TopCategories: []entities.QueryCount{},
		SearchesByDay: []entities.DayCount{},
	}

	var wg sync.WaitGroup
	var searches, clicks int

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := s.events.CountSearches(ctx, start, end)
		if err != nil {
			logger.Warn().Err(err).Msg("search count aggregate failed")
			return
		}
		searches = n
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := s.events.CountSearchClicks(ctx, start, end)
		if err != nil {
			logger.Warn().Err(err).Msg("click count aggregate failed")
			return
		}
		clicks = n
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		top, err := s.events.TopQueries(ctx, start, end, analyticsTopLimit)
		if err != nil {
			logger.Warn().Err(err).Msg("top queries aggregate failed")
			return
		}
		analytics.TopQueries = top
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		top, err := s.events.TopCategories(ctx, start, end, analyticsTopLimit)
		if err != nil {
			logger.Warn().Err(err).Msg("top categories aggregate failed")
			return
		}
		analytics.TopCategories = top
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		byDay, err := s.events.SearchesByDay(ctx, start, end)
		if err != nil {
			logger.Warn().Err(err).Msg("daily searches aggregate failed")
			return
		}
		analytics.SearchesByDay = byDay
	}()

	wg.Wait()

	analytics.TotalSearches = searches
	if searches > 0 {
		analytics.ClickThroughRate = float64(clicks) / float64(searches)
	}
	return analytics, nil
}
