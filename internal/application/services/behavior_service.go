package services

import (
	"context"
	"strconv"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
	apperrors "github.com/heritagecrafts/platform/backend/pkg/errors"
)

const trackingTimeout = 5 * time.Second

// BehaviorService appends user behavior events. Click tracking is
// synchronous so the caller learns about validation problems; search
// tracking is fire and forget so it never adds latency to the search
// path.
type BehaviorService struct {
	events repositories.BehaviorEventRepository
}

// NewBehaviorService creates a new behavior tracking service
func NewBehaviorService(events repositories.BehaviorEventRepository) *BehaviorService {
	return &BehaviorService{events: events}
}

// TrackClick records that a search result was clicked. Events carry the
// originating query and position so click-through rate can be computed
// later.
func (s *BehaviorService) TrackClick(ctx context.Context, userID, resultID string, resultType entities.EntityType, searchQuery string, position int) error {
	if resultID == "" {
		return apperrors.NewValidationError("result id is required")
	}
	if !resultType.Valid() {
		return apperrors.NewValidationError("unknown result type " + strconv.Quote(string(resultType)))
	}

	return s.events.Append(ctx, &entities.BehaviorEvent{
		UserID:     userID,
		EventType:  entities.EventTypeClick,
		EntityType: resultType,
		EntityID:   resultID,
		Metadata: map[string]string{
			"source":   "search",
			"query":    searchQuery,
			"position": strconv.Itoa(position),
		},
	})
}

// TrackEvent records a generic behavior event (view, bookmark,
// purchase) after validating its shape.
func (s *BehaviorService) TrackEvent(ctx context.Context, event *entities.BehaviorEvent) error {
	if event.EntityID == "" {
		return apperrors.NewValidationError("entity id is required")
	}
	if !event.EntityType.Valid() {
		return apperrors.NewValidationError("unknown entity type " + strconv.Quote(string(event.EntityType)))
	}
	switch event.EventType {
	case entities.EventTypeView, entities.EventTypeClick, entities.EventTypeBookmark, entities.EventTypePurchase:
	default:
		return apperrors.NewValidationError("unknown event type " + strconv.Quote(event.EventType))
	}
	return s.events.Append(ctx, event)
}

// TrackSearchAsync records a search event in the background. The event
// is detached from the request context so client disconnects do not
// lose it.
func (s *BehaviorService) TrackSearchAsync(query entities.SearchQuery, resultCount int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), trackingTimeout)
		defer cancel()

		err := s.events.Append(ctx, &entities.BehaviorEvent{
			UserID:    query.UserID,
			EventType: entities.EventTypeSearch,
			// craftType matches the key the preference aggregation reads
			// back out of the event log.
			Metadata: map[string]string{
				"query":        query.Query,
				"category":     query.Category,
				"craftType":    query.CraftType,
				"language":     query.Language,
				"result_count": strconv.Itoa(resultCount),
			},
		})
		if err != nil {
			observability.GetLogger().Warn().Err(err).
				Str("query", query.Query).Msg("failed to track search")
		}
	}()
}
