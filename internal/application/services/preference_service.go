package services

import (
	"context"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
)

const (
	profileCraftTypeLimit  = 10
	profileRecentViewLimit = 20
)

// PreferenceService derives a per-request user preference profile from
// the behavior event log. Profiles are never persisted.
type PreferenceService struct {
	events repositories.BehaviorEventRepository
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(events repositories.BehaviorEventRepository) *PreferenceService {
	return &PreferenceService{events: events}
}

// Profile builds the preference profile for one user. Craft type
// affinity is the backbone of the profile, so its failure fails the
// call; the secondary signals degrade individually to their zero
// values.
func (s *PreferenceService) Profile(ctx context.Context, userID string) (*entities.UserPreferenceProfile, error) {
	if userID == "" {
		return nil, nil
	}
	logger := observability.LoggerFromContext(ctx)

	craftTypes, err := s.events.CraftTypeAffinity(ctx, userID, profileCraftTypeLimit)
	if err != nil {
		return nil, err
	}

	profile := &entities.UserPreferenceProfile{
		UserID:     userID,
		CraftTypes: craftTypes,
		Interests:  craftTypes,
	}

	if lang, err := s.events.PreferredLanguage(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("preferred language lookup failed")
	} else {
		profile.PreferredLanguage = lang
	}

	if priceRange, err := s.events.PurchasePriceRange(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("price range lookup failed")
	} else {
		profile.PriceRange = priceRange
	}

	views, err := s.events.RecentEntityIDs(ctx, userID, []string{entities.EventTypeView}, profileRecentViewLimit)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("recent views lookup failed")
	} else {
		profile.RecentViews = views
	}

	return profile, nil
}
