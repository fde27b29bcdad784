package services

import (
	"context"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
)

// Personalization boost sizes
const (
	boostPerCraftTypeRank = 0.1
	boostPriceInRange     = 0.2
	boostLanguageMatch    = 0.1
)

// PersonalizationService re-scores ranked search results using a user's
// preference profile. Anonymous users and users without a resolvable
// profile get the ranked order untouched.
type PersonalizationService struct {
	prefs *PreferenceService
}

// NewPersonalizationService creates a new personalization service
func NewPersonalizationService(prefs *PreferenceService) *PersonalizationService {
	return &PersonalizationService{prefs: prefs}
}

// BoostResults applies craft type, price and language boosts on top of
// each result's current score, clamps to [0,1] and re-sorts. The boost
// never demotes a result below its unboosted score.
func (s *PersonalizationService) BoostResults(ctx context.Context, userID string, results []*entities.SearchResult) []*entities.SearchResult {
	if userID == "" || len(results) == 0 {
		return results
	}

	profile, err := s.prefs.Profile(ctx, userID)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("user_id", userID).Msg("profile unavailable, skipping personalization")
		return results
	}
	if profile == nil || len(profile.CraftTypes) == 0 {
		return results
	}

	n := len(profile.CraftTypes)
	for _, r := range results {
		boost := 0.0

		if rank, ok := profile.CraftTypeRank(r.CraftType); ok {
			boost += float64(n-rank) * boostPerCraftTypeRank
		}

		if profile.PriceRange != nil {
			if price, ok := r.MetadataFloat("price"); ok && profile.PriceRange.Contains(price) {
				boost += boostPriceInRange
			}
		}

		if profile.PreferredLanguage != "" && r.MetadataString("language") == profile.PreferredLanguage {
			boost += boostLanguageMatch
		}

		if boost > 0 {
			boosted := clamp01(r.RelevanceScore + boost)
			if r.Metadata == nil {
				r.Metadata = map[string]any{}
			}
			r.Metadata["personalizedScore"] = boosted
			r.RelevanceScore = boosted
		}
	}

	SortResultsByScore(results)
	return results
}
