package services

import (
	"context"
	"sort"
	"time"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
)

// Ranking weights. They sum to 1 so the combined score stays in [0,1]
// whenever every factor does.
const (
	weightRelevance  = 0.4
	weightPopularity = 0.3
	weightQuality    = 0.2
	weightRecency    = 0.1

	// popularitySaturation is the 30-day engagement count at which the
	// popularity factor reaches 1.0.
	popularitySaturation = 100

	popularityWindow = 30 * 24 * time.Hour

	// recencyWindow is the age at which the recency factor reaches 0.
	recencyWindow = 365 * 24 * time.Hour
)

// RankingService scores and orders merged search results. Relevance
// comes in on the results; popularity is read from the behavior log in
// one batched query; quality and recency are derived from the result
// itself.
type RankingService struct {
	events repositories.BehaviorEventRepository
}

// NewRankingService creates a new ranking service
func NewRankingService(events repositories.BehaviorEventRepository) *RankingService {
	return &RankingService{events: events}
}

// Rank computes combined scores for all results and returns them sorted
// best first. A failed popularity lookup degrades that factor to zero
// for every result instead of failing the search.
func (s *RankingService) Rank(ctx context.Context, results []*entities.SearchResult) []*entities.SearchResult {
	counts := s.popularityCounts(ctx, results)

	// One clock sample for the whole pass, so equal-aged results get
	// identical recency and the fixed tie-break stays in charge.
	now := time.Now()

	for _, r := range results {
		relevance := clamp01(r.RelevanceScore)
		popularity := popularityScore(counts[r.ID])
		quality := qualityScore(r)
		recency := recencyScore(r.CreatedAt, now)

		combined := clamp01(weightRelevance*relevance +
			weightPopularity*popularity +
			weightQuality*quality +
			weightRecency*recency)

		if r.Metadata == nil {
			r.Metadata = map[string]any{}
		}
		r.Metadata["rankingFactors"] = map[string]float64{
			"relevance":  relevance,
			"popularity": popularity,
			"quality":    quality,
			"recency":    recency,
			"combined":   combined,
		}
		r.RelevanceScore = combined
	}

	SortResultsByScore(results)
	return results
}

// PopularityCounts returns 30-day engagement counts for the given
// results, used directly when sorting by popularity.
func (s *RankingService) PopularityCounts(ctx context.Context, results []*entities.SearchResult) map[string]int {
	return s.popularityCounts(ctx, results)
}

func (s *RankingService) popularityCounts(ctx context.Context, results []*entities.SearchResult) map[string]int {
	if len(results) == 0 || s.events == nil {
		return nil
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}

	since := time.Now().Add(-popularityWindow)
	counts, err := s.events.CountByEntity(ctx, ids, entities.EngagementEventTypes, since)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Msg("popularity lookup failed, ranking without popularity")
		return nil
	}
	return counts
}

func popularityScore(count int) float64 {
	return clamp01(float64(count) / popularitySaturation)
}

// qualityScore derives a [0,1] completeness signal from the result's
// own fields. Scores are comparable within an entity type, not across
// the whole catalogue.
func qualityScore(r *entities.SearchResult) float64 {
	score := 0.5
	if len(r.Description) > 50 {
		score += 0.2
	}
	if r.ImageURL != "" {
		score += 0.1
	}

	switch r.Type {
	case entities.EntityTypeCraftsman:
		if r.MetadataString("verificationStatus") == entities.VerificationVerified {
			score += 0.2
		}
		if years, ok := r.MetadataFloat("experienceYears"); ok && years > 5 {
			score += 0.1
		}
	case entities.EntityTypeCourse:
		if hours, ok := r.MetadataFloat("durationHours"); ok && hours > 0 {
			score += 0.1
		}
		if price, ok := r.MetadataFloat("price"); ok && price > 0 {
			score += 0.1
		}
	case entities.EntityTypeProduct:
		if inv, ok := r.MetadataFloat("inventory"); ok && inv > 0 {
			score += 0.1
		}
		if price, ok := r.MetadataFloat("price"); ok && price > 0 {
			score += 0.1
		}
	}

	return clamp01(score)
}

// recencyScore falls linearly with age: 1.0 now, 0.5 at half a year, 0
// at a year and beyond. Future timestamps score 1.0.
func recencyScore(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	age := now.Sub(createdAt)
	if age <= 0 {
		return 1
	}
	return clamp01(1 - float64(age)/float64(recencyWindow))
}

// SortResultsByScore orders results by score descending, breaking ties
// by the fixed entity type priority and then by ID so the order is
// deterministic.
func SortResultsByScore(results []*entities.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		pi, pj := results[i].Type.TieBreakPriority(), results[j].Type.TieBreakPriority()
		if pi != pj {
			return pi < pj
		}
		return results[i].ID < results[j].ID
	})
}
