package services

import (
	"sort"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// diversityDropThreshold removes items whose penalised score no longer
// justifies a slot in the section.
const diversityDropThreshold = 0.3

// ApplyDiversityFilter penalises repeated entity types and craft types
// within one recommendation section. Items are visited in their current
// (ranked) order; each earlier occurrence of the same entity type costs
// factor*0.1 and each earlier occurrence of the same craft type costs
// factor*0.05. Items falling to diversityDropThreshold or below are
// dropped. Survivors are returned re-sorted by adjusted score.
//
// The input slice is not mutated; a factor of 0 returns a copy in the
// original order.
func ApplyDiversityFilter(items []*entities.RecommendationResult, factor float64) []*entities.RecommendationResult {
	if len(items) == 0 {
		return items
	}

	typeCounts := make(map[entities.EntityType]int)
	craftCounts := make(map[string]int)
	kept := make([]*entities.RecommendationResult, 0, len(items))

	for _, item := range items {
		penalty := float64(typeCounts[item.Type]) * factor * 0.1
		if item.CraftType != "" {
			penalty += float64(craftCounts[item.CraftType]) * factor * 0.05
		}

		adjusted := item.Score - penalty
		if factor > 0 && adjusted <= diversityDropThreshold {
			continue
		}

		copied := *item
		copied.Score = adjusted
		kept = append(kept, &copied)

		typeCounts[item.Type]++
		if item.CraftType != "" {
			craftCounts[item.CraftType]++
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept
}
