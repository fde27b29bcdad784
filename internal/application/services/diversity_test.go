package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

func rec(id string, entityType entities.EntityType, craftType string, score float64) *entities.RecommendationResult {
	return &entities.RecommendationResult{
		ID: id, Type: entityType, CraftType: craftType, Score: score,
	}
}

func TestApplyDiversityFilter_PenalisesRepeats(t *testing.T) {
	items := []*entities.RecommendationResult{
		rec("a", entities.EntityTypeCourse, "mahjong", 0.9),
		rec("b", entities.EntityTypeCourse, "mahjong", 0.9),
		rec("c", entities.EntityTypeProduct, "neon", 0.9),
	}

	filtered := ApplyDiversityFilter(items, 1.0)

	assert.Len(t, filtered, 3)
	// First occurrences are unpenalised.
	assert.Equal(t, "a", filtered[0].ID)
	assert.InDelta(t, 0.9, filtered[0].Score, 1e-9)
	// "c" repeats neither type nor craft, so it outranks "b".
	assert.Equal(t, "c", filtered[1].ID)
	assert.InDelta(t, 0.9, filtered[1].Score, 1e-9)
	// "b" pays 0.1 for the type repeat and 0.05 for the craft repeat.
	assert.Equal(t, "b", filtered[2].ID)
	assert.InDelta(t, 0.75, filtered[2].Score, 1e-9)
}

func TestApplyDiversityFilter_DropsBelowThreshold(t *testing.T) {
	items := []*entities.RecommendationResult{
		rec("a", entities.EntityTypeCourse, "mahjong", 0.9),
		rec("b", entities.EntityTypeCourse, "mahjong", 0.40),
	}

	filtered := ApplyDiversityFilter(items, 1.0)

	// 0.40 - 0.15 = 0.25, at or below 0.3, dropped.
	assert.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].ID)
}

func TestApplyDiversityFilter_ZeroFactorIsIdentity(t *testing.T) {
	items := []*entities.RecommendationResult{
		rec("a", entities.EntityTypeCourse, "mahjong", 0.2),
		rec("b", entities.EntityTypeCourse, "mahjong", 0.2),
	}

	filtered := ApplyDiversityFilter(items, 0)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].ID)
	assert.Equal(t, 0.2, filtered[0].Score)
}

func TestApplyDiversityFilter_DoesNotMutateInput(t *testing.T) {
	items := []*entities.RecommendationResult{
		rec("a", entities.EntityTypeCourse, "mahjong", 0.9),
		rec("b", entities.EntityTypeCourse, "mahjong", 0.9),
	}

	_ = ApplyDiversityFilter(items, 1.0)

	assert.Equal(t, 0.9, items[0].Score)
	assert.Equal(t, 0.9, items[1].Score)
}

func TestApplyDiversityFilter_SecondPassKeepsHighScorers(t *testing.T) {
	items := []*entities.RecommendationResult{
		rec("a", entities.EntityTypeCourse, "mahjong", 0.95),
		rec("b", entities.EntityTypeProduct, "neon", 0.9),
		rec("c", entities.EntityTypeCraftsman, "porcelain", 0.85),
	}

	once := ApplyDiversityFilter(items, 0.5)
	twice := ApplyDiversityFilter(once, 0.5)

	assert.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].ID, twice[i].ID)
	}
}

func TestApplyDiversityFilter_Empty(t *testing.T) {
	assert.Empty(t, ApplyDiversityFilter(nil, 1.0))
}
