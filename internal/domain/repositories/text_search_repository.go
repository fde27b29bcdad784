package repositories

import (
	"context"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// TextHit is one full-text match with a relevance score normalized to
// [0,1] within the hit set.
type TextHit struct {
	ID    string
	Score float64
}

// TextSearchRepository is the opaque textual-relevance capability of the
// persistent store. Implementations rank candidates of one entity type
// for a query; the engine treats the scoring algorithm as a black box.
type TextSearchRepository interface {
	SearchEntities(ctx context.Context, entityType entities.EntityType, filter EntitySearchFilter) ([]TextHit, error)
}
