package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
	"github.com/heritagecrafts/platform/backend/internal/domain/repositories"
	tsclient "github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter supplies textual relevance scores per entity type.
// The text_match ranking inside Typesense is treated as opaque; scores
// are normalized to [0,1] within each hit set.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements TextSearchRepository
var _ repositories.TextSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// SearchEntities runs a full-text query against one entity collection
func (a *TypesenseAdapter) SearchEntities(ctx context.Context, entityType entities.EntityType, filter repositories.EntitySearchFilter) ([]repositories.TextHit, error) {
	collection, queryBy, filterBy := collectionParams(entityType, filter)
	if collection == "" {
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}

	q := filter.Query
	if q == "" {
		q = "*"
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String(queryBy),
		PerPage: pointer.Int(filter.Limit),
	}
	if filterBy != "" {
		searchParams.FilterBy = pointer.String(filterBy)
	}

	result, err := a.client.Client().Collection(collection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", collection, err)
	}
	if result.Hits == nil {
		return []repositories.TextHit{}, nil
	}

	// Normalize raw text_match scores against the best hit.
	var maxScore int64
	for _, hit := range *result.Hits {
		if hit.TextMatch != nil && *hit.TextMatch > maxScore {
			maxScore = *hit.TextMatch
		}
	}

	hits := make([]repositories.TextHit, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		id, ok := doc["id"].(string)
		if !ok {
			continue
		}

		score := 0.0
		if hit.TextMatch != nil && maxScore > 0 {
			score = float64(*hit.TextMatch) / float64(maxScore)
		}
		hits = append(hits, repositories.TextHit{ID: id, Score: score})
	}
	return hits, nil
}

func collectionParams(entityType entities.EntityType, filter repositories.EntitySearchFilter) (collection, queryBy, filterBy string) {
	var filters []string

	switch entityType {
	case entities.EntityTypeCraftsman:
		collection = tsclient.CraftsmenCollection
		queryBy = "name,bio,specialties"
		filters = append(filters, "is_active:=true")
		if filter.CraftType != "" {
			filters = append(filters, fmt.Sprintf("specialties:=%s", filter.CraftType))
		}
	case entities.EntityTypeCourse:
		collection = tsclient.CoursesCollection
		queryBy = "title,description,craft_type"
		filters = append(filters, "status:=active")
		if filter.CraftType != "" {
			filters = append(filters, fmt.Sprintf("craft_type:=%s", filter.CraftType))
		}
		if filter.Category != "" {
			filters = append(filters, fmt.Sprintf("category:=%s", filter.Category))
		}
	case entities.EntityTypeProduct:
		collection = tsclient.ProductsCollection
		queryBy = "name,description,craft_type"
		filters = append(filters, "status:=active")
		if filter.CraftType != "" {
			filters = append(filters, fmt.Sprintf("craft_type:=%s", filter.CraftType))
		}
		if filter.Category != "" {
			filters = append(filters, fmt.Sprintf("category:=%s", filter.Category))
		}
	case entities.EntityTypeMedia:
		collection = tsclient.MediaCollection
		queryBy = "title,description"
		filters = append(filters, "status:=active")
		if filter.FileType != "" {
			filters = append(filters, fmt.Sprintf("file_type:=%s", filter.FileType))
		}
		if filter.Category != "" {
			filters = append(filters, fmt.Sprintf("category:=%s", filter.Category))
		}
	}

	return collection, queryBy, strings.Join(filters, " && ")
}
