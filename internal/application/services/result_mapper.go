package services

import (
	"fmt"

	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// Mapping from entities to search results. Titles and descriptions are
// resolved to the request language here, once, so everything downstream
// works with plain strings.

func craftsmanToResult(c *entities.Craftsman, lang string) *entities.SearchResult {
	craftType := ""
	if len(c.CraftSpecialties) > 0 {
		craftType = c.CraftSpecialties[0]
	}
	return &entities.SearchResult{
		ID:          c.ID,
		Type:        entities.EntityTypeCraftsman,
		Title:       c.Name.ResolveOrEmpty(lang),
		Description: c.Bio.ResolveOrEmpty(lang),
		Category:    string(entities.EntityTypeCraftsman),
		CraftType:   craftType,
		ImageURL:    c.ImageURL,
		URL:         fmt.Sprintf("/craftsmen/%s", c.ID),
		CreatedAt:   c.CreatedAt,
		Metadata: map[string]any{
			"verificationStatus": c.VerificationStatus,
			"experienceYears":    c.ExperienceYears,
			"workshopLocation":   c.WorkshopLocation,
			"craftSpecialties":   c.CraftSpecialties,
		},
	}
}

func courseToResult(c *entities.Course, lang string) *entities.SearchResult {
	return &entities.SearchResult{
		ID:          c.ID,
		Type:        entities.EntityTypeCourse,
		Title:       c.Title.ResolveOrEmpty(lang),
		Description: c.Description.ResolveOrEmpty(lang),
		Category:    c.Category,
		CraftType:   c.CraftType,
		ImageURL:    c.ImageURL,
		URL:         fmt.Sprintf("/courses/%s", c.ID),
		CreatedAt:   c.CreatedAt,
		Metadata: map[string]any{
			"price":         c.Price,
			"durationHours": c.DurationHours,
			"language":      c.Language,
			"craftsmanId":   c.CraftsmanID,
		},
	}
}

func productToResult(p *entities.Product, lang string) *entities.SearchResult {
	return &entities.SearchResult{
		ID:          p.ID,
		Type:        entities.EntityTypeProduct,
		Title:       p.Name.ResolveOrEmpty(lang),
		Description: p.Description.ResolveOrEmpty(lang),
		Category:    p.Category,
		CraftType:   p.CraftType,
		ImageURL:    p.ImageURL,
		URL:         fmt.Sprintf("/products/%s", p.ID),
		CreatedAt:   p.CreatedAt,
		Metadata: map[string]any{
			"price":       p.Price,
			"inventory":   p.Inventory,
			"craftsmanId": p.CraftsmanID,
		},
	}
}

func mediaToResult(m *entities.MediaItem, lang string) *entities.SearchResult {
	return &entities.SearchResult{
		ID:          m.ID,
		Type:        entities.EntityTypeMedia,
		Title:       m.Title.ResolveOrEmpty(lang),
		Description: m.Description.ResolveOrEmpty(lang),
		Category:    m.Category,
		CraftType:   m.CraftType,
		ImageURL:    m.ThumbnailURL,
		URL:         fmt.Sprintf("/media/%s", m.ID),
		CreatedAt:   m.CreatedAt,
		Metadata: map[string]any{
			"fileType": m.FileType,
			"mediaUrl": m.URL,
		},
	}
}

func resultToRecommendation(r *entities.SearchResult, score float64, reason string) *entities.RecommendationResult {
	return &entities.RecommendationResult{
		ID:          r.ID,
		Type:        r.Type,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		CraftType:   r.CraftType,
		ImageURL:    r.ImageURL,
		URL:         r.URL,
		Score:       score,
		Reason:      reason,
		CreatedAt:   r.CreatedAt,
		Metadata:    r.Metadata,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
