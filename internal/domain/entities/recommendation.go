package entities

import (
	"time"
)

// Recommendation section types
type SectionType string

const (
	SectionPersonal SectionType = "personal"
	SectionSimilar  SectionType = "similar"
	SectionTrending SectionType = "trending"
	SectionCategory SectionType = "category"
	SectionLocation SectionType = "location"
	SectionPopular  SectionType = "popular"
)

// RecommendationContext describes where the user is and what is known
// about them when recommendations are requested. Request-scoped.
type RecommendationContext struct {
	UserID            string     `json:"user_id,omitempty"`
	CurrentPage       string     `json:"current_page"`
	CurrentEntityID   string     `json:"current_entity_id,omitempty"`
	CurrentEntityType EntityType `json:"current_entity_type,omitempty"`
	UserLocation      string     `json:"user_location,omitempty"`
}

// RecommendationResult is one recommended item with a final score in
// [0,1] and a human-readable reason.
type RecommendationResult struct {
	ID          string         `json:"id"`
	Type        EntityType     `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category"`
	CraftType   string         `json:"craft_type,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	URL         string         `json:"url"`
	Score       float64        `json:"score"`
	Reason      string         `json:"reason"`
	CreatedAt   time.Time      `json:"created_at"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// RecommendationSection is a named, ordered group of recommendations
type RecommendationSection struct {
	Title    string                  `json:"title"`
	Subtitle string                  `json:"subtitle,omitempty"`
	Type     SectionType             `json:"type"`
	Items    []*RecommendationResult `json:"items"`
	Reason   string                  `json:"reason"`
}
