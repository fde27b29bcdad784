package entities

import (
	"fmt"
	"time"
)

// EntityType identifies which kind of content a result refers to
type EntityType string

const (
	EntityTypeCraftsman EntityType = "craftsman"
	EntityTypeCourse    EntityType = "course"
	EntityTypeProduct   EntityType = "product"
	EntityTypeMedia     EntityType = "media"
)

// AllEntityTypes lists the closed set of searchable entity types in
// tie-break priority order.
var AllEntityTypes = []EntityType{
	EntityTypeCraftsman,
	EntityTypeCourse,
	EntityTypeProduct,
	EntityTypeMedia,
}

// TieBreakPriority returns the fixed cross-entity ordering used when sort
// keys are equal. Lower is higher priority.
func (t EntityType) TieBreakPriority() int {
	for i, et := range AllEntityTypes {
		if et == t {
			return i
		}
	}
	return len(AllEntityTypes)
}

// Valid reports whether t is one of the four closed variants
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeCraftsman, EntityTypeCourse, EntityTypeProduct, EntityTypeMedia:
		return true
	}
	return false
}

// Sort keys
const (
	SortByRelevance  = "relevance"
	SortByDate       = "date"
	SortByPopularity = "popularity"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// SearchQuery is an immutable, request-scoped search request
type SearchQuery struct {
	Query     string `json:"query,omitempty"`
	Category  string `json:"category,omitempty"`
	CraftType string `json:"craft_type,omitempty"`
	Language  string `json:"language,omitempty"`
	FileType  string `json:"file_type,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// ApplyDefaults fills unset pagination, sorting and language fields
func (q *SearchQuery) ApplyDefaults(defaultLimit int, defaultLanguage string) {
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	if q.Language == "" {
		q.Language = defaultLanguage
	}
	if q.SortBy == "" {
		q.SortBy = SortByRelevance
	}
	if q.SortOrder == "" {
		q.SortOrder = SortOrderDesc
	}
}

// Validate rejects malformed pagination and unsupported sort keys
func (q *SearchQuery) Validate() error {
	if q.Limit < 1 || q.Limit > 100 {
		return fmt.Errorf("limit must be between 1 and 100, got %d", q.Limit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", q.Offset)
	}
	switch q.SortBy {
	case SortByRelevance, SortByDate, SortByPopularity:
	default:
		return fmt.Errorf("unsupported sort key %q", q.SortBy)
	}
	switch q.SortOrder {
	case SortOrderAsc, SortOrderDesc:
	default:
		return fmt.Errorf("unsupported sort order %q", q.SortOrder)
	}
	return nil
}

// SearchResult is one ranked entry in a cross-entity search response
type SearchResult struct {
	ID             string         `json:"id"`
	Type           EntityType     `json:"type"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Category       string         `json:"category"`
	CraftType      string         `json:"craft_type,omitempty"`
	ImageURL       string         `json:"image_url,omitempty"`
	URL            string         `json:"url"`
	RelevanceScore float64        `json:"relevance_score,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// MetadataFloat reads a numeric metadata field, tolerating int and float
func (r *SearchResult) MetadataFloat(key string) (float64, bool) {
	if r.Metadata == nil {
		return 0, false
	}
	switch v := r.Metadata[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// MetadataString reads a string metadata field
func (r *SearchResult) MetadataString(key string) string {
	if r.Metadata == nil {
		return ""
	}
	if v, ok := r.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// Facet is a count of results grouped by a categorical dimension
type Facet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SearchFacets groups the facet dimensions returned with every search
type SearchFacets struct {
	Categories []Facet `json:"categories"`
	CraftTypes []Facet `json:"craft_types"`
	FileTypes  []Facet `json:"file_types"`
}

// SearchResponse is the paginated result of one search request
type SearchResponse struct {
	Results []*SearchResult `json:"results"`
	Total   int             `json:"total"`
	Facets  SearchFacets    `json:"facets"`
	Query   SearchQuery     `json:"query"`
}
