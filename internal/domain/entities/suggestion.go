package entities

// Suggestion source types
const (
	SuggestionSourceHistory   = "history"
	SuggestionSourceCategory  = "category"
	SuggestionSourceCraftType = "craft_type"
	SuggestionSourceLocation  = "location"
)

// Suggestion is one autocomplete candidate
type Suggestion struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Score  int    `json:"score,omitempty"`
}

// SuggestionResponse bundles the three independent autocomplete outputs
type SuggestionResponse struct {
	Suggestions    []Suggestion `json:"suggestions"`
	PopularQueries []string     `json:"popular_queries"`
	RecentSearches []string     `json:"recent_searches"`
}
