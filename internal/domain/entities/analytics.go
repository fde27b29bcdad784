package entities

import (
	"time"
)

// SearchAnalytics is a read-only report over the behavior event log for
// a [Start, End) window.
type SearchAnalytics struct {
	Start            time.Time    `json:"start"`
	End              time.Time    `json:"end"`
	TotalSearches    int          `json:"total_searches"`
	TopQueries       []QueryCount `json:"top_queries"`
	TopCategories    []QueryCount `json:"top_categories"`
	SearchesByDay    []DayCount   `json:"searches_by_day"`
	ClickThroughRate float64      `json:"click_through_rate"`
}
