package entities

import (
	"time"
)

// TranslationCacheEntry is one cached translation. Entries are keyed by
// (SourceText, SourceLang, TargetLang), refreshed on reuse and evicted
// by the capacity policy of the cache adapter.
type TranslationCacheEntry struct {
	ID             string    `json:"id" db:"id"`
	SourceText     string    `json:"source_text" db:"source_text"`
	SourceLang     string    `json:"source_lang" db:"source_lang"`
	TargetLang     string    `json:"target_lang" db:"target_lang"`
	TranslatedText string    `json:"translated_text" db:"translated_text"`
	Provider       string    `json:"provider" db:"provider"`
	Quality        float64   `json:"quality" db:"quality"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	LastUsed       time.Time `json:"last_used" db:"last_used"`
	UseCount       int       `json:"use_count" db:"use_count"`
}
