package entities

import (
	"time"
)

// MediaItem represents a media resource (video, image, audio, document)
// documenting a craft or craftsman
type MediaItem struct {
	ID           string           `json:"id" db:"id"`
	Title        MultilingualText `json:"title" db:"-"`
	Description  MultilingualText `json:"description,omitempty" db:"-"`
	FileType     string           `json:"file_type" db:"file_type"`
	Category     string           `json:"category" db:"category"`
	CraftType    string           `json:"craft_type,omitempty" db:"craft_type"`
	URL          string           `json:"url" db:"url"`
	ThumbnailURL string           `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Status       string           `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}
