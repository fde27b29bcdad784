package entities

import (
	"time"
)

// Behavior event types
const (
	EventTypeView     = "view"
	EventTypeClick    = "click"
	EventTypeSearch   = "search"
	EventTypePurchase = "purchase"
	EventTypeBookmark = "bookmark"
)

// EngagementEventTypes are the event types counted towards popularity and
// preference signals.
var EngagementEventTypes = []string{
	EventTypeView, EventTypeClick, EventTypePurchase, EventTypeBookmark,
}

// TrendingEventTypes are the event types counted in the trending window.
var TrendingEventTypes = []string{
	EventTypeView, EventTypeClick, EventTypeBookmark,
}

// BehaviorEvent is one immutable record in the append-only user behavior
// log. The engine only ever reads these; writes happen through the
// tracking service.
type BehaviorEvent struct {
	ID         string            `json:"id" db:"id"`
	UserID     string            `json:"user_id,omitempty" db:"user_id"`
	EventType  string            `json:"event_type" db:"event_type"`
	EntityType EntityType        `json:"entity_type" db:"entity_type"`
	EntityID   string            `json:"entity_id" db:"entity_id"`
	Metadata   map[string]string `json:"metadata,omitempty" db:"-"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}

// EntityCount pairs an entity ID with its event count in some window
type EntityCount struct {
	EntityID string
	Count    int
}

// QueryCount pairs a query (or category) string with its frequency
type QueryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DayCount pairs a calendar day with its search count
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}
