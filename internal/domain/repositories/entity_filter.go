package repositories

// EntitySearchFilter is the generic per-entity filter each search adapter
// translates into an entity-specific fetch. Text matching is
// case-insensitive substring over the entity's text fields.
type EntitySearchFilter struct {
	Query     string
	Category  string
	CraftType string
	FileType  string
	Language  string
	Limit     int
}
