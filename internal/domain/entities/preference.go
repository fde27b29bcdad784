package entities

// PriceRange bounds a user's preferred price band
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls inside the range
func (p *PriceRange) Contains(price float64) bool {
	return price >= p.Min && price <= p.Max
}

// UserPreferenceProfile is derived per request from the behavior event
// log. CraftTypes is ordered highest-affinity first. Never persisted or
// mutated by the engine.
type UserPreferenceProfile struct {
	UserID            string      `json:"user_id"`
	CraftTypes        []string    `json:"craft_types"`
	PreferredLanguage string      `json:"preferred_language"`
	PriceRange        *PriceRange `json:"price_range,omitempty"`
	Interests         []string    `json:"interests,omitempty"`
	RecentViews       []string    `json:"recent_views,omitempty"`
}

// CraftTypeRank returns the 0-based affinity rank of craftType and
// whether it appears in the profile at all.
func (p *UserPreferenceProfile) CraftTypeRank(craftType string) (int, bool) {
	for i, ct := range p.CraftTypes {
		if ct == craftType {
			return i, true
		}
	}
	return 0, false
}
