package model

// Category classifies events (many-to-many through event_categories).
// Name is the machine key; DisplayName is what the UI shows.
type Category struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    DisplayName string  `json:"displayName"`
    Color       *string `json:"color"`
    Icon        *string `json:"icon"`
    SortOrder   int     `json:"sortOrder"`
    IsActive    bool    `json:"isActive"`
}

// VenueCategory classifies venues.  It has the same shape as Category but
// lives in its own table and is referenced by venues.category_id.
type VenueCategory Category
