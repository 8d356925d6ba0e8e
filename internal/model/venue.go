package model

import (
    "encoding/json"
    "strings"
    "time"
)

// VenueFields holds the content shared by venues and pending venues.
// Venues reference a single venue category; there is no join table.
type VenueFields struct {
    Name        string    `json:"name"`
    Description *string   `json:"description"`
    Address     string    `json:"address"`
    Phone       *string   `json:"phone"`
    Email       *string   `json:"email"`
    Website     *string   `json:"website"`
    CategoryID  *uint64   `json:"categoryId"`
    Capacity    *int      `json:"capacity"`
    Amenities   Amenities `json:"amenities"`
    Latitude    *float64  `json:"latitude"`
    Longitude   *float64  `json:"longitude"`
    ImageURL    *string   `json:"imageUrl"`
}

// Venue is a published place (row in `venues`).
type Venue struct {
    ID uint64 `json:"id"`
    VenueFields
    Rating     float64   `json:"rating"`
    IsActive   bool      `json:"isActive"`
    IsFeatured bool      `json:"isFeatured"`
    CreatedAt  time.Time `json:"createdAt"`
    UpdatedAt  time.Time `json:"updatedAt"`
}

// PendingVenue is a venue awaiting moderation (row in `pending_venues`).
type PendingVenue struct {
    ID uint64 `json:"id"`
    VenueFields
    Submitter
    Status    string    `json:"status"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

// VenueDraft carries optional overrides for a venue.  CategoryIDs is
// accepted for clients that send an array; only the first element is used.
type VenueDraft struct {
    Name        *string    `json:"name"`
    Description *string    `json:"description"`
    Address     *string    `json:"address"`
    Phone       *string    `json:"phone"`
    Email       *string    `json:"email"`
    Website     *string    `json:"website"`
    CategoryID  *uint64    `json:"categoryId"`
    CategoryIDs []uint64   `json:"categoryIds"`
    Capacity    *int       `json:"capacity"`
    Amenities   *Amenities `json:"amenities"`
    Latitude    *float64   `json:"latitude"`
    Longitude   *float64   `json:"longitude"`
    ImageURL    *string    `json:"imageUrl"`
    IsFeatured  *bool      `json:"isFeatured"`
    IsActive    *bool      `json:"isActive"`
}

// Amenities is stored as free text.  Clients may send either a string or a
// list of strings; a list is kept JSON-encoded so it round-trips.
type Amenities string

// UnmarshalJSON accepts "wifi, parking" as well as ["wifi","parking"].
func (a *Amenities) UnmarshalJSON(b []byte) error {
    trimmed := strings.TrimSpace(string(b))
    if trimmed == "null" {
        *a = ""
        return nil
    }
    if strings.HasPrefix(trimmed, "[") {
        var items []string
        if err := json.Unmarshal(b, &items); err != nil {
            return err
        }
        enc, err := json.Marshal(items)
        if err != nil {
            return err
        }
        *a = Amenities(enc)
        return nil
    }
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return err
    }
    *a = Amenities(s)
    return nil
}

// List returns the amenities as individual entries regardless of how they
// were stored.
func (a Amenities) List() []string {
    s := strings.TrimSpace(string(a))
    if s == "" {
        return nil
    }
    if strings.HasPrefix(s, "[") {
        var items []string
        if err := json.Unmarshal([]byte(s), &items); err == nil {
            return items
        }
    }
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
