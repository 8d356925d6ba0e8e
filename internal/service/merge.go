package service

import (
    "strings"
    "time"

    "github.com/edirne-events/events-api/internal/model"
)

// Accepted spellings for date and time overrides.  Stored values are always
// normalised to "2006-01-02" and "15:04".
var (
    dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", "02.01.2006"}
    timeLayouts = []string{"15:04", "15:04:05"}
)

// ParseDate normalises a date string to "2006-01-02".
func ParseDate(s string) (string, error) {
    s = strings.TrimSpace(s)
    for _, layout := range dateLayouts {
        if t, err := time.Parse(layout, s); err == nil {
            return t.Format("2006-01-02"), nil
        }
    }
    return "", invalid("Geçersiz tarih formatı: %s", s)
}

// ParseClock normalises a time-of-day string to "15:04".
func ParseClock(s string) (string, error) {
    s = strings.TrimSpace(s)
    for _, layout := range timeLayouts {
        if t, err := time.Parse(layout, s); err == nil {
            return t.Format("15:04"), nil
        }
    }
    return "", invalid("Geçersiz saat formatı: %s", s)
}

// given reports whether an optional string override was supplied.  Empty
// and whitespace-only values count as absent.
func given(s *string) bool { return s != nil && strings.TrimSpace(*s) != "" }

func pickStr(override *string, base string) string {
    if given(override) {
        return strings.TrimSpace(*override)
    }
    return base
}

func pickOpt(override, base *string) *string {
    if given(override) {
        v := strings.TrimSpace(*override)
        return &v
    }
    return base
}

func pickFloat(override, base *float64) *float64 {
    if override != nil {
        return override
    }
    return base
}

func pickInt(override, base *int) *int {
    if override != nil {
        return override
    }
    return base
}

func pickDate(override *string, base string) (string, error) {
    if !given(override) {
        return base, nil
    }
    return ParseDate(*override)
}

func pickOptDate(override, base *string) (*string, error) {
    if !given(override) {
        return base, nil
    }
    d, err := ParseDate(*override)
    if err != nil {
        return nil, err
    }
    return &d, nil
}

func pickOptClock(override, base *string) (*string, error) {
    if !given(override) {
        return base, nil
    }
    t, err := ParseClock(*override)
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// MergeEventFields applies d on top of base field by field: a supplied,
// non-empty override wins, anything else keeps the stored value.  Date and
// time overrides are re-parsed and normalised.  Location falls back from
// the location override to the venue override, then to the stored
// location, then to the merged address.
func MergeEventFields(base model.EventFields, d model.EventDraft) (model.EventFields, error) {
    var (
        out = base
        err error
    )
    out.Title = pickStr(d.Title, base.Title)
    out.Description = pickOpt(d.Description, base.Description)
    out.Address = pickOpt(d.Address, base.Address)

    switch {
    case given(d.Location):
        out.Location = strings.TrimSpace(*d.Location)
    case given(d.Venue):
        out.Location = strings.TrimSpace(*d.Venue)
    case strings.TrimSpace(base.Location) != "":
        out.Location = base.Location
    case out.Address != nil:
        out.Location = *out.Address
    }

    if out.StartDate, err = pickDate(d.StartDate, base.StartDate); err != nil {
        return base, err
    }
    if out.EndDate, err = pickOptDate(d.EndDate, base.EndDate); err != nil {
        return base, err
    }
    if out.StartTime, err = pickOptClock(d.StartTime, base.StartTime); err != nil {
        return base, err
    }
    if out.EndTime, err = pickOptClock(d.EndTime, base.EndTime); err != nil {
        return base, err
    }

    out.Latitude = pickFloat(d.Latitude, base.Latitude)
    out.Longitude = pickFloat(d.Longitude, base.Longitude)
    out.ImageURL = pickOpt(d.ImageURL, base.ImageURL)
    out.ImageURL2 = pickOpt(d.ImageURL2, base.ImageURL2)
    out.ImageURL3 = pickOpt(d.ImageURL3, base.ImageURL3)
    if d.Media != nil {
        out.Media = *d.Media
    }
    out.OrganizerName = pickOpt(d.OrganizerName, base.OrganizerName)
    out.OrganizerContact = pickOpt(d.OrganizerContact, base.OrganizerContact)
    out.Capacity = pickInt(d.Capacity, base.Capacity)
    out.WebsiteURL = pickOpt(d.WebsiteURL, base.WebsiteURL)
    out.TicketURL = pickOpt(d.TicketURL, base.TicketURL)

    if err := checkEventFields(out); err != nil {
        return base, err
    }
    return out, nil
}

// checkEventFields enforces what every stored event needs regardless of
// where it came from.
func checkEventFields(f model.EventFields) error {
    if strings.TrimSpace(f.Title) == "" {
        return invalid("Etkinlik başlığı zorunludur")
    }
    if strings.TrimSpace(f.StartDate) == "" {
        return invalid("Başlangıç tarihi zorunludur")
    }
    // Both are normalised "2006-01-02", so string order is date order.
    if f.EndDate != nil && *f.EndDate < f.StartDate {
        return invalid("Bitiş tarihi başlangıç tarihinden önce olamaz")
    }
    return nil
}

// MergePrice returns the override when given, else the stored price, else "0".
func MergePrice(override, base *string) string {
    if given(override) {
        return strings.TrimSpace(*override)
    }
    if given(base) {
        return strings.TrimSpace(*base)
    }
    return "0"
}

// MergeVenueFields applies d on top of base with the same fallback rule as
// MergeEventFields.  A category id may arrive alone or as the first element
// of a list.
func MergeVenueFields(base model.VenueFields, d model.VenueDraft) (model.VenueFields, error) {
    out := base
    out.Name = pickStr(d.Name, base.Name)
    out.Description = pickOpt(d.Description, base.Description)
    out.Address = pickStr(d.Address, base.Address)
    out.Phone = pickOpt(d.Phone, base.Phone)
    out.Email = pickOpt(d.Email, base.Email)
    out.Website = pickOpt(d.Website, base.Website)
    if id := firstCategory(d.CategoryID, d.CategoryIDs); id != nil {
        out.CategoryID = id
    }
    out.Capacity = pickInt(d.Capacity, base.Capacity)
    if d.Amenities != nil && strings.TrimSpace(string(*d.Amenities)) != "" {
        out.Amenities = *d.Amenities
    }
    out.Latitude = pickFloat(d.Latitude, base.Latitude)
    out.Longitude = pickFloat(d.Longitude, base.Longitude)
    out.ImageURL = pickOpt(d.ImageURL, base.ImageURL)

    if strings.TrimSpace(out.Name) == "" {
        return base, invalid("Mekan adı zorunludur")
    }
    if strings.TrimSpace(out.Address) == "" {
        return base, invalid("Adres zorunludur")
    }
    return out, nil
}

// firstCategory implements the single-category rule for venues.
func firstCategory(id *uint64, ids []uint64) *uint64 {
    if id != nil && *id > 0 {
        return id
    }
    if len(ids) > 0 && ids[0] > 0 {
        v := ids[0]
        return &v
    }
    return nil
}

func boolOr(override *bool, base bool) bool {
    if override != nil {
        return *override
    }
    return base
}
