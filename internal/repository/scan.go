package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "strings"

    "github.com/edirne-events/events-api/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx so read helpers can run
// inside or outside a transaction.
type querier interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
    Scan(dest ...any) error
}

func strPtr(ns sql.NullString) *string {
    if !ns.Valid {
        return nil
    }
    s := ns.String
    return &s
}

func floatPtr(nf sql.NullFloat64) *float64 {
    if !nf.Valid {
        return nil
    }
    f := nf.Float64
    return &f
}

func intPtr(ni sql.NullInt64) *int {
    if !ni.Valid {
        return nil
    }
    n := int(ni.Int64)
    return &n
}

func uintPtr(ni sql.NullInt64) *uint64 {
    if !ni.Valid {
        return nil
    }
    n := uint64(ni.Int64)
    return &n
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
    if n <= 0 {
        return ""
    }
    return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// eventFieldColumns lists the EventFields columns in the order produced by
// eventFieldArgs.  It is shared by events and pending_events.
const eventFieldColumns = `title, description, location, address, start_date, end_date, start_time, end_time,
    latitude, longitude, image_url, image_url2, image_url3, media,
    organizer_name, organizer_contact, capacity, website_url, ticket_url`

const eventFieldCount = 19

// eventFieldSelect selects EventFields with dates and times formatted as
// wall-clock strings.  Callers alias the table as t.
const eventFieldSelect = `t.title, t.description, t.location, t.address,
    DATE_FORMAT(t.start_date, '%Y-%m-%d'), DATE_FORMAT(t.end_date, '%Y-%m-%d'),
    TIME_FORMAT(t.start_time, '%H:%i'), TIME_FORMAT(t.end_time, '%H:%i'),
    t.latitude, t.longitude, t.image_url, t.image_url2, t.image_url3, t.media,
    t.organizer_name, t.organizer_contact, t.capacity, t.website_url, t.ticket_url`

func eventFieldArgs(f model.EventFields) ([]any, error) {
    var media any
    if len(f.Media) > 0 {
        b, err := json.Marshal(f.Media)
        if err != nil {
            return nil, err
        }
        media = string(b)
    }
    return []any{
        f.Title, f.Description, f.Location, f.Address, f.StartDate, f.EndDate, f.StartTime, f.EndTime,
        f.Latitude, f.Longitude, f.ImageURL, f.ImageURL2, f.ImageURL3, media,
        f.OrganizerName, f.OrganizerContact, f.Capacity, f.WebsiteURL, f.TicketURL,
    }, nil
}

// eventFieldScan holds nullable scan targets for eventFieldSelect.
type eventFieldScan struct {
    title, location                                sql.NullString
    description, address                           sql.NullString
    startDate, endDate, startTime, endTime         sql.NullString
    lat, lng                                       sql.NullFloat64
    img1, img2, img3, media                        sql.NullString
    orgName, orgContact                            sql.NullString
    capacity                                       sql.NullInt64
    website, ticket                                sql.NullString
}

func (s *eventFieldScan) dest() []any {
    return []any{
        &s.title, &s.description, &s.location, &s.address,
        &s.startDate, &s.endDate, &s.startTime, &s.endTime,
        &s.lat, &s.lng, &s.img1, &s.img2, &s.img3, &s.media,
        &s.orgName, &s.orgContact, &s.capacity, &s.website, &s.ticket,
    }
}

func (s *eventFieldScan) apply(f *model.EventFields) {
    f.Title = s.title.String
    f.Description = strPtr(s.description)
    f.Location = s.location.String
    f.Address = strPtr(s.address)
    f.StartDate = s.startDate.String
    f.EndDate = strPtr(s.endDate)
    f.StartTime = strPtr(s.startTime)
    f.EndTime = strPtr(s.endTime)
    f.Latitude = floatPtr(s.lat)
    f.Longitude = floatPtr(s.lng)
    f.ImageURL = strPtr(s.img1)
    f.ImageURL2 = strPtr(s.img2)
    f.ImageURL3 = strPtr(s.img3)
    f.Media = decodeMedia(s.media)
    f.OrganizerName = strPtr(s.orgName)
    f.OrganizerContact = strPtr(s.orgContact)
    f.Capacity = intPtr(s.capacity)
    f.WebsiteURL = strPtr(s.website)
    f.TicketURL = strPtr(s.ticket)
}

// decodeMedia tolerates malformed legacy values by returning an empty list.
func decodeMedia(ns sql.NullString) []model.MediaItem {
    if !ns.Valid || strings.TrimSpace(ns.String) == "" {
        return []model.MediaItem{}
    }
    var items []model.MediaItem
    if err := json.Unmarshal([]byte(ns.String), &items); err != nil {
        return []model.MediaItem{}
    }
    return items
}

// venueFieldColumns lists the VenueFields columns in the order produced by
// venueFieldArgs.  It is shared by venues and pending_venues.
const venueFieldColumns = `name, description, address, phone, email, website, category_id, capacity,
    amenities, latitude, longitude, image_url`

const venueFieldCount = 12

const venueFieldSelect = `t.name, t.description, t.address, t.phone, t.email, t.website, t.category_id,
    t.capacity, t.amenities, t.latitude, t.longitude, t.image_url`

func venueFieldArgs(f model.VenueFields) []any {
    var amenities any
    if f.Amenities != "" {
        amenities = string(f.Amenities)
    }
    return []any{
        f.Name, f.Description, f.Address, f.Phone, f.Email, f.Website, f.CategoryID, f.Capacity,
        amenities, f.Latitude, f.Longitude, f.ImageURL,
    }
}

type venueFieldScan struct {
    name, address                 sql.NullString
    description, phone, email     sql.NullString
    website                       sql.NullString
    categoryID, capacity          sql.NullInt64
    amenities                     sql.NullString
    lat, lng                      sql.NullFloat64
    image                         sql.NullString
}

func (s *venueFieldScan) dest() []any {
    return []any{
        &s.name, &s.description, &s.address, &s.phone, &s.email, &s.website, &s.categoryID,
        &s.capacity, &s.amenities, &s.lat, &s.lng, &s.image,
    }
}

func (s *venueFieldScan) apply(f *model.VenueFields) {
    f.Name = s.name.String
    f.Description = strPtr(s.description)
    f.Address = s.address.String
    f.Phone = strPtr(s.phone)
    f.Email = strPtr(s.email)
    f.Website = strPtr(s.website)
    f.CategoryID = uintPtr(s.categoryID)
    f.Capacity = intPtr(s.capacity)
    f.Amenities = model.Amenities(s.amenities.String)
    f.Latitude = floatPtr(s.lat)
    f.Longitude = floatPtr(s.lng)
    f.ImageURL = strPtr(s.image)
}

// uintArgs converts ids to driver arguments for IN (...) clauses.
func uintArgs(ids []uint64) []any {
    out := make([]any, 0, len(ids))
    for _, id := range ids {
        out = append(out, id)
    }
    return out
}
