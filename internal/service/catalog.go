package service

import (
    "context"
    "database/sql"
    "sort"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/utils"
)

// DefaultNearbyRadiusKm is used when /events/nearby gets no radius.
const DefaultNearbyRadiusKm = 10.0

// Catalog covers admin edits of live events and venues and the distance
// search.  Moderation creates live rows; Catalog changes them afterwards.
type Catalog struct {
    db     *sql.DB
    events *repository.EventRepo
    venues *repository.VenueRepo
}

func NewCatalog(db *sql.DB, events *repository.EventRepo, venues *repository.VenueRepo) *Catalog {
    return &Catalog{db: db, events: events, venues: venues}
}

// UpdateEvent applies a partial edit to a live event.  Categories are
// replaced only when the draft carries them.
func (c *Catalog) UpdateEvent(ctx context.Context, id uint64, d model.EventDraft) (*model.Event, error) {
    tx, err := c.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    cur, err := c.events.GetByIDTx(ctx, tx, id)
    if err != nil {
        return nil, err
    }
    fields, err := MergeEventFields(cur.EventFields, d)
    if err != nil {
        return nil, err
    }
    price := MergePrice(d.Price, &cur.Price)
    if err := c.events.UpdateTx(ctx, tx, id, fields, price, boolOr(d.IsFeatured, cur.IsFeatured)); err != nil {
        return nil, err
    }
    if d.CategoryIDs != nil {
        cats := dedupe(d.CategoryIDs)
        if err := CheckCategoryCount(cats); err != nil {
            return nil, err
        }
        if err := c.events.ReplaceCategoriesTx(ctx, tx, id, cats); err != nil {
            return nil, err
        }
    }
    out, err := c.events.GetByIDTx(ctx, tx, id)
    if err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return out, nil
}

// CreateVenue adds a venue directly from the admin panel.
func (c *Catalog) CreateVenue(ctx context.Context, d model.VenueDraft) (*model.Venue, error) {
    fields, err := MergeVenueFields(model.VenueFields{}, d)
    if err != nil {
        return nil, err
    }
    id, err := c.venues.Create(ctx, fields, boolOr(d.IsActive, true), boolOr(d.IsFeatured, false))
    if err != nil {
        return nil, err
    }
    return c.venues.GetByID(ctx, id)
}

// UpdateVenue applies a partial edit to a live venue.
func (c *Catalog) UpdateVenue(ctx context.Context, id uint64, d model.VenueDraft) (*model.Venue, error) {
    cur, err := c.venues.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    fields, err := MergeVenueFields(cur.VenueFields, d)
    if err != nil {
        return nil, err
    }
    if err := c.venues.Update(ctx, id, fields, boolOr(d.IsActive, cur.IsActive), boolOr(d.IsFeatured, cur.IsFeatured)); err != nil {
        return nil, err
    }
    return c.venues.GetByID(ctx, id)
}

// NearbyEvent is an event with its distance from the search point.
type NearbyEvent struct {
    model.Event
    DistanceKm float64 `json:"distanceKm"`
}

// Nearby returns active events within radiusKm of (lat, lng), closest first.
func (c *Catalog) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyEvent, error) {
    if radiusKm <= 0 {
        radiusKm = DefaultNearbyRadiusKm
    }
    events, err := c.events.ListWithCoordinates(ctx)
    if err != nil {
        return nil, err
    }
    return WithinRadius(events, lat, lng, radiusKm), nil
}

// WithinRadius filters and orders events by distance.  Events without
// coordinates are skipped.
func WithinRadius(events []model.Event, lat, lng, radiusKm float64) []NearbyEvent {
    out := make([]NearbyEvent, 0)
    for _, e := range events {
        if e.Latitude == nil || e.Longitude == nil {
            continue
        }
        d := utils.DistanceKm(lat, lng, *e.Latitude, *e.Longitude)
        if d <= radiusKm {
            out = append(out, NearbyEvent{Event: e, DistanceKm: d})
        }
    }
    sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
    return out
}
