package service

import (
    "context"
    "database/sql"
    "log/slog"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/queue"
    "github.com/edirne-events/events-api/internal/repository"
)

// Moderation turns pending submissions into live rows or discards them.
//
// Every transition runs in one transaction that starts by locking the
// pending row (SELECT ... FOR UPDATE).  Two admins approving the same id
// therefore serialise: the first copies and deletes the row, the second
// wakes up to find it gone and gets repository.ErrNotFound.  Nothing is
// left half-done if any statement fails.
type Moderation struct {
    db            *sql.DB
    events        *repository.EventRepo
    pendingEvents *repository.PendingEventRepo
    venues        *repository.VenueRepo
    pendingVenues *repository.PendingVenueRepo
    pub           Publisher
    log           *slog.Logger
}

func NewModeration(
    db *sql.DB,
    events *repository.EventRepo,
    pendingEvents *repository.PendingEventRepo,
    venues *repository.VenueRepo,
    pendingVenues *repository.PendingVenueRepo,
    pub Publisher,
    log *slog.Logger,
) *Moderation {
    return &Moderation{
        db: db, events: events, pendingEvents: pendingEvents,
        venues: venues, pendingVenues: pendingVenues,
        pub: pub, log: orDefault(log),
    }
}

// inTx runs fn inside a transaction and commits when it returns nil.
func (m *Moderation) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
    tx, err := m.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(tx); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ListPendingEvents returns every pending event, oldest first.
func (m *Moderation) ListPendingEvents(ctx context.Context) ([]model.PendingEvent, error) {
    return m.pendingEvents.List(ctx)
}

// GetPendingEvent returns one pending event or repository.ErrNotFound.
func (m *Moderation) GetPendingEvent(ctx context.Context, id uint64) (*model.PendingEvent, error) {
    return m.pendingEvents.GetByID(ctx, id)
}

// ApproveEvent publishes pending event id with the admin's overrides
// applied.  The live event is created active, its categories are the
// pending ones (or the override list when one is given) and the pending
// row plus its links are removed.  It returns the new live event.
func (m *Moderation) ApproveEvent(ctx context.Context, id uint64, d model.EventDraft) (*model.Event, error) {
    var (
        live    *model.Event
        pending *model.PendingEvent
    )
    err := m.inTx(ctx, func(tx *sql.Tx) error {
        p, err := m.pendingEvents.LockTx(ctx, tx, id)
        if err != nil {
            return err
        }
        pending = p
        fields, err := MergeEventFields(p.EventFields, d)
        if err != nil {
            return err
        }
        cats := p.CategoryIDs
        if d.CategoryIDs != nil {
            cats = dedupe(d.CategoryIDs)
            if err := CheckCategoryCount(cats); err != nil {
                return err
            }
        }
        liveID, err := m.events.CreateTx(ctx, tx, fields, MergePrice(d.Price, p.Price), boolOr(d.IsFeatured, false))
        if err != nil {
            return err
        }
        if err := m.events.InsertCategoriesTx(ctx, tx, liveID, cats); err != nil {
            return err
        }
        if err := m.pendingEvents.DeleteCategoriesTx(ctx, tx, id); err != nil {
            return err
        }
        if err := m.pendingEvents.DeleteTx(ctx, tx, id); err != nil {
            return err
        }
        live, err = m.events.GetByIDTx(ctx, tx, liveID)
        return err
    })
    if err != nil {
        return nil, err
    }
    m.log.Info("pending event approved", "pending_id", id, "event_id", live.ID)
    publish(ctx, m.pub, m.log, queue.KeyPendingApproved, queue.ModerationEvent{
        Kind: queue.KindEvent, PendingID: id, LiveID: live.ID, Title: live.Title,
        SubmitterEmail: pending.SubmitterEmail, OccurredAt: queue.Now(),
    })
    return live, nil
}

// RejectEvent deletes pending event id and its category links and returns
// the deleted row.
func (m *Moderation) RejectEvent(ctx context.Context, id uint64) (*model.PendingEvent, error) {
    var deleted *model.PendingEvent
    err := m.inTx(ctx, func(tx *sql.Tx) error {
        p, err := m.pendingEvents.LockTx(ctx, tx, id)
        if err != nil {
            return err
        }
        if err := m.pendingEvents.DeleteCategoriesTx(ctx, tx, id); err != nil {
            return err
        }
        if err := m.pendingEvents.DeleteTx(ctx, tx, id); err != nil {
            return err
        }
        deleted = p
        return nil
    })
    if err != nil {
        return nil, err
    }
    m.log.Info("pending event rejected", "pending_id", id)
    publish(ctx, m.pub, m.log, queue.KeyPendingRejected, queue.ModerationEvent{
        Kind: queue.KindEvent, PendingID: id, Title: deleted.Title,
        SubmitterEmail: deleted.SubmitterEmail, OccurredAt: queue.Now(),
    })
    return deleted, nil
}

// UpdatePendingEvent edits a pending event in place.  When categories are
// given they replace the stored links entirely.  The status stays pending.
func (m *Moderation) UpdatePendingEvent(ctx context.Context, id uint64, d model.EventDraft) (*model.PendingEvent, error) {
    err := m.inTx(ctx, func(tx *sql.Tx) error {
        p, err := m.pendingEvents.LockTx(ctx, tx, id)
        if err != nil {
            return err
        }
        fields, err := MergeEventFields(p.EventFields, d)
        if err != nil {
            return err
        }
        price := p.Price
        if given(d.Price) {
            price = d.Price
        }
        if err := m.pendingEvents.UpdateTx(ctx, tx, id, fields, price); err != nil {
            return err
        }
        if d.CategoryIDs != nil {
            cats := dedupe(d.CategoryIDs)
            if err := CheckCategoryCount(cats); err != nil {
                return err
            }
            return m.pendingEvents.ReplaceCategoriesTx(ctx, tx, id, cats)
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    return m.pendingEvents.GetByID(ctx, id)
}

// ListPendingVenues returns every pending venue, oldest first.
func (m *Moderation) ListPendingVenues(ctx context.Context) ([]model.PendingVenue, error) {
    return m.pendingVenues.List(ctx)
}

// GetPendingVenue returns one pending venue or repository.ErrNotFound.
func (m *Moderation) GetPendingVenue(ctx context.Context, id uint64) (*model.PendingVenue, error) {
    return m.pendingVenues.GetByID(ctx, id)
}

// ApproveVenue publishes pending venue id with the admin's overrides and
// removes the pending row.
func (m *Moderation) ApproveVenue(ctx context.Context, id uint64, d model.VenueDraft) (*model.Venue, error) {
    var (
        live    *model.Venue
        pending *model.PendingVenue
    )
    err := m.inTx(ctx, func(tx *sql.Tx) error {
        p, err := m.pendingVenues.LockTx(ctx, tx, id)
        if err != nil {
            return err
        }
        pending = p
        fields, err := MergeVenueFields(p.VenueFields, d)
        if err != nil {
            return err
        }
        liveID, err := m.venues.CreateTx(ctx, tx, fields, true, boolOr(d.IsFeatured, false))
        if err != nil {
            return err
        }
        if err := m.pendingVenues.DeleteTx(ctx, tx, id); err != nil {
            return err
        }
        live, err = m.venues.GetByIDTx(ctx, tx, liveID)
        return err
    })
    if err != nil {
        return nil, err
    }
    m.log.Info("pending venue approved", "pending_id", id, "venue_id", live.ID)
    publish(ctx, m.pub, m.log, queue.KeyPendingApproved, queue.ModerationEvent{
        Kind: queue.KindVenue, PendingID: id, LiveID: live.ID, Title: live.Name,
        SubmitterEmail: pending.SubmitterEmail, OccurredAt: queue.Now(),
    })
    return live, nil
}

// RejectVenue deletes pending venue id and returns the deleted row.
func (m *Moderation) RejectVenue(ctx context.Context, id uint64) (*model.PendingVenue, error) {
    var deleted *model.PendingVenue
    err := m.inTx(ctx, func(tx *sql.Tx) error {
        p, err := m.pendingVenues.LockTx(ctx, tx, id)
        if err != nil {
            return err
        }
        if err := m.pendingVenues.DeleteTx(ctx, tx, id); err != nil {
            return err
        }
        deleted = p
        return nil
    })
    if err != nil {
        return nil, err
    }
    m.log.Info("pending venue rejected", "pending_id", id)
    publish(ctx, m.pub, m.log, queue.KeyPendingRejected, queue.ModerationEvent{
        Kind: queue.KindVenue, PendingID: id, Title: deleted.Name,
        SubmitterEmail: deleted.SubmitterEmail, OccurredAt: queue.Now(),
    })
    return deleted, nil
}

// UpdatePendingVenue edits a pending venue in place.
func (m *Moderation) UpdatePendingVenue(ctx context.Context, id uint64, d model.VenueDraft) (*model.PendingVenue, error) {
    err := m.inTx(ctx, func(tx *sql.Tx) error {
        p, err := m.pendingVenues.LockTx(ctx, tx, id)
        if err != nil {
            return err
        }
        fields, err := MergeVenueFields(p.VenueFields, d)
        if err != nil {
            return err
        }
        return m.pendingVenues.UpdateTx(ctx, tx, id, fields)
    })
    if err != nil {
        return nil, err
    }
    return m.pendingVenues.GetByID(ctx, id)
}
