package service

import (
    "context"
    "database/sql"
    "log/slog"
    "strings"
    "time"

    "github.com/go-playground/validator/v10"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/queue"
    "github.com/edirne-events/events-api/internal/repository"
)

// Category count bounds for event submissions.
const (
    MinEventCategories = 1
    MaxEventCategories = 3
)

var validate = validator.New()

// EventSubmission is what the public form posts to /submit-event.  Venue is
// accepted as an alias for Location.
type EventSubmission struct {
    model.EventFields
    model.Submitter
    Venue       *string  `json:"venue"`
    Price       *string  `json:"price"`
    CategoryIDs []uint64 `json:"categoryIds"`
}

// VenueSubmission is what the public form posts to /submit-venue.  Some
// clients send categoryIds; only the first element is kept.
type VenueSubmission struct {
    model.VenueFields
    model.Submitter
    CategoryIDs []uint64 `json:"categoryIds"`
}

// Intake stores public submissions in the pending tables.  Nothing here
// touches the live tables.
type Intake struct {
    db            *sql.DB
    pendingEvents *repository.PendingEventRepo
    pendingVenues *repository.PendingVenueRepo
    pub           Publisher
    log           *slog.Logger
}

func NewIntake(db *sql.DB, pe *repository.PendingEventRepo, pv *repository.PendingVenueRepo, pub Publisher, log *slog.Logger) *Intake {
    return &Intake{db: db, pendingEvents: pe, pendingVenues: pv, pub: pub, log: orDefault(log)}
}

func checkSubmitter(s model.Submitter) error {
    if strings.TrimSpace(s.SubmitterName) == "" {
        return invalid("Gönderen adı zorunludur")
    }
    email := strings.TrimSpace(s.SubmitterEmail)
    if email == "" {
        return invalid("Gönderen e-posta adresi zorunludur")
    }
    if err := validate.Var(email, "email"); err != nil {
        return invalid("Geçerli bir e-posta adresi giriniz")
    }
    return nil
}

// CheckCategoryCount enforces 1 to 3 categories per event.
func CheckCategoryCount(ids []uint64) error {
    if len(ids) < MinEventCategories || len(ids) > MaxEventCategories {
        return invalid("En az %d, en fazla %d kategori seçmelisiniz", MinEventCategories, MaxEventCategories)
    }
    return nil
}

// dedupe drops repeated ids, keeping first occurrences in order, so a
// client sending [1,1] cannot trip the join table's primary key.
func dedupe(ids []uint64) []uint64 {
    seen := make(map[uint64]bool, len(ids))
    out := make([]uint64, 0, len(ids))
    for _, id := range ids {
        if !seen[id] {
            seen[id] = true
            out = append(out, id)
        }
    }
    return out
}

// ValidateEventSubmission normalises s and checks every rule that must
// hold before anything is written.
func ValidateEventSubmission(s *EventSubmission) error {
    s.Title = strings.TrimSpace(s.Title)
    if s.Title == "" {
        return invalid("Etkinlik başlığı zorunludur")
    }
    if strings.TrimSpace(s.StartDate) == "" {
        return invalid("Başlangıç tarihi zorunludur")
    }
    if err := checkSubmitter(s.Submitter); err != nil {
        return err
    }
    s.CategoryIDs = dedupe(s.CategoryIDs)
    if err := CheckCategoryCount(s.CategoryIDs); err != nil {
        return err
    }
    // Normalise dates and location through the same merge used by
    // moderation so pending rows look like approved ones.
    merged, err := MergeEventFields(model.EventFields{Title: s.Title, Media: s.Media}, model.EventDraft{
        Description: s.Description, Location: &s.Location, Venue: s.Venue, Address: s.Address,
        StartDate: &s.StartDate, EndDate: s.EndDate, StartTime: s.StartTime, EndTime: s.EndTime,
        Latitude: s.Latitude, Longitude: s.Longitude,
        ImageURL: s.ImageURL, ImageURL2: s.ImageURL2, ImageURL3: s.ImageURL3,
        OrganizerName: s.OrganizerName, OrganizerContact: s.OrganizerContact, Capacity: s.Capacity,
        WebsiteURL: s.WebsiteURL, TicketURL: s.TicketURL,
    })
    if err != nil {
        return err
    }
    s.EventFields = merged
    s.SubmitterName = strings.TrimSpace(s.SubmitterName)
    s.SubmitterEmail = strings.ToLower(strings.TrimSpace(s.SubmitterEmail))
    return nil
}

// SubmitEvent validates s and stores it as a pending event together with
// its category links in one transaction.  A validation failure writes
// nothing.
func (in *Intake) SubmitEvent(ctx context.Context, s EventSubmission) (*model.PendingEvent, error) {
    if err := ValidateEventSubmission(&s); err != nil {
        return nil, err
    }
    p := model.PendingEvent{
        EventFields: s.EventFields,
        Submitter:   s.Submitter,
        Price:       s.Price,
        Status:      model.StatusPending,
        CategoryIDs: s.CategoryIDs,
    }

    tx, err := in.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    id, err := in.pendingEvents.CreateTx(ctx, tx, p)
    if err != nil {
        return nil, err
    }
    if err := in.pendingEvents.InsertCategoriesTx(ctx, tx, id, p.CategoryIDs); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    now := time.Now().UTC()
    p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
    in.log.Info("event submitted", "pending_id", id, "categories", len(p.CategoryIDs))
    publish(ctx, in.pub, in.log, queue.KeySubmissionReceived, queue.ModerationEvent{
        Kind: queue.KindEvent, PendingID: id, Title: p.Title, SubmitterEmail: p.SubmitterEmail, OccurredAt: queue.Now(),
    })
    return &p, nil
}

// ValidateVenueSubmission normalises s and checks the venue rules.
func ValidateVenueSubmission(s *VenueSubmission) error {
    s.Name = strings.TrimSpace(s.Name)
    if s.Name == "" {
        return invalid("Mekan adı zorunludur")
    }
    s.Address = strings.TrimSpace(s.Address)
    if s.Address == "" {
        return invalid("Adres zorunludur")
    }
    if err := checkSubmitter(s.Submitter); err != nil {
        return err
    }
    s.CategoryID = firstCategory(s.CategoryID, s.CategoryIDs)
    s.SubmitterName = strings.TrimSpace(s.SubmitterName)
    s.SubmitterEmail = strings.ToLower(strings.TrimSpace(s.SubmitterEmail))
    return nil
}

// SubmitVenue validates s and stores it as a pending venue.
func (in *Intake) SubmitVenue(ctx context.Context, s VenueSubmission) (*model.PendingVenue, error) {
    if err := ValidateVenueSubmission(&s); err != nil {
        return nil, err
    }
    p := model.PendingVenue{VenueFields: s.VenueFields, Submitter: s.Submitter, Status: model.StatusPending}
    id, err := in.pendingVenues.Create(ctx, p)
    if err != nil {
        return nil, err
    }
    now := time.Now().UTC()
    p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
    in.log.Info("venue submitted", "pending_id", id)
    publish(ctx, in.pub, in.log, queue.KeySubmissionReceived, queue.ModerationEvent{
        Kind: queue.KindVenue, PendingID: id, Title: p.Name, SubmitterEmail: p.SubmitterEmail, OccurredAt: queue.Now(),
    })
    return &p, nil
}
