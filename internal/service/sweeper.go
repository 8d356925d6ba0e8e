package service

import (
    "context"
    "log/slog"
    "time"

    "github.com/edirne-events/events-api/internal/model"
    "github.com/edirne-events/events-api/internal/queue"
    "github.com/edirne-events/events-api/internal/repository"
)

// Sweeper deactivates events whose expiry instant has passed.  The rule
// lives in one SQL predicate (repository.ExpiredPredicate) shared by the
// listing and the update; IsExpired is its Go mirror.
type Sweeper struct {
    events *repository.EventRepo
    tokens *repository.TokenRepo
    loc    *time.Location
    now    func() time.Time
    pub    Publisher
    log    *slog.Logger
}

// NewSweeper builds a Sweeper that interprets event dates in loc.  tokens
// may be nil when refresh token purging is not wanted.
func NewSweeper(events *repository.EventRepo, tokens *repository.TokenRepo, loc *time.Location, pub Publisher, log *slog.Logger) *Sweeper {
    if loc == nil {
        loc = time.UTC
    }
    return &Sweeper{events: events, tokens: tokens, loc: loc, now: time.Now, pub: pub, log: orDefault(log)}
}

// WithClock replaces the time source, for tests.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
    s.now = now
    return s
}

func (s *Sweeper) localNow() time.Time { return s.now().In(s.loc) }

// ListExpired returns active events that the next Run would deactivate.
func (s *Sweeper) ListExpired(ctx context.Context) ([]model.Event, error) {
    return s.events.ListExpired(ctx, s.localNow())
}

// Run deactivates every expired event in one statement and returns how
// many changed.  Running it again right away changes nothing.
func (s *Sweeper) Run(ctx context.Context) (int64, error) {
    n, err := s.events.DeactivateExpired(ctx, s.localNow())
    if err != nil {
        return 0, err
    }
    s.log.Info("expiration sweep finished", "deactivated", n)
    if n > 0 {
        publish(ctx, s.pub, s.log, queue.KeyEventsExpired, queue.ModerationEvent{Count: n, OccurredAt: queue.Now()})
    }
    return n, nil
}

// PurgeTokens removes refresh tokens that expired or were revoked more than
// a day ago.
func (s *Sweeper) PurgeTokens(ctx context.Context) (int64, error) {
    if s.tokens == nil {
        return 0, nil
    }
    n, err := s.tokens.PurgeExpired(ctx, s.now().Add(-24*time.Hour))
    if err != nil {
        return 0, err
    }
    s.log.Info("refresh tokens purged", "deleted", n)
    return n, nil
}

// ExpiryInstant returns the moment at which f stops being current, in loc:
//
//   end date and end time -> that date at that time
//   end date only         -> midnight after the end date
//   start date only       -> midnight after the start date
func ExpiryInstant(f model.EventFields, loc *time.Location) (time.Time, error) {
    if loc == nil {
        loc = time.UTC
    }
    if f.EndDate != nil && *f.EndDate != "" {
        if f.EndTime != nil && *f.EndTime != "" {
            return time.ParseInLocation("2006-01-02 15:04", *f.EndDate+" "+*f.EndTime, loc)
        }
        d, err := time.ParseInLocation("2006-01-02", *f.EndDate, loc)
        if err != nil {
            return time.Time{}, err
        }
        return d.AddDate(0, 0, 1), nil
    }
    d, err := time.ParseInLocation("2006-01-02", f.StartDate, loc)
    if err != nil {
        return time.Time{}, err
    }
    return d.AddDate(0, 0, 1), nil
}

// IsExpired reports whether an active event with fields f is past its
// expiry instant at now (expiry at or before now).  Unparseable dates are
// never considered expired.
func IsExpired(f model.EventFields, now time.Time, loc *time.Location) bool {
    at, err := ExpiryInstant(f, loc)
    if err != nil {
        return false
    }
    return !at.After(now.Truncate(time.Second))
}
