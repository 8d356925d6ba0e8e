// Package service holds the workflows that span several repositories:
// submission intake, moderation of pending submissions, the expiration
// sweep, rating aggregation and admin verification codes.  Handlers call
// into it and map its errors to HTTP statuses.
package service

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
)

// ValidationError carries a user-facing (Turkish) message.  Handlers
// return it verbatim with HTTP 400.
type ValidationError struct {
    Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) error {
    return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
    var ve *ValidationError
    return errors.As(err, &ve)
}

// Publisher sends domain events to the message broker.
// *publisher.Publisher implements it; a nil one drops messages.
type Publisher interface {
    Publish(ctx context.Context, key string, v any) error
}

// publish is fire-and-forget: a broker failure is logged and never fails
// the workflow that already committed.
func publish(ctx context.Context, p Publisher, log *slog.Logger, key string, v any) {
    if p == nil {
        return
    }
    if err := p.Publish(ctx, key, v); err != nil {
        log.Warn("publish domain event failed", "routing_key", key, "error", err)
    }
}

func orDefault(l *slog.Logger) *slog.Logger {
    if l == nil {
        return slog.Default()
    }
    return l
}
