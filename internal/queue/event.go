// Package queue defines message payloads exchanged over the message broker
// and the consumer that keeps an audit trail of moderation activity.
package queue

import "time"

// Exchange is the durable topic exchange all domain events are published on.
const Exchange = "edirne.events"

// Routing keys.
const (
    KeySubmissionReceived    = "submission.received"
    KeyPendingApproved       = "pending.approved"
    KeyPendingRejected       = "pending.rejected"
    KeyEventsExpired         = "events.expired"
    KeyVerificationRequested = "verification.requested"
)

// Kinds of moderated entities.
const (
    KindEvent = "event"
    KindVenue = "venue"
)

// ModerationEvent is published when a submission arrives, when an admin
// approves or rejects it, and after an expiration sweep.  Only the fields
// relevant to the routing key are set.
type ModerationEvent struct {
    Kind           string `json:"kind,omitempty"`
    PendingID      uint64 `json:"pendingId,omitempty"`
    LiveID         uint64 `json:"liveId,omitempty"`
    Title          string `json:"title,omitempty"`
    SubmitterEmail string `json:"submitterEmail,omitempty"`
    Count          int64  `json:"count,omitempty"`
    OccurredAt     string `json:"occurredAt"`
}

// VerificationRequestedEvent asks a mailer to deliver an admin verification
// code.  It is routed outside the audit bindings so codes never reach the
// audit log.
type VerificationRequestedEvent struct {
    Email      string `json:"email"`
    Code       string `json:"code"`
    ExpiresAt  string `json:"expiresAt"`
    OccurredAt string `json:"occurredAt"`
}

// Now formats the current instant the way payloads carry timestamps.
func Now() string { return time.Now().UTC().Format(time.RFC3339) }
