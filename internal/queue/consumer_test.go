package queue

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestFormatAuditLine(t *testing.T) {
    tests := []struct {
        key  string
        ev   ModerationEvent
        want string
    }{
        {
            KeyPendingApproved,
            ModerationEvent{Kind: KindEvent, PendingID: 7, LiveID: 42, Title: "Bahar Konseri", SubmitterEmail: "a@b.c", OccurredAt: "2025-06-01T09:00:00Z"},
            `[2025-06-01T09:00:00Z] pending.approved | kind=event | pending_id=7 | live_id=42 | title="Bahar Konseri" | submitter=a@b.c` + "\n",
        },
        {
            KeyPendingRejected,
            ModerationEvent{Kind: KindVenue, PendingID: 3, OccurredAt: "2025-06-01T09:00:00Z"},
            "[2025-06-01T09:00:00Z] pending.rejected | kind=venue | pending_id=3\n",
        },
        {
            KeyEventsExpired,
            ModerationEvent{OccurredAt: "2025-06-02T00:00:00Z"},
            "[2025-06-02T00:00:00Z] events.expired | count=0\n",
        },
    }
    for _, tt := range tests {
        if got := FormatAuditLine(tt.key, tt.ev); got != tt.want {
            t.Errorf("FormatAuditLine(%s) = %q, want %q", tt.key, got, tt.want)
        }
    }
}

func TestHandleMessageAppendsToAuditLog(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    body := []byte(`{"kind":"event","pendingId":5,"title":"Lale","occurredAt":"2025-06-01T09:00:00Z"}`)
    for i := 0; i < 2; i++ {
        if err := handleMessage(dir, KeySubmissionReceived, body); err != nil {
            t.Fatalf("handleMessage: %v", err)
        }
    }
    b, err := os.ReadFile(filepath.Join(dir, "moderation.log"))
    if err != nil {
        t.Fatal(err)
    }
    lines := strings.Split(strings.TrimSpace(string(b)), "\n")
    if len(lines) != 2 || !strings.Contains(lines[0], "submission.received | kind=event | pending_id=5") {
        t.Fatalf("log = %q", string(b))
    }
    if err := handleMessage(dir, KeySubmissionReceived, []byte("{")); err == nil {
        t.Fatal("malformed body accepted")
    }
}
