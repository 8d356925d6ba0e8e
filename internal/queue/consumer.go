package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// AuditQueue is the durable queue the moderation consumer reads from.
const AuditQueue = "moderation.audit"

// auditBindings are the routing key patterns copied into the audit log.
var auditBindings = []string{"submission.*", "pending.*", "events.*"}

// StartModerationConsumer connects to RabbitMQ, declares the exchange and the
// moderation.audit queue, binds it to the audit patterns, and appends one
// line per message to <logDir>/moderation.log.  It reconnects with
// exponential backoff and returns only when ctx is cancelled.
func StartModerationConsumer(ctx context.Context, url, logDir string) error {
    if url == "" {
        return errors.New("moderation-consumer: broker url is empty")
    }
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(url)
        if err != nil {
            slog.Warn("moderation-consumer: dial failed", "error", err, "retry_in", backoff)
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, logDir)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        slog.Warn("moderation-consumer: consume loop ended; reconnecting", "error", err)
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        slog.Warn("moderation-consumer: set QoS failed", "error", err)
    }
    if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
        return fmt.Errorf("exchange declare: %w", err)
    }
    if _, err := ch.QueueDeclare(AuditQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    for _, key := range auditBindings {
        if err := ch.QueueBind(AuditQueue, key, Exchange, false, nil); err != nil {
            return fmt.Errorf("queue bind %s: %w", key, err)
        }
    }

    msgs, err := ch.Consume(AuditQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := handleMessage(logDir, d.RoutingKey, d.Body); err != nil {
                slog.Error("moderation-consumer: handle message failed", "routing_key", d.RoutingKey, "error", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func handleMessage(logDir, routingKey string, body []byte) error {
    var ev ModerationEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, "moderation.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatAuditLine(routingKey, ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatAuditLine renders one audit log line, newline terminated.
func FormatAuditLine(routingKey string, ev ModerationEvent) string {
    var b strings.Builder
    fmt.Fprintf(&b, "[%s] %s", ev.OccurredAt, routingKey)
    if ev.Kind != "" {
        fmt.Fprintf(&b, " | kind=%s", ev.Kind)
    }
    if ev.PendingID != 0 {
        fmt.Fprintf(&b, " | pending_id=%d", ev.PendingID)
    }
    if ev.LiveID != 0 {
        fmt.Fprintf(&b, " | live_id=%d", ev.LiveID)
    }
    if ev.Title != "" {
        fmt.Fprintf(&b, " | title=%q", ev.Title)
    }
    if ev.SubmitterEmail != "" {
        fmt.Fprintf(&b, " | submitter=%s", ev.SubmitterEmail)
    }
    if routingKey == KeyEventsExpired {
        fmt.Fprintf(&b, " | count=%d", ev.Count)
    }
    b.WriteString("\n")
    return b.String()
}
