// Package publisher keeps one long-lived RabbitMQ channel for publishing
// domain events.  Publishing is best effort: callers log failures and carry
// on, so a broker outage never fails a request.
package publisher

import (
    "context"
    "encoding/json"
    "fmt"
    "log/slog"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes JSON messages to a topic exchange.  A nil *Publisher
// is valid and drops every message, which is what runs when no broker URL
// is configured.
type Publisher struct {
    url      string
    exchange string

    mu   sync.Mutex
    conn *amqp.Connection
    ch   *amqp.Channel
}

// New dials the broker and declares the exchange.
func New(url, exchange string) (*Publisher, error) {
    p := &Publisher{url: url, exchange: exchange}
    if err := p.connect(); err != nil {
        return nil, err
    }
    return p, nil
}

func (p *Publisher) connect() error {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        return fmt.Errorf("dial rabbitmq: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return fmt.Errorf("open channel: %w", err)
    }
    if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return fmt.Errorf("declare exchange: %w", err)
    }
    p.conn, p.ch = conn, ch
    return nil
}

// Publish marshals v and sends it persistently with the given routing key.
// A closed channel is reopened once before giving up.
func (p *Publisher) Publish(ctx context.Context, key string, v any) error {
    if p == nil {
        return nil
    }
    body, err := json.Marshal(v)
    if err != nil {
        return err
    }
    msg := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    p.mu.Lock()
    defer p.mu.Unlock()
    if p.ch == nil || p.ch.IsClosed() {
        if p.conn != nil {
            _ = p.conn.Close()
        }
        if err := p.connect(); err != nil {
            return err
        }
    }
    if err := p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
        slog.Warn("publish failed", "routing_key", key, "error", err)
        return err
    }
    return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
    if p == nil {
        return nil
    }
    p.mu.Lock()
    defer p.mu.Unlock()
    if p.ch != nil {
        _ = p.ch.Close()
    }
    if p.conn != nil {
        return p.conn.Close()
    }
    return nil
}
