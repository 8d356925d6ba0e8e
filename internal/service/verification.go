package service

import (
    "context"
    "errors"
    "log/slog"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/edirne-events/events-api/internal/queue"
    "github.com/edirne-events/events-api/internal/utils"
)

// ErrVerificationUnavailable is returned when no redis client is configured.
var ErrVerificationUnavailable = errors.New("verification store unavailable")

const verifyPrefix = "verify:"

// consumeScript deletes the stored code only when it matches, so a code
// can be used exactly once even under concurrent confirmations.
var consumeScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// VerificationStore keeps admin email verification codes in redis.  Each
// entry expires after ttl and is removed on first successful use.
type VerificationStore struct {
    rdb *redis.Client
    ttl time.Duration
    pub Publisher
    log *slog.Logger
}

func NewVerificationStore(rdb *redis.Client, ttl time.Duration, pub Publisher, log *slog.Logger) *VerificationStore {
    if ttl <= 0 {
        ttl = 10 * time.Minute
    }
    return &VerificationStore{rdb: rdb, ttl: ttl, pub: pub, log: orDefault(log)}
}

func verifyKey(email string) string {
    return verifyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Request issues a fresh code for email, replacing any previous one, and
// hands it to the mailer through the broker.
func (v *VerificationStore) Request(ctx context.Context, email string) (string, time.Time, error) {
    if v == nil || v.rdb == nil {
        return "", time.Time{}, ErrVerificationUnavailable
    }
    email = strings.ToLower(strings.TrimSpace(email))
    if err := validate.Var(email, "required,email"); err != nil {
        return "", time.Time{}, invalid("Geçerli bir e-posta adresi giriniz")
    }
    code, err := utils.NewVerificationCode()
    if err != nil {
        return "", time.Time{}, err
    }
    if err := v.rdb.Set(ctx, verifyKey(email), code, v.ttl).Err(); err != nil {
        return "", time.Time{}, err
    }
    exp := time.Now().UTC().Add(v.ttl)
    publish(ctx, v.pub, v.log, queue.KeyVerificationRequested, queue.VerificationRequestedEvent{
        Email: email, Code: code, ExpiresAt: exp.Format(time.RFC3339), OccurredAt: queue.Now(),
    })
    return code, exp, nil
}

// Confirm reports whether code is the live code for email and, if so,
// consumes it.
func (v *VerificationStore) Confirm(ctx context.Context, email, code string) (bool, error) {
    if v == nil || v.rdb == nil {
        return false, ErrVerificationUnavailable
    }
    code = strings.TrimSpace(code)
    if code == "" {
        return false, nil
    }
    n, err := consumeScript.Run(ctx, v.rdb, []string{verifyKey(email)}, code).Int64()
    if err != nil {
        return false, err
    }
    return n == 1, nil
}
