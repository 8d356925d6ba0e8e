package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced by must(); the
// remaining ones fall back to defaults suitable for local development.
type Config struct {
    Env            string         // application environment (e.g. "dev", "prod")
    Port           string         // HTTP port to listen on
    DBUser         string         // database username
    DBPass         string         // database password (optional)
    DBHost         string         // database host address
    DBPort         string         // database port number
    DBName         string         // database name
    JWTSecret      string         // secret used to sign JWTs
    AccessTTLMin   int            // access token time-to-live in minutes
    RefreshTTLDays int            // refresh token time-to-live in days
    BcryptCost     int            // bcrypt cost for password hashing
    AdminPassword  string         // shared admin password for /admin/login
    RabbitURL      string         // AMQP broker URL; empty disables publishing
    SweepSchedule  string         // cron spec used by cmd/sweeper
    VerifyCodeTTL  time.Duration  // lifetime of admin verification codes
    IdempotencyTTL time.Duration  // how long moderation responses are replayable
    AuditLogDir    string         // directory of the moderation audit log
    Location       *time.Location // zone in which event dates and times are interpreted
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required values cause the program to exit with a fatal
// log message.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),
        Port:           must("APP_PORT"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     mustInt("BCRYPT_COST"),
        AdminPassword:  must("ADMIN_PASSWORD"),
        RabbitURL:      rabbitURL(),
        SweepSchedule:  getenv("SWEEP_SCHEDULE", "@every 15m"),
        VerifyCodeTTL:  envDur("VERIFY_CODE_TTL", 10*time.Minute),
        IdempotencyTTL: envDur("IDEMPOTENCY_TTL", 24*time.Hour),
        AuditLogDir:    getenv("AUDIT_LOG_DIR", "logs"),
        Location:       mustLocation(getenv("TIMEZONE", "Europe/Istanbul")),
    }
}

// IsProduction reports whether the service runs with APP_ENV=prod.
func (c Config) IsProduction() bool {
    return c.Env == "prod" || c.Env == "production"
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

func mustLocation(name string) *time.Location {
    loc, err := time.LoadLocation(name)
    if err != nil {
        log.Fatalf("invalid TIMEZONE %q: %v", name, err)
    }
    return loc
}

// rabbitURL accepts both RABBITMQ_URL and the older AMQP_URL name.
func rabbitURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}
