package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// Lookup helpers for optional variables.  A malformed value falls back to
// the default rather than failing start-up; required values go through
// must and mustInt instead.

func getenv(key, def string) string {
    if v := strings.TrimSpace(os.Getenv(key)); v != "" {
        return v
    }
    return def
}

func envInt(key string, def int) int {
    if n, err := strconv.Atoi(getenv(key, "")); err == nil {
        return n
    }
    return def
}

func envBool(key string, def bool) bool {
    switch strings.ToLower(getenv(key, "")) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return def
}

func envDur(key string, def time.Duration) time.Duration {
    if d, err := time.ParseDuration(getenv(key, "")); err == nil {
        return d
    }
    return def
}
