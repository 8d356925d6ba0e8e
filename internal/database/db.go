package database

import (
    "context"
    "database/sql"
    _ "embed"
    "fmt"
    "strings"
    "time"

    _ "github.com/go-sql-driver/mysql"
)

//go:embed schema.sql
var schemaSQL string

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    auth := user
    if pass != "" {
        auth = fmt.Sprintf("%s:%s", user, pass)
    }
    // parseTime=true -> DATETIME -> time.Time | loc=UTC keeps created_at/updated_at consistent.
    // Event dates and times are selected through DATE_FORMAT/TIME_FORMAT and stay wall-clock strings.
    // clientFoundRows makes RowsAffected count matched rows, so an UPDATE that
    // changes nothing is not mistaken for a missing row.
    dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
        auth, host, port, name)

    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    // Pool settings
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    // Ping with timeout
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        return nil, err
    }
    return db, nil
}

// Migrate applies the embedded schema.  Every statement is idempotent
// (CREATE TABLE IF NOT EXISTS), so it is safe to run on each start.
func Migrate(ctx context.Context, db *sql.DB) error {
    for i, stmt := range SchemaStatements() {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("schema statement %d: %w", i+1, err)
        }
    }
    return nil
}

// SchemaStatements splits the embedded schema into individual statements.
// The DSN does not enable multiStatements, so each one is executed on its own.
func SchemaStatements() []string {
    var out []string
    for _, part := range strings.Split(schemaSQL, ";") {
        var lines []string
        for _, line := range strings.Split(part, "\n") {
            if strings.HasPrefix(strings.TrimSpace(line), "--") {
                continue
            }
            lines = append(lines, line)
        }
        stmt := strings.TrimSpace(strings.Join(lines, "\n"))
        if stmt != "" {
            out = append(out, stmt)
        }
    }
    return out
}
