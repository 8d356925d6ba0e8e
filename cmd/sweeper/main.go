// Command sweeper deactivates expired events on a cron schedule and purges
// stale refresh tokens.  It runs once at start, then on SWEEP_SCHEDULE.
package main

import (
    "context"
    "log/slog"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/robfig/cron/v3"

    "github.com/edirne-events/events-api/internal/config"
    "github.com/edirne-events/events-api/internal/database"
    "github.com/edirne-events/events-api/internal/publisher"
    "github.com/edirne-events/events-api/internal/queue"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/service"
)

func main() {
    _ = godotenv.Load()

    cfg := config.Load()
    var h slog.Handler = slog.NewTextHandler(os.Stdout, nil)
    if cfg.IsProduction() {
        h = slog.NewJSONHandler(os.Stdout, nil)
    }
    logger := slog.New(h).With("component", "sweeper")
    slog.SetDefault(logger)

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        logger.Error("database connection failed", "error", err)
        os.Exit(1)
    }
    defer db.Close()

    var pub service.Publisher
    if cfg.RabbitURL != "" {
        p, err := publisher.New(cfg.RabbitURL, queue.Exchange)
        if err != nil {
            logger.Warn("rabbitmq unavailable; events.expired will not be published", "error", err)
        } else {
            defer p.Close()
            pub = p
        }
    }

    sw := service.NewSweeper(repository.NewEventRepo(db), repository.NewTokenRepo(db), cfg.Location, pub, logger)

    runOnce := func() {
        ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
        defer cancel()
        if _, err := sw.Run(ctx); err != nil {
            logger.Error("expiration sweep failed", "error", err)
        }
        if _, err := sw.PurgeTokens(ctx); err != nil {
            logger.Error("token purge failed", "error", err)
        }
    }

    c := cron.New(
        cron.WithLocation(cfg.Location),
        cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
    )
    if _, err := c.AddFunc(cfg.SweepSchedule, runOnce); err != nil {
        logger.Error("invalid SWEEP_SCHEDULE", "schedule", cfg.SweepSchedule, "error", err)
        os.Exit(1)
    }

    runOnce()
    c.Start()
    logger.Info("sweeper started", "schedule", cfg.SweepSchedule)

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()

    logger.Info("stopping sweeper")
    <-c.Stop().Done()
}
