package main

import (
    "context"
    "errors"
    "log/slog"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/edirne-events/events-api/internal/config"
    "github.com/edirne-events/events-api/internal/database"
    "github.com/edirne-events/events-api/internal/handler"
    "github.com/edirne-events/events-api/internal/middleware"
    "github.com/edirne-events/events-api/internal/publisher"
    "github.com/edirne-events/events-api/internal/queue"
    "github.com/edirne-events/events-api/internal/repository"
    "github.com/edirne-events/events-api/internal/router"
    "github.com/edirne-events/events-api/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env wins

    cfg := config.Load()
    logger := setupLogger(cfg)
    slog.SetDefault(logger)
    logger.Info("starting edirne events api", "env", cfg.Env, "timezone", cfg.Location.String())

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        logger.Error("database connection failed", "error", err)
        os.Exit(1)
    }
    defer db.Close()

    migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
    if err := database.Migrate(migrateCtx, db); err != nil {
        cancelMigrate()
        logger.Error("schema migration failed", "error", err)
        os.Exit(1)
    }
    cancelMigrate()

    rdb, err := config.ConnectRedis(context.Background(), config.LoadRedisConfig())
    if err != nil {
        logger.Warn("redis unavailable; cache, rate limit, idempotency and verification codes disabled", "error", err)
    } else {
        defer rdb.Close()
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    var pub service.Publisher
    if cfg.RabbitURL != "" {
        p, err := publisher.New(cfg.RabbitURL, queue.Exchange)
        if err != nil {
            logger.Warn("rabbitmq unavailable; domain events will not be published", "error", err)
        } else {
            defer p.Close()
            pub = p
        }
        go func() {
            if err := queue.StartModerationConsumer(ctx, cfg.RabbitURL, cfg.AuditLogDir); err != nil && !errors.Is(err, context.Canceled) {
                logger.Error("moderation consumer stopped", "error", err)
            }
        }()
    }

    // Repositories
    events := repository.NewEventRepo(db)
    pendingEvents := repository.NewPendingEventRepo(db)
    venues := repository.NewVenueRepo(db)
    pendingVenues := repository.NewPendingVenueRepo(db)
    categories := repository.NewCategoryRepo(db)
    venueCategories := repository.NewVenueCategoryRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    reviews := repository.NewReviewRepo(db)
    favorites := repository.NewFavoriteRepo(db)

    // Services
    intake := service.NewIntake(db, pendingEvents, pendingVenues, pub, logger)
    moderation := service.NewModeration(db, events, pendingEvents, venues, pendingVenues, pub, logger)
    catalog := service.NewCatalog(db, events, venues)
    sweeper := service.NewSweeper(events, tokens, cfg.Location, pub, logger)
    verify := service.NewVerificationStore(rdb, cfg.VerifyCodeTTL, pub, logger)

    e := echo.New()
    e.HideBanner = true
    e.Validator = handler.NewRequestValidator()
    e.Use(echomw.Recover())
    e.Use(middleware.RequestID())
    e.Use(middleware.StructuredLogger(logger))
    e.Use(echomw.CORS())

    limits := config.LoadRateLimits()
    submitLimit := middleware.NewTokenBucket(limits.Submissions, rdb)
    accountLimit := middleware.NewTokenBucket(limits.Accounts, rdb)
    cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
    idem := middleware.Idempotency(rdb, cfg.IdempotencyTTL)

    router.RegisterRoutes(e, db, rdb)
    router.RegisterPublic(e, &handler.PublicHandler{
        Events:          events,
        Venues:          venues,
        Categories:      categories,
        VenueCategories: venueCategories,
        Reviews:         reviews,
        Catalog:         catalog,
        Loc:             cfg.Location,
    }, cache.Middleware())
    router.RegisterSubmissions(e, &handler.SubmissionHandler{Intake: intake}, submitLimit)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, accountLimit)
    router.RegisterUser(e, &handler.ReviewHandler{Reviews: reviews}, &handler.FavoriteHandler{Favorites: favorites},
        cfg.JWTSecret, accountLimit, cache.Invalidate())
    router.RegisterAdminAuth(e, &handler.AdminAuthHandler{Cfg: cfg, Verify: verify}, accountLimit)
    router.RegisterAdmin(e, &handler.AdminHandler{
        Events:          events,
        Venues:          venues,
        Categories:      categories,
        VenueCategories: venueCategories,
        Users:           users,
        Tokens:          tokens,
        Reviews:         reviews,
        Catalog:         catalog,
    }, cfg.JWTSecret, cache.Invalidate())
    router.RegisterModeration(e, &handler.ModerationHandler{Moderation: moderation, Sweeper: sweeper}, cfg.JWTSecret, idem, cache.Invalidate())

    e.Server.ReadTimeout = 15 * time.Second
    e.Server.WriteTimeout = 15 * time.Second
    e.Server.IdleTimeout = 60 * time.Second

    go func() {
        addr := ":" + cfg.Port
        logger.Info("listening", "addr", addr)
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server failed", "error", err)
            stop()
        }
    }()

    <-ctx.Done()
    logger.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        logger.Error("forced shutdown", "error", err)
    }
    logger.Info("server exited")
}

// setupLogger writes JSON in production and readable text elsewhere.
func setupLogger(cfg config.Config) *slog.Logger {
    var h slog.Handler
    if cfg.IsProduction() {
        h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
    } else {
        h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
    }
    return slog.New(h)
}
