package main // Entry point package

import (
    "context"
    "log"
    "strings"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    glog "github.com/labstack/gommon/log"

    "github.com/iliyamo/ecotour-booking/internal/config"
    "github.com/iliyamo/ecotour-booking/internal/database"
    "github.com/iliyamo/ecotour-booking/internal/handler"
    "github.com/iliyamo/ecotour-booking/internal/middleware"
    "github.com/iliyamo/ecotour-booking/internal/queue"
    "github.com/iliyamo/ecotour-booking/internal/repository"
    "github.com/iliyamo/ecotour-booking/internal/router"
    queue_publisher "github.com/iliyamo/ecotour-booking/internal/service"
    "github.com/iliyamo/ecotour-booking/internal/storage"
    "github.com/iliyamo/ecotour-booking/internal/utils"
)

func logLevel(s string) glog.Lvl {
    switch strings.ToLower(s) {
    case "debug":
        return glog.DEBUG
    case "warn":
        return glog.WARN
    case "error":
        return glog.ERROR
    case "off":
        return glog.OFF
    }
    return glog.INFO
}

func main() {
    if err := godotenv.Load(); err != nil {
        log.Printf("no .env file loaded: %v", err)
    }
    cfg := config.Load()
    analytics := config.LoadAnalyticsConfig()
    storageCfg := config.LoadStorageConfig()

    e := echo.New()
    e.HideBanner = true
    e.Validator = utils.NewRequestValidator()
    e.Logger.SetLevel(logLevel(cfg.LogLevel))
    e.Use(echomw.Recover())
    e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        LogMethod:  true,
        LogURI:     true,
        LogStatus:  true,
        LogLatency: true,
        LogError:   true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            if v.Error != nil {
                c.Logger().Errorf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
                return nil
            }
            c.Logger().Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
            return nil
        },
    }))

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()
    if cfg.DBAutoMigrate {
        if err := database.Migrate(context.Background(), db); err != nil {
            log.Fatalf("migrate: %v", err)
        }
        log.Printf("schema at version %d", database.SchemaVersion)
    }

    rdb := config.NewRedisClient()
    cacheCfg := config.LoadCacheConfig()
    cache := middleware.NewRedisCache(cacheCfg, rdb)
    purge := middleware.NewCacheInvalidator(cacheCfg, rdb)
    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    tours := repository.NewTourRepo(db)
    categories := repository.NewCategoryRepo(db)
    routes := repository.NewRouteRepo(db)
    reviews := repository.NewReviewRepo(db)
    bookings := repository.NewBookingRepo(db)
    campaigns := repository.NewCampaignRepo(db)
    events := repository.NewAnalyticsRepo(db)

    var publisher handler.ReportPublisher
    if cfg.AMQPURL != "" {
        publisher = queue_publisher.NewReviewPublisher(cfg.AMQPURL)
        if cfg.RunConsumer {
            go queue.StartModerationConsumer(cfg.AMQPURL, cfg.ModerationLogs)
        }
    } else {
        log.Printf("broker not configured; review reports will not be published")
    }

    var store storage.ImageStore
    if storageCfg.Configured() {
        s3store, err := storage.NewS3ImageStore(context.Background(), storageCfg)
        if err != nil {
            log.Fatalf("image storage: %v", err)
        }
        store = s3store
    } else {
        log.Printf("image storage not configured; uploads will fail")
    }

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, limiter)
    router.RegisterPublic(e,
        handler.NewCatalogHandler(tours, categories, routes, reviews),
        handler.NewAnalyticsHandler(events, analytics),
        cfg.JWTSecret, cache, limiter)
    router.RegisterCustomer(e,
        handler.NewReviewHandler(reviews, publisher),
        handler.NewBookingHandler(bookings),
        cfg.JWTSecret)
    router.RegisterAdmin(e,
        handler.NewAdminHandler(categories, reviews, campaigns, events, bookings, analytics),
        handler.NewUploadHandler(store, storageCfg.MaxUploadBytes),
        cfg.JWTSecret, purge)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
