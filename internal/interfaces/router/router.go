package router

import (
	"context"

	dashsvc "nemostore-eda/internal/application/dashboard"
	"nemostore-eda/internal/application/loader"
	"nemostore-eda/internal/config"
	"nemostore-eda/internal/infrastructure/redisclient"
	dashhandler "nemostore-eda/internal/interfaces/handlers/dashboard"
	healthhandler "nemostore-eda/internal/interfaces/handlers/health"
	sourcehandler "nemostore-eda/internal/interfaces/handlers/sources"
	"nemostore-eda/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CreateApp wires the loader, its cache and the HTTP routes. With REDIS_URL
// set, loaded snapshots and request stats live in Redis; otherwise snapshots
// are cached in process and stats are not recorded. The returned client is
// nil in that case and must be closed by the caller otherwise.
func CreateApp(cfg *config.Config) (*fiber.App, *redis.Client, error) {
	var (
		rdb   *redis.Client
		cache loader.Cache
	)
	if cfg.RedisURL != "" {
		var err error
		rdb, err = redisclient.Open(context.Background(), cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		cache = loader.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info().Msg("Redis connected, snapshot cache shared")
	} else {
		cache = loader.NewMemoryCache(cfg.CacheTTL)
	}
	ld := loader.New(cfg.StorePaths(), cfg.DatabaseURL, cache)

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               cfg.UploadMaxBytes + 1<<20,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.CORSOrigins}))
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		Store:          ld,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/health/reset", hh.Reset)

	sh := &sourcehandler.Handlers{Loader: ld, MaxBytes: int64(cfg.UploadMaxBytes)}
	app.Post("/api/v1/sources/csv", sh.UploadCSV)

	dh := &dashhandler.Handlers{Service: &dashsvc.Service{Loader: ld}}
	dg := app.Group("/api/v1/dashboard")
	dg.Get("/facets", dh.Facets)
	dg.Get("/overview", dh.Overview)
	dg.Get("/industry", dh.Industry)
	dg.Get("/summary", dh.Summary)
	dg.Get("/search", dh.Search)
	dg.Get("/search/export", dh.Export)

	return app, rdb, nil
}
