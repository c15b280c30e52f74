package bootstrap

import (
	"os"
	"time"

	"nemostore-eda/internal/config"
	"nemostore-eda/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New loads config, sets up logging and builds the Fiber app.
func New() (*fiber.App, *redis.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	SetupLogging(cfg)
	app, rdb, err := router.CreateApp(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, rdb, cfg, nil
}

// SetupLogging configures the global zerolog logger: JSON in production,
// console output otherwise. Unknown levels fall back to info.
func SetupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "nemostore-eda").Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
