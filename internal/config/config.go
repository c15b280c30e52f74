package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env               string
	Port              string
	LogLevel          string
	StorePath         string // primary sqlite snapshot, probed first
	StoreFallbackPath string // probed when StorePath does not exist
	DatabaseURL       string // optional postgres DSN; replaces the file probe when set
	RedisURL          string // empty = in-process load cache
	CacheTTL          time.Duration
	UploadMaxBytes    int
	CORSOrigins       []string
	HealthAdminKey    string // guards /health/reset; empty disables it
}

const (
	defaultStorePath         = "data/nemo_store.db"
	defaultStoreFallbackPath = "data/nemostore.db"
	defaultCacheTTL          = 10 * time.Minute
	defaultUploadMaxBytes    = 32 << 20
)

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_PATH", defaultStorePath)
	v.SetDefault("STORE_FALLBACK_PATH", defaultStoreFallbackPath)
	v.SetDefault("CACHE_TTL", defaultCacheTTL)
	v.SetDefault("UPLOAD_MAX_BYTES", defaultUploadMaxBytes)
	v.SetDefault("CORS_ORIGINS", "*")

	ttl := v.GetDuration("CACHE_TTL")
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	maxBytes := v.GetInt("UPLOAD_MAX_BYTES")
	if maxBytes <= 0 {
		maxBytes = defaultUploadMaxBytes
	}

	return &Config{
		Env:               v.GetString("APP_ENV"),
		Port:              v.GetString("PORT"),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		StorePath:         strings.TrimSpace(v.GetString("STORE_PATH")),
		StoreFallbackPath: strings.TrimSpace(v.GetString("STORE_FALLBACK_PATH")),
		DatabaseURL:       strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:          strings.TrimSpace(v.GetString("REDIS_URL")),
		CacheTTL:          ttl,
		UploadMaxBytes:    maxBytes,
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		HealthAdminKey:    v.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

// StorePaths returns the well-known store locations in probe order.
func (c *Config) StorePaths() []string {
	var paths []string
	for _, p := range []string{c.StorePath, c.StoreFallbackPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
