package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultDatabaseURL = "file::memory:?cache=shared"

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	RedisURL            string        // optional; enables request traffic stats
	DatabaseURL         string        // listing-event journal DSN; empty disables the journal
	FrontendURLEndsWith string        // allowed CORS origin suffix
	DevPassword         string
	HealthAdminKey      string
	CatalogSeedFile     string        // optional YAML replacing the sample listings
	ListingIDScheme     string        // "counter" (default) or "count"
	ImageEncodeTimeout  time.Duration
}

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
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("LISTING_ID_SCHEME", "counter")
	v.SetDefault("IMAGE_ENCODE_TIMEOUT", "30s")

	timeout, err := time.ParseDuration(v.GetString("IMAGE_ENCODE_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("IMAGE_ENCODE_TIMEOUT: %w", err)
	}

	port := v.GetString("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Env:                 v.GetString("APP_ENV"),
		Port:                port,
		LogLevel:            v.GetString("LOG_LEVEL"),
		RedisURL:            v.GetString("REDIS_URL"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		CatalogSeedFile:     strings.TrimSpace(v.GetString("CATALOG_SEED_FILE")),
		ListingIDScheme:     v.GetString("LISTING_ID_SCHEME"),
		ImageEncodeTimeout:  timeout,
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
