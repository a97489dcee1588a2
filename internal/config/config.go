// Package config loads the PhotoRad server configuration from the
// environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/photorad/photoRad/pkg/tlsconfig"
)

// Config holds application configuration
type Config struct {
	GRPCPort  string        `validate:"required,numeric"`
	HTTPPort  string        `validate:"required,numeric"`
	SoilRepo  string        `validate:"oneof=memory sqlite"` // "memory" | "sqlite"
	SoilData  string        // soil dataset JSON imported at startup
	DataDir   string        `validate:"required,dir"` // the only directory request paths may name
	DBPath    string        `validate:"required_if=SoilRepo sqlite"`
	CacheSize int           `validate:"gt=0"`
	CacheTTL  time.Duration `validate:"gt=0"`
	Threshold float64       `validate:"gt=0,lt=1"`
	LogLevel  zerolog.Level
	TLS       tlsconfig.Files
}

var validate = validator.New()

// Load reads configuration from the environment with defaults. Values in
// envFiles (default ".env") never override variables already set.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{
		GRPCPort: getenvDefault("GRPC_PORT", "50051"),
		HTTPPort: getenvDefault("HTTP_PORT", "8080"),
		SoilRepo: getenvDefault("SOIL_REPO", "memory"),
		SoilData: os.Getenv("SOIL_DATA"),
		DBPath:   getenvDefault("DB_PATH", "./photorad.db"),
		DataDir:  getenvDefault("DATA_DIR", "."),
		TLS: tlsconfig.Files{
			Cert: os.Getenv("TLS_CERT"),
			Key:  os.Getenv("TLS_KEY"),
			CA:   os.Getenv("TLS_CA"),
		},
	}

	var err error
	if cfg.CacheSize, err = strconv.Atoi(getenvDefault("CACHE_SIZE", "64")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getenvDefault("CACHE_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.Threshold, err = strconv.ParseFloat(getenvDefault("QUAL_THRESHOLD", "0.5"), 64); err != nil {
		return nil, fmt.Errorf("invalid QUAL_THRESHOLD: %w", err)
	}
	if cfg.LogLevel, err = zerolog.ParseLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
