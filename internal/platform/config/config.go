// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components via constructors.
*/
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the API server and the janitor.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// BaseURL is the public origin of the admin front end. State-changing
	// requests must originate from it.
	BaseURL string `env:"BASE_URL,required,notEmpty"`

	// ExtraOrigins is a comma-separated list of additional trusted origins.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// Document store (MongoDB)
	MongoURI      string `env:"MONGO_URI,required,notEmpty"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"idolbase"`

	// Relational database (PostgreSQL), holds the asset cleanup queue
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath overrides the embedded migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Session token keys. The API only needs the public key.
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`

	// Object Storage (Cloudflare R2 / S3-compatible)
	S3Bucket          string `env:"S3_BUCKET,required,notEmpty"`
	S3Region          string `env:"S3_REGION"            envDefault:"auto"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL,required,notEmpty"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE"    envDefault:"false"`

	// UploadMaxBytes caps a single multipart upload.
	UploadMaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"104857600"`

	// Background jobs
	ViewDedupeTTL    time.Duration `env:"VIEW_DEDUPE_TTL"    envDefault:"30m"`
	CleanupBatchSize int           `env:"CLEANUP_BATCH_SIZE" envDefault:"100"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("config: BASE_URL is not a valid URL: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TrustedOrigins returns the normalized origins allowed to mutate state:
// the BASE_URL origin followed by every entry of EXTRA_ORIGINS.
func (c *Config) TrustedOrigins() []string {
	origins := make([]string, 0, 4)
	if origin := NormalizeOrigin(c.BaseURL); origin != "" {
		origins = append(origins, origin)
	}
	for _, raw := range strings.Split(c.ExtraOrigins, ",") {
		if origin := NormalizeOrigin(strings.TrimSpace(raw)); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// NormalizeOrigin reduces a URL to its scheme://host[:port] origin.
// It returns "" for values that are not absolute URLs.
func NormalizeOrigin(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return strings.ToLower(parsed.Scheme + "://" + parsed.Host)
}
