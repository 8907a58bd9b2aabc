package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries need from the environment. It is
// loaded once in main and handed to each component at construction; no
// package keeps its own copy of a credential.
type Config struct {
	// MongoDB source
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// CRM API target (used when SyncTarget is "api")
	CRMBaseURL string
	CRMToken   string

	// Postgres target / ingest API store
	DatabaseURL string

	// Ingest API server
	Port      string
	JWTSecret string

	// Pipeline tuning
	SyncTarget string // "api" or "postgres"
	BatchSize  int
	BatchDelay time.Duration
	SinceHours int // 0 means full sync

	// Logging
	LogLevel    string
	Development bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg := &Config{
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   envOr("MONGO_DATABASE", "userdata"),
		MongoCollection: envOr("MONGO_COLLECTION", "users"),
		CRMBaseURL:      os.Getenv("CRM_API_URL"),
		CRMToken:        os.Getenv("CRM_API_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Port:            envOr("PORT", "8080"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SyncTarget:      envOr("SYNC_TARGET", "api"),
		BatchSize:       envInt("SYNC_BATCH_SIZE", 50),
		BatchDelay:      envDuration("SYNC_BATCH_DELAY", 500*time.Millisecond),
		SinceHours:      envInt("SYNC_SINCE_HOURS", 0),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		Development:     os.Getenv("APP_ENV") != "production",
	}

	if cfg.SyncTarget != "api" && cfg.SyncTarget != "postgres" {
		return nil, fmt.Errorf("invalid SYNC_TARGET %q: must be \"api\" or \"postgres\"", cfg.SyncTarget)
	}
	return cfg, nil
}

// RequireMongo validates the fields the sync binaries cannot run without.
func (c *Config) RequireMongo() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI environment variable not set")
	}
	return nil
}

// RequireTarget validates whichever target the pipeline was pointed at.
func (c *Config) RequireTarget() error {
	switch c.SyncTarget {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable not set")
		}
	default:
		if c.CRMBaseURL == "" {
			return fmt.Errorf("CRM_API_URL environment variable not set")
		}
		if c.CRMToken == "" {
			return fmt.Errorf("CRM_API_TOKEN environment variable not set")
		}
	}
	return nil
}

// RequireServer validates the fields the ingest API cannot run without.
func (c *Config) RequireServer() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
