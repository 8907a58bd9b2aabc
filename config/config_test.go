package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "userdata", cfg.MongoDatabase)
	assert.Equal(t, "users", cfg.MongoCollection)
	assert.Equal(t, "api", cfg.SyncTarget)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchDelay)
	assert.Equal(t, 0, cfg.SinceHours)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_DATABASE", "rapidsteno")
	t.Setenv("SYNC_TARGET", "postgres")
	t.Setenv("SYNC_BATCH_SIZE", "100")
	t.Setenv("SYNC_BATCH_DELAY", "1s")
	t.Setenv("SYNC_SINCE_HOURS", "24")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rapidsteno", cfg.MongoDatabase)
	assert.Equal(t, "postgres", cfg.SyncTarget)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.BatchDelay)
	assert.Equal(t, 24, cfg.SinceHours)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SYNC_BATCH_SIZE", "many")
	t.Setenv("SYNC_BATCH_DELAY", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchDelay)
}

func TestLoadInvalidTarget(t *testing.T) {
	t.Setenv("SYNC_TARGET", "csv")
	_, err := Load()
	assert.Error(t, err)
}

func TestRequireHelpers(t *testing.T) {
	cfg := &Config{SyncTarget: "api"}
	assert.Error(t, cfg.RequireMongo())
	assert.Error(t, cfg.RequireTarget())
	assert.Error(t, cfg.RequireServer())

	cfg = &Config{
		SyncTarget:  "postgres",
		MongoURI:    "mongodb://localhost",
		DatabaseURL: "postgres://localhost/crm",
		JWTSecret:   "secret",
	}
	assert.NoError(t, cfg.RequireMongo())
	assert.NoError(t, cfg.RequireTarget())
	assert.NoError(t, cfg.RequireServer())
}
