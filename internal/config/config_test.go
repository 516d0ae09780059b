package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "DB_DSN", "SESSION_SECRET", "S3_PUBLIC_READ", "UPLOAD_MAX_BYTES", "CACHE_TTL", "S3_BUCKET", "S3_REGION"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.UsesDevSecret())
	assert.True(t, cfg.S3.PublicRead)
	assert.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.S3.Enabled())
	assert.Error(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_DSN", "file:catalog.db")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_BUCKET", "images")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000/")
	t.Setenv("S3_PUBLIC_READ", "false")
	t.Setenv("CACHE_TTL", "30s")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.False(t, cfg.S3.PublicRead)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Config{DBDriver: "mysql", DBDSN: "x", UploadMaxBytes: 1}
	assert.ErrorContains(t, cfg.Validate(), "unsupported DB_DRIVER")
}
