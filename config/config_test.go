package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "musefm", cfg.DBName)
	assert.Equal(t, "musefm", cfg.MinioBucket)
	assert.Equal(t, 72, cfg.JWTTTLHours)
	assert.Equal(t, int64(64<<20), cfg.MaxUploadSize)
}

// Credentials have no baked-in defaults; they must come from the
// environment.
func TestLoadNoCredentialDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MINIO_ACCESS_KEY", "")
	t.Setenv("MINIO_SECRET_KEY", "")

	cfg := Load()
	assert.Empty(t, cfg.DBPassword)
	assert.Empty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.MinioAccessKey)
	assert.Empty(t, cfg.MinioSecretKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("JWT_TTL_HOURS", "24")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MAX_UPLOAD_MB", "8")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, 24, cfg.JWTTTLHours)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, int64(8<<20), cfg.MaxUploadSize)
}
