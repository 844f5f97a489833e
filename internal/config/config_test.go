package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "JWT_SECRET", "PORT", "APP_ENV",
		"STORAGE_ENDPOINT", "STORAGE_ACCESS_KEY", "STORAGE_SECRET_KEY",
		"STORAGE_BUCKET", "STORAGE_USE_SSL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "change_me_in_production", cfg.JWTSecret)
	assert.Equal(t, "localhost:9000", cfg.StorageEndpoint)
	assert.Equal(t, "uploads", cfg.StorageBucket)
	assert.False(t, cfg.StorageUseSSL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_ENDPOINT", "s3.example.com")
	t.Setenv("STORAGE_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, "postgres://u:p@db:5432/app", cfg.DatabaseURL)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3.example.com", cfg.StorageEndpoint)
	assert.True(t, cfg.StorageUseSSL)
	assert.True(t, cfg.IsProduction())
}
