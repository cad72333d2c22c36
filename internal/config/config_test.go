package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_DevelopmentDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, "5000", cfg.App.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.App.StorageDriver)
	assert.Equal(t, devSessionSecret, cfg.Session.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, UploadDisk, cfg.Upload.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestFromEnv_ProductionRequiresSessionSecret(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{"APP_ENV": "production"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	cfg, err := FromEnv(envFrom(map[string]string{"APP_ENV": "Production", "SESSION_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "s3cret", cfg.Session.Secret)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{
		"STORAGE_DRIVER":   "mongo",
		"UPLOAD_MAX_BYTES": "lots",
	}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidEnv))
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
	assert.Contains(t, err.Error(), "UPLOAD_MAX_BYTES")
}

func TestFromEnv_S3NeedsBucket(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{"UPLOAD_BACKEND": "s3"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestFromEnv_PortFallback(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{"PORT": "8080"}))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
}
