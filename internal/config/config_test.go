package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "https://transport.opendata.ch", cfg.DirectoryBaseURL)
	assert.Equal(t, BackendRemote, cfg.DirectoryBackend)
}

func TestWithEnvironment(t *testing.T) {
	cfg := New(WithEnvironment("development"))

	assert.Equal(t, "development", cfg.Environment)
}

func TestWithLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New(WithLogLevel("debug")).LogLevel)
	assert.Equal(t, zerolog.InfoLevel, New(WithLogLevel("shouting")).LogLevel)
}

func TestWithHTTPTimeout(t *testing.T) {
	cfg := New(WithHTTPTimeout(30 * time.Second))

	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestWithDirectoryBackend(t *testing.T) {
	assert.Equal(t, BackendSQLite, New(WithDirectoryBackend("sqlite")).DirectoryBackend)
	assert.Equal(t, BackendRemote, New(WithDirectoryBackend("carrier-pigeon")).DirectoryBackend)
}

func TestInitializeLogging(t *testing.T) {
	cfg := New(WithEnvironment("local"), WithLogLevel("debug"))
	cfg.InitializeLogging()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("HTTP_MAX_RETRIES", "1")
	t.Setenv("DIRECTORY_BASE_URL", "http://localhost:9999")
	t.Setenv("DIRECTORY_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/stations.db")

	cfg := LoadFromEnv()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, "http://localhost:9999", cfg.DirectoryBaseURL)
	assert.Equal(t, BackendSQLite, cfg.DirectoryBackend)
	assert.Equal(t, "/tmp/stations.db", cfg.SQLitePath)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "value")

	assert.Equal(t, "value", getEnvOrDefault("TEST_ENV_VAR", "default"))
	assert.Equal(t, "default", getEnvOrDefault("NON_EXISTENT_ENV_VAR", "default"))
}

func TestGetDurationEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION_ENV_VAR", "2s")
	t.Setenv("TEST_BAD_DURATION_ENV_VAR", "soon")

	assert.Equal(t, 2*time.Second, getDurationEnvOrDefault("TEST_DURATION_ENV_VAR", 1*time.Second))
	assert.Equal(t, 1*time.Second, getDurationEnvOrDefault("TEST_BAD_DURATION_ENV_VAR", 1*time.Second))
	assert.Equal(t, 1*time.Second, getDurationEnvOrDefault("NON_EXISTENT_DURATION_ENV_VAR", 1*time.Second))
}
