package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	BackendRemote = "remote"
	BackendSQLite = "sqlite"
)

type Config struct {
	Environment      string
	LogLevel         zerolog.Level
	HTTPTimeout      time.Duration
	MaxRetries       int
	DirectoryBaseURL string
	UserAgent        string
	DirectoryBackend string
	SQLitePath       string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

func WithDirectoryBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.DirectoryBaseURL = baseURL
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Config) {
		c.UserAgent = userAgent
	}
}

// WithDirectoryBackend selects where stations are looked up. Unknown values
// fall back to the remote directory.
func WithDirectoryBackend(backend string) Option {
	return func(c *Config) {
		switch backend {
		case BackendRemote, BackendSQLite:
			c.DirectoryBackend = backend
		default:
			log.Warn().Str("backend", backend).Msg("Unknown directory backend, using remote")
			c.DirectoryBackend = BackendRemote
		}
	}
}

func WithSQLitePath(path string) Option {
	return func(c *Config) {
		c.SQLitePath = path
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		HTTPTimeout:      10 * time.Second,
		MaxRetries:       3,
		DirectoryBaseURL: "https://transport.opendata.ch",
		UserAgent:        "stationmap/1.0",
		DirectoryBackend: BackendRemote,
		SQLitePath:       "./stations.db",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// LoadFromEnv loads configuration from environment variables, reading a .env
// file first when one is present. Variables already set take precedence.
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithMaxRetries(getEnvInt("HTTP_MAX_RETRIES", 3)),
		WithDirectoryBaseURL(getEnvOrDefault("DIRECTORY_BASE_URL", "https://transport.opendata.ch")),
		WithUserAgent(getEnvOrDefault("DIRECTORY_USER_AGENT", "stationmap/1.0")),
		WithDirectoryBackend(getEnvOrDefault("DIRECTORY_BACKEND", BackendRemote)),
		WithSQLitePath(getEnvOrDefault("SQLITE_PATH", "./stations.db")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
