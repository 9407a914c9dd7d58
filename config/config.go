package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gemwheel/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// NATS configuration; empty disables the JetStream publisher
	NATSServers string

	// Market data
	RedisURL          string // Empty disables the price cache
	MarketDataURL     string
	MarketDataTimeout time.Duration
	PriceCacheTTL     time.Duration

	// Workers
	TradeSweepInterval time.Duration

	// Economy tunables
	EconomyConfigPath string
	Economy           *Economy

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ConfigureLogging applies the log level and formatter
func (c *Config) ConfigureLogging() {
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown LOG_LEVEL %q, keeping %s", c.LogLevel, log.GetLevel())
	}

	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		NATSServers: os.Getenv("NATS_SERVERS"),

		RedisURL:          os.Getenv("REDIS_URL"),
		MarketDataURL:     getEnvWithDefault("MARKET_DATA_URL", "https://api.coingecko.com/api/v3"),
		MarketDataTimeout: 3 * time.Second,
		PriceCacheTTL:     60 * time.Second,

		TradeSweepInterval: time.Minute,

		EconomyConfigPath: os.Getenv("ECONOMY_CONFIG_PATH"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "gemwheel"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "none"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: 10000,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if ms := os.Getenv("MARKET_DATA_TIMEOUT_MS"); ms != "" {
		if parsed, err := strconv.Atoi(ms); err == nil && parsed > 0 {
			config.MarketDataTimeout = time.Duration(parsed) * time.Millisecond
		}
	}
	if secs := os.Getenv("TRADE_SWEEP_INTERVAL_SECONDS"); secs != "" {
		if parsed, err := strconv.Atoi(secs); err == nil && parsed > 0 {
			config.TradeSweepInterval = time.Duration(parsed) * time.Second
		}
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MILLIS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMillis = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	economy, err := LoadEconomy(config.EconomyConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load economy config: %w", err)
	}
	config.Economy = economy

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:        "test",
		LogLevel:           "debug",
		LogFormat:          "text",
		MarketDataTimeout:  100 * time.Millisecond,
		PriceCacheTTL:      time.Minute,
		TradeSweepInterval: time.Minute,
		OTelServiceName:    "gemwheel-test",
		OTelExporterType:   "none",
		Economy:            DefaultEconomy(),
	}
}
