package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"superfan/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Ledger configuration
	TapInOverrideCap int64 // Ceiling for per-scan point overrides carried by admin QR codes

	// Redemption hold configuration
	HoldTTLMinutes           int // How long a presale hold stays HELD before the sweep releases it
	HoldSweepIntervalSeconds int // How often the sweep looks for expired holds

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp", or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development" or "production"
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
			// In test environment, use a default test config instead of panicking
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

// HoldTTL returns how long a presale hold stays open
func (c *Config) HoldTTL() time.Duration {
	return time.Duration(c.HoldTTLMinutes) * time.Minute
}

// HoldSweepInterval returns how often the hold sweep worker runs
func (c *Config) HoldSweepInterval() time.Duration {
	return time.Duration(c.HoldSweepIntervalSeconds) * time.Second
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Ledger settings with defaults
		TapInOverrideCap: 500,

		// Redemption holds
		HoldTTLMinutes:           15,
		HoldSweepIntervalSeconds: 60,

		// OpenTelemetry
		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "superfan"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: 60000,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if cap := os.Getenv("TAP_IN_OVERRIDE_CAP"); cap != "" {
		if parsedCap, err := strconv.ParseInt(cap, 10, 64); err == nil {
			config.TapInOverrideCap = parsedCap
		}
	}
	if ttl := os.Getenv("HOLD_TTL_MINUTES"); ttl != "" {
		if parsedTTL, err := strconv.Atoi(ttl); err == nil && parsedTTL > 0 {
			config.HoldTTLMinutes = parsedTTL
		}
	}
	if interval := os.Getenv("HOLD_SWEEP_INTERVAL_SECONDS"); interval != "" {
		if parsedInterval, err := strconv.Atoi(interval); err == nil && parsedInterval > 0 {
			config.HoldSweepIntervalSeconds = parsedInterval
		}
	}
	if millis := os.Getenv("OTEL_EXPORT_INTERVAL_MILLIS"); millis != "" {
		if parsedMillis, err := strconv.Atoi(millis); err == nil && parsedMillis > 0 {
			config.OTelExportIntervalMillis = parsedMillis
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
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
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		TapInOverrideCap:         500,
		HoldTTLMinutes:           15,
		HoldSweepIntervalSeconds: 60,
		OTelServiceName:          "superfan-test",
		OTelExporterType:         "none",
	}
}
