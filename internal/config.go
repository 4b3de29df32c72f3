package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dukerupert/storefront/internal/tax"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	API      APIConfig
	Cart     CartConfig
	Storage  StorageConfig
	Sentry   SentryConfig
	Metrics  MetricsConfig
}

// APIConfig points at the customer cart API. An empty BaseURL keeps the
// cart in guest mode.
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// CartConfig holds guest-mode pricing and session settings.
type CartConfig struct {
	TaxRate       float64       // Percent applied to guest carts
	TaxRegions    map[string]float64
	SnapshotTTL   time.Duration // Guest snapshots older than this are discarded
	MethodPricing bool          // Price guest shipping by the selected method
	GuestID       string        // Optional fixed guest session ID
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN         string
	Enabled     bool
	Environment string
	Release     string
	SampleRate  float64
}

// MetricsConfig controls where metrics are written after each command.
type MetricsConfig struct {
	Namespace string
	Dump      bool
}

type StorageConfig struct {
	Provider  string // "local" or "memory"
	LocalPath string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		// Walk up directories to find .env (max 2 parent directories)
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		API: APIConfig{
			BaseURL: getEnv("CART_API_URL", ""),
			Token:   getEnv("CART_API_TOKEN", ""),
			Timeout: getEnvDuration("CART_API_TIMEOUT", 15*time.Second),
		},
		Cart: CartConfig{
			TaxRate:       getEnvFloat("CART_TAX_RATE", 0),
			SnapshotTTL:   getEnvDuration("CART_SNAPSHOT_TTL", 7*24*time.Hour),
			MethodPricing: getEnvBool("CART_METHOD_PRICING", false),
			GuestID:       getEnv("CART_GUEST_ID", ""),
		},
		Storage: StorageConfig{
			Provider:  getEnv("CART_STORAGE_PROVIDER", "local"),
			LocalPath: getEnv("CART_STORAGE_PATH", defaultStoragePath()),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Enabled:     getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:     getEnv("SENTRY_RELEASE", ""),
			SampleRate:  getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
		},
		Metrics: MetricsConfig{
			Namespace: getEnv("METRICS_NAMESPACE", "storefront"),
			Dump:      getEnvBool("METRICS_DUMP", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Cart.TaxRate < 0 || cfg.Cart.TaxRate > 100 {
		return nil, fmt.Errorf("CART_TAX_RATE must be between 0 and 100, got %v", cfg.Cart.TaxRate)
	}

	regions, err := tax.ParseRegions(getEnv("CART_TAX_REGIONS", ""))
	if err != nil {
		return nil, fmt.Errorf("CART_TAX_REGIONS: %w", err)
	}
	cfg.Cart.TaxRegions = regions

	// A token without an API would silently keep the cart in guest mode
	if cfg.Env == "prod" && cfg.API.Token != "" && cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("CART_API_URL required when CART_API_TOKEN is set in production")
	}

	if cfg.Sentry.Enabled && cfg.Sentry.DSN == "" {
		return nil, fmt.Errorf("SENTRY_DSN required when SENTRY_ENABLED is true")
	}

	return cfg, nil
}

func defaultStoragePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Default().Warn("Invalid duration. Using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}
