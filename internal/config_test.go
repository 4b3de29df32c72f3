package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "CART_API_URL", "CART_API_TOKEN", "CART_TAX_RATE", "CART_SNAPSHOT_TTL", "SENTRY_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Zero(t, cfg.Cart.TaxRate)
	assert.Equal(t, 7*24*time.Hour, cfg.Cart.SnapshotTTL)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.NotEmpty(t, cfg.Storage.LocalPath)
	assert.False(t, cfg.Sentry.Enabled)
}

func TestNewConfig_ReadsCartSettings(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("CART_API_URL", "https://api.example.com")
	t.Setenv("CART_API_TOKEN", "secret")
	t.Setenv("CART_TAX_RATE", "19")
	t.Setenv("CART_SNAPSHOT_TTL", "2h")
	t.Setenv("CART_METHOD_PRICING", "true")
	t.Setenv("CART_GUEST_ID", "guest-1")
	t.Setenv("CART_TAX_REGIONS", "CO=19,US/WA=6.5")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, 19.0, cfg.Cart.TaxRate)
	assert.Equal(t, 2*time.Hour, cfg.Cart.SnapshotTTL)
	assert.True(t, cfg.Cart.MethodPricing)
	assert.Equal(t, "guest-1", cfg.Cart.GuestID)
	assert.Equal(t, map[string]float64{"CO": 19, "US/WA": 6.5}, cfg.Cart.TaxRegions)
}

func TestNewConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("CART_SNAPSHOT_TTL", "forever")
	t.Setenv("CART_API_TOKEN", "")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 7*24*time.Hour, cfg.Cart.SnapshotTTL)
}

func TestNewConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "tax rate out of range",
			env:  map[string]string{"CART_TAX_RATE": "150"},
		},
		{
			name: "token without API in production",
			env:  map[string]string{"ENV": "prod", "CART_API_TOKEN": "secret", "CART_API_URL": ""},
		},
		{
			name: "malformed tax regions",
			env:  map[string]string{"CART_TAX_REGIONS": "CO"},
		},
		{
			name: "sentry enabled without DSN",
			env:  map[string]string{"SENTRY_ENABLED": "true", "SENTRY_DSN": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(io.Discard, "dev", tt.level)
			assert.True(t, logger.Enabled(context.Background(), tt.want))
			assert.False(t, logger.Enabled(context.Background(), tt.want-1))
		})
	}
}

func TestNewLogger_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "info")

	logger.Info("cart loaded", "items", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cart loaded", entry["msg"])
	assert.Equal(t, "cartctl", entry["service"])
	assert.EqualValues(t, 2, entry["items"])
}
