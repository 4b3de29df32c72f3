package telemetry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/storefront/internal/cart"
	"github.com/getsentry/sentry-go"
)

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	// DSN is the Sentry Data Source Name (required if Enabled is true)
	DSN string

	// Enabled controls whether Sentry is active
	Enabled bool

	// Environment identifies the deployment environment (dev, prod)
	Environment string

	// Release is the application version/release identifier
	Release string

	// SampleRate controls the percentage of errors to capture (0.0 to 1.0)
	SampleRate float64
}

var sentryEnabled bool

// InitSentry initializes the Sentry client.
// Returns a cleanup function that flushes buffered events on shutdown.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	sentryEnabled = false

	if !cfg.Enabled {
		logger.Debug("Sentry disabled")
		return func() {}, nil
	}
	if cfg.DSN == "" {
		logger.Warn("Sentry DSN not configured, disabling error tracking")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		SampleRate:  sampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	sentryEnabled = true

	logger.Info("Sentry initialized",
		slog.String("environment", cfg.Environment),
		slog.Float64("sample_rate", sampleRate),
	)

	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}

// IsEnabled returns whether Sentry is currently enabled
func IsEnabled() bool {
	return sentryEnabled
}

// ReportableError reports whether err is worth an error-tracking event.
// Failures the user can act on (validation, stock, coupon, auth) are not.
func ReportableError(err error) bool {
	switch cart.ErrorCode(err) {
	case "", cart.EVALIDATION, cart.ESTOCK, cart.ECOUPON, cart.EAUTH, cart.EPRODUCTNOTFOUND:
		return false
	}
	return true
}

// CaptureCartError sends err to Sentry tagged with its cart code and the
// failing operation. Safe to call when Sentry is disabled.
func CaptureCartError(err error, operation string, mode cart.Mode) {
	if !IsEnabled() || !ReportableError(err) {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("cart.code", cart.ErrorCode(err))
		scope.SetTag("cart.operation", operation)
		scope.SetTag("cart.mode", string(mode))
		sentry.CaptureException(err)
	})
}
