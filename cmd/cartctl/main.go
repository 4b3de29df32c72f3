package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukerupert/storefront/internal"
	"github.com/dukerupert/storefront/internal/cartstore"
	"github.com/dukerupert/storefront/internal/customerapi"
	"github.com/dukerupert/storefront/internal/shipping"
	"github.com/dukerupert/storefront/internal/storage"
	"github.com/dukerupert/storefront/internal/tax"
	"github.com/dukerupert/storefront/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger. Stdout carries command output.
	logger := internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	store, err := storage.New(storage.Config{
		Provider:  cfg.Storage.Provider,
		LocalPath: cfg.Storage.LocalPath,
	})
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewCartMetrics(cfg.Metrics.Namespace, registry)

	taxes, err := tax.NewRegionalResolver(cfg.Cart.TaxRate, cfg.Cart.TaxRegions)
	if err != nil {
		return fmt.Errorf("tax configuration invalid: %w", err)
	}

	opts := []cartstore.Option{
		cartstore.WithLogger(logger),
		cartstore.WithMetrics(metrics),
		cartstore.WithTaxResolver(taxes),
		cartstore.WithSnapshotTTL(cfg.Cart.SnapshotTTL),
		cartstore.WithGuestID(cfg.Cart.GuestID),
	}
	if cfg.Cart.MethodPricing {
		opts = append(opts, cartstore.WithMethodPricing())
	}
	if cfg.API.BaseURL != "" {
		client := customerapi.NewClient(cfg.API.BaseURL, customerapi.StaticToken(cfg.API.Token),
			customerapi.WithLogger(logger),
			customerapi.WithTimeout(cfg.API.Timeout),
		)
		opts = append(opts, cartstore.WithBackend(client))
	}
	carts := cartstore.New(store, opts...)

	// With credentials the cart lives on the server; any guest cart is merged.
	if cfg.API.BaseURL != "" && cfg.API.Token != "" {
		if _, err := carts.Login(ctx); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}

	app := &app{
		carts:  carts,
		rates:  shipping.NewMethodTableProvider(),
		out:    os.Stdout,
		logger: logger,
	}
	cmdErr := app.execute(ctx, os.Args[1:])

	if cfg.Metrics.Dump {
		families, err := registry.Gather()
		if err != nil {
			logger.Warn("failed to gather metrics", "error", err)
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
				logger.Warn("failed to write metrics", "error", err)
			}
		}
	}
	return cmdErr
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
