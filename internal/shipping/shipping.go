package shipping

import (
	"context"
	"time"

	"github.com/dukerupert/storefront/internal/cart"
)

// Provider lists the shipping options a cart can choose from.
type Provider interface {
	// GetRates returns the available options for a cart.
	GetRates(ctx context.Context, params RateParams) ([]Rate, error)
}

// RateParams contains parameters for pricing shipping options.
type RateParams struct {
	Subtotal    float64
	Destination *cart.ShippingAddress
	Methods     []cart.ShippingMethod // Optional filter; empty means all
}

// Rate represents one shipping option with its cost for the cart.
type Rate struct {
	Method                cart.ShippingMethod
	ServiceName           string
	Cost                  float64
	Free                  bool
	EstimatedDaysMin      int
	EstimatedDaysMax      int
	EstimatedDeliveryDate time.Time
}
