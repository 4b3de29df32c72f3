// Package tax resolves the tax percentage applied to guest carts.
package tax

import (
	"context"

	"github.com/dukerupert/storefront/internal/cart"
)

// Resolver picks the tax rate for a cart.
// Implementations: PercentageResolver, RegionalResolver, NoTaxResolver
type Resolver interface {
	// Rate returns the tax percentage (19 means 19%) for a delivery to
	// destination. destination is nil before the shopper enters an address.
	Rate(ctx context.Context, destination *cart.ShippingAddress) (float64, error)
}

// validRate reports whether pct is a usable percentage.
func validRate(pct float64) bool {
	return pct >= 0 && pct <= 100
}
