package tax

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dukerupert/storefront/internal/cart"
)

// PercentageResolver applies one rate everywhere.
type PercentageResolver struct {
	rate float64
}

// NewPercentageResolver creates a resolver for a fixed percentage.
func NewPercentageResolver(pct float64) (*PercentageResolver, error) {
	if !validRate(pct) {
		return nil, ErrInvalidRate(pct)
	}
	return &PercentageResolver{rate: pct}, nil
}

// Rate returns the configured percentage.
func (r *PercentageResolver) Rate(ctx context.Context, destination *cart.ShippingAddress) (float64, error) {
	return r.rate, nil
}

// RegionalResolver looks up the rate by destination. Regions are keyed by
// country ("CO") or country and state ("US/WA"); the state entry wins.
type RegionalResolver struct {
	fallback float64
	regions  map[string]float64
}

// NewRegionalResolver creates a resolver that uses fallback for carts
// without an address or outside every listed region.
func NewRegionalResolver(fallback float64, regions map[string]float64) (*RegionalResolver, error) {
	if !validRate(fallback) {
		return nil, ErrInvalidRate(fallback)
	}
	normalized := make(map[string]float64, len(regions))
	for region, pct := range regions {
		if !validRate(pct) {
			return nil, ErrInvalidRate(pct)
		}
		normalized[regionKey(region)] = pct
	}
	return &RegionalResolver{fallback: fallback, regions: normalized}, nil
}

// Rate returns the most specific rate for destination.
func (r *RegionalResolver) Rate(ctx context.Context, destination *cart.ShippingAddress) (float64, error) {
	if destination == nil || destination.Country == "" {
		return r.fallback, nil
	}
	if pct, ok := r.regions[regionKey(destination.Country+"/"+destination.State)]; ok {
		return pct, nil
	}
	if pct, ok := r.regions[regionKey(destination.Country)]; ok {
		return pct, nil
	}
	return r.fallback, nil
}

func regionKey(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}

// ParseRegions reads "CO=19,US/WA=6.5" into a region table.
func ParseRegions(s string) (map[string]float64, error) {
	regions := make(map[string]float64)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		region, value, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(region) == "" {
			return nil, ErrInvalidRegion(entry)
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", region, err)
		}
		regions[regionKey(region)] = pct
	}
	return regions, nil
}
