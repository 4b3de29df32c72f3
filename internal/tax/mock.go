package tax

import (
	"context"

	"github.com/dukerupert/storefront/internal/cart"
)

// MockResolver is a test implementation of Resolver.
type MockResolver struct {
	RateFunc func(ctx context.Context, destination *cart.ShippingAddress) (float64, error)
}

// NewMockResolver creates a mock that returns zero until configured.
func NewMockResolver() *MockResolver {
	return &MockResolver{}
}

// Rate delegates to the configured function or returns zero.
func (m *MockResolver) Rate(ctx context.Context, destination *cart.ShippingAddress) (float64, error) {
	if m.RateFunc != nil {
		return m.RateFunc(ctx, destination)
	}
	return 0, nil
}
