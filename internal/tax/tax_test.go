package tax_test

import (
	"context"
	"testing"

	"github.com/dukerupert/storefront/internal/cart"
	"github.com/dukerupert/storefront/internal/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PercentageResolver(t *testing.T) {
	r, err := tax.NewPercentageResolver(19)
	require.NoError(t, err)

	rate, err := r.Rate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 19.0, rate)

	rate, err = r.Rate(context.Background(), &cart.ShippingAddress{Country: "US"})
	require.NoError(t, err)
	assert.Equal(t, 19.0, rate, "destination does not matter")
}

func Test_PercentageResolver_RejectsOutOfRange(t *testing.T) {
	for _, pct := range []float64{-1, 100.5} {
		_, err := tax.NewPercentageResolver(pct)
		var taxErr *tax.TaxError
		require.ErrorAs(t, err, &taxErr)
		assert.Equal(t, "invalid", taxErr.ErrorCode())
	}
}

func Test_RegionalResolver(t *testing.T) {
	r, err := tax.NewRegionalResolver(5, map[string]float64{
		"co":    19,
		"US/WA": 6.5,
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		addr *cart.ShippingAddress
		want float64
	}{
		{name: "no address", addr: nil, want: 5},
		{name: "no country", addr: &cart.ShippingAddress{City: "Bogotá"}, want: 5},
		{name: "country match is case-insensitive", addr: &cart.ShippingAddress{Country: "Co", State: "Antioquia"}, want: 19},
		{name: "state beats country", addr: &cart.ShippingAddress{Country: "US", State: "wa"}, want: 6.5},
		{name: "unlisted state", addr: &cart.ShippingAddress{Country: "US", State: "OR"}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := r.Rate(context.Background(), tt.addr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rate)
		})
	}
}

func Test_RegionalResolver_RejectsBadRates(t *testing.T) {
	_, err := tax.NewRegionalResolver(-1, nil)
	assert.Error(t, err)

	_, err = tax.NewRegionalResolver(0, map[string]float64{"CO": 200})
	assert.Error(t, err)
}

func Test_ParseRegions(t *testing.T) {
	regions, err := tax.ParseRegions(" CO=19, us/wa = 6.5 ,")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"CO": 19, "US/WA": 6.5}, regions)

	regions, err = tax.ParseRegions("")
	require.NoError(t, err)
	assert.Empty(t, regions)

	_, err = tax.ParseRegions("CO")
	assert.Error(t, err)

	_, err = tax.ParseRegions("CO=lots")
	assert.Error(t, err)
}

func Test_NoTaxAndMockResolvers(t *testing.T) {
	rate, err := tax.NewNoTaxResolver().Rate(context.Background(), &cart.ShippingAddress{Country: "CO"})
	require.NoError(t, err)
	assert.Zero(t, rate)

	mock := tax.NewMockResolver()
	rate, err = mock.Rate(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, rate)

	mock.RateFunc = func(ctx context.Context, destination *cart.ShippingAddress) (float64, error) {
		return 8, nil
	}
	rate, err = mock.Rate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 8.0, rate)
}
