package shipping

import (
	"context"
	"time"

	"github.com/dukerupert/storefront/internal/cart"
)

// MethodTableProvider prices the cart's fixed shipping method table.
// Free shipping applies to every method once the subtotal qualifies.
type MethodTableProvider struct {
	now func() time.Time
}

// NewMethodTableProvider creates a provider backed by the cart constants.
func NewMethodTableProvider() *MethodTableProvider {
	return &MethodTableProvider{now: time.Now}
}

// GetRates converts the method table into Rate values, in display order.
func (p *MethodTableProvider) GetRates(ctx context.Context, params RateParams) ([]Rate, error) {
	if params.Subtotal < 0 {
		return nil, ErrNegativeSubtotal
	}

	methods := params.Methods
	if len(methods) == 0 {
		methods = cart.ShippingMethods()
	}

	result := make([]Rate, 0, len(methods))
	for _, m := range methods {
		if !m.Valid() {
			return nil, ErrUnknownMethod(string(m))
		}
		if m != cart.ShippingPickup && params.Destination != nil && params.Destination.City == "" {
			return nil, ErrDestinationIncomplete
		}

		cost := cart.CalculateShippingCost(params.Subtotal, m)
		daysMin, daysMax := m.DeliveryDays()
		result = append(result, Rate{
			Method:                m,
			ServiceName:           m.Label(),
			Cost:                  cost,
			Free:                  cost == 0,
			EstimatedDaysMin:      daysMin,
			EstimatedDaysMax:      daysMax,
			EstimatedDeliveryDate: p.now().AddDate(0, 0, daysMax),
		})
	}
	return result, nil
}
