package cart

import (
	"github.com/shopspring/decimal"
)

var (
	hundred   = decimal.NewFromInt(100)
	threshold = decimal.NewFromInt(FreeShippingThreshold)
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func toAmount(d decimal.Decimal) float64 {
	if d.IsNegative() {
		return 0
	}
	return d.Round(2).InexactFloat64()
}

// RecalculateOptions carries the cart-level inputs of a local recompute.
type RecalculateOptions struct {
	Coupon          *Coupon
	TaxRate         float64
	ShippingMethod  ShippingMethod
	ShippingAddress *ShippingAddress
}

func subtotalOf(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(dec(item.UnitPrice()).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// couponDiscount caps percentage coupons at 100% and fixed coupons at the
// subtotal. Shipping coupons carry no monetary discount.
func couponDiscount(c *Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	switch c.Type {
	case CouponPercentage:
		pct := decimal.Min(decimal.Max(dec(c.Discount), decimal.Zero), hundred)
		return subtotal.Mul(pct).Div(hundred)
	case CouponFixed:
		return decimal.Min(decimal.Max(dec(c.Discount), decimal.Zero), subtotal)
	}
	return decimal.Zero
}

// CouponDiscount returns the discount c grants on subtotal.
func CouponDiscount(c *Coupon, subtotal float64) float64 {
	return toAmount(couponDiscount(c, dec(subtotal)))
}

func taxOf(taxable decimal.Decimal, rate float64) decimal.Decimal {
	if rate <= 0 || taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable.Mul(dec(rate)).Div(hundred)
}

// RecalculateLocalCart prices a guest cart locally. Shipping is the flat
// default cost regardless of the selected method, waived once the subtotal
// reaches FreeShippingThreshold. An empty cart ships for nothing: its zero
// subtotal is below the threshold, but no shipment exists to charge for.
// See RecalculateLocalCartWithMethod for the method-aware variant.
func RecalculateLocalCart(items []CartItem, opts RecalculateOptions) Cart {
	return recalculate(items, opts, func(subtotal decimal.Decimal, _ ShippingMethod) decimal.Decimal {
		if subtotal.GreaterThanOrEqual(threshold) {
			return decimal.Zero
		}
		return decimal.NewFromInt(DefaultShippingCost)
	})
}

// RecalculateLocalCartWithMethod is RecalculateLocalCart with shipping
// priced by CalculateShippingCost for the selected method.
func RecalculateLocalCartWithMethod(items []CartItem, opts RecalculateOptions) Cart {
	return recalculate(items, opts, func(subtotal decimal.Decimal, method ShippingMethod) decimal.Decimal {
		return dec(CalculateShippingCost(toAmount(subtotal), method))
	})
}

func recalculate(items []CartItem, opts RecalculateOptions, shippingFor func(decimal.Decimal, ShippingMethod) decimal.Decimal) Cart {
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}

	method := opts.ShippingMethod
	if !method.Valid() {
		method = DefaultShippingMethod
	}

	subtotal := subtotalOf(out)
	discount := couponDiscount(opts.Coupon, subtotal)
	shipping := decimal.Zero
	if len(out) > 0 {
		shipping = shippingFor(subtotal, method)
	}
	taxable := subtotal.Sub(discount)
	tax := taxOf(taxable, opts.TaxRate)
	total := decimal.Max(decimal.Zero, taxable.Add(shipping).Add(tax))

	var addr *ShippingAddress
	if opts.ShippingAddress != nil {
		a := *opts.ShippingAddress
		addr = &a
	}

	return Cart{
		Items:           out,
		Subtotal:        toAmount(subtotal),
		Tax:             toAmount(tax),
		Shipping:        toAmount(shipping),
		ShippingCost:    toAmount(shipping),
		Discount:        toAmount(discount),
		Total:           toAmount(total),
		Coupon:          opts.Coupon.clone(),
		ShippingMethod:  method,
		ShippingAddress: addr,
		TaxRate:         opts.TaxRate,
		ItemCount:       CountItems(out),
	}
}

// Summary is the read-only projection of a cart used for display.
type Summary struct {
	Subtotal                 float64        `json:"subtotal"`
	Discount                 float64        `json:"discount"`
	Shipping                 float64        `json:"shipping"`
	Tax                      float64        `json:"tax"`
	Total                    float64        `json:"total"`
	Savings                  float64        `json:"savings"`
	ItemCount                int            `json:"itemCount"`
	FreeShippingRemaining    float64        `json:"freeShippingRemaining"`
	QualifiesForFreeShipping bool           `json:"qualifiesForFreeShipping"`
	ShippingMethod           ShippingMethod `json:"shippingMethod"`
	CouponCode               string         `json:"couponCode,omitempty"`
}

// GenerateCartSummary projects c for display. Stored totals are used where
// present; the discount is recomputed from the coupon when none is stored.
// c is never modified.
func GenerateCartSummary(c Cart) Summary {
	subtotal := dec(c.Subtotal)
	if c.Subtotal == 0 && len(c.Items) > 0 {
		subtotal = subtotalOf(c.Items)
	}

	discount := dec(c.Discount)
	if c.Discount == 0 {
		discount = couponDiscount(c.Coupon, subtotal)
	}

	qualifies := subtotal.GreaterThanOrEqual(threshold)
	shipping := decimal.Zero
	if !qualifies && len(c.Items) > 0 {
		switch {
		case c.ShippingCost > 0:
			shipping = dec(c.ShippingCost)
		case c.Shipping > 0:
			shipping = dec(c.Shipping)
		default:
			method := c.ShippingMethod
			if !method.Valid() {
				method = DefaultShippingMethod
			}
			shipping = dec(method.Cost())
		}
	}

	taxable := subtotal.Sub(discount)
	tax := taxOf(taxable, c.TaxRate)
	total := decimal.Max(decimal.Zero, taxable.Add(shipping).Add(tax))

	savings := discount
	for _, item := range c.Items {
		if item.Product == nil || item.Product.ComparePrice <= item.UnitPrice() {
			continue
		}
		perUnit := dec(item.Product.ComparePrice).Sub(dec(item.UnitPrice()))
		savings = savings.Add(perUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	s := Summary{
		Subtotal:                 toAmount(subtotal),
		Discount:                 toAmount(discount),
		Shipping:                 toAmount(shipping),
		Tax:                      toAmount(tax),
		Total:                    toAmount(total),
		Savings:                  toAmount(savings),
		ItemCount:                CountItems(c.Items),
		FreeShippingRemaining:    toAmount(threshold.Sub(subtotal)),
		QualifiesForFreeShipping: qualifies,
		ShippingMethod:           c.ShippingMethod,
	}
	if c.Coupon != nil {
		s.CouponCode = c.Coupon.Code
	}
	return s
}
