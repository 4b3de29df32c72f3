package cart

import (
	"math"
	"time"
)

// QualifiesForFreeShipping reports whether subtotal reaches the threshold.
func QualifiesForFreeShipping(subtotal float64) bool {
	return subtotal >= FreeShippingThreshold
}

// AmountForFreeShipping is how much more must be spent to ship for free.
func AmountForFreeShipping(subtotal float64) float64 {
	return math.Max(0, FreeShippingThreshold-subtotal)
}

// CalculateShippingCost prices shipping for method, honouring free shipping.
func CalculateShippingCost(subtotal float64, method ShippingMethod) float64 {
	if QualifiesForFreeShipping(subtotal) {
		return 0
	}
	return method.Cost()
}

// HasEnoughStock reports whether requested units can be sold. Untracked
// inventory always has enough.
func HasEnoughStock(requested, available int, trackQuantity bool) bool {
	if !trackQuantity {
		return true
	}
	return requested <= available
}

// IsLowStock reports whether stock is positive but at or under the warning level.
func IsLowStock(stock int) bool {
	return stock > 0 && stock <= LowStockWarning
}

// IsOutOfStock reports whether the line asks for more than the product has.
// Lines without a stock figure are never out of stock.
func (i CartItem) IsOutOfStock() bool {
	stock, ok := i.Product.StockLevel()
	if !ok {
		return false
	}
	return !HasEnoughStock(i.Quantity, stock, i.Product.TrackQuantity)
}

// IsLowStock reports whether the line's product is running low.
func (i CartItem) IsLowStock() bool {
	stock, ok := i.Product.StockLevel()
	return ok && i.Product.TrackQuantity && IsLowStock(stock)
}

func HasOutOfStockItems(items []CartItem) bool {
	for _, item := range items {
		if item.IsOutOfStock() {
			return true
		}
	}
	return false
}

func HasLowStockItems(items []CartItem) bool {
	for _, item := range items {
		if item.IsLowStock() {
			return true
		}
	}
	return false
}

// IsCouponValid reports whether c can still be applied now.
func IsCouponValid(c *Coupon) bool {
	return IsCouponValidAt(c, time.Now())
}

// IsCouponValidAt reports whether c can be applied at now. A coupon without
// a code is never valid; one without an expiry always is.
func IsCouponValidAt(c *Coupon, now time.Time) bool {
	if c == nil || c.Code == "" {
		return false
	}
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.After(now)
}

func IsCartEmpty(c Cart) bool {
	return len(c.Items) == 0
}

func HasCouponApplied(c Cart) bool {
	return c.Coupon != nil && c.Coupon.Code != ""
}

// Matches reports whether the line is productID with exactly attrs.
func (i CartItem) Matches(productID string, attrs Attributes) bool {
	return i.ProductID == productID && i.Attributes.Equal(attrs)
}

func indexOfItem(items []CartItem, productID string, attrs Attributes) int {
	for idx, item := range items {
		if item.Matches(productID, attrs) {
			return idx
		}
	}
	return -1
}

// FindCartItem returns the line for productID with exactly attrs. The same
// product in another size or color is a different line.
func FindCartItem(items []CartItem, productID string, attrs Attributes) (CartItem, bool) {
	if idx := indexOfItem(items, productID, attrs); idx >= 0 {
		return items[idx], true
	}
	return CartItem{}, false
}

func IsProductInCart(items []CartItem, productID string, attrs Attributes) bool {
	return indexOfItem(items, productID, attrs) >= 0
}
