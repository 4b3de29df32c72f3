package cart

// The functions below never modify their inputs. Each returns the next
// list of lines; callers replace the cart wholesale with the result.

func cloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// AddItem adds item to items. An existing line for the same product and
// attributes absorbs the quantity instead.
func AddItem(items []CartItem, item CartItem) []CartItem {
	out := cloneItems(items)
	if idx := indexOfItem(out, item.ProductID, item.Attributes); idx >= 0 {
		out[idx].Quantity = ClampQuantity(out[idx].Quantity + item.Quantity)
		if item.Product != nil {
			out[idx].Product = item.Product.clone()
		}
		return out
	}
	item = item.Clone()
	item.Quantity = ClampQuantity(item.Quantity)
	if item.Attributes == nil {
		item.Attributes = Attributes{}
	}
	return append(out, item)
}

// UpdateItemQuantity sets the quantity of one line.
func UpdateItemQuantity(items []CartItem, productID string, attrs Attributes, qty int) ([]CartItem, error) {
	idx := indexOfItem(items, productID, attrs)
	if idx < 0 {
		return nil, NewProductNotFoundError(productID)
	}
	out := cloneItems(items)
	out[idx].Quantity = ClampQuantity(qty)
	return out, nil
}

// RemoveItem drops one line.
func RemoveItem(items []CartItem, productID string, attrs Attributes) ([]CartItem, error) {
	idx := indexOfItem(items, productID, attrs)
	if idx < 0 {
		return nil, NewProductNotFoundError(productID)
	}
	out := make([]CartItem, 0, len(items)-1)
	for i, item := range items {
		if i != idx {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

// MergeItems folds incoming into base, line by line, as AddItem does.
func MergeItems(base, incoming []CartItem) []CartItem {
	out := cloneItems(base)
	for _, item := range incoming {
		out = AddItem(out, item)
	}
	return out
}

// Options returns the cart-level inputs of c for a recompute.
func (c Cart) Options() RecalculateOptions {
	return RecalculateOptions{
		Coupon:          c.Coupon,
		TaxRate:         c.TaxRate,
		ShippingMethod:  c.ShippingMethod,
		ShippingAddress: c.ShippingAddress,
	}
}

// WithItems reprices c locally over items.
func (c Cart) WithItems(items []CartItem) Cart {
	return RecalculateLocalCart(items, c.Options())
}

// ApplyCoupon reprices c with coupon applied. Expired or code-less coupons
// are rejected with a *CartCouponError.
func ApplyCoupon(c Cart, coupon *Coupon) (Cart, error) {
	if !IsCouponValid(coupon) {
		return Cart{}, NewCouponError("Coupon is invalid or expired")
	}
	opts := c.Options()
	opts.Coupon = coupon
	return RecalculateLocalCart(c.Items, opts), nil
}

// RemoveCoupon reprices c without a coupon.
func RemoveCoupon(c Cart) Cart {
	opts := c.Options()
	opts.Coupon = nil
	return RecalculateLocalCart(c.Items, opts)
}

// SetShippingMethod reprices c for method.
func SetShippingMethod(c Cart, method ShippingMethod) (Cart, error) {
	if !method.Valid() {
		return Cart{}, NewValidationError("Invalid shipping method", map[string]string{
			"shippingMethod": "must be one of standard, express, overnight, pickup",
		})
	}
	opts := c.Options()
	opts.ShippingMethod = method
	return RecalculateLocalCart(c.Items, opts), nil
}

// SetShippingAddress returns c with addr attached.
func SetShippingAddress(c Cart, addr ShippingAddress) Cart {
	opts := c.Options()
	opts.ShippingAddress = &addr
	return RecalculateLocalCart(c.Items, opts)
}

// ClearItems empties c, keeping its shipping method and address.
func ClearItems(c Cart) Cart {
	opts := c.Options()
	opts.Coupon = nil
	return RecalculateLocalCart(nil, opts)
}
