// Package cart is the storefront's cart domain model: it normalizes cart
// payloads from the API, the guest snapshot and the catalog into canonical
// values, prices guest carts locally and holds the rules that gate cart
// operations. Nothing here performs I/O or keeps state; every operation
// returns a new value.
package cart

import (
	"encoding/json"
	"fmt"
	"time"
)

// Coupon is a discount descriptor.
type Coupon struct {
	Code      string     `json:"code"`
	Type      CouponType `json:"type"`
	Discount  float64    `json:"discount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (c *Coupon) clone() *Coupon {
	if c == nil {
		return nil
	}
	out := *c
	if c.ExpiresAt != nil {
		t := *c.ExpiresAt
		out.ExpiresAt = &t
	}
	return &out
}

// ShippingAddress is the delivery contact and address of a cart.
type ShippingAddress struct {
	FullName   string `json:"fullName" validate:"required,min=2,max=100"`
	Email      string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	Street     string `json:"street" validate:"required,min=5,max=200"`
	City       string `json:"city" validate:"required,min=2,max=100"`
	State      string `json:"state" validate:"required,min=2,max=100"`
	PostalCode string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"required,min=2,max=56"`
	Notes      string `json:"notes,omitempty" validate:"max=500"`
}

// Cart is the aggregate for one shopping session. Treat it as a value:
// operations return a new Cart instead of modifying one in place.
type Cart struct {
	Items           []CartItem       `json:"items"`
	Subtotal        float64          `json:"subtotal"`
	Tax             float64          `json:"tax"`
	Shipping        float64          `json:"shipping"`
	ShippingCost    float64          `json:"shippingCost"`
	Discount        float64          `json:"discount"`
	Total           float64          `json:"total"`
	Coupon          *Coupon          `json:"coupon"`
	ShippingMethod  ShippingMethod   `json:"shippingMethod"`
	ShippingAddress *ShippingAddress `json:"shippingAddress"`
	TaxRate         float64          `json:"taxRate"`
	ItemCount       int              `json:"itemCount"`
}

// NewEmptyCart returns a cart with no items and all totals at zero.
func NewEmptyCart() Cart {
	return Cart{
		Items:          []CartItem{},
		ShippingMethod: DefaultShippingMethod,
		TaxRate:        DefaultTaxRate,
	}
}

// Clone returns a deep copy of c.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = item.Clone()
	}
	c.Items = items
	c.Coupon = c.Coupon.clone()
	if c.ShippingAddress != nil {
		addr := *c.ShippingAddress
		c.ShippingAddress = &addr
	}
	return c
}

// CountItems sums the quantities of items.
func CountItems(items []CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// DroppedItem records a raw line that could not be normalized. Index is
// -1 when the items field itself is not a list.
type DroppedItem struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// CreateCart normalizes a raw cart payload. Malformed lines are dropped;
// use CreateCartWithDiagnostics to find out which.
func CreateCart(raw Raw) Cart {
	c, _ := CreateCartWithDiagnostics(raw)
	return c
}

// CreateCartWithDiagnostics is CreateCart plus the list of dropped lines.
func CreateCartWithDiagnostics(raw Raw) (Cart, []DroppedItem) {
	if raw == nil {
		return NewEmptyCart(), nil
	}

	var (
		items   = []CartItem{}
		dropped []DroppedItem
	)
	rawItems, ok := itemList(raw["items"])
	if !ok {
		dropped = append(dropped, DroppedItem{Index: -1, Reason: fmt.Sprintf("items is %T, not a list", raw["items"])})
	}
	for i, v := range rawItems {
		m, ok := asRaw(v)
		if !ok {
			dropped = append(dropped, DroppedItem{Index: i, Reason: fmt.Sprintf("item is %T, not an object", v)})
			continue
		}
		item, err := CreateCartItem(m)
		if err != nil {
			dropped = append(dropped, DroppedItem{Index: i, Reason: ErrorMessage(err)})
			continue
		}
		items = append(items, item)
	}

	shipping := amount(raw["shipping"])
	shippingCost := amount(raw["shippingCost"])
	if _, ok := raw["shipping"]; !ok {
		shipping = shippingCost
	}
	if _, ok := raw["shippingCost"]; !ok {
		shippingCost = shipping
	}

	method := ShippingMethod(str(raw["shippingMethod"]))
	if !method.Valid() {
		method = DefaultShippingMethod
	}

	return Cart{
		Items:           items,
		Subtotal:        amount(raw["subtotal"]),
		Tax:             amount(raw["tax"]),
		Shipping:        shipping,
		ShippingCost:    shippingCost,
		Discount:        amount(raw["discount"]),
		Total:           amount(raw["total"]),
		Coupon:          parseCoupon(raw["coupon"]),
		ShippingMethod:  method,
		ShippingAddress: parseAddress(raw["shippingAddress"]),
		TaxRate:         amount(raw["taxRate"]),
		ItemCount:       CountItems(items),
	}, dropped
}

// itemList accepts the list shapes a decoded or hand-built payload may
// carry. A missing list is an empty one.
func itemList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil:
		return nil, true
	case []any:
		return l, true
	case []Raw:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// ParseCoupon reads a coupon descriptor from a validation response. The
// descriptor may sit under "coupon" or at the top level. A response with
// "valid": false or without a code yields nil.
func ParseCoupon(raw Raw) *Coupon {
	if raw == nil {
		return nil
	}
	if valid, ok := boolean(raw["valid"]); ok && !valid {
		return nil
	}
	if nested, ok := asRaw(raw["coupon"]); ok {
		return parseCoupon(nested)
	}
	return parseCoupon(raw)
}

func parseCoupon(v any) *Coupon {
	m, ok := asRaw(v)
	if !ok {
		return nil
	}
	code := str(m["code"])
	if code == "" {
		return nil
	}
	c := &Coupon{
		Code:     code,
		Type:     CouponType(str(m["type"])),
		Discount: amount(m["discount"]),
	}
	if t, ok := timestamp(m["expiresAt"]); ok {
		c.ExpiresAt = &t
	}
	return c
}

func parseAddress(v any) *ShippingAddress {
	m, ok := asRaw(v)
	if !ok {
		return nil
	}
	street := str(m["street"])
	if street == "" {
		street = str(m["address"])
	}
	return &ShippingAddress{
		FullName:   str(m["fullName"]),
		Email:      str(m["email"]),
		Phone:      str(m["phone"]),
		Street:     street,
		City:       str(m["city"]),
		State:      str(m["state"]),
		PostalCode: str(m["postalCode"]),
		Country:    str(m["country"]),
		Notes:      str(m["notes"]),
	}
}

// Snapshot encodes c in the shape CreateCart reads back.
func Snapshot(c Cart) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	return data, nil
}

// ParseSnapshot decodes a persisted snapshot. Only an undecodable blob is
// an error; malformed lines are dropped and reported.
func ParseSnapshot(data []byte) (Cart, []DroppedItem, error) {
	if len(data) == 0 {
		return NewEmptyCart(), nil, nil
	}
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewEmptyCart(), nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	c, dropped := CreateCartWithDiagnostics(raw)
	return c, dropped, nil
}
