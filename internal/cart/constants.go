package cart

import "time"

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 9999
)

// Pricing defaults. Amounts are integers in whatever minor unit the
// storefront prices in; nothing here assumes a currency.
const (
	FreeShippingThreshold = 150000
	DefaultShippingCost   = 15000
	DefaultTaxRate        = 0
	LowStockWarning       = 5

	// DefaultUntrackedStock is the stock assigned to catalog products that
	// arrive without one. It means "untracked", not "99 units left".
	DefaultUntrackedStock = 99

	DefaultProductName = "Producto"
)

// Coupon code bounds.
const (
	MaxCouponCodeLength = 30
	MaxAttributes       = 10
	MaxAttributeKey     = 50
	MaxAttributeValue   = 100
)

// CacheTTL is how long a persisted cart snapshot is considered fresh.
const CacheTTL = 5 * time.Minute

// Storage keys under which the guest session is persisted.
const (
	StorageKeyCart       = "cart"
	StorageKeyGuestID    = "cart_guest_id"
	StorageKeySyncStatus = "cart_sync_status"
)

// ShippingMethod selects a delivery option.
type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
	ShippingPickup    ShippingMethod = "pickup"
)

// DefaultShippingMethod is used whenever a payload carries no usable method.
const DefaultShippingMethod = ShippingStandard

type shippingOption struct {
	label   string
	cost    float64
	daysMin int
	daysMax int
}

var shippingTable = map[ShippingMethod]shippingOption{
	ShippingStandard:  {label: "Envío estándar", cost: DefaultShippingCost, daysMin: 3, daysMax: 5},
	ShippingExpress:   {label: "Envío express", cost: 25000, daysMin: 1, daysMax: 2},
	ShippingOvernight: {label: "Envío al día siguiente", cost: 35000, daysMin: 1, daysMax: 1},
	ShippingPickup:    {label: "Recoger en tienda", cost: 0, daysMin: 0, daysMax: 0},
}

var shippingOrder = []ShippingMethod{ShippingStandard, ShippingExpress, ShippingOvernight, ShippingPickup}

// Valid reports whether m is one of the known shipping methods.
func (m ShippingMethod) Valid() bool {
	_, ok := shippingTable[m]
	return ok
}

// Label returns the display label for m, or the raw value if unknown.
func (m ShippingMethod) Label() string {
	if opt, ok := shippingTable[m]; ok {
		return opt.label
	}
	return string(m)
}

// Cost returns the flat cost for m. Unknown methods cost the default.
func (m ShippingMethod) Cost() float64 {
	if opt, ok := shippingTable[m]; ok {
		return opt.cost
	}
	return DefaultShippingCost
}

// DeliveryDays returns the estimated delivery window in days.
func (m ShippingMethod) DeliveryDays() (min, max int) {
	opt := shippingTable[m]
	return opt.daysMin, opt.daysMax
}

// ShippingMethods returns every known method in display order.
func ShippingMethods() []ShippingMethod {
	out := make([]ShippingMethod, len(shippingOrder))
	copy(out, shippingOrder)
	return out
}

// CouponType determines how a coupon's discount value is interpreted.
type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
	CouponShipping   CouponType = "shipping"
)

// Valid reports whether t is a known coupon type.
func (t CouponType) Valid() bool {
	switch t {
	case CouponPercentage, CouponFixed, CouponShipping:
		return true
	}
	return false
}

// Mode says who owns the totals of a cart.
type Mode string

const (
	// ModeGuest carts are priced locally.
	ModeGuest Mode = "guest"
	// ModeAuthenticated carts trust the totals returned by the server.
	ModeAuthenticated Mode = "authenticated"
)

func (m Mode) Valid() bool {
	return m == ModeGuest || m == ModeAuthenticated
}

// SyncStatus tracks migration of a guest cart into an account cart.
type SyncStatus string

const (
	SyncIdle       SyncStatus = "idle"
	SyncInProgress SyncStatus = "in_progress"
	SyncCompleted  SyncStatus = "completed"
	SyncFailed     SyncStatus = "failed"
)

func (s SyncStatus) Valid() bool {
	switch s {
	case SyncIdle, SyncInProgress, SyncCompleted, SyncFailed:
		return true
	}
	return false
}
