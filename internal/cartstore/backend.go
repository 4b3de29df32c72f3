package cartstore

import (
	"context"

	"github.com/dukerupert/storefront/internal/cart"
)

//go:generate go tool mockgen -source=backend.go -destination=mock_backend.go -package=cartstore

// Backend is the remote cart API used in authenticated mode. Every method
// returns the raw cart payload from the server; the store normalizes it.
// *customerapi.Client satisfies it.
type Backend interface {
	GetCart(ctx context.Context) (cart.Raw, error)
	AddItem(ctx context.Context, in cart.AddItemInput) (cart.Raw, error)
	UpdateItem(ctx context.Context, in cart.UpdateQuantityInput) (cart.Raw, error)
	RemoveItem(ctx context.Context, productID string, attrs cart.Attributes) (cart.Raw, error)
	ClearCart(ctx context.Context) (cart.Raw, error)
	ApplyCoupon(ctx context.Context, code string) (cart.Raw, error)
	RemoveCoupon(ctx context.Context) (cart.Raw, error)
	UpdateShippingMethod(ctx context.Context, method cart.ShippingMethod) (cart.Raw, error)
	UpdateShippingAddress(ctx context.Context, addr cart.ShippingAddress) (cart.Raw, error)
	MergeCart(ctx context.Context, items []cart.CartItem) (cart.Raw, error)
	ValidateCoupon(ctx context.Context, code string, subtotal float64) (cart.Raw, error)
}
