// Package cartstore owns the shopper's current cart. It serializes every
// read, compute and write of the cart, persists guest carts to storage and
// defers to the customer API once the shopper is authenticated.
package cartstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/storefront/internal/cart"
	"github.com/dukerupert/storefront/internal/storage"
	"github.com/dukerupert/storefront/internal/tax"
	"github.com/dukerupert/storefront/internal/telemetry"
)

// Store holds the current cart and its mode. It is safe for concurrent use;
// operations run one at a time and each replaces the cart wholesale.
type Store struct {
	mu sync.Mutex

	storage     storage.Storage
	backend     Backend
	metrics     *telemetry.CartMetrics
	logger      *slog.Logger
	taxes       tax.Resolver
	ttl         time.Duration
	methodAware bool
	fixedGuest  string
	now         func() time.Time

	loaded  bool
	mode    cart.Mode
	sync    cart.SyncStatus
	guestID string
	current cart.Cart
}

// Option configures a Store.
type Option func(*Store)

// WithBackend sets the customer API used in authenticated mode and for
// coupon validation.
func WithBackend(b Backend) Option {
	return func(s *Store) { s.backend = b }
}

// WithMetrics records operation outcomes to m.
func WithMetrics(m *telemetry.CartMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithTaxRate applies one tax percentage to every guest cart. Rates outside
// 0-100 are ignored.
func WithTaxRate(pct float64) Option {
	return func(s *Store) {
		if r, err := tax.NewPercentageResolver(pct); err == nil {
			s.taxes = r
		}
	}
}

// WithTaxResolver picks the guest tax rate from the cart's destination.
func WithTaxResolver(r tax.Resolver) Option {
	return func(s *Store) { s.taxes = r }
}

// WithSnapshotTTL discards guest snapshots older than ttl. Zero keeps them
// forever.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithMethodPricing prices guest shipping by the selected method instead of
// the flat default cost.
func WithMethodPricing() Option {
	return func(s *Store) { s.methodAware = true }
}

// WithGuestID pins the guest session ID instead of generating one.
func WithGuestID(id string) Option {
	return func(s *Store) { s.fixedGuest = id }
}

// WithClock overrides time.Now for snapshot expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a guest-mode Store persisting to st.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		taxes:   tax.NewNoTaxResolver(),
		ttl:     7 * 24 * time.Hour,
		now:     time.Now,
		mode:    cart.ModeGuest,
		sync:    cart.SyncIdle,
		current: cart.NewEmptyCart(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "cartstore")
	return s
}

// Mode returns whether totals are local (guest) or server-owned.
func (s *Store) Mode() cart.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SyncStatus returns the state of the last guest cart migration.
func (s *Store) SyncStatus() cart.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sync
}

// GuestID returns the guest session ID, empty until the first load.
func (s *Store) GuestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guestID
}

// Cart returns a copy of the current cart without loading it.
func (s *Store) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Load (re)reads the cart from its source of truth: the guest snapshot or
// the customer API.
func (s *Store) Load(ctx context.Context) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = false
	if err := s.ensureLoaded(ctx); err != nil {
		return cart.Cart{}, s.fail("load", err)
	}
	s.metrics.ObserveOperation("load", s.mode, nil)
	return s.current.Clone(), nil
}

// Add adds a product that is already in the cart (guest mode) or known to
// the server (authenticated mode). Use AddProduct to add from catalog data.
func (s *Store) Add(ctx context.Context, in cart.AddItemInput) (cart.Cart, error) {
	return s.run(ctx, "add", func(cur cart.Cart) (cart.Cart, error) {
		in, err := cart.ValidateAddItem(in)
		if err != nil {
			return cart.Cart{}, err
		}
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.AddItem(ctx, in)
			return s.serverCart(ctx, raw, err)
		}

		existing, ok := cart.FindCartItem(cur.Items, in.ProductID, in.Attributes)
		if !ok {
			return cart.Cart{}, cart.NewValidationError("Product details are required to add to a guest cart", map[string]string{
				"product": "required",
			})
		}
		if err := checkStock(existing, existing.Quantity+in.Quantity); err != nil {
			return cart.Cart{}, err
		}
		existing.Quantity = in.Quantity
		return cur.WithItems(cart.AddItem(cur.Items, existing)), nil
	})
}

// AddProduct adds qty units of a catalog product. Guest carts check the
// product's stock before adding. Both modes key the line by
// cart.CatalogProductID.
func (s *Store) AddProduct(ctx context.Context, product cart.Raw, qty int, attrs cart.Attributes) (cart.Cart, error) {
	return s.run(ctx, "add", func(cur cart.Cart) (cart.Cart, error) {
		productID, ok := cart.CatalogProductID(product)
		if !ok {
			return cart.Cart{}, cart.NewValidationError("Product has no id", map[string]string{"productId": "required"})
		}
		in, err := cart.ValidateAddItem(cart.AddItemInput{ProductID: productID, Quantity: qty, Attributes: attrs})
		if err != nil {
			return cart.Cart{}, err
		}
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.AddItem(ctx, in)
			return s.serverCart(ctx, raw, err)
		}

		item, err := cart.CreateGuestCartItem(product, in.Quantity, in.Attributes)
		if err != nil {
			return cart.Cart{}, err
		}
		requested := item.Quantity
		if existing, ok := cart.FindCartItem(cur.Items, item.ProductID, item.Attributes); ok {
			requested += existing.Quantity
		}
		if err := checkStock(item, requested); err != nil {
			return cart.Cart{}, err
		}
		return cur.WithItems(cart.AddItem(cur.Items, item)), nil
	})
}

// Update sets the quantity of an existing line.
func (s *Store) Update(ctx context.Context, in cart.UpdateQuantityInput) (cart.Cart, error) {
	return s.run(ctx, "update", func(cur cart.Cart) (cart.Cart, error) {
		in, err := cart.ValidateUpdateQuantity(in)
		if err != nil {
			return cart.Cart{}, err
		}
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.UpdateItem(ctx, in)
			return s.serverCart(ctx, raw, err)
		}

		existing, ok := cart.FindCartItem(cur.Items, in.ProductID, in.Attributes)
		if !ok {
			return cart.Cart{}, cart.NewProductNotFoundError(in.ProductID)
		}
		if err := checkStock(existing, in.Quantity); err != nil {
			return cart.Cart{}, err
		}
		items, err := cart.UpdateItemQuantity(cur.Items, in.ProductID, in.Attributes, in.Quantity)
		if err != nil {
			return cart.Cart{}, err
		}
		return cur.WithItems(items), nil
	})
}

// Remove deletes the line for productID with attrs.
func (s *Store) Remove(ctx context.Context, productID string, attrs cart.Attributes) (cart.Cart, error) {
	return s.run(ctx, "remove", func(cur cart.Cart) (cart.Cart, error) {
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.RemoveItem(ctx, productID, attrs)
			return s.serverCart(ctx, raw, err)
		}
		items, err := cart.RemoveItem(cur.Items, productID, attrs)
		if err != nil {
			return cart.Cart{}, err
		}
		return cur.WithItems(items), nil
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) (cart.Cart, error) {
	return s.run(ctx, "clear", func(cur cart.Cart) (cart.Cart, error) {
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.ClearCart(ctx)
			return s.serverCart(ctx, raw, err)
		}
		return cart.ClearItems(cur), nil
	})
}

// ApplyCoupon applies the coupon named by code. Guest carts ask the
// customer API to describe the coupon and price it locally.
func (s *Store) ApplyCoupon(ctx context.Context, code string) (cart.Cart, error) {
	return s.run(ctx, "apply_coupon", func(cur cart.Cart) (cart.Cart, error) {
		code, err := cart.ValidateCouponCode(code)
		if err != nil {
			return cart.Cart{}, err
		}
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.ApplyCoupon(ctx, code)
			return s.serverCart(ctx, raw, err)
		}

		if s.backend == nil {
			return cart.Cart{}, cart.NewCouponError("Coupons cannot be validated offline")
		}
		raw, err := s.backend.ValidateCoupon(ctx, code, cur.Subtotal)
		if err != nil {
			return cart.Cart{}, err
		}
		coupon := cart.ParseCoupon(raw)
		if coupon == nil {
			return cart.Cart{}, cart.NewCouponError("")
		}
		return cart.ApplyCoupon(cur, coupon)
	})
}

// RemoveCoupon drops the applied coupon, if any.
func (s *Store) RemoveCoupon(ctx context.Context) (cart.Cart, error) {
	return s.run(ctx, "remove_coupon", func(cur cart.Cart) (cart.Cart, error) {
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.RemoveCoupon(ctx)
			return s.serverCart(ctx, raw, err)
		}
		return cart.RemoveCoupon(cur), nil
	})
}

// SetShippingMethod selects a shipping method by name.
func (s *Store) SetShippingMethod(ctx context.Context, method string) (cart.Cart, error) {
	return s.run(ctx, "set_shipping_method", func(cur cart.Cart) (cart.Cart, error) {
		m, err := cart.ValidateShippingMethod(method)
		if err != nil {
			return cart.Cart{}, err
		}
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.UpdateShippingMethod(ctx, m)
			return s.serverCart(ctx, raw, err)
		}
		return cart.SetShippingMethod(cur, m)
	})
}

// SetShippingAddress validates and attaches the delivery address.
func (s *Store) SetShippingAddress(ctx context.Context, addr cart.ShippingAddress) (cart.Cart, error) {
	return s.run(ctx, "set_shipping_address", func(cur cart.Cart) (cart.Cart, error) {
		addr, err := cart.ValidateShippingAddress(addr)
		if err != nil {
			return cart.Cart{}, err
		}
		if s.mode == cart.ModeAuthenticated {
			raw, err := s.backend.UpdateShippingAddress(ctx, addr)
			return s.serverCart(ctx, raw, err)
		}
		return cart.SetShippingAddress(cur, addr), nil
	})
}

// Summary returns the display projection of the current cart.
func (s *Store) Summary(ctx context.Context) (cart.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return cart.Summary{}, s.fail("summary", err)
	}
	return cart.GenerateCartSummary(s.current), nil
}

// Login switches to authenticated mode and merges the guest cart into the
// customer's cart. On failure the store stays in guest mode with the guest
// cart intact so the merge can be retried.
func (s *Store) Login(ctx context.Context) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return cart.Cart{}, s.fail("login", cart.NewAuthError("No customer API configured"))
	}
	if s.mode == cart.ModeAuthenticated {
		return s.current.Clone(), nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return cart.Cart{}, s.fail("login", err)
	}

	s.setSync(ctx, cart.SyncInProgress)
	guest := s.current

	var (
		raw cart.Raw
		err error
	)
	if len(guest.Items) > 0 {
		s.logger.Info("merging guest cart", "guest_id", s.guestID, "items", len(guest.Items))
		raw, err = s.backend.MergeCart(ctx, guest.Items)
	} else {
		raw, err = s.backend.GetCart(ctx)
	}
	var merged cart.Cart
	if err == nil {
		merged, err = s.serverCart(ctx, raw, nil)
	}
	if err != nil {
		s.setSync(ctx, cart.SyncFailed)
		mapped := cart.FromHTTPError(err)
		if !cart.IsCode(mapped, cart.EAUTH) {
			syncErr := cart.NewSyncError("", cart.ErrorMessage(mapped))
			syncErr.Err = mapped
			mapped = syncErr
		}
		return cart.Cart{}, s.fail("login", mapped)
	}

	if err := s.storage.Delete(ctx, cart.StorageKeyCart); err != nil {
		s.logger.Warn("failed to remove merged guest snapshot", "error", err)
	}
	s.mode = cart.ModeAuthenticated
	s.current = merged
	s.setSync(ctx, cart.SyncCompleted)

	s.metrics.ObserveOperation("login", s.mode, nil)
	s.metrics.ObserveCart(s.mode, merged)
	return merged.Clone(), nil
}

// Logout discards the cart and returns to an empty guest cart.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, cart.StorageKeyCart); err != nil {
		return s.fail("logout", storageError(err))
	}
	empty, err := s.price(ctx, cart.NewEmptyCart())
	if err != nil {
		return s.fail("logout", err)
	}
	s.mode = cart.ModeGuest
	s.current = empty
	s.loaded = true
	s.setSync(ctx, cart.SyncIdle)
	s.metrics.ObserveOperation("logout", s.mode, nil)
	return nil
}

// run serializes one operation: load, compute the next cart from a copy of
// the current one, persist, then swap it in.
func (s *Store) run(ctx context.Context, op string, next func(cart.Cart) (cart.Cart, error)) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return cart.Cart{}, s.fail(op, err)
	}

	c, err := next(s.current.Clone())
	if err != nil {
		return cart.Cart{}, s.fail(op, err)
	}

	if s.mode == cart.ModeGuest {
		c, err = s.price(ctx, c)
		if err != nil {
			return cart.Cart{}, s.fail(op, err)
		}
		if err := s.writeGuestCart(ctx, c); err != nil {
			return cart.Cart{}, s.fail(op, storageError(err))
		}
	}
	s.current = c

	s.metrics.ObserveOperation(op, s.mode, nil)
	s.metrics.ObserveCart(s.mode, c)
	s.logger.Debug("cart updated", "operation", op, "mode", s.mode, "items", c.ItemCount, "total", c.Total)
	return c.Clone(), nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	if s.mode == cart.ModeAuthenticated {
		raw, err := s.backend.GetCart(ctx)
		c, err := s.serverCart(ctx, raw, err)
		if err != nil {
			return err
		}
		s.current = c
		s.loaded = true
		return nil
	}

	id, err := s.guestIdentity(ctx)
	if err != nil {
		return storageError(err)
	}
	c, dropped, err := s.readGuestCart(ctx)
	if err != nil {
		return storageError(err)
	}
	s.reportDropped("snapshot", dropped)

	c, err = s.price(ctx, c)
	if err != nil {
		return err
	}
	s.guestID = id
	s.sync = s.readSyncStatus(ctx)
	s.current = c
	s.loaded = true
	return nil
}

// serverCart normalizes a server response. Server totals are kept as is.
// An empty response body means the server did not echo the cart, so it is
// fetched.
func (s *Store) serverCart(ctx context.Context, raw cart.Raw, err error) (cart.Cart, error) {
	if err != nil {
		return cart.Cart{}, err
	}
	if raw == nil {
		raw, err = s.backend.GetCart(ctx)
		if err != nil {
			return cart.Cart{}, err
		}
	}
	c, dropped := cart.CreateCartWithDiagnostics(raw)
	s.reportDropped("api", dropped)
	return c, nil
}

// price recomputes a guest cart's totals at the tax rate for its
// destination.
func (s *Store) price(ctx context.Context, c cart.Cart) (cart.Cart, error) {
	rate, err := s.taxes.Rate(ctx, c.ShippingAddress)
	if err != nil {
		return cart.Cart{}, &cart.CartError{Code: cart.ECART, Message: "Could not calculate tax", Err: err}
	}
	opts := c.Options()
	opts.TaxRate = rate
	if s.methodAware {
		return cart.RecalculateLocalCartWithMethod(c.Items, opts), nil
	}
	return cart.RecalculateLocalCart(c.Items, opts), nil
}

func (s *Store) setSync(ctx context.Context, status cart.SyncStatus) {
	s.sync = status
	if status == cart.SyncCompleted || status == cart.SyncFailed {
		s.metrics.ObserveSync(status)
	}
	if err := s.writeSyncStatus(ctx, status); err != nil {
		s.logger.Warn("failed to persist sync status", "status", status, "error", err)
	}
}

func (s *Store) reportDropped(source string, dropped []cart.DroppedItem) {
	for _, d := range dropped {
		s.logger.Warn("dropped malformed cart item", "source", source, "index", d.Index, "reason", d.Reason)
	}
	s.metrics.ObserveDropped(source, len(dropped))
}

// fail maps err to a cart error, tags it with op and records it.
func (s *Store) fail(op string, err error) error {
	err = cart.FromHTTPError(err)

	var ce *cart.CartError
	if errors.As(err, &ce) && ce.Op == "" {
		ce.Op = "cart." + op
	}

	s.metrics.ObserveOperation(op, s.mode, err)
	telemetry.CaptureCartError(err, op, s.mode)

	if telemetry.ReportableError(err) {
		s.logger.Error("cart operation failed", "operation", op, "mode", s.mode, "code", cart.ErrorCode(err), "error", err)
	} else {
		s.logger.Info("cart operation rejected", "operation", op, "mode", s.mode, "code", cart.ErrorCode(err), "error", err)
	}
	return err
}

func storageError(err error) error {
	return &cart.CartError{Code: cart.ECART, Message: "Could not access the saved cart", Err: err}
}

// checkStock rejects requested when the product tracks a lower stock.
func checkStock(item cart.CartItem, requested int) error {
	if item.Product == nil {
		return nil
	}
	stock, ok := item.Product.StockLevel()
	if !ok || cart.HasEnoughStock(requested, stock, item.Product.TrackQuantity) {
		return nil
	}
	return cart.NewStockError("", stock)
}
