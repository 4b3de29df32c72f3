package cartstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/storefront/internal/cart"
	"github.com/dukerupert/storefront/internal/customerapi"
	"github.com/dukerupert/storefront/internal/storage"
	"github.com/dukerupert/storefront/internal/tax"
	"github.com/dukerupert/storefront/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mug(stock int) cart.Raw {
	return cart.Raw{"_id": "mug-1", "name": "Mug", "price": 50000, "stock": stock}
}

func serverCart(qty int, total float64) cart.Raw {
	return cart.Raw{
		"items": []any{
			map[string]any{
				"product":  map[string]any{"_id": "mug-1", "name": "Mug", "price": 50000},
				"quantity": qty,
				"price":    50000,
			},
		},
		"subtotal": 50000 * float64(qty),
		"total":    total,
	}
}

func newGuestStore(t *testing.T, st storage.Storage, opts ...Option) *Store {
	t.Helper()
	if st == nil {
		st = storage.NewMemoryStorage()
	}
	return New(st, append([]Option{WithLogger(testLogger())}, opts...)...)
}

func TestStore_GuestAddProduct_PricesAndPersists(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	store := newGuestStore(t, st)

	c, err := store.AddProduct(ctx, mug(10), 2, nil)
	require.NoError(t, err)

	assert.Equal(t, cart.ModeGuest, store.Mode())
	assert.Equal(t, 2, c.ItemCount)
	assert.Equal(t, 100000.0, c.Subtotal)
	assert.Equal(t, float64(cart.DefaultShippingCost), c.Shipping)
	assert.Equal(t, 115000.0, c.Total)
	assert.NotEmpty(t, store.GuestID())

	// A fresh store over the same storage sees the same cart and guest.
	reloaded := newGuestStore(t, st)
	got, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.Items[0].ProductID, got.Items[0].ProductID)
	assert.Equal(t, 115000.0, got.Total)
	assert.Equal(t, store.GuestID(), reloaded.GuestID())
}

func TestStore_GuestID(t *testing.T) {
	ctx := context.Background()

	pinned := newGuestStore(t, nil, WithGuestID("guest-42"))
	_, err := pinned.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "guest-42", pinned.GuestID())

	generated := newGuestStore(t, nil)
	assert.Empty(t, generated.GuestID(), "not loaded yet")
	_, err = generated.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, generated.GuestID(), 36)
}

func TestStore_GuestAddProduct_MergesAndChecksStock(t *testing.T) {
	ctx := context.Background()
	store := newGuestStore(t, nil)

	_, err := store.AddProduct(ctx, mug(3), 2, nil)
	require.NoError(t, err)

	_, err = store.AddProduct(ctx, mug(3), 2, nil)
	var stockErr *cart.CartStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, "cart.add", stockErr.Op)

	c, err := store.AddProduct(ctx, mug(3), 1, nil)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	// A different variant is a separate line.
	c, err = store.AddProduct(ctx, mug(10), 1, cart.Attributes{"color": "red"})
	require.NoError(t, err)
	assert.Len(t, c.Items, 2)
}

func TestStore_GuestAdd_RequiresKnownLine(t *testing.T) {
	ctx := context.Background()
	store := newGuestStore(t, nil)

	_, err := store.Add(ctx, cart.AddItemInput{ProductID: "mug-1", Quantity: 1})
	assert.True(t, cart.IsCode(err, cart.EVALIDATION))

	_, err = store.AddProduct(ctx, mug(10), 1, nil)
	require.NoError(t, err)

	c, err := store.Add(ctx, cart.AddItemInput{ProductID: "mug-1", Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)

	_, err = store.Add(ctx, cart.AddItemInput{ProductID: "mug-1", Quantity: 0})
	var valErr *cart.CartValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "quantity")
}

func TestStore_GuestUpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	store := newGuestStore(t, nil)

	_, err := store.AddProduct(ctx, mug(10), 1, nil)
	require.NoError(t, err)

	_, err = store.Update(ctx, cart.UpdateQuantityInput{ProductID: "other", Quantity: 2})
	var notFound *cart.CartProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "other", notFound.ProductID)

	_, err = store.Update(ctx, cart.UpdateQuantityInput{ProductID: "mug-1", Quantity: 11})
	assert.True(t, cart.IsCode(err, cart.ESTOCK))

	c, err := store.Update(ctx, cart.UpdateQuantityInput{ProductID: "mug-1", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 150000.0, c.Subtotal)
	assert.Zero(t, c.Shipping, "free shipping at threshold")

	_, err = store.Remove(ctx, "other", nil)
	assert.True(t, cart.IsCode(err, cart.EPRODUCTNOTFOUND))

	c, err = store.Remove(ctx, "mug-1", nil)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Total)

	_, err = store.AddProduct(ctx, mug(10), 1, nil)
	require.NoError(t, err)
	_, err = store.SetShippingMethod(ctx, "express")
	require.NoError(t, err)

	c, err = store.Clear(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, cart.ShippingExpress, c.ShippingMethod, "clear keeps shipping choice")
}

func TestStore_GuestFailureLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newGuestStore(t, nil)

	before, err := store.AddProduct(ctx, mug(2), 2, nil)
	require.NoError(t, err)

	_, err = store.AddProduct(ctx, mug(2), 1, nil)
	require.Error(t, err)

	assert.Equal(t, before.Total, store.Cart().Total)
	assert.Equal(t, 2, store.Cart().ItemCount)
}

func TestStore_GuestApplyCoupon(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := NewMockBackend(ctrl)
	store := newGuestStore(t, nil, WithBackend(backend))

	_, err := store.AddProduct(ctx, mug(10), 2, nil)
	require.NoError(t, err)

	backend.EXPECT().
		ValidateCoupon(ctx, "SAVE10", 100000.0).
		Return(cart.Raw{"valid": true, "coupon": map[string]any{"code": "SAVE10", "type": "percentage", "discount": 10}}, nil)

	c, err := store.ApplyCoupon(ctx, " save10 ")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, c.Discount)
	assert.Equal(t, 105000.0, c.Total)
	require.NotNil(t, c.Coupon)
	assert.Equal(t, "SAVE10", c.Coupon.Code)

	c, err = store.RemoveCoupon(ctx)
	require.NoError(t, err)
	assert.Nil(t, c.Coupon)
	assert.Equal(t, 115000.0, c.Total)
}

func TestStore_GuestApplyCoupon_Rejected(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name     string
		response cart.Raw
		err      error
		wantCode string
	}{
		{
			name:     "server says invalid",
			response: cart.Raw{"valid": false},
			wantCode: cart.ECOUPON,
		},
		{
			name:     "expired coupon",
			response: cart.Raw{"code": "OLD", "type": "fixed", "discount": 100, "expiresAt": "2000-01-01T00:00:00Z"},
			wantCode: cart.ECOUPON,
		},
		{
			name:     "server message mentions coupon",
			err:      &customerapi.ResponseError{Status: 400, Message: "Cupón no válido"},
			wantCode: cart.ECOUPON,
		},
		{
			name:     "network failure",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: cart.ENETWORK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMockBackend(ctrl)
			store := newGuestStore(t, nil, WithBackend(backend))

			backend.EXPECT().
				ValidateCoupon(ctx, "CODE", gomock.Any()).
				Return(tt.response, tt.err)

			_, err := store.ApplyCoupon(ctx, "code")
			assert.Equal(t, tt.wantCode, cart.ErrorCode(err))
			assert.Nil(t, store.Cart().Coupon)
		})
	}
}

func TestStore_GuestApplyCoupon_Offline(t *testing.T) {
	store := newGuestStore(t, nil)

	_, err := store.ApplyCoupon(context.Background(), "SAVE10")
	assert.True(t, cart.IsCode(err, cart.ECOUPON))

	_, err = store.ApplyCoupon(context.Background(), "bad code!")
	assert.True(t, cart.IsCode(err, cart.EVALIDATION))
}

func TestStore_ShippingMethodPricing(t *testing.T) {
	ctx := context.Background()

	flat := newGuestStore(t, nil)
	_, err := flat.AddProduct(ctx, mug(10), 1, nil)
	require.NoError(t, err)
	c, err := flat.SetShippingMethod(ctx, "Express")
	require.NoError(t, err)
	assert.Equal(t, cart.ShippingExpress, c.ShippingMethod)
	assert.Equal(t, float64(cart.DefaultShippingCost), c.Shipping, "flat pricing ignores the method")

	methodAware := newGuestStore(t, nil, WithMethodPricing())
	_, err = methodAware.AddProduct(ctx, mug(10), 1, nil)
	require.NoError(t, err)
	c, err = methodAware.SetShippingMethod(ctx, "express")
	require.NoError(t, err)
	assert.Equal(t, cart.ShippingExpress.Cost(), c.Shipping)

	_, err = methodAware.SetShippingMethod(ctx, "teleport")
	assert.True(t, cart.IsCode(err, cart.EVALIDATION))
}

func TestStore_SetShippingAddress(t *testing.T) {
	ctx := context.Background()
	store := newGuestStore(t, nil)

	_, err := store.SetShippingAddress(ctx, cart.ShippingAddress{FullName: "A"})
	var valErr *cart.CartValidationError
	require.ErrorAs(t, err, &valErr)
	assert.NotEmpty(t, valErr.Fields)

	c, err := store.SetShippingAddress(ctx, cart.ShippingAddress{
		FullName: "Ana Pérez",
		Phone:    "3001234567",
		Street:   "Calle 10 # 20-30",
		City:     "Bogotá",
		State:    "Cundinamarca",
		Country:  "Colombia",
	})
	require.NoError(t, err)
	require.NotNil(t, c.ShippingAddress)
	assert.Equal(t, "Bogotá", c.ShippingAddress.City)
}

func TestStore_TaxRate(t *testing.T) {
	store := newGuestStore(t, nil, WithTaxRate(19))

	c, err := store.AddProduct(context.Background(), mug(10), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 19000.0, c.Tax)
	assert.Equal(t, 134000.0, c.Total)

	summary, err := store.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 19000.0, summary.Tax)
	assert.Equal(t, 50000.0, summary.FreeShippingRemaining)
}

func TestStore_TaxFollowsDestination(t *testing.T) {
	ctx := context.Background()
	regional, err := tax.NewRegionalResolver(0, map[string]float64{"CO": 19})
	require.NoError(t, err)
	store := newGuestStore(t, nil, WithTaxResolver(regional))

	c, err := store.AddProduct(ctx, mug(10), 2, nil)
	require.NoError(t, err)
	assert.Zero(t, c.Tax, "no destination yet")

	c, err = store.SetShippingAddress(ctx, cart.ShippingAddress{
		FullName: "Ana Pérez",
		Phone:    "3001234567",
		Street:   "Calle 10 # 20-30",
		City:     "Medellín",
		State:    "Antioquia",
		Country:  "CO",
	})
	require.NoError(t, err)
	assert.Equal(t, 19000.0, c.Tax)
	assert.Equal(t, 134000.0, c.Total)
}

func TestStore_TaxResolverFailure(t *testing.T) {
	resolver := tax.NewMockResolver()
	resolver.RateFunc = func(context.Context, *cart.ShippingAddress) (float64, error) {
		return 0, errors.New("rate service down")
	}
	store := newGuestStore(t, nil, WithTaxResolver(resolver))

	_, err := store.AddProduct(context.Background(), mug(10), 1, nil)
	assert.True(t, cart.IsCode(err, cart.ECART))
}

func TestStore_SnapshotExpires(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := newGuestStore(t, st, WithClock(func() time.Time { return now }), WithSnapshotTTL(time.Hour))
	_, err := store.AddProduct(ctx, mug(10), 1, nil)
	require.NoError(t, err)

	later := newGuestStore(t, st, WithClock(func() time.Time { return now.Add(2 * time.Hour) }), WithSnapshotTTL(time.Hour))
	c, err := later.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	exists, err := st.Exists(ctx, cart.StorageKeyCart)
	require.NoError(t, err)
	assert.False(t, exists, "expired snapshot is removed")
}

func TestStore_LoadDropsMalformedItems(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewCartMetrics("test", reg)

	snapshot := `{"savedAt":"` + time.Now().UTC().Format(time.RFC3339) + `","cart":{"items":[
		{"productId":"ok","quantity":1,"price":1000},
		{"quantity":2},
		"garbage"
	]}}`
	require.NoError(t, st.Put(ctx, cart.StorageKeyCart, strings.NewReader(snapshot)))

	store := newGuestStore(t, st, WithMetrics(metrics))
	c, err := store.Load(ctx)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "ok", c.Items[0].ProductID)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DroppedItems.WithLabelValues("snapshot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("load", "guest", "ok")))
}

func TestStore_LoadDiscardsUnreadableSnapshot(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()
	require.NoError(t, st.Put(ctx, cart.StorageKeyCart, strings.NewReader("{not json")))

	c, err := newGuestStore(t, st).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	store := newGuestStore(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AddProduct(ctx, mug(100), 1, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c := store.Cart()
	require.Len(t, c.Items, 1)
	assert.Equal(t, 20, c.Items[0].Quantity)
}

func TestStore_Login_MergesGuestCart(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := storage.NewMemoryStorage()
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewCartMetrics("test", reg)
	backend := NewMockBackend(ctrl)
	store := newGuestStore(t, st, WithBackend(backend), WithMetrics(metrics))

	_, err := store.AddProduct(ctx, mug(10), 2, nil)
	require.NoError(t, err)

	backend.EXPECT().
		MergeCart(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, items []cart.CartItem) (cart.Raw, error) {
			require.Len(t, items, 1)
			assert.Equal(t, "mug-1", items[0].ProductID)
			assert.Equal(t, 2, items[0].Quantity)
			return serverCart(3, 142000), nil
		})

	c, err := store.Login(ctx)
	require.NoError(t, err)

	assert.Equal(t, cart.ModeAuthenticated, store.Mode())
	assert.Equal(t, cart.SyncCompleted, store.SyncStatus())
	assert.Equal(t, 142000.0, c.Total, "server totals are trusted")
	assert.Equal(t, 3, c.ItemCount)

	exists, err := st.Exists(ctx, cart.StorageKeyCart)
	require.NoError(t, err)
	assert.False(t, exists, "guest snapshot is gone after merge")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SyncOutcomes.WithLabelValues("completed")))

	// Logging in again is a no-op.
	_, err = store.Login(ctx)
	require.NoError(t, err)
}

func TestStore_Login_EmptyGuestCartFetches(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := NewMockBackend(ctrl)
	store := newGuestStore(t, nil, WithBackend(backend))

	backend.EXPECT().GetCart(ctx).Return(serverCart(1, 65000), nil)

	c, err := store.Login(ctx)
	require.NoError(t, err)
	assert.Equal(t, 65000.0, c.Total)
}

func TestStore_Login_Failures(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "server error becomes sync error",
			err:      &customerapi.ResponseError{Status: 500, Message: "boom"},
			wantCode: cart.ESYNC,
		},
		{
			name:     "network error becomes sync error",
			err:      errors.New("connection reset"),
			wantCode: cart.ESYNC,
		},
		{
			name:     "rejected credentials stay auth errors",
			err:      &customerapi.ResponseError{Status: 401, Message: "token expired"},
			wantCode: cart.EAUTH,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMockBackend(ctrl)
			store := newGuestStore(t, nil, WithBackend(backend))

			_, err := store.AddProduct(ctx, mug(10), 1, nil)
			require.NoError(t, err)

			backend.EXPECT().MergeCart(ctx, gomock.Any()).Return(nil, tt.err)

			_, err = store.Login(ctx)
			assert.Equal(t, tt.wantCode, cart.ErrorCode(err))
			assert.Equal(t, cart.ModeGuest, store.Mode())
			assert.Equal(t, cart.SyncFailed, store.SyncStatus())
			assert.Len(t, store.Cart().Items, 1, "guest cart is kept for retry")
		})
	}
}

func TestStore_Login_NoBackend(t *testing.T) {
	_, err := newGuestStore(t, nil).Login(context.Background())
	var authErr *cart.CartAuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestStore_AuthenticatedDelegatesToBackend(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := NewMockBackend(ctrl)
	store := newGuestStore(t, nil, WithBackend(backend))

	backend.EXPECT().GetCart(ctx).Return(serverCart(1, 65000), nil)
	_, err := store.Login(ctx)
	require.NoError(t, err)

	backend.EXPECT().
		AddItem(ctx, cart.AddItemInput{ProductID: "mug-1", Quantity: 1, Attributes: cart.Attributes{}}).
		Return(serverCart(2, 99999), nil)
	c, err := store.Add(ctx, cart.AddItemInput{ProductID: " mug-1 ", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 99999.0, c.Total, "authenticated totals are not recomputed")

	// An empty response means the server did not echo the cart.
	backend.EXPECT().UpdateShippingMethod(ctx, cart.ShippingOvernight).Return(nil, nil)
	backend.EXPECT().GetCart(ctx).Return(serverCart(2, 120000), nil)
	c, err = store.SetShippingMethod(ctx, "overnight")
	require.NoError(t, err)
	assert.Equal(t, 120000.0, c.Total)

	backend.EXPECT().
		UpdateItem(ctx, gomock.Any()).
		Return(nil, &customerapi.ResponseError{Status: 422, Message: "Stock insuficiente, disponible: 4"})
	_, err = store.Update(ctx, cart.UpdateQuantityInput{ProductID: "mug-1", Quantity: 9})
	var stockErr *cart.CartStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, 120000.0, store.Cart().Total)

	backend.EXPECT().ApplyCoupon(ctx, "SAVE10").Return(serverCart(2, 90000), nil)
	_, err = store.ApplyCoupon(ctx, "save10")
	require.NoError(t, err)

	backend.EXPECT().RemoveCoupon(ctx).Return(serverCart(2, 100000), nil)
	_, err = store.RemoveCoupon(ctx)
	require.NoError(t, err)

	backend.EXPECT().RemoveItem(ctx, "mug-1", gomock.Any()).Return(cart.Raw{"items": []any{}}, nil)
	c, err = store.Remove(ctx, "mug-1", nil)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	backend.EXPECT().ClearCart(ctx).Return(cart.Raw{"items": []any{}}, nil)
	_, err = store.Clear(ctx)
	require.NoError(t, err)
}

func TestStore_AddProduct_SameIDInBothModes(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	product := cart.Raw{"_id": "A", "productId": "B", "name": "Mug", "price": 50000, "stock": 5}

	backend := NewMockBackend(ctrl)
	store := newGuestStore(t, nil, WithBackend(backend))

	c, err := store.AddProduct(ctx, product, 1, nil)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "A", c.Items[0].ProductID)

	backend.EXPECT().
		MergeCart(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, items []cart.CartItem) (cart.Raw, error) {
			require.Len(t, items, 1)
			assert.Equal(t, "A", items[0].ProductID)
			return cart.Raw{"items": []any{map[string]any{"productId": "A", "quantity": 1, "price": 50000}}}, nil
		})
	_, err = store.Login(ctx)
	require.NoError(t, err)

	backend.EXPECT().
		AddItem(ctx, cart.AddItemInput{ProductID: "A", Quantity: 1, Attributes: cart.Attributes{}}).
		Return(cart.Raw{"items": []any{map[string]any{"productId": "A", "quantity": 2, "price": 50000}}}, nil)
	c, err = store.AddProduct(ctx, product, 1, nil)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := storage.NewMemoryStorage()
	backend := NewMockBackend(ctrl)
	store := newGuestStore(t, st, WithBackend(backend))

	backend.EXPECT().GetCart(ctx).Return(serverCart(1, 65000), nil)
	_, err := store.Login(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Logout(ctx))
	assert.Equal(t, cart.ModeGuest, store.Mode())
	assert.Equal(t, cart.SyncIdle, store.SyncStatus())
	assert.Empty(t, store.Cart().Items)

	// Guest operations no longer reach the backend.
	_, err = store.AddProduct(ctx, mug(10), 1, nil)
	require.NoError(t, err)
}
