package customerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukerupert/storefront/internal/cart"
	"github.com/google/uuid"
)

// RequestIDHeader correlates client calls with server logs.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies bearer tokens for the authenticated customer.
type TokenSource interface {
	// Token returns the current access token, or "" for anonymous calls.
	Token(ctx context.Context) (string, error)

	// Refresh obtains a new access token after the server rejected the
	// current one.
	Refresh(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that never refreshes.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

func (t StaticToken) Refresh(context.Context) (string, error) {
	return "", fmt.Errorf("static token cannot be refreshed")
}

// Client calls the storefront's customer cart API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout sets the per-request timeout. The client set by
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient creates a customer API client. tokens may be nil for guest
// calls such as coupon validation.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCart fetches the customer's cart.
func (c *Client) GetCart(ctx context.Context) (cart.Raw, error) {
	return c.do(ctx, http.MethodGet, "/cart", nil)
}

// AddItem adds a product line to the customer's cart.
func (c *Client) AddItem(ctx context.Context, in cart.AddItemInput) (cart.Raw, error) {
	return c.do(ctx, http.MethodPost, "/cart/items", in)
}

// UpdateItem sets the quantity of a line.
func (c *Client) UpdateItem(ctx context.Context, in cart.UpdateQuantityInput) (cart.Raw, error) {
	body := map[string]any{"quantity": in.Quantity, "attributes": in.Attributes}
	return c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(in.ProductID), body)
}

// RemoveItem drops a line.
func (c *Client) RemoveItem(ctx context.Context, productID string, attrs cart.Attributes) (cart.Raw, error) {
	body := map[string]any{"attributes": attrs}
	return c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), body)
}

// ClearCart removes every line.
func (c *Client) ClearCart(ctx context.Context) (cart.Raw, error) {
	return c.do(ctx, http.MethodDelete, "/cart", nil)
}

func (c *Client) ApplyCoupon(ctx context.Context, code string) (cart.Raw, error) {
	return c.do(ctx, http.MethodPost, "/cart/coupon", map[string]string{"code": code})
}

func (c *Client) RemoveCoupon(ctx context.Context) (cart.Raw, error) {
	return c.do(ctx, http.MethodDelete, "/cart/coupon", nil)
}

func (c *Client) UpdateShippingMethod(ctx context.Context, method cart.ShippingMethod) (cart.Raw, error) {
	return c.do(ctx, http.MethodPut, "/cart/shipping-method", map[string]string{"shippingMethod": string(method)})
}

func (c *Client) UpdateShippingAddress(ctx context.Context, addr cart.ShippingAddress) (cart.Raw, error) {
	return c.do(ctx, http.MethodPut, "/cart/shipping-address", addr)
}

// MergeCart folds guest lines into the customer's cart.
func (c *Client) MergeCart(ctx context.Context, items []cart.CartItem) (cart.Raw, error) {
	lines := make([]map[string]any, len(items))
	for i, item := range items {
		lines[i] = map[string]any{
			"productId":  item.ProductID,
			"quantity":   item.Quantity,
			"price":      item.Price,
			"attributes": item.Attributes,
		}
	}
	return c.do(ctx, http.MethodPost, "/cart/merge", map[string]any{"items": lines})
}

// ValidateCoupon asks the server to describe a coupon for a guest cart.
func (c *Client) ValidateCoupon(ctx context.Context, code string, subtotal float64) (cart.Raw, error) {
	return c.do(ctx, http.MethodPost, "/coupons/validate", map[string]any{"code": code, "subtotal": subtotal})
}

func (c *Client) do(ctx context.Context, method, path string, body any) (cart.Raw, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
	}

	return c.send(ctx, method, path, payload, false)
}

// send performs one request. A 401 triggers a single token refresh and
// retry; retried stops a rejected refreshed token from looping.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, retried bool) (cart.Raw, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("customer API request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !retried && c.tokens != nil {
		_, err := c.tokens.Refresh(ctx)
		if err == nil {
			c.logger.Debug("access token refreshed, retrying", slog.String("path", path))
			return c.send(ctx, method, path, payload, true)
		}
		c.logger.Debug("access token refresh failed", slog.String("error", err.Error()))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(method, path, resp.StatusCode, data)
	}
	return decodeEnvelope(data)
}

// decodeEnvelope unwraps {"data": ...} and {"cart": ...} envelopes.
func decodeEnvelope(data []byte) (cart.Raw, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var raw cart.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	for _, key := range []string{"data", "cart"} {
		if inner, ok := raw[key].(map[string]any); ok {
			if nested, ok := inner["cart"].(map[string]any); ok {
				return nested, nil
			}
			return inner, nil
		}
	}
	return raw, nil
}

func responseError(method, path string, status int, data []byte) *ResponseError {
	e := &ResponseError{Status: status, Method: method, Path: path}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
		e.Code = body.Code
	}
	return e
}
