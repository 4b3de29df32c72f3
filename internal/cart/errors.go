package cart

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Cart error codes. The UI branches on these rather than on messages.
const (
	ECART            = "cart_error"
	ENOTFOUND        = "cart_not_found"
	EPRODUCTNOTFOUND = "product_not_found"
	EVALIDATION      = "validation_error"
	ESTOCK           = "insufficient_stock"
	ECOUPON          = "invalid_coupon"
	EAUTH            = "unauthorized"
	ENETWORK         = "network_error"
	ESYNC            = "sync_error"
)

// CartError is the base of every failure surfaced from a cart operation.
type CartError struct {
	// Code is one of the E* constants above.
	Code string

	// Message is safe to show to users.
	Message string

	// Op is the operation that failed (e.g. "cart.add"). Logging only.
	Op string

	// Err is the underlying cause, if any.
	Err error
}

func (e *CartError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CartError) Unwrap() error {
	return e.Err
}

// CartNotFoundError means the cart does not exist on the server.
type CartNotFoundError struct{ CartError }

func (e *CartNotFoundError) Unwrap() error { return &e.CartError }

// CartProductNotFoundError means a product or cart line is missing.
type CartProductNotFoundError struct {
	CartError
	ProductID string
}

func (e *CartProductNotFoundError) Unwrap() error { return &e.CartError }

// CartValidationError carries per-field messages.
type CartValidationError struct {
	CartError
	Fields map[string]string
}

func (e *CartValidationError) Unwrap() error { return &e.CartError }

// CartStockError reports how many units are available.
type CartStockError struct {
	CartError
	Available int
}

func (e *CartStockError) Unwrap() error { return &e.CartError }

type CartCouponError struct{ CartError }

func (e *CartCouponError) Unwrap() error { return &e.CartError }

type CartAuthError struct{ CartError }

func (e *CartAuthError) Unwrap() error { return &e.CartError }

// CartNetworkError wraps a transport failure that produced no response.
type CartNetworkError struct{ CartError }

func (e *CartNetworkError) Unwrap() error { return &e.CartError }

// CartSyncError is returned when a guest cart could not be migrated.
type CartSyncError struct {
	CartError
	Detail string
}

func (e *CartSyncError) Unwrap() error { return &e.CartError }

func NewCartError(code, message string) *CartError {
	return &CartError{Code: code, Message: message}
}

func NewNotFoundError(message string) *CartNotFoundError {
	if message == "" {
		message = "Cart not found"
	}
	return &CartNotFoundError{CartError{Code: ENOTFOUND, Message: message}}
}

func NewProductNotFoundError(productID string) *CartProductNotFoundError {
	message := "Product not found"
	if productID != "" {
		message = fmt.Sprintf("Product not in cart: %s", productID)
	}
	return &CartProductNotFoundError{
		CartError: CartError{Code: EPRODUCTNOTFOUND, Message: message},
		ProductID: productID,
	}
}

func NewValidationError(message string, fields map[string]string) *CartValidationError {
	if fields == nil {
		fields = map[string]string{}
	}
	return &CartValidationError{
		CartError: CartError{Code: EVALIDATION, Message: message},
		Fields:    fields,
	}
}

func NewStockError(message string, available int) *CartStockError {
	if message == "" {
		message = fmt.Sprintf("Insufficient stock, available: %d", available)
	}
	return &CartStockError{
		CartError: CartError{Code: ESTOCK, Message: message},
		Available: available,
	}
}

func NewCouponError(message string) *CartCouponError {
	if message == "" {
		message = "Invalid coupon"
	}
	return &CartCouponError{CartError{Code: ECOUPON, Message: message}}
}

func NewAuthError(message string) *CartAuthError {
	if message == "" {
		message = "Authentication required"
	}
	return &CartAuthError{CartError{Code: EAUTH, Message: message}}
}

func NewNetworkError(message string, cause error) *CartNetworkError {
	if message == "" {
		message = "Network error, check your connection"
	}
	return &CartNetworkError{CartError{Code: ENETWORK, Message: message, Err: cause}}
}

func NewSyncError(message, detail string) *CartSyncError {
	if message == "" {
		message = "Could not synchronize cart"
	}
	return &CartSyncError{
		CartError: CartError{Code: ESYNC, Message: message},
		Detail:    detail,
	}
}

// ErrorCode returns the cart error code of err, ECART for foreign errors
// and "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *CartError
	if errors.As(err, &e) {
		return e.Code
	}
	return ECART
}

// ErrorMessage returns the user-facing message of err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *CartError
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred. Please try again later."
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// HTTPError is implemented by transport errors that came back with a
// response. StatusCode is 0 when no response was received.
type HTTPError interface {
	error
	StatusCode() int
	ResponseMessage() string
}

// codedHTTPError is implemented by responses that carry a structured
// error code from the backend.
type codedHTTPError interface {
	ResponseCode() string
}

var (
	stockPattern  = regexp.MustCompile(`(?i)stock|disponible`)
	couponPattern = regexp.MustCompile(`(?i)cup[oó]n`)
	firstNumber   = regexp.MustCompile(`\d+`)
)

// FromHTTPError translates a transport failure into a cart error. Errors
// that already are cart errors pass through unchanged.
//
// When the backend sends a structured code it is trusted. Otherwise the
// classification of 400/422 responses sniffs the server message and is
// best effort only: it depends on the server's wording.
func FromHTTPError(err error) error {
	if err == nil {
		return nil
	}
	var ce *CartError
	if errors.As(err, &ce) {
		return err
	}

	var httpErr HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode() == 0 {
		return NewNetworkError("", err)
	}

	status := httpErr.StatusCode()
	message := httpErr.ResponseMessage()

	if coded, ok := httpErr.(codedHTTPError); ok {
		if mapped := fromResponseCode(coded.ResponseCode(), message); mapped != nil {
			return mapped
		}
	}

	switch status {
	case 401, 403:
		return NewAuthError(message)
	case 404:
		return NewNotFoundError(message)
	case 400, 422:
		switch {
		case stockPattern.MatchString(message):
			available, _ := strconv.Atoi(firstNumber.FindString(message))
			return NewStockError(message, available)
		case couponPattern.MatchString(message):
			return NewCouponError(message)
		default:
			if message == "" {
				message = "Invalid request"
			}
			return NewValidationError(message, nil)
		}
	}

	if message == "" {
		message = fmt.Sprintf("Unexpected server response (%d)", status)
	}
	return &CartError{Code: ECART, Message: message, Err: err}
}

func fromResponseCode(code, message string) error {
	switch code {
	case EAUTH:
		return NewAuthError(message)
	case ENOTFOUND:
		return NewNotFoundError(message)
	case EPRODUCTNOTFOUND:
		e := NewProductNotFoundError("")
		if message != "" {
			e.Message = message
		}
		return e
	case ESTOCK:
		available, _ := strconv.Atoi(firstNumber.FindString(message))
		return NewStockError(message, available)
	case ECOUPON:
		return NewCouponError(message)
	case EVALIDATION:
		return NewValidationError(message, nil)
	case ESYNC:
		return NewSyncError(message, "")
	}
	return nil
}
