package shipping

import "fmt"

// ============================================================================
// SHIPPING ERROR CODES
// ============================================================================
// These constants mirror the cart error code style. The caller maps them
// to user-facing messages.

const (
	codeInvalid = "invalid"
)

// ============================================================================
// SHIPPING ERROR TYPE
// ============================================================================

// ShippingError represents a shipping-specific error with a code and message.
type ShippingError struct {
	Code    string
	Message string
}

func (e *ShippingError) Error() string {
	return e.Message
}

// ErrorCode returns the machine-readable error code.
func (e *ShippingError) ErrorCode() string {
	return e.Code
}

func newShippingError(code, message string) *ShippingError {
	return &ShippingError{Code: code, Message: message}
}

// ============================================================================
// SHIPPING DOMAIN ERRORS
// ============================================================================

var (
	// ErrNegativeSubtotal is returned when rates are requested for a negative subtotal.
	ErrNegativeSubtotal = newShippingError(codeInvalid, "Subtotal cannot be negative")

	// ErrDestinationIncomplete is returned when a delivery address has no city.
	ErrDestinationIncomplete = newShippingError(codeInvalid, "Destination address is incomplete")
)

// ErrUnknownMethod creates an error for a method outside the method table.
func ErrUnknownMethod(method string) error {
	return &ShippingError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("Unknown shipping method: %s", method),
	}
}
