package tax

import "fmt"

// ============================================================================
// TAX ERROR CODES
// ============================================================================
// These constants mirror the cart error code style. Configuration code
// reports them at startup.

const (
	codeInvalid = "invalid"
)

// ============================================================================
// TAX ERROR TYPE
// ============================================================================

// TaxError represents a tax-specific error with a code and message.
type TaxError struct {
	Code    string
	Message string
}

func (e *TaxError) Error() string {
	return e.Message
}

// ErrorCode returns the machine-readable error code.
func (e *TaxError) ErrorCode() string {
	return e.Code
}

// ============================================================================
// TAX DOMAIN ERRORS
// ============================================================================

// ErrInvalidRate creates an error for a percentage outside 0-100.
func ErrInvalidRate(pct float64) error {
	return &TaxError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("Tax rate must be between 0 and 100, got %v", pct),
	}
}

// ErrInvalidRegion creates an error for a malformed region entry.
func ErrInvalidRegion(entry string) error {
	return &TaxError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("Tax region %q must be REGION=RATE", entry),
	}
}
