package model

import "fmt"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeTransactionFailure  = "TRANSACTION_FAILURE"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure that maps onto a stable error code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUnauthorised         = NewDomainError(ErrCodeUnauthorised, "Unauthorized")
	ErrForbidden            = NewDomainError(ErrCodeForbidden, "Forbidden")
	ErrProductNotFound      = NewDomainError(ErrCodeNotFound, "Product not found or not available")
	ErrCartItemNotFound     = NewDomainError(ErrCodeNotFound, "Cart item not found")
	ErrOrderNotFound        = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrPurchasedNotFound    = NewDomainError(ErrCodeNotFound, "Purchased product not found")
	ErrInvalidQuantity      = NewDomainError(ErrCodeValidation, "Quantity must be a positive integer")
	ErrInvalidStatus        = NewDomainError(ErrCodeValidation, `Invalid status. Must be "not_applied" or "applied"`)
	ErrInvalidPrice         = NewDomainError(ErrCodeValidation, "Price must be a non-negative number")
	ErrProductNameRequired  = NewDomainError(ErrCodeValidation, "Product name is required")
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrTransactionFailure   = NewDomainError(ErrCodeTransactionFailure, "Failed to process purchase")
	ErrPurchaseInFlight     = NewDomainError(ErrCodeValidation, "A purchase is already in progress")
	ErrPurchaseNotPermitted = NewDomainError(ErrCodeValidation, "Purchase is not permitted")
)

// InsufficientBalanceError reports the amount required against what the user
// holds so the caller can display both.
type InsufficientBalanceError struct {
	Required  float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient balance: required %.2f, available %.2f", e.Required, e.Available)
}

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Required  *float64 `json:"required,omitempty"`
	Available *float64 `json:"available,omitempty"`
}
