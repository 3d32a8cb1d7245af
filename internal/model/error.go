package model

import "fmt"

// Standard error codes surfaced by the client.
const (
	ErrCodeInvalidResponse   = "INVALID_RESPONSE"
	ErrCodeSessionExpired    = "SESSION_EXPIRED"
	ErrCodeNotAuthenticated  = "NOT_AUTHENTICATED"
	ErrCodeMutationInFlight  = "MUTATION_IN_FLIGHT"
	ErrCodeRemoveConfirm     = "REMOVE_CONFIRMATION_REQUIRED"
	ErrCodeConnectivity      = "CONNECTIVITY"
	ErrCodePaymentAfterOrder = "PAYMENT_AFTER_ORDER"
)

// DomainError is a client-side error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidResponse  = NewDomainError(ErrCodeInvalidResponse, "Invalid response from server")
	ErrSessionExpired   = NewDomainError(ErrCodeSessionExpired, "Session has expired, please sign in again")
	ErrNotAuthenticated = NewDomainError(ErrCodeNotAuthenticated, "Not signed in")
	ErrMutationInFlight = NewDomainError(ErrCodeMutationInFlight, "A change for this item is already in progress")
	ErrConnectivity     = NewDomainError(ErrCodeConnectivity, "Could not reach the server")

	// ErrRemoveConfirmationRequired signals that a quantity update to zero is
	// a remove intent; the caller must confirm and call Remove instead.
	ErrRemoveConfirmationRequired = NewDomainError(ErrCodeRemoveConfirm, "Setting quantity to zero removes the item; confirm removal first")
)

// APIError is a server-rejected request (4xx/5xx with a message body). The
// server message is surfaced verbatim when present.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsAuthFailure reports whether the error should trigger the token refresh
// protocol.
func (e *APIError) IsAuthFailure() bool {
	return e.Status == 401 || e.Status == 403
}

// PaymentAfterOrderError marks a checkout where order creation succeeded but
// the gateway payment session could not be created. Retry semantics differ
// from a plain order failure: retry the payment, not the order.
type PaymentAfterOrderError struct {
	OrderID int64
	Err     error
}

func (e *PaymentAfterOrderError) Error() string {
	return fmt.Sprintf("order %d created but payment session failed: %v", e.OrderID, e.Err)
}

func (e *PaymentAfterOrderError) Unwrap() error {
	return e.Err
}
