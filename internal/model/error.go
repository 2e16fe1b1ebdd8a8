package model

import (
	"errors"
	"time"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	Error         string    `json:"error"`
	Message       string    `json:"message"`
	Details       string    `json:"details"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

// NewErrorResponse builds an error body for a request to path.
func NewErrorResponse(code, message, path, correlationID string) ErrorResponse {
	return ErrorResponse{
		Timestamp:     time.Now().UTC(),
		Error:         code,
		Message:       message,
		Details:       "uri=" + path,
		CorrelationID: correlationID,
	}
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidID          = "INVALID_ID"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidPassword    = "INVALID_PASSWORD"
	ErrCodeInvalidRole        = "INVALID_ROLE"
	ErrCodeInvalidPrice       = "INVALID_PRICE"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidStock       = "INVALID_STOCK"
	ErrCodeInvalidDate        = "INVALID_DATE"
	ErrCodeUsernameTaken      = "USERNAME_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeProductInUse       = "PRODUCT_IN_USE"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// ErrorKind classifies a DomainError for transport mapping.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Domain errors for business logic
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a field-specific message.
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// KindOf returns the kind of the first DomainError in err's chain, or
// KindInternal if there is none.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Common domain errors
var (
	ErrMissingRoles       = NewDomainError(KindValidation, ErrCodeMissingField, "roles must not be empty")
	ErrInvalidRole        = NewDomainError(KindValidation, ErrCodeInvalidRole, "role must be one of ADMIN, MANAGER, CUSTOMER")
	ErrPasswordTooLong    = NewDomainError(KindValidation, ErrCodeInvalidPassword, "password must be at most 72 bytes")
	ErrInvalidPrice       = NewDomainError(KindValidation, ErrCodeInvalidPrice, "price must be a non-negative amount below 10000000000 with at most two decimal places")
	ErrStockTooLarge      = NewDomainError(KindValidation, ErrCodeInvalidStock, "quantity is too large")
	ErrQuantityTooLarge   = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "quantity is too large")
	ErrOrderTotalTooLarge = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "order total exceeds the maximum amount")
	ErrInvalidQuantity    = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "quantity must be greater than zero")
	ErrInvalidStock       = NewDomainError(KindValidation, ErrCodeInvalidStock, "quantity must not be negative")
	ErrInvalidOrderDate   = NewDomainError(KindValidation, ErrCodeInvalidDate, "order date is required")
	ErrUsernameTaken      = NewDomainError(KindValidation, ErrCodeUsernameTaken, "username already exists")
	ErrInvalidCredentials = NewDomainError(KindAuthentication, ErrCodeInvalidCredentials, "invalid username or password")
	ErrInvalidToken       = NewDomainError(KindAuthentication, ErrCodeInvalidToken, "invalid or expired token")
	ErrMissingToken       = NewDomainError(KindAuthentication, ErrCodeUnauthorised, "missing bearer token")
	ErrForbidden          = NewDomainError(KindAuthorization, ErrCodeForbidden, "insufficient role for this operation")
	ErrProductNotFound    = NewDomainError(KindNotFound, ErrCodeProductNotFound, "product not found")
	ErrOrderNotFound      = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "order not found")
	ErrUserNotFound       = NewDomainError(KindNotFound, ErrCodeUserNotFound, "user not found")
	ErrProductInUse       = NewDomainError(KindConflict, ErrCodeProductInUse, "product is referenced by existing orders")
)
