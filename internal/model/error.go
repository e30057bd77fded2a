package model

import "errors"

// ErrorResponse is the failure envelope shared by handlers and middleware.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Code    string   `json:"code,omitempty"`
	Error   string   `json:"error"`
	Errors  []string `json:"errors,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeStoreNotFound           = "STORE_NOT_FOUND"
	ErrCodeStoreClosed             = "STORE_CLOSED"
	ErrCodeScheduleInvalid         = "SCHEDULE_INVALID"
	ErrCodeProductUnavailable      = "PRODUCT_UNAVAILABLE"
	ErrCodeOutOfStock              = "OUT_OF_STOCK"
	ErrCodeDeliveryAddressRequired = "DELIVERY_ADDRESS_REQUIRED"
	ErrCodeOutOfRange              = "OUT_OF_DELIVERY_AREA"
	ErrCodeMinOrderNotMet          = "MIN_ORDER_NOT_MET"
	ErrCodeInvalidCoupon           = "INVALID_COUPON"
	ErrCodeSlugInvalid             = "SLUG_INVALID"
	ErrCodeSlugTaken               = "SLUG_TAKEN"
	ErrCodeNotFound                = "NOT_FOUND"
	ErrCodeRateLimited             = "RATE_LIMITED"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// DomainError is a business rule failure that is safe to show to a user.
// Details carries optional structured context, e.g. the list of form errors.
type DomainError struct {
	Code    string
	Message string
	Details []string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so
// errors.Is(err, ErrOutOfStock) holds for any out-of-stock error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error carrying details.
func (e *DomainError) WithDetails(details ...string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: append([]string(nil), details...),
	}
}

// ErrorCode extracts the domain code from err, or ErrCodeInternalError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}

// Common domain errors
var (
	ErrValidation              = NewDomainError(ErrCodeValidation, "Please review the highlighted fields")
	ErrStoreNotFound           = NewDomainError(ErrCodeStoreNotFound, "Store not found")
	ErrStoreClosed             = NewDomainError(ErrCodeStoreClosed, "The store is closed right now")
	ErrScheduleInvalid         = NewDomainError(ErrCodeScheduleInvalid, "The selected time is not available")
	ErrProductUnavailable      = NewDomainError(ErrCodeProductUnavailable, "One or more products are unavailable")
	ErrOutOfStock              = NewDomainError(ErrCodeOutOfStock, "One or more products are out of stock")
	ErrDeliveryAddressRequired = NewDomainError(ErrCodeDeliveryAddressRequired, "A delivery address is required")
	ErrOutOfRange              = NewDomainError(ErrCodeOutOfRange, "The address is outside the delivery area")
	ErrMinOrderNotMet          = NewDomainError(ErrCodeMinOrderNotMet, "The order is below the minimum for delivery")
	ErrInvalidCoupon           = NewDomainError(ErrCodeInvalidCoupon, "Invalid coupon")
	ErrSlugInvalid             = NewDomainError(ErrCodeSlugInvalid, "Invalid slug")
	ErrSlugTaken               = NewDomainError(ErrCodeSlugTaken, "This address is already taken")
	ErrNotFound                = NewDomainError(ErrCodeNotFound, "Not found")
)
