package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrConflictData         = errors.New("data conflicts with existing data")
	ErrDataNotFound         = errors.New("data not found")
	ErrNotAuthenticated     = errors.New("user is not authenticated")
	ErrAddressRequired      = errors.New("shipping address is required")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrOrderCreationFailed  = errors.New("order creation failed")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrTransitionNotAllowed = errors.New("status transition is not allowed")
	ErrStatusConflict       = errors.New("order status has changed")
	ErrInternalError        = errors.New("internal error")
)

// TooManyRequestsError is returned when the payment gateway throttles us.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func NewTooManyRequestsError(retryAfter time.Duration) TooManyRequestsError {
	return TooManyRequestsError{RetryAfter: retryAfter}
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}
