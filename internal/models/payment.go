package models

import "time"

// PaymentStatus is provider settlement status, independent of order status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	// PaymentStatusAwaitingConfirmation marks a payment the provider redirected
	// back from, held until the vendor side settles it.
	PaymentStatusAwaitingConfirmation PaymentStatus = "AWAITING_CONFIRMATION"
	PaymentStatusCompleted            PaymentStatus = "COMPLETED"
	PaymentStatusFailed               PaymentStatus = "FAILED"
)

// Payment is payment attempt tied to a checkout session. SessionID is issued
// by the external payment provider.
type Payment struct {
	ID         uint64
	PaymentUID string
	SessionID  string
	UserID     uint64
	Amount     int64
	Status     PaymentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
