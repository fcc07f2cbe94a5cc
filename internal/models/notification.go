package models

import "time"

// Notification is message addressed to a user about one of their orders.
type Notification struct {
	ID              uint64
	NotificationUID string
	UserID          uint64
	OrderID         uint64
	Message         string
	CreatedAt       time.Time
}
