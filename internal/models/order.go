package models

import "time"

// Order is order entity. Total is stored in cents. ShippingAddress is a
// snapshot taken at checkout, not a live reference.
type Order struct {
	ID              uint64
	UserID          uint64
	Status          OrderStatus
	Total           int64
	CheckoutRef     string
	ShippingAddress string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is product snapshot captured at the time of order creation.
type OrderItem struct {
	ID          uint64
	OrderID     uint64
	ProductName string
	Price       int64
	Quantity    int32
}
