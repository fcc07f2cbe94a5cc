package models

// CartItem is item selected by user before checkout. Price is in cents.
type CartItem struct {
	ID          uint64
	UserID      uint64
	ProductName string
	Price       int64
	Quantity    int32
}
