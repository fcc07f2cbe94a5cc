package models

// Address is shipping destination of a user.
type Address struct {
	ID         uint64
	UserID     uint64
	Recipient  string
	Line1      string
	City       string
	PostalCode string
	IsDefault  bool
}
