package models

// OrderStatus is current status of an order in its lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Role is the actor driving a status transition.
type Role string

const (
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

// transitions is the authoritative order lifecycle table.
// Cancellation is terminal and is not offered after delivery.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {OrderStatusCompleted},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// forward is the single next step of the normal lifecycle.
var forward = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
	OrderStatusDelivered:  OrderStatusCompleted,
}

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the defined order statuses.
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no transition leads out of s.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition checks if from->to is present in the lifecycle table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns statuses the given role may move an order to.
// The vendor gets the single forward edge, never a skipped step, and may
// cancel until the order is shipped. The customer may cancel a pending
// order only.
func NextStatuses(from OrderStatus, role Role) []OrderStatus {
	var next []OrderStatus

	switch role {
	case RoleVendor:
		if to, ok := forward[from]; ok {
			next = append(next, to)
		}
		if from == OrderStatusPending || from == OrderStatusProcessing {
			next = append(next, OrderStatusCancelled)
		}
	case RoleCustomer:
		if from == OrderStatusPending {
			next = append(next, OrderStatusCancelled)
		}
	}

	return next
}

// AllowedTransition checks if the role may move an order from->to.
func AllowedTransition(from, to OrderStatus, role Role) bool {
	for _, next := range NextStatuses(from, role) {
		if next == to {
			return true
		}
	}
	return false
}
