package domain

import "strings"

// OrderStatus is the lifecycle state of a supplier order. Delivered and
// cancelled are terminal: the delivery stock increment can only ever be
// applied on the single pending->delivered transition.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransition reports whether moving to next is a legal state change.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	return next == OrderDelivered || next == OrderCancelled
}

// ParseOrderStatus returns the status for a label (case-insensitive).
func ParseOrderStatus(label string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "pending":
		return OrderPending, true
	case "delivered":
		return OrderDelivered, true
	case "cancelled":
		return OrderCancelled, true
	}
	return "", false
}
