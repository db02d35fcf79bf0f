package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// validTransitions defines the allowed order state machine transitions.
// The backend enforces these too; checking here saves a round trip.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered},
}

var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransitionTo reports whether a transition from the current status
// to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is a customer order with its line items.
type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ID        int64       `json:"id"`
	OrderID   int64       `json:"order_id"`
	ProductID int64       `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Price     float64     `json:"price"`
	Product   *ProductRef `json:"product,omitempty"`
}

// ProductRef is the abbreviated product embedded in order items.
type ProductRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
