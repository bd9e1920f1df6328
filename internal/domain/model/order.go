package model

import "time"

// OrderType describes how the customer receives the order.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

// ValidOrderType reports whether t is one of the known order types.
func ValidOrderType(t OrderType) bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

// OrderStatus describes the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a customer's purchase request with line items and a fulfillment status.
// Status is derived from the order's kitchen tickets; the only direct external
// transition is cancellation.
type Order struct {
	ID             int64
	Number         string
	BranchID       int64
	Type           OrderType
	TableNumber    *string
	CustomerID     *int64
	Lines          []OrderLine
	Status         OrderStatus
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	TotalAmount    float64
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// OrderLine is a single product position owned by its order.
type OrderLine struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
	Notes       string
	PrepMinutes int
}
