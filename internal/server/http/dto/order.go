package dto

import "time"

// OrderItemRequest is one requested product position.
type OrderItemRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

// WalkInRequest asks for a queue entry alongside the order.
type WalkInRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	PartySize     int     `json:"party_size"`
}

// CreateOrderRequest describes order submission payload.
type CreateOrderRequest struct {
	BranchID    int64              `json:"branch_id"`
	OrderType   string             `json:"order_type"`
	TableNumber *string            `json:"table_number,omitempty"`
	CustomerID  *int64             `json:"customer_id,omitempty"`
	Items       []OrderItemRequest `json:"items"`
	WalkIn      *WalkInRequest     `json:"walk_in,omitempty"`
}

// DiscountRequest carries a discount amount to apply.
type DiscountRequest struct {
	Amount float64 `json:"amount"`
}

// OrderLineResponse mirrors one persisted order line.
type OrderLineResponse struct {
	ProductID              int64   `json:"product_id"`
	ProductName            string  `json:"product_name"`
	Quantity               int     `json:"quantity"`
	UnitPrice              float64 `json:"unit_price"`
	TotalPrice             float64 `json:"total_price"`
	Notes                  string  `json:"notes,omitempty"`
	PreparationTimeMinutes int     `json:"preparation_time_minutes"`
}

// OrderResponse mirrors a persisted order.
type OrderResponse struct {
	ID             int64               `json:"id"`
	OrderNumber    string              `json:"order_number"`
	BranchID       int64               `json:"branch_id"`
	OrderType      string              `json:"order_type"`
	TableNumber    *string             `json:"table_number,omitempty"`
	CustomerID     *int64              `json:"customer_id,omitempty"`
	Items          []OrderLineResponse `json:"items,omitempty"`
	Status         string              `json:"status"`
	Subtotal       float64             `json:"subtotal"`
	TaxAmount      float64             `json:"tax_amount"`
	DiscountAmount float64             `json:"discount_amount"`
	TotalAmount    float64             `json:"total_amount"`
	CreatedAt      time.Time           `json:"created_at"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
}
