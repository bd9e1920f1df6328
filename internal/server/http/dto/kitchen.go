package dto

import "time"

// TicketResponse mirrors a kitchen ticket for the kitchen display.
type TicketResponse struct {
	ID                     int64      `json:"id"`
	OrderID                int64      `json:"order_id"`
	LineID                 int64      `json:"line_id"`
	ProductName            string     `json:"product_name"`
	Quantity               int        `json:"quantity"`
	Notes                  string     `json:"notes,omitempty"`
	Status                 string     `json:"status"`
	PreparationTimeMinutes int        `json:"preparation_time_minutes"`
	ElapsedMinutes         float64    `json:"elapsed_minutes"`
	Overdue                bool       `json:"overdue"`
	CreatedAt              time.Time  `json:"created_at"`
	StartedAt              *time.Time `json:"started_at,omitempty"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
}
