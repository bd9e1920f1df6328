package dto

import "time"

// JoinQueueRequest describes a walk-in customer joining the line.
type JoinQueueRequest struct {
	BranchID      int64   `json:"branch_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	PartySize     int     `json:"party_size"`
	ServiceType   string  `json:"service_type"`
	OrderID       *int64  `json:"order_id,omitempty"`
}

// QueueEntryResponse mirrors a queue entry.
type QueueEntryResponse struct {
	ID            int64      `json:"id"`
	BranchID      int64      `json:"branch_id"`
	QueueNumber   int        `json:"queue_number"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone *string    `json:"customer_phone,omitempty"`
	PartySize     int        `json:"party_size"`
	ServiceType   string     `json:"service_type"`
	Status        string     `json:"status"`
	OrderID       *int64     `json:"order_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CalledAt      *time.Time `json:"called_at,omitempty"`
	ServedAt      *time.Time `json:"served_at,omitempty"`
}

// QueueStatsResponse aggregates one branch's queue.
type QueueStatsResponse struct {
	WaitingCount   int     `json:"waiting_count"`
	CalledCount    int     `json:"called_count"`
	ServedToday    int     `json:"served_today"`
	AvgWaitMinutes float64 `json:"avg_wait_minutes"`
}
