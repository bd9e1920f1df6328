package model

import "time"

// TicketStatus describes the kitchen preparation lifecycle of one order line.
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusPreparing TicketStatus = "preparing"
	TicketStatusCompleted TicketStatus = "completed"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// KitchenTicket is the preparation record for one order line, advanced by
// kitchen staff independently of the parent order.
type KitchenTicket struct {
	ID          int64
	OrderID     int64
	LineID      int64
	ProductName string
	Quantity    int
	Notes       string
	Status      TicketStatus
	PrepMinutes int
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// ElapsedMinutes returns preparation time elapsed so far. Zero unless the
// ticket is currently preparing.
func (t KitchenTicket) ElapsedMinutes(now time.Time) float64 {
	if t.Status != TicketStatusPreparing || t.StartedAt == nil {
		return 0
	}
	return now.Sub(*t.StartedAt).Minutes()
}

// Overdue reports whether preparation has run past the ticket's expected
// duration. Tickets that are not preparing are never overdue.
func (t KitchenTicket) Overdue(now time.Time, defaultPrepMinutes int) bool {
	threshold := t.PrepMinutes
	if threshold <= 0 {
		threshold = defaultPrepMinutes
	}
	return t.ElapsedMinutes(now) > float64(threshold)
}
