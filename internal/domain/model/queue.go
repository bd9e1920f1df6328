package model

import "time"

// ServiceType describes what a walk-in customer is queueing for.
type ServiceType string

const (
	ServiceTypeDineIn   ServiceType = "dine_in"
	ServiceTypeTakeaway ServiceType = "takeaway"
)

// ValidServiceType reports whether t is one of the known service types.
func ValidServiceType(t ServiceType) bool {
	return t == ServiceTypeDineIn || t == ServiceTypeTakeaway
}

// QueueStatus describes a queue entry's lifecycle.
type QueueStatus string

const (
	QueueStatusWaiting   QueueStatus = "waiting"
	QueueStatusCalled    QueueStatus = "called"
	QueueStatusServed    QueueStatus = "served"
	QueueStatusCancelled QueueStatus = "cancelled"
)

// QueueEntry is a walk-in customer's position in the front-of-house line.
// Its lifecycle is independent of any order; OrderID is a weak link only.
type QueueEntry struct {
	ID            int64
	BranchID      int64
	Number        int
	CustomerName  string
	CustomerPhone *string
	PartySize     int
	ServiceType   ServiceType
	Status        QueueStatus
	OrderID       *int64
	CreatedAt     time.Time
	CalledAt      *time.Time
	ServedAt      *time.Time
}

// QueueStats aggregates the current state of one branch's queue.
type QueueStats struct {
	WaitingCount   int
	CalledCount    int
	ServedToday    int
	AvgWaitMinutes float64
}
