package model

import "time"

// LoyaltyAccrual records points credited for one completed order. OrderID is
// unique, which is what makes accrual at-most-once.
type LoyaltyAccrual struct {
	ID         int64
	OrderID    int64
	CustomerID int64
	Points     int64
	CreatedAt  time.Time
}
