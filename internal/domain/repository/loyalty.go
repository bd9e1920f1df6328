package repository

import (
	"context"

	"github.com/posdesk/fulfillment/internal/domain/model"
)

// LoyaltyRepository persists accrual records and credits customer balances.
type LoyaltyRepository interface {
	// AccrueOnce inserts an accrual record for the order and increments the
	// customer's point balance in the same transaction. When a record for the
	// order already exists nothing happens and created is false.
	AccrueOnce(ctx context.Context, orderID, customerID, points int64) (created bool, err error)
	GetByOrder(ctx context.Context, orderID int64) (*model.LoyaltyAccrual, error)
}
