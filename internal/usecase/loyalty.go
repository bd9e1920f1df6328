package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/domain/repository"
)

// AccrualResult reports what happened during an accrual attempt. Skipped
// outcomes are documented no-ops, not errors: anonymous orders simply never
// accrue, and a retried trigger finds the record already written.
type AccrualResult struct {
	Accrued bool
	Points  int64
	Skipped string
}

// LoyaltyUseCase computes points for completed orders, at most once per order.
type LoyaltyUseCase struct {
	loyalty       repository.LoyaltyRepository
	pointsPerUnit float64
}

// NewLoyaltyUseCase constructs LoyaltyUseCase.
func NewLoyaltyUseCase(loyalty repository.LoyaltyRepository, pointsPerUnit float64) *LoyaltyUseCase {
	return &LoyaltyUseCase{loyalty: loyalty, pointsPerUnit: pointsPerUnit}
}

// AccrueForOrder credits floor(total * rate) points to the order's customer.
// The record insert and the balance increment happen in one transaction, and
// the unique order id keyed record makes redelivered triggers no-ops.
func (u *LoyaltyUseCase) AccrueForOrder(ctx context.Context, order *model.Order) (*AccrualResult, error) {
	if order.Status != model.OrderStatusCompleted && order.Status != model.OrderStatusDelivered {
		return &AccrualResult{Skipped: "order not completed"}, nil
	}
	if order.CustomerID == nil {
		return &AccrualResult{Skipped: "no customer on order"}, nil
	}

	points := int64(math.Floor(order.TotalAmount * u.pointsPerUnit))
	if points < 0 {
		points = 0
	}

	created, err := u.loyalty.AccrueOnce(ctx, order.ID, *order.CustomerID, points)
	if err != nil {
		return nil, fmt.Errorf("accrue order %d: %w", order.ID, err)
	}
	if !created {
		return &AccrualResult{Skipped: "already accrued"}, nil
	}
	return &AccrualResult{Accrued: true, Points: points}, nil
}

// GetByOrder returns the accrual record for the order, if any.
func (u *LoyaltyUseCase) GetByOrder(ctx context.Context, orderID int64) (*model.LoyaltyAccrual, error) {
	return u.loyalty.GetByOrder(ctx, orderID)
}
