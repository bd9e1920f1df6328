package repository

import (
	"context"

	"github.com/posdesk/fulfillment/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their lines.
type OrderRepository interface {
	// Create inserts the order with its lines in one transaction and
	// allocates a human-readable order number for the given branch day.
	Create(ctx context.Context, order *model.Order, day string) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// ListByStatus returns orders in any of the given statuses, newest first.
	// An empty filter returns all orders.
	ListByStatus(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error)
	// UpdateStatusIf conditionally moves the order from one of the expected
	// statuses to the target. Returns false without error when the order was
	// not in an expected status, so callers can re-read and decide.
	UpdateStatusIf(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error)
	// SetDiscount stores the discount and the recomputed total for a
	// non-archived order. Returns false when the order is already terminal.
	SetDiscount(ctx context.Context, orderID int64, discount, total float64) (bool, error)
}
