package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/posdesk/fulfillment/internal/clock"
	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/domain/repository"
)

// OrderLineInput describes one requested product position.
type OrderLineInput struct {
	ProductID int64
	Quantity  int
	Notes     string
}

// CreateOrderInput carries everything needed to open a new order.
type CreateOrderInput struct {
	BranchID    int64
	Type        model.OrderType
	TableNumber *string
	CustomerID  *int64
	Lines       []OrderLineInput
}

// OrderUseCase owns the order aggregate: creation, discounts, cancellation.
// It never sets derived statuses; those belong to the fulfillment use case.
type OrderUseCase struct {
	orders   repository.OrderRepository
	tickets  repository.TicketRepository
	queue    repository.QueueRepository
	products repository.ProductRepository
	branches repository.BranchRepository
	clk      clock.Clock
	taxRate  float64
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	tickets repository.TicketRepository,
	queue repository.QueueRepository,
	products repository.ProductRepository,
	branches repository.BranchRepository,
	clk clock.Clock,
	taxRate float64,
) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		tickets:  tickets,
		queue:    queue,
		products: products,
		branches: branches,
		clk:      clk,
		taxRate:  taxRate,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Create validates the input, prices the lines from the catalog and persists
// the order atomically with its computed totals.
func (u *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if !model.ValidOrderType(in.Type) {
		return nil, fmt.Errorf("%w: unknown order type %q", domainErrors.ErrValidation, in.Type)
	}
	if in.Type == model.OrderTypeDineIn && (in.TableNumber == nil || *in.TableNumber == "") {
		return nil, fmt.Errorf("%w: table number is required for dine-in orders", domainErrors.ErrValidation)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", domainErrors.ErrValidation)
	}

	ids := make([]int64, 0, len(in.Lines))
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %d", domainErrors.ErrValidation, line.ProductID)
		}
		ids = append(ids, line.ProductID)
	}

	catalog, err := u.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	order := &model.Order{
		BranchID:    in.BranchID,
		Type:        in.Type,
		TableNumber: in.TableNumber,
		CustomerID:  in.CustomerID,
		Status:      model.OrderStatusPending,
	}

	var subtotal float64
	for _, line := range in.Lines {
		product, ok := catalog[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product %d", domainErrors.ErrValidation, line.ProductID)
		}
		total := roundCents(product.Price * float64(line.Quantity))
		subtotal += total
		order.Lines = append(order.Lines, model.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  total,
			Notes:       line.Notes,
			PrepMinutes: product.PrepMinutes,
		})
	}

	order.Subtotal = roundCents(subtotal)
	order.TaxAmount = roundCents(subtotal * u.taxRate)
	order.TotalAmount = roundCents(order.Subtotal + order.TaxAmount - order.DiscountAmount)

	day, _ := branchDay(ctx, u.branches, in.BranchID, u.clk.Now())
	return u.orders.Create(ctx, order, day)
}

// Get returns the order with its lines.
func (u *OrderUseCase) Get(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

// List returns orders, optionally filtered by status.
func (u *OrderUseCase) List(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	return u.orders.ListByStatus(ctx, statuses)
}

// ApplyDiscount sets the order discount and recomputes the total. The amount
// may never exceed subtotal plus tax, so totals cannot go negative.
func (u *OrderUseCase) ApplyDiscount(ctx context.Context, orderID int64, amount float64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if amount < 0 || amount > order.Subtotal+order.TaxAmount {
		return nil, fmt.Errorf("%w: discount %.2f out of range", domainErrors.ErrInvalidAmount, amount)
	}

	total := roundCents(order.Subtotal + order.TaxAmount - amount)
	updated, err := u.orders.SetDiscount(ctx, orderID, amount, total)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: order %d is archived", domainErrors.ErrInvalidTransition, orderID)
	}

	return u.orders.GetByID(ctx, orderID)
}

// Cancel moves a pending or preparing order to cancelled and cascades to its
// non-completed tickets and any linked queue entry. Completed and delivered
// orders are immutable.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID int64) (*model.Order, error) {
	updated, err := u.orders.UpdateStatusIf(ctx, orderID,
		[]model.OrderStatus{model.OrderStatusPending, model.OrderStatusPreparing},
		model.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Distinguish a missing order from an illegal transition.
		if _, err := u.orders.GetByID(ctx, orderID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: order %d cannot be cancelled", domainErrors.ErrInvalidTransition, orderID)
	}

	if err := u.tickets.CancelActiveByOrder(ctx, orderID); err != nil {
		return nil, fmt.Errorf("cascade ticket cancellation: %w", err)
	}
	if err := u.queue.CancelByOrder(ctx, orderID); err != nil {
		return nil, fmt.Errorf("cascade queue cancellation: %w", err)
	}

	return u.orders.GetByID(ctx, orderID)
}
