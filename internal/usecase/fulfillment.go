package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/domain/repository"
)

// WalkInInput asks for a queue entry alongside a submitted order.
type WalkInInput struct {
	CustomerName  string
	CustomerPhone *string
	PartySize     int
}

// SubmitOrderInput is the full order submission: the aggregate plus an
// optional walk-in queue join for customers without a reservation.
type SubmitOrderInput struct {
	CreateOrderInput
	WalkIn *WalkInInput
}

// SubmitOrderResult bundles everything the submission produced.
type SubmitOrderResult struct {
	Order      *model.Order
	Tickets    []model.KitchenTicket
	QueueEntry *model.QueueEntry
}

// FulfillmentUseCase is the orchestrator: it owns the cross-entity invariant
// that an order's status is a pure function of its kitchen tickets, and it
// triggers loyalty accrual exactly once when an order completes.
type FulfillmentUseCase struct {
	orders  repository.OrderRepository
	tickets repository.TicketRepository
	order   *OrderUseCase
	kitchen *KitchenUseCase
	queue   *QueueUseCase
	loyalty *LoyaltyUseCase
	retries int
	logger  *slog.Logger
}

// NewFulfillmentUseCase constructs the orchestrator.
func NewFulfillmentUseCase(
	orders repository.OrderRepository,
	tickets repository.TicketRepository,
	order *OrderUseCase,
	kitchen *KitchenUseCase,
	queue *QueueUseCase,
	loyalty *LoyaltyUseCase,
	retries int,
	logger *slog.Logger,
) *FulfillmentUseCase {
	if retries <= 0 {
		retries = 3
	}
	return &FulfillmentUseCase{
		orders:  orders,
		tickets: tickets,
		order:   order,
		kitchen: kitchen,
		queue:   queue,
		loyalty: loyalty,
		retries: retries,
		logger:  logger,
	}
}

// SubmitOrder creates the order, opens one kitchen ticket per line and, for
// walk-in customers, enqueues a queue entry linked to the order.
func (u *FulfillmentUseCase) SubmitOrder(ctx context.Context, in SubmitOrderInput) (*SubmitOrderResult, error) {
	order, err := u.order.Create(ctx, in.CreateOrderInput)
	if err != nil {
		return nil, err
	}

	tickets, err := u.kitchen.CreateTicketsForOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create tickets for order %d: %w", order.ID, err)
	}

	result := &SubmitOrderResult{Order: order, Tickets: tickets}

	if in.WalkIn != nil && order.Type != model.OrderTypeDelivery {
		serviceType := model.ServiceTypeTakeaway
		if order.Type == model.OrderTypeDineIn {
			serviceType = model.ServiceTypeDineIn
		}
		entry, err := u.queue.Join(ctx, JoinQueueInput{
			BranchID:      order.BranchID,
			CustomerName:  in.WalkIn.CustomerName,
			CustomerPhone: in.WalkIn.CustomerPhone,
			PartySize:     in.WalkIn.PartySize,
			ServiceType:   serviceType,
			OrderID:       &order.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("enqueue walk-in for order %d: %w", order.ID, err)
		}
		result.QueueEntry = entry
	}

	return result, nil
}

// StartTicket advances a ticket to preparing and re-derives the parent order.
func (u *FulfillmentUseCase) StartTicket(ctx context.Context, ticketID int64) (*model.KitchenTicket, error) {
	ticket, err := u.kitchen.Start(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := u.Reconcile(ctx, ticket.OrderID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// CompleteTicket completes a ticket and re-derives the parent order.
func (u *FulfillmentUseCase) CompleteTicket(ctx context.Context, ticketID int64) (*model.KitchenTicket, error) {
	ticket, err := u.kitchen.Complete(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := u.Reconcile(ctx, ticket.OrderID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Reconcile recomputes the order status from a consistent snapshot of its
// tickets and applies it with a compare-and-set conditioned on the status the
// snapshot was taken under. A lost race re-reads and retries; a terminal order
// ends derivation, so a late ticket completion can never revive a cancelled
// order. Re-running on unchanged input is a no-op.
func (u *FulfillmentUseCase) Reconcile(ctx context.Context, orderID int64) error {
	for attempt := 0; attempt < u.retries; attempt++ {
		order, err := u.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return nil
		}

		snapshot, err := u.tickets.ListByOrder(ctx, orderID)
		if err != nil {
			return err
		}

		target := deriveStatus(order.Status, snapshot)
		if target == order.Status {
			return nil
		}

		updated, err := u.orders.UpdateStatusIf(ctx, orderID, []model.OrderStatus{order.Status}, target)
		if err != nil {
			return err
		}
		if updated {
			u.logger.Info("order status derived",
				slog.Int64("order_id", orderID),
				slog.String("from", string(order.Status)),
				slog.String("to", string(target)),
			)
			return nil
		}
		// Another actor moved the order between snapshot and write.
	}
	return fmt.Errorf("%w: order %d derivation lost %d races", domainErrors.ErrConflict, orderID, u.retries)
}

// deriveStatus computes the order status implied by its tickets. It is
// commutative over ticket completion order and idempotent, so concurrent
// kitchen stations can finish in any order with the same final result.
func deriveStatus(current model.OrderStatus, tickets []model.KitchenTicket) model.OrderStatus {
	if current.Terminal() {
		return current
	}

	var pending, preparing, completed int
	for _, t := range tickets {
		switch t.Status {
		case model.TicketStatusPending:
			pending++
		case model.TicketStatusPreparing:
			preparing++
		case model.TicketStatusCompleted:
			completed++
		}
	}

	active := pending + preparing + completed
	switch {
	case active == 0:
		return current
	case completed == active:
		return model.OrderStatusReady
	case preparing > 0 || completed > 0:
		return model.OrderStatusPreparing
	default:
		return model.OrderStatusPending
	}
}

// MarkServed is the explicit front-of-house signal that a ready order was
// handed over. It finishes the order as completed, or delivered for delivery
// orders, and triggers loyalty accrual.
func (u *FulfillmentUseCase) MarkServed(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	final := model.OrderStatusCompleted
	if order.Type == model.OrderTypeDelivery {
		final = model.OrderStatusDelivered
	}

	updated, err := u.orders.UpdateStatusIf(ctx, orderID, []model.OrderStatus{model.OrderStatusReady}, final)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("%w: order %d is not ready", domainErrors.ErrInvalidTransition, orderID)
	}

	order, err = u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result, err := u.loyalty.AccrueForOrder(ctx, order)
	if err != nil {
		// The order is already final; accrual is idempotent and safe to retry.
		return nil, err
	}
	if result.Accrued {
		u.logger.Info("loyalty points accrued",
			slog.Int64("order_id", orderID),
			slog.Int64("points", result.Points),
		)
	} else {
		u.logger.Info("loyalty accrual skipped",
			slog.Int64("order_id", orderID),
			slog.String("reason", result.Skipped),
		)
	}

	return order, nil
}
