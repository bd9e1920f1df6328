package app

import (
	"context"

	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/usecase"
)

// HealthChecker verifies the storage backend is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// FulfillmentFacade aggregates the fulfillment use cases behind one surface
// consumed by HTTP handlers and the escalation monitor.
type FulfillmentFacade struct {
	fulfillment *usecase.FulfillmentUseCase
	orders      *usecase.OrderUseCase
	kitchen     *usecase.KitchenUseCase
	queue       *usecase.QueueUseCase
	loyalty     *usecase.LoyaltyUseCase
	health      HealthChecker
}

// NewFulfillmentFacade constructs the facade.
func NewFulfillmentFacade(
	fulfillment *usecase.FulfillmentUseCase,
	orders *usecase.OrderUseCase,
	kitchen *usecase.KitchenUseCase,
	queue *usecase.QueueUseCase,
	loyalty *usecase.LoyaltyUseCase,
	health HealthChecker,
) *FulfillmentFacade {
	return &FulfillmentFacade{
		fulfillment: fulfillment,
		orders:      orders,
		kitchen:     kitchen,
		queue:       queue,
		loyalty:     loyalty,
		health:      health,
	}
}

func (f *FulfillmentFacade) SubmitOrder(ctx context.Context, in usecase.SubmitOrderInput) (*usecase.SubmitOrderResult, error) {
	return f.fulfillment.SubmitOrder(ctx, in)
}

func (f *FulfillmentFacade) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, orderID)
}

func (f *FulfillmentFacade) Orders(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	return f.orders.List(ctx, statuses)
}

func (f *FulfillmentFacade) CancelOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, orderID)
}

func (f *FulfillmentFacade) ApplyDiscount(ctx context.Context, orderID int64, amount float64) (*model.Order, error) {
	return f.orders.ApplyDiscount(ctx, orderID, amount)
}

func (f *FulfillmentFacade) ServeOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.fulfillment.MarkServed(ctx, orderID)
}

func (f *FulfillmentFacade) StartTicket(ctx context.Context, ticketID int64) (*model.KitchenTicket, error) {
	return f.fulfillment.StartTicket(ctx, ticketID)
}

func (f *FulfillmentFacade) CompleteTicket(ctx context.Context, ticketID int64) (*model.KitchenTicket, error) {
	return f.fulfillment.CompleteTicket(ctx, ticketID)
}

func (f *FulfillmentFacade) KitchenTickets(ctx context.Context, status model.TicketStatus, limit int) ([]model.KitchenTicket, error) {
	return f.kitchen.ListByStatus(ctx, status, limit)
}

// PreparingTickets feeds the escalation monitor.
func (f *FulfillmentFacade) PreparingTickets(ctx context.Context, limit int) ([]model.KitchenTicket, error) {
	return f.kitchen.ListByStatus(ctx, model.TicketStatusPreparing, limit)
}

// TicketOverdue runs the pure escalation check against the current clock.
func (f *FulfillmentFacade) TicketOverdue(ticket model.KitchenTicket) bool {
	return f.kitchen.EscalationCheck(ticket)
}

// TicketElapsed returns minutes the ticket has spent preparing so far.
func (f *FulfillmentFacade) TicketElapsed(ticket model.KitchenTicket) float64 {
	return f.kitchen.Elapsed(ticket)
}

func (f *FulfillmentFacade) JoinQueue(ctx context.Context, in usecase.JoinQueueInput) (*model.QueueEntry, error) {
	return f.queue.Join(ctx, in)
}

func (f *FulfillmentFacade) CallQueueEntry(ctx context.Context, entryID int64) (*model.QueueEntry, error) {
	return f.queue.Call(ctx, entryID)
}

func (f *FulfillmentFacade) ServeQueueEntry(ctx context.Context, entryID int64) (*model.QueueEntry, error) {
	return f.queue.Serve(ctx, entryID)
}

func (f *FulfillmentFacade) CancelQueueEntry(ctx context.Context, entryID int64) (*model.QueueEntry, error) {
	return f.queue.Cancel(ctx, entryID)
}

func (f *FulfillmentFacade) QueueActive(ctx context.Context, branchID int64) ([]model.QueueEntry, error) {
	return f.queue.Active(ctx, branchID)
}

func (f *FulfillmentFacade) QueueStats(ctx context.Context, branchID int64) (*model.QueueStats, error) {
	return f.queue.Stats(ctx, branchID)
}

func (f *FulfillmentFacade) LoyaltyByOrder(ctx context.Context, orderID int64) (*model.LoyaltyAccrual, error) {
	return f.loyalty.GetByOrder(ctx, orderID)
}

func (f *FulfillmentFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
