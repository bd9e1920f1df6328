package handlers

import (
	"context"

	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/usecase"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	SubmitOrder(ctx context.Context, in usecase.SubmitOrderInput) (*usecase.SubmitOrderResult, error)
	Order(ctx context.Context, orderID int64) (*model.Order, error)
	Orders(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*model.Order, error)
	ApplyDiscount(ctx context.Context, orderID int64, amount float64) (*model.Order, error)
	ServeOrder(ctx context.Context, orderID int64) (*model.Order, error)
}

// KitchenFacade encapsulates kitchen display operations.
type KitchenFacade interface {
	StartTicket(ctx context.Context, ticketID int64) (*model.KitchenTicket, error)
	CompleteTicket(ctx context.Context, ticketID int64) (*model.KitchenTicket, error)
	KitchenTickets(ctx context.Context, status model.TicketStatus, limit int) ([]model.KitchenTicket, error)
	TicketOverdue(ticket model.KitchenTicket) bool
	TicketElapsed(ticket model.KitchenTicket) float64
}

// QueueFacade encapsulates digital queue operations.
type QueueFacade interface {
	JoinQueue(ctx context.Context, in usecase.JoinQueueInput) (*model.QueueEntry, error)
	CallQueueEntry(ctx context.Context, entryID int64) (*model.QueueEntry, error)
	ServeQueueEntry(ctx context.Context, entryID int64) (*model.QueueEntry, error)
	CancelQueueEntry(ctx context.Context, entryID int64) (*model.QueueEntry, error)
	QueueActive(ctx context.Context, branchID int64) ([]model.QueueEntry, error)
	QueueStats(ctx context.Context, branchID int64) (*model.QueueStats, error)
}

// HealthFacade verifies backing services.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// FulfillmentFacade aggregates the full set of operations used across handlers.
type FulfillmentFacade interface {
	OrderFacade
	KitchenFacade
	QueueFacade
	HealthFacade
}
