package repository

import (
	"context"
	"time"

	"github.com/posdesk/fulfillment/internal/domain/model"
)

// TicketRepository describes persistence operations with kitchen tickets.
type TicketRepository interface {
	CreateForOrder(ctx context.Context, orderID int64, tickets []model.KitchenTicket) ([]model.KitchenTicket, error)
	GetByID(ctx context.Context, id int64) (*model.KitchenTicket, error)
	// ListByOrder returns every ticket of the order; the orchestrator treats
	// the result as one consistent snapshot.
	ListByOrder(ctx context.Context, orderID int64) ([]model.KitchenTicket, error)
	ListByStatus(ctx context.Context, status model.TicketStatus, limit int) ([]model.KitchenTicket, error)
	// UpdateStatusIf conditionally advances the ticket, stamping startedAt or
	// completedAt depending on the target status. Returns false when the
	// ticket was not in the expected status.
	UpdateStatusIf(ctx context.Context, ticketID int64, from, to model.TicketStatus, at time.Time) (bool, error)
	// CancelActiveByOrder cancels every pending or preparing ticket of the
	// order. Completed tickets are immutable and stay untouched.
	CancelActiveByOrder(ctx context.Context, orderID int64) error
}
