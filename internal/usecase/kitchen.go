package usecase

import (
	"context"
	"fmt"

	"github.com/posdesk/fulfillment/internal/clock"
	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/domain/repository"
)

// KitchenUseCase is the single writer of kitchen ticket status. All mutations
// go through it, so a double-click from a kitchen display cannot corrupt a
// ticket: the conditional update simply rejects the second attempt.
type KitchenUseCase struct {
	tickets            repository.TicketRepository
	clk                clock.Clock
	defaultPrepMinutes int
}

// NewKitchenUseCase constructs KitchenUseCase.
func NewKitchenUseCase(tickets repository.TicketRepository, clk clock.Clock, defaultPrepMinutes int) *KitchenUseCase {
	if defaultPrepMinutes <= 0 {
		defaultPrepMinutes = 15
	}
	return &KitchenUseCase{tickets: tickets, clk: clk, defaultPrepMinutes: defaultPrepMinutes}
}

// CreateTicketsForOrder opens one pending ticket per order line.
func (u *KitchenUseCase) CreateTicketsForOrder(ctx context.Context, order *model.Order) ([]model.KitchenTicket, error) {
	tickets := make([]model.KitchenTicket, 0, len(order.Lines))
	for _, line := range order.Lines {
		tickets = append(tickets, model.KitchenTicket{
			OrderID:     order.ID,
			LineID:      line.ID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Notes:       line.Notes,
			Status:      model.TicketStatusPending,
			PrepMinutes: line.PrepMinutes,
		})
	}
	return u.tickets.CreateForOrder(ctx, order.ID, tickets)
}

// Start moves a pending ticket to preparing and stamps startedAt.
func (u *KitchenUseCase) Start(ctx context.Context, ticketID int64) (*model.KitchenTicket, error) {
	return u.transition(ctx, ticketID, model.TicketStatusPending, model.TicketStatusPreparing)
}

// Complete moves a preparing ticket to completed and stamps completedAt.
func (u *KitchenUseCase) Complete(ctx context.Context, ticketID int64) (*model.KitchenTicket, error) {
	return u.transition(ctx, ticketID, model.TicketStatusPreparing, model.TicketStatusCompleted)
}

func (u *KitchenUseCase) transition(ctx context.Context, ticketID int64, from, to model.TicketStatus) (*model.KitchenTicket, error) {
	updated, err := u.tickets.UpdateStatusIf(ctx, ticketID, from, to, u.clk.Now())
	if err != nil {
		return nil, err
	}
	if !updated {
		if _, err := u.tickets.GetByID(ctx, ticketID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: ticket %d is not %s", domainErrors.ErrInvalidTransition, ticketID, from)
	}
	return u.tickets.GetByID(ctx, ticketID)
}

// Get returns a single ticket.
func (u *KitchenUseCase) Get(ctx context.Context, ticketID int64) (*model.KitchenTicket, error) {
	return u.tickets.GetByID(ctx, ticketID)
}

// ListByStatus returns tickets in the given status, oldest first.
func (u *KitchenUseCase) ListByStatus(ctx context.Context, status model.TicketStatus, limit int) ([]model.KitchenTicket, error) {
	if limit <= 0 {
		limit = 100
	}
	return u.tickets.ListByStatus(ctx, status, limit)
}

// Elapsed returns minutes the ticket has spent preparing so far.
func (u *KitchenUseCase) Elapsed(ticket model.KitchenTicket) float64 {
	return ticket.ElapsedMinutes(u.clk.Now())
}

// EscalationCheck reports whether the ticket has been preparing longer than
// its expected duration. Pure; callers poll it and it never mutates state, so
// escalation can not race a concurrent completion.
func (u *KitchenUseCase) EscalationCheck(ticket model.KitchenTicket) bool {
	return ticket.Overdue(u.clk.Now(), u.defaultPrepMinutes)
}
