package usecase

import (
	"context"
	"fmt"

	"github.com/posdesk/fulfillment/internal/clock"
	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
	"github.com/posdesk/fulfillment/internal/domain/repository"
)

// JoinQueueInput describes a walk-in customer joining the line.
type JoinQueueInput struct {
	BranchID      int64
	CustomerName  string
	CustomerPhone *string
	PartySize     int
	ServiceType   model.ServiceType
	OrderID       *int64
}

// QueueUseCase manages the walk-in queue: numbering, transitions, statistics.
type QueueUseCase struct {
	queue    repository.QueueRepository
	branches repository.BranchRepository
	clk      clock.Clock
}

// NewQueueUseCase constructs QueueUseCase.
func NewQueueUseCase(queue repository.QueueRepository, branches repository.BranchRepository, clk clock.Clock) *QueueUseCase {
	return &QueueUseCase{queue: queue, branches: branches, clk: clk}
}

// Join validates the request and enqueues the customer with the next queue
// number for the branch day.
func (u *QueueUseCase) Join(ctx context.Context, in JoinQueueInput) (*model.QueueEntry, error) {
	if in.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", domainErrors.ErrValidation)
	}
	if in.PartySize <= 0 {
		return nil, fmt.Errorf("%w: party size must be positive", domainErrors.ErrValidation)
	}
	if !model.ValidServiceType(in.ServiceType) {
		return nil, fmt.Errorf("%w: unknown service type %q", domainErrors.ErrValidation, in.ServiceType)
	}

	entry := &model.QueueEntry{
		BranchID:      in.BranchID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		PartySize:     in.PartySize,
		ServiceType:   in.ServiceType,
		Status:        model.QueueStatusWaiting,
		OrderID:       in.OrderID,
	}

	day, _ := branchDay(ctx, u.branches, in.BranchID, u.clk.Now())
	return u.queue.Join(ctx, entry, day)
}

// Call announces a waiting entry and stamps calledAt.
func (u *QueueUseCase) Call(ctx context.Context, entryID int64) (*model.QueueEntry, error) {
	return u.transition(ctx, entryID,
		[]model.QueueStatus{model.QueueStatusWaiting}, model.QueueStatusCalled)
}

// Serve marks the entry served. The waiting shortcut covers walk-up seating
// without an explicit call step.
func (u *QueueUseCase) Serve(ctx context.Context, entryID int64) (*model.QueueEntry, error) {
	return u.transition(ctx, entryID,
		[]model.QueueStatus{model.QueueStatusCalled, model.QueueStatusWaiting}, model.QueueStatusServed)
}

// Cancel removes a waiting or called entry; served entries are final. The
// entry's number is never reused.
func (u *QueueUseCase) Cancel(ctx context.Context, entryID int64) (*model.QueueEntry, error) {
	return u.transition(ctx, entryID,
		[]model.QueueStatus{model.QueueStatusWaiting, model.QueueStatusCalled}, model.QueueStatusCancelled)
}

func (u *QueueUseCase) transition(ctx context.Context, entryID int64, from []model.QueueStatus, to model.QueueStatus) (*model.QueueEntry, error) {
	updated, err := u.queue.UpdateStatusIf(ctx, entryID, from, to, u.clk.Now())
	if err != nil {
		return nil, err
	}
	if !updated {
		if _, err := u.queue.GetByID(ctx, entryID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: queue entry %d cannot become %s", domainErrors.ErrInvalidTransition, entryID, to)
	}
	return u.queue.GetByID(ctx, entryID)
}

// Active returns waiting and called entries in queue order.
func (u *QueueUseCase) Active(ctx context.Context, branchID int64) ([]model.QueueEntry, error) {
	return u.queue.ListActive(ctx, branchID)
}

// Stats aggregates the branch queue. Average wait covers entries served today
// and is zero when nothing has been served yet.
func (u *QueueUseCase) Stats(ctx context.Context, branchID int64) (*model.QueueStats, error) {
	_, dayStart := branchDay(ctx, u.branches, branchID, u.clk.Now())
	return u.queue.Stats(ctx, branchID, dayStart)
}
