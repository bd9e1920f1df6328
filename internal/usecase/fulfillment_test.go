package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
)

func TestSubmitOrderWithWalkIn(t *testing.T) {
	f := newFixture()

	result, err := f.fulfillment.SubmitOrder(context.Background(), SubmitOrderInput{
		CreateOrderInput: CreateOrderInput{
			BranchID:    1,
			Type:        model.OrderTypeDineIn,
			TableNumber: tableTwelve(),
			Lines:       []OrderLineInput{{ProductID: 1, Quantity: 1}},
		},
		WalkIn: &WalkInInput{CustomerName: "Ada", PartySize: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Tickets) != 1 {
		t.Fatalf("expected one ticket, got %d", len(result.Tickets))
	}
	if result.QueueEntry == nil {
		t.Fatal("walk-in submission should enqueue the customer")
	}
	if result.QueueEntry.OrderID == nil || *result.QueueEntry.OrderID != result.Order.ID {
		t.Fatalf("queue entry should link the order, got %+v", result.QueueEntry)
	}
	if result.QueueEntry.ServiceType != model.ServiceTypeDineIn {
		t.Fatalf("dine-in order should queue as dine-in, got %s", result.QueueEntry.ServiceType)
	}
}

func TestSubmitDeliveryOrderSkipsQueue(t *testing.T) {
	f := newFixture()

	result, err := f.fulfillment.SubmitOrder(context.Background(), SubmitOrderInput{
		CreateOrderInput: CreateOrderInput{
			BranchID: 1,
			Type:     model.OrderTypeDelivery,
			Lines:    []OrderLineInput{{ProductID: 2, Quantity: 1}},
		},
		WalkIn: &WalkInInput{CustomerName: "Ada", PartySize: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.QueueEntry != nil {
		t.Fatal("delivery orders never join the walk-in queue")
	}
}

func TestDerivedStatusLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.submitDineIn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orderID := result.Order.ID

	assertStatus := func(want model.OrderStatus) {
		t.Helper()
		order, err := f.orderUC.Get(ctx, orderID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != want {
			t.Fatalf("expected order %s, got %s", want, order.Status)
		}
	}

	assertStatus(model.OrderStatusPending)

	if _, err := f.fulfillment.StartTicket(ctx, result.Tickets[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(model.OrderStatusPreparing)

	if _, err := f.fulfillment.CompleteTicket(ctx, result.Tickets[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The second line is still pending in the kitchen.
	assertStatus(model.OrderStatusPreparing)

	if _, err := f.fulfillment.StartTicket(ctx, result.Tickets[1].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.fulfillment.CompleteTicket(ctx, result.Tickets[1].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertStatus(model.OrderStatusReady)
}

func TestDerivedStatusIsOrderIndependent(t *testing.T) {
	permutations := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	for _, perm := range permutations {
		t.Run(fmt.Sprintf("completion order %v", perm), func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			result, err := f.fulfillment.SubmitOrder(ctx, SubmitOrderInput{
				CreateOrderInput: CreateOrderInput{
					BranchID: 1,
					Type:     model.OrderTypeTakeaway,
					Lines: []OrderLineInput{
						{ProductID: 1, Quantity: 1},
						{ProductID: 1, Quantity: 2},
						{ProductID: 2, Quantity: 1},
					},
				},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, i := range perm {
				if _, err := f.fulfillment.StartTicket(ctx, result.Tickets[i].ID); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			for step, i := range perm {
				if _, err := f.fulfillment.CompleteTicket(ctx, result.Tickets[i].ID); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				order, err := f.orderUC.Get(ctx, result.Order.ID)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				want := model.OrderStatusPreparing
				if step == len(perm)-1 {
					want = model.OrderStatusReady
				}
				if order.Status != want {
					t.Fatalf("after completing %d tickets expected %s, got %s", step+1, want, order.Status)
				}
			}
		})
	}
}

func TestLateCompletionDoesNotReviveCancelledOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.submitDineIn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.fulfillment.StartTicket(ctx, result.Tickets[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The cancellation lands between the kitchen's read and its completion
	// write, before the ticket cascade reaches this ticket.
	f.orders.Orders[result.Order.ID].Status = model.OrderStatusCancelled

	ticket, err := f.fulfillment.CompleteTicket(ctx, result.Tickets[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket.Status != model.TicketStatusCompleted {
		t.Fatalf("the completion itself is kept, got %s", ticket.Status)
	}

	order, err := f.orderUC.Get(ctx, result.Order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("cancelled order must stay cancelled, got %s", order.Status)
	}
}

func TestReconcileRetriesLostRace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.submitDineIn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attempts := 0
	f.orders.UpdateStatusIfFn = func(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error) {
		attempts++
		if attempts == 1 {
			// First write loses the race against a concurrent actor.
			return false, nil
		}
		f.orders.UpdateStatusIfFn = nil
		return f.orders.UpdateStatusIf(ctx, orderID, from, to)
	}

	if _, err := f.fulfillment.StartTicket(ctx, result.Tickets[0].ID); err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 write attempts, got %d", attempts)
	}

	order, err := f.orderUC.Get(ctx, result.Order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPreparing {
		t.Fatalf("expected preparing after retry, got %s", order.Status)
	}
}

func TestReconcileGivesUpAfterRetries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.submitDineIn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attempts := 0
	f.orders.UpdateStatusIfFn = func(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error) {
		attempts++
		return false, nil
	}

	_, err = f.fulfillment.StartTicket(ctx, result.Tickets[0].ID)
	if !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 write attempts, got %d", attempts)
	}
}

func TestMarkServedCompletesAndAccrues(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.submitDineIn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ticket := range result.Tickets {
		if _, err := f.fulfillment.StartTicket(ctx, ticket.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.fulfillment.CompleteTicket(ctx, ticket.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	f.clk.Advance(time.Minute)
	order, err := f.fulfillment.MarkServed(ctx, result.Order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", order.Status)
	}
	if order.CompletedAt == nil {
		t.Fatal("serving should stamp completedAt")
	}

	// Total 17.25 at 0.1 points per currency unit, floored.
	if f.loyalty.Credits[42] != 1 {
		t.Fatalf("expected 1 loyalty point, got %d", f.loyalty.Credits[42])
	}
	if len(f.loyalty.Records) != 1 {
		t.Fatalf("expected exactly one accrual record, got %d", len(f.loyalty.Records))
	}

	// Serving twice is rejected and cannot double-accrue.
	if _, err := f.fulfillment.MarkServed(ctx, result.Order.ID); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if f.loyalty.Credits[42] != 1 {
		t.Fatalf("double serve credited points, got %d", f.loyalty.Credits[42])
	}
}

func TestMarkServedDeliveryOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.fulfillment.SubmitOrder(ctx, SubmitOrderInput{
		CreateOrderInput: CreateOrderInput{
			BranchID:   1,
			Type:       model.OrderTypeDelivery,
			CustomerID: customer42(),
			Lines:      []OrderLineInput{{ProductID: 2, Quantity: 2}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.fulfillment.StartTicket(ctx, result.Tickets[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.fulfillment.CompleteTicket(ctx, result.Tickets[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, err := f.fulfillment.MarkServed(ctx, result.Order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusDelivered {
		t.Fatalf("delivery orders finish as delivered, got %s", order.Status)
	}
	// Subtotal 20.00 + tax 3.00 = 23.00 total; floor(2.3) points.
	if f.loyalty.Credits[42] != 2 {
		t.Fatalf("expected 2 loyalty points, got %d", f.loyalty.Credits[42])
	}
}

func TestMarkServedRequiresReadyOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.submitDineIn(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.fulfillment.MarkServed(ctx, result.Order.ID); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(f.loyalty.Records) != 0 {
		t.Fatal("no accrual may happen before the order is served")
	}

	if _, err := f.fulfillment.MarkServed(ctx, 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
