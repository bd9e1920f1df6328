package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
)

func TestCreateOrderComputesTotals(t *testing.T) {
	f := newFixture()

	order, err := f.orderUC.Create(context.Background(), CreateOrderInput{
		BranchID:    1,
		Type:        model.OrderTypeDineIn,
		TableNumber: tableTwelve(),
		Lines: []OrderLineInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Subtotal != 20.00 {
		t.Fatalf("expected subtotal 20.00, got %.2f", order.Subtotal)
	}
	if order.TaxAmount != 3.00 {
		t.Fatalf("expected tax 3.00, got %.2f", order.TaxAmount)
	}
	if order.TotalAmount != 23.00 {
		t.Fatalf("expected total 23.00, got %.2f", order.TotalAmount)
	}
	if order.TotalAmount != order.Subtotal+order.TaxAmount-order.DiscountAmount {
		t.Fatalf("total %.2f breaks the money invariant", order.TotalAmount)
	}
	if order.Number != "ORD-20250310-0001" {
		t.Fatalf("unexpected order number %q", order.Number)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("new order should be pending, got %s", order.Status)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
	if order.Lines[0].TotalPrice != 10.00 {
		t.Fatalf("expected line total 10.00, got %.2f", order.Lines[0].TotalPrice)
	}
}

func TestCreateOrderNumbersArePerDay(t *testing.T) {
	f := newFixture()

	for i := 0; i < 2; i++ {
		if _, err := f.orderUC.Create(context.Background(), CreateOrderInput{
			BranchID: 1,
			Type:     model.OrderTypeTakeaway,
			Lines:    []OrderLineInput{{ProductID: 1, Quantity: 1}},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	f.clk.Advance(24 * time.Hour)

	order, err := f.orderUC.Create(context.Background(), CreateOrderInput{
		BranchID: 1,
		Type:     model.OrderTypeTakeaway,
		Lines:    []OrderLineInput{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Number != "ORD-20250311-0001" {
		t.Fatalf("counter should reset on the next day, got %q", order.Number)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateOrderInput
	}{
		{
			name: "unknown type",
			in: CreateOrderInput{
				BranchID: 1, Type: "drive_through",
				Lines: []OrderLineInput{{ProductID: 1, Quantity: 1}},
			},
		},
		{
			name: "dine-in without table",
			in: CreateOrderInput{
				BranchID: 1, Type: model.OrderTypeDineIn,
				Lines: []OrderLineInput{{ProductID: 1, Quantity: 1}},
			},
		},
		{
			name: "empty lines",
			in:   CreateOrderInput{BranchID: 1, Type: model.OrderTypeTakeaway},
		},
		{
			name: "zero quantity",
			in: CreateOrderInput{
				BranchID: 1, Type: model.OrderTypeTakeaway,
				Lines: []OrderLineInput{{ProductID: 1, Quantity: 0}},
			},
		},
		{
			name: "unknown product",
			in: CreateOrderInput{
				BranchID: 1, Type: model.OrderTypeTakeaway,
				Lines: []OrderLineInput{{ProductID: 999, Quantity: 1}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.orderUC.Create(ctx, tc.in); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestApplyDiscount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.orderUC.Create(ctx, CreateOrderInput{
		BranchID: 1,
		Type:     model.OrderTypeTakeaway,
		Lines:    []OrderLineInput{{ProductID: 2, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	discounted, err := f.orderUC.ApplyDiscount(ctx, order.ID, 2.50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discounted.DiscountAmount != 2.50 {
		t.Fatalf("expected discount 2.50, got %.2f", discounted.DiscountAmount)
	}
	if discounted.TotalAmount != 9.00 {
		t.Fatalf("expected total 9.00, got %.2f", discounted.TotalAmount)
	}
}

func TestApplyDiscountBounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.orderUC.Create(ctx, CreateOrderInput{
		BranchID: 1,
		Type:     model.OrderTypeTakeaway,
		Lines:    []OrderLineInput{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.orderUC.ApplyDiscount(ctx, order.ID, -1); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("negative discount: expected ErrInvalidAmount, got %v", err)
	}
	// Subtotal 5.00 + tax 0.75 = 5.75 ceiling.
	if _, err := f.orderUC.ApplyDiscount(ctx, order.ID, 6.00); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("oversized discount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.orderUC.ApplyDiscount(ctx, order.ID, 5.75); err != nil {
		t.Fatalf("discount equal to the ceiling should be allowed, got %v", err)
	}
}

func TestApplyDiscountOnFinishedOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.orderUC.Create(ctx, CreateOrderInput{
		BranchID: 1,
		Type:     model.OrderTypeTakeaway,
		Lines:    []OrderLineInput{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.orders.Orders[order.ID].Status = model.OrderStatusCompleted

	if _, err := f.orderUC.ApplyDiscount(ctx, order.ID, 1.00); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelCascadesToTicketsAndQueue(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.fulfillment.SubmitOrder(ctx, SubmitOrderInput{
		CreateOrderInput: CreateOrderInput{
			BranchID:    1,
			Type:        model.OrderTypeDineIn,
			TableNumber: tableTwelve(),
			Lines: []OrderLineInput{
				{ProductID: 1, Quantity: 1},
				{ProductID: 2, Quantity: 1},
			},
		},
		WalkIn: &WalkInInput{CustomerName: "Ada", PartySize: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One ticket is already in progress: the cascade must still catch it.
	if _, err := f.fulfillment.StartTicket(ctx, result.Tickets[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancelled, err := f.orderUC.Cancel(ctx, result.Order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	for _, ticket := range result.Tickets {
		stored, err := f.kitchenUC.Get(ctx, ticket.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Status != model.TicketStatusCancelled {
			t.Fatalf("ticket %d should be cancelled, got %s", ticket.ID, stored.Status)
		}
	}

	entry, err := f.queueUC.Serve(ctx, result.QueueEntry.ID)
	if !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("cancelled queue entry should refuse serving, got entry=%v err=%v", entry, err)
	}
}

func TestCancelFinishedOrderRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	order, err := f.orderUC.Create(ctx, CreateOrderInput{
		BranchID: 1,
		Type:     model.OrderTypeTakeaway,
		Lines:    []OrderLineInput{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.orders.Orders[order.ID].Status = model.OrderStatusCompleted

	if _, err := f.orderUC.Cancel(ctx, order.ID); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCancelMissingOrder(t *testing.T) {
	f := newFixture()

	if _, err := f.orderUC.Cancel(context.Background(), 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
