package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
)

func joinInput(name string) JoinQueueInput {
	return JoinQueueInput{
		BranchID:     1,
		CustomerName: name,
		PartySize:    2,
		ServiceType:  model.ServiceTypeDineIn,
	}
}

func TestJoinValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   JoinQueueInput
	}{
		{"empty name", JoinQueueInput{BranchID: 1, PartySize: 2, ServiceType: model.ServiceTypeDineIn}},
		{"zero party", JoinQueueInput{BranchID: 1, CustomerName: "Ada", ServiceType: model.ServiceTypeDineIn}},
		{"bad service type", JoinQueueInput{BranchID: 1, CustomerName: "Ada", PartySize: 2, ServiceType: "curbside"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.queueUC.Join(ctx, tc.in); !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestQueueNumbersNeverReused(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var second *model.QueueEntry
	for i, name := range []string{"Ada", "Grace", "Edsger"} {
		entry, err := f.queueUC.Join(ctx, joinInput(name))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry.Number != i+1 {
			t.Fatalf("expected number %d, got %d", i+1, entry.Number)
		}
		if i == 1 {
			second = entry
		}
	}

	if _, err := f.queueUC.Cancel(ctx, second.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, err := f.queueUC.Join(ctx, joinInput("Barbara"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Number != 4 {
		t.Fatalf("cancelled numbers must not be reissued, got %d", entry.Number)
	}
}

func TestCallThenServe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	entry, err := f.queueUC.Join(ctx, joinInput("Ada"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.clk.Advance(5 * time.Minute)
	called, err := f.queueUC.Call(ctx, entry.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called.Status != model.QueueStatusCalled || called.CalledAt == nil {
		t.Fatalf("expected called with timestamp, got %+v", called)
	}

	// Calling twice announces nothing new.
	if _, err := f.queueUC.Call(ctx, entry.ID); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	f.clk.Advance(2 * time.Minute)
	served, err := f.queueUC.Serve(ctx, entry.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if served.Status != model.QueueStatusServed || served.ServedAt == nil {
		t.Fatalf("expected served with timestamp, got %+v", served)
	}

	if _, err := f.queueUC.Cancel(ctx, entry.ID); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("served entries are final, got %v", err)
	}
}

func TestServeSkipsCallStep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	entry, err := f.queueUC.Join(ctx, joinInput("Ada"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	served, err := f.queueUC.Serve(ctx, entry.ID)
	if err != nil {
		t.Fatalf("walk-up seating without a call should work, got %v", err)
	}
	if served.Status != model.QueueStatusServed {
		t.Fatalf("expected served, got %s", served.Status)
	}
}

func TestActiveListsWaitingAndCalled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, _ := f.queueUC.Join(ctx, joinInput("Ada"))
	second, _ := f.queueUC.Join(ctx, joinInput("Grace"))
	third, _ := f.queueUC.Join(ctx, joinInput("Edsger"))

	if _, err := f.queueUC.Call(ctx, first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.queueUC.Serve(ctx, second.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, err := f.queueUC.Active(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active entries, got %d", len(active))
	}
	if active[0].ID != first.ID || active[1].ID != third.ID {
		t.Fatalf("active entries out of queue order: %+v", active)
	}
}

func TestStatsAveragesServedWaits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, _ := f.queueUC.Join(ctx, joinInput("Ada"))
	second, _ := f.queueUC.Join(ctx, joinInput("Grace"))
	f.queueUC.Join(ctx, joinInput("Edsger"))

	f.clk.Advance(10 * time.Minute)
	if _, err := f.queueUC.Serve(ctx, first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.queueUC.Call(ctx, second.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, err := f.queueUC.Stats(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.WaitingCount != 1 || stats.CalledCount != 1 || stats.ServedToday != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.AvgWaitMinutes < 9.9 || stats.AvgWaitMinutes > 10.1 {
		t.Fatalf("expected about 10 minute average wait, got %.2f", stats.AvgWaitMinutes)
	}
}

func TestStatsEmptyBranch(t *testing.T) {
	f := newFixture()

	stats, err := f.queueUC.Stats(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.WaitingCount != 0 || stats.ServedToday != 0 || stats.AvgWaitMinutes != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
