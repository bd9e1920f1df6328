package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/posdesk/fulfillment/internal/clock"
	"github.com/posdesk/fulfillment/internal/domain/model"
)

// KitchenFacade exposes the subset of application functionality required by the monitor.
type KitchenFacade interface {
	PreparingTickets(ctx context.Context, limit int) ([]model.KitchenTicket, error)
	TicketOverdue(ticket model.KitchenTicket) bool
}

// EscalationMonitor periodically sweeps preparing tickets and flags overdue
// ones. It only reads and logs; the escalation check itself is pure, so a
// sweep can never race a concurrent ticket completion into a bad state.
type EscalationMonitor struct {
	facade    KitchenFacade
	clk       clock.Clock
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	jobs       chan model.KitchenTicket
	wg         sync.WaitGroup
	cancelTick func()
	cancel     context.CancelFunc
	mu         sync.Mutex
}

// NewEscalationMonitor constructs the overdue-ticket monitor.
func NewEscalationMonitor(facade KitchenFacade, clk clock.Clock, interval time.Duration, batchSize, workers int, logger *slog.Logger) *EscalationMonitor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &EscalationMonitor{
		facade:    facade,
		clk:       clk,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
		jobs:      make(chan model.KitchenTicket, batchSize*workers),
	}
}

// Start launches background sweeping.
func (m *EscalationMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(runCtx)
	}

	m.cancelTick = m.clk.Schedule(m.interval, func() {
		m.sweep(runCtx)
	})
}

// Stop waits for all workers to finish.
func (m *EscalationMonitor) Stop() {
	m.mu.Lock()
	if m.cancelTick != nil {
		m.cancelTick()
		m.cancelTick = nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *EscalationMonitor) sweep(ctx context.Context) {
	tickets, err := m.facade.PreparingTickets(ctx, m.batchSize)
	if err != nil {
		m.logger.Error("fetch preparing tickets failed", slog.String("error", err.Error()))
		return
	}
	for _, ticket := range tickets {
		select {
		case <-ctx.Done():
			return
		case m.jobs <- ticket:
		}
	}
}

func (m *EscalationMonitor) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ticket, ok := <-m.jobs:
			if !ok {
				return
			}
			m.check(ticket)
		}
	}
}

func (m *EscalationMonitor) check(ticket model.KitchenTicket) {
	if !m.facade.TicketOverdue(ticket) {
		return
	}
	m.logger.Warn("kitchen ticket overdue",
		slog.Int64("ticket_id", ticket.ID),
		slog.Int64("order_id", ticket.OrderID),
		slog.String("product", ticket.ProductName),
		slog.Float64("elapsed_minutes", ticket.ElapsedMinutes(m.clk.Now())),
		slog.Int("prep_minutes", ticket.PrepMinutes),
	)
}
