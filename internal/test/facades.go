package test

import (
	"context"
	"sync"

	"github.com/posdesk/fulfillment/internal/domain/model"
)

// MonitorFacadeStub backs escalation monitor tests. Batches are consumed one
// per sweep; Checked records every ticket the monitor inspected.
type MonitorFacadeStub struct {
	sync.Mutex

	Batches   [][]model.KitchenTicket
	FetchErr  error
	OverdueFn func(ticket model.KitchenTicket) bool

	Checked []model.KitchenTicket
}

func (s *MonitorFacadeStub) PreparingTickets(ctx context.Context, limit int) ([]model.KitchenTicket, error) {
	s.Lock()
	defer s.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

func (s *MonitorFacadeStub) TicketOverdue(ticket model.KitchenTicket) bool {
	s.Lock()
	s.Checked = append(s.Checked, ticket)
	s.Unlock()
	if s.OverdueFn != nil {
		return s.OverdueFn(ticket)
	}
	return false
}
