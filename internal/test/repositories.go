package test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/posdesk/fulfillment/internal/domain/errors"
	"github.com/posdesk/fulfillment/internal/domain/model"
)

// OrderRepositoryStub keeps orders in memory and mimics the conditional
// status write of the real storage. Fn fields override single methods so
// tests can inject races and failures.
type OrderRepositoryStub struct {
	mu      sync.Mutex
	Orders  map[int64]*model.Order
	nextID  int64
	counter map[string]int64

	UpdateStatusIfFn func(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error)
	GetByIDFn        func(ctx context.Context, id int64) (*model.Order, error)

	StatusWrites []model.OrderStatus
}

// NewOrderRepositoryStub constructs the stub with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		Orders:  make(map[int64]*model.Order),
		nextID:  1,
		counter: make(map[string]int64),
	}
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, day string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *order
	created.ID = s.nextID
	s.nextID++

	scope := fmt.Sprintf("order:%d:%s", order.BranchID, day)
	s.counter[scope]++
	created.Number = fmt.Sprintf("ORD-%s-%04d", strings.ReplaceAll(day, "-", ""), s.counter[scope])
	created.CreatedAt = time.Now()

	created.Lines = make([]model.OrderLine, len(order.Lines))
	copy(created.Lines, order.Lines)
	for i := range created.Lines {
		created.Lines[i].ID = created.ID*100 + int64(i) + 1
		created.Lines[i].OrderID = created.ID
	}

	stored := created
	s.Orders[created.ID] = &stored
	return &created, nil
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *OrderRepositoryStub) ListByStatus(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Order
	for _, order := range s.Orders {
		if len(statuses) == 0 {
			result = append(result, *order)
			continue
		}
		for _, status := range statuses {
			if order.Status == status {
				result = append(result, *order)
				break
			}
		}
	}
	return result, nil
}

func (s *OrderRepositoryStub) UpdateStatusIf(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error) {
	if s.UpdateStatusIfFn != nil {
		return s.UpdateStatusIfFn(ctx, orderID, from, to)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.Orders[orderID]
	if !ok {
		return false, nil
	}
	for _, expected := range from {
		if order.Status == expected {
			order.Status = to
			if to == model.OrderStatusCompleted || to == model.OrderStatusDelivered {
				now := time.Now()
				order.CompletedAt = &now
			}
			s.StatusWrites = append(s.StatusWrites, to)
			return true, nil
		}
	}
	return false, nil
}

func (s *OrderRepositoryStub) SetDiscount(ctx context.Context, orderID int64, discount, total float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.Orders[orderID]
	if !ok || order.Status.Terminal() {
		return false, nil
	}
	order.DiscountAmount = discount
	order.TotalAmount = total
	return true, nil
}

// TicketRepositoryStub keeps kitchen tickets in memory.
type TicketRepositoryStub struct {
	mu      sync.Mutex
	Tickets map[int64]*model.KitchenTicket
	nextID  int64

	UpdateStatusIfFn func(ctx context.Context, ticketID int64, from, to model.TicketStatus, at time.Time) (bool, error)
}

// NewTicketRepositoryStub constructs the stub with initialized maps.
func NewTicketRepositoryStub() *TicketRepositoryStub {
	return &TicketRepositoryStub{Tickets: make(map[int64]*model.KitchenTicket), nextID: 1}
}

func (s *TicketRepositoryStub) CreateForOrder(ctx context.Context, orderID int64, tickets []model.KitchenTicket) ([]model.KitchenTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]model.KitchenTicket, len(tickets))
	copy(created, tickets)
	for i := range created {
		created[i].ID = s.nextID
		s.nextID++
		created[i].OrderID = orderID
		created[i].CreatedAt = time.Now()
		stored := created[i]
		s.Tickets[stored.ID] = &stored
	}
	return created, nil
}

func (s *TicketRepositoryStub) GetByID(ctx context.Context, id int64) (*model.KitchenTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.Tickets[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (s *TicketRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.KitchenTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.KitchenTicket
	for id := int64(1); id < s.nextID; id++ {
		if ticket, ok := s.Tickets[id]; ok && ticket.OrderID == orderID {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (s *TicketRepositoryStub) ListByStatus(ctx context.Context, status model.TicketStatus, limit int) ([]model.KitchenTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.KitchenTicket
	for id := int64(1); id < s.nextID; id++ {
		if ticket, ok := s.Tickets[id]; ok && ticket.Status == status {
			result = append(result, *ticket)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (s *TicketRepositoryStub) UpdateStatusIf(ctx context.Context, ticketID int64, from, to model.TicketStatus, at time.Time) (bool, error) {
	if s.UpdateStatusIfFn != nil {
		return s.UpdateStatusIfFn(ctx, ticketID, from, to, at)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.Tickets[ticketID]
	if !ok || ticket.Status != from {
		return false, nil
	}
	ticket.Status = to
	switch to {
	case model.TicketStatusPreparing:
		stamp := at
		ticket.StartedAt = &stamp
	case model.TicketStatusCompleted:
		stamp := at
		ticket.CompletedAt = &stamp
	}
	return true, nil
}

func (s *TicketRepositoryStub) CancelActiveByOrder(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ticket := range s.Tickets {
		if ticket.OrderID == orderID &&
			(ticket.Status == model.TicketStatusPending || ticket.Status == model.TicketStatusPreparing) {
			ticket.Status = model.TicketStatusCancelled
		}
	}
	return nil
}

// QueueRepositoryStub keeps queue entries in memory with per-branch-day
// sequential numbering. NowFn lets tests stamp CreatedAt from a fake clock.
type QueueRepositoryStub struct {
	mu      sync.Mutex
	Entries map[int64]*model.QueueEntry
	nextID  int64
	counter map[string]int

	NowFn func() time.Time
}

// NewQueueRepositoryStub constructs the stub with initialized maps.
func NewQueueRepositoryStub() *QueueRepositoryStub {
	return &QueueRepositoryStub{
		Entries: make(map[int64]*model.QueueEntry),
		nextID:  1,
		counter: make(map[string]int),
	}
}

func (s *QueueRepositoryStub) Join(ctx context.Context, entry *model.QueueEntry, day string) (*model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *entry
	created.ID = s.nextID
	s.nextID++

	scope := fmt.Sprintf("queue:%d:%s", entry.BranchID, day)
	s.counter[scope]++
	created.Number = s.counter[scope]
	if s.NowFn != nil {
		created.CreatedAt = s.NowFn()
	} else {
		created.CreatedAt = time.Now()
	}

	stored := created
	s.Entries[created.ID] = &stored
	return &created, nil
}

func (s *QueueRepositoryStub) GetByID(ctx context.Context, id int64) (*model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.Entries[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (s *QueueRepositoryStub) UpdateStatusIf(ctx context.Context, entryID int64, from []model.QueueStatus, to model.QueueStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.Entries[entryID]
	if !ok {
		return false, nil
	}
	for _, expected := range from {
		if entry.Status == expected {
			entry.Status = to
			stamp := at
			switch to {
			case model.QueueStatusCalled:
				entry.CalledAt = &stamp
			case model.QueueStatusServed:
				entry.ServedAt = &stamp
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *QueueRepositoryStub) ListActive(ctx context.Context, branchID int64) ([]model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.QueueEntry
	for id := int64(1); id < s.nextID; id++ {
		entry, ok := s.Entries[id]
		if !ok || entry.BranchID != branchID {
			continue
		}
		if entry.Status == model.QueueStatusWaiting || entry.Status == model.QueueStatusCalled {
			result = append(result, *entry)
		}
	}
	return result, nil
}

func (s *QueueRepositoryStub) Stats(ctx context.Context, branchID int64, dayStart time.Time) (*model.QueueStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats model.QueueStats
	var totalWait float64
	for _, entry := range s.Entries {
		if entry.BranchID != branchID {
			continue
		}
		switch entry.Status {
		case model.QueueStatusWaiting:
			stats.WaitingCount++
		case model.QueueStatusCalled:
			stats.CalledCount++
		case model.QueueStatusServed:
			if entry.ServedAt != nil && !entry.ServedAt.Before(dayStart) {
				stats.ServedToday++
				totalWait += entry.ServedAt.Sub(entry.CreatedAt).Minutes()
			}
		}
	}
	if stats.ServedToday > 0 {
		stats.AvgWaitMinutes = totalWait / float64(stats.ServedToday)
	}
	return &stats, nil
}

func (s *QueueRepositoryStub) CancelByOrder(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.Entries {
		if entry.OrderID == nil || *entry.OrderID != orderID {
			continue
		}
		if entry.Status == model.QueueStatusWaiting || entry.Status == model.QueueStatusCalled {
			entry.Status = model.QueueStatusCancelled
		}
	}
	return nil
}

// LoyaltyRepositoryStub records accruals and credited balances.
type LoyaltyRepositoryStub struct {
	mu      sync.Mutex
	Records map[int64]model.LoyaltyAccrual
	Credits map[int64]int64
	nextID  int64

	AccrueOnceFn func(ctx context.Context, orderID, customerID, points int64) (bool, error)
}

// NewLoyaltyRepositoryStub constructs the stub with initialized maps.
func NewLoyaltyRepositoryStub() *LoyaltyRepositoryStub {
	return &LoyaltyRepositoryStub{
		Records: make(map[int64]model.LoyaltyAccrual),
		Credits: make(map[int64]int64),
		nextID:  1,
	}
}

func (s *LoyaltyRepositoryStub) AccrueOnce(ctx context.Context, orderID, customerID, points int64) (bool, error) {
	if s.AccrueOnceFn != nil {
		return s.AccrueOnceFn(ctx, orderID, customerID, points)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.Records[orderID]; exists {
		return false, nil
	}
	s.Records[orderID] = model.LoyaltyAccrual{
		ID:         s.nextID,
		OrderID:    orderID,
		CustomerID: customerID,
		Points:     points,
		CreatedAt:  time.Now(),
	}
	s.nextID++
	s.Credits[customerID] += points
	return true, nil
}

func (s *LoyaltyRepositoryStub) GetByOrder(ctx context.Context, orderID int64) (*model.LoyaltyAccrual, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.Records[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &record, nil
}

// ProductRepositoryStub serves a fixed catalog.
type ProductRepositoryStub struct {
	Products map[int64]model.Product
}

// NewProductRepositoryStub constructs an empty catalog stub.
func NewProductRepositoryStub() *ProductRepositoryStub {
	return &ProductRepositoryStub{Products: make(map[int64]model.Product)}
}

func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &product, nil
}

func (s *ProductRepositoryStub) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	result := make(map[int64]model.Product, len(ids))
	for _, id := range ids {
		if product, ok := s.Products[id]; ok {
			result[id] = product
		}
	}
	return result, nil
}

// CustomerRepositoryStub serves customers and tracks point increments.
type CustomerRepositoryStub struct {
	mu        sync.Mutex
	Customers map[int64]*model.Customer
}

// NewCustomerRepositoryStub constructs an empty customer stub.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{Customers: make(map[int64]*model.Customer)}
}

func (s *CustomerRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.Customers[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *customer
	return &copied, nil
}

func (s *CustomerRepositoryStub) IncrementLoyaltyPoints(ctx context.Context, id int64, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.Customers[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	customer.LoyaltyPoints += delta
	return nil
}

// BranchRepositoryStub serves branches; unknown branches fall back to UTC in
// the callers, so an empty stub is valid.
type BranchRepositoryStub struct {
	Branches map[int64]model.Branch
}

// NewBranchRepositoryStub constructs an empty branch stub.
func NewBranchRepositoryStub() *BranchRepositoryStub {
	return &BranchRepositoryStub{Branches: make(map[int64]model.Branch)}
}

func (s *BranchRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Branch, error) {
	branch, ok := s.Branches[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &branch, nil
}
