package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/posdesk/fulfillment/internal/clock"
	"github.com/posdesk/fulfillment/internal/config"
	"github.com/posdesk/fulfillment/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderUseCase,
	newKitchenUseCase,
	newQueueUseCase,
	newLoyaltyUseCase,
	newFulfillmentUseCase,
)

type orderParams struct {
	fx.In

	Orders   repository.OrderRepository
	Tickets  repository.TicketRepository
	Queue    repository.QueueRepository
	Products repository.ProductRepository
	Branches repository.BranchRepository
	Clock    clock.Clock
	Config   *config.Config
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Tickets, p.Queue, p.Products, p.Branches, p.Clock, p.Config.TaxRate)
}

func newKitchenUseCase(tickets repository.TicketRepository, clk clock.Clock, cfg *config.Config) *KitchenUseCase {
	return NewKitchenUseCase(tickets, clk, cfg.DefaultPrepMinutes)
}

func newQueueUseCase(queue repository.QueueRepository, branches repository.BranchRepository, clk clock.Clock) *QueueUseCase {
	return NewQueueUseCase(queue, branches, clk)
}

func newLoyaltyUseCase(loyalty repository.LoyaltyRepository, cfg *config.Config) *LoyaltyUseCase {
	return NewLoyaltyUseCase(loyalty, cfg.PointsPerUnit)
}

type fulfillmentParams struct {
	fx.In

	Orders  repository.OrderRepository
	Tickets repository.TicketRepository
	Order   *OrderUseCase
	Kitchen *KitchenUseCase
	Queue   *QueueUseCase
	Loyalty *LoyaltyUseCase
	Config  *config.Config
	Logger  *slog.Logger
}

func newFulfillmentUseCase(p fulfillmentParams) *FulfillmentUseCase {
	return NewFulfillmentUseCase(p.Orders, p.Tickets, p.Order, p.Kitchen, p.Queue, p.Loyalty, p.Config.DerivationRetryLimit, p.Logger)
}
