package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/posdesk/fulfillment/internal/domain/model"
	testhelpers "github.com/posdesk/fulfillment/internal/test"
)

// fixture wires every use case over in-memory stubs with a fake clock.
type fixture struct {
	orders    *testhelpers.OrderRepositoryStub
	tickets   *testhelpers.TicketRepositoryStub
	queue     *testhelpers.QueueRepositoryStub
	loyalty   *testhelpers.LoyaltyRepositoryStub
	products  *testhelpers.ProductRepositoryStub
	customers *testhelpers.CustomerRepositoryStub
	branches  *testhelpers.BranchRepositoryStub
	clk       *testhelpers.FakeClock

	orderUC     *OrderUseCase
	kitchenUC   *KitchenUseCase
	queueUC     *QueueUseCase
	loyaltyUC   *LoyaltyUseCase
	fulfillment *FulfillmentUseCase
}

func newFixture() *fixture {
	f := &fixture{
		orders:    testhelpers.NewOrderRepositoryStub(),
		tickets:   testhelpers.NewTicketRepositoryStub(),
		queue:     testhelpers.NewQueueRepositoryStub(),
		loyalty:   testhelpers.NewLoyaltyRepositoryStub(),
		products:  testhelpers.NewProductRepositoryStub(),
		customers: testhelpers.NewCustomerRepositoryStub(),
		branches:  testhelpers.NewBranchRepositoryStub(),
		clk:       testhelpers.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
	}

	f.queue.NowFn = f.clk.Now

	f.products.Products[1] = model.Product{ID: 1, Name: "Latte", Price: 5.00, PrepMinutes: 10}
	f.products.Products[2] = model.Product{ID: 2, Name: "Burger", Price: 10.00, PrepMinutes: 20}
	f.customers.Customers[42] = &model.Customer{ID: 42, Name: "Regular"}
	f.branches.Branches[1] = model.Branch{ID: 1, Name: "Main", Timezone: "UTC"}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	f.orderUC = NewOrderUseCase(f.orders, f.tickets, f.queue, f.products, f.branches, f.clk, 0.15)
	f.kitchenUC = NewKitchenUseCase(f.tickets, f.clk, 15)
	f.queueUC = NewQueueUseCase(f.queue, f.branches, f.clk)
	f.loyaltyUC = NewLoyaltyUseCase(f.loyalty, 0.1)
	f.fulfillment = NewFulfillmentUseCase(f.orders, f.tickets, f.orderUC, f.kitchenUC, f.queueUC, f.loyaltyUC, 3, logger)
	return f
}

func tableTwelve() *string {
	table := "12"
	return &table
}

func customer42() *int64 {
	id := int64(42)
	return &id
}

// submitDineIn creates the standard two-line dine-in order used across tests.
func (f *fixture) submitDineIn(ctx context.Context) (*SubmitOrderResult, error) {
	return f.fulfillment.SubmitOrder(ctx, SubmitOrderInput{
		CreateOrderInput: CreateOrderInput{
			BranchID:    1,
			Type:        model.OrderTypeDineIn,
			TableNumber: tableTwelve(),
			CustomerID:  customer42(),
			Lines: []OrderLineInput{
				{ProductID: 1, Quantity: 1},
				{ProductID: 2, Quantity: 1},
			},
		},
	})
}
