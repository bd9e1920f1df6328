package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Tickets() TicketRepository
	Queue() QueueRepository
	Loyalty() LoyaltyRepository
	Products() ProductRepository
	Customers() CustomerRepository
	Branches() BranchRepository
}
