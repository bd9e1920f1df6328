package model

// Product is the catalog view consumed at order creation time.
type Product struct {
	ID          int64
	Name        string
	Price       float64
	PrepMinutes int
}

// Customer is the customer-store view used by loyalty accrual.
type Customer struct {
	ID            int64
	Name          string
	LoyaltyPoints int64
}

// Branch scopes queue numbering; Timezone decides where the day boundary falls.
type Branch struct {
	ID       int64
	Name     string
	Timezone string
}
