package repository

import (
	"context"

	"github.com/posdesk/fulfillment/internal/domain/model"
)

// ProductRepository is the catalog collaborator consumed at order creation.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error)
}

// CustomerRepository is the customer-store collaborator.
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	IncrementLoyaltyPoints(ctx context.Context, id int64, delta int64) error
}

// BranchRepository scopes queue-day boundaries.
type BranchRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Branch, error)
}
