package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

const (
	AvailabilityInStock    = "inStock"
	AvailabilityOutOfStock = "outOfStock"
)

// ProductFilter drives the public catalog listing. IDs, when set, restricts
// the result to those products (used after a search engine lookup).
type ProductFilter struct {
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Availability string
	Categories   []string
	StoreID      string
	IDs          []string
	Page         int
	Limit        int
}

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, storeID, id string) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	Categories(ctx context.Context) ([]string, error)
}

// CartRepository keeps one cart per (user, store). Save upserts on that pair.
type CartRepository interface {
	Get(ctx context.Context, userID, storeID string) (*entity.Cart, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Cart, error)
	Save(ctx context.Context, c *entity.Cart) error
	Delete(ctx context.Context, userID, storeID string) error
	DeleteAll(ctx context.Context, userID string) error
}
