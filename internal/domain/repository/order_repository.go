package repository

import (
	"context"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

// OrderRepository persists orders.
//
// Place is atomic: for every draft it locks the referenced products, prices
// the draft with entity.BuildOrder, decrements stock, inserts the order and
// removes the ordered products from the user's cart for that store (the cart
// is deleted once empty). Any failure leaves no order, no stock change and no
// cart change behind. A malformed product id reports ErrNotFound.
type OrderRepository interface {
	Place(ctx context.Context, userID string, drafts []entity.OrderDraft) ([]*entity.Order, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	ListByStore(ctx context.Context, storeID string, status entity.OrderStatus) ([]*entity.Order, error)
	// UpdateStatus applies a lifecycle transition for the owning store and
	// returns stock to the products when the order is cancelled.
	UpdateStatus(ctx context.Context, storeID, id string, next entity.OrderStatus) (*entity.Order, error)
	SetPaymentSession(ctx context.Context, userID string, ids []string, sessionID string) error
	ListByPaymentSession(ctx context.Context, sessionID string) ([]*entity.Order, error)
	// MarkPaid flags every order of the session as paid and moves pending
	// ones to processing. Already paid orders are left as they are.
	MarkPaid(ctx context.Context, sessionID string) ([]*entity.Order, error)
}

// Set bundles one implementation of every repository so the storage driver
// can be picked once at startup.
type Set struct {
	Accounts     AccountRepository
	Projects     ProjectRepository
	JobTypes     JobTypeRepository
	Products     ProductRepository
	Carts        CartRepository
	Orders       OrderRepository
	Interests    InterestRepository
	Reviews      ReviewRepository
	Testimonials TestimonialRepository
}
