package repository

import (
	"context"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

type InterestRepository interface {
	Create(ctx context.Context, i *entity.Interest) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Interest, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*entity.Interest, error)
	CountUnseen(ctx context.Context, contractorID string) (int, error)
	MarkSeen(ctx context.Context, contractorID, id string) error
	MarkAllSeen(ctx context.Context, contractorID string) (int, error)
}

// ReviewRepository also keeps the store's rating aggregate in step with its
// reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	ListByStore(ctx context.Context, storeID string) ([]*entity.Review, error)
}

type TestimonialRepository interface {
	Create(ctx context.Context, t *entity.Testimonial) error
	ListLatest(ctx context.Context, limit int) ([]*entity.Testimonial, error)
}
