package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
)

const defaultTestimonials = 10

// ReviewService handles store reviews. Creating a review also refreshes the
// store's rating aggregate inside the repository.
type ReviewService struct {
	Reviews  repo.ReviewRepository
	Accounts repo.AccountRepository
	Logger   logrus.FieldLogger
}

func (s *ReviewService) List(ctx context.Context, storeID string) ([]*entity.Review, error) {
	return s.Reviews.ListByStore(ctx, storeID)
}

func (s *ReviewService) Create(ctx context.Context, userID, storeID string, rating int, comment string) (*entity.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	u, err := s.Accounts.GetByID(ctx, entity.RoleUser, userID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	r := &entity.Review{
		StoreID:  storeID,
		UserID:   userID,
		UserName: u.Name,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
	}
	if err := s.Reviews.Create(ctx, r); err != nil {
		return nil, notFound(err, ErrStoreNotFound)
	}
	return r, nil
}

type TestimonialService struct {
	Testimonials repo.TestimonialRepository
	Accounts     repo.AccountRepository
	Logger       logrus.FieldLogger
}

func (s *TestimonialService) List(ctx context.Context, limit int) ([]*entity.Testimonial, error) {
	_, limit = normalizePage(1, limit, defaultTestimonials, 50)
	return s.Testimonials.ListLatest(ctx, limit)
}

// Create records a testimonial from any signed-in role, named after the
// account's display name.
func (s *TestimonialService) Create(ctx context.Context, role entity.Role, accountID, content string, rating int) (*entity.Testimonial, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	a, err := s.Accounts.GetByID(ctx, role, accountID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	t := &entity.Testimonial{
		AccountID: a.ID,
		Role:      a.Role,
		Name:      a.DisplayName(),
		Content:   strings.TrimSpace(content),
		Rating:    rating,
	}
	if err := s.Testimonials.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
