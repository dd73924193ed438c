package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/repository"
)

type InterestRepository struct{ s *Store }

func (r *InterestRepository) Create(_ context.Context, i *entity.Interest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i.ID = uuid.NewString()
	i.CreatedAt = time.Now()
	c := *i
	r.s.interests[i.ID] = &c
	return nil
}

func (r *InterestRepository) list(match func(*entity.Interest) bool) []*entity.Interest {
	out := []*entity.Interest{}
	for _, i := range r.s.interests {
		if match(i) {
			c := *i
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Interest) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *InterestRepository) ListByUser(_ context.Context, userID string) ([]*entity.Interest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(i *entity.Interest) bool { return i.UserID == userID }), nil
}

func (r *InterestRepository) ListByContractor(_ context.Context, contractorID string) ([]*entity.Interest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(i *entity.Interest) bool { return i.ContractorID == contractorID }), nil
}

func (r *InterestRepository) CountUnseen(_ context.Context, contractorID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, i := range r.s.interests {
		if i.ContractorID == contractorID && !i.SeenByContractor {
			n++
		}
	}
	return n, nil
}

func (r *InterestRepository) MarkSeen(_ context.Context, contractorID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.interests[id]
	if !ok || i.ContractorID != contractorID {
		return repository.ErrNotFound
	}
	i.SeenByContractor = true
	return nil
}

func (r *InterestRepository) MarkAllSeen(_ context.Context, contractorID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, i := range r.s.interests {
		if i.ContractorID == contractorID && !i.SeenByContractor {
			i.SeenByContractor = true
			n++
		}
	}
	return n, nil
}

var _ repository.InterestRepository = (*InterestRepository)(nil)

type ReviewRepository struct{ s *Store }

func (r *ReviewRepository) Create(_ context.Context, rv *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	store, ok := r.s.accounts[rv.StoreID]
	if !ok || store.Role != entity.RoleStore {
		return repository.ErrNotFound
	}
	rv.ID = uuid.NewString()
	rv.CreatedAt = time.Now()
	c := *rv
	r.s.reviews[rv.ID] = &c

	sum, n := 0, 0
	for _, x := range r.s.reviews {
		if x.StoreID == rv.StoreID {
			sum += x.Rating
			n++
		}
	}
	if store.Store == nil {
		store.Store = &entity.StoreProfile{}
	}
	store.Store.ReviewCount = n
	store.Store.Rating = float64(sum) / float64(n)
	return nil
}

func (r *ReviewRepository) ListByStore(_ context.Context, storeID string) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Review{}
	for _, x := range r.s.reviews {
		if x.StoreID == storeID {
			c := *x
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Review) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

type TestimonialRepository struct{ s *Store }

func (r *TestimonialRepository) Create(_ context.Context, t *entity.Testimonial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	c := *t
	r.s.testimonials[t.ID] = &c
	return nil
}

func (r *TestimonialRepository) ListLatest(_ context.Context, limit int) ([]*entity.Testimonial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Testimonial{}
	for _, t := range r.s.testimonials {
		c := *t
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *entity.Testimonial) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(out, 1, limit), nil
}

var _ repository.TestimonialRepository = (*TestimonialRepository)(nil)
