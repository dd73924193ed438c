package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/repository"
)

type ProductRepository struct{ s *Store }

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, ok := r.s.products[p.ID]
	if !ok || ex.StoreID != p.StoreID {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, storeID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, ok := r.s.products[id]
	if !ok || ex.StoreID != storeID {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Product
	for _, p := range r.s.products {
		if f.IDs != nil && !slices.Contains(f.IDs, p.ID) {
			continue
		}
		if f.StoreID != "" && p.StoreID != f.StoreID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		if f.MinPrice != nil && p.BasePrice.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.BasePrice.GreaterThan(*f.MaxPrice) {
			continue
		}
		switch f.Availability {
		case repository.AvailabilityInStock:
			if p.Stock <= 0 {
				continue
			}
		case repository.AvailabilityOutOfStock:
			if p.Stock > 0 {
				continue
			}
		}
		if len(f.Categories) > 0 && !slices.ContainsFunc(f.Categories, func(c string) bool { return strings.EqualFold(c, p.Category) }) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	slices.SortFunc(out, func(a, b *entity.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return paginate(out, f.Page, f.Limit), len(out), nil
}

func (r *ProductRepository) Categories(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, p := range r.s.products {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	slices.Sort(out)
	return out, nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

type CartRepository struct{ s *Store }

func (r *CartRepository) Get(_ context.Context, userID, storeID string) (*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[cartKey{userID, storeID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCart(c), nil
}

func (r *CartRepository) ListByUser(_ context.Context, userID string) ([]*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Cart{}
	for k, c := range r.s.carts {
		if k.userID == userID {
			out = append(out, cloneCart(c))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Cart) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return out, nil
}

func (r *CartRepository) Save(_ context.Context, c *entity.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := cartKey{c.UserID, c.StoreID}
	now := time.Now()
	if ex, ok := r.s.carts[k]; ok {
		c.ID, c.CreatedAt = ex.ID, ex.CreatedAt
	} else {
		c.ID, c.CreatedAt = uuid.NewString(), now
	}
	c.UpdatedAt = now
	r.s.carts[k] = cloneCart(c)
	return nil
}

func (r *CartRepository) Delete(_ context.Context, userID, storeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.carts, cartKey{userID, storeID})
	return nil
}

func (r *CartRepository) DeleteAll(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k := range r.s.carts {
		if k.userID == userID {
			delete(r.s.carts, k)
		}
	}
	return nil
}

var _ repository.CartRepository = (*CartRepository)(nil)
