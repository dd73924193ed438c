package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/repository"
)

type OrderRepository struct{ s *Store }

// Place works on product copies and only writes them back once every draft
// has been priced, which gives the same all-or-nothing result as the SQL
// transaction.
func (r *OrderRepository) Place(_ context.Context, userID string, drafts []entity.OrderDraft) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	touched := map[string]*entity.Product{}
	orders := make([]*entity.Order, 0, len(drafts))
	for _, d := range drafts {
		snapshot := map[string]*entity.Product{}
		for _, it := range d.Items {
			if p, ok := touched[it.ProductID]; ok {
				snapshot[it.ProductID] = p
				continue
			}
			if p, ok := r.s.products[it.ProductID]; ok {
				cp := cloneProduct(p)
				touched[it.ProductID] = cp
				snapshot[it.ProductID] = cp
			}
		}
		o, err := entity.BuildOrder(userID, d, snapshot)
		if err != nil {
			return nil, err
		}
		for _, it := range o.Items {
			snapshot[it.ProductID].Stock -= it.Quantity
		}
		orders = append(orders, o)
	}

	now := time.Now()
	for id, p := range touched {
		p.UpdatedAt = now
		r.s.products[id] = p
	}
	for _, o := range orders {
		o.ID = uuid.NewString()
		o.CreatedAt, o.UpdatedAt = now, now
		r.s.orders[o.ID] = cloneOrder(o)
		r.trimCart(o, now)
	}
	return orders, nil
}

// trimCart removes the ordered products from the matching cart, deleting
// it once empty. Caller holds the lock.
func (r *OrderRepository) trimCart(o *entity.Order, now time.Time) {
	k := cartKey{o.UserID, o.StoreID}
	stored, ok := r.s.carts[k]
	if !ok {
		return
	}
	c := cloneCart(stored)
	for _, it := range o.Items {
		c.Remove(it.ProductID)
	}
	if c.Empty() {
		delete(r.s.carts, k)
		return
	}
	c.UpdatedAt = now
	r.s.carts[k] = c
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) list(match func(*entity.Order) bool) []*entity.Order {
	out := []*entity.Order{}
	for _, o := range r.s.orders {
		if match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(o *entity.Order) bool { return o.UserID == userID }), nil
}

func (r *OrderRepository) ListByStore(_ context.Context, storeID string, status entity.OrderStatus) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(o *entity.Order) bool {
		return o.StoreID == storeID && (status == "" || o.Status == status)
	}), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, storeID, id string, next entity.OrderStatus) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.StoreID != storeID {
		return nil, repository.ErrNotFound
	}
	updated := cloneOrder(o)
	if err := updated.Transition(next); err != nil {
		return nil, err
	}
	if next == entity.OrderCancelled {
		for _, it := range updated.Items {
			if p, ok := r.s.products[it.ProductID]; ok {
				p.Stock += it.Quantity
			}
		}
	}
	updated.UpdatedAt = time.Now()
	r.s.orders[id] = updated
	return cloneOrder(updated), nil
}

func (r *OrderRepository) SetPaymentSession(_ context.Context, userID string, ids []string, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		o, ok := r.s.orders[id]
		if !ok || o.UserID != userID {
			return repository.ErrNotFound
		}
	}
	for _, id := range ids {
		r.s.orders[id].PaymentSessionID = sessionID
	}
	return nil
}

func (r *OrderRepository) ListByPaymentSession(_ context.Context, sessionID string) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(o *entity.Order) bool { return sessionID != "" && o.PaymentSessionID == sessionID }), nil
}

func (r *OrderRepository) MarkPaid(_ context.Context, sessionID string) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for _, o := range r.s.orders {
		if sessionID == "" || o.PaymentSessionID != sessionID || o.PaymentStatus == entity.PaymentPaid {
			continue
		}
		o.PaymentStatus = entity.PaymentPaid
		if o.Status == entity.OrderPending {
			o.Status = entity.OrderProcessing
		}
		o.UpdatedAt = now
	}
	return r.list(func(o *entity.Order) bool { return sessionID != "" && o.PaymentSessionID == sessionID }), nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
