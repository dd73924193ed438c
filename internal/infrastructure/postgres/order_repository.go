package postgres

import (
	"context"
	"errors"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/repository"
)

const orderColumns = `id, user_id, store_id, items, subtotal, total_amount, shipping_address,
	payment_method, payment_status, status, payment_session_id, created_at, updated_at`

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	o := &entity.Order{}
	if err := row.Scan(&o.ID, &o.UserID, &o.StoreID, &o.Items, &o.Subtotal, &o.TotalAmount,
		&o.ShippingAddress, &o.PaymentMethod, &o.PaymentStatus, &o.Status, &o.PaymentSessionID,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return o, nil
}

func collectOrders(rows pgx.Rows, err error) ([]*entity.Order, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// lockProducts selects the given products FOR UPDATE. Ids are locked in
// sorted order so concurrent checkouts cannot deadlock on each other.
func lockProducts(ctx context.Context, q querier, ids []string) (map[string]*entity.Product, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	rows, err := q.Query(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE
	`, sorted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]*entity.Product, len(sorted))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *OrderRepository) Place(ctx context.Context, userID string, drafts []entity.OrderDraft) ([]*entity.Order, error) {
	var ids []string
	for _, d := range drafts {
		for _, it := range d.Items {
			ids = append(ids, it.ProductID)
		}
	}

	var orders []*entity.Order
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		products, err := lockProducts(ctx, tx, ids)
		if err != nil {
			return err
		}
		orders = make([]*entity.Order, 0, len(drafts))
		for _, d := range drafts {
			o, err := entity.BuildOrder(userID, d, products)
			if err != nil {
				return err
			}
			for _, it := range o.Items {
				products[it.ProductID].Stock -= it.Quantity
				if _, err := tx.Exec(ctx, `
					UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2
				`, it.Quantity, it.ProductID); err != nil {
					return err
				}
			}
			if err := tx.QueryRow(ctx, `
				INSERT INTO orders (user_id, store_id, items, subtotal, total_amount, shipping_address,
					payment_method, payment_status, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id, created_at, updated_at
			`, o.UserID, o.StoreID, o.Items, o.Subtotal, o.TotalAmount, o.ShippingAddress,
				o.PaymentMethod, o.PaymentStatus, o.Status).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
				return err
			}
			if err := trimCart(ctx, tx, o); err != nil {
				return err
			}
			orders = append(orders, o)
		}
		return nil
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return orders, nil
}

// trimCart drops the ordered products from the user's cart for the order's
// store. Lines that were not ordered stay; an emptied cart is deleted.
func trimCart(ctx context.Context, tx pgx.Tx, o *entity.Order) error {
	c, err := scanCart(tx.QueryRow(ctx, `
		SELECT `+cartColumns+` FROM carts WHERE user_id = $1 AND store_id = $2 FOR UPDATE
	`, o.UserID, o.StoreID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		c.Remove(it.ProductID)
	}
	if c.Empty() {
		_, err = tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, c.ID)
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE carts SET items = $1, total_price = $2, total_savings = $3, updated_at = NOW() WHERE id = $4
	`, c.Items, c.TotalPrice, c.TotalSavings, c.ID)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	return collectOrders(r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID))
}

func (r *OrderRepository) ListByStore(ctx context.Context, storeID string, status entity.OrderStatus) ([]*entity.Order, error) {
	return collectOrders(r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE store_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`, storeID, string(status)))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, storeID, id string, next entity.OrderStatus) (*entity.Order, error) {
	var out *entity.Order
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		o, err := scanOrder(tx.QueryRow(ctx, `
			SELECT `+orderColumns+` FROM orders WHERE id = $1 AND store_id = $2 FOR UPDATE
		`, id, storeID))
		if err != nil {
			return err
		}
		if err := o.Transition(next); err != nil {
			return err
		}
		if next == entity.OrderCancelled {
			for _, it := range o.Items {
				if _, err := tx.Exec(ctx, `
					UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2
				`, it.Quantity, it.ProductID); err != nil {
					return err
				}
			}
		}
		if err := tx.QueryRow(ctx, `
			UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at
		`, o.Status, o.ID).Scan(&o.UpdatedAt); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (r *OrderRepository) SetPaymentSession(ctx context.Context, userID string, ids []string, sessionID string) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders SET payment_session_id = $1, updated_at = NOW()
			WHERE id = ANY($2::uuid[]) AND user_id = $3
		`, sessionID, ids, userID)
		if err != nil {
			return mapErr(err)
		}
		if int(tag.RowsAffected()) != len(ids) {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *OrderRepository) ListByPaymentSession(ctx context.Context, sessionID string) ([]*entity.Order, error) {
	return collectOrders(r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE payment_session_id = $1 AND $1 <> '' ORDER BY created_at DESC
	`, sessionID))
}

func (r *OrderRepository) MarkPaid(ctx context.Context, sessionID string) ([]*entity.Order, error) {
	if _, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET payment_status = 'paid',
			status = CASE WHEN status = 'pending' THEN 'processing' ELSE status END,
			updated_at = NOW()
		WHERE payment_session_id = $1 AND $1 <> '' AND payment_status <> 'paid'
	`, sessionID); err != nil {
		return nil, err
	}
	return r.ListByPaymentSession(ctx, sessionID)
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
