package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/repository"
)

const productColumns = `id, store_id, name, description, category, grade, brand, unit,
	base_price, stock, bulk_pricing, images, created_at, updated_at`

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	if err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Category, &p.Grade, &p.Brand,
		&p.Unit, &p.BasePrice, &p.Stock, &p.BulkPricing, &p.Images, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func normalizeProduct(p *entity.Product) {
	if p.BulkPricing == nil {
		p.BulkPricing = []entity.BulkTier{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	normalizeProduct(p)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (store_id, name, description, category, grade, brand, unit,
			base_price, stock, bulk_pricing, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, p.StoreID, p.Name, p.Description, p.Category, p.Grade, p.Brand, p.Unit,
		p.BasePrice, p.Stock, p.BulkPricing, p.Images)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	normalizeProduct(p)
	p.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, grade = $4, brand = $5, unit = $6,
			base_price = $7, stock = $8, bulk_pricing = $9, images = $10, updated_at = $11
		WHERE id = $12 AND store_id = $13
	`, p.Name, p.Description, p.Category, p.Grade, p.Brand, p.Unit,
		p.BasePrice, p.Stock, p.BulkPricing, p.Images, p.UpdatedAt, p.ID, p.StoreID)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *ProductRepository) Delete(ctx context.Context, storeID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	if f.StoreID != "" && !validID(f.StoreID) {
		return []*entity.Product{}, 0, nil
	}
	where := []string{"TRUE"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.IDs != nil {
		where = append(where, fmt.Sprintf("id = ANY(%s::uuid[])", arg(f.IDs)))
	}
	if f.StoreID != "" {
		where = append(where, fmt.Sprintf("store_id = %s", arg(f.StoreID)))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s OR category ILIKE %s)", p, p, p))
	}
	if f.MinPrice != nil {
		where = append(where, fmt.Sprintf("base_price >= %s", arg(*f.MinPrice)))
	}
	if f.MaxPrice != nil {
		where = append(where, fmt.Sprintf("base_price <= %s", arg(*f.MaxPrice)))
	}
	switch f.Availability {
	case repository.AvailabilityInStock:
		where = append(where, "stock > 0")
	case repository.AvailabilityOutOfStock:
		where = append(where, "stock = 0")
	}
	if len(f.Categories) > 0 {
		lower := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			lower[i] = strings.ToLower(c)
		}
		where = append(where, fmt.Sprintf("lower(category) = ANY(%s)", arg(lower)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := `SELECT ` + productColumns + ` FROM products WHERE ` + cond + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(f.Limit), arg(offset(f.Page, f.Limit)))
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

const cartColumns = `id, user_id, store_id, items, total_price, total_savings, created_at, updated_at`

func scanCart(row pgx.Row) (*entity.Cart, error) {
	c := &entity.Cart{}
	if err := row.Scan(&c.ID, &c.UserID, &c.StoreID, &c.Items, &c.TotalPrice, &c.TotalSavings,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	if c.Items == nil {
		c.Items = []entity.CartItem{}
	}
	return c, nil
}

func (r *CartRepository) Get(ctx context.Context, userID, storeID string) (*entity.Cart, error) {
	return scanCart(r.pool.QueryRow(ctx, `
		SELECT `+cartColumns+` FROM carts WHERE user_id = $1 AND store_id = $2
	`, userID, storeID))
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Cart, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cartColumns+` FROM carts WHERE user_id = $1 ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*entity.Cart{}
	for rows.Next() {
		c, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CartRepository) Save(ctx context.Context, c *entity.Cart) error {
	if c.Items == nil {
		c.Items = []entity.CartItem{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO carts (user_id, store_id, items, total_price, total_savings)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, store_id) DO UPDATE
		SET items = EXCLUDED.items, total_price = EXCLUDED.total_price,
			total_savings = EXCLUDED.total_savings, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, c.UserID, c.StoreID, c.Items, c.TotalPrice, c.TotalSavings)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *CartRepository) Delete(ctx context.Context, userID, storeID string) error {
	if !validID(storeID) {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1 AND store_id = $2`, userID, storeID)
	return err
}

func (r *CartRepository) DeleteAll(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}

var _ repository.CartRepository = (*CartRepository)(nil)
