// Package postgres implements the domain repositories on PostgreSQL through
// pgx. Money columns are NUMERIC and are scanned straight into
// decimal.Decimal; nested value objects live in JSONB columns.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/servicemart/internal/domain/repository"
)

const (
	uniqueViolation = "23505"
	// invalidText is raised when a malformed id is cast to UUID.
	invalidText = "22P02"
)

func NewPool(ctx context.Context, dsn string, maxConns, minConns int32, maxConnLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLife
	cfg.HealthCheckPeriod = time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return repository.ErrDuplicate
		case invalidText:
			return repository.ErrNotFound
		}
	}
	return err
}

// validID reports whether id can match a UUID column. Lists and deletes
// use it to treat a malformed id as matching nothing.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func affected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// inTx runs fn inside a transaction, rolling back on any error.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// NewSet wires every PostgreSQL repository onto pool.
func NewSet(pool *pgxpool.Pool) repository.Set {
	return repository.Set{
		Accounts:     NewAccountRepository(pool),
		Projects:     NewProjectRepository(pool),
		JobTypes:     NewJobTypeRepository(pool),
		Products:     NewProductRepository(pool),
		Carts:        NewCartRepository(pool),
		Orders:       NewOrderRepository(pool),
		Interests:    NewInterestRepository(pool),
		Reviews:      NewReviewRepository(pool),
		Testimonials: NewTestimonialRepository(pool),
	}
}
