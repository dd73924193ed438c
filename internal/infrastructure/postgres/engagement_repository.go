package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/repository"
)

type InterestRepository struct {
	pool *pgxpool.Pool
}

func NewInterestRepository(pool *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{pool: pool}
}

const interestColumns = `id, user_id, contractor_id, name, phone, email, job_type, preferred_date,
	message, seen_by_contractor, created_at`

func (r *InterestRepository) Create(ctx context.Context, i *entity.Interest) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO interests (user_id, contractor_id, name, phone, email, job_type, preferred_date, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, seen_by_contractor, created_at
	`, i.UserID, i.ContractorID, i.Name, i.Phone, i.Email, i.JobType, i.PreferredDate, i.Message)
	return mapErr(row.Scan(&i.ID, &i.SeenByContractor, &i.CreatedAt))
}

func (r *InterestRepository) list(ctx context.Context, where string, arg any) ([]*entity.Interest, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+interestColumns+` FROM interests WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*entity.Interest{}
	for rows.Next() {
		i := &entity.Interest{}
		if err := rows.Scan(&i.ID, &i.UserID, &i.ContractorID, &i.Name, &i.Phone, &i.Email, &i.JobType,
			&i.PreferredDate, &i.Message, &i.SeenByContractor, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *InterestRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Interest, error) {
	return r.list(ctx, "user_id = $1", userID)
}

func (r *InterestRepository) ListByContractor(ctx context.Context, contractorID string) ([]*entity.Interest, error) {
	return r.list(ctx, "contractor_id = $1", contractorID)
}

func (r *InterestRepository) CountUnseen(ctx context.Context, contractorID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM interests WHERE contractor_id = $1 AND NOT seen_by_contractor
	`, contractorID).Scan(&n)
	return n, err
}

func (r *InterestRepository) MarkSeen(ctx context.Context, contractorID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE interests SET seen_by_contractor = TRUE WHERE id = $1 AND contractor_id = $2
	`, id, contractorID)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *InterestRepository) MarkAllSeen(ctx context.Context, contractorID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE interests SET seen_by_contractor = TRUE WHERE contractor_id = $1 AND NOT seen_by_contractor
	`, contractorID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

var _ repository.InterestRepository = (*InterestRepository)(nil)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts the review and refreshes the store's rating aggregate in
// the same transaction.
func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `
			SELECT TRUE FROM accounts WHERE id = $1 AND role = 'store' FOR UPDATE
		`, rv.StoreID).Scan(&exists); err != nil {
			return mapErr(err)
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO reviews (store_id, user_id, user_name, rating, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, rv.StoreID, rv.UserID, rv.UserName, rv.Rating, rv.Comment).Scan(&rv.ID, &rv.CreatedAt); err != nil {
			return mapErr(err)
		}
		_, err := tx.Exec(ctx, `
			UPDATE accounts a
			SET store = COALESCE(a.store, '{}'::jsonb)
				|| jsonb_build_object('rating', agg.avg, 'reviewCount', agg.cnt),
				updated_at = NOW()
			FROM (SELECT AVG(rating)::float8 AS avg, COUNT(*) AS cnt FROM reviews WHERE store_id = $1) agg
			WHERE a.id = $1
		`, rv.StoreID)
		return err
	})
}

func (r *ReviewRepository) ListByStore(ctx context.Context, storeID string) ([]*entity.Review, error) {
	if !validID(storeID) {
		return []*entity.Review{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, store_id, user_id, user_name, rating, comment, created_at
		FROM reviews WHERE store_id = $1 ORDER BY created_at DESC
	`, storeID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Review, error) {
		rv := &entity.Review{}
		err := row.Scan(&rv.ID, &rv.StoreID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt)
		return rv, err
	})
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

type TestimonialRepository struct {
	pool *pgxpool.Pool
}

func NewTestimonialRepository(pool *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{pool: pool}
}

func (r *TestimonialRepository) Create(ctx context.Context, t *entity.Testimonial) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO testimonials (account_id, role, name, content, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.AccountID, t.Role, t.Name, t.Content, t.Rating)
	return mapErr(row.Scan(&t.ID, &t.CreatedAt))
}

func (r *TestimonialRepository) ListLatest(ctx context.Context, limit int) ([]*entity.Testimonial, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, role, name, content, rating, created_at
		FROM testimonials ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Testimonial, error) {
		t := &entity.Testimonial{}
		err := row.Scan(&t.ID, &t.AccountID, &t.Role, &t.Name, &t.Content, &t.Rating, &t.CreatedAt)
		return t, err
	})
}

var _ repository.TestimonialRepository = (*TestimonialRepository)(nil)
