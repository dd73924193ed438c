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

const accountColumns = `id, role, email, password_hash, name, phone, avatar_url, blocked,
	approval_status, shipping_address, contractor, store, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	if err := row.Scan(&a.ID, &a.Role, &a.Email, &a.Password, &a.Name, &a.Phone, &a.AvatarURL,
		&a.Blocked, &a.ApprovalStatus, &a.ShippingAddress, &a.Contractor, &a.Store,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (role, email, password_hash, name, phone, avatar_url, blocked,
			approval_status, shipping_address, contractor, store)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, a.Role, strings.ToLower(a.Email), a.Password, a.Name, a.Phone, a.AvatarURL, a.Blocked,
		a.ApprovalStatus, a.ShippingAddress, a.Contractor, a.Store)
	return mapErr(row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt))
}

func (r *AccountRepository) GetByID(ctx context.Context, role entity.Role, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1 AND ($2 = '' OR role = $2)
	`, id, string(role)))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, role entity.Role, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE role = $1 AND lower(email) = lower($2)
	`, role, email))
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET name = $1, phone = $2, avatar_url = $3, blocked = $4, approval_status = $5,
			shipping_address = $6, contractor = $7, store = $8, updated_at = $9
		WHERE id = $10
	`, a.Name, a.Phone, a.AvatarURL, a.Blocked, a.ApprovalStatus,
		a.ShippingAddress, a.Contractor, a.Store, a.UpdatedAt, a.ID)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *AccountRepository) SetApproval(ctx context.Context, role entity.Role, email string, status entity.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET approval_status = $1, updated_at = NOW()
		WHERE role = $2 AND lower(email) = lower($3)
	`, status, role, email)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *AccountRepository) ListContractors(ctx context.Context, f repository.ContractorFilter) ([]*entity.Account, int, error) {
	where := []string{"role = 'contractor'", "approval_status = 'Approved'", "NOT blocked", "contractor IS NOT NULL"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.JobType != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(contractor->'jobTypes') j WHERE lower(j) = lower(%s))", arg(f.JobType)))
	}
	if f.City != "" {
		where = append(where, fmt.Sprintf("contractor->>'city' ILIKE %s", arg("%"+f.City+"%")))
	}
	if f.AvailableOnly {
		where = append(where, "(contractor->>'available')::boolean")
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR contractor->>'bio' ILIKE %s)", p, p))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + cond + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(f.Limit), arg(offset(f.Page, f.Limit)))
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []*entity.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectColumns = `id, contractor_id, title, description, location, images, completed_at, created_at, updated_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	p := &entity.Project{}
	if err := row.Scan(&p.ID, &p.ContractorID, &p.Title, &p.Description, &p.Location, &p.Images,
		&p.CompletedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	if p.Images == nil {
		p.Images = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (contractor_id, title, description, location, images, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.ContractorID, p.Title, p.Description, p.Location, p.Images, p.CompletedAt)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project) error {
	if p.Images == nil {
		p.Images = []string{}
	}
	p.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects
		SET title = $1, description = $2, location = $3, images = $4, completed_at = $5, updated_at = $6
		WHERE id = $7 AND contractor_id = $8
	`, p.Title, p.Description, p.Location, p.Images, p.CompletedAt, p.UpdatedAt, p.ID, p.ContractorID)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *ProjectRepository) Delete(ctx context.Context, contractorID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND contractor_id = $2`, id, contractorID)
	if err != nil {
		return mapErr(err)
	}
	return affected(tag)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
}

func (r *ProjectRepository) ListByContractor(ctx context.Context, contractorID string) ([]*entity.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE contractor_id = $1 ORDER BY created_at DESC
	`, contractorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*entity.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

type JobTypeRepository struct {
	pool *pgxpool.Pool
}

func NewJobTypeRepository(pool *pgxpool.Pool) *JobTypeRepository {
	return &JobTypeRepository{pool: pool}
}

func (r *JobTypeRepository) List(ctx context.Context) ([]entity.JobType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM job_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.JobType, error) {
		var j entity.JobType
		err := row.Scan(&j.ID, &j.Name)
		return j, err
	})
}

func (r *JobTypeRepository) Upsert(ctx context.Context, name string) (entity.JobType, error) {
	j := entity.JobType{Name: name}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO job_types (name) VALUES ($1)
		ON CONFLICT (lower(name)) DO UPDATE SET name = job_types.name
		RETURNING id, name
	`, name).Scan(&j.ID, &j.Name)
	return j, mapErr(err)
}

var _ repository.JobTypeRepository = (*JobTypeRepository)(nil)
