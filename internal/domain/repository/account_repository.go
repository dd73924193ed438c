package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/servicemart/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// ContractorFilter narrows the public contractor listing. Only approved,
// unblocked contractors are ever returned.
type ContractorFilter struct {
	JobType       string
	City          string
	Search        string
	AvailableOnly bool
	Page          int
	Limit         int
}

// AccountRepository defines persistence for all account roles.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, role entity.Role, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, role entity.Role, email string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetApproval(ctx context.Context, role entity.Role, email string, status entity.ApprovalStatus) error
	ListContractors(ctx context.Context, f ContractorFilter) ([]*entity.Account, int, error)
}

// ProjectRepository stores contractor portfolio projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	Update(ctx context.Context, p *entity.Project) error
	Delete(ctx context.Context, contractorID, id string) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	ListByContractor(ctx context.Context, contractorID string) ([]*entity.Project, error)
}

type JobTypeRepository interface {
	List(ctx context.Context) ([]entity.JobType, error)
	Upsert(ctx context.Context, name string) (entity.JobType, error)
}
