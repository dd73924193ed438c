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

type AccountRepository struct{ s *Store }

func (r *AccountRepository) Create(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.accounts {
		if ex.Role == a.Role && strings.EqualFold(ex.Email, a.Email) {
			return repository.ErrDuplicate
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, role entity.Role, id string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok || (role != "" && a.Role != role) {
		return nil, repository.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, role entity.Role, email string) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Role == role && strings.EqualFold(a.Email, email) {
			return cloneAccount(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) Update(_ context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; !ok {
		return repository.ErrNotFound
	}
	a.UpdatedAt = time.Now()
	r.s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *AccountRepository) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Password = hash
	a.UpdatedAt = time.Now()
	return nil
}

func (r *AccountRepository) SetApproval(_ context.Context, role entity.Role, email string, status entity.ApprovalStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Role == role && strings.EqualFold(a.Email, email) {
			a.ApprovalStatus = status
			a.UpdatedAt = time.Now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *AccountRepository) ListContractors(_ context.Context, f repository.ContractorFilter) ([]*entity.Account, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Account
	for _, a := range r.s.accounts {
		if a.Role != entity.RoleContractor || a.Blocked || a.ApprovalStatus != entity.ApprovalApproved || a.Contractor == nil {
			continue
		}
		p := a.Contractor
		if f.JobType != "" && !slices.ContainsFunc(p.JobTypes, func(j string) bool { return strings.EqualFold(j, f.JobType) }) {
			continue
		}
		if f.City != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(f.City)) {
			continue
		}
		if f.AvailableOnly && !p.Available {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Name), search) && !strings.Contains(strings.ToLower(p.Bio), search) {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	slices.SortFunc(out, func(a, b *entity.Account) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(out, f.Page, f.Limit), len(out), nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

type ProjectRepository struct{ s *Store }

func (r *ProjectRepository) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.NewString()
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *ProjectRepository) Update(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, ok := r.s.projects[p.ID]
	if !ok || ex.ContractorID != p.ContractorID {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.s.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *ProjectRepository) Delete(_ context.Context, contractorID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ex, ok := r.s.projects[id]
	if !ok || ex.ContractorID != contractorID {
		return repository.ErrNotFound
	}
	delete(r.s.projects, id)
	return nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *ProjectRepository) ListByContractor(_ context.Context, contractorID string) ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Project{}
	for _, p := range r.s.projects {
		if p.ContractorID == contractorID {
			out = append(out, cloneProject(p))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Project) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

type JobTypeRepository struct{ s *Store }

func (r *JobTypeRepository) List(_ context.Context) ([]entity.JobType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.JobType, 0, len(r.s.jobTypes))
	for _, j := range r.s.jobTypes {
		out = append(out, j)
	}
	slices.SortFunc(out, func(a, b entity.JobType) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *JobTypeRepository) Upsert(_ context.Context, name string) (entity.JobType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := strings.ToLower(name)
	if j, ok := r.s.jobTypes[key]; ok {
		return j, nil
	}
	j := entity.JobType{ID: uuid.NewString(), Name: name}
	r.s.jobTypes[key] = j
	return j, nil
}

var _ repository.JobTypeRepository = (*JobTypeRepository)(nil)
