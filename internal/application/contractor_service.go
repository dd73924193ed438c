package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
)

type ContractorService struct {
	Accounts repo.AccountRepository
	Projects repo.ProjectRepository
	JobTypes repo.JobTypeRepository
	Files    gateway.FileStore
	Logger   logrus.FieldLogger
}

type ContractorPage struct {
	Contractors []*entity.Account `json:"contractors"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	Total       int               `json:"total"`
}

type ContractorDetail struct {
	Contractor *entity.Account   `json:"contractor"`
	Projects   []*entity.Project `json:"projects"`
}

type ProjectInput struct {
	Title       string
	Description string
	Location    string
	CompletedAt *time.Time
	// Keep lists already uploaded image URLs to retain on update.
	Keep []string
}

// List returns approved, unblocked contractors matching f.
func (s *ContractorService) List(ctx context.Context, f repo.ContractorFilter) (*ContractorPage, error) {
	f.Page, f.Limit = normalizePage(f.Page, f.Limit, 12, 50)
	items, total, err := s.Accounts.ListContractors(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Account{}
	}
	return &ContractorPage{Contractors: items, CurrentPage: f.Page, TotalPages: totalPages(total, f.Limit), Total: total}, nil
}

// Detail is the public contractor page. Unapproved or blocked contractors
// are not visible.
func (s *ContractorService) Detail(ctx context.Context, id string) (*ContractorDetail, error) {
	a, err := s.Accounts.GetByID(ctx, entity.RoleContractor, id)
	if err != nil {
		return nil, notFound(err, ErrContractorNotFound)
	}
	if a.Blocked || a.ApprovalStatus != entity.ApprovalApproved {
		return nil, ErrContractorNotFound
	}
	projects, err := s.Projects.ListByContractor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContractorDetail{Contractor: a, Projects: projects}, nil
}

func (s *ContractorService) ListProjects(ctx context.Context, contractorID string) ([]*entity.Project, error) {
	return s.Projects.ListByContractor(ctx, contractorID)
}

func (s *ContractorService) CreateProject(ctx context.Context, contractorID string, in ProjectInput, images []Upload) (*entity.Project, error) {
	urls, err := uploadAll(ctx, s.Files, folderProjects, contractorID, images)
	if err != nil {
		return nil, err
	}
	p := &entity.Project{
		ContractorID: contractorID,
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Location:     strings.TrimSpace(in.Location),
		CompletedAt:  in.CompletedAt,
		Images:       append([]string{}, urls...),
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProject replaces the project fields. Images become Keep plus any new
// uploads.
func (s *ContractorService) UpdateProject(ctx context.Context, contractorID, id string, in ProjectInput, images []Upload) (*entity.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	if p.ContractorID != contractorID {
		return nil, ErrProjectNotFound
	}
	urls, err := uploadAll(ctx, s.Files, folderProjects, contractorID, images)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		p.Title = t
	}
	p.Description = strings.TrimSpace(in.Description)
	p.Location = strings.TrimSpace(in.Location)
	p.CompletedAt = in.CompletedAt
	p.Images = append(keepImages(p.Images, in.Keep), urls...)
	if err := s.Projects.Update(ctx, p); err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return p, nil
}

func (s *ContractorService) DeleteProject(ctx context.Context, contractorID, id string) error {
	return notFound(s.Projects.Delete(ctx, contractorID, id), ErrProjectNotFound)
}

func (s *ContractorService) ListJobTypes(ctx context.Context) ([]entity.JobType, error) {
	return s.JobTypes.List(ctx)
}
