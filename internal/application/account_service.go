package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
)

// AccountService manages the signed-in account's own profile for every role.
type AccountService struct {
	Accounts repo.AccountRepository
	Files    gateway.FileStore
	Logger   logrus.FieldLogger
}

// ProfileInput is a partial update; nil fields are left unchanged. Fields
// that do not apply to the account's role are ignored.
type ProfileInput struct {
	Name  *string
	Phone *string

	JobTypes   []string
	Experience *int
	City       *string
	Bio        *string

	StoreName *string
	GSTIN     *string
	Address   *string
}

func (s *AccountService) GetProfile(ctx context.Context, role entity.Role, id string) (*entity.Account, error) {
	a, err := s.Accounts.GetByID(ctx, role, id)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return a, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func (s *AccountService) UpdateProfile(ctx context.Context, role entity.Role, id string, in ProfileInput) (*entity.Account, error) {
	a, err := s.GetProfile(ctx, role, id)
	if err != nil {
		return nil, err
	}
	if n := trimmed(in.Name); n != nil && *n != "" {
		a.Name = *n
	}
	set(&a.Phone, trimmed(in.Phone))

	switch role {
	case entity.RoleContractor:
		if a.Contractor == nil {
			a.Contractor = &entity.ContractorProfile{}
		}
		if in.JobTypes != nil {
			a.Contractor.JobTypes = cleanList(in.JobTypes)
		}
		set(&a.Contractor.Experience, in.Experience)
		set(&a.Contractor.City, trimmed(in.City))
		set(&a.Contractor.Bio, trimmed(in.Bio))
	case entity.RoleStore:
		if a.Store == nil {
			a.Store = &entity.StoreProfile{}
		}
		if n := trimmed(in.StoreName); n != nil && *n != "" {
			a.Store.StoreName = *n
		}
		if g := trimmed(in.GSTIN); g != nil {
			a.Store.GSTIN = strings.ToUpper(*g)
		}
		set(&a.Store.Address, trimmed(in.Address))
		set(&a.Store.City, trimmed(in.City))
	}

	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return a, nil
}

// UploadAvatar stores the image and points the profile at it.
func (s *AccountService) UploadAvatar(ctx context.Context, role entity.Role, id string, f Upload) (*entity.Account, error) {
	a, err := s.GetProfile(ctx, role, id)
	if err != nil {
		return nil, err
	}
	urls, err := uploadAll(ctx, s.Files, folderAvatars, id, []Upload{f})
	if err != nil {
		return nil, err
	}
	a.AvatarURL = urls[0]
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	s.Logger.WithFields(logrus.Fields{"account_id": id, "role": role}).Info("avatar updated")
	return a, nil
}

func (s *AccountService) UpdateShipping(ctx context.Context, userID string, addr entity.Address) (*entity.Account, error) {
	a, err := s.GetProfile(ctx, entity.RoleUser, userID)
	if err != nil {
		return nil, err
	}
	a.ShippingAddress = &addr
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return a, nil
}

// SetAvailability toggles whether a contractor shows as taking new work.
func (s *AccountService) SetAvailability(ctx context.Context, contractorID string, available bool) (*entity.Account, error) {
	a, err := s.GetProfile(ctx, entity.RoleContractor, contractorID)
	if err != nil {
		return nil, err
	}
	if a.Contractor == nil {
		a.Contractor = &entity.ContractorProfile{}
	}
	a.Contractor.Available = available
	if err := s.Accounts.Update(ctx, a); err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}
	return a, nil
}
