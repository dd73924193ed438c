package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/pkg/mailer"
	mailtpl "github.com/oksasatya/servicemart/pkg/mailer/templates"
)

// InterestService carries a user's request to a contractor and the
// contractor's notification inbox.
type InterestService struct {
	Accounts  repo.AccountRepository
	Interests repo.InterestRepository
	Mail      gateway.MailQueue
	Brand     mailtpl.Brand
	Logger    logrus.FieldLogger
}

type InterestInput struct {
	ContractorID  string
	Name          string
	Phone         string
	Email         string
	JobType       string
	PreferredDate string
	Message       string
}

func (s *InterestService) Submit(ctx context.Context, userID string, in InterestInput) (*entity.Interest, error) {
	c, err := s.Accounts.GetByID(ctx, entity.RoleContractor, in.ContractorID)
	if err != nil {
		return nil, notFound(err, ErrContractorNotFound)
	}
	if c.Blocked || c.ApprovalStatus != entity.ApprovalApproved {
		return nil, ErrContractorNotFound
	}
	u, err := s.Accounts.GetByID(ctx, entity.RoleUser, userID)
	if err != nil {
		return nil, notFound(err, ErrAccountNotFound)
	}

	i := &entity.Interest{
		UserID:        userID,
		ContractorID:  c.ID,
		Name:          firstNonEmpty(in.Name, u.Name),
		Phone:         firstNonEmpty(in.Phone, u.Phone),
		Email:         firstNonEmpty(normEmail(in.Email), u.Email),
		JobType:       strings.TrimSpace(in.JobType),
		PreferredDate: strings.TrimSpace(in.PreferredDate),
		Message:       strings.TrimSpace(in.Message),
	}
	if err := s.Interests.Create(ctx, i); err != nil {
		return nil, err
	}

	enqueueMail(ctx, s.Mail, s.Logger, mailer.EmailJob{
		To:       c.Email,
		Template: mailtpl.InterestReceived,
		Data: s.Brand.InterestReceived(c.Name, c.Email, i.Name, i.Phone, i.Email,
			i.JobType, i.PreferredDate, i.Message),
	})
	s.Logger.WithFields(logrus.Fields{"interest_id": i.ID, "contractor_id": c.ID}).Info("interest submitted")
	return i, nil
}

func (s *InterestService) ListMine(ctx context.Context, userID string) ([]*entity.Interest, error) {
	return s.Interests.ListByUser(ctx, userID)
}

func (s *InterestService) Notifications(ctx context.Context, contractorID string) ([]*entity.Interest, error) {
	return s.Interests.ListByContractor(ctx, contractorID)
}

func (s *InterestService) UnseenCount(ctx context.Context, contractorID string) (int, error) {
	return s.Interests.CountUnseen(ctx, contractorID)
}

func (s *InterestService) MarkSeen(ctx context.Context, contractorID, id string) error {
	return notFound(s.Interests.MarkSeen(ctx, contractorID, id), ErrInterestNotFound)
}

func (s *InterestService) MarkAllSeen(ctx context.Context, contractorID string) (int, error) {
	return s.Interests.MarkAllSeen(ctx, contractorID)
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
