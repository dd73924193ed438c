package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/domain/gateway"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/internal/infrastructure/redisstore"
	"github.com/oksasatya/servicemart/pkg/helpers"
	"github.com/oksasatya/servicemart/pkg/mailer"
	mailtpl "github.com/oksasatya/servicemart/pkg/mailer/templates"
)

type AuthService struct {
	Accounts repo.AccountRepository
	Pending  *redisstore.RegistrationStore
	Sessions *redisstore.SessionStore
	JWT      *helpers.JWTManager
	Mail     gateway.MailQueue
	Files    gateway.FileStore
	Brand    mailtpl.Brand
	Logger   logrus.FieldLogger
}

// Session is an issued login: the signed token for the cookie and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
	ID        string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type ContractorProfileInput struct {
	Email      string
	JobTypes   []string
	Experience int
	City       string
	Bio        string
}

type RegisterStoreInput struct {
	RegisterInput
	StoreName string
	GSTIN     string
	Address   string
	City      string
	Documents []Upload
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (s *AuthService) ensureEmailFree(ctx context.Context, role entity.Role, email string) error {
	_, err := s.Accounts.GetByEmail(ctx, role, email)
	if err == nil {
		return ErrEmailTaken
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	return err
}

func (s *AuthService) pendingFrom(ctx context.Context, role entity.Role, in RegisterInput) (*redisstore.PendingRegistration, error) {
	email := normEmail(in.Email)
	if err := s.ensureEmailFree(ctx, role, email); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &redisstore.PendingRegistration{
		Role:         role,
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Step:         1,
	}, nil
}

// sendCode stores a fresh OTP on p and queues the email carrying it.
func (s *AuthService) sendCode(ctx context.Context, p *redisstore.PendingRegistration) error {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return err
	}
	p.OTP = code
	p.Attempts = 0
	if err := s.Pending.Save(ctx, p); err != nil {
		return err
	}
	if _, err := s.Pending.AllowResend(ctx, p.Role, p.Email); err != nil {
		s.Logger.WithError(err).Warn("start otp resend window failed")
	}
	enqueueMail(ctx, s.Mail, s.Logger, mailer.EmailJob{
		To:       p.Email,
		Template: mailtpl.RegistrationOTP,
		Data:     s.Brand.RegistrationOTP(p.Name, p.Email, string(p.Role), code, s.Pending.TTL()),
	})
	return nil
}

// RegisterUser holds the registration in Redis and emails an OTP. The account
// is only created by VerifyOTP.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) error {
	p, err := s.pendingFrom(ctx, entity.RoleUser, in)
	if err != nil {
		return err
	}
	p.Step = 2
	return s.sendCode(ctx, p)
}

// RegisterContractorStep1 keeps the contractor basics until step two.
func (s *AuthService) RegisterContractorStep1(ctx context.Context, in RegisterInput) error {
	p, err := s.pendingFrom(ctx, entity.RoleContractor, in)
	if err != nil {
		return err
	}
	return s.Pending.Save(ctx, p)
}

func (s *AuthService) RegisterContractorStep2(ctx context.Context, in ContractorProfileInput) error {
	p, err := s.Pending.Get(ctx, entity.RoleContractor, normEmail(in.Email))
	if errors.Is(err, redisstore.ErrPendingNotFound) {
		return ErrRegistrationExpired
	}
	if err != nil {
		return err
	}
	p.Contractor = &entity.ContractorProfile{
		JobTypes:   cleanList(in.JobTypes),
		Experience: in.Experience,
		City:       strings.TrimSpace(in.City),
		Bio:        strings.TrimSpace(in.Bio),
		Available:  true,
	}
	p.Step = 2
	return s.sendCode(ctx, p)
}

// ResendOTP issues a new code while the pending registration is alive.
func (s *AuthService) ResendOTP(ctx context.Context, role entity.Role, email string) error {
	p, err := s.Pending.Get(ctx, role, normEmail(email))
	if errors.Is(err, redisstore.ErrPendingNotFound) || (err == nil && p.Step < 2) {
		return ErrRegistrationExpired
	}
	if err != nil {
		return err
	}
	ok, err := s.Pending.AllowResend(ctx, role, p.Email)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResendThrottled
	}
	return s.sendCode(ctx, p)
}

// VerifyOTP creates the account for a pending registration. Users are
// approved and signed in straight away; contractors wait for approval and
// get no session.
func (s *AuthService) VerifyOTP(ctx context.Context, role entity.Role, email, code string) (*entity.Account, *Session, error) {
	email = normEmail(email)
	p, err := s.Pending.Verify(ctx, role, email, strings.TrimSpace(code))
	if errors.Is(err, redisstore.ErrPendingNotFound) || errors.Is(err, redisstore.ErrOTPMismatch) {
		return nil, nil, ErrInvalidOTP
	}
	if err != nil {
		return nil, nil, err
	}
	if p.Step < 2 {
		return nil, nil, ErrInvalidOTP
	}

	a := &entity.Account{
		Role:           role,
		Email:          p.Email,
		Password:       p.PasswordHash,
		Name:           p.Name,
		Phone:          p.Phone,
		ApprovalStatus: entity.ApprovalApproved,
	}
	if role == entity.RoleContractor {
		a.ApprovalStatus = entity.ApprovalPending
		a.Contractor = p.Contractor
		if a.Contractor == nil {
			a.Contractor = &entity.ContractorProfile{Available: true}
		}
	}
	if err := s.Accounts.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}
	s.Logger.WithFields(logrus.Fields{"account_id": a.ID, "role": role}).Info("account registered")

	if !a.Approved() {
		return a, nil, nil
	}
	sess, err := s.IssueSession(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	return a, sess, nil
}

// RegisterStore uploads the verification documents and creates the store
// account awaiting approval.
func (s *AuthService) RegisterStore(ctx context.Context, in RegisterStoreInput) (*entity.Account, error) {
	if len(in.Documents) < 1 || len(in.Documents) > 5 {
		return nil, ErrInvalidDocuments
	}
	email := normEmail(in.Email)
	if err := s.ensureEmailFree(ctx, entity.RoleStore, email); err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	docs, err := uploadAll(ctx, s.Files, folderDocuments, email, in.Documents)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{
		Role:           entity.RoleStore,
		Email:          email,
		Password:       hash,
		Name:           strings.TrimSpace(in.Name),
		Phone:          strings.TrimSpace(in.Phone),
		ApprovalStatus: entity.ApprovalPending,
		Store: &entity.StoreProfile{
			StoreName: strings.TrimSpace(in.StoreName),
			GSTIN:     strings.ToUpper(strings.TrimSpace(in.GSTIN)),
			Address:   strings.TrimSpace(in.Address),
			City:      strings.TrimSpace(in.City),
			Documents: docs,
		},
	}
	if err := s.Accounts.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"account_id": a.ID, "documents": len(docs)}).Info("store registered")
	return a, nil
}

// Authenticate checks credentials and the account gates without issuing a
// session.
func (s *AuthService) Authenticate(ctx context.Context, role entity.Role, email, password string) (*entity.Account, error) {
	a, err := s.Accounts.GetByEmail(ctx, role, normEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(a.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if a.Blocked {
		return nil, ErrAccountBlocked
	}
	if !a.Approved() {
		return nil, &NotApprovedError{Status: a.ApprovalStatus}
	}
	return a, nil
}

func (s *AuthService) Login(ctx context.Context, role entity.Role, email, password string) (*entity.Account, *Session, error) {
	a, err := s.Authenticate(ctx, role, email, password)
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.IssueSession(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	return a, sess, nil
}

// IssueSession signs a token and records its session id in Redis.
func (s *AuthService) IssueSession(ctx context.Context, a *entity.Account) (*Session, error) {
	sid := uuid.NewString()
	token, exp, err := s.JWT.Generate(a.ID, string(a.Role), sid)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate session token failed")
		return nil, err
	}
	if s.Sessions != nil {
		if err := s.Sessions.Create(ctx, sid, a.ID, a.Role, s.JWT.TTL); err != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("record session failed")
			return nil, err
		}
	}
	return &Session{Token: token, ExpiresAt: exp, ID: sid}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions.Delete(ctx, sessionID)
}

func (s *AuthService) ChangePassword(ctx context.Context, role entity.Role, id, current, next string) error {
	a, err := s.Accounts.GetByID(ctx, role, id)
	if err != nil {
		return notFound(err, ErrAccountNotFound)
	}
	if !helpers.CompareHashAndPassword(a.Password, current) {
		return ErrWrongPassword
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return err
	}
	return notFound(s.Accounts.UpdatePassword(ctx, id, hash), ErrAccountNotFound)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		k := strings.ToLower(v)
		if v == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
