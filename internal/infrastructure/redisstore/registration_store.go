// Package redisstore keeps short-lived auth state in Redis: pending
// registrations with their OTP, resend throttles and login sessions.
package redisstore

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/pkg/helpers"
)

// MaxOTPAttempts bounds wrong guesses before the pending record is dropped.
const MaxOTPAttempts = 5

var (
	ErrPendingNotFound = errors.New("pending registration not found")
	ErrOTPMismatch     = errors.New("otp mismatch")
)

// PendingRegistration is the TempUser held between registration and OTP
// verification. Step tracks the contractor flow: 1 after the basics, 2 once
// the profile is complete and a code was sent.
type PendingRegistration struct {
	Role         entity.Role               `json:"role"`
	Email        string                    `json:"email"`
	Name         string                    `json:"name"`
	Phone        string                    `json:"phone"`
	PasswordHash string                    `json:"passwordHash"`
	Contractor   *entity.ContractorProfile `json:"contractor,omitempty"`
	Step         int                       `json:"step"`
	OTP          string                    `json:"otp"`
	Attempts     int                       `json:"attempts"`
	CreatedAt    time.Time                 `json:"createdAt"`
}

type RegistrationStore struct {
	rdb         redis.Cmdable
	ttl         time.Duration
	resendDelay time.Duration
}

func NewRegistrationStore(rdb redis.Cmdable, ttl, resendDelay time.Duration) *RegistrationStore {
	return &RegistrationStore{rdb: rdb, ttl: ttl, resendDelay: resendDelay}
}

func (s *RegistrationStore) TTL() time.Duration { return s.ttl }

// Save writes p and restarts its TTL.
func (s *RegistrationStore) Save(ctx context.Context, p *PendingRegistration) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return helpers.RedisSetJSON(ctx, s.rdb, helpers.KeyPendingRegistration(string(p.Role), p.Email), p, s.ttl)
}

func (s *RegistrationStore) Get(ctx context.Context, role entity.Role, email string) (*PendingRegistration, error) {
	var p PendingRegistration
	ok, err := helpers.RedisGetJSON(ctx, s.rdb, helpers.KeyPendingRegistration(string(role), email), &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPendingNotFound
	}
	return &p, nil
}

func (s *RegistrationStore) Delete(ctx context.Context, role entity.Role, email string) error {
	return helpers.RedisDel(ctx, s.rdb,
		helpers.KeyPendingRegistration(string(role), email),
		helpers.KeyOTPResend(string(role), email))
}

// Verify checks code against the pending record. A match consumes the record;
// a miss counts an attempt and drops the record after MaxOTPAttempts.
func (s *RegistrationStore) Verify(ctx context.Context, role entity.Role, email, code string) (*PendingRegistration, error) {
	p, err := s.Get(ctx, role, email)
	if err != nil {
		return nil, err
	}
	if p.OTP == "" || subtle.ConstantTimeCompare([]byte(p.OTP), []byte(code)) != 1 {
		p.Attempts++
		key := helpers.KeyPendingRegistration(string(role), email)
		if p.Attempts >= MaxOTPAttempts {
			_ = helpers.RedisDel(ctx, s.rdb, key)
		} else {
			_ = helpers.RedisSetJSON(ctx, s.rdb, key, p, redis.KeepTTL)
		}
		return nil, ErrOTPMismatch
	}
	if err := s.Delete(ctx, role, email); err != nil {
		return nil, err
	}
	return p, nil
}

// AllowResend reports whether a new code may be sent now and, if so, starts
// the throttle window.
func (s *RegistrationStore) AllowResend(ctx context.Context, role entity.Role, email string) (bool, error) {
	if s.resendDelay <= 0 {
		return true, nil
	}
	return s.rdb.SetNX(ctx, helpers.KeyOTPResend(string(role), email), 1, s.resendDelay).Result()
}
