package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/pkg/helpers"
)

// SessionStore records issued session ids so logout can revoke a token
// before it expires.
type SessionStore struct {
	rdb redis.Cmdable
}

func NewSessionStore(rdb redis.Cmdable) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Create(ctx context.Context, sid, accountID string, role entity.Role, ttl time.Duration) error {
	key := helpers.KeySession(sid)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"account_id": accountID,
		"role":       string(role),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Valid reports whether sid is live and belongs to accountID.
func (s *SessionStore) Valid(ctx context.Context, sid, accountID string) (bool, error) {
	if sid == "" {
		return false, nil
	}
	owner, err := s.rdb.HGet(ctx, helpers.KeySession(sid), "account_id").Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner == accountID, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return helpers.RedisDel(ctx, s.rdb, helpers.KeySession(sid))
}
