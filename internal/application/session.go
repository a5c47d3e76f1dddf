package application

import (
	"context"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campus-auth/internal/domain/entity"
)

const sessionTTL = 24 * time.Hour

// SessionKey is the Redis hash holding the active session of an account.
func SessionKey(accountID string) string {
	return "account:session:" + accountID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// storeSession records the session hash. Redis is optional; failures are logged.
func storeSession(ctx context.Context, rdb *redis.Client, logger *logrus.Logger, a *entity.Account, sid string) {
	if rdb == nil {
		return
	}
	fields := map[string]any{
		"account_id": a.ID,
		"email":      a.Email,
		"full_name":  a.FullName,
		"avatar_url": a.AvatarURL,
		"sid":        sid,
		"created_at": nowRFC3339(),
	}
	key := SessionKey(a.ID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil && logger != nil {
		logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

// refreshSession updates profile fields on an existing session and keeps its TTL.
func refreshSession(ctx context.Context, rdb *redis.Client, logger *logrus.Logger, a *entity.Account) {
	if rdb == nil {
		return
	}
	key := SessionKey(a.ID)
	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		return
	}
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"full_name":  a.FullName,
		"avatar_url": a.AvatarURL,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil && logger != nil {
		logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

// EndSession removes the session hash so outstanding tokens stop working.
func EndSession(ctx context.Context, rdb *redis.Client, accountID string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, SessionKey(accountID)).Err()
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func orDiscard(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	return discard
}
