package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/smartrentsystem/backend/internal/domain/providers"
	redisclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/redis"
)

// ErrLockTimeout is returned when a lock could not be acquired before the deadline
var ErrLockTimeout = errors.New("lock wait timed out")

// releaseScript deletes the key only if it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a lock shared by every API instance pointing at the same Redis
type RedisLocker struct {
	client   *redisclient.Client
	ttl      time.Duration
	interval time.Duration
	wait     time.Duration
}

// NewRedisLocker creates a Redis-backed locker. ttl bounds how long a crashed holder blocks others.
func NewRedisLocker(client *redisclient.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:   client,
		ttl:      ttl,
		interval: 25 * time.Millisecond,
		wait:     5 * time.Second,
	}
}

var _ providers.Locker = (*RedisLocker)(nil)

// Lock acquires key with SET NX PX, polling until it is free
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := "lock:" + key
	token := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		ok, err := l.client.Client().SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return func() {
				// release with a fresh context so a cancelled request still frees the lock
				rctx, rcancel := context.WithTimeout(context.Background(), time.Second)
				defer rcancel()
				if err := releaseScript.Run(rctx, l.client.Client(), []string{redisKey}, token).Err(); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("Failed to release lock")
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
