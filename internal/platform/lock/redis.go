package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/elra_wallet/internal/core/ports"
	"github.com/SscSPs/elra_wallet/internal/middleware"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "elra:lock:"

// RedisOptions configures lock acquisition.
type RedisOptions struct {
	// Expiry bounds how long a crashed holder can keep the lock.
	Expiry      time.Duration
	Tries       int
	RetryDelay  time.Duration
	DriftFactor float64
}

// DefaultRedisOptions returns defaults sized for request-scoped critical sections.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Expiry:      30 * time.Second,
		Tries:       40,
		RetryDelay:  50 * time.Millisecond,
		DriftFactor: 0.01,
	}
}

// RedisLocker serialises work across service instances with the RedLock algorithm.
type RedisLocker struct {
	redsync *redsync.Redsync
	opts    RedisOptions
}

var _ ports.Locker = (*RedisLocker)(nil)

func NewRedisLocker(client goredislib.UniversalClient, opts RedisOptions) *RedisLocker {
	defaults := DefaultRedisOptions()
	if opts.Expiry <= 0 {
		opts.Expiry = defaults.Expiry
	}
	if opts.Tries <= 0 {
		opts.Tries = defaults.Tries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaults.RetryDelay
	}
	if opts.DriftFactor <= 0 {
		opts.DriftFactor = defaults.DriftFactor
	}
	return &RedisLocker{
		redsync: redsync.New(goredis.NewPool(client)),
		opts:    opts,
	}
}

// WithLock runs fn while holding the distributed lock for key.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if isHeld(ctx, key) {
		return fn(ctx)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	mutex := l.redsync.NewMutex(
		redisKeyPrefix+key,
		redsync.WithExpiry(l.opts.Expiry),
		redsync.WithTries(l.opts.Tries),
		redsync.WithRetryDelay(l.opts.RetryDelay),
		redsync.WithDriftFactor(l.opts.DriftFactor),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken") {
			return fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
		}
		return fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	// Release with a fresh context so a cancelled request still frees the lock
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if ok, err := mutex.UnlockContext(unlockCtx); !ok || err != nil {
			logger.Error("Failed to release lock", slog.String("key", key), slog.Bool("ok", ok), slog.Any("error", err))
		}
	}()

	return fn(withHeld(ctx, key))
}
