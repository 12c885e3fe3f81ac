package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/elra_wallet/internal/core/ports"
	miniredis "github.com/alicebob/miniredis/v2"
	goredislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LockerTestSuite struct {
	suite.Suite
	newLocker func() ports.Locker
	cleanup   func()
}

func (s *LockerTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *LockerTestSuite) TestSerialisesSameKey() {
	locker := s.newLocker()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(context.Background(), "wallet:t1", func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()
	s.Equal(int32(1), maxInside)
}

func (s *LockerTestSuite) TestReentrantWithinChain() {
	locker := s.newLocker()
	ran := false
	err := locker.WithLock(context.Background(), "wallet:t1", func(ctx context.Context) error {
		return locker.WithLock(ctx, "wallet:t1", func(ctx context.Context) error {
			ran = true
			return nil
		})
	})
	s.NoError(err)
	s.True(ran)
}

func (s *LockerTestSuite) TestPropagatesError() {
	locker := s.newLocker()
	boom := errors.New("boom")
	err := locker.WithLock(context.Background(), "k", func(ctx context.Context) error { return boom })
	s.ErrorIs(err, boom)

	// the lock was released despite the error
	err = locker.WithLock(context.Background(), "k", func(ctx context.Context) error { return nil })
	s.NoError(err)
}

func TestLocalLocker(t *testing.T) {
	suite.Run(t, &LockerTestSuite{newLocker: func() ports.Locker { return NewLocalLocker() }})
}

func TestRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredislib.NewClient(&goredislib.Options{Addr: mr.Addr()})
	suite.Run(t, &LockerTestSuite{
		newLocker: func() ports.Locker {
			return NewRedisLocker(client, RedisOptions{Expiry: 5 * time.Second, Tries: 500, RetryDelay: 2 * time.Millisecond})
		},
		cleanup: func() { mr.FlushAll() },
	})
	require.NoError(t, client.Close())
}

func TestLocalLocker_ContextCancelledWhileWaiting(t *testing.T) {
	locker := NewLocalLocker()
	release := make(chan struct{})
	acquired := make(chan struct{})

	go func() {
		_ = locker.WithLock(context.Background(), "k", func(ctx context.Context) error {
			close(acquired)
			<-release
			return nil
		})
	}()
	<-acquired

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := locker.WithLock(ctx, "k", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestRedisLocker_GivesUpWhenHeldElsewhere(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredislib.NewClient(&goredislib.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set(redisKeyPrefix+"wallet:t1", "other-holder"))
	locker := NewRedisLocker(client, RedisOptions{Tries: 2, RetryDelay: time.Millisecond})

	err := locker.WithLock(context.Background(), "wallet:t1", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrLockNotAcquired)
}
