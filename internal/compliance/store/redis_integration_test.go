//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sss/internal/compliance/store"
	"sss/pkg/testutil/containers"
)

type RedisWindowSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	windows *store.RedisWindow
}

func TestRedisWindowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisWindowSuite))
}

func (s *RedisWindowSuite) SetupSuite() {
	s.redis = containers.StartRedis(s.T())
	s.windows = store.NewRedisWindow(s.redis.Client)
}

func (s *RedisWindowSuite) SetupTest() {
	s.Require().NoError(s.redis.Client.FlushDB(context.Background()).Err())
}

func (s *RedisWindowSuite) TestAddAccumulatesPerKey() {
	ctx := context.Background()

	total, err := s.windows.Add(ctx, "mint-1:alice:20260831", 100, time.Hour)
	s.Require().NoError(err)
	s.Equal(uint64(100), total)

	total, err = s.windows.Add(ctx, "mint-1:alice:20260831", 150, time.Hour)
	s.Require().NoError(err)
	s.Equal(uint64(250), total)

	total, err = s.windows.Add(ctx, "mint-1:bob:20260831", 40, time.Hour)
	s.Require().NoError(err)
	s.Equal(uint64(40), total)
}

func (s *RedisWindowSuite) TestSubtractBacksOutAnAdd() {
	ctx := context.Background()

	_, err := s.windows.Add(ctx, "mint-1:alice:20260831", 300, time.Hour)
	s.Require().NoError(err)
	s.Require().NoError(s.windows.Subtract(ctx, "mint-1:alice:20260831", 200))

	total, err := s.windows.Add(ctx, "mint-1:alice:20260831", 0, time.Hour)
	s.Require().NoError(err)
	s.Equal(uint64(100), total)
}

func (s *RedisWindowSuite) TestWindowExpires() {
	ctx := context.Background()

	_, err := s.windows.Add(ctx, "mint-1:alice:short", 500, time.Second)
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		n, err := s.redis.Client.Exists(ctx, "sss:window:mint-1:alice:short").Result()
		return err == nil && n == 0
	}, 5*time.Second, 100*time.Millisecond)

	total, err := s.windows.Add(ctx, "mint-1:alice:short", 10, time.Hour)
	s.Require().NoError(err)
	s.Equal(uint64(10), total)
}

func (s *RedisWindowSuite) TestConcurrentAddsStayAtomic() {
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.windows.Add(ctx, "mint-1:crowd:20260831", 2, time.Hour)
			s.NoError(err)
		}()
	}
	wg.Wait()

	total, err := s.windows.Add(ctx, "mint-1:crowd:20260831", 0, time.Hour)
	s.Require().NoError(err)
	s.Equal(uint64(100), total)
}
