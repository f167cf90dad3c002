package redisrepo

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient connects to AIRPORT_TEST_REDIS_ADDR (e.g. localhost:6379) and
// skips the test when it is unset or unreachable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("AIRPORT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("AIRPORT_TEST_REDIS_ADDR is not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis at %s is unreachable: %v", addr, err)
	}

	return rdb
}

// uniqueID keeps keys of concurrent test runs apart.
func uniqueID() int64 {
	return time.Now().UnixNano()
}

func TestSlidingWindowLimiter(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()

	l := NewSlidingWindowLimiter(rdb, "test-"+uuid.NewString(), 2, time.Second)

	for i := 0; i < 2; i++ {
		ok, wait, err := l.Allow(ctx, 42)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i)
		assert.Zero(t, wait)
	}

	ok, wait, err := l.Allow(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Second)

	// a rejected hit is not recorded
	n, err := rdb.ZCard(ctx, KeyRateLimit(l.scope, 42)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ok, _, err = l.Allow(ctx, 43)
	require.NoError(t, err)
	assert.True(t, ok, "other users have their own window")

	time.Sleep(wait + 50*time.Millisecond)

	ok, _, err = l.Allow(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok, "window slid past the oldest hit")
}

func TestIdempotencyStore(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()

	s := NewIdempotencyStore(rdb, time.Minute)
	key := KeyIdemOrder(7, uuid.NewString())
	t.Cleanup(func() { _ = s.Release(ctx, key) })

	locked, err := s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	locked, err = s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, locked, "second request while the first is in flight")

	_, found, err := s.GetResult(ctx, key)
	require.NoError(t, err)
	assert.False(t, found, "a lock is not a result")

	require.NoError(t, s.SaveResult(ctx, key, []byte(`{"order_id":"x"}`)))

	payload, found, err := s.GetResult(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"order_id":"x"}`, string(payload))

	locked, err = s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, locked, "a saved result keeps the key taken")

	require.NoError(t, s.Release(ctx, key))

	locked, err = s.AcquireLock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, locked, "released key can be retried")
}

func TestGetOrSetJSON_LoadsOnce(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()

	c := NewCache(rdb)
	flightID := uniqueID()
	key := KeyFlightDetail(flightID)
	t.Cleanup(func() { _ = c.Del(ctx, key) })

	type detail struct {
		ID int64 `json:"id"`
	}

	var loads atomic.Int32
	loader := func(context.Context) (detail, error) {
		loads.Add(1)
		time.Sleep(100 * time.Millisecond)
		return detail{ID: flightID}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := GetOrSetJSON(ctx, c, key, time.Minute, loader)
			assert.NoError(t, err)
			assert.Equal(t, flightID, v.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load(), "concurrent misses collapse into one load")

	_, err := GetOrSetJSON(ctx, c, key, time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, int32(1), loads.Load(), "served from redis")

	require.NoError(t, c.InvalidateFlight(ctx, flightID))

	_, err = GetOrSetJSON(ctx, c, key, time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load(), "reloaded after invalidation")
}

func TestFlightsPubSub(t *testing.T) {
	rdb := testClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ps := NewFlightsPubSub(rdb)
	flightID := uniqueID()

	got := make(chan int64, 16)
	go func() {
		_ = ps.Subscribe(ctx, func(_ context.Context, id int64) {
			if id == flightID {
				got <- id
			}
		})
	}()

	// the subscription may not be registered yet; publish until it is
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case id := <-got:
			assert.Equal(t, flightID, id)
			return
		case <-tick.C:
			require.NoError(t, ps.PublishFlightChanged(ctx, flightID))
		case <-ctx.Done():
			t.Fatal("flight change was not delivered")
		}
	}
}
