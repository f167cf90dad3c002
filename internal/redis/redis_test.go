package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	t.Run("address fields", func(t *testing.T) {
		opts, err := options(Config{Addr: "cache:6379", Password: "secret", DB: 2, PoolSize: 32})
		require.NoError(t, err)

		assert.Equal(t, "cache:6379", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 32, opts.PoolSize)
		assert.Equal(t, dialTimeout, opts.DialTimeout)
		assert.Equal(t, ioTimeout, opts.ReadTimeout)
		assert.Equal(t, ioTimeout, opts.WriteTimeout)
	})

	t.Run("url wins over address", func(t *testing.T) {
		opts, err := options(Config{URL: "redis://:pw@10.0.0.5:6380/3", Addr: "ignored:6379", DB: 1})
		require.NoError(t, err)

		assert.Equal(t, "10.0.0.5:6380", opts.Addr)
		assert.Equal(t, "pw", opts.Password)
		assert.Equal(t, 3, opts.DB)
		assert.Equal(t, ioTimeout, opts.ReadTimeout)
	})

	t.Run("zero pool size keeps client default", func(t *testing.T) {
		opts, err := options(Config{Addr: "cache:6379"})
		require.NoError(t, err)
		assert.Zero(t, opts.PoolSize)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := options(Config{URL: "http://cache:6379"})
		assert.Error(t, err)
	})
}

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	_, err := New(ctx, Config{Addr: "127.0.0.1:1", ConnectAttempts: 2})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.New: 127.0.0.1:1")
	assert.GreaterOrEqual(t, time.Since(start), retryBackoff, "second attempt waits")
}

func TestNew_CanceledWhileRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ctx, Config{Addr: "127.0.0.1:1", ConnectAttempts: 3})
	assert.ErrorIs(t, err, context.Canceled)
}
