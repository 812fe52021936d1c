package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsdc/internal/platform/config"
	"nsdc/pkg/platform/sentinel"
)

func TestNew_NotConfigured(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "not-a-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestApplyOverrides(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/0?pool_size=20&dial_timeout=3s")
	require.NoError(t, err)

	applyOverrides(opts, config.RedisConfig{PoolSize: 5, ReadTimeout: time.Second})

	assert.Equal(t, 5, opts.PoolSize)
	assert.Equal(t, 3*time.Second, opts.DialTimeout, "zero config keeps the URL value")
	assert.Equal(t, time.Second, opts.ReadTimeout)
}

func TestHealth_Unavailable(t *testing.T) {
	client := &Client{Client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})}
	defer client.Close()

	err := client.Health(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
