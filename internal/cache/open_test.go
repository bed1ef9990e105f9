package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	for _, driver := range []string{"", "memory"} {
		c, err := Open(ctx, config.CacheConfig{Driver: driver, MaxEntries: 10})
		require.NoError(t, err)
		assert.IsType(t, &MemoryClient{}, c)
		require.NoError(t, c.Close())
	}

	_, err := Open(ctx, config.CacheConfig{Driver: "memcached"})
	require.Error(t, err)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	_, err := Open(context.Background(), config.CacheConfig{
		Driver: "redis",
		Redis:  config.RedisConfig{Addr: "127.0.0.1:1", PoolSize: 1},
	})
	require.Error(t, err)
}
