package cachesvc

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

type payload struct {
	Name  string `json:"name"`
	Coins int64  `json:"coins"`
}

func exerciseCache(t *testing.T, c core.Cache) {
	ctx := context.Background()

	var got payload
	hit, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k1", payload{Name: "pikachu", Coins: 10}, time.Minute))
	hit, err = c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "pikachu", Coins: 10}, got)

	require.NoError(t, c.Delete(ctx, "k1", "unknown"))
	hit, err = c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestMemoryCache_expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 42, time.Second))
	var n int
	hit, _ := c.Get(ctx, "k", &n)
	assert.True(t, hit)
	assert.Equal(t, 42, n)

	now = now.Add(time.Second)
	hit, _ = c.Get(ctx, "k", &n)
	assert.False(t, hit)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c := NewRedisCache(core.RedisConfig{Addr: addr}, "pokeayman-test:")
	defer func() { _ = c.Close() }()
	require.NoError(t, c.Ping(context.Background()))
	exerciseCache(t, c)
}
