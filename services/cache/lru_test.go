package cachesvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mediateam/core"
)

func TestLRUCache(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2, 0)

	_, ok := c.Get(ctx, "colleges:a")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "colleges:a", []byte("[]")))
	data, ok := c.Get(ctx, "colleges:a")
	assert.True(t, ok)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, c.Set(ctx, "colleges:b", []byte("1")))
	require.NoError(t, c.Set(ctx, "colleges:c", []byte("2")))
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get(ctx, "colleges:a")
	assert.False(t, ok, "oldest entry must be evicted")

	require.NoError(t, c.Delete(ctx, "colleges:b", "missing"))
	_, ok = c.Get(ctx, "colleges:b")
	assert.False(t, ok)
}

func TestLRUCache_ttl(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(10, 20*time.Millisecond)
	require.NoError(t, c.Set(ctx, "applications:a", []byte("[]")))

	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "applications:a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestNew_defaultsToLRU(t *testing.T) {
	c, closeFn, err := New(core.CacheConfig{Size: 4, TTL: time.Minute})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &LRUCache{}, c)
}
