package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetExpire(t *testing.T) {
	c := NewCacheWithGC(10 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 30*time.Millisecond))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	require.Eventually(t, func() bool {
		_, ok, _ := c.Get(ctx, "k")
		return !ok && c.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestCache_Delete(t *testing.T) {
	c := NewCache()
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Minute)
	require.NoError(t, c.Delete(ctx, "a", "b", "missing"))

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ImplementsStore(t *testing.T) {
	var _ Store = NewCache()
}
