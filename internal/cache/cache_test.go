package cache

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "blog:list", []byte(`{"items":[]}`), time.Minute))
	val, ok, err := c.Get(ctx, "blog:list")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"items":[]}`, string(val))
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	now = now.Add(2 * time.Second)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	for _, k := range []string{"blog:list:/api/blog", "blog:post:/api/blog/a", "jobs:list:/api/jobs"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), 0))
	}

	require.NoError(t, c.DeletePrefix(ctx, "blog:"))

	assert.Equal(t, 1, c.Len())
	_, ok, _ := c.Get(ctx, "jobs:list:/api/jobs")
	assert.True(t, ok)
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	src := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", src, 0))
	src[0] = 'z'

	val, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(val))
}

func TestRequestKeySortsQuery(t *testing.T) {
	a := RequestKey("blog:list", "/api/blog", url.Values{"tag": {"seo"}, "category": {"growth"}})
	b := RequestKey("blog:list", "/api/blog", url.Values{"category": {"growth"}, "tag": {"seo"}})
	assert.Equal(t, a, b)
	assert.Equal(t, "blog:list:/api/blog?category=growth&tag=seo", a)
	assert.Equal(t, "jobs:list:/api/jobs", RequestKey("jobs:list", "/api/jobs", nil))
}

func TestNoopCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNoop()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.DeletePrefix(ctx, "k"))
}

func TestMemoryCacheSweepsExpiredWhenFull(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	c.limit = 8
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for i := 0; i < 8; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("old:%d", i), []byte("x"), time.Second))
	}
	now = now.Add(2 * time.Second)
	require.NoError(t, c.Set(ctx, "fresh", []byte("y"), time.Minute))

	assert.Equal(t, 1, c.Len())
	val, ok, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "y", string(val))
}

func TestMemoryCacheStaysBounded(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	c.limit = 16

	for i := 0; i < 500; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k:%d", i), []byte("x"), time.Hour))
	}
	assert.Equal(t, 16, c.Len())

	// Overwriting a present key never evicts.
	require.NoError(t, c.Set(ctx, "k:499", []byte("z"), time.Hour))
	val, ok, _ := c.Get(ctx, "k:499")
	assert.True(t, ok)
	assert.Equal(t, "z", string(val))
	assert.Equal(t, 16, c.Len())
}

func TestOnlyKeepsNamedParams(t *testing.T) {
	q := url.Values{"city": {" Paris "}, "utm": {"42"}, "state": {""}}
	assert.Equal(t, url.Values{"city": {"Paris"}}, Only(q, "city", "state"))
	assert.Equal(t,
		RequestKey("casestudies", "/api/case-studies", Only(url.Values{"utm": {"1"}}, "category")),
		RequestKey("casestudies", "/api/case-studies", Only(url.Values{"utm": {"2"}}, "category")),
	)
}
