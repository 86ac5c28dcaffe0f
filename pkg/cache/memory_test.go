package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/testsupport"
)

type value struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", value{Name: "a", Count: 2}, time.Minute))

	var got value
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, value{Name: "a", Count: 2}, got)
}

func TestMemoryCache_Miss(t *testing.T) {
	var got value
	found, err := NewMemoryCache().Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, value{}, got)
}

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := testsupport.NewClock()
	c := NewMemoryCache(WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "k", value{Name: "a"}, 60*time.Second))

	clock.Advance(59 * time.Second)
	var got value
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)

	clock.Advance(time.Second)
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", value{Count: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, "k", value{Count: 2}, time.Minute))

	var got value
	_, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
}

func TestMemoryCache_RejectsNonPositiveTTL(t *testing.T) {
	assert.Error(t, NewMemoryCache().Set(context.Background(), "k", value{}, 0))
}

func TestMemoryCache_StoresCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	v := &value{Name: "before"}
	require.NoError(t, c.Set(ctx, "k", v, time.Minute))
	v.Name = "after"

	var got value
	_, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Name)
}

func TestMemoryCache_SetSweepsExpiredKeys(t *testing.T) {
	ctx := context.Background()
	clock := testsupport.NewClock()
	c := NewMemoryCache(WithClock(clock.Now))

	require.NoError(t, c.Set(ctx, "report:1", value{Count: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, "report:2", value{Count: 2}, 2*time.Minute))

	clock.Advance(time.Minute)
	require.NoError(t, c.Set(ctx, "report:3", value{Count: 3}, time.Minute))

	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()
	assert.ElementsMatch(t, []string{"report:2", "report:3"}, keys)
}
