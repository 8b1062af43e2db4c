package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetThenGet(t *testing.T) {
	c := New(DefaultTTL, DefaultCleanupInterval)

	c.Set("details:abc", "payload")

	val, found := c.Get("details:abc")
	require.True(t, found)
	assert.Equal(t, "payload", val)
}

func TestCache_GetMissingKey(t *testing.T) {
	c := New(DefaultTTL, 0)

	val, found := c.Get("nope")
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestCache_SetOverwrites(t *testing.T) {
	c := New(DefaultTTL, 0)

	c.Set("k", 1)
	c.Set("k", 2)

	val, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, 2, val)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ExpiredEntryIsAMiss(t *testing.T) {
	c := New(30*time.Millisecond, 0)
	c.Set("k", "v")

	_, found := c.Get("k")
	require.True(t, found)

	time.Sleep(60 * time.Millisecond)

	val, found := c.Get("k")
	assert.False(t, found, "expired entry must not be returned")
	assert.Nil(t, val)
}

func TestCache_JanitorRemovesExpiredEntries(t *testing.T) {
	c := New(20*time.Millisecond, 10*time.Millisecond)
	c.Set("k", "v")

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCache_Clear(t *testing.T) {
	c := New(DefaultTTL, 0)
	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	require.Equal(t, 10, c.Len())

	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, found := c.Get("k3")
	assert.False(t, found)
}

func TestCache_NonPositiveTTLFallsBackToDefault(t *testing.T) {
	c := New(0, 0)
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestGetAs(t *testing.T) {
	c := New(DefaultTTL, 0)
	c.Set("str", "hello")
	c.Set("num", 42)

	s, ok := GetAs[string](c, "str")
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = GetAs[string](c, "num")
	assert.False(t, ok, "wrong type is treated as a miss")

	_, ok = GetAs[int](c, "missing")
	assert.False(t, ok)
}

type mapGetter map[string]any

func (m mapGetter) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func TestGetAsAcceptsAnyGetter(t *testing.T) {
	g := mapGetter{"ids": []string{"a", "b"}}

	ids, ok := GetAs[[]string](g, "ids")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(DefaultTTL, 0)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Set(fmt.Sprintf("k%d", i%5), i)
		}(i)
		go func(i int) {
			defer wg.Done()
			c.Get(fmt.Sprintf("k%d", i%5))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}
