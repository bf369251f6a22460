package smartfmt

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseCache(t *testing.T) {
	t.Run("evicts oldest", func(t *testing.T) {
		c := newParseCache(2, zap.NewNop())
		a, b, d := &Format{}, &Format{}, &Format{}

		c.put("a", a)
		c.put("b", b)
		c.put("a", d)
		assert.Equal(t, 2, c.len())
		got, ok := c.get("a")
		require.True(t, ok)
		assert.Same(t, a, got)

		c.put("c", d)
		assert.Equal(t, 2, c.len())
		_, ok = c.get("a")
		assert.False(t, ok)
		got, ok = c.get("c")
		require.True(t, ok)
		assert.Same(t, d, got)
	})

	t.Run("clear", func(t *testing.T) {
		c := newParseCache(4, zap.NewNop())
		c.put("a", &Format{})
		c.clear()
		assert.Equal(t, 0, c.len())
		_, ok := c.get("a")
		assert.False(t, ok)
	})

	t.Run("stale generation is not stored", func(t *testing.T) {
		c := newParseCache(4, zap.NewNop())
		generation := c.current()
		c.clear()
		c.putAt(generation, "a", &Format{})
		assert.Equal(t, 0, c.len())

		c.putAt(c.current(), "a", &Format{})
		assert.Equal(t, 1, c.len())
	})

	t.Run("disabled", func(t *testing.T) {
		c := newParseCache(0, zap.NewNop())
		c.put("a", &Format{})
		assert.Equal(t, 0, c.len())
		_, ok := c.get("a")
		assert.False(t, ok)

		var missing *parseCache
		assert.False(t, missing.enabled())
		_, ok = missing.get("a")
		assert.False(t, ok)
	})
}

func TestEngine_ParseCache(t *testing.T) {
	cached := newTestEngine(t, WithParseCache(2))
	first, err := cached.ParseFormat("{0}")
	require.NoError(t, err)
	second, err := cached.ParseFormat("{0}")
	require.NoError(t, err)
	assert.Same(t, first, second)

	uncached := newTestEngine(t)
	first, err = uncached.ParseFormat("{0}")
	require.NoError(t, err)
	second, err = uncached.ParseFormat("{0}")
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	_, err = cached.ParseFormat("{0")
	require.Error(t, err)
	assert.Equal(t, 1, cached.cache.len())
}

func TestParseCache_Concurrent(t *testing.T) {
	c := newParseCache(16, zap.NewNop())
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("%d-%d", n, i%20)
				c.put(key, &Format{})
				c.get(key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.len(), 16)
}
