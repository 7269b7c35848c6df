package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	label string
}

func TestFIFOEviction(t *testing.T) {
	const capacity = 5
	c := New[int](Capacity(capacity))

	for i := 0; i <= capacity; i++ {
		require.True(t, c.Add(fmt.Sprintf("test:%d", i), i))
	}

	_, ok := c.Get("test:0")
	assert.False(t, ok, "first inserted key should have been evicted")
	for i := 1; i <= capacity; i++ {
		v, ok := c.Get(fmt.Sprintf("test:%d", i))
		require.Truef(t, ok, "key test:%d should be present", i)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, capacity, c.Len())
}

func TestEvictionIgnoresAccessOrder(t *testing.T) {
	c := New[string](Capacity(2))
	c.Set("a", "a")
	c.Set("b", "b")

	_, _ = c.Get("a")
	c.Set("a", "a2")
	c.Set("c", "c")

	_, ok := c.Get("a")
	assert.False(t, ok, "a was inserted first and must go first")
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestDeletedKeysAreNotTracked(t *testing.T) {
	c := New[string](Capacity(2))
	c.Set("a", "a")
	c.Set("b", "b")
	require.True(t, c.Delete("a"))
	require.False(t, c.Delete("a"))

	c.Set("c", "c")
	_, ok := c.Get("b")
	assert.True(t, ok, "a was deleted: inserting c must not evict b")
	assert.Equal(t, 2, c.Len())
}

func TestAddAndSet(t *testing.T) {
	c := New[string]()
	assert.Equal(t, DefaultCapacity, c.Capacity())

	require.True(t, c.Add("k", "v1"))
	assert.False(t, c.Add("k", "v2"))
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	c.Set("k", "v3")
	v, _ = c.Get("k")
	assert.Equal(t, "v3", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestSharedReference(t *testing.T) {
	c := New[*fakeObject]()
	c.Set("test:1", &fakeObject{label: "before"})

	holder, _ := c.Get("test:1")
	holder.label = "after"

	other, _ := c.Get("test:1")
	assert.Equal(t, "after", other.label)
}

func TestResize(t *testing.T) {
	c := New[int](Capacity(3))
	c.Set("a", 1)
	c.Set("b", 2)

	c.Resize(10)
	assert.Equal(t, 2, c.Len(), "growing keeps entries")
	assert.Equal(t, 10, c.Capacity())

	c.Resize(1)
	assert.Equal(t, 0, c.Len(), "shrinking clears the cache")
	c.Set("c", 3)
	c.Set("d", 4)
	_, ok := c.Get("c")
	assert.False(t, ok)
	_, ok = c.Get("d")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestConcurrentUse(t *testing.T) {
	c := New[int](Capacity(50))
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("%d:%d", w, i)
				c.Set(key, i)
				_, _ = c.Get(key)
				if i%3 == 0 {
					c.Delete(key)
				}
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New[int](Capacity(1), WithMetrics(reg, "objects"))
	require.NotNil(t, c.metrics)

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("b")
	_, _ = c.Get("a")

	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.hits))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.misses))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.evictions))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.size))

	// a second registration of the same collectors is tolerated, without metrics
	c2 := New[int](WithMetrics(reg, "objects"))
	assert.Nil(t, c2.metrics)
	c2.Set("a", 1)
}

func TestExplicitRemovalsAreNotEvictions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New[int](Capacity(3), WithMetrics(reg, "objects"))

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	require.True(t, c.Delete("a"))
	c.Resize(2)
	c.Set("d", 4)
	c.Clear()

	assert.Equal(t, float64(0), testutil.ToFloat64(c.metrics.evictions))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.metrics.size))

	c.Set("e", 5)
	c.Set("f", 6)
	c.Set("g", 7)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.evictions))
	_, ok := c.Get("e")
	assert.False(t, ok)
}
