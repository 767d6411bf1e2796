package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
)

func TestRegisterAndGet(t *testing.T) {
	r := New[string, int]()

	r.Register("one", 1)
	r.Register("two", 2)
	r.Register("one", 11)

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 11, v)

	v, ok = r.Get("three")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, 2, r.Len())
}

func TestRegisterMany(t *testing.T) {
	r := New[string, int]()
	r.RegisterMany(map[string]int{"b": 2, "a": 1, "c": 3})

	assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
	assert.True(t, r.Has("b"))
}

func TestLookup(t *testing.T) {
	r := New[string, int]()
	r.Register("x", 1)

	v, err := r.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = r.Lookup("missing")
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.EqualError(t, err, "missing: not registered")
}

func TestDelete(t *testing.T) {
	r := New[string, int]()
	r.Register("x", 1)
	r.Delete("x")
	r.Delete("never")

	assert.False(t, r.Has("x"))
	assert.Equal(t, 0, r.Len())
}

func TestRange(t *testing.T) {
	r := New[int, string]()
	r.RegisterMany(map[int]string{3: "c", 1: "a", 2: "b"})

	var seen []int
	r.Range(func(k int, _ string) bool {
		seen = append(seen, k)
		r.Delete(k)
		return k < 2
	})

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 1, r.Len())
}

func TestConcurrentAccess(t *testing.T) {
	r := New[int, int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Register(i%10, i)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = r.Get(i % 10)
			_ = r.Keys()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, r.Len())
}

func TestSteps(t *testing.T) {
	steps := NewSteps()
	steps.Register("upper", func(_ stepgraph.Context, in any) (any, error) {
		return in.(string) + "!", nil
	})

	fn, err := steps.Lookup("upper")
	require.NoError(t, err)

	out, err := fn(nil, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}
