package resolve

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ComputesOnce(t *testing.T) {
	c := NewCache[int, string](strconv.Itoa)
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(7, func() (string, error) {
				calls.Add(1)
				return "seven", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "seven", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCache_CachesErrors(t *testing.T) {
	c := NewCache[string, int](func(s string) string { return s })
	boom := errors.New("boom")
	calls := 0
	compute := func() (int, error) {
		calls++
		return 0, boom
	}

	_, err := c.Get("k", compute)
	require.ErrorIs(t, err, boom)
	_, err = c.Get("k", compute)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	v, err := c.Get("other", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, c.Len())
}
