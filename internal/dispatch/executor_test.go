package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrand_order(t *testing.T) {
	s := NewStrand()

	// all callbacks run on the strand's goroutine, one at a time, so no
	// locking is needed
	var order []int
	for i := 0; i < 100; i++ {
		i := i
		s.Exec(func() {
			order = append(order, i)
		})
	}
	s.Close()

	require.Len(t, order, 100)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

// TestQueue_strandExecutor posts operations to a strand: even with spare
// capacity, invocations are serialized in submission order.
func TestQueue_strandExecutor(t *testing.T) {
	s := NewStrand()

	q, err := NewQueue(Options{Concurrency: 2, Executor: s.Exec})
	require.NoError(t, err)

	var order []string
	for _, name := range []string{"A", "B", "C"} {
		name := name
		_, err := q.Run(func(h *Handle) {
			order = append(order, name)
			h.Release()
		})
		require.NoError(t, err)
	}
	s.Close()

	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Equal(t, 0, q.Pending())
	assert.Equal(t, 0, q.Running())
}
