package dispatch

import (
	"io"
	"testing"
	"time"

	"github.com/mitchellh/iochan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOp_output(t *testing.T) {
	q, err := NewQueue(Options{})
	require.NoError(t, err)

	op, err := q.Run(func(h *Handle) {
		h.Write([]byte("foo\n"))
		h.Write([]byte("bar\n"))
		h.Release()
	})
	require.NoError(t, err)

	got, err := io.ReadAll(op.NewReader())
	require.NoError(t, err)
	assert.Equal(t, "foo\nbar\n", string(got))

	// create another reader, to demonstrate that reading resets to the
	// beginning
	lines := iochan.DelimReader(op.NewReader(), '\n')
	assert.Equal(t, "foo\n", <-lines)
	assert.Equal(t, "bar\n", <-lines)
	_, open := <-lines
	assert.False(t, open)
}

func TestOp_outputStreamsWhileRunning(t *testing.T) {
	q, err := NewQueue(Options{})
	require.NoError(t, err)

	var handle *Handle
	op, err := q.Run(func(h *Handle) {
		h.Write([]byte("started\n"))
		handle = h
	})
	require.NoError(t, err)

	lines := iochan.DelimReader(op.NewReader(), '\n')
	assert.Equal(t, "started\n", <-lines)

	// release from another goroutine; the stream terminates
	go func() {
		handle.Write([]byte("finishing\n"))
		handle.Release()
	}()
	assert.Equal(t, "finishing\n", <-lines)
	_, open := <-lines
	assert.False(t, open)

	require.NoError(t, op.Wait())
}

func TestOp_Wait(t *testing.T) {
	q, err := NewQueue(Options{})
	require.NoError(t, err)

	var handle *Handle
	op, err := q.Run(func(h *Handle) {
		handle = h
	})
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		done <- op.Wait()
	}()

	// Wait blocks until the handle is released
	select {
	case <-done:
		t.Fatal("Wait returned before operation completed")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, handle.Release())
	require.NoError(t, <-done)
}

func TestOp_Elapsed(t *testing.T) {
	q, err := NewQueue(Options{})
	require.NoError(t, err)

	op, err := q.Run(func(h *Handle) {
		time.Sleep(10 * time.Millisecond)
		h.Release()
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, op.Elapsed(Running), 10*time.Millisecond)
	assert.Zero(t, op.Elapsed(Discarded))
}
