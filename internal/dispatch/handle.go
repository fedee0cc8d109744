package dispatch

import "sync/atomic"

// Handle is the one-shot completion token bound to exactly one started
// operation. The operation must release it exactly once to free its
// concurrency slot; releasing it a second time is a protocol violation,
// surfaced as ErrHandleReleased and leaving the queue's state untouched.
//
// Handle is an io.Writer: anything written to it is captured as the
// operation's output, readable via Op.NewReader.
type Handle struct {
	queue *Queue
	op    *Op

	released atomic.Bool
}

// Release frees the operation's concurrency slot and marks the operation
// done.
func (h *Handle) Release() error {
	return h.release(nil)
}

// Fail records err as the operation's failure, then frees its concurrency
// slot. The failure is reported on the operation; it does not affect the
// queue.
func (h *Handle) Fail(err error) error {
	return h.release(err)
}

// Op is the operation record the handle is bound to.
func (h *Handle) Op() *Op {
	return h.op
}

func (h *Handle) Write(p []byte) (int, error) {
	return h.op.output.Write(p)
}

func (h *Handle) release(err error) error {
	if !h.released.CompareAndSwap(false, true) {
		h.queue.logger.Error("completion handle released more than once", "op", h.op)
		return ErrHandleReleased
	}
	h.op.finish(err)
	h.queue.releaseSlot()
	return nil
}

// reclaim forcibly releases the slot of an operation whose invocation
// escaped with a failure before releasing its handle. No-op if the handle
// was already released.
func (h *Handle) reclaim(err error) {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	h.op.finish(err)
	h.queue.releaseSlot()
}
