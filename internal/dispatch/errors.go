package dispatch

import "errors"

var (
	// ErrInvalidConcurrency is returned when constructing a queue with a
	// concurrency limit below one.
	ErrInvalidConcurrency = errors.New("concurrency limit must be at least 1")

	// ErrDisposed is returned when submitting an operation to a disposed
	// queue. A disposed queue is permanently inert; construct a new one
	// instead.
	ErrDisposed = errors.New("queue has been disposed")

	// ErrHandleReleased is returned when a completion handle is released more
	// than once.
	ErrHandleReleased = errors.New("completion handle already released")

	// ErrNilOperation is returned when submitting a nil operation.
	ErrNilOperation = errors.New("nil operation")

	// ErrDiscarded is reported by operations that were discarded from the
	// queue before they started.
	ErrDiscarded = errors.New("operation discarded before it started")
)
