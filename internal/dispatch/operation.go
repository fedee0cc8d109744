package dispatch

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/leg100/dispatch/internal/resource"
)

// Operation is a caller-submitted unit of work. It receives a one-shot
// completion handle which it must release exactly once - synchronously or
// from any later goroutine - to free its concurrency slot.
type Operation func(h *Handle)

// Spec is a specification for submitting an operation.
type Spec struct {
	// Fn is the operation to invoke. Required.
	Fn Operation
	// Description is a human-meaningful identifier for the operation,
	// surfaced in logs and events in place of its generated ID.
	Description string
	// AfterFinish is called after the operation terminates for whatever
	// reason.
	AfterFinish func(op *Op)
}

// Op records the lifecycle of a submitted operation.
type Op struct {
	resource.Common

	State Status

	Created time.Time
	Updated time.Time

	// Nil unless the operation failed.
	Err error

	fn          Operation
	description string

	// output contains everything the operation writes via its handle
	output *buffer

	// lock to ensure state is switched atomically.
	mu sync.Mutex

	// this channel is closed once the operation is finished
	finished chan struct{}

	// timestamps records the time at which the operation transitioned into a
	// status and out of a status.
	timestamps map[Status]statusTimestamps

	// call this whenever state is updated
	afterUpdate func(*Op)
	// call this once the operation has terminated
	afterFinish func(*Op)
}

func (op *Op) String() string {
	if op.description != "" {
		return op.description
	}
	return op.ID.String()
}

// NewReader provides a reader from which to read the operation's output from
// start to end.
func (op *Op) NewReader() io.Reader {
	return op.output.NewReader()
}

// Elapsed returns the length of time the operation has been in the given
// status.
func (op *Op) Elapsed(s Status) time.Duration {
	op.mu.Lock()
	defer op.mu.Unlock()

	st, ok := op.timestamps[s]
	if !ok {
		return 0
	}
	return st.Elapsed()
}

func (op *Op) IsFinished() bool {
	switch op.State {
	case Done, Errored, Discarded:
		return true
	default:
		return false
	}
}

// Wait for the operation to finish. If the operation finishes unsuccessfully
// then the returned error is non-nil.
func (op *Op) Wait() error {
	<-op.finished
	if op.State != Done {
		return op.Err
	}
	return nil
}

func (op *Op) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", op.ID.String()),
		slog.String("description", op.description),
		slog.String("state", string(op.State)),
	)
}

// finish moves the operation into a terminal state: Errored if err is
// non-nil, Done otherwise.
func (op *Op) finish(err error) {
	op.mu.Lock()
	op.Err = err
	op.mu.Unlock()

	if err != nil {
		op.updateState(Errored)
	} else {
		op.updateState(Done)
	}
}

// discard marks an operation that was dropped from the queue before it
// started.
func (op *Op) discard() {
	op.mu.Lock()
	op.Err = ErrDiscarded
	op.mu.Unlock()

	op.updateState(Discarded)
}

// record time at which current status finished. Lock must be held.
func (op *Op) recordStatusEndTime(now time.Time) {
	currentStateTimestamps := op.timestamps[op.State]
	currentStateTimestamps.ended = now
	op.timestamps[op.State] = currentStateTimestamps
}

func (op *Op) updateState(state Status) {
	op.mu.Lock()

	now := time.Now()
	op.Updated = now

	// record times at which old status ended, and new status started
	op.recordStatusEndTime(now)
	op.timestamps[state] = statusTimestamps{
		started: now,
	}

	op.State = state

	finished := op.IsFinished()
	if finished {
		// Close output stream
		op.output.Close()
		op.recordStatusEndTime(now)
		close(op.finished)
	}
	op.mu.Unlock()

	if op.afterUpdate != nil {
		op.afterUpdate(op)
	}
	if finished && op.afterFinish != nil {
		op.afterFinish(op)
	}
}
