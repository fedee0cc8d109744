package dispatch

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/leg100/dispatch/internal/logging"
	"github.com/leg100/dispatch/internal/pubsub"
	"github.com/leg100/dispatch/internal/resource"
)

// Queue dispatches caller-submitted operations, providing a couple of
// invariants:
// (a) no more than a fixed number of operations run at any given time
// (b) operations start in the order they were submitted
//
// The queue owns no goroutines: it is driven by whichever goroutine submits
// an operation, resumes the queue, or releases a completion handle. All entry
// points are safe for concurrent use.
type Queue struct {
	resource.Common

	// Broker relays an event for every state transition of every operation.
	Broker *pubsub.Broker[*Op]

	table  *resource.Table[*Op]
	logger logging.Interface
	exec   Executor
	limit  int

	mu          sync.Mutex
	pending     []*Op
	running     int
	paused      bool
	disposed    bool
	dispatching bool
	redispatch  bool
}

type Options struct {
	// Concurrency is the maximum number of operations that may run at any
	// given time. Zero means the default of 1; anything else below 1 is
	// invalid.
	Concurrency int
	// Executor is the execution context on which operations are invoked.
	// Defaults to Inline.
	Executor Executor
	// Logger for queue activity. Defaults to logging.Discard.
	Logger logging.Interface
}

func NewQueue(opts Options) (*Queue, error) {
	limit := opts.Concurrency
	if limit == 0 {
		limit = 1
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, opts.Concurrency)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard
	}
	exec := opts.Executor
	if exec == nil {
		exec = Inline
	}

	broker := pubsub.NewBroker[*Op](logger)
	q := &Queue{
		Common: resource.New(resource.Queue, nil),
		Broker: broker,
		table:  resource.NewTable(broker),
		logger: logger,
		exec:   exec,
		limit:  limit,
	}
	return q, nil
}

// Run submits an operation, starting it on the calling goroutine if the
// queue is not paused and a slot is free. Returns ErrDisposed if the queue
// has been disposed.
func (q *Queue) Run(fn Operation) (*Op, error) {
	return q.RunSpec(Spec{Fn: fn})
}

// RunSpec submits an operation described by a spec.
func (q *Queue) RunSpec(spec Spec) (*Op, error) {
	if spec.Fn == nil {
		return nil, ErrNilOperation
	}

	q.mu.Lock()
	if q.disposed {
		q.mu.Unlock()
		return nil, ErrDisposed
	}
	op := q.newOp(spec)
	q.pending = append(q.pending, op)
	paused := q.paused
	q.mu.Unlock()

	q.logger.Debug("enqueued operation", "op", op)

	if !paused {
		q.dispatch()
	}
	return op, nil
}

// Pause suppresses the starting of further operations until Resume is
// called. Already-running operations are unaffected. Idempotent.
func (q *Queue) Pause() {
	q.mu.Lock()
	q.paused = true
	q.mu.Unlock()

	q.logger.Debug("paused queue", "queue", q)
}

// Resume lifts a pause and drains any capacity freed in the meantime.
// Idempotent. A no-op on a disposed queue.
func (q *Queue) Resume() {
	q.mu.Lock()
	if q.disposed {
		q.mu.Unlock()
		return
	}
	q.paused = false
	q.mu.Unlock()

	q.logger.Debug("resumed queue", "queue", q)
	q.dispatch()
}

// Pending is the number of operations enqueued but not yet started. It
// excludes running operations.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Running is the number of operations currently occupying a slot.
func (q *Queue) Running() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.running
}

// Dispose pauses the queue permanently and discards all pending operations;
// they are never invoked. Running operations are left to finish naturally;
// their completion handles remain valid. Idempotent.
func (q *Queue) Dispose() {
	q.mu.Lock()
	if q.disposed {
		q.mu.Unlock()
		return
	}
	q.paused = true
	q.disposed = true
	discarded := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, op := range discarded {
		op.discard()
	}
	q.logger.Info("disposed queue", "queue", q, "discarded", len(discarded))
}

// Get retrieves an operation record.
func (q *Queue) Get(id resource.ID) (*Op, error) {
	return q.table.Get(id)
}

// ListOptions filters the operations returned by List.
type ListOptions struct {
	// Filter operations by status: match operation if it has one of these
	// statuses. Optional.
	Status []Status
	// Order operations by oldest first (true), or newest first (false)
	Oldest bool
}

// List the queue's operation records, past and present.
func (q *Queue) List(opts ListOptions) []*Op {
	ops := q.table.List()

	// Filter list according to options
	var i int
	for _, op := range ops {
		if opts.Status != nil {
			if !slices.Contains(opts.Status, op.State) {
				continue
			}
		}
		ops[i] = op
		i++
	}
	ops = ops[:i]

	// Sort list according to options
	slices.SortFunc(ops, func(a, b *Op) int {
		cmp := a.Created.Compare(b.Created)
		if opts.Oldest {
			return cmp
		}
		return -cmp
	})

	return ops
}

// Subscribe to an event stream of operation state transitions.
func (q *Queue) Subscribe(ctx context.Context) <-chan resource.Event[*Op] {
	return q.Broker.Subscribe(ctx)
}

// dispatch performs a dispatch pass: starting with the oldest pending
// operation, operations are started until either capacity or the pending
// queue is exhausted. Dequeueing an operation and reserving its slot are a
// single critical section, so concurrent passes can neither double-start an
// operation nor lose one.
//
// A pass triggered while another is in progress is collapsed into the
// in-progress pass via the redispatch flag, rather than nesting: a chain of
// synchronously-completing operations therefore consumes constant stack.
func (q *Queue) dispatch() {
	q.mu.Lock()
	if q.dispatching {
		q.redispatch = true
		q.mu.Unlock()
		return
	}
	q.dispatching = true
	for {
		q.redispatch = false
		for !q.paused && len(q.pending) > 0 && q.running < q.limit {
			op := q.pending[0]
			q.pending = q.pending[1:]
			q.running++
			q.mu.Unlock()

			q.start(op)

			q.mu.Lock()
		}
		if !q.redispatch {
			break
		}
	}
	q.dispatching = false
	q.mu.Unlock()
}

// start invokes op on the queue's executor. Its slot has already been
// reserved.
func (q *Queue) start(op *Op) {
	op.updateState(Running)
	q.logger.Debug("started operation", "op", op)

	q.exec(func() {
		q.invoke(op)
	})
}

// invoke calls the operation, guarding against it escaping with a panic
// before releasing its handle, which would otherwise permanently shrink the
// queue's capacity by one. An escaping panic is reported as the operation's
// failure and its slot reclaimed.
func (q *Queue) invoke(op *Op) {
	h := &Handle{queue: q, op: op}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("operation panicked: %v", r)
			q.logger.Error("operation failure", "op", op, "error", err)
			h.reclaim(err)
		}
	}()
	op.fn(h)
}

// releaseSlot frees a slot and triggers another dispatch pass.
func (q *Queue) releaseSlot() {
	q.mu.Lock()
	q.running--
	q.mu.Unlock()

	q.dispatch()
}

func (q *Queue) newOp(spec Spec) *Op {
	now := time.Now()
	op := &Op{
		Common:      resource.New(resource.Operation, q),
		State:       Pending,
		Created:     now,
		Updated:     now,
		finished:    make(chan struct{}),
		output:      newBuffer(),
		fn:          spec.Fn,
		description: spec.Description,
		afterFinish: spec.AfterFinish,
		timestamps: map[Status]statusTimestamps{
			Pending: {
				started: now,
			},
		},
		// Publish an event whenever operation state is updated
		afterUpdate: func(op *Op) {
			q.Broker.Publish(resource.UpdatedEvent, op)
		},
	}
	// Add to db
	q.table.Add(op.ID, op)
	return op
}
