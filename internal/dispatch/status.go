package dispatch

import "time"

// Status is a stage in the lifecycle of an operation.
type Status string

const (
	// Pending operations are enqueued and awaiting a free slot.
	Pending Status = "pending"
	// Running operations occupy a slot and have not yet released their
	// completion handle.
	Running Status = "running"
	// Done operations released their completion handle without recording an
	// error.
	Done Status = "done"
	// Errored operations either recorded an error via their completion handle
	// or escaped with a panic.
	Errored Status = "errored"
	// Discarded operations were removed from the queue by disposal before
	// they started; they are never invoked.
	Discarded Status = "discarded"
)

type statusTimestamps struct {
	started time.Time
	ended   time.Time
}

func (st statusTimestamps) Elapsed() time.Duration {
	if st.started.IsZero() {
		return 0
	}
	if st.ended.IsZero() {
		return time.Since(st.started)
	}
	return st.ended.Sub(st.started)
}
