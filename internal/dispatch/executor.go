package dispatch

// Executor determines the execution context on which operations are invoked.
// The default, Inline, invokes operations on whichever goroutine triggers the
// dispatch pass: the caller of Run or Resume, or whichever goroutine releases
// a completion handle.
type Executor func(fn func())

// Inline invokes fn on the calling goroutine.
func Inline(fn func()) {
	fn()
}

// Strand posts callbacks onto a single goroutine, invoking them one at a
// time in the order they were posted. Use it when operations must run on a
// particular logical thread, or to force deterministic interleavings in
// tests.
type Strand struct {
	fns  chan func()
	done chan struct{}
}

func NewStrand() *Strand {
	s := &Strand{
		fns:  make(chan func(), 1024),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		for fn := range s.fns {
			fn()
		}
	}()
	return s
}

// Exec posts fn to the strand's goroutine.
func (s *Strand) Exec(fn func()) {
	s.fns <- fn
}

// Close stops the strand once already-posted callbacks have drained, and
// waits for them to finish.
func (s *Strand) Close() {
	close(s.fns)
	<-s.done
}
