package dispatch

import (
	"bytes"
	"io"
	"sync"
)

// buffer captures the output an operation writes through its completion
// handle, making it available to multiple readers.
type buffer struct {
	buf *bytes.Buffer

	avail  chan struct{}
	closed bool
	mu     sync.Mutex
}

func newBuffer() *buffer {
	return &buffer{
		buf:   new(bytes.Buffer),
		avail: make(chan struct{}, 1),
	}
}

func (b *buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		// the operation has already released its completion handle
		return 0, io.ErrClosedPipe
	}
	n, err := b.buf.Write(p)
	if err != nil {
		return n, err
	}
	// Let readers know there are now available bytes to be read.
	select {
	case b.avail <- struct{}{}:
	default:
	}
	return n, nil
}

// NewReader returns a reader reading the buffer from the beginning.
func (b *buffer) NewReader() io.Reader {
	return &reader{buf: b}
}

// Close the buffer to further writes and wake blocked readers.
func (b *buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.avail)
}
