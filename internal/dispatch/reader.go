package dispatch

import "io"

// reader wraps the output buffer, blocking reads when there is nothing
// currently to be read and only returning an io.EOF once the buffer has been
// read in its entirety and the operation has finished.
type reader struct {
	buf    *buffer
	offset int
}

// Read blocks when there is nothing to be read.
func (r *reader) Read(p []byte) (int, error) {
	if n, err := r.readWithLock(p); n > 0 || err != nil {
		return n, err
	}
	// buffer is empty: wait til something is written
	<-r.buf.avail

	// now read again
	return r.readWithLock(p)
}

func (r *reader) readWithLock(p []byte) (int, error) {
	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()

	byts := r.buf.buf.Bytes()
	n := copy(p, byts[r.offset:])
	r.offset += n
	// return io.EOF if everything to be read has been read.
	if r.offset == r.buf.buf.Len() && r.buf.closed {
		return n, io.EOF
	}
	return n, nil
}
