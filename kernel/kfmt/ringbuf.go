package kfmt

import "io"

// ringBufferSize is large enough to hold a full 80x25 screen of early boot
// output. It must be a power of 2.
const ringBufferSize = 2048

// ringBuffer keeps the most recent ringBufferSize bytes written to it. Older
// bytes are overwritten once the buffer is full.
type ringBuffer struct {
	buffer [ringBufferSize]byte
	start  int
	count  int
}

// Write appends p to the buffer, discarding the oldest bytes if needed. It
// never fails.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[(rb.start+rb.count)&(ringBufferSize-1)] = b
		if rb.count < ringBufferSize {
			rb.count++
		} else {
			rb.start = (rb.start + 1) & (ringBufferSize - 1)
		}
	}

	return len(p), nil
}

// Read drains up to len(p) of the buffered bytes into p. It returns io.EOF
// once the buffer is empty.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.count == 0 {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) && rb.count > 0 {
		// copy the contiguous run that starts at rb.start
		run := ringBufferSize - rb.start
		if run > rb.count {
			run = rb.count
		}
		c := copy(p[n:], rb.buffer[rb.start:rb.start+run])
		n += c
		rb.count -= c
		rb.start = (rb.start + c) & (ringBufferSize - 1)
	}

	return n, nil
}
