package resp

import "bytes"

// Buffer is a growable, head-advanceable byte container that backs
// incremental decoding. Bytes arriving from the wire are appended
// with Write; the consumed prefix is discarded with Advance. Decode
// and ExpectLength never mutate a Buffer themselves, so a failed or
// incomplete decode always leaves it exactly as it was — only a
// successful Decode calls Advance, and only for the bytes it parsed.
type Buffer struct {
	buf bytes.Buffer
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Write appends p to the buffer. It always returns len(p), nil.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

// Len returns the number of unread bytes currently buffered.
func (b *Buffer) Len() int {
	return b.buf.Len()
}

// Bytes returns a view of the unread portion of the buffer. The
// returned slice is only valid until the next Write or Advance call,
// and must not be retained past it.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}

// Advance discards the first n unread bytes.
func (b *Buffer) Advance(n int) {
	b.buf.Next(n)
}

// Reset discards all buffered bytes.
func (b *Buffer) Reset() {
	b.buf.Reset()
}
