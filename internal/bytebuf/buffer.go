// Package bytebuf provides an owned, growable byte sequence with a sequential
// read cursor. It is used both to build and to parse wire records, and never
// reads beyond its end.
package bytebuf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when a fixed-size read asks for more bytes than
// remain after the cursor.
var ErrShortBuffer = errors.New("short buffer")

// Buffer is an append-only byte vector with a read cursor.
// Invariant: 0 <= pos <= len(data).
type Buffer struct {
	data []byte
	pos  int
}

// New returns an empty buffer with the given capacity hint.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// FromBytes returns a buffer holding a copy of b with the cursor at zero.
func FromBytes(b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{data: data}
}

// Bytes returns the full contents regardless of the cursor.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the total number of bytes held.
func (b *Buffer) Len() int { return len(b.data) }

// Offset returns the read cursor.
func (b *Buffer) Offset() int { return b.pos }

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int { return len(b.data) - b.pos }

// Rewind moves the read cursor back to the start.
func (b *Buffer) Rewind() { b.pos = 0 }

// Append adds p to the end of the buffer.
func (b *Buffer) Append(p []byte) error {
	b.data = append(b.data, p...)
	return nil
}

// AppendUint16 appends v in network byte order.
func (b *Buffer) AppendUint16(v uint16) {
	b.data = binary.BigEndian.AppendUint16(b.data, v)
}

// AppendUint32 appends v in network byte order.
func (b *Buffer) AppendUint32(v uint32) {
	b.data = binary.BigEndian.AppendUint32(b.data, v)
}

// Read copies up to len(p) unread bytes into p and returns the count. At the
// end of the buffer it returns 0.
func (b *Buffer) Read(p []byte) int {
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n
}

// Next returns the next n unread bytes and advances the cursor. If fewer than
// n bytes remain, nothing is consumed and ErrShortBuffer is returned.
// The returned slice aliases the buffer.
func (b *Buffer) Next(n int) ([]byte, error) {
	if n < 0 || n > b.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, b.pos, b.Remaining())
	}
	out := b.data[b.pos : b.pos+n : b.pos+n]
	b.pos += n
	return out, nil
}

// ReadUint16 reads a network-order uint16.
func (b *Buffer) ReadUint16() (uint16, error) {
	p, err := b.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

// ReadUint32 reads a network-order uint32.
func (b *Buffer) ReadUint32() (uint32, error) {
	p, err := b.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

// ReadRemaining returns every unread byte and moves the cursor to the end.
func (b *Buffer) ReadRemaining() []byte {
	out := b.data[b.pos:len(b.data):len(b.data)]
	b.pos = len(b.data)
	return out
}

// Reset drops all contents. The old bytes are zeroed since buffers routinely
// carry decrypted payloads.
func (b *Buffer) Reset() {
	clear(b.data[:cap(b.data)])
	b.data = b.data[:0]
	b.pos = 0
}
