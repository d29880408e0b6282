package protocol

import (
	"fmt"
	"io"
)

// Buffer is an owned byte sequence with an independent read cursor.
// Writes always append; reads never move past the end of the written data.
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer takes ownership of b and positions the cursor at its start.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Len returns the total number of owned bytes, read or not.
func (b *Buffer) Len() int { return len(b.data) }

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int { return len(b.data) - b.off }

// Offset returns the read cursor position.
func (b *Buffer) Offset() int { return b.off }

// SetOffset moves the read cursor to an absolute position within the owned region.
func (b *Buffer) SetOffset(off int) error {
	if off < 0 || off > len(b.data) {
		return fmt.Errorf("%w: offset %d outside [0, %d]", ErrTruncatedData, off, len(b.data))
	}
	b.off = off
	return nil
}

// Skip advances the cursor by n bytes.
func (b *Buffer) Skip(n int) error {
	if n < 0 {
		return ErrNegativeLength
	}
	if n > b.Remaining() {
		return fmt.Errorf("%w: skip %d with %d remaining", ErrTruncatedData, n, b.Remaining())
	}
	b.off += n
	return nil
}

// ReadBytes returns the next n bytes. The returned slice aliases the buffer.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if n > b.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedData, n, b.Remaining())
	}
	p := b.data[b.off : b.off+n]
	b.off += n
	return p, nil
}

// ReadByte implements io.ByteReader.
func (b *Buffer) ReadByte() (byte, error) {
	if b.off >= len(b.data) {
		return 0, ErrTruncatedData
	}
	c := b.data[b.off]
	b.off++
	return c, nil
}

// Read implements io.Reader so a Buffer can feed stream decoders.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.off >= len(b.data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.data[b.off:])
	b.off += n
	return n, nil
}

// ReadRest consumes every unread byte.
func (b *Buffer) ReadRest() []byte {
	p := b.data[b.off:]
	b.off = len(b.data)
	return p
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// WriteByte implements io.ByteWriter. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	b.data = append(b.data, c)
	return nil
}

func (b *Buffer) AppendBytes(p []byte) {
	b.data = append(b.data, p...)
}

// Bytes returns the unread portion without copying.
func (b *Buffer) Bytes() []byte { return b.data[b.off:] }

// ToOwned returns a copy of the whole owned region.
func (b *Buffer) ToOwned() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Reset empties the buffer but keeps its capacity.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.off = 0
}

// Encoder is implemented by values that serialize themselves onto a Buffer.
type Encoder interface {
	Encode(b *Buffer) error
}

// Decoder is implemented by values that deserialize themselves from a Buffer.
type Decoder interface {
	Decode(b *Buffer) error
}
