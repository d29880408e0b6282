package protocol

import (
	"errors"
	"io"
)

const (
	SEGMENT_BITS = 0x7F
	CONTINUE_BIT = 0x80

	MaxVarIntLen  = 5
	MaxVarLongLen = 10

	// bits of the last byte that would not fit the integer
	varIntOverflowBits  = 0x70
	varLongOverflowBits = 0x7E
)

// ReadVarInt decodes a VarInt at the cursor.
func (b *Buffer) ReadVarInt() (int32, error) {
	var value uint32
	for i := 0; i < MaxVarIntLen; i++ {
		c, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == MaxVarIntLen-1 && c&varIntOverflowBits != 0 {
			return 0, ErrMalformedVarInt
		}
		value |= uint32(c&SEGMENT_BITS) << (7 * i)
		if c&CONTINUE_BIT == 0 {
			return int32(value), nil
		}
	}
	return 0, ErrMalformedVarInt
}

// ReadVarLong decodes a VarLong at the cursor.
func (b *Buffer) ReadVarLong() (int64, error) {
	var value uint64
	for i := 0; i < MaxVarLongLen; i++ {
		c, err := b.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == MaxVarLongLen-1 && c&varLongOverflowBits != 0 {
			return 0, ErrMalformedVarInt
		}
		value |= uint64(c&SEGMENT_BITS) << (7 * i)
		if c&CONTINUE_BIT == 0 {
			return int64(value), nil
		}
	}
	return 0, ErrMalformedVarInt
}

func (b *Buffer) WriteVarInt(value int32) {
	b.data = AppendVarInt(b.data, value)
}

func (b *Buffer) WriteVarLong(value int64) {
	uvalue := uint64(value)
	for {
		temp := byte(uvalue & SEGMENT_BITS)
		uvalue >>= 7
		if uvalue != 0 {
			temp |= CONTINUE_BIT
		}
		b.data = append(b.data, temp)
		if uvalue == 0 {
			return
		}
	}
}

// AppendVarInt appends the VarInt encoding of value to dst.
func AppendVarInt(dst []byte, value int32) []byte {
	uvalue := uint32(value)
	for {
		temp := byte(uvalue & SEGMENT_BITS)
		uvalue >>= 7
		if uvalue != 0 {
			temp |= CONTINUE_BIT
		}
		dst = append(dst, temp)
		if uvalue == 0 {
			return dst
		}
	}
}

// VarIntLen returns the encoded size of value in bytes.
func VarIntLen(value int32) int {
	uvalue := uint32(value)
	n := 1
	for uvalue >= CONTINUE_BIT {
		uvalue >>= 7
		n++
	}
	return n
}

// ReadVarIntFrom decodes a VarInt directly from a stream. A clean end of
// stream before the first byte is reported as io.EOF; a stream ending inside
// the VarInt is ErrTruncatedData.
func ReadVarIntFrom(r io.ByteReader) (int32, error) {
	var value uint32
	for i := 0; i < MaxVarIntLen; i++ {
		c, err := r.ReadByte()
		if err != nil {
			if i > 0 && errors.Is(err, io.EOF) {
				return 0, errors.Join(ErrTruncatedData, io.ErrUnexpectedEOF)
			}
			return 0, err
		}
		if i == MaxVarIntLen-1 && c&varIntOverflowBits != 0 {
			return 0, ErrMalformedVarInt
		}
		value |= uint32(c&SEGMENT_BITS) << (7 * i)
		if c&CONTINUE_BIT == 0 {
			return int32(value), nil
		}
	}
	return 0, ErrMalformedVarInt
}

// WriteVarIntTo encodes value onto w.
func WriteVarIntTo(w io.Writer, value int32) error {
	var buf [MaxVarIntLen]byte
	_, err := w.Write(AppendVarInt(buf[:0], value))
	return err
}
