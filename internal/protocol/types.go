package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultMaxStringLen is the protocol-wide character limit for text fields.
const DefaultMaxStringLen = 32767

func (b *Buffer) ReadUnsignedByte() (uint8, error) {
	return b.ReadByte()
}

func (b *Buffer) ReadInt8() (int8, error) {
	c, err := b.ReadByte()
	return int8(c), err
}

func (b *Buffer) ReadBool() (bool, error) {
	c, err := b.ReadByte()
	if err != nil {
		return false, err
	}
	return c != 0, nil
}

func (b *Buffer) ReadInt16() (int16, error) {
	v, err := b.ReadUnsignedShort()
	return int16(v), err
}

func (b *Buffer) ReadUnsignedShort() (uint16, error) {
	p, err := b.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (b *Buffer) ReadInt32() (int32, error) {
	p, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p)), nil
}

func (b *Buffer) ReadInt64() (int64, error) {
	p, err := b.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(p)), nil
}

func (b *Buffer) ReadFloat() (float32, error) {
	p, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
}

func (b *Buffer) ReadDouble() (float64, error) {
	p, err := b.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}

func (b *Buffer) ReadUUID() (uuid.UUID, error) {
	p, err := b.ReadBytes(16)
	if err != nil {
		return uuid.Nil, err
	}
	var u uuid.UUID
	copy(u[:], p)
	return u, nil
}

// ReadString reads text bounded by DefaultMaxStringLen characters.
func (b *Buffer) ReadString() (string, error) {
	return b.ReadStringMax(DefaultMaxStringLen)
}

// ReadStringMax reads VarInt-prefixed UTF-8 text of at most maxChars characters.
func (b *Buffer) ReadStringMax(maxChars int) (string, error) {
	length, err := b.ReadVarInt()
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", ErrNegativeLength
	}
	if int(length) > maxChars*utf8.UTFMax {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d characters", ErrMalformedText, length, maxChars)
	}
	p, err := b.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrMalformedText)
	}
	if n := utf8.RuneCount(p); n > maxChars {
		return "", fmt.Errorf("%w: %d characters exceeds limit of %d", ErrMalformedText, n, maxChars)
	}
	return string(p), nil
}

// ReadByteArray reads a VarInt length followed by that many bytes.
func (b *Buffer) ReadByteArray() ([]byte, error) {
	length, err := b.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, ErrNegativeLength
	}
	p, err := b.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

func (b *Buffer) WriteUnsignedByte(v uint8) { b.data = append(b.data, v) }

func (b *Buffer) WriteInt8(v int8) { b.data = append(b.data, byte(v)) }

func (b *Buffer) WriteBool(v bool) {
	var c byte
	if v {
		c = 1
	}
	b.data = append(b.data, c)
}

func (b *Buffer) WriteInt16(v int16) { b.WriteUnsignedShort(uint16(v)) }

func (b *Buffer) WriteUnsignedShort(v uint16) {
	b.data = binary.BigEndian.AppendUint16(b.data, v)
}

func (b *Buffer) WriteInt32(v int32) {
	b.data = binary.BigEndian.AppendUint32(b.data, uint32(v))
}

func (b *Buffer) WriteInt64(v int64) {
	b.data = binary.BigEndian.AppendUint64(b.data, uint64(v))
}

func (b *Buffer) WriteFloat(v float32) {
	b.data = binary.BigEndian.AppendUint32(b.data, math.Float32bits(v))
}

func (b *Buffer) WriteDouble(v float64) {
	b.data = binary.BigEndian.AppendUint64(b.data, math.Float64bits(v))
}

func (b *Buffer) WriteUUID(u uuid.UUID) {
	b.data = append(b.data, u[:]...)
}

// WriteString writes s with the default character limit.
func (b *Buffer) WriteString(s string) error {
	return b.WriteStringMax(s, DefaultMaxStringLen)
}

// WriteStringMax writes s as VarInt-prefixed UTF-8, rejecting text the peer
// would refuse to decode.
func (b *Buffer) WriteStringMax(s string, maxChars int) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8", ErrMalformedText)
	}
	if n := utf8.RuneCountInString(s); n > maxChars {
		return fmt.Errorf("%w: %d characters exceeds limit of %d", ErrMalformedText, n, maxChars)
	}
	b.WriteVarInt(int32(len(s)))
	b.data = append(b.data, s...)
	return nil
}

func (b *Buffer) WriteByteArray(p []byte) {
	b.WriteVarInt(int32(len(p)))
	b.data = append(b.data, p...)
}

// Angle is a rotation in steps of 1/256 of a full turn.
type Angle uint8

// Degrees converts the angle to degrees in [0, 360).
func (a Angle) Degrees() float32 {
	return float32(a) * 360.0 / 256.0
}

// AngleFromDegrees converts degrees to the nearest step, wrapping around.
func AngleFromDegrees(deg float32) Angle {
	return Angle(int32(math.Round(float64(deg)*256.0/360.0)) & 0xFF)
}

func (b *Buffer) ReadAngle() (Angle, error) {
	c, err := b.ReadByte()
	return Angle(c), err
}

func (b *Buffer) WriteAngle(a Angle) { b.data = append(b.data, byte(a)) }

// FixedPoint is a sub-block coordinate stored as an integer number of 1/32 units.
type FixedPoint int32

// Float returns the decoded value.
func (f FixedPoint) Float() float64 {
	return float64(f) / 32.0
}

// FixedPointFromFloat rounds v to the nearest 1/32 unit.
func FixedPointFromFloat(v float64) FixedPoint {
	return FixedPoint(math.Round(v * 32.0))
}

// FixedPoint8 is the single-byte form of FixedPoint.
type FixedPoint8 int8

func (f FixedPoint8) Float() float64 {
	return float64(f) / 32.0
}

func (b *Buffer) ReadFixedPoint() (FixedPoint, error) {
	v, err := b.ReadInt32()
	return FixedPoint(v), err
}

func (b *Buffer) WriteFixedPoint(f FixedPoint) { b.WriteInt32(int32(f)) }

func (b *Buffer) ReadFixedPoint8() (FixedPoint8, error) {
	v, err := b.ReadInt8()
	return FixedPoint8(v), err
}

func (b *Buffer) WriteFixedPoint8(f FixedPoint8) { b.WriteInt8(int8(f)) }
