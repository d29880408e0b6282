package protocol

import "fmt"

// PositionLayout selects how a block position is packed into 64 bits.
type PositionLayout int

const (
	// LayoutXYZ packs x (26 bits), y (12 bits), z (26 bits). Used up to 1.13.
	LayoutXYZ PositionLayout = iota
	// LayoutXZY packs x (26 bits), z (26 bits), y (12 bits). Used since 1.14.
	LayoutXZY
)

const (
	positionXZMask = 0x3FFFFFF
	positionYMask  = 0xFFF
)

// Position is a block coordinate. X and Z must fit in 26 signed bits and Y in 12.
type Position struct {
	X int32
	Y int32
	Z int32
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// InRange reports whether every component survives packing unchanged.
func (p Position) InRange() bool {
	return p.X >= -1<<25 && p.X < 1<<25 &&
		p.Z >= -1<<25 && p.Z < 1<<25 &&
		p.Y >= -1<<11 && p.Y < 1<<11
}

// Pack encodes p with the given layout. Out-of-range components are truncated.
func (p Position) Pack(layout PositionLayout) uint64 {
	x := uint64(p.X) & positionXZMask
	y := uint64(p.Y) & positionYMask
	z := uint64(p.Z) & positionXZMask
	if layout == LayoutXZY {
		return x<<38 | z<<12 | y
	}
	return x<<38 | y<<26 | z
}

// UnpackPosition decodes v, sign-extending each component.
func UnpackPosition(v uint64, layout PositionLayout) Position {
	var x, y, z int64
	if layout == LayoutXZY {
		x = int64(v) >> 38
		z = int64(v<<26) >> 38
		y = int64(v<<52) >> 52
	} else {
		x = int64(v) >> 38
		y = int64(v<<26) >> 52
		z = int64(v<<38) >> 38
	}
	return Position{X: int32(x), Y: int32(y), Z: int32(z)}
}

func (b *Buffer) ReadPosition(layout PositionLayout) (Position, error) {
	v, err := b.ReadInt64()
	if err != nil {
		return Position{}, err
	}
	return UnpackPosition(uint64(v), layout), nil
}

func (b *Buffer) WritePosition(p Position, layout PositionLayout) {
	b.WriteInt64(int64(p.Pack(layout)))
}
