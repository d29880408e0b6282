package protocol

import (
	"fmt"

	"github.com/google/uuid"
)

// MetadataType is the wire tag selecting the value variant of a metadata entry.
type MetadataType uint8

const (
	MetaTypeByte MetadataType = iota
	MetaTypeVarInt
	MetaTypeFloat
	MetaTypeString
	MetaTypeChat
	MetaTypeSlot
	MetaTypeBool
	MetaTypeRotation
	MetaTypePosition
	MetaTypeOptPosition
	MetaTypeDirection
	MetaTypeOptUUID
	MetaTypeOptBlockID
)

// metadataEnd terminates the entry list.
const metadataEnd = 0xFF

// MetadataValue is one of the Meta* variants below.
type MetadataValue interface {
	Type() MetadataType
	encode(b *Buffer) error
}

type (
	MetaByte      int8
	MetaVarInt    int32
	MetaFloat     float32
	MetaString    string
	MetaChat      string // JSON text component
	MetaSlot      Slot
	MetaBool      bool
	MetaDirection int32
	// MetaOptBlockID is 0 for "absent", otherwise the block state id.
	MetaOptBlockID int32
)

type MetaRotation struct {
	X, Y, Z float32
}

type MetaPosition Position

type MetaOptPosition struct {
	Present  bool
	Position Position
}

type MetaOptUUID struct {
	Present bool
	UUID    uuid.UUID
}

func (MetaByte) Type() MetadataType        { return MetaTypeByte }
func (MetaVarInt) Type() MetadataType      { return MetaTypeVarInt }
func (MetaFloat) Type() MetadataType       { return MetaTypeFloat }
func (MetaString) Type() MetadataType      { return MetaTypeString }
func (MetaChat) Type() MetadataType        { return MetaTypeChat }
func (MetaSlot) Type() MetadataType        { return MetaTypeSlot }
func (MetaBool) Type() MetadataType        { return MetaTypeBool }
func (MetaRotation) Type() MetadataType    { return MetaTypeRotation }
func (MetaPosition) Type() MetadataType    { return MetaTypePosition }
func (MetaOptPosition) Type() MetadataType { return MetaTypeOptPosition }
func (MetaDirection) Type() MetadataType   { return MetaTypeDirection }
func (MetaOptUUID) Type() MetadataType     { return MetaTypeOptUUID }
func (MetaOptBlockID) Type() MetadataType  { return MetaTypeOptBlockID }

func (v MetaByte) encode(b *Buffer) error   { b.WriteInt8(int8(v)); return nil }
func (v MetaVarInt) encode(b *Buffer) error { b.WriteVarInt(int32(v)); return nil }
func (v MetaFloat) encode(b *Buffer) error  { b.WriteFloat(float32(v)); return nil }
func (v MetaString) encode(b *Buffer) error { return b.WriteString(string(v)) }
func (v MetaChat) encode(b *Buffer) error   { return b.WriteString(string(v)) }
func (v MetaSlot) encode(b *Buffer) error   { return Slot(v).Encode(b) }
func (v MetaBool) encode(b *Buffer) error   { b.WriteBool(bool(v)); return nil }

func (v MetaRotation) encode(b *Buffer) error {
	b.WriteFloat(v.X)
	b.WriteFloat(v.Y)
	b.WriteFloat(v.Z)
	return nil
}

func (v MetaPosition) encode(b *Buffer) error {
	b.WritePosition(Position(v), LayoutXYZ)
	return nil
}

func (v MetaOptPosition) encode(b *Buffer) error {
	b.WriteBool(v.Present)
	if v.Present {
		b.WritePosition(v.Position, LayoutXYZ)
	}
	return nil
}

func (v MetaDirection) encode(b *Buffer) error { b.WriteVarInt(int32(v)); return nil }

func (v MetaOptUUID) encode(b *Buffer) error {
	b.WriteBool(v.Present)
	if v.Present {
		b.WriteUUID(v.UUID)
	}
	return nil
}

func (v MetaOptBlockID) encode(b *Buffer) error { b.WriteVarInt(int32(v)); return nil }

// MetadataEntry is one indexed value of an entity's metadata.
type MetadataEntry struct {
	Index uint8
	Value MetadataValue
}

// Metadata is the ordered entry list of an entity metadata field.
type Metadata []MetadataEntry

// Get returns the value stored at index.
func (m Metadata) Get(index uint8) (MetadataValue, bool) {
	for _, e := range m {
		if e.Index == index {
			return e.Value, true
		}
	}
	return nil, false
}

func (m *Metadata) Decode(b *Buffer) error {
	var out Metadata
	for {
		index, err := b.ReadUnsignedByte()
		if err != nil {
			return err
		}
		if index == metadataEnd {
			break
		}
		tag, err := b.ReadUnsignedByte()
		if err != nil {
			return err
		}
		value, err := readMetadataValue(b, MetadataType(tag))
		if err != nil {
			return fmt.Errorf("metadata index %d: %w", index, err)
		}
		out = append(out, MetadataEntry{Index: index, Value: value})
	}
	*m = out
	return nil
}

func (m Metadata) Encode(b *Buffer) error {
	for _, e := range m {
		if e.Index == metadataEnd {
			return fmt.Errorf("%w: index 0xff is reserved", ErrInvalidMetadataType)
		}
		if e.Value == nil {
			return fmt.Errorf("%w: index %d has no value", ErrInvalidMetadataType, e.Index)
		}
		b.WriteUnsignedByte(e.Index)
		b.WriteUnsignedByte(uint8(e.Value.Type()))
		if err := e.Value.encode(b); err != nil {
			return err
		}
	}
	b.WriteUnsignedByte(metadataEnd)
	return nil
}

func readMetadataValue(b *Buffer, t MetadataType) (MetadataValue, error) {
	switch t {
	case MetaTypeByte:
		v, err := b.ReadInt8()
		return MetaByte(v), err
	case MetaTypeVarInt:
		v, err := b.ReadVarInt()
		return MetaVarInt(v), err
	case MetaTypeFloat:
		v, err := b.ReadFloat()
		return MetaFloat(v), err
	case MetaTypeString:
		v, err := b.ReadString()
		return MetaString(v), err
	case MetaTypeChat:
		v, err := b.ReadString()
		return MetaChat(v), err
	case MetaTypeSlot:
		var s Slot
		err := s.Decode(b)
		return MetaSlot(s), err
	case MetaTypeBool:
		v, err := b.ReadBool()
		return MetaBool(v), err
	case MetaTypeRotation:
		var r MetaRotation
		var err error
		if r.X, err = b.ReadFloat(); err != nil {
			return nil, err
		}
		if r.Y, err = b.ReadFloat(); err != nil {
			return nil, err
		}
		r.Z, err = b.ReadFloat()
		return r, err
	case MetaTypePosition:
		p, err := b.ReadPosition(LayoutXYZ)
		return MetaPosition(p), err
	case MetaTypeOptPosition:
		present, err := b.ReadBool()
		if err != nil || !present {
			return MetaOptPosition{}, err
		}
		p, err := b.ReadPosition(LayoutXYZ)
		return MetaOptPosition{Present: true, Position: p}, err
	case MetaTypeDirection:
		v, err := b.ReadVarInt()
		return MetaDirection(v), err
	case MetaTypeOptUUID:
		present, err := b.ReadBool()
		if err != nil || !present {
			return MetaOptUUID{}, err
		}
		u, err := b.ReadUUID()
		return MetaOptUUID{Present: true, UUID: u}, err
	case MetaTypeOptBlockID:
		v, err := b.ReadVarInt()
		return MetaOptBlockID(v), err
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMetadataType, t)
	}
}
