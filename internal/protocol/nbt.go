package protocol

import (
	"fmt"
	"sort"
)

const (
	TagEnd       = 0
	TagByte      = 1
	TagShort     = 2
	TagInt       = 3
	TagLong      = 4
	TagFloat     = 5
	TagDouble    = 6
	TagByteArray = 7
	TagString    = 8
	TagList      = 9
	TagCompound  = 10
	TagIntArray  = 11
	TagLongArray = 12
)

// maxNBTDepth bounds recursion on hostile input.
const maxNBTDepth = 512

// NBTNode is one tag of an NBT tree. Value holds the Go form of the payload:
// int8, int16, int32, int64, float32, float64, []byte, string, []*NBTNode,
// map[string]*NBTNode, []int32 or []int64.
type NBTNode struct {
	Type  byte
	Value any
}

func (n *NBTNode) String() string {
	switch n.Type {
	case TagByte:
		return fmt.Sprintf("Byte(%d)", n.Value.(int8))
	case TagShort:
		return fmt.Sprintf("Short(%d)", n.Value.(int16))
	case TagInt:
		return fmt.Sprintf("Int(%d)", n.Value.(int32))
	case TagLong:
		return fmt.Sprintf("Long(%d)", n.Value.(int64))
	case TagFloat:
		return fmt.Sprintf("Float(%f)", n.Value.(float32))
	case TagDouble:
		return fmt.Sprintf("Double(%f)", n.Value.(float64))
	case TagByteArray:
		return fmt.Sprintf("ByteArray(%v)", n.Value.([]byte))
	case TagString:
		return fmt.Sprintf("String(%s)", n.Value.(string))
	case TagList:
		return fmt.Sprintf("List(%v)", n.Value.([]*NBTNode))
	case TagCompound:
		return fmt.Sprintf("Compound(%v)", n.Value.(map[string]*NBTNode))
	case TagIntArray:
		return fmt.Sprintf("IntArray(%v)", n.Value.([]int32))
	case TagLongArray:
		return fmt.Sprintf("LongArray(%v)", n.Value.([]int64))
	default:
		return "Unknown"
	}
}

// NamedNBT is a root tag with its name, as carried in slot data.
type NamedNBT struct {
	Name string
	Root *NBTNode
}

// ReadNBT reads an optional named root tag. A leading TAG_End yields nil.
func (b *Buffer) ReadNBT() (*NamedNBT, error) {
	typeByte, err := b.ReadByte()
	if err != nil {
		return nil, err
	}
	if typeByte == TagEnd {
		return nil, nil
	}
	name, err := b.readNBTString()
	if err != nil {
		return nil, err
	}
	root, err := b.readNBTPayload(typeByte, 0)
	if err != nil {
		return nil, err
	}
	return &NamedNBT{Name: name, Root: root}, nil
}

// WriteNBT writes a named root tag, or TAG_End for nil.
func (b *Buffer) WriteNBT(n *NamedNBT) error {
	if n == nil || n.Root == nil {
		b.WriteUnsignedByte(TagEnd)
		return nil
	}
	b.WriteUnsignedByte(n.Root.Type)
	b.writeNBTString(n.Name)
	return b.writeNBTPayload(n.Root)
}

func (b *Buffer) readNBTString() (string, error) {
	length, err := b.ReadUnsignedShort()
	if err != nil {
		return "", err
	}
	p, err := b.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(p), nil
}

func (b *Buffer) writeNBTString(s string) {
	b.WriteUnsignedShort(uint16(len(s)))
	b.data = append(b.data, s...)
}

// readNBTLength reads an array length and checks it against the bytes left,
// so a forged length cannot force a large allocation.
func (b *Buffer) readNBTLength(elemSize int) (int, error) {
	length, err := b.ReadInt32()
	if err != nil {
		return 0, err
	}
	if length < 0 {
		return 0, ErrNegativeLength
	}
	if int(length)*elemSize > b.Remaining() {
		return 0, fmt.Errorf("%w: NBT array of %d elements", ErrTruncatedData, length)
	}
	return int(length), nil
}

func (b *Buffer) readNBTPayload(typeByte byte, depth int) (*NBTNode, error) {
	if depth > maxNBTDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidNBTType, maxNBTDepth)
	}
	switch typeByte {
	case TagByte:
		v, err := b.ReadInt8()
		return &NBTNode{Type: TagByte, Value: v}, err
	case TagShort:
		v, err := b.ReadInt16()
		return &NBTNode{Type: TagShort, Value: v}, err
	case TagInt:
		v, err := b.ReadInt32()
		return &NBTNode{Type: TagInt, Value: v}, err
	case TagLong:
		v, err := b.ReadInt64()
		return &NBTNode{Type: TagLong, Value: v}, err
	case TagFloat:
		v, err := b.ReadFloat()
		return &NBTNode{Type: TagFloat, Value: v}, err
	case TagDouble:
		v, err := b.ReadDouble()
		return &NBTNode{Type: TagDouble, Value: v}, err
	case TagByteArray:
		n, err := b.readNBTLength(1)
		if err != nil {
			return nil, err
		}
		p, _ := b.ReadBytes(n)
		arr := make([]byte, n)
		copy(arr, p)
		return &NBTNode{Type: TagByteArray, Value: arr}, nil
	case TagString:
		s, err := b.readNBTString()
		return &NBTNode{Type: TagString, Value: s}, err
	case TagList:
		elemType, err := b.ReadByte()
		if err != nil {
			return nil, err
		}
		n, err := b.readNBTLength(1)
		if err != nil {
			return nil, err
		}
		if elemType == TagEnd {
			n = 0
		}
		list := make([]*NBTNode, 0, n)
		for i := 0; i < n; i++ {
			elem, err := b.readNBTPayload(elemType, depth+1)
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return &NBTNode{Type: TagList, Value: list}, nil
	case TagCompound:
		compound := make(map[string]*NBTNode)
		for {
			t, err := b.ReadByte()
			if err != nil {
				return nil, err
			}
			if t == TagEnd {
				break
			}
			name, err := b.readNBTString()
			if err != nil {
				return nil, err
			}
			child, err := b.readNBTPayload(t, depth+1)
			if err != nil {
				return nil, err
			}
			compound[name] = child
		}
		return &NBTNode{Type: TagCompound, Value: compound}, nil
	case TagIntArray:
		n, err := b.readNBTLength(4)
		if err != nil {
			return nil, err
		}
		arr := make([]int32, n)
		for i := range arr {
			arr[i], _ = b.ReadInt32()
		}
		return &NBTNode{Type: TagIntArray, Value: arr}, nil
	case TagLongArray:
		n, err := b.readNBTLength(8)
		if err != nil {
			return nil, err
		}
		arr := make([]int64, n)
		for i := range arr {
			arr[i], _ = b.ReadInt64()
		}
		return &NBTNode{Type: TagLongArray, Value: arr}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidNBTType, typeByte)
	}
}

func (b *Buffer) writeNBTPayload(n *NBTNode) error {
	switch v := n.Value.(type) {
	case int8:
		b.WriteInt8(v)
	case int16:
		b.WriteInt16(v)
	case int32:
		b.WriteInt32(v)
	case int64:
		b.WriteInt64(v)
	case float32:
		b.WriteFloat(v)
	case float64:
		b.WriteDouble(v)
	case []byte:
		b.WriteInt32(int32(len(v)))
		b.data = append(b.data, v...)
	case string:
		b.writeNBTString(v)
	case []*NBTNode:
		elemType := byte(TagEnd)
		if len(v) > 0 {
			elemType = v[0].Type
		}
		b.WriteUnsignedByte(elemType)
		b.WriteInt32(int32(len(v)))
		for _, elem := range v {
			if elem.Type != elemType {
				return fmt.Errorf("%w: mixed list element types %d and %d", ErrInvalidNBTType, elemType, elem.Type)
			}
			if err := b.writeNBTPayload(elem); err != nil {
				return err
			}
		}
	case map[string]*NBTNode:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child := v[name]
			b.WriteUnsignedByte(child.Type)
			b.writeNBTString(name)
			if err := b.writeNBTPayload(child); err != nil {
				return err
			}
		}
		b.WriteUnsignedByte(TagEnd)
	case []int32:
		b.WriteInt32(int32(len(v)))
		for _, x := range v {
			b.WriteInt32(x)
		}
	case []int64:
		b.WriteInt32(int32(len(v)))
		for _, x := range v {
			b.WriteInt64(x)
		}
	default:
		return fmt.Errorf("%w: Go type %T", ErrInvalidNBTType, n.Value)
	}
	return nil
}
