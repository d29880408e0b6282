package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBufferCursor(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3, 4, 5})
	if b.Len() != 5 || b.Remaining() != 5 {
		t.Fatalf("Len/Remaining = %d/%d, 期望 5/5", b.Len(), b.Remaining())
	}
	if err := b.Skip(2); err != nil {
		t.Fatal(err)
	}
	if b.Offset() != 2 {
		t.Errorf("Offset() = %d, 期望 2", b.Offset())
	}
	p, err := b.ReadBytes(2)
	if err != nil || !bytes.Equal(p, []byte{3, 4}) {
		t.Errorf("ReadBytes(2) = %v, %v", p, err)
	}
	if err := b.SetOffset(0); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), []byte{1, 2, 3, 4, 5}) {
		t.Errorf("SetOffset(0) 后 Bytes() = %v", b.Bytes())
	}
	if rest := b.ReadRest(); len(rest) != 5 || b.Remaining() != 0 {
		t.Errorf("ReadRest() = %v, Remaining = %d", rest, b.Remaining())
	}
}

func TestBufferBounds(t *testing.T) {
	tests := []struct {
		name    string
		op      func(b *Buffer) error
		wantErr error
	}{
		{"读取超出末尾", func(b *Buffer) error { _, err := b.ReadBytes(4); return err }, ErrTruncatedData},
		{"负长度读取", func(b *Buffer) error { _, err := b.ReadBytes(-1); return err }, ErrNegativeLength},
		{"跳过超出末尾", func(b *Buffer) error { return b.Skip(4) }, ErrTruncatedData},
		{"偏移量越界", func(b *Buffer) error { return b.SetOffset(4) }, ErrTruncatedData},
		{"负偏移量", func(b *Buffer) error { return b.SetOffset(-1) }, ErrTruncatedData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer([]byte{1, 2, 3})
			if err := tt.op(b); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, 期望 %v", err, tt.wantErr)
			}
			if b.Offset() != 0 {
				t.Errorf("失败操作移动了游标到 %d", b.Offset())
			}
		})
	}
}

func TestBufferReadByteEmpty(t *testing.T) {
	b := NewBuffer(nil)
	if _, err := b.ReadByte(); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("ReadByte() error = %v, 期望 ErrTruncatedData", err)
	}
	if _, err := b.Read(make([]byte, 1)); err != io.EOF {
		t.Errorf("Read() error = %v, 期望 io.EOF", err)
	}
}

func TestBufferToOwned(t *testing.T) {
	b := NewBuffer(nil)
	b.WriteVarInt(300)
	b.AppendBytes([]byte{0xAA})
	_, _ = b.ReadByte()

	owned := b.ToOwned()
	if !bytes.Equal(owned, []byte{0xAC, 0x02, 0xAA}) {
		t.Errorf("ToOwned() = %x", owned)
	}
	owned[0] = 0
	if b.data[0] != 0xAC {
		t.Error("ToOwned() 返回的切片与缓冲区共享内存")
	}

	b.Reset()
	if b.Len() != 0 || b.Offset() != 0 {
		t.Errorf("Reset() 后 Len=%d Offset=%d", b.Len(), b.Offset())
	}
}
