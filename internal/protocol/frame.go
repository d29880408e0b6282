package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

const (
	DefaultMaxFrameLen        = 2097152 // 2MB
	DefaultMaxUncompressedLen = 8388608 // 8MB
)

// FrameConfig bounds what a peer may make us allocate.
type FrameConfig struct {
	MaxFrameLen        int
	MaxUncompressedLen int
	// CompressionLevel is a zlib level. Nil selects zlib.DefaultCompression,
	// so zlib.NoCompression (0) can be set explicitly.
	CompressionLevel *int
}

// DefaultFrameConfig returns the limits used when none are configured.
func DefaultFrameConfig() FrameConfig {
	level := zlib.DefaultCompression
	return FrameConfig{
		MaxFrameLen:        DefaultMaxFrameLen,
		MaxUncompressedLen: DefaultMaxUncompressedLen,
		CompressionLevel:   &level,
	}
}

func (c FrameConfig) withDefaults() FrameConfig {
	d := DefaultFrameConfig()
	if c.MaxFrameLen > 0 {
		d.MaxFrameLen = c.MaxFrameLen
	}
	if c.MaxUncompressedLen > 0 {
		d.MaxUncompressedLen = c.MaxUncompressedLen
	}
	if c.CompressionLevel != nil {
		level := *c.CompressionLevel
		d.CompressionLevel = &level
	}
	return d
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

// FrameReader extracts length-prefixed frames from a stream.
type FrameReader struct {
	src byteReader
	cfg FrameConfig
	inf inflater
}

// NewFrameReader reads frames from r. Readers that do not implement
// io.ByteReader are wrapped with bufio.
func NewFrameReader(r io.Reader, cfg FrameConfig) *FrameReader {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &FrameReader{src: br, cfg: cfg.withDefaults()}
}

// ReadFrame reads one frame and returns its payload, positioned at the packet
// id, together with the number of bytes the frame occupied on the wire.
// A negative threshold means compression is disabled.
func (f *FrameReader) ReadFrame(threshold int) (*Buffer, int, error) {
	length, err := ReadVarIntFrom(f.src)
	if err != nil {
		return nil, 0, err
	}
	if length <= 0 {
		return nil, 0, fmt.Errorf("%w: declared length %d", ErrEmptyFrame, length)
	}
	if int(length) > f.cfg.MaxFrameLen {
		return nil, 0, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, f.cfg.MaxFrameLen)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(f.src, data); err != nil {
		return nil, 0, errors.Join(ErrTruncatedData, err)
	}
	wire := VarIntLen(length) + int(length)
	buf := NewBuffer(data)
	if threshold < 0 {
		return buf, wire, nil
	}

	dataLen, err := buf.ReadVarInt()
	if err != nil {
		return nil, wire, &FrameError{Length: int(length), Err: err}
	}
	switch {
	case dataLen == 0:
		return NewBuffer(buf.ReadRest()), wire, nil
	case dataLen < 0:
		return nil, wire, &FrameError{Length: int(length), Err: ErrNegativeLength}
	case int(dataLen) > f.cfg.MaxUncompressedLen:
		return nil, wire, &FrameError{
			Length: int(length),
			Err:    fmt.Errorf("%w: uncompressed %d > %d", ErrFrameTooLarge, dataLen, f.cfg.MaxUncompressedLen),
		}
	}
	out, err := f.inf.inflate(buf.Bytes(), int(dataLen))
	if err != nil {
		return nil, wire, &FrameError{Length: int(length), Err: err}
	}
	return NewBuffer(out), wire, nil
}

// FrameWriter frames payloads onto a stream. It is not safe for concurrent use.
type FrameWriter struct {
	dst   io.Writer
	cfg   FrameConfig
	def   *deflater
	body  bytes.Buffer
	frame bytes.Buffer
}

func NewFrameWriter(w io.Writer, cfg FrameConfig) *FrameWriter {
	cfg = cfg.withDefaults()
	return &FrameWriter{dst: w, cfg: cfg, def: newDeflater(*cfg.CompressionLevel)}
}

// WriteFrame frames payload (packet id + fields) and writes it with a single
// call to the underlying writer. It returns the frame's size on the wire.
func (f *FrameWriter) WriteFrame(payload []byte, threshold int) (int, error) {
	f.body.Reset()
	switch {
	case threshold < 0:
		f.body.Write(payload)
	case len(payload) >= threshold:
		_ = WriteVarIntTo(&f.body, int32(len(payload)))
		if err := f.def.deflate(&f.body, payload); err != nil {
			return 0, fmt.Errorf("compress frame: %w", err)
		}
	default:
		f.body.WriteByte(0)
		f.body.Write(payload)
	}
	if f.body.Len() > f.cfg.MaxFrameLen {
		return 0, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, f.body.Len(), f.cfg.MaxFrameLen)
	}

	f.frame.Reset()
	_ = WriteVarIntTo(&f.frame, int32(f.body.Len()))
	f.frame.Write(f.body.Bytes())

	n, err := f.dst.Write(f.frame.Bytes())
	if err != nil {
		return n, errors.Join(ErrConnectionLost, err)
	}
	if n != f.frame.Len() {
		return n, errors.Join(ErrConnectionLost, io.ErrShortWrite)
	}
	return n, nil
}
