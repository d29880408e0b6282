package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// inflater decompresses frame payloads, reusing one zlib reader.
type inflater struct {
	zr  io.ReadCloser
	src bytes.Reader
}

// inflate decompresses src, which must expand to exactly size bytes.
func (f *inflater) inflate(src []byte, size int) ([]byte, error) {
	f.src.Reset(src)
	if f.zr == nil {
		zr, err := zlib.NewReader(&f.src)
		if err != nil {
			return nil, err
		}
		f.zr = zr
	} else if err := f.zr.(zlib.Resetter).Reset(&f.src, nil); err != nil {
		return nil, err
	}

	out := make([]byte, size)
	n, err := io.ReadFull(f.zr, out)
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, fmt.Errorf("%w: declared %d, inflated %d", ErrCompressionLengthMismatch, size, n)
		}
		return nil, err
	}
	// One more byte means the stream is longer than declared.
	var probe [1]byte
	extra, err := f.zr.Read(probe[:])
	if extra > 0 {
		return nil, fmt.Errorf("%w: declared %d, inflated more", ErrCompressionLengthMismatch, size)
	}
	if err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}

// deflater compresses frame payloads, reusing one zlib writer.
type deflater struct {
	zw    *zlib.Writer
	level int
}

func newDeflater(level int) *deflater {
	return &deflater{level: level}
}

// deflate appends the compressed form of payload to dst.
func (d *deflater) deflate(dst *bytes.Buffer, payload []byte) error {
	if d.zw == nil {
		zw, err := zlib.NewWriterLevel(dst, d.level)
		if err != nil {
			return err
		}
		d.zw = zw
	} else {
		d.zw.Reset(dst)
	}
	if _, err := d.zw.Write(payload); err != nil {
		return err
	}
	return d.zw.Close()
}
