package protocol

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrTruncatedData             = errors.New("truncated data")
	ErrMalformedVarInt           = errors.New("varint is too long")
	ErrMalformedText             = errors.New("malformed text")
	ErrNegativeLength            = errors.New("negative length")
	ErrCompressionLengthMismatch = errors.New("inflated size does not match declared length")
	ErrEmptyFrame                = errors.New("empty frame")
	ErrFrameTooLarge             = errors.New("frame size exceeds maximum allowed")
	ErrConnectionLost            = errors.New("connection lost")
	ErrCryptoNegotiation         = errors.New("crypto negotiation failed")
	ErrEncryptionEnabled         = errors.New("encryption already enabled")
	ErrIllegalTransition         = errors.New("illegal state transition")
	ErrInvalidNBTType            = errors.New("invalid NBT type")
	ErrInvalidMetadataType       = errors.New("invalid entity metadata type")
)

// FrameError reports a failure that happened after a complete frame was
// consumed from the stream. The stream is still aligned on the next frame.
type FrameError struct {
	Length int
	Err    error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame (%d bytes): %v", e.Length, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// IsRecoverable reports whether reading may continue after err.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, ErrConnectionLost) {
		return false
	}
	var fe *FrameError
	return errors.As(err, &fe)
}
