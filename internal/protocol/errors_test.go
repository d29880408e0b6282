package protocol

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

// TestErrorMessages 测试错误消息内容
func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrMalformedVarInt", ErrMalformedVarInt, "varint is too long"},
		{"ErrFrameTooLarge", ErrFrameTooLarge, "frame size exceeds maximum allowed"},
		{"ErrInvalidNBTType", ErrInvalidNBTType, "invalid NBT type"},
		{"ErrIllegalTransition", ErrIllegalTransition, "illegal state transition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("%s.Error() = %q, 期望 %q", tt.name, tt.err.Error(), tt.expected)
			}
		})
	}
}

func TestFrameErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("read: %w", &FrameError{Length: 12, Err: ErrCompressionLengthMismatch})
	if !errors.Is(err, ErrCompressionLengthMismatch) {
		t.Error("errors.Is 无法穿透 FrameError")
	}
	var fe *FrameError
	if !errors.As(err, &fe) || fe.Length != 12 {
		t.Errorf("errors.As = %v, Length = %d", fe, fe.Length)
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"EOF", io.EOF, false},
		{"连接丢失", errors.Join(ErrConnectionLost, io.ErrClosedPipe), false},
		{"帧内错误", &FrameError{Length: 3, Err: ErrNegativeLength}, true},
		{"截断", ErrTruncatedData, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoverable(tt.err); got != tt.want {
				t.Errorf("IsRecoverable(%v) = %v, 期望 %v", tt.err, got, tt.want)
			}
		})
	}
}
