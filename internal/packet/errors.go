package packet

import (
	"errors"
	"fmt"

	"github.com/Versifine/mclink/internal/protocol"
)

var (
	ErrUnknownPacketID          = errors.New("unknown packet id")
	ErrUnexpectedPacketForState = errors.New("packet not valid in current state")
	ErrUnsupportedProtocol      = errors.New("unsupported protocol version")
	ErrDuplicatePacket          = errors.New("packet already registered")
	ErrWrongDirection           = errors.New("packet sent in wrong direction")
)

// DecodeError describes a frame whose payload could not be turned into a
// message. The connection stays usable.
type DecodeError struct {
	State     protocol.State
	Direction Direction
	ID        int32
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %s packet 0x%02X: %v", e.Direction, e.State, e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
