// Package packet holds the typed messages of protocol 316 (Minecraft 1.11.2),
// the registry that maps wire identities to them and the handler dispatch.
package packet

import (
	"fmt"
	"strings"

	"github.com/Versifine/mclink/internal/protocol"
)

// ProtocolVersion is the only protocol version this package speaks.
const ProtocolVersion int32 = 316

// Layout is the block position packing used by ProtocolVersion.
const Layout = protocol.LayoutXYZ

// Direction tells which peer sends a message.
type Direction int

const (
	Clientbound Direction = iota
	Serverbound
)

func (d Direction) String() string {
	switch d {
	case Clientbound:
		return "clientbound"
	case Serverbound:
		return "serverbound"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Message is a typed packet. Encode writes only the fields; the id is written
// by the registry.
type Message interface {
	ID() int32
	State() protocol.State
	Direction() Direction
	protocol.Encoder
	protocol.Decoder
}

// Embedded markers giving messages their state and direction.
type (
	handshakeServerbound struct{}
	statusClientbound    struct{}
	statusServerbound    struct{}
	loginClientbound     struct{}
	loginServerbound     struct{}
	playClientbound      struct{}
	playServerbound      struct{}
)

func (handshakeServerbound) State() protocol.State { return protocol.Handshake }
func (handshakeServerbound) Direction() Direction  { return Serverbound }
func (statusClientbound) State() protocol.State    { return protocol.Status }
func (statusClientbound) Direction() Direction     { return Clientbound }
func (statusServerbound) State() protocol.State    { return protocol.Status }
func (statusServerbound) Direction() Direction     { return Serverbound }
func (loginClientbound) State() protocol.State     { return protocol.Login }
func (loginClientbound) Direction() Direction      { return Clientbound }
func (loginServerbound) State() protocol.State     { return protocol.Login }
func (loginServerbound) Direction() Direction      { return Serverbound }
func (playClientbound) State() protocol.State      { return protocol.Play }
func (playClientbound) Direction() Direction       { return Clientbound }
func (playServerbound) State() protocol.State      { return protocol.Play }
func (playServerbound) Direction() Direction       { return Serverbound }

// Name returns a short human readable label for logs.
func Name(m Message) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", m), "*packet.")
}
