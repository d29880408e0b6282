package packet

import "github.com/Versifine/mclink/internal/protocol"

// Handshake opens every connection and selects Status or Login.
type Handshake struct {
	handshakeServerbound
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func (*Handshake) ID() int32 { return C2SHandshake }

func (p *Handshake) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.ProtocolVersion)
	if err := b.WriteStringMax(p.ServerAddress, 255); err != nil {
		return err
	}
	b.WriteUnsignedShort(p.ServerPort)
	b.WriteVarInt(p.NextState)
	return nil
}

func (p *Handshake) Decode(b *protocol.Buffer) error {
	var err error
	if p.ProtocolVersion, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.ServerAddress, err = b.ReadStringMax(255); err != nil {
		return err
	}
	if p.ServerPort, err = b.ReadUnsignedShort(); err != nil {
		return err
	}
	p.NextState, err = b.ReadVarInt()
	return err
}
