package packet

import "github.com/Versifine/mclink/internal/protocol"

type StatusRequest struct {
	statusServerbound
}

func (*StatusRequest) ID() int32                     { return C2SStatusRequest }
func (*StatusRequest) Encode(*protocol.Buffer) error { return nil }
func (*StatusRequest) Decode(*protocol.Buffer) error { return nil }

type StatusPing struct {
	statusServerbound
	Payload int64
}

func (*StatusPing) ID() int32 { return C2SStatusPing }

func (p *StatusPing) Encode(b *protocol.Buffer) error {
	b.WriteInt64(p.Payload)
	return nil
}

func (p *StatusPing) Decode(b *protocol.Buffer) (err error) {
	p.Payload, err = b.ReadInt64()
	return err
}

// StatusResponse carries the server list JSON document.
type StatusResponse struct {
	statusClientbound
	JSON string
}

func (*StatusResponse) ID() int32 { return S2CStatusResponse }

func (p *StatusResponse) Encode(b *protocol.Buffer) error { return b.WriteString(p.JSON) }

func (p *StatusResponse) Decode(b *protocol.Buffer) (err error) {
	p.JSON, err = b.ReadString()
	return err
}

type StatusPong struct {
	statusClientbound
	Payload int64
}

func (*StatusPong) ID() int32 { return S2CStatusPong }

func (p *StatusPong) Encode(b *protocol.Buffer) error {
	b.WriteInt64(p.Payload)
	return nil
}

func (p *StatusPong) Decode(b *protocol.Buffer) (err error) {
	p.Payload, err = b.ReadInt64()
	return err
}
