package packet

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Versifine/mclink/internal/protocol"
)

const maxUsernameLen = 16

type LoginStart struct {
	loginServerbound
	Username string
}

func (*LoginStart) ID() int32 { return C2SLoginStart }

func (p *LoginStart) Encode(b *protocol.Buffer) error {
	return b.WriteStringMax(p.Username, maxUsernameLen)
}

func (p *LoginStart) Decode(b *protocol.Buffer) (err error) {
	p.Username, err = b.ReadStringMax(maxUsernameLen)
	return err
}

// EncryptionResponse carries the shared secret and verify token, both
// encrypted with the server's public key.
type EncryptionResponse struct {
	loginServerbound
	SharedSecret []byte
	VerifyToken  []byte
}

func (*EncryptionResponse) ID() int32 { return C2SEncryptionResponse }

func (p *EncryptionResponse) Encode(b *protocol.Buffer) error {
	b.WriteByteArray(p.SharedSecret)
	b.WriteByteArray(p.VerifyToken)
	return nil
}

func (p *EncryptionResponse) Decode(b *protocol.Buffer) (err error) {
	if p.SharedSecret, err = b.ReadByteArray(); err != nil {
		return err
	}
	p.VerifyToken, err = b.ReadByteArray()
	return err
}

// LoginDisconnect ends the login with a JSON chat reason.
type LoginDisconnect struct {
	loginClientbound
	Reason string
}

func (*LoginDisconnect) ID() int32 { return S2CLoginDisconnect }

func (p *LoginDisconnect) Encode(b *protocol.Buffer) error { return b.WriteString(p.Reason) }

func (p *LoginDisconnect) Decode(b *protocol.Buffer) (err error) {
	p.Reason, err = b.ReadString()
	return err
}

// EncryptionRequest asks the client to enable encryption. PublicKey is the
// server's RSA key in DER (PKIX) form.
type EncryptionRequest struct {
	loginClientbound
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func (*EncryptionRequest) ID() int32 { return S2CEncryptionRequest }

func (p *EncryptionRequest) Encode(b *protocol.Buffer) error {
	if err := b.WriteStringMax(p.ServerID, 20); err != nil {
		return err
	}
	b.WriteByteArray(p.PublicKey)
	b.WriteByteArray(p.VerifyToken)
	return nil
}

func (p *EncryptionRequest) Decode(b *protocol.Buffer) (err error) {
	if p.ServerID, err = b.ReadStringMax(20); err != nil {
		return err
	}
	if p.PublicKey, err = b.ReadByteArray(); err != nil {
		return err
	}
	p.VerifyToken, err = b.ReadByteArray()
	return err
}

// LoginSuccess moves the connection to Play. Protocol 316 sends the UUID as
// hyphenated text.
type LoginSuccess struct {
	loginClientbound
	UUID     uuid.UUID
	Username string
}

func (*LoginSuccess) ID() int32 { return S2CLoginSuccess }

func (p *LoginSuccess) Encode(b *protocol.Buffer) error {
	if err := b.WriteStringMax(p.UUID.String(), 36); err != nil {
		return err
	}
	return b.WriteStringMax(p.Username, maxUsernameLen)
}

func (p *LoginSuccess) Decode(b *protocol.Buffer) error {
	s, err := b.ReadStringMax(36)
	if err != nil {
		return err
	}
	if p.UUID, err = uuid.Parse(s); err != nil {
		return fmt.Errorf("%w: uuid %q: %w", protocol.ErrMalformedText, s, err)
	}
	p.Username, err = b.ReadStringMax(maxUsernameLen)
	return err
}

// SetCompression enables compression for frames at or above Threshold bytes.
// A negative threshold disables it.
type SetCompression struct {
	loginClientbound
	Threshold int32
}

func (*SetCompression) ID() int32 { return S2CSetCompression }

func (p *SetCompression) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.Threshold)
	return nil
}

func (p *SetCompression) Decode(b *protocol.Buffer) (err error) {
	p.Threshold, err = b.ReadVarInt()
	return err
}
