package packet

import (
	"github.com/google/uuid"

	"github.com/Versifine/mclink/internal/protocol"
)

type SpawnPlayer struct {
	playClientbound
	EntityID   int32
	PlayerUUID uuid.UUID
	X, Y, Z    float64
	Yaw, Pitch protocol.Angle
	Metadata   protocol.Metadata
}

func (*SpawnPlayer) ID() int32 { return S2CSpawnPlayer }

func (p *SpawnPlayer) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.EntityID)
	b.WriteUUID(p.PlayerUUID)
	b.WriteDouble(p.X)
	b.WriteDouble(p.Y)
	b.WriteDouble(p.Z)
	b.WriteAngle(p.Yaw)
	b.WriteAngle(p.Pitch)
	return p.Metadata.Encode(b)
}

func (p *SpawnPlayer) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.PlayerUUID, err = b.ReadUUID(); err != nil {
		return err
	}
	if p.X, p.Y, p.Z, err = readVec3d(b); err != nil {
		return err
	}
	if p.Yaw, err = b.ReadAngle(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadAngle(); err != nil {
		return err
	}
	return p.Metadata.Decode(b)
}

type EntityStatus struct {
	playClientbound
	EntityID int32
	Status   int8
}

func (*EntityStatus) ID() int32 { return S2CEntityStatus }

func (p *EntityStatus) Encode(b *protocol.Buffer) error {
	b.WriteInt32(p.EntityID)
	b.WriteInt8(p.Status)
	return nil
}

func (p *EntityStatus) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadInt32(); err != nil {
		return err
	}
	p.Status, err = b.ReadInt8()
	return err
}

// MoveDelta is a relative move component: (new*32 - prev*32) * 128.
type MoveDelta int16

// Blocks converts the delta to blocks.
func (d MoveDelta) Blocks() float64 { return float64(d) / 4096.0 }

func readDeltas(b *protocol.Buffer) (dx, dy, dz MoveDelta, err error) {
	var v int16
	if v, err = b.ReadInt16(); err != nil {
		return
	}
	dx = MoveDelta(v)
	if v, err = b.ReadInt16(); err != nil {
		return
	}
	dy = MoveDelta(v)
	v, err = b.ReadInt16()
	dz = MoveDelta(v)
	return
}

func writeDeltas(b *protocol.Buffer, dx, dy, dz MoveDelta) {
	b.WriteInt16(int16(dx))
	b.WriteInt16(int16(dy))
	b.WriteInt16(int16(dz))
}

type EntityRelativeMove struct {
	playClientbound
	EntityID   int32
	DX, DY, DZ MoveDelta
	OnGround   bool
}

func (*EntityRelativeMove) ID() int32 { return S2CEntityRelativeMove }

func (p *EntityRelativeMove) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.EntityID)
	writeDeltas(b, p.DX, p.DY, p.DZ)
	b.WriteBool(p.OnGround)
	return nil
}

func (p *EntityRelativeMove) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.DX, p.DY, p.DZ, err = readDeltas(b); err != nil {
		return err
	}
	p.OnGround, err = b.ReadBool()
	return err
}

type EntityLookAndRelativeMove struct {
	playClientbound
	EntityID   int32
	DX, DY, DZ MoveDelta
	Yaw, Pitch protocol.Angle
	OnGround   bool
}

func (*EntityLookAndRelativeMove) ID() int32 { return S2CEntityLookAndRelativeMove }

func (p *EntityLookAndRelativeMove) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.EntityID)
	writeDeltas(b, p.DX, p.DY, p.DZ)
	b.WriteAngle(p.Yaw)
	b.WriteAngle(p.Pitch)
	b.WriteBool(p.OnGround)
	return nil
}

func (p *EntityLookAndRelativeMove) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.DX, p.DY, p.DZ, err = readDeltas(b); err != nil {
		return err
	}
	if p.Yaw, err = b.ReadAngle(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadAngle(); err != nil {
		return err
	}
	p.OnGround, err = b.ReadBool()
	return err
}

type DestroyEntities struct {
	playClientbound
	EntityIDs []int32
}

func (*DestroyEntities) ID() int32 { return S2CDestroyEntities }

func (p *DestroyEntities) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(int32(len(p.EntityIDs)))
	for _, id := range p.EntityIDs {
		b.WriteVarInt(id)
	}
	return nil
}

func (p *DestroyEntities) Decode(b *protocol.Buffer) error {
	n, err := readCount(b, 1)
	if err != nil {
		return err
	}
	p.EntityIDs = make([]int32, n)
	for i := range p.EntityIDs {
		if p.EntityIDs[i], err = b.ReadVarInt(); err != nil {
			return err
		}
	}
	return nil
}

type EntityMetadata struct {
	playClientbound
	EntityID int32
	Metadata protocol.Metadata
}

func (*EntityMetadata) ID() int32 { return S2CEntityMetadata }

func (p *EntityMetadata) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.EntityID)
	return p.Metadata.Encode(b)
}

func (p *EntityMetadata) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	return p.Metadata.Decode(b)
}

// EntityVelocity is in units of 1/8000 block per tick.
type EntityVelocity struct {
	playClientbound
	EntityID   int32
	VX, VY, VZ int16
}

func (*EntityVelocity) ID() int32 { return S2CEntityVelocity }

func (p *EntityVelocity) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.EntityID)
	b.WriteInt16(p.VX)
	b.WriteInt16(p.VY)
	b.WriteInt16(p.VZ)
	return nil
}

func (p *EntityVelocity) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.VX, err = b.ReadInt16(); err != nil {
		return err
	}
	if p.VY, err = b.ReadInt16(); err != nil {
		return err
	}
	p.VZ, err = b.ReadInt16()
	return err
}

type EntityTeleport struct {
	playClientbound
	EntityID   int32
	X, Y, Z    float64
	Yaw, Pitch protocol.Angle
	OnGround   bool
}

func (*EntityTeleport) ID() int32 { return S2CEntityTeleport }

func (p *EntityTeleport) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.EntityID)
	b.WriteDouble(p.X)
	b.WriteDouble(p.Y)
	b.WriteDouble(p.Z)
	b.WriteAngle(p.Yaw)
	b.WriteAngle(p.Pitch)
	b.WriteBool(p.OnGround)
	return nil
}

func (p *EntityTeleport) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.X, p.Y, p.Z, err = readVec3d(b); err != nil {
		return err
	}
	if p.Yaw, err = b.ReadAngle(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadAngle(); err != nil {
		return err
	}
	p.OnGround, err = b.ReadBool()
	return err
}

// readCount reads a VarInt element count and rejects counts that cannot fit
// in the bytes left, given the smallest encoded element size.
func readCount(b *protocol.Buffer, minElemSize int) (int, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, protocol.ErrNegativeLength
	}
	if int(n)*minElemSize > b.Remaining() {
		return 0, protocol.ErrTruncatedData
	}
	return int(n), nil
}
