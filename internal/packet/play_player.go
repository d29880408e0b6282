package packet

import "github.com/Versifine/mclink/internal/protocol"

// Chat positions.
const (
	ChatPositionChat   int8 = 0
	ChatPositionSystem int8 = 1
	ChatPositionHotbar int8 = 2
)

// ChatMessage carries a JSON text component.
type ChatMessage struct {
	playClientbound
	JSON     string
	Position int8
}

func (*ChatMessage) ID() int32 { return S2CChatMessage }

func (p *ChatMessage) Encode(b *protocol.Buffer) error {
	if err := b.WriteString(p.JSON); err != nil {
		return err
	}
	b.WriteInt8(p.Position)
	return nil
}

func (p *ChatMessage) Decode(b *protocol.Buffer) (err error) {
	if p.JSON, err = b.ReadString(); err != nil {
		return err
	}
	p.Position, err = b.ReadInt8()
	return err
}

type PluginMessage struct {
	playClientbound
	Channel string
	Data    []byte
}

func (*PluginMessage) ID() int32 { return S2CPluginMessage }

func (p *PluginMessage) Encode(b *protocol.Buffer) error {
	return encodePluginMessage(b, p.Channel, p.Data)
}

func (p *PluginMessage) Decode(b *protocol.Buffer) (err error) {
	p.Channel, p.Data, err = decodePluginMessage(b)
	return err
}

// Disconnect is sent by the server before it closes a Play connection.
type Disconnect struct {
	playClientbound
	Reason string
}

func (*Disconnect) ID() int32 { return S2CDisconnect }

func (p *Disconnect) Encode(b *protocol.Buffer) error { return b.WriteString(p.Reason) }

func (p *Disconnect) Decode(b *protocol.Buffer) (err error) {
	p.Reason, err = b.ReadString()
	return err
}

// KeepAlive must be answered with a KeepAliveServerbound carrying the same id.
type KeepAlive struct {
	playClientbound
	KeepAliveID int32
}

func (*KeepAlive) ID() int32 { return S2CKeepAlive }

func (p *KeepAlive) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.KeepAliveID)
	return nil
}

func (p *KeepAlive) Decode(b *protocol.Buffer) (err error) {
	p.KeepAliveID, err = b.ReadVarInt()
	return err
}

type JoinGame struct {
	playClientbound
	EntityID         int32
	GameMode         uint8
	Dimension        int32
	Difficulty       uint8
	MaxPlayers       uint8
	LevelType        string
	ReducedDebugInfo bool
}

func (*JoinGame) ID() int32 { return S2CJoinGame }

func (p *JoinGame) Encode(b *protocol.Buffer) error {
	b.WriteInt32(p.EntityID)
	b.WriteUnsignedByte(p.GameMode)
	b.WriteInt32(p.Dimension)
	b.WriteUnsignedByte(p.Difficulty)
	b.WriteUnsignedByte(p.MaxPlayers)
	if err := b.WriteStringMax(p.LevelType, 16); err != nil {
		return err
	}
	b.WriteBool(p.ReducedDebugInfo)
	return nil
}

func (p *JoinGame) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadInt32(); err != nil {
		return err
	}
	if p.GameMode, err = b.ReadUnsignedByte(); err != nil {
		return err
	}
	if p.Dimension, err = b.ReadInt32(); err != nil {
		return err
	}
	if p.Difficulty, err = b.ReadUnsignedByte(); err != nil {
		return err
	}
	if p.MaxPlayers, err = b.ReadUnsignedByte(); err != nil {
		return err
	}
	if p.LevelType, err = b.ReadStringMax(16); err != nil {
		return err
	}
	p.ReducedDebugInfo, err = b.ReadBool()
	return err
}

type Respawn struct {
	playClientbound
	Dimension  int32
	Difficulty uint8
	GameMode   uint8
	LevelType  string
}

func (*Respawn) ID() int32 { return S2CRespawn }

func (p *Respawn) Encode(b *protocol.Buffer) error {
	b.WriteInt32(p.Dimension)
	b.WriteUnsignedByte(p.Difficulty)
	b.WriteUnsignedByte(p.GameMode)
	return b.WriteStringMax(p.LevelType, 16)
}

func (p *Respawn) Decode(b *protocol.Buffer) (err error) {
	if p.Dimension, err = b.ReadInt32(); err != nil {
		return err
	}
	if p.Difficulty, err = b.ReadUnsignedByte(); err != nil {
		return err
	}
	if p.GameMode, err = b.ReadUnsignedByte(); err != nil {
		return err
	}
	p.LevelType, err = b.ReadStringMax(16)
	return err
}

type PlayerAbilities struct {
	playClientbound
	Flags               int8
	FlyingSpeed         float32
	FieldOfViewModifier float32
}

func (*PlayerAbilities) ID() int32 { return S2CPlayerAbilities }

func (p *PlayerAbilities) Encode(b *protocol.Buffer) error {
	b.WriteInt8(p.Flags)
	b.WriteFloat(p.FlyingSpeed)
	b.WriteFloat(p.FieldOfViewModifier)
	return nil
}

func (p *PlayerAbilities) Decode(b *protocol.Buffer) (err error) {
	if p.Flags, err = b.ReadInt8(); err != nil {
		return err
	}
	if p.FlyingSpeed, err = b.ReadFloat(); err != nil {
		return err
	}
	p.FieldOfViewModifier, err = b.ReadFloat()
	return err
}

// Relative flags of PlayerPositionAndLook. A set bit means the field is an
// offset from the current value.
const (
	RelativeX     int8 = 0x01
	RelativeY     int8 = 0x02
	RelativeZ     int8 = 0x04
	RelativeYaw   int8 = 0x08
	RelativePitch int8 = 0x10
)

// PlayerPositionAndLook teleports the player. It must be confirmed with
// TeleportConfirm.
type PlayerPositionAndLook struct {
	playClientbound
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      int8
	TeleportID int32
}

func (*PlayerPositionAndLook) ID() int32 { return S2CPlayerPositionAndLook }

func (p *PlayerPositionAndLook) Encode(b *protocol.Buffer) error {
	b.WriteDouble(p.X)
	b.WriteDouble(p.Y)
	b.WriteDouble(p.Z)
	b.WriteFloat(p.Yaw)
	b.WriteFloat(p.Pitch)
	b.WriteInt8(p.Flags)
	b.WriteVarInt(p.TeleportID)
	return nil
}

func (p *PlayerPositionAndLook) Decode(b *protocol.Buffer) (err error) {
	if p.X, p.Y, p.Z, err = readVec3d(b); err != nil {
		return err
	}
	if p.Yaw, err = b.ReadFloat(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadFloat(); err != nil {
		return err
	}
	if p.Flags, err = b.ReadInt8(); err != nil {
		return err
	}
	p.TeleportID, err = b.ReadVarInt()
	return err
}

type HeldItemChange struct {
	playClientbound
	Slot int8
}

func (*HeldItemChange) ID() int32 { return S2CHeldItemChange }

func (p *HeldItemChange) Encode(b *protocol.Buffer) error {
	b.WriteInt8(p.Slot)
	return nil
}

func (p *HeldItemChange) Decode(b *protocol.Buffer) (err error) {
	p.Slot, err = b.ReadInt8()
	return err
}

type SetSlot struct {
	playClientbound
	WindowID int8
	SlotNum  int16
	Item     protocol.Slot
}

func (*SetSlot) ID() int32 { return S2CSetSlot }

func (p *SetSlot) Encode(b *protocol.Buffer) error {
	b.WriteInt8(p.WindowID)
	b.WriteInt16(p.SlotNum)
	return p.Item.Encode(b)
}

func (p *SetSlot) Decode(b *protocol.Buffer) (err error) {
	if p.WindowID, err = b.ReadInt8(); err != nil {
		return err
	}
	if p.SlotNum, err = b.ReadInt16(); err != nil {
		return err
	}
	return p.Item.Decode(b)
}

type SetExperience struct {
	playClientbound
	ExperienceBar   float32
	Level           int32
	TotalExperience int32
}

func (*SetExperience) ID() int32 { return S2CSetExperience }

func (p *SetExperience) Encode(b *protocol.Buffer) error {
	b.WriteFloat(p.ExperienceBar)
	b.WriteVarInt(p.Level)
	b.WriteVarInt(p.TotalExperience)
	return nil
}

func (p *SetExperience) Decode(b *protocol.Buffer) (err error) {
	if p.ExperienceBar, err = b.ReadFloat(); err != nil {
		return err
	}
	if p.Level, err = b.ReadVarInt(); err != nil {
		return err
	}
	p.TotalExperience, err = b.ReadVarInt()
	return err
}

type UpdateHealth struct {
	playClientbound
	Health         float32
	Food           int32
	FoodSaturation float32
}

func (*UpdateHealth) ID() int32 { return S2CUpdateHealth }

func (p *UpdateHealth) Encode(b *protocol.Buffer) error {
	b.WriteFloat(p.Health)
	b.WriteVarInt(p.Food)
	b.WriteFloat(p.FoodSaturation)
	return nil
}

func (p *UpdateHealth) Decode(b *protocol.Buffer) (err error) {
	if p.Health, err = b.ReadFloat(); err != nil {
		return err
	}
	if p.Food, err = b.ReadVarInt(); err != nil {
		return err
	}
	p.FoodSaturation, err = b.ReadFloat()
	return err
}
