package packet

import "github.com/Versifine/mclink/internal/protocol"

// TeleportConfirm acknowledges a PlayerPositionAndLook from the server.
type TeleportConfirm struct {
	playServerbound
	TeleportID int32
}

func (*TeleportConfirm) ID() int32 { return C2STeleportConfirm }

func (p *TeleportConfirm) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.TeleportID)
	return nil
}

func (p *TeleportConfirm) Decode(b *protocol.Buffer) (err error) {
	p.TeleportID, err = b.ReadVarInt()
	return err
}

// maxChatLen is the serverbound chat limit; longer messages kick the client.
const maxChatLen = 256

type ChatMessageServerbound struct {
	playServerbound
	Message string
}

func (*ChatMessageServerbound) ID() int32 { return C2SChatMessage }

func (p *ChatMessageServerbound) Encode(b *protocol.Buffer) error {
	return b.WriteStringMax(p.Message, maxChatLen)
}

func (p *ChatMessageServerbound) Decode(b *protocol.Buffer) (err error) {
	p.Message, err = b.ReadStringMax(maxChatLen)
	return err
}

// ClientStatus actions.
const (
	ActionPerformRespawn int32 = 0
	ActionRequestStats   int32 = 1
	ActionOpenInventory  int32 = 2
)

type ClientStatus struct {
	playServerbound
	Action int32
}

func (*ClientStatus) ID() int32 { return C2SClientStatus }

func (p *ClientStatus) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.Action)
	return nil
}

func (p *ClientStatus) Decode(b *protocol.Buffer) (err error) {
	p.Action, err = b.ReadVarInt()
	return err
}

type ClientSettings struct {
	playServerbound
	Locale             string
	ViewDistance       int8
	ChatMode           int32
	ChatColors         bool
	DisplayedSkinParts uint8
	MainHand           int32
}

func (*ClientSettings) ID() int32 { return C2SClientSettings }

func (p *ClientSettings) Encode(b *protocol.Buffer) error {
	if err := b.WriteStringMax(p.Locale, 16); err != nil {
		return err
	}
	b.WriteInt8(p.ViewDistance)
	b.WriteVarInt(p.ChatMode)
	b.WriteBool(p.ChatColors)
	b.WriteUnsignedByte(p.DisplayedSkinParts)
	b.WriteVarInt(p.MainHand)
	return nil
}

func (p *ClientSettings) Decode(b *protocol.Buffer) (err error) {
	if p.Locale, err = b.ReadStringMax(16); err != nil {
		return err
	}
	if p.ViewDistance, err = b.ReadInt8(); err != nil {
		return err
	}
	if p.ChatMode, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.ChatColors, err = b.ReadBool(); err != nil {
		return err
	}
	if p.DisplayedSkinParts, err = b.ReadUnsignedByte(); err != nil {
		return err
	}
	p.MainHand, err = b.ReadVarInt()
	return err
}

type PluginMessageServerbound struct {
	playServerbound
	Channel string
	Data    []byte
}

func (*PluginMessageServerbound) ID() int32 { return C2SPluginMessage }

func (p *PluginMessageServerbound) Encode(b *protocol.Buffer) error {
	return encodePluginMessage(b, p.Channel, p.Data)
}

func (p *PluginMessageServerbound) Decode(b *protocol.Buffer) (err error) {
	p.Channel, p.Data, err = decodePluginMessage(b)
	return err
}

type KeepAliveServerbound struct {
	playServerbound
	KeepAliveID int32
}

func (*KeepAliveServerbound) ID() int32 { return C2SKeepAlive }

func (p *KeepAliveServerbound) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.KeepAliveID)
	return nil
}

func (p *KeepAliveServerbound) Decode(b *protocol.Buffer) (err error) {
	p.KeepAliveID, err = b.ReadVarInt()
	return err
}

// PlayerPosition reports the feet position of the player.
type PlayerPosition struct {
	playServerbound
	X, FeetY, Z float64
	OnGround    bool
}

func (*PlayerPosition) ID() int32 { return C2SPlayerPosition }

func (p *PlayerPosition) Encode(b *protocol.Buffer) error {
	b.WriteDouble(p.X)
	b.WriteDouble(p.FeetY)
	b.WriteDouble(p.Z)
	b.WriteBool(p.OnGround)
	return nil
}

func (p *PlayerPosition) Decode(b *protocol.Buffer) (err error) {
	if p.X, p.FeetY, p.Z, err = readVec3d(b); err != nil {
		return err
	}
	p.OnGround, err = b.ReadBool()
	return err
}

type PlayerPositionAndLookServerbound struct {
	playServerbound
	X, FeetY, Z float64
	Yaw, Pitch  float32
	OnGround    bool
}

func (*PlayerPositionAndLookServerbound) ID() int32 { return C2SPlayerPositionAndLook }

func (p *PlayerPositionAndLookServerbound) Encode(b *protocol.Buffer) error {
	b.WriteDouble(p.X)
	b.WriteDouble(p.FeetY)
	b.WriteDouble(p.Z)
	b.WriteFloat(p.Yaw)
	b.WriteFloat(p.Pitch)
	b.WriteBool(p.OnGround)
	return nil
}

func (p *PlayerPositionAndLookServerbound) Decode(b *protocol.Buffer) (err error) {
	if p.X, p.FeetY, p.Z, err = readVec3d(b); err != nil {
		return err
	}
	if p.Yaw, err = b.ReadFloat(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadFloat(); err != nil {
		return err
	}
	p.OnGround, err = b.ReadBool()
	return err
}

type PlayerLook struct {
	playServerbound
	Yaw, Pitch float32
	OnGround   bool
}

func (*PlayerLook) ID() int32 { return C2SPlayerLook }

func (p *PlayerLook) Encode(b *protocol.Buffer) error {
	b.WriteFloat(p.Yaw)
	b.WriteFloat(p.Pitch)
	b.WriteBool(p.OnGround)
	return nil
}

func (p *PlayerLook) Decode(b *protocol.Buffer) (err error) {
	if p.Yaw, err = b.ReadFloat(); err != nil {
		return err
	}
	if p.Pitch, err = b.ReadFloat(); err != nil {
		return err
	}
	p.OnGround, err = b.ReadBool()
	return err
}

type PlayerOnGround struct {
	playServerbound
	OnGround bool
}

func (*PlayerOnGround) ID() int32 { return C2SPlayerOnGround }

func (p *PlayerOnGround) Encode(b *protocol.Buffer) error {
	b.WriteBool(p.OnGround)
	return nil
}

func (p *PlayerOnGround) Decode(b *protocol.Buffer) (err error) {
	p.OnGround, err = b.ReadBool()
	return err
}

// PlayerDigging statuses.
const (
	DigStarted   int32 = 0
	DigCancelled int32 = 1
	DigFinished  int32 = 2
	DropStack    int32 = 3
	DropItem     int32 = 4
	FinishUsing  int32 = 5
	SwapHands    int32 = 6
)

type PlayerDigging struct {
	playServerbound
	Status   int32
	Location protocol.Position
	Face     int8
}

func (*PlayerDigging) ID() int32 { return C2SPlayerDigging }

func (p *PlayerDigging) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.Status)
	b.WritePosition(p.Location, Layout)
	b.WriteInt8(p.Face)
	return nil
}

func (p *PlayerDigging) Decode(b *protocol.Buffer) (err error) {
	if p.Status, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.Location, err = b.ReadPosition(Layout); err != nil {
		return err
	}
	p.Face, err = b.ReadInt8()
	return err
}

// EntityAction ids.
const (
	StartSneaking  int32 = 0
	StopSneaking   int32 = 1
	LeaveBed       int32 = 2
	StartSprinting int32 = 3
	StopSprinting  int32 = 4
	StartHorseJump int32 = 5
	StopHorseJump  int32 = 6
	OpenHorseInv   int32 = 7
	StartElytraFly int32 = 8
)

type EntityAction struct {
	playServerbound
	EntityID  int32
	ActionID  int32
	JumpBoost int32
}

func (*EntityAction) ID() int32 { return C2SEntityAction }

func (p *EntityAction) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.EntityID)
	b.WriteVarInt(p.ActionID)
	b.WriteVarInt(p.JumpBoost)
	return nil
}

func (p *EntityAction) Decode(b *protocol.Buffer) (err error) {
	if p.EntityID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.ActionID, err = b.ReadVarInt(); err != nil {
		return err
	}
	p.JumpBoost, err = b.ReadVarInt()
	return err
}

type HeldItemChangeServerbound struct {
	playServerbound
	Slot int16
}

func (*HeldItemChangeServerbound) ID() int32 { return C2SHeldItemChange }

func (p *HeldItemChangeServerbound) Encode(b *protocol.Buffer) error {
	b.WriteInt16(p.Slot)
	return nil
}

func (p *HeldItemChangeServerbound) Decode(b *protocol.Buffer) (err error) {
	p.Slot, err = b.ReadInt16()
	return err
}

// Hands.
const (
	MainHand int32 = 0
	OffHand  int32 = 1
)

// Animation swings the given hand.
type Animation struct {
	playServerbound
	Hand int32
}

func (*Animation) ID() int32 { return C2SAnimation }

func (p *Animation) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.Hand)
	return nil
}

func (p *Animation) Decode(b *protocol.Buffer) (err error) {
	p.Hand, err = b.ReadVarInt()
	return err
}

type UseItem struct {
	playServerbound
	Hand int32
}

func (*UseItem) ID() int32 { return C2SUseItem }

func (p *UseItem) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.Hand)
	return nil
}

func (p *UseItem) Decode(b *protocol.Buffer) (err error) {
	p.Hand, err = b.ReadVarInt()
	return err
}

func readVec3d(b *protocol.Buffer) (x, y, z float64, err error) {
	if x, err = b.ReadDouble(); err != nil {
		return
	}
	if y, err = b.ReadDouble(); err != nil {
		return
	}
	z, err = b.ReadDouble()
	return
}

func encodePluginMessage(b *protocol.Buffer, channel string, data []byte) error {
	if err := b.WriteStringMax(channel, 20); err != nil {
		return err
	}
	b.AppendBytes(data)
	return nil
}

func decodePluginMessage(b *protocol.Buffer) (string, []byte, error) {
	channel, err := b.ReadStringMax(20)
	if err != nil {
		return "", nil, err
	}
	rest := b.ReadRest()
	data := make([]byte, len(rest))
	copy(data, rest)
	return channel, data, nil
}
