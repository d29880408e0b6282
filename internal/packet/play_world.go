package packet

import "github.com/Versifine/mclink/internal/protocol"

type BlockChange struct {
	playClientbound
	Location protocol.Position
	BlockID  int32 // id<<4 | metadata
}

func (*BlockChange) ID() int32 { return S2CBlockChange }

func (p *BlockChange) Encode(b *protocol.Buffer) error {
	b.WritePosition(p.Location, Layout)
	b.WriteVarInt(p.BlockID)
	return nil
}

func (p *BlockChange) Decode(b *protocol.Buffer) (err error) {
	if p.Location, err = b.ReadPosition(Layout); err != nil {
		return err
	}
	p.BlockID, err = b.ReadVarInt()
	return err
}

// BlockRecord is one change inside a MultiBlockChange, relative to the chunk.
type BlockRecord struct {
	X, Z    uint8 // 0-15
	Y       uint8
	BlockID int32
}

type MultiBlockChange struct {
	playClientbound
	ChunkX, ChunkZ int32
	Records        []BlockRecord
}

func (*MultiBlockChange) ID() int32 { return S2CMultiBlockChange }

func (p *MultiBlockChange) Encode(b *protocol.Buffer) error {
	b.WriteInt32(p.ChunkX)
	b.WriteInt32(p.ChunkZ)
	b.WriteVarInt(int32(len(p.Records)))
	for _, r := range p.Records {
		b.WriteUnsignedByte(r.X<<4 | r.Z&0x0F)
		b.WriteUnsignedByte(r.Y)
		b.WriteVarInt(r.BlockID)
	}
	return nil
}

func (p *MultiBlockChange) Decode(b *protocol.Buffer) (err error) {
	if p.ChunkX, err = b.ReadInt32(); err != nil {
		return err
	}
	if p.ChunkZ, err = b.ReadInt32(); err != nil {
		return err
	}
	n, err := readCount(b, 3)
	if err != nil {
		return err
	}
	p.Records = make([]BlockRecord, n)
	for i := range p.Records {
		horizontal, err := b.ReadUnsignedByte()
		if err != nil {
			return err
		}
		r := &p.Records[i]
		r.X, r.Z = horizontal>>4, horizontal&0x0F
		if r.Y, err = b.ReadUnsignedByte(); err != nil {
			return err
		}
		if r.BlockID, err = b.ReadVarInt(); err != nil {
			return err
		}
	}
	return nil
}

type UnloadChunk struct {
	playClientbound
	ChunkX, ChunkZ int32
}

func (*UnloadChunk) ID() int32 { return S2CUnloadChunk }

func (p *UnloadChunk) Encode(b *protocol.Buffer) error {
	b.WriteInt32(p.ChunkX)
	b.WriteInt32(p.ChunkZ)
	return nil
}

func (p *UnloadChunk) Decode(b *protocol.Buffer) (err error) {
	if p.ChunkX, err = b.ReadInt32(); err != nil {
		return err
	}
	p.ChunkZ, err = b.ReadInt32()
	return err
}

type ServerDifficulty struct {
	playClientbound
	Difficulty uint8
}

func (*ServerDifficulty) ID() int32 { return S2CServerDifficulty }

func (p *ServerDifficulty) Encode(b *protocol.Buffer) error {
	b.WriteUnsignedByte(p.Difficulty)
	return nil
}

func (p *ServerDifficulty) Decode(b *protocol.Buffer) (err error) {
	p.Difficulty, err = b.ReadUnsignedByte()
	return err
}

// ChangeGameState reasons.
const (
	GameStateInvalidBed    uint8 = 0
	GameStateEndRaining    uint8 = 1
	GameStateBeginRaining  uint8 = 2
	GameStateChangeMode    uint8 = 3
	GameStateExitEnd       uint8 = 4
	GameStateDemoMessage   uint8 = 5
	GameStateArrowHit      uint8 = 6
	GameStateFadeValue     uint8 = 7
	GameStateFadeTime      uint8 = 8
	GameStateGuardianCurse uint8 = 10
)

type ChangeGameState struct {
	playClientbound
	Reason uint8
	Value  float32
}

func (*ChangeGameState) ID() int32 { return S2CChangeGameState }

func (p *ChangeGameState) Encode(b *protocol.Buffer) error {
	b.WriteUnsignedByte(p.Reason)
	b.WriteFloat(p.Value)
	return nil
}

func (p *ChangeGameState) Decode(b *protocol.Buffer) (err error) {
	if p.Reason, err = b.ReadUnsignedByte(); err != nil {
		return err
	}
	p.Value, err = b.ReadFloat()
	return err
}

type SpawnPosition struct {
	playClientbound
	Location protocol.Position
}

func (*SpawnPosition) ID() int32 { return S2CSpawnPosition }

func (p *SpawnPosition) Encode(b *protocol.Buffer) error {
	b.WritePosition(p.Location, Layout)
	return nil
}

func (p *SpawnPosition) Decode(b *protocol.Buffer) (err error) {
	p.Location, err = b.ReadPosition(Layout)
	return err
}

type TimeUpdate struct {
	playClientbound
	WorldAge  int64
	TimeOfDay int64
}

func (*TimeUpdate) ID() int32 { return S2CTimeUpdate }

func (p *TimeUpdate) Encode(b *protocol.Buffer) error {
	b.WriteInt64(p.WorldAge)
	b.WriteInt64(p.TimeOfDay)
	return nil
}

func (p *TimeUpdate) Decode(b *protocol.Buffer) (err error) {
	if p.WorldAge, err = b.ReadInt64(); err != nil {
		return err
	}
	p.TimeOfDay, err = b.ReadInt64()
	return err
}

// SoundPosition is an effect position in eighths of a block.
type SoundPosition struct {
	X, Y, Z int32
}

// Blocks returns the position in block units.
func (s SoundPosition) Blocks() (x, y, z float64) {
	return float64(s.X) / 8, float64(s.Y) / 8, float64(s.Z) / 8
}

func (s SoundPosition) encode(b *protocol.Buffer) {
	b.WriteInt32(s.X)
	b.WriteInt32(s.Y)
	b.WriteInt32(s.Z)
}

func (s *SoundPosition) decode(b *protocol.Buffer) (err error) {
	if s.X, err = b.ReadInt32(); err != nil {
		return err
	}
	if s.Y, err = b.ReadInt32(); err != nil {
		return err
	}
	s.Z, err = b.ReadInt32()
	return err
}

type SoundEffect struct {
	playClientbound
	SoundID  int32
	Category int32
	Position SoundPosition
	Volume   float32
	Pitch    float32
}

func (*SoundEffect) ID() int32 { return S2CSoundEffect }

func (p *SoundEffect) Encode(b *protocol.Buffer) error {
	b.WriteVarInt(p.SoundID)
	b.WriteVarInt(p.Category)
	p.Position.encode(b)
	b.WriteFloat(p.Volume)
	b.WriteFloat(p.Pitch)
	return nil
}

func (p *SoundEffect) Decode(b *protocol.Buffer) (err error) {
	if p.SoundID, err = b.ReadVarInt(); err != nil {
		return err
	}
	if p.Category, err = b.ReadVarInt(); err != nil {
		return err
	}
	if err = p.Position.decode(b); err != nil {
		return err
	}
	if p.Volume, err = b.ReadFloat(); err != nil {
		return err
	}
	p.Pitch, err = b.ReadFloat()
	return err
}

type NamedSoundEffect struct {
	playClientbound
	Name     string
	Category int32
	Position SoundPosition
	Volume   float32
	Pitch    float32
}

func (*NamedSoundEffect) ID() int32 { return S2CNamedSoundEffect }

func (p *NamedSoundEffect) Encode(b *protocol.Buffer) error {
	if err := b.WriteString(p.Name); err != nil {
		return err
	}
	b.WriteVarInt(p.Category)
	p.Position.encode(b)
	b.WriteFloat(p.Volume)
	b.WriteFloat(p.Pitch)
	return nil
}

func (p *NamedSoundEffect) Decode(b *protocol.Buffer) (err error) {
	if p.Name, err = b.ReadString(); err != nil {
		return err
	}
	if p.Category, err = b.ReadVarInt(); err != nil {
		return err
	}
	if err = p.Position.decode(b); err != nil {
		return err
	}
	if p.Volume, err = b.ReadFloat(); err != nil {
		return err
	}
	p.Pitch, err = b.ReadFloat()
	return err
}
