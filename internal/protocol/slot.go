package protocol

// Slot is an inventory item stack as carried on the wire. An empty slot has ItemID -1.
type Slot struct {
	ItemID int16
	Count  int8
	Damage int16
	NBT    *NamedNBT
}

// EmptySlot is the wire value for "no item".
var EmptySlot = Slot{ItemID: -1}

func (s Slot) Empty() bool { return s.ItemID == -1 }

func (s *Slot) Decode(b *Buffer) error {
	id, err := b.ReadInt16()
	if err != nil {
		return err
	}
	*s = Slot{ItemID: id}
	if id == -1 {
		return nil
	}
	if s.Count, err = b.ReadInt8(); err != nil {
		return err
	}
	if s.Damage, err = b.ReadInt16(); err != nil {
		return err
	}
	s.NBT, err = b.ReadNBT()
	return err
}

func (s Slot) Encode(b *Buffer) error {
	b.WriteInt16(s.ItemID)
	if s.ItemID == -1 {
		return nil
	}
	b.WriteInt8(s.Count)
	b.WriteInt16(s.Damage)
	return b.WriteNBT(s.NBT)
}
