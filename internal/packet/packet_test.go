package packet

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/Versifine/mclink/internal/protocol"
)

func TestHandshakeSerialization(t *testing.T) {
	msg := &Handshake{
		ProtocolVersion: ProtocolVersion,
		ServerAddress:   "host",
		ServerPort:      25565,
		NextState:       protocol.NextStateLogin,
	}
	buf, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode() 返回错误: %v", err)
	}
	want := []byte{
		0x00,       // id
		0xBC, 0x02, // VarInt 316
		0x04, 'h', 'o', 's', 't',
		0x63, 0xDD, // 25565
		0x02,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Handshake 编码 = %x, 期望 %x", buf.Bytes(), want)
	}
}

func TestKnownEncodings(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want []byte
	}{
		{"StatusRequest", &StatusRequest{}, []byte{0x00}},
		{"LoginStart", &LoginStart{Username: "Steve"}, []byte{0x00, 0x05, 'S', 't', 'e', 'v', 'e'}},
		{"KeepAliveServerbound", &KeepAliveServerbound{KeepAliveID: 300}, []byte{0x0B, 0xAC, 0x02}},
		{"TeleportConfirm", &TeleportConfirm{TeleportID: 7}, []byte{0x00, 0x07}},
		{"ChatMessageServerbound", &ChatMessageServerbound{Message: "hi"}, []byte{0x02, 0x02, 'h', 'i'}},
		{"PlayerOnGround", &PlayerOnGround{OnGround: true}, []byte{0x0F, 0x01}},
		{"HeldItemChangeServerbound", &HeldItemChangeServerbound{Slot: 3}, []byte{0x17, 0x00, 0x03}},
		{"Animation", &Animation{Hand: OffHand}, []byte{0x1A, 0x01}},
		{"StatusPing", &StatusPing{Payload: 1}, []byte{0x01, 0, 0, 0, 0, 0, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Encode(tt.msg)
			if err != nil {
				t.Fatalf("Encode() 返回错误: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("编码 = %x, 期望 %x", buf.Bytes(), tt.want)
			}
		})
	}
}

func TestEncodeRejectsOversizedFields(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"用户名过长", &LoginStart{Username: "abcdefghijklmnopq"}},
		{"聊天过长", &ChatMessageServerbound{Message: string(bytes.Repeat([]byte{'x'}, maxChatLen+1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Encode(tt.msg); !errors.Is(err, protocol.ErrMalformedText) {
				t.Errorf("Encode() error = %v, 期望 ErrMalformedText", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	id := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")
	tests := []Message{
		&Handshake{ProtocolVersion: 316, ServerAddress: "mc.example.org", ServerPort: 25565, NextState: 1},
		&EncryptionRequest{ServerID: "", PublicKey: []byte{0x30, 0x81}, VerifyToken: []byte{1, 2, 3, 4}},
		&EncryptionResponse{SharedSecret: bytes.Repeat([]byte{9}, 128), VerifyToken: bytes.Repeat([]byte{7}, 128)},
		&LoginSuccess{UUID: id, Username: "Notch"},
		&SetCompression{Threshold: 256},
		&ClientSettings{Locale: "zh_CN", ViewDistance: 8, ChatMode: 0, ChatColors: true, DisplayedSkinParts: 0x7F, MainHand: MainHand},
		&PlayerPositionAndLookServerbound{X: 1.5, FeetY: 64, Z: -3.25, Yaw: 90, Pitch: -10, OnGround: true},
		&PlayerDigging{Status: DigStarted, Location: protocol.Position{X: -5, Y: 70, Z: 12}, Face: 1},
		&PluginMessageServerbound{Channel: "MC|Brand", Data: []byte("vanilla")},
		&SpawnPlayer{EntityID: 42, PlayerUUID: id, X: 1, Y: 2, Z: 3, Yaw: 64, Pitch: 0,
			Metadata: protocol.Metadata{{Index: 7, Value: protocol.MetaFloat(20)}}},
		&MultiBlockChange{ChunkX: -1, ChunkZ: 2, Records: []BlockRecord{{X: 15, Z: 3, Y: 64, BlockID: 1 << 4}, {X: 0, Z: 0, Y: 0, BlockID: 0}}},
		&SetSlot{WindowID: 0, SlotNum: 36, Item: protocol.Slot{ItemID: 276, Count: 1}},
		&NamedSoundEffect{Name: "entity.pig.ambient", Category: 5, Position: SoundPosition{X: 80, Y: 512, Z: -8}, Volume: 1, Pitch: 0.5},
		&JoinGame{EntityID: 1, GameMode: 1, Dimension: -1, Difficulty: 2, MaxPlayers: 20, LevelType: "default"},
		&EntityLookAndRelativeMove{EntityID: 9, DX: 4096, DY: -128, DZ: 0, Yaw: 10, Pitch: 20, OnGround: true},
		&PlayerPositionAndLook{X: 10, Y: 65, Z: 10, Yaw: 180, Pitch: 0, Flags: RelativeX | RelativeYaw, TeleportID: 5},
		&DestroyEntities{EntityIDs: []int32{1, 2, 300}},
		&EntityMetadata{EntityID: 3, Metadata: protocol.Metadata{{Index: 0, Value: protocol.MetaByte(0)}}},
		&EntityTeleport{EntityID: 3, X: -1, Y: 2, Z: 3.5, Yaw: 1, Pitch: 2},
		&SoundEffect{SoundID: 3, Category: 0, Position: SoundPosition{X: 1, Y: 2, Z: 3}, Volume: 1, Pitch: 1},
		&BlockChange{Location: protocol.Position{X: 100, Y: 5, Z: -100}, BlockID: 17 << 4},
		&SpawnPosition{Location: protocol.Position{X: 0, Y: 64, Z: 0}},
	}
	for _, msg := range tests {
		t.Run(Name(msg), func(t *testing.T) {
			buf, err := Encode(msg)
			if err != nil {
				t.Fatalf("Encode() 返回错误: %v", err)
			}
			got, err := Default().Decode(msg.State(), msg.Direction(), buf)
			if err != nil {
				t.Fatalf("Decode() 返回错误: %v", err)
			}
			if !reflect.DeepEqual(got, msg) {
				t.Errorf("往返不一致:\n 得到 %+v\n 期望 %+v", got, msg)
			}
			if buf.Remaining() != 0 {
				t.Errorf("剩余 %d 字节未读", buf.Remaining())
			}
		})
	}
}

func TestLoginSuccessUUIDText(t *testing.T) {
	b := protocol.NewBuffer(nil)
	b.WriteVarInt(S2CLoginSuccess)
	_ = b.WriteString("069a79f4-44e9-4726-a5be-fca90e38aaf5")
	_ = b.WriteString("Notch")

	msg, err := Default().Decode(protocol.Login, Clientbound, b)
	if err != nil {
		t.Fatal(err)
	}
	ls := msg.(*LoginSuccess)
	if ls.UUID.String() != "069a79f4-44e9-4726-a5be-fca90e38aaf5" || ls.Username != "Notch" {
		t.Errorf("LoginSuccess = %+v", ls)
	}

	bad := protocol.NewBuffer(nil)
	bad.WriteVarInt(S2CLoginSuccess)
	_ = bad.WriteString("not-a-uuid")
	_ = bad.WriteString("Notch")
	if _, err := Default().Decode(protocol.Login, Clientbound, bad); !errors.Is(err, protocol.ErrMalformedText) {
		t.Errorf("非法UUID error = %v, 期望 ErrMalformedText", err)
	}
}

func TestMoveDeltaAndSoundPosition(t *testing.T) {
	if got := MoveDelta(4096).Blocks(); got != 1 {
		t.Errorf("MoveDelta(4096).Blocks() = %v, 期望 1", got)
	}
	x, y, z := SoundPosition{X: 80, Y: -4, Z: 1}.Blocks()
	if x != 10 || y != -0.5 || z != 0.125 {
		t.Errorf("SoundPosition.Blocks() = %v %v %v", x, y, z)
	}
}
