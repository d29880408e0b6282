package packet

import (
	"errors"
	"testing"

	"github.com/Versifine/mclink/internal/protocol"
)

func TestNewRegistryVersion(t *testing.T) {
	if _, err := NewRegistry(ProtocolVersion); err != nil {
		t.Fatalf("NewRegistry(%d) 返回错误: %v", ProtocolVersion, err)
	}
	for _, v := range []int32{0, 315, 340, 767} {
		if _, err := NewRegistry(v); !errors.Is(err, ErrUnsupportedProtocol) {
			t.Errorf("NewRegistry(%d) error = %v, 期望 ErrUnsupportedProtocol", v, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r, _ := NewRegistry(ProtocolVersion)
	if err := r.Register(func() Message { return &KeepAlive{} }); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(func() Message { return &KeepAlive{} }); !errors.Is(err, ErrDuplicatePacket) {
		t.Errorf("重复注册 error = %v, 期望 ErrDuplicatePacket", err)
	}
	// A different identity registers fine.
	if err := r.Register(func() Message { return &StatusRequest{} }); err != nil {
		t.Errorf("注册 StatusRequest 失败: %v", err)
	}
}

func TestDefaultRegistryIdentities(t *testing.T) {
	seen := make(map[registryKey]string)
	for _, f := range allMessages() {
		m := f()
		k := registryKey{state: m.State(), dir: m.Direction(), id: m.ID()}
		if prev, ok := seen[k]; ok {
			t.Errorf("%s 与 %s 标识冲突", Name(m), prev)
		}
		seen[k] = Name(m)
		if _, ok := Default().Lookup(k.state, k.dir, k.id); !ok {
			t.Errorf("默认注册表缺少 %s", Name(m))
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		state   protocol.State
		dir     Direction
		payload []byte
		wantErr error
		wantID  int32
	}{
		{"未知ID", protocol.Play, Clientbound, []byte{0x7A}, ErrUnknownPacketID, 0x7A},
		{"其他状态的ID", protocol.Status, Clientbound, []byte{0x1F, 0x01}, ErrUnexpectedPacketForState, 0x1F},
		{"字段截断", protocol.Play, Clientbound, []byte{S2CTimeUpdate, 0x00, 0x01}, protocol.ErrTruncatedData, S2CTimeUpdate},
		{"缺少ID", protocol.Play, Clientbound, []byte{}, protocol.ErrTruncatedData, -1},
		{"ID过长", protocol.Play, Clientbound, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}, protocol.ErrMalformedVarInt, -1},
		{"伪造数组长度", protocol.Play, Clientbound, []byte{S2CDestroyEntities, 0xFF, 0xFF, 0x7F}, protocol.ErrTruncatedData, S2CDestroyEntities},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Default().Decode(tt.state, tt.dir, protocol.NewBuffer(tt.payload))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Decode() error = %v, 期望 %v", err, tt.wantErr)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode() error 类型 = %T, 期望 *DecodeError", err)
			}
			if de.ID != tt.wantID || de.State != tt.state || de.Direction != tt.dir {
				t.Errorf("DecodeError = %+v", de)
			}
		})
	}
}

func TestDecodeDoesNotMutateState(t *testing.T) {
	cs := protocol.NewConnState()
	_ = cs.Transition(protocol.Login)
	b, _ := Encode(&LoginSuccess{Username: "Steve"})
	if _, err := Default().Decode(cs.Get(), Clientbound, b); err != nil {
		t.Fatal(err)
	}
	if cs.Get() != protocol.Login {
		t.Errorf("解码后状态 = %s, 期望 Login", cs.Get())
	}
}
