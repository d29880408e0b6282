package packet

import (
	"fmt"
	"sync"

	"github.com/Versifine/mclink/internal/protocol"
)

// Factory returns a new zero message ready to be decoded into.
type Factory func() Message

type registryKey struct {
	state protocol.State
	dir   Direction
	id    int32
}

// Registry maps (state, direction, id) to message factories.
// Register must not be called concurrently with Decode.
type Registry struct {
	version   int32
	factories map[registryKey]Factory
}

// NewRegistry returns an empty registry for the given protocol version.
func NewRegistry(version int32) (*Registry, error) {
	if version != ProtocolVersion {
		return nil, fmt.Errorf("%w: %d (supported: %d)", ErrUnsupportedProtocol, version, ProtocolVersion)
	}
	return &Registry{
		version:   version,
		factories: make(map[registryKey]Factory),
	}, nil
}

func (r *Registry) Version() int32 { return r.version }

// Register adds a factory. The message identity is taken from a sample
// produced by f.
func (r *Registry) Register(f Factory) error {
	m := f()
	k := registryKey{state: m.State(), dir: m.Direction(), id: m.ID()}
	if _, ok := r.factories[k]; ok {
		return fmt.Errorf("%w: %s %s 0x%02X", ErrDuplicatePacket, k.dir, k.state, k.id)
	}
	r.factories[k] = f
	return nil
}

// Lookup reports whether a message is registered for the identity.
func (r *Registry) Lookup(state protocol.State, dir Direction, id int32) (Factory, bool) {
	f, ok := r.factories[registryKey{state: state, dir: dir, id: id}]
	return f, ok
}

// Decode reads a packet id from b and decodes the message registered for it.
// All failures are returned as *DecodeError.
func (r *Registry) Decode(state protocol.State, dir Direction, b *protocol.Buffer) (Message, error) {
	id, err := b.ReadVarInt()
	if err != nil {
		return nil, &DecodeError{State: state, Direction: dir, ID: -1, Err: err}
	}
	f, ok := r.Lookup(state, dir, id)
	if !ok {
		return nil, &DecodeError{State: state, Direction: dir, ID: id, Err: r.missError(state, dir, id)}
	}
	m := f()
	if err := m.Decode(b); err != nil {
		return nil, &DecodeError{State: state, Direction: dir, ID: id, Err: err}
	}
	return m, nil
}

// missError tells an id that is unknown everywhere apart from one that only
// exists in another state.
func (r *Registry) missError(state protocol.State, dir Direction, id int32) error {
	for _, s := range []protocol.State{protocol.Handshake, protocol.Status, protocol.Login, protocol.Play} {
		if s == state {
			continue
		}
		if _, ok := r.Lookup(s, dir, id); ok {
			return ErrUnexpectedPacketForState
		}
	}
	return ErrUnknownPacketID
}

// Encode serializes m, id first, into a new buffer.
func Encode(m Message) (*protocol.Buffer, error) {
	b := protocol.NewBuffer(make([]byte, 0, 64))
	b.WriteVarInt(m.ID())
	if err := m.Encode(b); err != nil {
		return nil, fmt.Errorf("encode %s: %w", Name(m), err)
	}
	return b, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding every message of this package
// in both directions. It must not be modified.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(ProtocolVersion)
		if err != nil {
			panic(err)
		}
		for _, f := range allMessages() {
			if err := r.Register(f); err != nil {
				panic(err)
			}
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

func allMessages() []Factory {
	return []Factory{
		func() Message { return &Handshake{} },

		func() Message { return &StatusRequest{} },
		func() Message { return &StatusPing{} },
		func() Message { return &StatusResponse{} },
		func() Message { return &StatusPong{} },

		func() Message { return &LoginStart{} },
		func() Message { return &EncryptionResponse{} },
		func() Message { return &LoginDisconnect{} },
		func() Message { return &EncryptionRequest{} },
		func() Message { return &LoginSuccess{} },
		func() Message { return &SetCompression{} },

		func() Message { return &TeleportConfirm{} },
		func() Message { return &ChatMessageServerbound{} },
		func() Message { return &ClientStatus{} },
		func() Message { return &ClientSettings{} },
		func() Message { return &PluginMessageServerbound{} },
		func() Message { return &KeepAliveServerbound{} },
		func() Message { return &PlayerPosition{} },
		func() Message { return &PlayerPositionAndLookServerbound{} },
		func() Message { return &PlayerLook{} },
		func() Message { return &PlayerOnGround{} },
		func() Message { return &PlayerDigging{} },
		func() Message { return &EntityAction{} },
		func() Message { return &HeldItemChangeServerbound{} },
		func() Message { return &Animation{} },
		func() Message { return &UseItem{} },

		func() Message { return &SpawnPlayer{} },
		func() Message { return &BlockChange{} },
		func() Message { return &ServerDifficulty{} },
		func() Message { return &ChatMessage{} },
		func() Message { return &MultiBlockChange{} },
		func() Message { return &SetSlot{} },
		func() Message { return &PluginMessage{} },
		func() Message { return &NamedSoundEffect{} },
		func() Message { return &Disconnect{} },
		func() Message { return &EntityStatus{} },
		func() Message { return &UnloadChunk{} },
		func() Message { return &ChangeGameState{} },
		func() Message { return &KeepAlive{} },
		func() Message { return &JoinGame{} },
		func() Message { return &EntityRelativeMove{} },
		func() Message { return &EntityLookAndRelativeMove{} },
		func() Message { return &PlayerAbilities{} },
		func() Message { return &PlayerPositionAndLook{} },
		func() Message { return &DestroyEntities{} },
		func() Message { return &Respawn{} },
		func() Message { return &HeldItemChange{} },
		func() Message { return &EntityMetadata{} },
		func() Message { return &EntityVelocity{} },
		func() Message { return &SetExperience{} },
		func() Message { return &UpdateHealth{} },
		func() Message { return &SpawnPosition{} },
		func() Message { return &TimeUpdate{} },
		func() Message { return &SoundEffect{} },
		func() Message { return &EntityTeleport{} },
	}
}
