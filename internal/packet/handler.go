package packet

import "fmt"

// DisconnectReason classifies why a connection ended.
type DisconnectReason int

const (
	// ReasonClosed means the local side called Disconnect.
	ReasonClosed DisconnectReason = iota
	// ReasonConnectionLost means the socket failed or the peer closed it.
	ReasonConnectionLost
	// ReasonKicked means the server sent a Disconnect message.
	ReasonKicked
	// ReasonProtocolError means the stream could no longer be parsed.
	ReasonProtocolError
)

func (r DisconnectReason) String() string {
	switch r {
	case ReasonClosed:
		return "closed"
	case ReasonConnectionLost:
		return "connection lost"
	case ReasonKicked:
		return "kicked"
	case ReasonProtocolError:
		return "protocol error"
	default:
		return fmt.Sprintf("DisconnectReason(%d)", int(r))
	}
}

// DisconnectEvent is delivered exactly once per connection.
type DisconnectEvent struct {
	Reason  DisconnectReason
	Message string // server supplied JSON reason, if kicked
	Err     error
}

// Handler receives decoded clientbound messages. Embed BaseHandler to
// implement only the methods of interest.
type Handler interface {
	HandleStatusResponse(*StatusResponse)
	HandleStatusPong(*StatusPong)

	HandleLoginDisconnect(*LoginDisconnect)
	HandleEncryptionRequest(*EncryptionRequest)
	HandleLoginSuccess(*LoginSuccess)
	HandleSetCompression(*SetCompression)

	HandleSpawnPlayer(*SpawnPlayer)
	HandleBlockChange(*BlockChange)
	HandleServerDifficulty(*ServerDifficulty)
	HandleChatMessage(*ChatMessage)
	HandleMultiBlockChange(*MultiBlockChange)
	HandleSetSlot(*SetSlot)
	HandlePluginMessage(*PluginMessage)
	HandleNamedSoundEffect(*NamedSoundEffect)
	HandleDisconnect(*Disconnect)
	HandleEntityStatus(*EntityStatus)
	HandleUnloadChunk(*UnloadChunk)
	HandleChangeGameState(*ChangeGameState)
	HandleKeepAlive(*KeepAlive)
	HandleJoinGame(*JoinGame)
	HandleEntityRelativeMove(*EntityRelativeMove)
	HandleEntityLookAndRelativeMove(*EntityLookAndRelativeMove)
	HandlePlayerAbilities(*PlayerAbilities)
	HandlePlayerPositionAndLook(*PlayerPositionAndLook)
	HandleDestroyEntities(*DestroyEntities)
	HandleRespawn(*Respawn)
	HandleHeldItemChange(*HeldItemChange)
	HandleEntityMetadata(*EntityMetadata)
	HandleEntityVelocity(*EntityVelocity)
	HandleSetExperience(*SetExperience)
	HandleUpdateHealth(*UpdateHealth)
	HandleSpawnPosition(*SpawnPosition)
	HandleTimeUpdate(*TimeUpdate)
	HandleSoundEffect(*SoundEffect)
	HandleEntityTeleport(*EntityTeleport)

	// HandleOther receives messages without a dedicated method, such as
	// serverbound messages or types registered by callers.
	HandleOther(Message)
	// HandleDecodeError receives frames that could not be decoded. The
	// connection keeps running.
	HandleDecodeError(*DecodeError)
	// HandleConnectionClosed is called once when the connection ends.
	HandleConnectionClosed(DisconnectEvent)
}

// BaseHandler implements Handler with no-ops.
type BaseHandler struct{}

func (BaseHandler) HandleStatusResponse(*StatusResponse)                       {}
func (BaseHandler) HandleStatusPong(*StatusPong)                               {}
func (BaseHandler) HandleLoginDisconnect(*LoginDisconnect)                     {}
func (BaseHandler) HandleEncryptionRequest(*EncryptionRequest)                 {}
func (BaseHandler) HandleLoginSuccess(*LoginSuccess)                           {}
func (BaseHandler) HandleSetCompression(*SetCompression)                       {}
func (BaseHandler) HandleSpawnPlayer(*SpawnPlayer)                             {}
func (BaseHandler) HandleBlockChange(*BlockChange)                             {}
func (BaseHandler) HandleServerDifficulty(*ServerDifficulty)                   {}
func (BaseHandler) HandleChatMessage(*ChatMessage)                             {}
func (BaseHandler) HandleMultiBlockChange(*MultiBlockChange)                   {}
func (BaseHandler) HandleSetSlot(*SetSlot)                                     {}
func (BaseHandler) HandlePluginMessage(*PluginMessage)                         {}
func (BaseHandler) HandleNamedSoundEffect(*NamedSoundEffect)                   {}
func (BaseHandler) HandleDisconnect(*Disconnect)                               {}
func (BaseHandler) HandleEntityStatus(*EntityStatus)                           {}
func (BaseHandler) HandleUnloadChunk(*UnloadChunk)                             {}
func (BaseHandler) HandleChangeGameState(*ChangeGameState)                     {}
func (BaseHandler) HandleKeepAlive(*KeepAlive)                                 {}
func (BaseHandler) HandleJoinGame(*JoinGame)                                   {}
func (BaseHandler) HandleEntityRelativeMove(*EntityRelativeMove)               {}
func (BaseHandler) HandleEntityLookAndRelativeMove(*EntityLookAndRelativeMove) {}
func (BaseHandler) HandlePlayerAbilities(*PlayerAbilities)                     {}
func (BaseHandler) HandlePlayerPositionAndLook(*PlayerPositionAndLook)         {}
func (BaseHandler) HandleDestroyEntities(*DestroyEntities)                     {}
func (BaseHandler) HandleRespawn(*Respawn)                                     {}
func (BaseHandler) HandleHeldItemChange(*HeldItemChange)                       {}
func (BaseHandler) HandleEntityMetadata(*EntityMetadata)                       {}
func (BaseHandler) HandleEntityVelocity(*EntityVelocity)                       {}
func (BaseHandler) HandleSetExperience(*SetExperience)                         {}
func (BaseHandler) HandleUpdateHealth(*UpdateHealth)                           {}
func (BaseHandler) HandleSpawnPosition(*SpawnPosition)                         {}
func (BaseHandler) HandleTimeUpdate(*TimeUpdate)                               {}
func (BaseHandler) HandleSoundEffect(*SoundEffect)                             {}
func (BaseHandler) HandleEntityTeleport(*EntityTeleport)                       {}
func (BaseHandler) HandleOther(Message)                                        {}
func (BaseHandler) HandleDecodeError(*DecodeError)                             {}
func (BaseHandler) HandleConnectionClosed(DisconnectEvent)                     {}

// Dispatch calls the method of h matching the concrete type of m.
func Dispatch(m Message, h Handler) {
	switch p := m.(type) {
	case *StatusResponse:
		h.HandleStatusResponse(p)
	case *StatusPong:
		h.HandleStatusPong(p)
	case *LoginDisconnect:
		h.HandleLoginDisconnect(p)
	case *EncryptionRequest:
		h.HandleEncryptionRequest(p)
	case *LoginSuccess:
		h.HandleLoginSuccess(p)
	case *SetCompression:
		h.HandleSetCompression(p)
	case *SpawnPlayer:
		h.HandleSpawnPlayer(p)
	case *BlockChange:
		h.HandleBlockChange(p)
	case *ServerDifficulty:
		h.HandleServerDifficulty(p)
	case *ChatMessage:
		h.HandleChatMessage(p)
	case *MultiBlockChange:
		h.HandleMultiBlockChange(p)
	case *SetSlot:
		h.HandleSetSlot(p)
	case *PluginMessage:
		h.HandlePluginMessage(p)
	case *NamedSoundEffect:
		h.HandleNamedSoundEffect(p)
	case *Disconnect:
		h.HandleDisconnect(p)
	case *EntityStatus:
		h.HandleEntityStatus(p)
	case *UnloadChunk:
		h.HandleUnloadChunk(p)
	case *ChangeGameState:
		h.HandleChangeGameState(p)
	case *KeepAlive:
		h.HandleKeepAlive(p)
	case *JoinGame:
		h.HandleJoinGame(p)
	case *EntityRelativeMove:
		h.HandleEntityRelativeMove(p)
	case *EntityLookAndRelativeMove:
		h.HandleEntityLookAndRelativeMove(p)
	case *PlayerAbilities:
		h.HandlePlayerAbilities(p)
	case *PlayerPositionAndLook:
		h.HandlePlayerPositionAndLook(p)
	case *DestroyEntities:
		h.HandleDestroyEntities(p)
	case *Respawn:
		h.HandleRespawn(p)
	case *HeldItemChange:
		h.HandleHeldItemChange(p)
	case *EntityMetadata:
		h.HandleEntityMetadata(p)
	case *EntityVelocity:
		h.HandleEntityVelocity(p)
	case *SetExperience:
		h.HandleSetExperience(p)
	case *UpdateHealth:
		h.HandleUpdateHealth(p)
	case *SpawnPosition:
		h.HandleSpawnPosition(p)
	case *TimeUpdate:
		h.HandleTimeUpdate(p)
	case *SoundEffect:
		h.HandleSoundEffect(p)
	case *EntityTeleport:
		h.HandleEntityTeleport(p)
	default:
		h.HandleOther(m)
	}
}
