package packet

// Packet ids of protocol 316.
const (
	// Handshaking (C→S)
	C2SHandshake = 0x00

	// Status (C→S)
	C2SStatusRequest = 0x00
	C2SStatusPing    = 0x01

	// Status (S→C)
	S2CStatusResponse = 0x00
	S2CStatusPong     = 0x01

	// Login (C→S)
	C2SLoginStart         = 0x00
	C2SEncryptionResponse = 0x01

	// Login (S→C)
	S2CLoginDisconnect   = 0x00
	S2CEncryptionRequest = 0x01
	S2CLoginSuccess      = 0x02
	S2CSetCompression    = 0x03

	// Play (C→S)
	C2STeleportConfirm       = 0x00
	C2SChatMessage           = 0x02
	C2SClientStatus          = 0x03
	C2SClientSettings        = 0x04
	C2SPluginMessage         = 0x09
	C2SKeepAlive             = 0x0B
	C2SPlayerPosition        = 0x0C
	C2SPlayerPositionAndLook = 0x0D
	C2SPlayerLook            = 0x0E
	C2SPlayerOnGround        = 0x0F
	C2SPlayerDigging         = 0x13
	C2SEntityAction          = 0x14
	C2SHeldItemChange        = 0x17
	C2SAnimation             = 0x1A
	C2SUseItem               = 0x1D

	// Play (S→C)
	S2CSpawnPlayer               = 0x05
	S2CBlockChange               = 0x0B
	S2CServerDifficulty          = 0x0D
	S2CChatMessage               = 0x0F
	S2CMultiBlockChange          = 0x10
	S2CSetSlot                   = 0x16
	S2CPluginMessage             = 0x18
	S2CNamedSoundEffect          = 0x19
	S2CDisconnect                = 0x1A
	S2CEntityStatus              = 0x1B
	S2CUnloadChunk               = 0x1D
	S2CChangeGameState           = 0x1E
	S2CKeepAlive                 = 0x1F
	S2CJoinGame                  = 0x23
	S2CEntityRelativeMove        = 0x25
	S2CEntityLookAndRelativeMove = 0x26
	S2CPlayerAbilities           = 0x2B
	S2CPlayerPositionAndLook     = 0x2E
	S2CDestroyEntities           = 0x30
	S2CRespawn                   = 0x33
	S2CHeldItemChange            = 0x37
	S2CEntityMetadata            = 0x39
	S2CEntityVelocity            = 0x3B
	S2CSetExperience             = 0x3D
	S2CUpdateHealth              = 0x3E
	S2CSpawnPosition             = 0x43
	S2CTimeUpdate                = 0x44
	S2CSoundEffect               = 0x46
	S2CEntityTeleport            = 0x49
)
