package protocol

// Tag identifies a message's wire type: the first byte of every
// message (spec.md §4.11/§6). Server→client and client→server tags
// share one namespace since a given connection only ever decodes
// messages flowing in one direction at a time.
type Tag byte

// Connection lifecycle (S→C).
const (
	TagConnectionAccepted Tag = 0x01
	TagConnectionFailed   Tag = 0x02
)

// Lobby (S→C).
const (
	TagUpdateGame          Tag = 0x10
	TagDropGame            Tag = 0x11
	TagUpdatePlayer        Tag = 0x12
	TagPlayerConnected     Tag = 0x13
	TagPlayerDisconnected  Tag = 0x14
	TagChat                Tag = 0x15
	TagAnnouncement        Tag = 0x16
	TagPlayerList          Tag = 0x17
	TagSetTimeRemaining    Tag = 0x18
	TagPlayerReadyToEnd    Tag = 0x19
	TagVotedToRestart      Tag = 0x1A
)

// Game menu / join handshake (S→C).
const (
	TagJoinAccepted        Tag = 0x20
	TagJoinDenied          Tag = 0x21
	TagLoadGraphic         Tag = 0x22
	TagSetMenuSelectionSvr Tag = 0x23
	TagSetQuestDescription Tag = 0x24
)

// Game lifecycle (S→C).
const (
	TagStartGame Tag = 0x30
)

// Dungeon-view stream (S→C) — spec.md §4.10's DungeonView/MiniMap/
// StatusDisplay event vocabulary, one tag per event kind.
const (
	TagDViewSetCurrentRoom     Tag = 0x50
	TagDViewAddEntity          Tag = 0x51
	TagDViewRmEntity           Tag = 0x52
	TagDViewRepositionEntity   Tag = 0x53
	TagDViewMoveEntity         Tag = 0x54
	TagDViewFlipEntityMotion   Tag = 0x55
	TagDViewSetAnimData        Tag = 0x56
	TagDViewSetFacing          Tag = 0x57
	TagDViewSetSpeechBubble    Tag = 0x58
	TagDViewClearTiles         Tag = 0x59
	TagDViewSetTile            Tag = 0x5A
	TagDViewSetItem            Tag = 0x5B
	TagDViewPlaceIcon          Tag = 0x5C
	TagDViewFlashMessage       Tag = 0x5D
	TagDViewCancelContinuous   Tag = 0x5E
	TagDViewAddContinuousMsg   Tag = 0x5F
	TagMiniMapSetSize          Tag = 0x60
	TagMiniMapSetColour        Tag = 0x61
	TagMiniMapWipe             Tag = 0x62
	TagMiniMapKnightLocation   Tag = 0x63
	TagMiniMapItemLocation     Tag = 0x64
	TagStatusSetBackpack       Tag = 0x65
	TagStatusAddSkull          Tag = 0x66
	TagStatusSetHealth         Tag = 0x67
	TagStatusSetPotionMagic    Tag = 0x68
	TagStatusSetQuestHints     Tag = 0x69
)

// Client→server.
const (
	TagJoinGame           Tag = 0x80
	TagSetPlayerID        Tag = 0x81
	TagSetMenuSelectionCli Tag = 0x82
	TagSetReady           Tag = 0x83
	TagSetObsFlag         Tag = 0x84
	TagSetHouseColour     Tag = 0x85
	TagChatFromClient     Tag = 0x86
	TagVoteToRestart      Tag = 0x87
)

// In-game input (C→S).
const (
	TagGameInput Tag = 0x90
)
