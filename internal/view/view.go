// Package view is the server side of spec.md §4.10: per-player
// DungeonView/MiniMap/StatusDisplay producers that turn engine state
// into internal/protocol dview/minimap/status messages, appear/move/
// remove-diffed against what each player's client is already known to
// have been told. Grounded on internal/system/visibility.go's
// per-player known-entity-set diffing (appear/move/remove), here
// generalised from five separate L1J AOI categories (players, NPCs,
// summons, dolls, followers, pets, ground items, doors) down to
// Knights' single entity/tile/item surface.
package view

import (
	"github.com/knights-server/engine/internal/protocol"
)

// Sink is where an encoded message goes once built — ultimately a
// netio.Conn.Send, kept as a narrow interface so this package never
// imports netio.
type Sink interface {
	Send(data []byte)
}

type encodable interface {
	Encode(w *protocol.Writer)
}

func encode(msg encodable) []byte {
	w := protocol.NewWriter()
	msg.Encode(w)
	return w.Bytes()
}

// EntitySnapshot is the subset of an entity's state a DungeonView
// cares about, independent of how the engine's ECS stores it.
type EntitySnapshot struct {
	ID                    uint16
	X, Y                  int16
	Height                uint8
	Facing                uint8
	Anim                  uint16
	Overlay               uint16
	AnimFrame             uint16
	AnimZeroTimeDeltaMs   int32
	Invisible             bool
	Invulnerable          bool
	CurOfs                int16
	MotionKind            uint8
	MotionTimeRemainingMs int32
	PlayerID              uint16
}

// known is what a DungeonView remembers it last told its client about
// one entity, enough to decide whether a reposition is needed.
type known struct {
	x, y int16
}

// DungeonView tracks one player's view of the world and emits the
// minimal event stream to keep a remote client's EntityMap in sync,
// per spec.md §4.10.
type DungeonView struct {
	sink  Sink
	known map[uint16]known
}

func NewDungeonView(sink Sink) *DungeonView {
	return &DungeonView{sink: sink, known: make(map[uint16]known)}
}

// SetCurrentRoom announces a room transition; the client clears any
// force=false tile/item state not belonging to the new room.
func (v *DungeonView) SetCurrentRoom(roomID uint16, w, h uint16) {
	msg := protocol.DViewSetCurrentRoom{RoomID: roomID, Width: w, Height: h}
	v.sink.Send(encode(&msg))
}

// SyncEntities reconciles the view's known set against visible,
// emitting add_entity for newcomers, reposition_entity for known
// entities whose square changed, and rm_entity for anything no longer
// visible (spec.md §4.10's DungeonView surface; diffing idiom from
// internal/system/visibility.go).
func (v *DungeonView) SyncEntities(visible []EntitySnapshot) {
	seen := make(map[uint16]struct{}, len(visible))
	for _, e := range visible {
		seen[e.ID] = struct{}{}
		prev, wasKnown := v.known[e.ID]
		if !wasKnown {
			v.AddEntity(e)
			continue
		}
		if prev.x != e.X || prev.y != e.Y {
			v.RepositionEntity(e.ID, e.X, e.Y)
		}
	}
	for id := range v.known {
		if _, ok := seen[id]; !ok {
			v.RmEntity(id)
		}
	}
}

func (v *DungeonView) AddEntity(e EntitySnapshot) {
	msg := protocol.DViewAddEntity{
		ID: e.ID, X: e.X, Y: e.Y, Height: e.Height, Facing: e.Facing,
		Anim: e.Anim, Overlay: e.Overlay, AnimFrame: e.AnimFrame,
		AnimZeroTimeDeltaMs: e.AnimZeroTimeDeltaMs, Invisible: e.Invisible,
		Invulnerable: e.Invulnerable, CurOfs: e.CurOfs, MotionKind: e.MotionKind,
		MotionTimeRemainingMs: e.MotionTimeRemainingMs, PlayerID: e.PlayerID,
	}
	v.sink.Send(encode(&msg))
	v.known[e.ID] = known{x: e.X, y: e.Y}
}

func (v *DungeonView) RmEntity(id uint16) {
	msg := protocol.DViewRmEntity{ID: id}
	v.sink.Send(encode(&msg))
	delete(v.known, id)
}

func (v *DungeonView) RepositionEntity(id uint16, x, y int16) {
	msg := protocol.DViewRepositionEntity{ID: id, X: x, Y: y}
	v.sink.Send(encode(&msg))
	v.known[id] = known{x: x, y: y}
}

func (v *DungeonView) MoveEntity(id uint16, kind uint8, durationMs int, missile bool) {
	msg := protocol.DViewMoveEntity{ID: id, Kind: kind, DurationMs: durationMs, Missile: missile}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) FlipEntityMotion(id uint16, initialDelayMs, durationMs int) {
	if durationMs == 0 {
		// spec.md §8: "flip_entity_motion with motion_duration_ms == 0 is a no-op".
		return
	}
	msg := protocol.DViewFlipEntityMotion{ID: id, InitialDelayMs: initialDelayMs, DurationMs: durationMs}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) SetFacing(id uint16, facing uint8) {
	msg := protocol.DViewSetFacing{ID: id, Facing: facing}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) SetSpeechBubble(id uint16, active bool) {
	msg := protocol.DViewSetSpeechBubble{ID: id, Active: active}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) ClearTiles(x, y int16, force bool) {
	msg := protocol.DViewClearTiles{X: x, Y: y, Force: force}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) SetTile(x, y int16, depth uint8, graphic uint16, cc uint8, force bool) {
	msg := protocol.DViewSetTile{X: x, Y: y, Depth: depth, Graphic: graphic, Cc: cc, Force: force}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) SetItem(x, y int16, graphic uint16, force bool) {
	msg := protocol.DViewSetItem{X: x, Y: y, Graphic: graphic, Force: force}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) PlaceIcon(x, y int16, graphic uint16, durationMs int) {
	msg := protocol.DViewPlaceIcon{X: x, Y: y, Graphic: graphic, DurationMs: durationMs}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) FlashMessage(text string, nTimes int) {
	msg := protocol.DViewFlashMessage{Text: text, NTimes: nTimes}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) CancelContinuousMessages() {
	msg := protocol.DViewCancelContinuousMessages{}
	v.sink.Send(encode(&msg))
}

func (v *DungeonView) AddContinuousMessage(text string) {
	msg := protocol.DViewAddContinuousMessage{Text: text}
	v.sink.Send(encode(&msg))
}
