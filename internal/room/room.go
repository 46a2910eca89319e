// Package room implements RoomMap (spec.md §4.4), grounded directly on
// original_source/src/engine/impl/room_map.{hpp,cpp}: a linear-scan
// list of rectangles, border-inclusive but corner-exclusive, whose
// iteration order is Fisher-Yates shuffled once after the last room is
// added so that network-visible room ids leak no structural info.
package room

import (
	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/geom"
)

// RoomID indexes into RoomMap's room list, assigned at doneAddingRooms
// time (post-shuffle).
type RoomID int

const NoRoom RoomID = -1

type rect struct {
	topLeft geom.MapCoord
	w, h    int
}

// RoomMap mirrors the original's RoomMap exactly: rooms are added via
// AddRoom, then DoneAddingRooms freezes and shuffles the set.
type RoomMap struct {
	rooms []rect
	ready bool
}

func New() *RoomMap {
	return &RoomMap{}
}

// AddRoom registers a room. Panics if called after DoneAddingRooms,
// matching the original's InitError("RoomMap: addRoom after
// doneAddingRooms") — a programmer error, not a runtime condition.
func (r *RoomMap) AddRoom(topLeft geom.MapCoord, w, h int) {
	if r.ready {
		panic("room: AddRoom called after DoneAddingRooms")
	}
	r.rooms = append(r.rooms, rect{topLeft: topLeft, w: w, h: h})
}

// DoneAddingRooms freezes the room list and randomly permutes it so
// that room ids sent to clients leak no information about dungeon
// structure (original_source/room_map.cpp).
func (r *RoomMap) DoneAddingRooms(rng *clock.RNG) {
	r.ready = true
	rng.Shuffle(len(r.rooms), func(i, j int) {
		r.rooms[i], r.rooms[j] = r.rooms[j], r.rooms[i]
	})
}

func (r rect) contains(mc geom.MapCoord) bool {
	return mc.X >= r.topLeft.X && mc.X < r.topLeft.X+int16(r.w) &&
		mc.Y >= r.topLeft.Y && mc.Y < r.topLeft.Y+int16(r.h)
}

func (r rect) isCorner(mc geom.MapCoord) bool {
	xCorner := mc.X == r.topLeft.X || mc.X == r.topLeft.X+int16(r.w)-1
	yCorner := mc.Y == r.topLeft.Y || mc.Y == r.topLeft.Y+int16(r.h)-1
	return xCorner && yCorner
}

// RoomsAt returns the room(s) associated with mc. An interior square
// yields (r1, NoRoom); a shared-border square yields (r1, r2); a
// corner or unowned square yields (NoRoom, NoRoom). Matches
// RoomMap::getRoomAtPos's linear scan and corner-exclusion exactly.
func (r *RoomMap) RoomsAt(mc geom.MapCoord) (r1, r2 RoomID) {
	r1, r2 = NoRoom, NoRoom
	for i, rm := range r.rooms {
		if !rm.contains(mc) {
			continue
		}
		if rm.isCorner(mc) {
			continue
		}
		if r1 == NoRoom {
			r1 = RoomID(i)
		} else {
			r2 = RoomID(i)
			return
		}
	}
	return
}

// IsCorner checks whether mc is one of the four corners of some room.
func (r *RoomMap) IsCorner(mc geom.MapCoord) bool {
	for _, rm := range r.rooms {
		if rm.isCorner(mc) {
			return true
		}
	}
	return false
}

// InSameRoom is true iff the rooms-of(a) and rooms-of(b) sets intersect.
func (r *RoomMap) InSameRoom(a, b geom.MapCoord) bool {
	a1, a2 := r.RoomsAt(a)
	b1, b2 := r.RoomsAt(b)
	if a1 != NoRoom && (a1 == b1 || a1 == b2) {
		return true
	}
	if a2 != NoRoom && (a2 == b1 || a2 == b2) {
		return true
	}
	return false
}

// RoomLocation looks up the position and size of a numbered room. An
// out-of-range id yields the zero rectangle (NullCoord, 0, 0),
// matching the original's out-of-bounds behaviour.
func (r *RoomMap) RoomLocation(id RoomID) (topLeft geom.MapCoord, w, h int) {
	if id < 0 || int(id) >= len(r.rooms) {
		return geom.NullCoord, 0, 0
	}
	rm := r.rooms[id]
	return rm.topLeft, rm.w, rm.h
}

// Count returns the number of rooms.
func (r *RoomMap) Count() int { return len(r.rooms) }
