package room

import (
	"testing"

	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/geom"
)

func TestRoomsAtExcludesCorners(t *testing.T) {
	r := New()
	r.AddRoom(geom.MapCoord{X: 0, Y: 0}, 5, 5)
	r.DoneAddingRooms(clock.NewRNG(1))

	r1, r2 := r.RoomsAt(geom.MapCoord{X: 0, Y: 0})
	if r1 != NoRoom || r2 != NoRoom {
		t.Fatalf("corner should belong to no room, got %v %v", r1, r2)
	}
	r1, r2 = r.RoomsAt(geom.MapCoord{X: 2, Y: 0})
	if r1 == NoRoom || r2 != NoRoom {
		t.Fatalf("border non-corner should belong to exactly one room, got %v %v", r1, r2)
	}
	r1, r2 = r.RoomsAt(geom.MapCoord{X: 2, Y: 2})
	if r1 == NoRoom || r2 != NoRoom {
		t.Fatalf("interior should belong to exactly one room, got %v %v", r1, r2)
	}
	if !r.IsCorner(geom.MapCoord{X: 4, Y: 4}) {
		t.Fatalf("(4,4) should be a corner of the 5x5 room")
	}
}

func TestSharedBorderYieldsTwoRooms(t *testing.T) {
	r := New()
	r.AddRoom(geom.MapCoord{X: 0, Y: 0}, 5, 5) // covers x 0..4
	r.AddRoom(geom.MapCoord{X: 4, Y: 0}, 5, 5) // covers x 4..8, shares column 4
	r.DoneAddingRooms(clock.NewRNG(1))

	r1, r2 := r.RoomsAt(geom.MapCoord{X: 4, Y: 2})
	if r1 == NoRoom || r2 == NoRoom {
		t.Fatalf("shared border square should yield two rooms, got %v %v", r1, r2)
	}
}

func TestInSameRoom(t *testing.T) {
	r := New()
	r.AddRoom(geom.MapCoord{X: 0, Y: 0}, 5, 5)
	r.DoneAddingRooms(clock.NewRNG(1))

	a := geom.MapCoord{X: 1, Y: 1}
	b := geom.MapCoord{X: 3, Y: 3}
	if !r.InSameRoom(a, b) {
		t.Fatalf("both interior points of the same room should be InSameRoom")
	}
}

func TestRoomLocationOutOfRange(t *testing.T) {
	r := New()
	r.AddRoom(geom.MapCoord{X: 0, Y: 0}, 5, 5)
	r.DoneAddingRooms(clock.NewRNG(1))

	tl, w, h := r.RoomLocation(99)
	if !tl.IsNull() || w != 0 || h != 0 {
		t.Fatalf("out-of-range room id should yield null/zero, got %v %d %d", tl, w, h)
	}
}
