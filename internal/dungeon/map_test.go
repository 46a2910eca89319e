package dungeon

import (
	"testing"

	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/geom"
)

func clearAccess() [3]geom.MapAccess {
	return [3]geom.MapAccess{geom.AccessClear, geom.AccessClear, geom.AccessClear}
}

func blockedAccess() [3]geom.MapAccess {
	return [3]geom.MapAccess{geom.AccessBlocked, geom.AccessBlocked, geom.AccessBlocked}
}

func TestAccessIsMinOverTiles(t *testing.T) {
	m := NewDungeonMap(1, 10, 10, nil, nil)
	pos := geom.MapCoord{X: 3, Y: 3}

	floor := NewPlainTile(1, 0, clearAccess(), false, false, true)
	m.AddTile(pos, floor, action.Originator{})
	if got := m.GetAccess(pos, geom.HeightWalking); got != geom.AccessClear {
		t.Fatalf("access = %v, want clear", got)
	}

	wallBlock := NewPlainTile(2, 1, blockedAccess(), true, true, false)
	m.AddTile(pos, wallBlock, action.Originator{})
	if got := m.GetAccess(pos, geom.HeightWalking); got != geom.AccessBlocked {
		t.Fatalf("access = %v, want blocked after adding blocking tile", got)
	}

	if !m.ItemsAllowed(geom.MapCoord{X: 0, Y: 0}) {
		t.Errorf("bare square should allow items")
	}
	if m.ItemsAllowed(pos) {
		t.Errorf("items_allowed should follow the topmost (last-added) blocking tile's flag")
	}
}

func TestOutOfRangeAddTileIsNoOp(t *testing.T) {
	m := NewDungeonMap(1, 5, 5, nil, nil)
	tile := NewPlainTile(1, 0, clearAccess(), false, false, true)
	m.AddTile(geom.MapCoord{X: -1, Y: 0}, tile, action.Originator{})
	m.AddTile(geom.MapCoord{X: 100, Y: 0}, tile, action.Originator{})
	// must not panic; nothing to assert beyond survival
}

func TestDropItemSpillsOutward(t *testing.T) {
	m := NewDungeonMap(1, 10, 10, nil, nil)
	pos := geom.MapCoord{X: 5, Y: 5}

	it := &Item{Type: &ItemType{ID: 1, Name: "gem"}, Count: 1}
	if !m.DropItem(it, pos, true, geom.North, action.Originator{}) {
		t.Fatalf("drop on empty square should succeed")
	}
	if m.GetItem(pos) != it {
		t.Fatalf("item should land on pos when free")
	}

	other := &Item{Type: &ItemType{ID: 2, Name: "gold"}, Count: 1}
	if !m.DropItem(other, pos, true, geom.North, action.Originator{}) {
		t.Fatalf("drop should spill to a neighbouring square when pos is occupied")
	}
	if m.GetItem(pos) != it {
		t.Fatalf("original item should remain at pos")
	}
}

func TestDropItemWithoutNonlocalFailsWhenBlocked(t *testing.T) {
	m := NewDungeonMap(1, 10, 10, nil, nil)
	pos := geom.MapCoord{X: 5, Y: 5}
	it := &Item{Type: &ItemType{ID: 1}, Count: 1}
	m.AddItem(pos, it)

	other := &Item{Type: &ItemType{ID: 2}, Count: 1}
	if m.DropItem(other, pos, false, geom.North, action.Originator{}) {
		t.Fatalf("drop without allowNonlocal should fail on an occupied square")
	}
}

func TestDoorOpenCloseInvariant(t *testing.T) {
	d := NewDoorTile(1, 2, 0, blockedAccess())
	if d.IsOpen() {
		t.Fatalf("new door should start closed")
	}
	d.Open()
	if !d.IsOpen() {
		t.Fatalf("door should report open after Open()")
	}
	if d.Targettable() {
		t.Fatalf("open door should not be targettable")
	}
	d.Close()
	if d.IsOpen() {
		t.Fatalf("door should report closed after Close()")
	}
	for h := geom.HeightWalking; h <= geom.HeightMissiles; h++ {
		if d.Access(h) != geom.AccessBlocked {
			t.Fatalf("closed door access[%d] = %v, want blocked", h, d.Access(h))
		}
	}
}
