package quest

import (
	"testing"

	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/room"
)

func plainTile() dungeon.Tile {
	access := [3]geom.MapAccess{geom.AccessClear, geom.AccessClear, geom.AccessClear}
	return dungeon.NewPlainTile(1, 0, access, false, false, true)
}

func wallTile() dungeon.Tile {
	access := [3]geom.MapAccess{geom.AccessBlocked, geom.AccessBlocked, geom.AccessBlocked}
	return dungeon.NewPlainTile(2, 0, access, false, false, false)
}

func newMap(w, h int16) *dungeon.DungeonMap {
	m := dungeon.NewDungeonMap(1, w, h, nil, nil)
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			m.AddTile(geom.MapCoord{X: x, Y: y}, plainTile(), action.Originator{})
		}
	}
	return m
}

func TestRetrieveChecksHandAndBackpack(t *testing.T) {
	gem := &dungeon.ItemType{ID: 1, Name: "gem", MaxStack: 5}
	other := &dungeon.ItemType{ID: 2, Name: "key", MaxStack: 5}
	q := &Retrieve{No: 2, Types: []*dungeon.ItemType{gem}, Singular: "a gem", Plural: "gems", RequiredMsg: "is required"}

	kt := &entity.KnightData{}
	if q.Check(CheckContext{Knight: kt}) {
		t.Fatalf("empty-handed knight should not satisfy the quest")
	}

	kt.ItemInHand = &dungeon.Item{Type: gem, Count: 1}
	if !q.Check(CheckContext{Knight: kt}) {
		t.Fatalf("holding the item in hand should satisfy a retrieve quest regardless of count")
	}

	kt2 := &entity.KnightData{}
	kt2.AddToBackpack(gem, 1)
	if q.Check(CheckContext{Knight: kt2}) {
		t.Fatalf("backpack count below No should not satisfy the quest")
	}
	kt2.AddToBackpack(gem, 1)
	if !q.Check(CheckContext{Knight: kt2}) {
		t.Fatalf("backpack count >= No should satisfy the quest")
	}

	if q.IsItemInteresting(other) {
		t.Fatalf("unrelated item type should not be interesting")
	}
	if !q.IsItemInteresting(gem) {
		t.Fatalf("quest item type should be interesting")
	}

	required := map[*dungeon.ItemType]int{gem: 1}
	q.RequiredItems(required)
	if required[gem] != 2 {
		t.Fatalf("required_items should take the max, got %d", required[gem])
	}
}

func TestRetrieveHintSingularPlural(t *testing.T) {
	gem := &dungeon.ItemType{ID: 1}
	single := &Retrieve{No: 1, Singular: "a gem", Plural: "gems", RequiredMsg: "is required", Types: []*dungeon.ItemType{gem}}
	if got := single.Hint(); got != "a gem is required" {
		t.Fatalf("singular hint = %q", got)
	}
	plural := &Retrieve{No: 3, Singular: "a gem", Plural: "gems", RequiredMsg: "are required", Types: []*dungeon.ItemType{gem}}
	if got := plural.Hint(); got != "3 gems are required" {
		t.Fatalf("plural hint = %q", got)
	}
}

func TestDestroyRequiresWandInHandAndBookAhead(t *testing.T) {
	book := &dungeon.ItemType{ID: 1, Name: "book"}
	wand := &dungeon.ItemType{ID: 2, Name: "wand"}
	q := &Destroy{Book: []*dungeon.ItemType{book}, Wand: []*dungeon.ItemType{wand}}

	dmap := newMap(5, 5)
	kt := &entity.KnightData{ItemInHand: &dungeon.Item{Type: wand, Count: 1}}
	pos := entity.Position{Pos: geom.MapCoord{X: 1, Y: 1}, Facing: geom.East}

	if q.Check(CheckContext{Knight: kt, Pos: pos, DMap: dmap}) {
		t.Fatalf("no book on the tile ahead should fail the check")
	}

	dmap.AddItem(geom.MapCoord{X: 2, Y: 1}, &dungeon.Item{Type: book, Count: 1})
	if !q.Check(CheckContext{Knight: kt, Pos: pos, DMap: dmap}) {
		t.Fatalf("wand in hand + book ahead should satisfy the quest")
	}
	if q.Message() != "Destroy Book with Wand" {
		t.Fatalf("unexpected quest message %q", q.Message())
	}
}

func TestHintManagerSortsAndSeparatesGroups(t *testing.T) {
	var hm HintManager
	hm.AddHint("second group, first", 1, 2)
	hm.AddHint("first group, second", 2, 1)
	hm.AddHint("first group, first", 1, 1)

	var got []string
	hm.SendHints(sinkFunc(func(lines []string) { got = lines }))

	want := []string{
		"first group, first",
		"first group, second",
		"",
		"--- OR ---",
		"",
		"second group, first",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

type sinkFunc func(lines []string)

func (f sinkFunc) SetQuestHints(lines []string) { f(lines) }

func TestTeleportToSquareFallsBackToAdjacentSquare(t *testing.T) {
	ew := entity.NewWorld()
	dmap := newMap(5, 5)
	dmap.AddTile(geom.MapCoord{X: 2, Y: 2}, wallTile(), action.Originator{})

	id := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 0, Y: 0}, Facing: geom.East}, 1)
	dmap.AddEntity(geom.MapCoord{X: 0, Y: 0}, entity.ToIDS(id))

	if !ToSquare(ew, dmap, id, geom.MapCoord{X: 2, Y: 2}) {
		t.Fatalf("expected teleport to fall back to an adjacent clear square")
	}
	pos, _ := ew.Positions.Get(id)
	if pos.Pos == (geom.MapCoord{X: 2, Y: 2}) {
		t.Fatalf("blocked target square should not have been accepted")
	}
	kt, _ := ew.Knights.Get(id)
	if !kt.Teleported {
		t.Fatalf("teleported flag should be set")
	}
}

func TestTeleportToRoomPicksInteriorSquare(t *testing.T) {
	ew := entity.NewWorld()
	dmap := newMap(10, 10)
	rooms := room.New()
	rooms.AddRoom(geom.MapCoord{X: 0, Y: 0}, 10, 10)
	rooms.DoneAddingRooms(clock.NewRNG(1))

	fromID := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 0, Y: 0}}, 1)
	toID := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 5, Y: 5}}, 2)
	dmap.AddEntity(geom.MapCoord{X: 0, Y: 0}, entity.ToIDS(fromID))
	dmap.AddEntity(geom.MapCoord{X: 5, Y: 5}, entity.ToIDS(toID))

	toPos, _ := ew.Positions.Get(toID)
	if !ToRoom(ew, dmap, rooms, fromID, toPos.Pos, clock.NewRNG(2)) {
		t.Fatalf("expected ToRoom to find an interior square")
	}
	fromPos, _ := ew.Positions.Get(fromID)
	if fromPos.Pos.X < 0 || fromPos.Pos.X >= 10 || fromPos.Pos.Y < 0 || fromPos.Pos.Y >= 10 {
		t.Fatalf("teleported position %v out of room bounds", fromPos.Pos)
	}
}

func TestFindNearestOtherKnightManhattan(t *testing.T) {
	ew := entity.NewWorld()
	near := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 1, Y: 1}}, 1)
	far := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 8, Y: 8}}, 2)

	id, found := FindNearestOtherKnight(ew, 1, geom.MapCoord{X: 1, Y: 2}, clock.NewRNG(1))
	if !found || id != near {
		t.Fatalf("expected nearer knight %v, got %v found=%v", near, id, found)
	}
	_ = far
}
