package monster

import (
	"testing"

	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/ids"
	"github.com/knights-server/engine/internal/room"
	"github.com/knights-server/engine/internal/scheduler"
)

func plainTile() dungeon.Tile {
	access := [3]geom.MapAccess{geom.AccessClear, geom.AccessClear, geom.AccessClear}
	return dungeon.NewPlainTile(1, 0, access, false, false, true)
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

func TestChooseDirectionPrefersTowardsTarget(t *testing.T) {
	rng := clock.NewRNG(1)
	self := geom.MapCoord{X: 0, Y: 0}
	target := geom.MapCoord{X: 5, Y: 0}
	dir, ok := ChooseDirection(self, target, false, func(geom.MapDirection) bool { return true }, rng)
	if !ok || dir != geom.East {
		t.Fatalf("expected East towards a due-east target, got %v ok=%v", dir, ok)
	}
}

func TestChooseDirectionFleeGoesAway(t *testing.T) {
	rng := clock.NewRNG(1)
	self := geom.MapCoord{X: 0, Y: 0}
	target := geom.MapCoord{X: 5, Y: 0}
	dir, ok := ChooseDirection(self, target, true, func(geom.MapDirection) bool { return true }, rng)
	if !ok || dir != geom.West {
		t.Fatalf("expected West fleeing a due-east target, got %v ok=%v", dir, ok)
	}
}

func TestChooseDirectionFallsBackWhenBlocked(t *testing.T) {
	rng := clock.NewRNG(1)
	self := geom.MapCoord{X: 0, Y: 0}
	target := geom.MapCoord{X: 5, Y: 0}
	dir, ok := ChooseDirection(self, target, false, func(d geom.MapDirection) bool { return d == geom.South }, rng)
	if !ok || dir != geom.South {
		t.Fatalf("expected the only open direction South, got %v ok=%v", dir, ok)
	}
}

func TestFindClosestKnightBreaksTiesAndFiltersRoom(t *testing.T) {
	ew := entity.NewWorld()
	rooms := room.New()
	rooms.AddRoom(geom.MapCoord{X: 0, Y: 0}, 10, 10)
	rooms.DoneAddingRooms(clock.NewRNG(1))

	near := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 1, Y: 1}}, 1)
	far := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 8, Y: 8}}, 2)

	id, found := FindClosestKnight(ew, rooms, 1, geom.MapCoord{X: 1, Y: 2}, Always, clock.NewRNG(1))
	if !found || id != near {
		t.Fatalf("expected the nearer knight %v, got %v found=%v", near, id, found)
	}
	_ = far
}

func TestOnMonsterDamagedForcesRunAwayAndClearsStunForFlying(t *testing.T) {
	ew := entity.NewWorld()
	mtype := &entity.MType{Kind: entity.MonsterFlying}
	id := ew.SpawnMonster(entity.Position{}, entity.MonsterData{Type: mtype})

	stunUntil := OnMonsterDamaged(ew, id, 500)
	if stunUntil != entity.NoStun {
		t.Fatalf("flying monster should be immune to impact-stun, got %d", stunUntil)
	}
	md, _ := ew.Monsters.Get(id)
	if !md.RunAwayFlag {
		t.Fatalf("any damage should set the run-away flag")
	}
}

func TestOnMonsterDamagedPreservesStunForWalking(t *testing.T) {
	ew := entity.NewWorld()
	mtype := &entity.MType{Kind: entity.MonsterWalking}
	id := ew.SpawnMonster(entity.Position{}, entity.MonsterData{Type: mtype})

	stunUntil := OnMonsterDamaged(ew, id, 500)
	if stunUntil != 500 {
		t.Fatalf("walking monster's requested stun should pass through, got %d", stunUntil)
	}
}

func TestFlyingTaskChasesAndBites(t *testing.T) {
	ew := entity.NewWorld()
	dmap := newMap(10, 10)
	rooms := room.New()
	rooms.AddRoom(geom.MapCoord{X: 0, Y: 0}, 10, 10)
	rooms.DoneAddingRooms(clock.NewRNG(1))

	knight := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 3, Y: 3}}, 1)
	kd, _ := ew.Knights.Get(knight)
	kd.Health = 10
	dmap.AddEntity(geom.MapCoord{X: 3, Y: 3}, entity.ToIDS(knight))

	mtype := &entity.MType{
		Kind:                   entity.MonsterFlying,
		FlyingTargettingOffset: 500,
		BiteWait:               1000,
		MeleeDelayTime:         200,
	}
	bat := ew.SpawnMonster(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 0, Y: 3}, Height: geom.HeightFlying}, entity.MonsterData{Type: mtype})
	dmap.AddEntity(geom.MapCoord{X: 0, Y: 3}, entity.ToIDS(bat))

	sched := scheduler.New()
	ai := &AI{World: ew, DMap: dmap, Rooms: rooms, Scheduler: sched, RNG: clock.NewRNG(1), MoveMillisPerSquare: 100}

	sched.AddTask(FlyingTask{AI: ai, ID: bat}, scheduler.Low, 0)
	sched.RunUntil(10000)

	if kd.Health >= 10 {
		t.Fatalf("knight should have taken bite damage by the time the bat reaches it, health=%d", kd.Health)
	}
}

func TestWalkingTaskSwingsAtAdjacentKnight(t *testing.T) {
	ew := entity.NewWorld()
	dmap := newMap(5, 5)
	rooms := room.New()
	rooms.AddRoom(geom.MapCoord{X: 0, Y: 0}, 5, 5)
	rooms.DoneAddingRooms(clock.NewRNG(1))

	knight := ew.SpawnKnight(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 1, Y: 0}}, 1)
	kd, _ := ew.Knights.Get(knight)
	kd.Health = 10
	dmap.AddEntity(geom.MapCoord{X: 1, Y: 0}, entity.ToIDS(knight))

	mtype := &entity.MType{Kind: entity.MonsterWalking, MonsterWaitChance: 0, MonsterWaitTime: 500}
	zombie := ew.SpawnMonster(entity.Position{MapID: 1, Pos: geom.MapCoord{X: 0, Y: 0}}, entity.MonsterData{Type: mtype})
	dmap.AddEntity(geom.MapCoord{X: 0, Y: 0}, entity.ToIDS(zombie))

	sched := scheduler.New()
	ai := &AI{World: ew, DMap: dmap, Rooms: rooms, Scheduler: sched, RNG: clock.NewRNG(3), MoveMillisPerSquare: 100}

	WalkingTask{AI: ai, ID: zombie}.Execute(sched)

	if kd.Health >= 10 {
		t.Fatalf("adjacent knight should have been swung at, health=%d", kd.Health)
	}
	if mpos, _ := ew.Positions.Get(zombie); mpos.Pos != (geom.MapCoord{X: 0, Y: 0}) {
		t.Fatalf("zombie should not move onto the knight's square, stayed put expected, got %v", mpos.Pos)
	}

	_ = ecs.EntityID(0)
	_ = ids.EntityID(0)
}
