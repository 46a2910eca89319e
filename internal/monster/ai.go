// Package monster implements the monster AI of spec.md §4.8: the
// flying bite-and-retreat pattern and the walking melee-and-fear-items
// pattern, both driven as self-rescheduling internal/scheduler tasks.
//
// Grounded on the teacher's internal/system/npc_ai.go for the overall
// shape (a per-tick target search followed by an act-then-reschedule
// step) and internal/handler/movement.go for the 8-directional heading
// table this package narrows to Knights' four cardinal directions.
package monster

import (
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

// AI is the shared context every monster task runs against.
type AI struct {
	World     *entity.World
	DMap      *dungeon.DungeonMap
	Rooms     *room.RoomMap
	Scheduler *scheduler.Scheduler
	RNG       *clock.RNG
	Executor  action.Executor // used to fire on_hit when swinging at a destructible tile

	// MoveMillisPerSquare converts a full move into a GVT duration;
	// Knights measures GVT in milliseconds (spec.md §4.2).
	MoveMillisPerSquare int32
}

func heightForKind(k entity.MonsterKind) geom.MapHeight {
	if k == entity.MonsterFlying {
		return geom.HeightFlying
	}
	return geom.HeightWalking
}

// moveCompletion finalises a motion once it arrives, settling the
// entity's offset and moving it between DungeonMap squares.
type moveCompletion struct {
	ai       *AI
	id       ecs.EntityID
	from, to geom.MapCoord
}

func (c moveCompletion) Execute(s *scheduler.Scheduler) {
	pos, ok := c.ai.World.Positions.Get(c.id)
	if !ok {
		return
	}
	motion, ok := c.ai.World.Motions.Get(c.id)
	if !ok {
		return
	}
	entity.SettleMotion(motion, s.GVT())
	pos.Pos = c.to
	c.ai.DMap.MoveEntity(entity.ToIDS(c.id), c.from, c.to)
}

// startMove sets facing, begins the motion interpolation and schedules
// the completion task, returning the destination square.
func (ai *AI) startMove(id ecs.EntityID, pos *entity.Position, motion *entity.Motion, dir geom.MapDirection, kind entity.MotionKind, approachOffset int16, gvt int32) geom.MapCoord {
	pos.Facing = dir
	dest := geom.DisplaceCoord(pos.Pos, dir)
	arrival := gvt + ai.MoveMillisPerSquare
	entity.StartMotion(motion, kind, approachOffset, gvt, arrival, false)
	ai.Scheduler.AddTask(moveCompletion{ai: ai, id: id, from: pos.Pos, to: dest}, scheduler.Normal, arrival)
	return dest
}

// dealDamage reduces a knight's health, clamped at zero. Monster
// bites and swings are engine-intrinsic, not routed through the
// Action/Executor dispatch that tile hooks use.
func dealDamage(ew *entity.World, target ecs.EntityID, amount int) {
	kd, ok := ew.Knights.Get(target)
	if !ok {
		return
	}
	kd.Health -= amount
	if kd.Health < 0 {
		kd.Health = 0
	}
}

func weaponDamage(it *dungeon.ItemType) int {
	if it == nil {
		return 1
	}
	return it.WeaponDamage
}

// Always matches every knight; used by FlyingMonsterAI's target search.
func Always(*entity.World, ecs.EntityID) bool { return true }

// VisibleAndCarrying matches knights that are not invisible and hold
// at least one of the given item types, in hand or in backpack
// (spec.md §4.8 step 1 / §4.9's fear-item predicate).
func VisibleAndCarrying(itypes []*dungeon.ItemType) func(*entity.World, ecs.EntityID) bool {
	return func(ew *entity.World, id ecs.EntityID) bool {
		fl, ok := ew.Flags.Get(id)
		if !ok || fl.Invisible {
			return false
		}
		kd, ok := ew.Knights.Get(id)
		if !ok {
			return false
		}
		for _, it := range itypes {
			if kd.Carrying(it) {
				return true
			}
		}
		return false
	}
}

// FindClosestKnight returns the closest knight to fromPos (Manhattan
// distance, same map, same RoomMap room) matching predicate, ties
// broken uniformly at random (spec.md §4.8).
func FindClosestKnight(ew *entity.World, rooms *room.RoomMap, mapID ids.MapID, fromPos geom.MapCoord, predicate func(*entity.World, ecs.EntityID) bool, rng *clock.RNG) (ecs.EntityID, bool) {
	best := make([]ecs.EntityID, 0, 4)
	bestDist := -1

	ecs.Each2(ew.Knights, ew.Positions, func(id ecs.EntityID, _ *entity.KnightData, pos *entity.Position) {
		if pos.MapID != mapID {
			return
		}
		if !rooms.InSameRoom(fromPos, pos.Pos) {
			return
		}
		if predicate != nil && !predicate(ew, id) {
			return
		}
		d := ManhattanDistance(fromPos, pos.Pos)
		switch {
		case bestDist < 0 || d < bestDist:
			bestDist = d
			best = append(best[:0], id)
		case d == bestDist:
			best = append(best, id)
		}
	})
	if len(best) == 0 {
		return 0, false
	}
	return best[rng.Int(0, len(best))], true
}

// canEnter is the terrain-only movement-possibility predicate fed to
// ChooseDirection as its can_move_pred (spec.md §4.8's choose_direction
// takes the map's access grid, never entity occupancy — GetAccess
// itself only ever examines tile data, see internal/dungeon/map.go).
// A direction towards an occupied square must still be *choosable*: a
// walking monster's only way to swing at an adjacent knight is for
// that knight's square to remain a candidate direction in the first
// place, and a flying monster's bite requires sharing a square with
// its target. Occupancy is handled separately, at the point a monster
// actually commits to moving (see occupiedBySameHeight), not here.
func (ai *AI) canEnter(mc geom.MapCoord, h geom.MapHeight) bool {
	return ai.DMap.GetAccess(mc, h) == geom.AccessClear
}

// occupiedBySameHeight reports whether mc already holds another entity
// sharing height h. A flying monster may freely share a square with a
// walking knight (that is what lets it end up "underneath" its
// target), but two entities of the same height may not stack — this
// is checked only when a monster is about to actually step into mc,
// after any swing-instead-of-move branch has already had its chance to
// fire (spec.md §4.3's per-height occupancy model).
func (ai *AI) occupiedBySameHeight(mc geom.MapCoord, h geom.MapHeight) bool {
	for _, occ := range ai.DMap.GetEntities(mc) {
		if pos, ok := ai.World.Positions.Get(ecs.EntityID(occ)); ok && pos.Height == h {
			return true
		}
	}
	return false
}

func (ai *AI) cannotActUntil(id ecs.EntityID, haltAtHalfway bool) int32 {
	stun, _ := ai.World.Stuns.Get(id)
	motion, _ := ai.World.Motions.Get(id)
	return entity.CannotActUntil(*stun, *motion, haltAtHalfway)
}

// reschedule applies the shared rule of spec.md §4.8: idle monsters
// wake again after monsterWaitTime; busy ones wake the instant they
// become free.
func (ai *AI) reschedule(task scheduler.Task, id ecs.EntityID, monsterWaitTime int32, haltAtHalfway bool) {
	gvt := ai.Scheduler.GVT()
	stun, _ := ai.World.Stuns.Get(id)
	motion, _ := ai.World.Motions.Get(id)
	if entity.CanAct(*stun, *motion, gvt) {
		ai.Scheduler.AddTask(task, scheduler.Low, gvt+monsterWaitTime)
		return
	}
	ai.Scheduler.AddTask(task, scheduler.Low, ai.cannotActUntil(id, haltAtHalfway)+1)
}

// OnMonsterDamaged applies spec.md §4.8's damage override: any damage
// sets the run-away flag, and a flying monster is immune to
// impact-stun (its stun-until is forced to NoStun regardless of what
// the damage source requested). Callers invoke this from the engine's
// damage-resolution path before applying the caller-supplied stun.
func OnMonsterDamaged(ew *entity.World, id ecs.EntityID, requestedStunUntil int32) (stunUntil int32) {
	md, ok := ew.Monsters.Get(id)
	if !ok {
		return requestedStunUntil
	}
	md.RunAwayFlag = true
	if md.Type != nil && md.Type.Kind == entity.MonsterFlying {
		return entity.NoStun
	}
	return requestedStunUntil
}
