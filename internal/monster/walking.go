package monster

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/scheduler"
)

// WalkingTask is the self-rescheduling AI task for a walking monster
// (zombie), spec.md §4.8.
type WalkingTask struct {
	AI *AI
	ID ecs.EntityID
}

func (t WalkingTask) Execute(s *scheduler.Scheduler) {
	ai := t.AI
	id := t.ID
	gvt := s.GVT()

	md, ok := ai.World.Monsters.Get(id)
	if !ok {
		return
	}
	pos, ok := ai.World.Positions.Get(id)
	if !ok {
		return
	}
	stun, _ := ai.World.Stuns.Get(id)
	motion, _ := ai.World.Motions.Get(id)
	height := heightForKind(md.Type.Kind)

	if entity.CanAct(*stun, *motion, gvt) {
		target, found := FindClosestKnight(ai.World, ai.Rooms, pos.MapID, pos.Pos, VisibleAndCarrying(md.Type.FearItems), ai.RNG)
		runAway := found
		if !found {
			target, found = FindClosestKnight(ai.World, ai.Rooms, pos.MapID, pos.Pos, visible, ai.RNG)
		}

		stayIdle := !found && ai.RNG.Bool(md.Type.MonsterWaitChance)

		var dir geom.MapDirection
		var decided bool
		if !stayIdle {
			targetPos := pos.Pos
			if found {
				tpos, _ := ai.World.Positions.Get(target)
				targetPos = tpos.Pos
			}
			dir, decided = ChooseDirection(pos.Pos, targetPos, runAway, func(d geom.MapDirection) bool {
				return ai.canEnter(geom.DisplaceCoord(pos.Pos, d), height)
			}, ai.RNG)
		}

		switch {
		case decided:
			ai.actInDirection(id, md, pos, motion, dir, gvt)
		case found:
			pos.Facing = directionTowards(pos.Pos, mustPos(ai, target))
		default:
			pos.Facing = geom.MapDirection(ai.RNG.Int(0, 4))
		}
	}

	ai.reschedule(t, id, md.Type.MonsterWaitTime, false)
}

func mustPos(ai *AI, id ecs.EntityID) geom.MapCoord {
	p, _ := ai.World.Positions.Get(id)
	return p.Pos
}

// directionTowards gives the single cardinal direction closest to
// facing target from self, used when turning to face without moving.
func directionTowards(self, target geom.MapCoord) geom.MapDirection {
	dx := int(target.X) - int(self.X)
	dy := int(target.Y) - int(self.Y)
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return geom.East
		}
		return geom.West
	}
	if dy >= 0 {
		return geom.South
	}
	return geom.North
}

// visible matches any non-invisible knight, regardless of inventory.
func visible(ew *entity.World, id ecs.EntityID) bool {
	fl, ok := ew.Flags.Get(id)
	return ok && !fl.Invisible
}

// actInDirection implements spec.md §4.8 step 3's "can act" branch:
// swing at whatever occupies the chosen tile, or move into it.
func (ai *AI) actInDirection(id ecs.EntityID, md *entity.MonsterData, pos *entity.Position, motion *entity.Motion, dir geom.MapDirection, gvt int32) {
	chosen := geom.DisplaceCoord(pos.Pos, dir)
	pos.Facing = dir

	for _, occ := range ai.DMap.GetEntities(chosen) {
		occID := ecs.EntityID(occ)
		if !visible(ai.World, occID) {
			continue
		}
		if kd, ok := ai.World.Knights.Get(occID); ok && !carryingAny(kd, md.Type.FearItems) {
			ai.swing(id, md, occID, chosen, gvt)
			return
		}
	}

	if item := ai.DMap.GetItem(chosen); item != nil && isHitItem(md.Type.HitItems, item.Type) {
		ai.swingTile(id, md, chosen, gvt)
		return
	}

	for _, tile := range ai.DMap.GetTiles(chosen) {
		if _, isDoor := tile.(*dungeon.DoorTile); isDoor {
			continue
		}
		if tile.Destructible() {
			ai.swingTile(id, md, chosen, gvt)
			return
		}
	}

	if ai.occupiedBySameHeight(chosen, heightForKind(md.Type.Kind)) {
		return
	}
	ai.startMove(id, pos, motion, dir, entity.MotionMove, 0, gvt)
	md.RunAwayFlag = false
}

func carryingAny(kd *entity.KnightData, itypes []*dungeon.ItemType) bool {
	for _, it := range itypes {
		if kd.Carrying(it) {
			return true
		}
	}
	return false
}

func isHitItem(hitItems []*dungeon.ItemType, t *dungeon.ItemType) bool {
	for _, h := range hitItems {
		if h == t {
			return true
		}
	}
	return false
}

func (ai *AI) swing(id ecs.EntityID, md *entity.MonsterData, target ecs.EntityID, at geom.MapCoord, gvt int32) {
	dealDamage(ai.World, target, weaponDamage(md.Type.Weapon))
}

func (ai *AI) swingTile(id ecs.EntityID, md *entity.MonsterData, at geom.MapCoord, gvt int32) {
	if ai.Executor == nil {
		return
	}
	pos, _ := ai.World.Positions.Get(id)
	for _, tile := range ai.DMap.GetTiles(at) {
		if _, isDoor := tile.(*dungeon.DoorTile); isDoor {
			continue
		}
		if !tile.Destructible() {
			continue
		}
		action.Run(ai.Executor, tile.OnHit(), action.Context{
			MapID: int32(pos.MapID), X: int32(at.X), Y: int32(at.Y),
			ActorID: uint64(id), Originator: action.Originator{Kind: action.OriginatorMonster},
		})
		return
	}
}
