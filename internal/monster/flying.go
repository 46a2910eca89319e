package monster

import (
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/scheduler"
)

// FrameImpact is the anim frame a flying monster shows while biting.
const FrameImpact = 1

// targetUnderneath accounts for sub-square offsets when deciding
// whether a flying monster's target is within bite range: same
// square, and the two entities' interpolated offsets differ by less
// than threshold (spec.md §4.8 step 2).
func targetUnderneath(selfPos *entity.Position, selfMotion *entity.Motion, targetPos *entity.Position, targetMotion *entity.Motion, gvt int32, threshold int16) bool {
	if selfPos.Pos != targetPos.Pos {
		return false
	}
	d := selfMotion.Offset(gvt) - targetMotion.Offset(gvt)
	if d < 0 {
		d = -d
	}
	return d < threshold
}

// FlyingTask is the self-rescheduling AI task for a flying monster
// (vampire bat), spec.md §4.8.
type FlyingTask struct {
	AI *AI
	ID ecs.EntityID
}

func (t FlyingTask) Execute(s *scheduler.Scheduler) {
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

	target, found := FindClosestKnight(ai.World, ai.Rooms, pos.MapID, pos.Pos, Always, ai.RNG)

	biteAllowed := false
	if found && !md.RunAwayFlag && gvt >= md.NextBiteTime {
		tpos, _ := ai.World.Positions.Get(target)
		tmotion, _ := ai.World.Motions.Get(target)
		biteAllowed = targetUnderneath(pos, motion, tpos, tmotion, gvt, md.Type.FlyingTargettingOffset)
	}

	haltAtHalfway := false
	height := heightForKind(md.Type.Kind)

	switch {
	case stun.Active(gvt):
		// do nothing this cycle.
	case motion.Moving:
		if biteAllowed {
			ai.bite(id, md, target, gvt)
		}
	case md.RunAwayFlag && found:
		ai.flee(id, md, pos, motion, target, height, gvt)
	case biteAllowed:
		ai.bite(id, md, target, gvt)
	case found:
		ai.chase(id, md, pos, motion, target, height, gvt)
		haltAtHalfway = true
	default:
		if !ai.RNG.Bool(md.Type.MonsterWaitChance) {
			ai.wander(id, md, pos, motion, height, gvt)
		}
	}

	ai.reschedule(t, id, md.Type.MonsterWaitTime, haltAtHalfway)
}

func (ai *AI) bite(id ecs.EntityID, md *entity.MonsterData, target ecs.EntityID, gvt int32) {
	md.NextBiteTime = gvt + md.Type.BiteWait
	dealDamage(ai.World, target, weaponDamage(md.Type.Weapon))

	if anim, ok := ai.World.Anims.Get(id); ok {
		anim.Frame = FrameImpact
		anim.ZeroAtGVT = gvt + md.Type.MeleeDelayTime
	}
	if stun, ok := ai.World.Stuns.Get(id); ok {
		stun.ApplyStun(gvt + md.Type.MeleeDelayTime)
	}
}

// chase moves one square towards target, clearing run-away (spec.md
// §4.8 step 4: "move: ... run movement hooks, clear run-away").
func (ai *AI) chase(id ecs.EntityID, md *entity.MonsterData, pos *entity.Position, motion *entity.Motion, target ecs.EntityID, height geom.MapHeight, gvt int32) {
	tpos, _ := ai.World.Positions.Get(target)
	dir, ok := ChooseDirection(pos.Pos, tpos.Pos, false, func(d geom.MapDirection) bool {
		return ai.canEnter(geom.DisplaceCoord(pos.Pos, d), height)
	}, ai.RNG)
	if !ok || ai.occupiedBySameHeight(geom.DisplaceCoord(pos.Pos, dir), height) {
		return
	}
	ai.startMove(id, pos, motion, dir, entity.MotionMove, 0, gvt)
	md.RunAwayFlag = false
}

func (ai *AI) flee(id ecs.EntityID, md *entity.MonsterData, pos *entity.Position, motion *entity.Motion, target ecs.EntityID, height geom.MapHeight, gvt int32) {
	tpos, _ := ai.World.Positions.Get(target)
	dir := tpos.Facing
	if !ai.canEnter(geom.DisplaceCoord(pos.Pos, dir), height) || ai.occupiedBySameHeight(geom.DisplaceCoord(pos.Pos, dir), height) {
		d, ok := ChooseDirection(pos.Pos, tpos.Pos, true, func(d geom.MapDirection) bool {
			return ai.canEnter(geom.DisplaceCoord(pos.Pos, d), height)
		}, ai.RNG)
		if !ok || ai.occupiedBySameHeight(geom.DisplaceCoord(pos.Pos, d), height) {
			return
		}
		dir = d
	}
	ai.startMove(id, pos, motion, dir, entity.MotionMove, 0, gvt)
	md.RunAwayFlag = false
}

func (ai *AI) wander(id ecs.EntityID, md *entity.MonsterData, pos *entity.Position, motion *entity.Motion, height geom.MapHeight, gvt int32) {
	dir, ok := ChooseDirection(pos.Pos, pos.Pos, false, func(d geom.MapDirection) bool {
		return ai.canEnter(geom.DisplaceCoord(pos.Pos, d), height)
	}, ai.RNG)
	if !ok || ai.occupiedBySameHeight(geom.DisplaceCoord(pos.Pos, dir), height) {
		return
	}
	ai.startMove(id, pos, motion, dir, entity.MotionMove, 0, gvt)
	md.RunAwayFlag = false
}
