package engine

import (
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/room"
	"github.com/knights-server/engine/internal/view"
)

// displayIDFor returns the stable u16 wire id for an entity, assigning
// the next free one on first sight (spec.md §4.10: "allocated by the
// server and stable for the entity's lifetime").
func (e *Engine) displayIDFor(id ecs.EntityID) uint16 {
	if e.displayIDs == nil {
		e.displayIDs = make(map[ecs.EntityID]uint16)
	}
	if d, ok := e.displayIDs[id]; ok {
		return d
	}
	e.nextDisplayID++
	if e.nextDisplayID == 0 {
		e.nextDisplayID++ // 0 is reserved for SelfDisplayID
	}
	d := e.nextDisplayID
	e.displayIDs[id] = d
	return d
}

// syncPlayerView pushes p's SetCurrentRoom transition (when their
// knight crossed into a new room) and a full entity diff against
// every entity sharing that room, per spec.md §4.10.
func (e *Engine) syncPlayerView(p *Player) {
	pos, ok := e.World.Positions.Get(p.Entity)
	if !ok {
		return
	}
	r1, _ := e.Rooms.RoomsAt(pos.Pos)
	if r1 != p.currentRoom {
		p.currentRoom = r1
		p.DungeonView.SetCurrentRoom(uint16(r1), uint16(e.DMap.Width), uint16(e.DMap.Height))
	}

	visible := e.visibleEntitiesFor(p, r1)
	p.DungeonView.SyncEntities(visible)
}

// visibleEntitiesFor snapshots every entity sharing p's current room
// (spec.md §4.4's room membership, §4.10's visible-entity set). There
// is no dedicated spatial index for "entities in room R" beyond
// per-square occupancy, so this walks every live Position once per
// player per tick — acceptable at Knights' scale of a handful of
// rooms and a few dozen entities per game.
func (e *Engine) visibleEntitiesFor(p *Player, r1 room.RoomID) []view.EntitySnapshot {
	gvt := e.Scheduler.GVT()
	var out []view.EntitySnapshot

	e.World.Positions.Each(func(id ecs.EntityID, pos *entity.Position) {
		if pos.MapID != e.opts.MapID {
			return
		}
		pr1, pr2 := e.Rooms.RoomsAt(pos.Pos)
		if pr1 != r1 && pr2 != r1 {
			return
		}

		wireID := e.displayIDFor(id)
		if id == p.Entity {
			wireID = 0
		}

		motion, _ := e.World.Motions.Get(id)
		anim, _ := e.World.Anims.Get(id)
		flags, _ := e.World.Flags.Get(id)

		snap := view.EntitySnapshot{
			ID:     wireID,
			X:      pos.Pos.X,
			Y:      pos.Pos.Y,
			Height: uint8(pos.Height),
			Facing: uint8(pos.Facing),
		}
		if motion != nil {
			snap.CurOfs = motion.Offset(gvt)
			if motion.Moving {
				snap.MotionKind = uint8(motion.Kind)
				snap.MotionTimeRemainingMs = motion.ArrivalTimeGVT - gvt
			}
		}
		if anim != nil {
			snap.AnimFrame = uint16(anim.ResolveFrame(gvt))
			snap.Overlay = uint16(anim.Overlay)
			if anim.ZeroAtGVT != entity.NoAutoZero {
				snap.AnimZeroTimeDeltaMs = anim.ZeroAtGVT - gvt
			}
		}
		if flags != nil {
			snap.Invisible = flags.Invisible
			snap.Invulnerable = flags.Invulnerable
		}
		if kd, ok := e.World.Knights.Get(id); ok {
			snap.PlayerID = uint16(kd.PlayerID)
		}

		out = append(out, snap)
	})
	return out
}
