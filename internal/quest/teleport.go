package quest

import (
	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/ids"
	"github.com/knights-server/engine/internal/room"
)

// doTeleport performs the actual move: sets the knight's Teleported
// flag (suppresses the room-reveal animation until they re-see a room
// they've already mapped), updates facing and position, and moves the
// entity between DungeonMap squares. Applied from all three public
// entry points below, matching the original's shared DoTeleportToSquare
// helper (spec.md §4.9).
func doTeleport(ew *entity.World, dmap *dungeon.DungeonMap, id ecs.EntityID, pos *entity.Position, mc geom.MapCoord, newFacing geom.MapDirection) {
	if kd, ok := ew.Knights.Get(id); ok {
		kd.Teleported = true
	}
	from := pos.Pos
	pos.Facing = newFacing
	pos.Pos = mc
	dmap.MoveEntity(entity.ToIDS(id), from, mc)
}

func trySquare(ew *entity.World, dmap *dungeon.DungeonMap, id ecs.EntityID, pos *entity.Position, mc geom.MapCoord) bool {
	if dmap.GetAccess(mc, geom.HeightWalking) != geom.AccessClear {
		return false
	}
	doTeleport(ew, dmap, id, pos, mc, pos.Facing)
	return true
}

// ToSquare tries target, then target displaced by the entity's own
// facing, its opposite, its clockwise and its anticlockwise neighbour
// in that fixed order, accepting the first with clear walking access
// (spec.md §4.9). Reports whether any attempt succeeded.
func ToSquare(ew *entity.World, dmap *dungeon.DungeonMap, id ecs.EntityID, target geom.MapCoord) bool {
	pos, ok := ew.Positions.Get(id)
	if !ok || pos.MapID != dmap.ID {
		return false
	}
	f := pos.Facing
	for _, mc := range [...]geom.MapCoord{
		target,
		geom.DisplaceCoord(target, f),
		geom.DisplaceCoord(target, f.Opposite()),
		geom.DisplaceCoord(target, f.Clockwise()),
		geom.DisplaceCoord(target, f.Anticlockwise()),
	} {
		if trySquare(ew, dmap, id, pos, mc) {
			return true
		}
	}
	return false
}

// ToRandomSquare makes 50 uniform attempts at a square strictly inside
// the dungeon border (x in [1, w-1), y in [1, h-1) — border squares
// are conventionally unwalkable walls), giving up after that
// (spec.md §4.9).
func ToRandomSquare(ew *entity.World, dmap *dungeon.DungeonMap, id ecs.EntityID, rng *clock.RNG) bool {
	pos, ok := ew.Positions.Get(id)
	if !ok {
		return false
	}
	for i := 0; i < 50; i++ {
		mc := geom.MapCoord{
			X: int16(rng.Int(1, int(dmap.Width)-1)),
			Y: int16(rng.Int(1, int(dmap.Height)-1)),
		}
		if trySquare(ew, dmap, id, pos, mc) {
			return true
		}
	}
	return false
}

// ToRoom teleports from into the room containing to's position: if to
// sits on a shared two-room border, one room is picked uniformly at
// random; otherwise 100 uniform samples of the room's interior are
// tried for clear walking access, with a uniformly random new facing
// chosen up front regardless of whether the search succeeds
// (spec.md §4.9).
func ToRoom(ew *entity.World, dmap *dungeon.DungeonMap, rooms *room.RoomMap, id ecs.EntityID, to geom.MapCoord, rng *clock.RNG) bool {
	pos, ok := ew.Positions.Get(id)
	if !ok {
		return false
	}

	r1, r2 := rooms.RoomsAt(to)
	if r1 == room.NoRoom {
		return false
	}
	if r2 != room.NoRoom && rng.Bool(0.5) {
		r1 = r2
	}
	topLeft, width, height := rooms.RoomLocation(r1)

	newFacing := geom.MapDirection(rng.Int(0, 4))

	found := geom.NullCoord
	for i := 0; i < 100; i++ {
		mc := geom.MapCoord{
			X: topLeft.X + int16(rng.Int(0, width)),
			Y: topLeft.Y + int16(rng.Int(0, height)),
		}
		if dmap.GetAccess(mc, geom.HeightWalking) == geom.AccessClear {
			found = mc
			break
		}
	}
	if found.IsNull() {
		return false
	}
	doTeleport(ew, dmap, id, pos, found, newFacing)
	return true
}

// FindNearestOtherKnight returns the closest knight to fromPos on the
// given map (Manhattan distance, ties broken uniformly at random). Not
// called by any built-in quest or action in the original engine — only
// Lua hook fragments reference it there, and the same holds here.
func FindNearestOtherKnight(ew *entity.World, mapID ids.MapID, fromPos geom.MapCoord, rng *clock.RNG) (ecs.EntityID, bool) {
	best := ecs.EntityID(0)
	bestDist := -1
	found := false
	ties := 0

	ecs.Each2(ew.Knights, ew.Positions, func(id ecs.EntityID, _ *entity.KnightData, pos *entity.Position) {
		if pos.MapID != mapID {
			return
		}
		dx := int(pos.Pos.X) - int(fromPos.X)
		if dx < 0 {
			dx = -dx
		}
		dy := int(pos.Pos.Y) - int(fromPos.Y)
		if dy < 0 {
			dy = -dy
		}
		d := dx + dy
		if d == 0 {
			return
		}
		if !found || d < bestDist {
			best, bestDist, found, ties = id, d, true, 1
		} else if d == bestDist {
			ties++
			if rng.Int(0, ties) == 0 {
				best = id
			}
		}
	})
	return best, found
}

// FindRandomOtherKnight returns a uniformly random knight other than
// me, by shuffling the full knight roster and returning the first
// survivor (matching the original's random_shuffle-then-scan).
func FindRandomOtherKnight(ew *entity.World, me ecs.EntityID, rng *clock.RNG) (ecs.EntityID, bool) {
	var all []ecs.EntityID
	ecs.Each2(ew.Knights, ew.Positions, func(id ecs.EntityID, _ *entity.KnightData, _ *entity.Position) {
		all = append(all, id)
	})
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	for _, id := range all {
		if id != me {
			return id, true
		}
	}
	return 0, false
}
