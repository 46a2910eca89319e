package engine

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/room"
)

// Execute implements action.Executor, dispatching every non-Sequence
// Action variant to real engine state (spec.md §9's design notes: "a
// table of engine-intrinsic handlers" alongside RunScriptFragment's
// Lua bridge). Sequence never reaches here — action.Run unrolls it
// before calling Execute on each leaf.
func (e *Engine) Execute(a action.Action, ctx action.Context) {
	switch v := a.(type) {
	case action.Damage:
		e.execDamage(v, ctx)
	case action.AddItem:
		e.execAddItem(v, ctx)
	case action.Teleport:
		e.execTeleport(v, ctx)
	case action.RunScriptFragment:
		e.execScriptFragment(v, ctx)
	}
}

func ctxCoord(ctx action.Context) geom.MapCoord {
	return geom.MapCoord{X: int16(ctx.X), Y: int16(ctx.Y)}
}

// execDamage applies weapon-independent damage to whatever knight
// entity occupies ctx's square (spec.md §9: "Damage{amount} deals
// weapon-independent damage to whatever is at ctx's position").
// Monster targets go through monster.OnMonsterDamaged instead, since
// only that path knows to apply the flying-immune-to-stun override;
// a trap or tile hook's Damage action only ever fires at a knight's
// square in spec.md's scope.
func (e *Engine) execDamage(d action.Damage, ctx action.Context) {
	pos := ctxCoord(ctx)
	for _, occ := range e.DMap.GetEntities(pos) {
		id := ecs.EntityID(occ)
		kd, ok := e.World.Knights.Get(id)
		if !ok {
			continue
		}
		kd.Health -= d.Amount
		if kd.Health < 0 {
			kd.Health = 0
		}
		if d.StunMillis > 0 {
			if stun, ok := e.World.Stuns.Get(id); ok {
				stun.ApplyStun(e.Scheduler.GVT() + d.StunMillis)
			}
		}
		if kd.Health == 0 {
			e.knightDiedByEntity(id)
		}
	}
}

func (e *Engine) knightDiedByEntity(id ecs.EntityID) {
	kd, ok := e.World.Knights.Get(id)
	if !ok {
		return
	}
	e.KnightDied(kd.PlayerID)
}

// execAddItem places a new item of the named type at ctx's position,
// using DungeonMap's spill-over drop search (spec.md §9: "AddItem{type}
// places an item of the given type at ctx's position").
func (e *Engine) execAddItem(a action.AddItem, ctx action.Context) {
	itype, ok := e.Config.Items[a.ItemType]
	if !ok {
		return
	}
	count := a.Count
	if count <= 0 {
		count = 1
	}
	item := &dungeon.Item{Type: itype, Count: count}
	e.DMap.DropItem(item, ctxCoord(ctx), true, geom.North, ctx.Originator)
}

// execTeleport moves ctx's actor entity according to kind (spec.md
// §4.9's three teleport kinds). Random and Room both pick uniformly
// among clear walking-height squares; Room additionally constrains
// the pick to whatever room the actor currently occupies, falling
// back to an unconstrained pick if the actor's square belongs to no
// room.
func (e *Engine) execTeleport(t action.Teleport, ctx action.Context) {
	id := ecs.EntityID(ctx.ActorID)
	if id == 0 {
		return
	}
	pos, ok := e.World.Positions.Get(id)
	if !ok {
		return
	}

	var dest geom.MapCoord
	switch t.Kind {
	case action.TeleportSquare:
		dest = geom.MapCoord{X: int16(t.TargetX), Y: int16(t.TargetY)}
	case action.TeleportRoom:
		dest, ok = e.randomClearSquareInRoom(pos.Pos, pos.Height)
		if !ok {
			return
		}
	default: // action.TeleportRandom
		dest, ok = e.randomClearSquare(pos.Height)
		if !ok {
			return
		}
	}
	e.teleportEntity(id, dest)
}

const teleportSearchAttempts = 64

func (e *Engine) randomClearSquare(h geom.MapHeight) (geom.MapCoord, bool) {
	for i := 0; i < teleportSearchAttempts; i++ {
		x := int16(e.RNG.Int(0, int(e.DMap.Width)))
		y := int16(e.RNG.Int(0, int(e.DMap.Height)))
		mc := geom.MapCoord{X: x, Y: y}
		if e.DMap.GetAccess(mc, h) == geom.AccessClear {
			return mc, true
		}
	}
	return geom.MapCoord{}, false
}

func (e *Engine) randomClearSquareInRoom(from geom.MapCoord, h geom.MapHeight) (geom.MapCoord, bool) {
	r1, _ := e.Rooms.RoomsAt(from)
	if r1 == room.NoRoom {
		return e.randomClearSquare(h)
	}
	for i := 0; i < teleportSearchAttempts; i++ {
		mc, ok := e.randomClearSquare(h)
		if !ok {
			continue
		}
		inR1, inR2 := e.Rooms.RoomsAt(mc)
		if inR1 == r1 || inR2 == r1 {
			return mc, true
		}
	}
	return geom.MapCoord{}, false
}

// execScriptFragment runs the named Lua fragment and re-dispatches
// whatever Action it returns (spec.md §9: RunScriptFragment is the
// one variant allowed to stay a stub, implemented here in full via
// internal/scripting).
func (e *Engine) execScriptFragment(r action.RunScriptFragment, ctx action.Context) {
	if e.Scripts == nil {
		return
	}
	result := e.Scripts.RunFragment(r.FunctionName, ctx)
	action.Run(e, result, ctx)
}
