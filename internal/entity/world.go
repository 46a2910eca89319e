package entity

import (
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/ids"
)

// World owns one component store per Knights component type, wired
// into the teacher's generic ecs.Registry so that destroying an
// entity clears every store in one call. This is the same pattern the
// teacher used for its MMO components (internal/component/*), reused
// here verbatim as the storage mechanism and populated with all-new
// component types.
type World struct {
	ecs *ecs.World

	Positions *ecs.PtrComponentStore[Position]
	Motions   *ecs.PtrComponentStore[Motion]
	Stuns     *ecs.PtrComponentStore[Stun]
	Anims     *ecs.PtrComponentStore[AnimState]
	Flags     *ecs.PtrComponentStore[Flags]
	Knights   *ecs.PtrComponentStore[KnightData]
	Monsters  *ecs.PtrComponentStore[MonsterData]
}

func NewWorld() *World {
	w := &World{
		ecs:      ecs.NewWorld(),
		Positions: ecs.NewPtrComponentStore[Position](),
		Motions:   ecs.NewPtrComponentStore[Motion](),
		Stuns:     ecs.NewPtrComponentStore[Stun](),
		Anims:     ecs.NewPtrComponentStore[AnimState](),
		Flags:     ecs.NewPtrComponentStore[Flags](),
		Knights:   ecs.NewPtrComponentStore[KnightData](),
		Monsters:  ecs.NewPtrComponentStore[MonsterData](),
	}
	reg := w.ecs.Registry()
	reg.Register(w.Positions)
	reg.Register(w.Motions)
	reg.Register(w.Stuns)
	reg.Register(w.Anims)
	reg.Register(w.Flags)
	reg.Register(w.Knights)
	reg.Register(w.Monsters)
	return w
}

// ToIDS converts the ecs package's generational id into the opaque
// wire/cross-package id type other packages (dungeon, home, ...) use,
// so that they never need to import internal/entity just to name an
// entity.
func ToIDS(id ecs.EntityID) ids.EntityID { return ids.EntityID(id) }

func fromIDS(id ids.EntityID) ecs.EntityID { return ecs.EntityID(id) }

func (w *World) Alive(id ecs.EntityID) bool { return w.ecs.Alive(id) }

// Destroy queues the entity for end-of-tick cleanup, matching the
// teacher's deferred-destruction pattern (internal/core/ecs/world.go)
// so that systems mid-iteration never observe a half-removed entity.
func (w *World) Destroy(id ecs.EntityID) { w.ecs.MarkForDestruction(id) }

// FlushDestroyed runs the deferred destroy queue; called once per tick
// by engine.Engine.Tick.
func (w *World) FlushDestroyed() { w.ecs.FlushDestroyQueue() }

func (w *World) spawn() ecs.EntityID { return w.ecs.CreateEntity() }

// SpawnKnight creates a new player-controlled entity at pos, owned by
// playerID, with the baseline component set every entity needs
// (spec.md §3/§4.5).
func (w *World) SpawnKnight(pos Position, playerID ids.PlayerID) ecs.EntityID {
	id := w.spawn()
	w.Positions.Set(id, &pos)
	w.Motions.Set(id, &Motion{})
	w.Stuns.Set(id, &Stun{UntilGVT: NoStun})
	w.Anims.Set(id, &AnimState{ZeroAtGVT: NoAutoZero})
	w.Flags.Set(id, &Flags{})
	w.Knights.Set(id, &KnightData{PlayerID: playerID})
	return id
}

// SpawnMonster creates a new AI-controlled entity at pos, of the given
// monster type (spec.md §4.8). Callers must set pos.Height to match
// data.Type.Kind (Flying monsters occupy the flying layer) — the
// monster package's occupancy checks key off Position.Height, not
// MonsterData.Type, so the two must agree.
func (w *World) SpawnMonster(pos Position, data MonsterData) ecs.EntityID {
	id := w.spawn()
	w.Positions.Set(id, &pos)
	w.Motions.Set(id, &Motion{})
	w.Stuns.Set(id, &Stun{UntilGVT: NoStun})
	w.Anims.Set(id, &AnimState{ZeroAtGVT: NoAutoZero})
	w.Flags.Set(id, &Flags{})
	w.Monsters.Set(id, &data)
	return id
}
