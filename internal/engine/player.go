package engine

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/core/event"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/home"
	"github.com/knights-server/engine/internal/ids"
	"github.com/knights-server/engine/internal/monster"
	"github.com/knights-server/engine/internal/room"
	"github.com/knights-server/engine/internal/scheduler"
	"github.com/knights-server/engine/internal/view"
)

// noRoomSentinel marks a player as not yet having been told about any
// room (before their first view sync), distinct from room.NoRoom's
// "standing on a corner/unowned square" meaning but represented with
// the same value since both mean "no room to diff visibility against".
const noRoomSentinel = room.NoRoom

// Player is one connected participant's engine-side state: their
// entity, home registration, view producers and the per-game counters
// a GameResult needs at the end.
type Player struct {
	ID          ids.PlayerID
	HouseColour int32
	Team        home.TeamID

	Entity ecs.EntityID

	HomePlayer *home.Player

	DungeonView   *view.DungeonView
	MiniMap       *view.MiniMap
	StatusDisplay *view.StatusDisplay

	currentRoom room.RoomID

	QuestsCompleted int
	MonstersSlain   int
	Died            bool
}

// Join spawns a knight entity for playerID at spawnPos and registers
// its view producers against sink. It does not assign a home: the new
// player's HomePlayer starts with no home, and HomeManager is not
// consulted here.
func (e *Engine) Join(playerID ids.PlayerID, houseColour int32, team home.TeamID, spawnPos geom.MapCoord, respawn home.RespawnType, sink view.Sink) *Player {
	entID := e.World.SpawnKnight(entity.Position{
		MapID:  e.opts.MapID,
		Pos:    spawnPos,
		Height: geom.HeightWalking,
	}, playerID)
	if kd, ok := e.World.Knights.Get(entID); ok {
		kd.MaxHealth = defaultKnightHealth
		kd.Health = defaultKnightHealth
	}
	e.DMap.AddEntity(spawnPos, entity.ToIDS(entID))

	p := &Player{
		ID:          playerID,
		HouseColour: houseColour,
		Team:        team,
		Entity:      entID,
		HomePlayer: &home.Player{
			ID:          playerID,
			Team:        team,
			RespawnType: respawn,
		},
		DungeonView:   view.NewDungeonView(sink),
		MiniMap:       view.NewMiniMap(sink),
		StatusDisplay: view.NewStatusDisplay(sink),
		currentRoom:   noRoomSentinel,
	}
	e.Players[playerID] = p

	event.Emit(e.Bus, event.PlayerJoined{EntityID: ecs.EntityID(entID), PlayerID: uint32(playerID)})
	return p
}

const defaultKnightHealth = 100

// roster returns every player's HomePlayer, the shape home.Manager's
// SecureHome/OnKnightDeath take.
func (e *Engine) roster() []*home.Player {
	out := make([]*home.Player, 0, len(e.Players))
	for _, p := range e.Players {
		out = append(out, p.HomePlayer)
	}
	return out
}

// Leave removes playerID's entity from the map and engine state
// (spec.md §4.11: a dropped connection leaves the game if one is in
// progress).
func (e *Engine) Leave(playerID ids.PlayerID) {
	p, ok := e.Players[playerID]
	if !ok {
		return
	}
	if pos, ok := e.World.Positions.Get(p.Entity); ok {
		e.DMap.RmEntity(pos.Pos, entity.ToIDS(p.Entity))
	}
	e.World.Destroy(p.Entity)
	delete(e.Players, playerID)
	event.Emit(e.Bus, event.PlayerLeft{EntityID: ecs.EntityID(p.Entity), PlayerID: uint32(playerID)})
}

// KnightDied applies spec.md §4.7's death/respawn sequence: mark dead,
// bump the death counter, re-roll the player's home if their respawn
// policy demands it, then teleport them there.
func (e *Engine) KnightDied(playerID ids.PlayerID) {
	p, ok := e.Players[playerID]
	if !ok {
		return
	}
	p.Died = true
	kd, ok := e.World.Knights.Get(p.Entity)
	if ok {
		kd.Skulls++
		kd.Health = kd.MaxHealth
	}
	e.Homes.OnKnightDeath(p.HomePlayer, e.roster(), e.RNG)
	if p.HomePlayer.HasHome {
		e.teleportEntity(p.Entity, p.HomePlayer.Home.Pos)
	}
	event.Emit(e.Bus, event.KnightDied{EntityID: ecs.EntityID(p.Entity), PlayerID: uint32(playerID)})
	e.LogReplayEvent("knight_died", action.Context{
		MapID:      int32(e.opts.MapID),
		Originator: action.Originator{Kind: action.OriginatorPlayer, PlayerID: uint64(playerID)},
	}, nil)
}

func (e *Engine) teleportEntity(id ecs.EntityID, to geom.MapCoord) {
	pos, ok := e.World.Positions.Get(id)
	if !ok {
		return
	}
	from := pos.Pos
	pos.Pos = to
	e.DMap.MoveEntity(entity.ToIDS(id), from, to)
	if kd, ok := e.World.Knights.Get(id); ok {
		kd.Teleported = true
	}
}

// SpawnMonster creates a monster of the named species from the loaded
// GameConfig at pos and kicks off its self-rescheduling AI task
// (spec.md §4.8).
func (e *Engine) SpawnMonster(speciesName string, pos geom.MapCoord) (ecs.EntityID, error) {
	mtype, ok := e.Config.Monsters[speciesName]
	if !ok {
		return 0, monsterNotFoundError(speciesName)
	}
	height := geom.HeightWalking
	if mtype.Kind == entity.MonsterFlying {
		height = geom.HeightFlying
	}
	id := e.World.SpawnMonster(entity.Position{
		MapID:  e.opts.MapID,
		Pos:    pos,
		Height: height,
	}, entity.MonsterData{Type: mtype, Target: entity.NoTarget})
	e.DMap.AddEntity(pos, entity.ToIDS(id))

	switch mtype.Kind {
	case entity.MonsterFlying:
		e.Scheduler.AddTask(monster.FlyingTask{AI: e.AI, ID: id}, scheduler.Low, e.Scheduler.GVT())
	default:
		e.Scheduler.AddTask(monster.WalkingTask{AI: e.AI, ID: id}, scheduler.Low, e.Scheduler.GVT())
	}
	return id, nil
}

// OnMonsterSlain updates the killing player's counters (if known) and
// destroys the monster entity, matching spec.md §4.8's "monster death
// removes it from play".
func (e *Engine) OnMonsterSlain(monsterID ecs.EntityID, killerPlayer ids.PlayerID) {
	if pos, ok := e.World.Positions.Get(monsterID); ok {
		e.DMap.RmEntity(pos.Pos, entity.ToIDS(monsterID))
	}
	e.World.Destroy(monsterID)
	if p, ok := e.Players[killerPlayer]; ok {
		p.MonstersSlain++
	}
	event.Emit(e.Bus, event.MonsterSlain{EntityID: monsterID, KillerID: e.playerEntity(killerPlayer)})
	e.LogReplayEvent("monster_slain", action.Context{
		MapID:      int32(e.opts.MapID),
		Originator: action.Originator{Kind: action.OriginatorPlayer, PlayerID: uint64(killerPlayer)},
	}, nil)
}

func (e *Engine) playerEntity(playerID ids.PlayerID) ecs.EntityID {
	if p, ok := e.Players[playerID]; ok {
		return p.Entity
	}
	return 0
}

type monsterNotFoundError string

func (e monsterNotFoundError) Error() string { return "engine: unknown monster species " + string(e) }

// houseColourOf converts a Player's wire-level house colour into the
// dungeon.ColourChange handle HomeTile.Secure expects, per spec.md
// §4.7's "owned by" recolour.
func houseColourOf(p *Player) dungeon.ColourChange {
	return dungeon.ColourChange(p.HouseColour)
}
