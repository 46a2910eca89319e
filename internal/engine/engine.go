// Package engine wires the dungeon model, scheduler, monster AI,
// home/quest rules and view streaming (spec.md §4) into one running
// game: it is the composition root the rest of the packages are built
// to be assembled by, not a source of new gameplay rules of its own.
//
// Grounded on cmd/l1jgo/main.go's wiring order (config/logger -> DB ->
// repos -> data tables -> Lua engine -> ECS world -> packet registry
// -> net server -> event bus + phase Runner -> direct-call subsystems
// -> dual-frequency tick loop), generalised from L1J's fixed-map MMO
// world to one DungeonMap per running game.
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/core/ecs"
	"github.com/knights-server/engine/internal/core/event"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/dungeonfile"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/home"
	"github.com/knights-server/engine/internal/ids"
	"github.com/knights-server/engine/internal/monster"
	"github.com/knights-server/engine/internal/persist"
	"github.com/knights-server/engine/internal/quest"
	"github.com/knights-server/engine/internal/room"
	"github.com/knights-server/engine/internal/scheduler"
	"github.com/knights-server/engine/internal/scripting"
)

// Options configures a new Engine. GVTMillisPerTick is the amount of
// GVT the scheduler advances per call to Tick, and MoveMillisPerSquare
// feeds monster.AI's move-duration conversion (spec.md §4.2/§4.5:
// GVT is measured in milliseconds).
type Options struct {
	MapID               ids.MapID
	Width, Height       int16
	RNGSeed             uint64
	GVTMillisPerTick    int32
	MoveMillisPerSquare int32
	QuestKey            string
}

// Engine is one running game: a single DungeonMap, its entities, and
// the scheduler driving monster AI and motion completion. One Engine
// exists per in-progress game (spec.md §5's per-game isolation).
type Engine struct {
	log *zap.Logger

	opts Options

	World     *entity.World
	DMap      *dungeon.DungeonMap
	Rooms     *room.RoomMap
	Homes     *home.Manager
	Scheduler *scheduler.Scheduler
	RNG       *clock.RNG
	AI        *monster.AI
	Config    *dungeonfile.GameConfig
	Scripts   *scripting.Engine
	Bus       *event.Bus

	Players map[ids.PlayerID]*Player

	displayIDs    map[ecs.EntityID]uint16
	nextDisplayID uint16
	replayLog     []persist.ReplayEvent

	startedAt time.Time
	started   bool
	completed bool
	winner    *int16
}

// New builds an Engine ready to have players joined and rooms/tiles
// populated from a loaded dungeon file. Rooms still need AddRoom
// called by the caller once the dungeon layout (which is game-config
// data, not something this package invents) is known; Start then
// calls DoneAddingRooms.
func New(opts Options, cfg *dungeonfile.GameConfig, scripts *scripting.Engine, log *zap.Logger) *Engine {
	rng := clock.NewRNG(opts.RNGSeed)

	e := &Engine{
		log:       log,
		opts:      opts,
		World:     entity.NewWorld(),
		Rooms:     room.New(),
		Homes:     home.NewManager(),
		Scheduler: scheduler.New(),
		RNG:       rng,
		Config:    cfg,
		Scripts:   scripts,
		Bus:       event.NewBus(),
		Players:   make(map[ids.PlayerID]*Player),
	}
	e.DMap = dungeon.NewDungeonMap(opts.MapID, opts.Width, opts.Height, &observer{engine: e}, e)
	e.AI = &monster.AI{
		World:               e.World,
		DMap:                e.DMap,
		Rooms:               e.Rooms,
		Scheduler:            e.Scheduler,
		RNG:                  rng,
		Executor:             e,
		MoveMillisPerSquare:  opts.MoveMillisPerSquare,
	}
	return e
}

// Start marks the game as running, freezing the room list (spec.md
// §4.4's RoomMap must be done-adding before play starts) and recording
// the start time for the eventual GameResult.
func (e *Engine) Start() {
	e.Rooms.DoneAddingRooms(e.RNG)
	e.started = true
	e.startedAt = time.Now()
}

// Tick advances the scheduler by one frame's worth of GVT, flushes
// deferred entity destruction, then pushes each player's view up to
// date. dt is wall-clock time since the last tick; the caller's
// configured GVTMillisPerTick is what actually advances GVT, not dt
// itself, since spec.md §4.2 defines GVT as its own integer clock
// rather than a wall-clock mirror.
func (e *Engine) Tick(dt time.Duration) {
	if !e.started || e.completed {
		return
	}
	next := e.Scheduler.GVT() + e.opts.GVTMillisPerTick
	e.Scheduler.RunUntil(next)
	e.World.FlushDestroyed()
	e.Bus.SwapBuffers()
	e.Bus.DispatchAll()
	for _, p := range e.Players {
		e.syncPlayerView(p)
	}
}

// GVT returns the engine's current global virtual time.
func (e *Engine) GVT() int32 { return e.Scheduler.GVT() }

// Completed reports whether the game has already ended.
func (e *Engine) Completed() bool { return e.completed }

// End marks the game finished with the given winning house (nil for
// a co-operative quest with no single winner) and assembles the
// GameResult ready for a GameResultRepo to persist. Called at most
// once; subsequent calls are no-ops.
func (e *Engine) End(winningHouse *int16) persist.GameResult {
	if e.completed {
		return persist.GameResult{}
	}
	e.completed = true
	e.winner = winningHouse

	result := persist.GameResult{
		QuestKey:     e.opts.QuestKey,
		StartedAt:    e.startedAt,
		EndedAt:      time.Now(),
		GVTTicks:     e.Scheduler.GVT(),
		Completed:    true,
		WinningHouse: winningHouse,
	}
	for _, p := range e.Players {
		result.Players = append(result.Players, persist.GameResultPlayer{
			PlayerID:        uint64(p.ID),
			HouseColour:     int32ToInt16(p.HouseColour),
			QuestsCompleted: p.QuestsCompleted,
			MonstersSlain:   p.MonstersSlain,
			Died:            p.Died,
		})
	}
	return result
}

func int32ToInt16(v int32) int16 { return int16(v) }

// LookupQuest returns the named quest from the loaded GameConfig, or
// an error if no such quest was declared.
func (e *Engine) LookupQuest(name string) (quest.Quest, error) {
	q, ok := e.Config.Quests[name]
	if !ok {
		return nil, fmt.Errorf("engine: unknown quest %q", name)
	}
	return q, nil
}
