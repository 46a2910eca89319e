package engine

import (
	"context"
	"fmt"

	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/persist"
)

// LogReplayEvent appends one Originator-tagged event to the engine's
// in-memory replay buffer, flushed to the audit log once the game
// ends (spec.md §7's "replay/audit log of dungeon events" — kept in
// memory for the lifetime of a single game rather than written
// incrementally, since a game only ever gets persisted once, after it
// finishes).
func (e *Engine) LogReplayEvent(kind string, ctx action.Context, detail any) {
	e.replayLog = append(e.replayLog, persist.ReplayEvent{
		GVT:        e.Scheduler.GVT(),
		MapID:      ctx.MapID,
		X:          ctx.X,
		Y:          ctx.Y,
		Originator: ctx.Originator,
		Kind:       kind,
		Detail:     detail,
	})
}

// Recorder persists a finished Engine's outcome: per-player career
// stats, the completed-game row, and the full replay log, all via
// internal/persist's repos.
type Recorder struct {
	Players *persist.PlayerRepo
	Games   *persist.GameResultRepo
	Replay  *persist.ReplayRepo
}

// Finish ends e (if not already ended) with the given winning house
// and writes the GameResult and replay log. Called once per game; in
// this repository cmd/knightsd calls it for each running game when the
// server shuts down.
func (r *Recorder) Finish(ctx context.Context, e *Engine, winningHouse *int16) error {
	result := e.End(winningHouse)
	if !result.Completed {
		return nil
	}

	for playerID := range e.Players {
		if err := r.Players.EnsureSeen(ctx, uint64(playerID), ""); err != nil {
			return fmt.Errorf("ensure player seen: %w", err)
		}
	}

	gameResultID, err := r.Games.Record(ctx, result)
	if err != nil {
		return fmt.Errorf("record game result: %w", err)
	}

	if err := r.Replay.Append(ctx, gameResultID, e.replayLog); err != nil {
		return fmt.Errorf("append replay log: %w", err)
	}
	return nil
}
