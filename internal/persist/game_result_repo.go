package persist

import (
	"context"
	"fmt"
	"time"
)

// GameResult is the outcome of one completed game, recorded once the
// engine tears down its world (spec.md §7: "completed-game results").
type GameResult struct {
	QuestKey     string
	StartedAt    time.Time
	EndedAt      time.Time
	GVTTicks     int32
	Completed    bool
	WinningHouse *int16 // nil when the game had no single winner (co-op quests)
	Players      []GameResultPlayer
}

// GameResultPlayer is one participant's per-game line in a GameResult.
type GameResultPlayer struct {
	PlayerID        uint64
	HouseColour     int16
	QuestsCompleted int
	MonstersSlain   int
	Died            bool
}

type GameResultRepo struct {
	db      *DB
	players *PlayerRepo
}

func NewGameResultRepo(db *DB, players *PlayerRepo) *GameResultRepo {
	return &GameResultRepo{db: db, players: players}
}

// Record writes a GameResult and its per-player rows, and folds each
// player's outcome into their career PlayerStats row, all inside one
// transaction: a partially written result would otherwise let a
// player's career totals drift out of sync with the history a replay
// viewer reads back.
func (r *GameResultRepo) Record(ctx context.Context, result GameResult) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("game result begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO game_results (quest_key, started_at, ended_at, gvt_ticks, completed, winning_house)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		result.QuestKey, result.StartedAt, result.EndedAt, result.GVTTicks, result.Completed, result.WinningHouse,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("game result insert: %w", err)
	}

	for _, p := range result.Players {
		if _, err := tx.Exec(ctx,
			`INSERT INTO game_result_players (game_result_id, player_id, house_colour, quests_completed, monsters_slain, died)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, p.PlayerID, p.HouseColour, p.QuestsCompleted, p.MonstersSlain, p.Died,
		); err != nil {
			return 0, fmt.Errorf("game result player insert: %w", err)
		}

		won := result.Completed && (result.WinningHouse == nil || *result.WinningHouse == p.HouseColour)
		if err := r.players.ApplyGameResult(ctx, tx, p.PlayerID, won, p.QuestsCompleted, p.MonstersSlain, p.Died); err != nil {
			return 0, fmt.Errorf("apply game result to player stats: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("game result commit: %w", err)
	}
	return id, nil
}
