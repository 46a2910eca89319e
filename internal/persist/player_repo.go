package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// PlayerStats is one player's career totals (spec.md §1/§7: "per-player
// stats — games played, quests completed" persisted across sessions,
// since the game itself carries no account system — a join only needs
// a PlayerId and house colour).
type PlayerStats struct {
	PlayerID        uint64
	DisplayName     string
	GamesPlayed     int
	GamesWon        int
	QuestsCompleted int
	MonstersSlain   int
	Deaths          int
	FirstSeen       time.Time
	LastSeen        time.Time
}

type PlayerRepo struct {
	db *DB
}

func NewPlayerRepo(db *DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// Load returns nil, nil for a player never seen before — the caller
// treats that the same as a fresh all-zero PlayerStats rather than
// the repo manufacturing one, so a player who never finishes a game
// never gets a row written for them.
func (r *PlayerRepo) Load(ctx context.Context, playerID uint64) (*PlayerStats, error) {
	row := &PlayerStats{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT player_id, display_name, games_played, games_won, quests_completed,
		        monsters_slain, deaths, first_seen, last_seen
		 FROM player_stats WHERE player_id = $1`, playerID,
	).Scan(
		&row.PlayerID, &row.DisplayName, &row.GamesPlayed, &row.GamesWon, &row.QuestsCompleted,
		&row.MonstersSlain, &row.Deaths, &row.FirstSeen, &row.LastSeen,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// EnsureSeen upserts the player's display name and bumps last_seen,
// called by engine.Recorder.Finish before the game result is recorded
// so a brand-new player has a row (its stat columns stay at 0 until
// ApplyGameResult updates them).
func (r *PlayerRepo) EnsureSeen(ctx context.Context, playerID uint64, displayName string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO player_stats (player_id, display_name)
		 VALUES ($1, $2)
		 ON CONFLICT (player_id) DO UPDATE
		   SET display_name = EXCLUDED.display_name, last_seen = NOW()`,
		playerID, displayName,
	)
	return err
}

// ApplyGameResult increments a player's career totals by one game's
// worth of outcome, used by GameResultRepo.Record within the same
// transaction as the game_results insert.
func (r *PlayerRepo) ApplyGameResult(ctx context.Context, tx pgx.Tx, playerID uint64, won bool, questsCompleted, monstersSlain int, died bool) error {
	wonInc, diedInc := 0, 0
	if won {
		wonInc = 1
	}
	if died {
		diedInc = 1
	}
	_, err := tx.Exec(ctx,
		`UPDATE player_stats
		 SET games_played = games_played + 1,
		     games_won = games_won + $2,
		     quests_completed = quests_completed + $3,
		     monsters_slain = monsters_slain + $4,
		     deaths = deaths + $5,
		     last_seen = NOW()
		 WHERE player_id = $1`,
		playerID, wonInc, questsCompleted, monstersSlain, diedInc,
	)
	return err
}
