package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/knights-server/engine/internal/action"
)

// ReplayEvent is one Originator-tagged dungeon event, batched up by
// the engine and flushed to the audit log (spec.md §7: "replay/audit
// log of Originator-tagged dungeon events" — the same data a
// dungeon-view diff already carries, kept after the view has moved on
// so a completed game can be reconstructed after the fact).
type ReplayEvent struct {
	GVT        int32
	MapID      int32
	X, Y       int32
	Originator action.Originator
	Kind       string
	Detail     any // marshalled to JSONB; nil becomes {}
}

type ReplayRepo struct {
	db *DB
}

func NewReplayRepo(db *DB) *ReplayRepo {
	return &ReplayRepo{db: db}
}

// Append writes a batch of events for one completed game in a single
// transaction, mirroring the teacher's economic WAL's
// one-transaction-per-batch shape (internal/persist/wal.go): a replay
// log is only ever written once per game, after the fact, so there is
// no crash-recovery case to design around the way the live WAL has.
func (r *ReplayRepo) Append(ctx context.Context, gameResultID int64, events []ReplayEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("replay append begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		detail := e.Detail
		if detail == nil {
			detail = map[string]any{}
		}
		raw, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("marshal replay event detail: %w", err)
		}

		var originatorPlayerID *uint64
		if e.Originator.Kind == action.OriginatorPlayer {
			id := e.Originator.PlayerID
			originatorPlayerID = &id
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO dungeon_event_log
			   (game_result_id, gvt, map_id, x, y, originator_kind, originator_player_id, kind, detail)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			gameResultID, e.GVT, e.MapID, e.X, e.Y, int16(e.Originator.Kind), originatorPlayerID, e.Kind, raw,
		); err != nil {
			return fmt.Errorf("replay event insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("replay append commit: %w", err)
	}
	return nil
}

// Load reads back every event for a game in GVT order, for a replay
// viewer to step through.
func (r *ReplayRepo) Load(ctx context.Context, gameResultID int64) ([]ReplayEvent, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT gvt, map_id, x, y, originator_kind, originator_player_id, kind, detail
		 FROM dungeon_event_log WHERE game_result_id = $1 ORDER BY gvt, id`,
		gameResultID,
	)
	if err != nil {
		return nil, fmt.Errorf("replay load query: %w", err)
	}
	defer rows.Close()

	var out []ReplayEvent
	for rows.Next() {
		var e ReplayEvent
		var originatorKind int16
		var originatorPlayerID *uint64
		var raw []byte
		if err := rows.Scan(&e.GVT, &e.MapID, &e.X, &e.Y, &originatorKind, &originatorPlayerID, &e.Kind, &raw); err != nil {
			return nil, fmt.Errorf("replay load scan: %w", err)
		}
		e.Originator.Kind = action.OriginatorKind(originatorKind)
		if originatorPlayerID != nil {
			e.Originator.PlayerID = *originatorPlayerID
		}
		var detail map[string]any
		if err := json.Unmarshal(raw, &detail); err != nil {
			return nil, fmt.Errorf("unmarshal replay event detail: %w", err)
		}
		e.Detail = detail
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replay load rows: %w", err)
	}
	return out, nil
}
