// Package quest implements quest checking, teleportation and the
// per-player quest-hint aggregator of spec.md §4.9, grounded on
// original_source/src/engine/impl/{quest,concrete_quests,teleport,
// quest_hint_manager}.{hpp,cpp}.
package quest

import (
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
)

// CheckContext gives a Quest the knight state and dungeon position it
// may need: Retrieve only looks at inventory, but Destroy also needs
// the tile ahead of the knight (original_source's Knight carries both
// its own state and its DungeonMap/MapCoord/facing; Go keeps those in
// separate ECS components, so the caller assembles them here).
type CheckContext struct {
	Knight *entity.KnightData
	Pos    entity.Position
	DMap   *dungeon.DungeonMap
}

// QuestIconInfo mirrors StatusDisplay::QuestIconInfo: how many of a
// quest's items a knight currently holds versus how many are needed.
// GfxMissing/GfxHeld are left at their zero value here, same as the
// original's "// TODO" — wiring them to real graphics is a
// view-package concern, not a quest one.
type QuestIconInfo struct {
	NumHeld     int
	NumRequired int
	GfxMissing  dungeon.GraphicID
	GfxHeld     dungeon.GraphicID
}

// Quest is satisfied by hitting the special pentagram tile (A_CheckQuest)
// or by approaching one's own home exit (A_HomeStart); both call
// Check. When Check fails at the home exit, Hint supplies the text
// flashed to the player.
type Quest interface {
	Check(ctx CheckContext) bool
	Hint() string

	// IsItemInteresting reports whether this quest cares about itype,
	// used by the "Sense Items" effect to highlight relevant items.
	IsItemInteresting(itype *dungeon.ItemType) bool

	// RequiredItems merges this quest's item requirements into
	// required, taking the max of any existing requirement for the
	// same item type (used by ItemCheckTask).
	RequiredItems(required map[*dungeon.ItemType]int)

	// AppendQuestIcon appends this quest's status-icon entry. kt is
	// nil when no specific knight's held-count is wanted (NumHeld
	// reads 0 in that case).
	AppendQuestIcon(kt *entity.KnightData, icons *[]QuestIconInfo)

	// Message is an optional free-text description, blank unless the
	// quest wants one (currently only QuestDestroy's "Destroy Book
	// with Wand").
	Message() string
}
