package entity

import (
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/ids"
)

// MonsterKind distinguishes the two AI families spec.md §4.8 defines.
type MonsterKind uint8

const (
	MonsterFlying MonsterKind = iota
	MonsterWalking
)

// MType is the shared, immutable configuration handle for a monster
// species — analogous to dungeon.ItemType, referenced by pointer from
// every instance of that species rather than copied (spec.md §3:
// "Monster owns an MType reference").
type MType struct {
	Name string
	Kind MonsterKind

	Weapon *dungeon.ItemType // nil = unarmed, deals 1 damage

	// Flying-only tuning (spec.md §4.8 step 2-3).
	FlyingTargettingOffset int16
	BiteWait               int32
	MeleeDelayTime         int32

	// Walking-only tuning.
	FearItems []*dungeon.ItemType
	HitItems  []*dungeon.ItemType
	AvoidList []*dungeon.ItemType

	MonsterWaitChance float32
	MonsterWaitTime   int32
}

// MonsterData is the AI-owned state layered on the common components.
type MonsterData struct {
	Type *MType

	RunAwayFlag  bool
	NextBiteTime int32 // flying only; valid once >= 0

	Target ids.EntityID // NoTarget when none acquired
}

// NoTarget is the sentinel meaning "no target currently acquired".
const NoTarget = ^ids.EntityID(0)
