package entity

import (
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/ids"
)

// PotionKind enumerates the potion-magic statuses a knight can be
// under, per spec.md §4.10's set_potion_magic wire call.
type PotionKind uint8

const (
	PotionNone PotionKind = iota
	PotionInvisibility
	PotionStrength
	PotionQuickness
	PotionSlowRegen
	PotionFastRegen
	PotionParalyzation
	PotionSuper
)

// BackpackStack is one ordered slot of a knight's backpack: up to
// MaxStack items of a single ItemType (spec.md §3: "ordered list of
// (ItemType, count) stacks").
type BackpackStack struct {
	Type  *dungeon.ItemType
	Count int
}

// KnightData is the player-owned state layered on top of the common
// Position/Motion/Stun/Anim/Flags components (spec.md §3, §4.10).
// Backpacks are owned by the knight, not the dungeon map (spec.md
// §9's shared-resource policy).
type KnightData struct {
	PlayerID ids.PlayerID

	ItemInHand *dungeon.Item
	Backpack   []BackpackStack

	Health    int
	MaxHealth int
	Skulls    int

	PotionMagic  PotionKind
	PoisonImmune bool

	// Teleported suppresses the room-reveal animation until the
	// knight re-sees the room they were teleported into (spec.md
	// §4.9's TeleportToSquare).
	Teleported bool
}

// FindStack returns the backpack slot index holding itype, or -1.
func (k *KnightData) FindStack(itype *dungeon.ItemType) int {
	for i, s := range k.Backpack {
		if s.Type == itype {
			return i
		}
	}
	return -1
}

// AddToBackpack stacks count items of itype into the first matching
// slot (up to MaxStack), opening a new slot only if none has room.
func (k *KnightData) AddToBackpack(itype *dungeon.ItemType, count int) {
	for i := range k.Backpack {
		s := &k.Backpack[i]
		if s.Type != itype {
			continue
		}
		room := itype.MaxStack - s.Count
		if room <= 0 {
			continue
		}
		take := count
		if take > room {
			take = room
		}
		s.Count += take
		count -= take
		if count == 0 {
			return
		}
	}
	for count > 0 {
		take := count
		if itype.MaxStack > 0 && take > itype.MaxStack {
			take = itype.MaxStack
		}
		k.Backpack = append(k.Backpack, BackpackStack{Type: itype, Count: take})
		count -= take
	}
}

// Carrying reports whether the knight holds itype either in-hand or
// in a backpack stack with count >= 1 (used by the monster AI's
// VisibleAndCarrying predicate, spec.md §4.8).
func (k *KnightData) Carrying(itype *dungeon.ItemType) bool {
	if k.ItemInHand != nil && k.ItemInHand.Type == itype && k.ItemInHand.Count >= 1 {
		return true
	}
	for _, s := range k.Backpack {
		if s.Type == itype && s.Count >= 1 {
			return true
		}
	}
	return false
}
