package quest

import (
	"strconv"

	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/geom"
)

// Retrieve succeeds once the knight holds any of itypes in hand, or
// the first backpack stack of one of itypes has count >= No; stacks of
// the same type are not summed (spec.md §4.9).
type Retrieve struct {
	No             int
	Types          []*dungeon.ItemType
	Singular, Plural string

	// RequiredMsg is the config-sourced suffix the original appends
	// after the item name ("required_msg" in its config table); the
	// engine wiring supplies the resolved string once GameConfig is
	// loaded rather than this package reaching into config itself.
	RequiredMsg string
}

func containsType(types []*dungeon.ItemType, t *dungeon.ItemType) bool {
	for _, it := range types {
		if it == t {
			return true
		}
	}
	return false
}

func (q *Retrieve) Check(ctx CheckContext) bool {
	kt := ctx.Knight
	if kt == nil {
		return false
	}
	if kt.ItemInHand != nil && containsType(q.Types, kt.ItemInHand.Type) {
		return true
	}
	for _, it := range q.Types {
		for _, s := range kt.Backpack {
			if s.Type == it {
				if s.Count >= q.No {
					return true
				}
				break
			}
		}
	}
	return false
}

func (q *Retrieve) Hint() string {
	if q.No == 1 {
		return q.Singular + " " + q.RequiredMsg
	}
	return strconv.Itoa(q.No) + " " + q.Plural + " " + q.RequiredMsg
}

func (q *Retrieve) IsItemInteresting(itype *dungeon.ItemType) bool {
	return containsType(q.Types, itype)
}

func (q *Retrieve) RequiredItems(required map[*dungeon.ItemType]int) {
	for _, it := range q.Types {
		if q.No > required[it] {
			required[it] = q.No
		}
	}
}

func (q *Retrieve) AppendQuestIcon(kt *entity.KnightData, icons *[]QuestIconInfo) {
	qi := QuestIconInfo{NumRequired: q.No}
	if kt != nil {
		if kt.ItemInHand != nil && containsType(q.Types, kt.ItemInHand.Type) {
			qi.NumHeld = 1
		} else {
			for _, s := range kt.Backpack {
				if containsType(q.Types, s.Type) {
					qi.NumHeld = s.Count
					break
				}
			}
		}
	}
	*icons = append(*icons, qi)
}

func (q *Retrieve) Message() string { return "" }

// Destroy succeeds if the knight is holding one of wand, and one of
// book sits on the tile directly ahead (intended as the on_hit action
// of the special pentagram tile, spec.md §4.9).
type Destroy struct {
	Book []*dungeon.ItemType
	Wand []*dungeon.ItemType
}

func (q *Destroy) Check(ctx CheckContext) bool {
	kt := ctx.Knight
	if kt == nil || kt.ItemInHand == nil || !containsType(q.Wand, kt.ItemInHand.Type) {
		return false
	}
	if ctx.DMap == nil {
		return false
	}
	mc := geom.DisplaceCoord(ctx.Pos.Pos, ctx.Pos.Facing)
	it := ctx.DMap.GetItem(mc)
	if it == nil {
		return false
	}
	return containsType(q.Book, it.Type)
}

func (q *Destroy) Hint() string { return "" }

func (q *Destroy) IsItemInteresting(itype *dungeon.ItemType) bool {
	return containsType(q.Book, itype) || containsType(q.Wand, itype)
}

func (q *Destroy) RequiredItems(required map[*dungeon.ItemType]int) {
	for _, it := range q.Book {
		if required[it] < 1 {
			required[it] = 1
		}
	}
	for _, it := range q.Wand {
		if required[it] < 1 {
			required[it] = 1
		}
	}
}

func (q *Destroy) AppendQuestIcon(*entity.KnightData, *[]QuestIconInfo) {}

func (q *Destroy) Message() string { return "Destroy Book with Wand" }
