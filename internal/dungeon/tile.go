// Package dungeon implements the DungeonMap data model and tile
// behaviours described in spec.md §4.3 and §4.6.
//
// Tiles are immutable flyweight prototypes (spec.md §9: "store tiles
// as immutable flyweights... mutation clones a tile instance owned by
// the square"). A prototype Tile is configured once from game data; placing
// it on the map clones a per-square Tile value that carries whatever
// mutable state that tile kind needs (door open/closed, chest
// contents, home ownership). This gives the flyweight/clone-on-mutate
// split the design notes ask for without the extra indirection of a
// literal index-into-array table, which Go's value semantics make
// unnecessary.
package dungeon

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/geom"
)

// GraphicID is an opaque handle into the config graphic table (spec.md
// §3: "opaque handle into config graphic table").
type GraphicID uint32

// ColourChange is an opaque recolouring handle (house colour overlays
// etc). Zero means "no recolour".
type ColourChange uint32

// Tile is implemented by every tile variant (Plain, Door, Chest, Home,
// Barrel, Pentagram, ...). Hooks return the Action to run; the caller
// (DungeonMap) supplies the action.Executor and action.Context.
type Tile interface {
	// Clone returns an independent copy, used when placing a
	// prototype tile onto a square.
	Clone() Tile

	Graphic() GraphicID
	ColourChange() ColourChange
	Depth() int
	Access(h geom.MapHeight) geom.MapAccess
	Destructible() bool
	Targettable() bool
	ItemsAllowedHere() bool
	ItemsDestroyedHere() bool

	OnHit() action.Action
	OnApproach() action.Action
	OnWithdraw() action.Action
	OnDestroy() action.Action
}

// base holds the fields common to every tile kind. Embed it in
// concrete tile types and override only what differs.
type base struct {
	graphic      GraphicID
	colourChange ColourChange
	depth        int
	access       [3]geom.MapAccess // indexed by geom.MapHeight
	destructible bool
	targettable  bool
	itemsAllowed bool
	itemsDestroy bool

	onHit      action.Action
	onApproach action.Action
	onWithdraw action.Action
	onDestroy  action.Action
}

func (b base) Graphic() GraphicID            { return b.graphic }
func (b base) ColourChange() ColourChange     { return b.colourChange }
func (b base) Depth() int                     { return b.depth }
func (b base) Access(h geom.MapHeight) geom.MapAccess { return b.access[h] }
func (b base) Destructible() bool             { return b.destructible }
func (b base) Targettable() bool              { return b.targettable }
func (b base) ItemsAllowedHere() bool         { return b.itemsAllowed }
func (b base) ItemsDestroyedHere() bool       { return b.itemsDestroy }
func (b base) OnHit() action.Action           { return b.onHit }
func (b base) OnApproach() action.Action      { return b.onApproach }
func (b base) OnWithdraw() action.Action      { return b.onWithdraw }
func (b base) OnDestroy() action.Action       { return b.onDestroy }

// SetHooks installs the hit/approach/withdraw/destroy actions for a
// freshly constructed tile. Dungeon-file loading builds a tile with
// one of the New*Tile constructors, then calls SetHooks once the
// actions those hooks reference have been parsed, since the
// constructors only take the fields specific to that tile kind.
func (b *base) SetHooks(onHit, onApproach, onWithdraw, onDestroy action.Action) {
	b.onHit = onHit
	b.onApproach = onApproach
	b.onWithdraw = onWithdraw
	b.onDestroy = onDestroy
}

// PlainTile is a tile with no special behaviour: floor, wall, rubble,
// pentagram markers, etc. Differentiated purely by its base fields.
type PlainTile struct {
	base
}

func NewPlainTile(graphic GraphicID, depth int, access [3]geom.MapAccess, destructible, targettable, itemsAllowed bool) *PlainTile {
	return &PlainTile{base{
		graphic:      graphic,
		depth:        depth,
		access:       access,
		destructible: destructible,
		targettable:  targettable,
		itemsAllowed: itemsAllowed,
	}}
}

func (t *PlainTile) Clone() Tile {
	c := *t
	return &c
}
