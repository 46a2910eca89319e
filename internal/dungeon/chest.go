package dungeon

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/geom"
)

// ChestTile implements spec.md §4.6's Chest behaviour: door-like
// open/close, but open releases the stored item to the square and
// close absorbs whatever item is on the square; generate_trap rolls a
// per-open trap chance.
type ChestTile struct {
	base
	closedAccess  [3]geom.MapAccess
	closedGraphic GraphicID
	openGraphic   GraphicID

	facing geom.MapDirection // constrains approach direction
	locked bool

	storedItem *Item // nil when empty

	trapChance float32 // rolled by GenerateTrap
	trapAction action.Action
}

func NewChestTile(closedGraphic, openGraphic GraphicID, depth int, closedAccess [3]geom.MapAccess, facing geom.MapDirection, trapChance float32, trapAction action.Action) *ChestTile {
	return &ChestTile{
		base: base{
			graphic:      closedGraphic,
			depth:        depth,
			access:       closedAccess,
			destructible: true,
			targettable:  true,
			itemsAllowed: false,
		},
		closedAccess:  closedAccess,
		closedGraphic: closedGraphic,
		openGraphic:   openGraphic,
		facing:        facing,
		trapChance:    trapChance,
		trapAction:    trapAction,
	}
}

func (c *ChestTile) Clone() Tile {
	cl := *c
	if c.storedItem != nil {
		item := *c.storedItem
		cl.storedItem = &item
	}
	return &cl
}

func (c *ChestTile) IsOpen() bool {
	if c.graphic != c.openGraphic {
		return false
	}
	for h := geom.HeightWalking; h <= geom.HeightMissiles; h++ {
		if c.access[h] != geom.AccessClear {
			return false
		}
	}
	return true
}

func (c *ChestTile) Facing() geom.MapDirection { return c.facing }
func (c *ChestTile) StoredItem() *Item          { return c.storedItem }
func (c *ChestTile) SetStoredItem(it *Item)     { c.storedItem = it }
func (c *ChestTile) Locked() bool               { return c.locked }
func (c *ChestTile) SetLocked(v bool)           { c.locked = v }

// Open sets the tile clear and open-graphic. The caller (DungeonMap)
// is responsible for performing the add_item side
// effect with the released stored item, then clearing storedItem here.
func (c *ChestTile) Open() {
	c.access = [3]geom.MapAccess{geom.AccessClear, geom.AccessClear, geom.AccessClear}
	c.graphic = c.openGraphic
}

// Close restores the closed access/graphic. The caller is responsible
// for absorbing whatever item was on the square into storedItem.
func (c *ChestTile) Close() {
	c.access = c.closedAccess
	c.graphic = c.closedGraphic
}

// GenerateTrap rolls against trapChance and returns the configured
// trap action if it fires, nil otherwise (spec.md §4.6).
func (c *ChestTile) GenerateTrap(roll float32) action.Action {
	if roll < c.trapChance {
		return c.trapAction
	}
	return nil
}

func (c *ChestTile) OnHit() action.Action {
	if c.IsOpen() {
		return nil
	}
	return c.base.onHit
}

func (c *ChestTile) Targettable() bool {
	if c.IsOpen() {
		return false
	}
	return c.base.targettable
}

// BarrelTile is a passive container: same storage contract as Chest,
// minus locking (spec.md §4.6).
type BarrelTile struct {
	base
	storedItem *Item
}

func NewBarrelTile(graphic GraphicID, depth int, access [3]geom.MapAccess) *BarrelTile {
	return &BarrelTile{base: base{
		graphic:      graphic,
		depth:        depth,
		access:       access,
		destructible: true,
		targettable:  true,
	}}
}

func (b *BarrelTile) Clone() Tile {
	c := *b
	if b.storedItem != nil {
		item := *b.storedItem
		c.storedItem = &item
	}
	return &c
}

func (b *BarrelTile) StoredItem() *Item      { return b.storedItem }
func (b *BarrelTile) SetStoredItem(it *Item) { b.storedItem = it }
