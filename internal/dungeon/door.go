package dungeon

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/geom"
)

// DoorTile implements spec.md §4.6's Door behaviour. Its "open" state
// is defined, not stored redundantly: open means every height's access
// equals clear AND the current graphic equals openGraphic — so Open()
// just flips access+graphic together and IsOpen() re-derives the
// truth from them, matching the invariant literally.
type DoorTile struct {
	base
	closedAccess [3]geom.MapAccess // saved at creation, restored on Close
	closedGraphic GraphicID
	openGraphic   GraphicID
}

func NewDoorTile(closedGraphic, openGraphic GraphicID, depth int, closedAccess [3]geom.MapAccess) *DoorTile {
	d := &DoorTile{
		base: base{
			graphic:      closedGraphic,
			depth:        depth,
			access:       closedAccess,
			destructible: true,
			targettable:  true,
		},
		closedAccess:  closedAccess,
		closedGraphic: closedGraphic,
		openGraphic:   openGraphic,
	}
	return d
}

func (d *DoorTile) Clone() Tile {
	c := *d
	return &c
}

// IsOpen reports whether every height is clear and the graphic matches
// the open graphic — the literal invariant from spec.md §4.6.
func (d *DoorTile) IsOpen() bool {
	if d.graphic != d.openGraphic {
		return false
	}
	for h := geom.HeightWalking; h <= geom.HeightMissiles; h++ {
		if d.access[h] != geom.AccessClear {
			return false
		}
	}
	return true
}

// Open sets every height clear and swaps to the open graphic.
func (d *DoorTile) Open() {
	d.access = [3]geom.MapAccess{geom.AccessClear, geom.AccessClear, geom.AccessClear}
	d.graphic = d.openGraphic
}

// Close restores the saved closed-state access and graphic.
func (d *DoorTile) Close() {
	d.access = d.closedAccess
	d.graphic = d.closedGraphic
}

// OnHit overrides base: damage and on_hit are no-ops while open
// (spec.md §4.6).
func (d *DoorTile) OnHit() action.Action {
	if d.IsOpen() {
		return nil
	}
	return d.base.onHit
}

// Targettable overrides base: a door is not targettable while open
// (spec.md §4.6).
func (d *DoorTile) Targettable() bool {
	if d.IsOpen() {
		return false
	}
	return d.base.targettable
}
