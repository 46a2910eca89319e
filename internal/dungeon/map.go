package dungeon

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/ids"
)

// Observer is notified of dungeon mutations so that view-streaming
// (internal/view) can emit the corresponding per-player update without
// DungeonMap depending on the view package (spec.md §4.3's "fires the
// tile's on_insert hook (notifies view)").
type Observer interface {
	TileAdded(mc geom.MapCoord, t Tile, origin action.Originator)
	TileRemoved(mc geom.MapCoord, t Tile, origin action.Originator)
	ItemChanged(mc geom.MapCoord)
	EntityMoved(id ids.EntityID, from, to geom.MapCoord)
}

// DungeonMap is a w x h grid of Squares (spec.md §4.3).
type DungeonMap struct {
	ID            ids.MapID
	Width, Height int16

	squares []Square // row-major, len == Width*Height

	observer Observer
	executor action.Executor
}

func NewDungeonMap(id ids.MapID, w, h int16, observer Observer, executor action.Executor) *DungeonMap {
	return &DungeonMap{
		ID:       id,
		Width:    w,
		Height:   h,
		squares:  make([]Square, int(w)*int(h)),
		observer: observer,
		executor: executor,
	}
}

func (m *DungeonMap) inBounds(mc geom.MapCoord) bool {
	return mc.X >= 0 && mc.Y >= 0 && mc.X < m.Width && mc.Y < m.Height
}

func (m *DungeonMap) index(mc geom.MapCoord) int {
	return int(mc.Y)*int(m.Width) + int(mc.X)
}

// at returns the square at mc, or nil if out of bounds.
func (m *DungeonMap) at(mc geom.MapCoord) *Square {
	if !m.inBounds(mc) {
		return nil
	}
	return &m.squares[m.index(mc)]
}

// AddTile inserts t at pos (re-sorted by depth) and fires on_insert
// via the observer. A no-op at out-of-range coords (spec.md §8).
func (m *DungeonMap) AddTile(pos geom.MapCoord, t Tile, origin action.Originator) {
	sq := m.at(pos)
	if sq == nil {
		return
	}
	sq.addTile(t)
	if m.observer != nil {
		m.observer.TileAdded(pos, t, origin)
	}
}

// RmTile fires on_destroy then removes t from pos.
func (m *DungeonMap) RmTile(pos geom.MapCoord, t Tile, origin action.Originator) {
	sq := m.at(pos)
	if sq == nil {
		return
	}
	if m.executor != nil {
		action.Run(m.executor, t.OnDestroy(), action.Context{
			MapID: int32(m.ID), X: int32(pos.X), Y: int32(pos.Y), Originator: origin,
		})
	}
	if sq.rmTile(t) && m.observer != nil {
		m.observer.TileRemoved(pos, t, origin)
	}
}

func (m *DungeonMap) ClearTiles(pos geom.MapCoord) {
	sq := m.at(pos)
	if sq == nil {
		return
	}
	for _, t := range sq.tiles {
		if m.observer != nil {
			m.observer.TileRemoved(pos, t, action.Originator{})
		}
	}
	sq.clearTiles()
}

func (m *DungeonMap) GetTiles(pos geom.MapCoord) []Tile {
	sq := m.at(pos)
	if sq == nil {
		return nil
	}
	return sq.Tiles()
}

func (m *DungeonMap) GetAccess(pos geom.MapCoord, h geom.MapHeight) geom.MapAccess {
	sq := m.at(pos)
	if sq == nil {
		return geom.AccessBlocked
	}
	return sq.getAccess(h)
}

func (m *DungeonMap) ItemsAllowed(pos geom.MapCoord) bool {
	sq := m.at(pos)
	if sq == nil {
		return false
	}
	return sq.ItemsAllowed()
}

// AddItem places it directly at pos, overwriting whatever item (if
// any) was already there — callers wanting spill-over semantics should
// use DropItem instead.
func (m *DungeonMap) AddItem(pos geom.MapCoord, it *Item) {
	sq := m.at(pos)
	if sq == nil {
		return
	}
	sq.item = it
	if m.observer != nil {
		m.observer.ItemChanged(pos)
	}
}

func (m *DungeonMap) RmItem(pos geom.MapCoord) {
	sq := m.at(pos)
	if sq == nil {
		return
	}
	sq.item = nil
	if m.observer != nil {
		m.observer.ItemChanged(pos)
	}
}

func (m *DungeonMap) GetItem(pos geom.MapCoord) *Item {
	sq := m.at(pos)
	if sq == nil {
		return nil
	}
	return sq.item
}

// dropSpiral lists the relative offsets DropItem probes, in expanding
// Chebyshev rings, up to a fixed radius.
func dropSpiral(radius int) []geom.MapCoord {
	offs := make([]geom.MapCoord, 0, (2*radius+1)*(2*radius+1))
	offs = append(offs, geom.MapCoord{})
	for r := 1; r <= radius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if dx == -r || dx == r || dy == -r || dy == r {
					offs = append(offs, geom.MapCoord{X: int16(dx), Y: int16(dy)})
				}
			}
		}
	}
	return offs
}

const dropSearchRadius = 5

// DropItem tries to place it at pos; if blocked (items not allowed, or
// an item already present) and allowNonlocal is true, spirals outward
// up to dropSearchRadius squares looking for a free, items-allowed
// square. preferDirection is consulted first within each ring when
// non-zero-valued search order matters; for simplicity we search the
// ring in a fixed deterministic order and do not special-case
// preferDirection beyond trying pos+preferDirection immediately after
// pos itself (spec.md §4.3: "respects items_allowed and fragility").
// Fragile items shatter (are discarded) instead of spilling when their
// own tile is destroyed — that case is handled by callers of RmTile,
// not here.
func (m *DungeonMap) DropItem(it *Item, pos geom.MapCoord, allowNonlocal bool, preferDirection geom.MapDirection, actor action.Originator) bool {
	if m.tryDropAt(it, pos) {
		return true
	}
	if !allowNonlocal {
		return false
	}
	preferred := geom.DisplaceCoord(pos, preferDirection)
	if m.tryDropAt(it, preferred) {
		return true
	}
	for _, off := range dropSpiral(dropSearchRadius) {
		cand := geom.MapCoord{X: pos.X + off.X, Y: pos.Y + off.Y}
		if cand == pos || cand == preferred {
			continue
		}
		if m.tryDropAt(it, cand) {
			return true
		}
	}
	return false
}

func (m *DungeonMap) tryDropAt(it *Item, pos geom.MapCoord) bool {
	sq := m.at(pos)
	if sq == nil || sq.item != nil || !sq.ItemsAllowed() {
		return false
	}
	sq.item = it
	if m.observer != nil {
		m.observer.ItemChanged(pos)
	}
	return true
}

func (m *DungeonMap) AddEntity(pos geom.MapCoord, id ids.EntityID) {
	sq := m.at(pos)
	if sq == nil {
		return
	}
	sq.addEntity(id)
}

func (m *DungeonMap) RmEntity(pos geom.MapCoord, id ids.EntityID) {
	sq := m.at(pos)
	if sq == nil {
		return
	}
	sq.rmEntity(id)
}

// MoveEntity removes id from `from` and adds it to `to`, notifying the
// observer. Used by the entity motion system when a move completes.
func (m *DungeonMap) MoveEntity(id ids.EntityID, from, to geom.MapCoord) {
	m.RmEntity(from, id)
	m.AddEntity(to, id)
	if m.observer != nil {
		m.observer.EntityMoved(id, from, to)
	}
}

func (m *DungeonMap) GetEntities(pos geom.MapCoord) []ids.EntityID {
	sq := m.at(pos)
	if sq == nil {
		return nil
	}
	return sq.Entities()
}
