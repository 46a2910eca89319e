package engine

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/ids"
)

// observer implements dungeon.Observer, translating DungeonMap
// mutations into the corresponding per-player view calls (spec.md
// §4.3's "fires the tile's on_insert hook (notifies view)"). It only
// forwards to players whose current room includes the affected
// square, matching spec.md §4.10's room-scoped dungeon view.
type observer struct {
	engine *Engine
}

func (o *observer) visibleTo(p *Player, mc geom.MapCoord) bool {
	if p.currentRoom == noRoomSentinel {
		return false
	}
	r1, r2 := o.engine.Rooms.RoomsAt(mc)
	return r1 == p.currentRoom || r2 == p.currentRoom
}

func (o *observer) TileAdded(mc geom.MapCoord, t dungeon.Tile, origin action.Originator) {
	for _, p := range o.engine.Players {
		if !o.visibleTo(p, mc) {
			continue
		}
		p.DungeonView.SetTile(mc.X, mc.Y, uint8(t.Depth()), uint16(t.Graphic()), uint8(t.ColourChange()), false)
	}
}

func (o *observer) TileRemoved(mc geom.MapCoord, t dungeon.Tile, origin action.Originator) {
	for _, p := range o.engine.Players {
		if !o.visibleTo(p, mc) {
			continue
		}
		p.DungeonView.ClearTiles(mc.X, mc.Y, false)
	}
}

func (o *observer) ItemChanged(mc geom.MapCoord) {
	it := o.engine.DMap.GetItem(mc)
	for _, p := range o.engine.Players {
		if !o.visibleTo(p, mc) {
			continue
		}
		if it == nil {
			p.DungeonView.SetItem(mc.X, mc.Y, 0, false)
			continue
		}
		p.DungeonView.SetItem(mc.X, mc.Y, uint16(it.Type.BackpackGfx), false)
	}
}

func (o *observer) EntityMoved(id ids.EntityID, from, to geom.MapCoord) {
	// Per-entity reposition is driven by syncPlayerView's full
	// SyncEntities diff each tick (view.DungeonView.SyncEntities
	// already reconciles add/move/remove); a live per-move push here
	// would just race that diff, so EntityMoved is a no-op hook kept
	// only to satisfy dungeon.Observer.
}
