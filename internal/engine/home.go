package engine

import (
	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/home"
	"github.com/knights-server/engine/internal/ids"
)

// AddHome registers a home square with the engine's HomeManager and,
// whenever tile is non-nil (special or not), adds that HomeTile to the map
// (spec.md §4.6/§4.7). Dungeon layout (where homes sit) is game-config
// data the caller supplies, not something this package invents.
func (e *Engine) AddHome(loc home.HomeLocation, special bool, tile *dungeon.HomeTile) {
	e.Homes.AddHome(loc, special)
	if tile != nil {
		e.DMap.AddTile(loc.Pos, tile, action.Originator{})
	}
}

// SecureHome attempts to secure the home square in front of actor
// (spec.md §4.7 step 1's "Wand of Securing" use, step 2's own-home
// exclusion already enforced by HomeManager). The tile's displayed
// colour-change is pushed through AddTile so every player watching
// that square sees the recolour.
func (e *Engine) SecureHome(playerID ids.PlayerID, loc home.HomeLocation) home.SecureResult {
	p, ok := e.Players[playerID]
	if !ok {
		return home.SecureFailedNotAHome
	}
	result := e.Homes.SecureHome(
		p.HomePlayer,
		loc,
		e.roster(),
		e.RNG,
		e.setHomeColour,
		e.replaceHomeWithWall,
		e.houseColourOfPlayer,
	)
	if result == home.SecureSuccess {
		e.LogReplayEvent("home_secured", action.Context{
			MapID:      int32(loc.MapID),
			X:          int32(loc.Pos.X),
			Y:          int32(loc.Pos.Y),
			Originator: action.Originator{Kind: action.OriginatorPlayer, PlayerID: uint64(playerID)},
		}, nil)
	}
	return result
}

func (e *Engine) setHomeColour(loc home.HomeLocation, cc dungeon.ColourChange) {
	for _, t := range e.DMap.GetTiles(loc.Pos) {
		if ht, ok := t.(*dungeon.HomeTile); ok {
			ht.Secure(cc)
			e.DMap.AddTile(loc.Pos, ht, action.Originator{})
			return
		}
	}
}

// replaceHomeWithWall swaps a contested home tile for an impassable
// wall (spec.md §4.7: secured by both teams becomes a permanent wall).
// A plain, non-destructible, non-targettable, no-access-at-any-height
// tile is exactly what the original's wall prototype is.
func (e *Engine) replaceHomeWithWall(loc home.HomeLocation) {
	for _, t := range e.DMap.GetTiles(loc.Pos) {
		if _, ok := t.(*dungeon.HomeTile); ok {
			e.DMap.RmTile(loc.Pos, t, action.Originator{})
		}
	}
	wall := dungeon.NewPlainTile(wallGraphic, 0, [3]geom.MapAccess{
		geom.AccessBlocked, geom.AccessBlocked, geom.AccessBlocked,
	}, false, false, false)
	e.DMap.AddTile(loc.Pos, wall, action.Originator{})
}

// wallGraphic is the graphic id shown for a home square contested by
// both teams. Dungeon files are free to declare a nicer wall prototype
// of their own and never reach this path, since it is only used by
// the forced-wall rule of spec.md §4.7.
const wallGraphic dungeon.GraphicID = 0

func (e *Engine) houseColourOfPlayer(playerID ids.PlayerID) dungeon.ColourChange {
	if p, ok := e.Players[playerID]; ok {
		return houseColourOf(p)
	}
	return 0
}
