package dungeon

import (
	"sort"

	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/ids"
)

// Square is the per-grid-cell state spec.md §4.3 describes: a
// depth-ordered tile stack, an optional item, the entities currently
// occupying it, and a lazily-recomputed cached access vector.
type Square struct {
	tiles    []Tile // ascending depth; last element is top-of-stack
	item     *Item
	entities []ids.EntityID

	access      [3]geom.MapAccess
	accessValid bool
}

// Tiles returns the square's tile stack, top-of-stack last.
func (sq *Square) Tiles() []Tile { return sq.tiles }

// TopBlockingTile returns the highest-depth tile, or nil if the square
// is bare. This is "the topmost blocking tile" spec.md §3 uses to
// derive items_allowed.
func (sq *Square) TopBlockingTile() Tile {
	if len(sq.tiles) == 0 {
		return nil
	}
	return sq.tiles[len(sq.tiles)-1]
}

// ItemsAllowed derives from the topmost blocking tile's flag, or true
// on a bare square (spec.md §3).
func (sq *Square) ItemsAllowed() bool {
	t := sq.TopBlockingTile()
	if t == nil {
		return true
	}
	return t.ItemsAllowedHere()
}

func (sq *Square) addTile(t Tile) {
	sq.tiles = append(sq.tiles, t)
	sort.SliceStable(sq.tiles, func(i, j int) bool {
		return sq.tiles[i].Depth() < sq.tiles[j].Depth()
	})
	sq.accessValid = false
}

// rmTile removes the first tile pointer-equal to t (identity, not
// value equality — a square may hold two tiles of otherwise-identical
// configuration).
func (sq *Square) rmTile(t Tile) bool {
	for i, cur := range sq.tiles {
		if cur == t {
			sq.tiles = append(sq.tiles[:i], sq.tiles[i+1:]...)
			sq.accessValid = false
			return true
		}
	}
	return false
}

func (sq *Square) clearTiles() {
	sq.tiles = nil
	sq.accessValid = false
}

// recomputeAccess recomputes the cached per-height access as the min
// over every tile's access at that height (spec.md §4.3/§8 invariant).
// A bare square is clear at every height.
func (sq *Square) recomputeAccess() {
	for h := geom.HeightWalking; h <= geom.HeightMissiles; h++ {
		acc := geom.AccessClear
		for _, t := range sq.tiles {
			acc = geom.Min(acc, t.Access(h))
		}
		sq.access[h] = acc
	}
	sq.accessValid = true
}

func (sq *Square) getAccess(h geom.MapHeight) geom.MapAccess {
	if !sq.accessValid {
		sq.recomputeAccess()
	}
	return sq.access[h]
}

func (sq *Square) addEntity(id ids.EntityID) {
	sq.entities = append(sq.entities, id)
}

func (sq *Square) rmEntity(id ids.EntityID) {
	for i, e := range sq.entities {
		if e == id {
			sq.entities = append(sq.entities[:i], sq.entities[i+1:]...)
			return
		}
	}
}

func (sq *Square) Entities() []ids.EntityID { return sq.entities }
func (sq *Square) Item() *Item               { return sq.item }
