package dungeon

import "github.com/knights-server/engine/internal/geom"

// HomeTile implements spec.md §4.6's Home behaviour: facing points
// INTO the home; secure() updates the displayed colour-change;
// on_approach/on_withdraw start/stop home-healing, driven by
// internal/home.HomeManager rather than the tile itself (the tile only
// reports the facing it requires and its own colour state — the
// HomeManager decides whether pos+facing matches a given player's own
// home, per spec.md §4.7).
type HomeTile struct {
	base
	facing      geom.MapDirection
	specialExit bool
}

func NewHomeTile(graphic GraphicID, depth int, access [3]geom.MapAccess, facing geom.MapDirection, specialExit bool) *HomeTile {
	return &HomeTile{
		base: base{
			graphic: graphic,
			depth:   depth,
			access:  access,
		},
		facing:      facing,
		specialExit: specialExit,
	}
}

func (h *HomeTile) Clone() Tile {
	c := *h
	return &c
}

func (h *HomeTile) Facing() geom.MapDirection { return h.facing }
func (h *HomeTile) SpecialExit() bool         { return h.specialExit }

// Secure sets the displayed colour-change to reflect ownership
// (spec.md §4.7: "secure(pos, new_cc) sets the displayed colour-change
// to reflect owned by").
func (h *HomeTile) Secure(newCC ColourChange) {
	h.colourChange = newCC
}
