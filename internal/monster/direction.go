package monster

import (
	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/geom"
)

// ChooseDirection builds the up-to-four-direction preference list
// spec.md §4.8 describes (biased towards self->target, or away from
// it when runAway is set, with the |dx| vs |dy| axis tie broken at
// random and the perpendicular pair's order randomised 50%), then
// returns the first direction for which canMove reports true.
//
// The axis split is exact rather than approximate: X-axis directions
// (East/West) and Y-axis directions (North/South) partition the four
// cardinals, so "primary axis, then the perpendicular pair in a
// random order, then the primary axis's opposite" visits all four
// exactly once.
func ChooseDirection(self, target geom.MapCoord, runAway bool, canMove func(geom.MapDirection) bool, rng *clock.RNG) (geom.MapDirection, bool) {
	dx := int(target.X) - int(self.X)
	dy := int(target.Y) - int(self.Y)
	if runAway {
		dx, dy = -dx, -dy
	}

	preferX := axisPreference(dx, geom.East, geom.West, rng)
	preferY := axisPreference(dy, geom.South, geom.North, rng)

	xPrimary := abs(dx) > abs(dy)
	if abs(dx) == abs(dy) {
		xPrimary = rng.Bool(0.5)
	}

	var order [4]geom.MapDirection
	if xPrimary {
		perp1, perp2 := preferY, preferY.Opposite()
		if rng.Bool(0.5) {
			perp1, perp2 = perp2, perp1
		}
		order = [4]geom.MapDirection{preferX, perp1, perp2, preferX.Opposite()}
	} else {
		perp1, perp2 := preferX, preferX.Opposite()
		if rng.Bool(0.5) {
			perp1, perp2 = perp2, perp1
		}
		order = [4]geom.MapDirection{preferY, perp1, perp2, preferY.Opposite()}
	}

	for _, d := range order {
		if canMove(d) {
			return d, true
		}
	}
	return 0, false
}

// axisPreference returns the direction along an axis matching delta's
// sign, coin-flipping when delta is zero (no preference either way).
func axisPreference(delta int, positive, negative geom.MapDirection, rng *clock.RNG) geom.MapDirection {
	switch {
	case delta > 0:
		return positive
	case delta < 0:
		return negative
	default:
		if rng.Bool(0.5) {
			return positive
		}
		return negative
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ManhattanDistance is |dx| + |dy|, used by FindClosestKnight.
func ManhattanDistance(a, b geom.MapCoord) int {
	return abs(int(a.X)-int(b.X)) + abs(int(a.Y)-int(b.Y))
}
