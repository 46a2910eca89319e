package dungeonfile

import (
	"fmt"

	"github.com/knights-server/engine/internal/geom"
)

func parseAccess(s string) (geom.MapAccess, error) {
	switch s {
	case "blocked":
		return geom.AccessBlocked, nil
	case "approach":
		return geom.AccessApproach, nil
	case "clear":
		return geom.AccessClear, nil
	default:
		return 0, fmt.Errorf("unknown access value %q", s)
	}
}

// parseAccessTriple reads the three access entries in
// geom.MapHeight order (walking, flying, missiles); an empty string
// defaults to blocked, so a tile only needs to name the heights it
// differs from fully-solid on.
func parseAccessTriple(vals [3]string) ([3]geom.MapAccess, error) {
	var out [3]geom.MapAccess
	for h, v := range vals {
		if v == "" {
			out[h] = geom.AccessBlocked
			continue
		}
		a, err := parseAccess(v)
		if err != nil {
			return out, err
		}
		out[h] = a
	}
	return out, nil
}

func parseDirection(s string) (geom.MapDirection, error) {
	switch s {
	case "North":
		return geom.North, nil
	case "East":
		return geom.East, nil
	case "South":
		return geom.South, nil
	case "West":
		return geom.West, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}
