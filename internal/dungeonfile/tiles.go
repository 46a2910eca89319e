package dungeonfile

import (
	"fmt"

	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/dungeon"
)

// tileSpec is one entry of the YAML "tiles" table (spec.md §4.6's five
// tile kinds). Every kind shares this one flat shape; only the fields
// relevant to Kind are read, the way the rest of dungeonfile treats
// its tables as a plain config format rather than a typed-per-kind
// schema.
type tileSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // plain, door, chest, barrel, home

	Graphic       uint32    `yaml:"graphic"`
	ClosedGraphic uint32    `yaml:"closed_graphic"`
	OpenGraphic   uint32    `yaml:"open_graphic"`
	Depth         int       `yaml:"depth"`
	Access        [3]string `yaml:"access"`
	ClosedAccess  [3]string `yaml:"closed_access"`

	Destructible bool `yaml:"destructible"`
	Targettable  bool `yaml:"targettable"`
	ItemsAllowed bool `yaml:"items_allowed"`

	Facing      string      `yaml:"facing"`
	TrapChance  float32     `yaml:"trap_chance"`
	TrapAction  *actionSpec `yaml:"trap_action"`
	SpecialExit bool        `yaml:"special_exit"`

	OnHit      *actionSpec `yaml:"on_hit"`
	OnApproach *actionSpec `yaml:"on_approach"`
	OnWithdraw *actionSpec `yaml:"on_withdraw"`
	OnDestroy  *actionSpec `yaml:"on_destroy"`
}

type hookSetter interface {
	SetHooks(onHit, onApproach, onWithdraw, onDestroy action.Action)
}

func buildTiles(specs []tileSpec) (map[string]dungeon.Tile, error) {
	out := make(map[string]dungeon.Tile, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("tiles[%d]: name is required", i)
		}
		if _, dup := out[s.Name]; dup {
			return nil, fmt.Errorf("tiles[%d]: duplicate tile name %q", i, s.Name)
		}

		tile, hooks, err := buildTileProto(s)
		if err != nil {
			return nil, fmt.Errorf("tiles[%d] %q: %w", i, s.Name, err)
		}

		onHit, err := s.OnHit.toAction()
		if err != nil {
			return nil, fmt.Errorf("tiles[%d] %q on_hit: %w", i, s.Name, err)
		}
		onApproach, err := s.OnApproach.toAction()
		if err != nil {
			return nil, fmt.Errorf("tiles[%d] %q on_approach: %w", i, s.Name, err)
		}
		onWithdraw, err := s.OnWithdraw.toAction()
		if err != nil {
			return nil, fmt.Errorf("tiles[%d] %q on_withdraw: %w", i, s.Name, err)
		}
		onDestroy, err := s.OnDestroy.toAction()
		if err != nil {
			return nil, fmt.Errorf("tiles[%d] %q on_destroy: %w", i, s.Name, err)
		}
		hooks.SetHooks(onHit, onApproach, onWithdraw, onDestroy)

		out[s.Name] = tile
	}
	return out, nil
}

// buildTileProto constructs the concrete tile and returns it both as
// the dungeon.Tile interface (for storage) and as its hookSetter
// pointer (for SetHooks, since the five New*Tile constructors only
// take the fields specific to their own kind).
func buildTileProto(s tileSpec) (dungeon.Tile, hookSetter, error) {
	switch s.Kind {
	case "plain":
		access, err := parseAccessTriple(s.Access)
		if err != nil {
			return nil, nil, err
		}
		t := dungeon.NewPlainTile(dungeon.GraphicID(s.Graphic), s.Depth, access, s.Destructible, s.Targettable, s.ItemsAllowed)
		return t, t, nil

	case "door":
		access, err := parseAccessTriple(s.ClosedAccess)
		if err != nil {
			return nil, nil, err
		}
		t := dungeon.NewDoorTile(dungeon.GraphicID(s.ClosedGraphic), dungeon.GraphicID(s.OpenGraphic), s.Depth, access)
		return t, t, nil

	case "chest":
		access, err := parseAccessTriple(s.ClosedAccess)
		if err != nil {
			return nil, nil, err
		}
		facing, err := parseDirection(s.Facing)
		if err != nil {
			return nil, nil, err
		}
		trap, err := s.TrapAction.toAction()
		if err != nil {
			return nil, nil, fmt.Errorf("trap_action: %w", err)
		}
		t := dungeon.NewChestTile(dungeon.GraphicID(s.ClosedGraphic), dungeon.GraphicID(s.OpenGraphic), s.Depth, access, facing, s.TrapChance, trap)
		return t, t, nil

	case "barrel":
		access, err := parseAccessTriple(s.Access)
		if err != nil {
			return nil, nil, err
		}
		t := dungeon.NewBarrelTile(dungeon.GraphicID(s.Graphic), s.Depth, access)
		return t, t, nil

	case "home":
		access, err := parseAccessTriple(s.Access)
		if err != nil {
			return nil, nil, err
		}
		facing, err := parseDirection(s.Facing)
		if err != nil {
			return nil, nil, err
		}
		t := dungeon.NewHomeTile(dungeon.GraphicID(s.Graphic), s.Depth, access, facing, s.SpecialExit)
		return t, t, nil

	default:
		return nil, nil, fmt.Errorf("unknown tile kind %q", s.Kind)
	}
}
