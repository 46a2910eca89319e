package dungeonfile

import (
	"fmt"

	"github.com/knights-server/engine/internal/dungeon"
)

// itemSpec is one entry of the YAML "items" table (spec.md §3's
// ItemType, supplied by GameConfig rather than hand-written Go
// literals, per SPEC_FULL.md's dungeonfile section).
type itemSpec struct {
	Name string `yaml:"name"`

	Fragile     bool   `yaml:"fragile"`
	BackpackGfx uint32 `yaml:"backpack_gfx"`
	MaxStack    int    `yaml:"max_stack"`

	Weapon       bool `yaml:"weapon"`
	WeaponDamage int  `yaml:"weapon_damage"`

	AIFear bool `yaml:"ai_fear"`
	AIHit  bool `yaml:"ai_hit"`
}

func buildItems(specs []itemSpec) (map[string]*dungeon.ItemType, error) {
	out := make(map[string]*dungeon.ItemType, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("items[%d]: name is required", i)
		}
		if _, dup := out[s.Name]; dup {
			return nil, fmt.Errorf("items[%d]: duplicate item name %q", i, s.Name)
		}
		out[s.Name] = &dungeon.ItemType{
			ID:           dungeon.ItemTypeID(i + 1),
			Name:         s.Name,
			Fragile:      s.Fragile,
			BackpackGfx:  dungeon.GraphicID(s.BackpackGfx),
			MaxStack:     s.MaxStack,
			IsWeapon:     s.Weapon,
			WeaponDamage: s.WeaponDamage,
			AIFearHook:   s.AIFear,
			AIHitHook:    s.AIHit,
		}
	}
	return out, nil
}

func resolveItemList(items map[string]*dungeon.ItemType, names []string, field string) ([]*dungeon.ItemType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]*dungeon.ItemType, 0, len(names))
	for _, n := range names {
		it, ok := items[n]
		if !ok {
			return nil, fmt.Errorf("%s: unknown item %q", field, n)
		}
		out = append(out, it)
	}
	return out, nil
}
