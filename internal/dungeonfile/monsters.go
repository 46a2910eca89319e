package dungeonfile

import (
	"fmt"

	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
)

// monsterSpec is one entry of the YAML "monsters" table (spec.md
// §4.8's MType, referencing the item table by name instead of the
// Go-pointer identity entity.MType itself uses).
type monsterSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // "flying" or "walking"

	Weapon string `yaml:"weapon"` // item name, blank means unarmed

	FlyingTargettingOffset int16 `yaml:"flying_targetting_offset"`
	BiteWait               int32 `yaml:"bite_wait"`
	MeleeDelayTime         int32 `yaml:"melee_delay_time"`

	FearItems []string `yaml:"fear_items"`
	HitItems  []string `yaml:"hit_items"`
	AvoidList []string `yaml:"avoid_list"`

	MonsterWaitChance float32 `yaml:"monster_wait_chance"`
	MonsterWaitTime   int32   `yaml:"monster_wait_time"`
}

func monsterKindFromString(s string) (entity.MonsterKind, error) {
	switch s {
	case "flying":
		return entity.MonsterFlying, nil
	case "walking":
		return entity.MonsterWalking, nil
	default:
		return 0, fmt.Errorf("unknown monster kind %q", s)
	}
}

func buildMonsters(specs []monsterSpec, items map[string]*dungeon.ItemType) (map[string]*entity.MType, error) {
	out := make(map[string]*entity.MType, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("monsters[%d]: name is required", i)
		}
		if _, dup := out[s.Name]; dup {
			return nil, fmt.Errorf("monsters[%d]: duplicate monster name %q", i, s.Name)
		}
		kind, err := monsterKindFromString(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("monsters[%d] %q: %w", i, s.Name, err)
		}

		mt := &entity.MType{
			Name:                   s.Name,
			Kind:                   kind,
			FlyingTargettingOffset: s.FlyingTargettingOffset,
			BiteWait:               s.BiteWait,
			MeleeDelayTime:         s.MeleeDelayTime,
			MonsterWaitChance:      s.MonsterWaitChance,
			MonsterWaitTime:        s.MonsterWaitTime,
		}

		if s.Weapon != "" {
			weapon, ok := items[s.Weapon]
			if !ok {
				return nil, fmt.Errorf("monsters[%d] %q: unknown weapon item %q", i, s.Name, s.Weapon)
			}
			mt.Weapon = weapon
		}

		if mt.FearItems, err = resolveItemList(items, s.FearItems, fmt.Sprintf("monsters[%d] %q fear_items", i, s.Name)); err != nil {
			return nil, err
		}
		if mt.HitItems, err = resolveItemList(items, s.HitItems, fmt.Sprintf("monsters[%d] %q hit_items", i, s.Name)); err != nil {
			return nil, err
		}
		if mt.AvoidList, err = resolveItemList(items, s.AvoidList, fmt.Sprintf("monsters[%d] %q avoid_list", i, s.Name)); err != nil {
			return nil, err
		}

		out[s.Name] = mt
	}
	return out, nil
}
