// Package dungeonfile loads the data tables spec.md §1 keeps inside
// the opaque GameConfig: item types, monster species, tile prototypes
// and quest definitions. The menu/quest scripting DSL that produces a
// GameConfig is explicitly out of scope (spec.md §1's Non-goals); this
// package is the plain-data half of that boundary, decoding the YAML
// the out-of-scope DSL would otherwise emit directly into the Go
// catalogue types the rest of the engine already works with
// (dungeon.ItemType, entity.MType, dungeon.Tile, quest.Quest).
//
// Entries cross-reference each other by name — a monster's weapon, a
// quest's required items — the way the teacher's data tables
// cross-reference by numeric ID; Load resolves every name to the
// shared *ItemType/*MType pointer the rest of the engine expects,
// failing fast on an unknown reference rather than leaving a nil that
// would only surface as a crash much later during play.
package dungeonfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/quest"
)

// GameConfig is the resolved, ready-to-use form of one dungeon file:
// every catalogue keyed by the name it was declared under in YAML,
// cross-references already turned into pointers.
type GameConfig struct {
	Items    map[string]*dungeon.ItemType
	Monsters map[string]*entity.MType
	Tiles    map[string]dungeon.Tile
	Quests   map[string]quest.Quest
}

// rawConfig is the direct YAML decode target, before cross-reference
// resolution.
type rawConfig struct {
	Items    []itemSpec    `yaml:"items"`
	Monsters []monsterSpec `yaml:"monsters"`
	Tiles    []tileSpec    `yaml:"tiles"`
	Quests   []questSpec   `yaml:"quests"`
}

// Load reads and decodes a dungeon file at path. Items are resolved
// first since monsters, tiles (trap items are out of scope here) and
// quests reference them by name; tiles have no cross-references of
// their own beyond the actions they embed.
func Load(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dungeon file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a dungeon file already read into memory, for callers
// that load YAML from somewhere other than the filesystem (embedded
// assets, tests).
func Parse(data []byte) (*GameConfig, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode dungeon file: %w", err)
	}

	items, err := buildItems(raw.Items)
	if err != nil {
		return nil, err
	}
	monsters, err := buildMonsters(raw.Monsters, items)
	if err != nil {
		return nil, err
	}
	tiles, err := buildTiles(raw.Tiles)
	if err != nil {
		return nil, err
	}
	quests, err := buildQuests(raw.Quests, items)
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Items:    items,
		Monsters: monsters,
		Tiles:    tiles,
		Quests:   quests,
	}, nil
}
