package dungeonfile

import (
	"testing"

	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/entity"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/quest"
)

const sampleYAML = `
items:
  - name: short_sword
    weapon: true
    weapon_damage: 5
    max_stack: 1
  - name: garlic
    ai_fear: true
    max_stack: 5
  - name: bear_trap
    ai_hit: true
    max_stack: 1

monsters:
  - name: vampire_bat
    kind: flying
    flying_targetting_offset: 4
    bite_wait: 500
    melee_delay_time: 300
  - name: goblin
    kind: walking
    weapon: short_sword
    fear_items: [garlic]
    hit_items: [bear_trap]
    monster_wait_chance: 0.1
    monster_wait_time: 1000

tiles:
  - name: floor
    kind: plain
    graphic: 1
    access: [clear, clear, clear]
    items_allowed: true
  - name: spike_trap_floor
    kind: plain
    graphic: 2
    access: [clear, clear, clear]
    on_hit:
      type: damage
      amount: 10
      stun_millis: 250
  - name: north_door
    kind: door
    closed_graphic: 20
    open_graphic: 21
    closed_access: [blocked, blocked, blocked]
  - name: treasure_chest
    kind: chest
    closed_graphic: 30
    open_graphic: 31
    closed_access: [approach, approach, clear]
    facing: South
    trap_chance: 0.15
    trap_action:
      type: damage
      amount: 8
  - name: barrel
    kind: barrel
    graphic: 40
    access: [approach, blocked, clear]
  - name: north_home
    kind: home
    graphic: 50
    access: [clear, clear, clear]
    facing: North
    on_approach:
      type: run_script_fragment
      function_name: home_heal_start

quests:
  - name: find_sword
    kind: retrieve
    count: 1
    types: [short_sword]
    singular: "the Short Sword"
    plural: "Short Swords"
    required_msg: "to win"
  - name: destroy_evil
    kind: destroy
    wand: [short_sword]
    book: [garlic]
`

func mustParse(t *testing.T) *GameConfig {
	t.Helper()
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cfg
}

func TestParseResolvesItemTable(t *testing.T) {
	cfg := mustParse(t)
	sword, ok := cfg.Items["short_sword"]
	if !ok {
		t.Fatalf("short_sword not found")
	}
	if !sword.IsWeapon || sword.WeaponDamage != 5 {
		t.Fatalf("short_sword = %+v, want a weapon with damage 5", sword)
	}
}

func TestParseResolvesMonsterWeaponByName(t *testing.T) {
	cfg := mustParse(t)
	goblin, ok := cfg.Monsters["goblin"]
	if !ok {
		t.Fatalf("goblin not found")
	}
	if goblin.Kind != entity.MonsterWalking {
		t.Fatalf("goblin.Kind = %v, want MonsterWalking", goblin.Kind)
	}
	if goblin.Weapon != cfg.Items["short_sword"] {
		t.Fatalf("goblin.Weapon did not resolve to the short_sword pointer")
	}
	if len(goblin.FearItems) != 1 || goblin.FearItems[0] != cfg.Items["garlic"] {
		t.Fatalf("goblin.FearItems = %+v, want [garlic]", goblin.FearItems)
	}
}

func TestParseUnknownMonsterWeaponErrors(t *testing.T) {
	_, err := Parse([]byte(`
monsters:
  - name: ghost
    kind: flying
    weapon: nonexistent_item
`))
	if err == nil {
		t.Fatalf("expected an error for an unresolved weapon reference")
	}
}

func TestParseBuildsPlainTileWithOnHitDamage(t *testing.T) {
	cfg := mustParse(t)
	tile, ok := cfg.Tiles["spike_trap_floor"]
	if !ok {
		t.Fatalf("spike_trap_floor not found")
	}
	dmg, ok := tile.OnHit().(action.Damage)
	if !ok {
		t.Fatalf("OnHit = %#v, want action.Damage", tile.OnHit())
	}
	if dmg.Amount != 10 || dmg.StunMillis != 250 {
		t.Fatalf("Damage = %+v, want Amount=10 StunMillis=250", dmg)
	}
}

func TestParseBuildsDoorTileAccess(t *testing.T) {
	cfg := mustParse(t)
	tile, ok := cfg.Tiles["north_door"]
	if !ok {
		t.Fatalf("north_door not found")
	}
	if tile.Access(geom.HeightWalking) != geom.AccessBlocked {
		t.Fatalf("north_door walking access = %v, want blocked", tile.Access(geom.HeightWalking))
	}
}

func TestParseBuildsChestTileFacingAndTrap(t *testing.T) {
	cfg := mustParse(t)
	tile, ok := cfg.Tiles["treasure_chest"].(*dungeon.ChestTile)
	if !ok {
		t.Fatalf("treasure_chest did not decode as *dungeon.ChestTile")
	}
	if tile.Facing() != geom.South {
		t.Fatalf("Facing = %v, want South", tile.Facing())
	}
	trap := tile.GenerateTrap(0)
	dmg, ok := trap.(action.Damage)
	if !ok || dmg.Amount != 8 {
		t.Fatalf("GenerateTrap(0) = %#v, want action.Damage{Amount: 8}", trap)
	}
	if tile.GenerateTrap(1) != nil {
		t.Fatalf("GenerateTrap(1) should not fire at roll >= trapChance")
	}
}

func TestParseBuildsHomeTileRunScriptFragmentHook(t *testing.T) {
	cfg := mustParse(t)
	tile, ok := cfg.Tiles["north_home"]
	if !ok {
		t.Fatalf("north_home not found")
	}
	rsf, ok := tile.OnApproach().(action.RunScriptFragment)
	if !ok || rsf.FunctionName != "home_heal_start" {
		t.Fatalf("OnApproach = %#v, want RunScriptFragment{home_heal_start}", tile.OnApproach())
	}
}

func TestParseResolvesRetrieveQuest(t *testing.T) {
	cfg := mustParse(t)
	q, ok := cfg.Quests["find_sword"].(*quest.Retrieve)
	if !ok {
		t.Fatalf("find_sword did not decode as *quest.Retrieve")
	}
	if q.No != 1 || len(q.Types) != 1 || q.Types[0] != cfg.Items["short_sword"] {
		t.Fatalf("Retrieve = %+v, want No=1 Types=[short_sword]", q)
	}
}

func TestParseResolvesDestroyQuest(t *testing.T) {
	cfg := mustParse(t)
	q, ok := cfg.Quests["destroy_evil"].(*quest.Destroy)
	if !ok {
		t.Fatalf("destroy_evil did not decode as *quest.Destroy")
	}
	if len(q.Wand) != 1 || q.Wand[0] != cfg.Items["short_sword"] {
		t.Fatalf("Destroy.Wand = %+v, want [short_sword]", q.Wand)
	}
	if len(q.Book) != 1 || q.Book[0] != cfg.Items["garlic"] {
		t.Fatalf("Destroy.Book = %+v, want [garlic]", q.Book)
	}
}

func TestParseDuplicateTileNameErrors(t *testing.T) {
	_, err := Parse([]byte(`
tiles:
  - name: floor
    kind: plain
    graphic: 1
    access: [clear, clear, clear]
  - name: floor
    kind: plain
    graphic: 2
    access: [clear, clear, clear]
`))
	if err == nil {
		t.Fatalf("expected an error for a duplicate tile name")
	}
}

func TestParseUnknownTileKindErrors(t *testing.T) {
	_, err := Parse([]byte(`
tiles:
  - name: mystery
    kind: levitating_orb
`))
	if err == nil {
		t.Fatalf("expected an error for an unknown tile kind")
	}
}
