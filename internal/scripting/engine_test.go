package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/knights-server/engine/internal/action"
)

func writeFragmentFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write fragment file: %v", err)
	}
}

func TestRunFragmentParsesDamageAction(t *testing.T) {
	dir := t.TempDir()
	writeFragmentFile(t, dir, "trap.lua", `
function spike_trap(ctx)
  return { type = "damage", amount = 5, stun_millis = 250 }
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	got := e.RunFragment("spike_trap", action.Context{X: 3, Y: 4})
	dmg, ok := got.(action.Damage)
	if !ok {
		t.Fatalf("RunFragment = %#v, want action.Damage", got)
	}
	if dmg.Amount != 5 || dmg.StunMillis != 250 {
		t.Fatalf("Damage = %+v, want Amount=5 StunMillis=250", dmg)
	}
}

func TestRunFragmentReceivesPositionAndOriginator(t *testing.T) {
	dir := t.TempDir()
	writeFragmentFile(t, dir, "echo.lua", `
function echo_pos(ctx)
  return { type = "add_item", item_type = "gold", count = ctx.pos.x + ctx.pos.y }
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	got := e.RunFragment("echo_pos", action.Context{X: 10, Y: 7})
	add, ok := got.(action.AddItem)
	if !ok {
		t.Fatalf("RunFragment = %#v, want action.AddItem", got)
	}
	if add.ItemType != "gold" || add.Count != 17 {
		t.Fatalf("AddItem = %+v, want ItemType=gold Count=17", add)
	}
}

func TestRunFragmentParsesSequence(t *testing.T) {
	dir := t.TempDir()
	writeFragmentFile(t, dir, "combo.lua", `
function treasure_room(ctx)
  return {
    type = "sequence",
    steps = {
      { type = "add_item", item_type = "gold", count = 10 },
      { type = "teleport", kind = "room" },
    },
  }
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	got := e.RunFragment("treasure_room", action.Context{})
	seq, ok := got.(action.Sequence)
	if !ok || len(seq) != 2 {
		t.Fatalf("RunFragment = %#v, want a 2-step action.Sequence", got)
	}
	if _, ok := seq[0].(action.AddItem); !ok {
		t.Fatalf("seq[0] = %#v, want action.AddItem", seq[0])
	}
	tp, ok := seq[1].(action.Teleport)
	if !ok || tp.Kind != action.TeleportRoom {
		t.Fatalf("seq[1] = %#v, want action.Teleport{Kind: TeleportRoom}", seq[1])
	}
}

func TestRunFragmentMissingFunctionIsNoOp(t *testing.T) {
	dir := t.TempDir()
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got := e.RunFragment("does_not_exist", action.Context{}); got != nil {
		t.Fatalf("RunFragment for missing function = %#v, want nil", got)
	}
}

func TestRunFragmentNilReturnIsNoOp(t *testing.T) {
	dir := t.TempDir()
	writeFragmentFile(t, dir, "noop.lua", `
function do_nothing(ctx)
  return nil
end
`)
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got := e.RunFragment("do_nothing", action.Context{}); got != nil {
		t.Fatalf("RunFragment for nil return = %#v, want nil", got)
	}
}
