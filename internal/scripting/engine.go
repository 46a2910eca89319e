// Package scripting is the Lua bridge backing action.RunScriptFragment
// (spec.md §9's design notes): the one Action variant the design notes
// allow to stay a stub for a faithful reimplementation, implemented
// here in full since Lua is the teacher's own mechanism for keeping
// gameplay-tunable behaviour out of compiled Go.
//
// A fragment is a named Lua global function. Engine builds a small
// context table (pos, entity, originator) the same shape every
// fragment receives, calls the function, and parses whatever table it
// returns back into an action.Action so the caller can re-dispatch it
// through action.Run — fragments stay declarative instead of poking
// engine internals directly.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/knights-server/engine/internal/action"
)

// Engine wraps a single gopher-lua VM for quest and tile hook
// fragments. Single-goroutine access only (the engine tick thread);
// gopher-lua's LState is not safe for concurrent use.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file under
// fragmentsDir (spec.md §1's excluded quest-scripting DSL produces the
// GameConfig that names these fragments; the fragments themselves are
// plain Lua functions, not a parser this package has to implement).
func NewEngine(fragmentsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(fragmentsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load script fragments: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded script fragment file", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// RunFragment calls the named Lua function with ctx packed into a
// table, and parses its return value (if any) back into an
// action.Action for the caller to re-dispatch via action.Run. A
// missing function or malformed/nil return is treated as "do
// nothing" rather than an error — a hook with no Lua counterpart
// yet is a no-op, not a crash (spec.md §9: script fragments may be
// stubbed).
func (e *Engine) RunFragment(name string, ctx action.Context) action.Action {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Warn("script fragment not found", zap.String("fragment", name))
		return nil
	}

	arg := e.buildContextTable(ctx)
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("script fragment error", zap.String("fragment", name), zap.Error(err))
		return nil
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	if ret == lua.LNil {
		return nil
	}

	rt, ok := ret.(*lua.LTable)
	if !ok {
		e.log.Warn("script fragment returned a non-table value", zap.String("fragment", name))
		return nil
	}
	act, err := parseAction(rt)
	if err != nil {
		e.log.Warn("script fragment returned an unrecognised action", zap.String("fragment", name), zap.Error(err))
		return nil
	}
	return act
}

func (e *Engine) buildContextTable(ctx action.Context) *lua.LTable {
	t := e.vm.NewTable()

	pos := e.vm.NewTable()
	pos.RawSetString("map_id", lua.LNumber(ctx.MapID))
	pos.RawSetString("x", lua.LNumber(ctx.X))
	pos.RawSetString("y", lua.LNumber(ctx.Y))
	pos.RawSetString("facing", lua.LNumber(ctx.Facing))
	t.RawSetString("pos", pos)

	t.RawSetString("entity", lua.LNumber(ctx.ActorID))

	orig := e.vm.NewTable()
	switch ctx.Originator.Kind {
	case action.OriginatorPlayer:
		orig.RawSetString("kind", lua.LString("player"))
	case action.OriginatorMonster:
		orig.RawSetString("kind", lua.LString("monster"))
	default:
		orig.RawSetString("kind", lua.LString("none"))
	}
	orig.RawSetString("player_id", lua.LNumber(ctx.Originator.PlayerID))
	t.RawSetString("originator", orig)

	return t
}

// parseAction converts a Lua table returned by a fragment into one of
// action.Damage / action.AddItem / action.Teleport / action.Sequence,
// keyed by its "type" field. Fragments never return another
// RunScriptFragment — that would just be two names for one function.
func parseAction(t *lua.LTable) (action.Action, error) {
	kind := lString(t, "type")
	switch kind {
	case "damage":
		return action.Damage{
			Amount:     lInt(t, "amount"),
			StunMillis: int32(lInt(t, "stun_millis")),
		}, nil
	case "add_item":
		return action.AddItem{
			ItemType: lString(t, "item_type"),
			Count:    lInt(t, "count"),
		}, nil
	case "teleport":
		return action.Teleport{
			Kind:    teleportKindFromString(lString(t, "kind")),
			TargetX: int32(lInt(t, "target_x")),
			TargetY: int32(lInt(t, "target_y")),
		}, nil
	case "sequence":
		return parseSequence(t)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", kind)
	}
}

func parseSequence(t *lua.LTable) (action.Action, error) {
	stepsVal := t.RawGetString("steps")
	steps, ok := stepsVal.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("sequence action missing steps table")
	}
	var seq action.Sequence
	n := steps.Len()
	for i := 1; i <= n; i++ {
		stepVal := steps.RawGetInt(i)
		stepTable, ok := stepVal.(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("sequence step %d is not a table", i)
		}
		step, err := parseAction(stepTable)
		if err != nil {
			return nil, fmt.Errorf("sequence step %d: %w", i, err)
		}
		seq = append(seq, step)
	}
	return seq, nil
}

func teleportKindFromString(s string) action.TeleportKind {
	switch s {
	case "random":
		return action.TeleportRandom
	case "room":
		return action.TeleportRoom
	default:
		return action.TeleportSquare
	}
}

func lString(t *lua.LTable, key string) string {
	v := t.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}
