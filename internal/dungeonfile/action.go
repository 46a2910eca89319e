package dungeonfile

import (
	"fmt"

	"github.com/knights-server/engine/internal/action"
)

// actionSpec is the YAML shape every hook field (on_hit, on_approach,
// trap_action, a monster's fear/hit item hook, ...) decodes into. It
// mirrors internal/scripting's Lua fragment tables field-for-field —
// "type" discriminates which action.Action variant to build — so a
// tile author moving a hook from YAML into a Lua fragment (or back)
// only has to change where the table lives, not its shape.
type actionSpec struct {
	Type string `yaml:"type"`

	Amount     int   `yaml:"amount"`
	StunMillis int32 `yaml:"stun_millis"`

	ItemType string `yaml:"item_type"`
	Count    int    `yaml:"count"`

	Kind    string `yaml:"kind"`
	TargetX int32  `yaml:"target_x"`
	TargetY int32  `yaml:"target_y"`

	FunctionName string `yaml:"function_name"`

	Steps []actionSpec `yaml:"steps"`
}

// toAction converts a decoded actionSpec into an action.Action. A
// blank Type (the field omitted in YAML entirely) yields a nil
// Action, matching the "no hook configured" case callers already
// handle via action.Run's nil no-op.
func (s *actionSpec) toAction() (action.Action, error) {
	if s == nil {
		return nil, nil
	}
	switch s.Type {
	case "":
		return nil, nil
	case "damage":
		return action.Damage{Amount: s.Amount, StunMillis: s.StunMillis}, nil
	case "add_item":
		return action.AddItem{ItemType: s.ItemType, Count: s.Count}, nil
	case "teleport":
		return action.Teleport{
			Kind:    teleportKindFromString(s.Kind),
			TargetX: s.TargetX,
			TargetY: s.TargetY,
		}, nil
	case "run_script_fragment":
		return action.RunScriptFragment{FunctionName: s.FunctionName}, nil
	case "sequence":
		seq := make(action.Sequence, 0, len(s.Steps))
		for i := range s.Steps {
			sub, err := s.Steps[i].toAction()
			if err != nil {
				return nil, fmt.Errorf("sequence step %d: %w", i, err)
			}
			seq = append(seq, sub)
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", s.Type)
	}
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
