package engine

import (
	"time"

	coresystem "github.com/knights-server/engine/internal/core/system"
)

// TickSystem adapts Engine.Tick to core/system.System so the game loop
// can register it on the same Runner as the network input/output
// systems, in the PhaseUpdate slot cmd/l1jgo's combat/AI systems run
// in.
type TickSystem struct {
	Engine *Engine
}

func (s TickSystem) Phase() coresystem.Phase { return coresystem.PhaseUpdate }

func (s TickSystem) Update(dt time.Duration) { s.Engine.Tick(dt) }
