// Package entity implements spec.md §4.5's entity model: position,
// facing, motion (sub-square offset interpolation, approach/withdraw
// half-moves, stun, facing), plus the Knight/Monster variants (spec.md
// §3).
//
// Component storage reuses the teacher's generic ECS verbatim
// (internal/core/ecs's generational EntityID + PtrComponentStore[T] +
// Each2/Each3) populated here with all-new Knights component types —
// see DESIGN.md.
package entity

import (
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/ids"
)

// MotionKind distinguishes a full move from the two half-moves
// (spec.md §4.5).
type MotionKind uint8

const (
	MotionMove MotionKind = iota
	MotionApproach
	MotionWithdraw
)

// FinalOffset returns the terminal sub-square offset (0..1000, tenths
// of a percent) for a motion kind, given the configured approach
// offset (spec.md §4.5: move=1000, approach=configured, withdraw=0).
func (k MotionKind) FinalOffset(approachOffset int16) int16 {
	switch k {
	case MotionMove:
		return 1000
	case MotionApproach:
		return approachOffset
	case MotionWithdraw:
		return 0
	default:
		return 0
	}
}

// Position is an entity's location, facing and height layer.
type Position struct {
	MapID  ids.MapID
	Pos    geom.MapCoord
	Facing geom.MapDirection
	Height geom.MapHeight
}

// Motion is NotMoving(offset) or Moving{...}, per spec.md §4.5. Both
// states are folded into one struct (Go has no sum types) gated by
// Moving.
type Motion struct {
	Moving bool

	// Valid when !Moving: a static offset, one of {0, approachOffset,
	// -withdrawOffset} in source terms — represented directly as the
	// signed tenths-of-a-percent value.
	StaticOffset int16

	// Valid when Moving.
	Kind         MotionKind
	StartOffset  int16
	FinalOffset  int16
	StartTimeGVT int32
	ArrivalTimeGVT int32
	MissileMode  bool
}

// Offset returns the observable sub-square offset at the given GVT:
// the static value while NotMoving, or the GVT-keyed linear
// interpolation between StartOffset and FinalOffset while Moving,
// clamped to FinalOffset once gvt >= ArrivalTimeGVT (spec.md §4.5,
// and the continuity/monotonicity invariant in spec.md §8).
func (m Motion) Offset(gvt int32) int16 {
	if !m.Moving {
		return m.StaticOffset
	}
	if gvt >= m.ArrivalTimeGVT {
		return m.FinalOffset
	}
	total := m.ArrivalTimeGVT - m.StartTimeGVT
	if total <= 0 {
		return m.FinalOffset
	}
	elapsed := gvt - m.StartTimeGVT
	if elapsed < 0 {
		elapsed = 0
	}
	delta := int32(m.FinalOffset) - int32(m.StartOffset)
	return m.StartOffset + int16(delta*elapsed/total)
}

// Stun tracks the GVT until which the entity cannot act. NoStun means
// not currently stunned.
type Stun struct {
	UntilGVT int32 // == NoStun when not stunned
}

const NoStun int32 = -1

func (s Stun) Active(gvt int32) bool {
	return s.UntilGVT != NoStun && gvt < s.UntilGVT
}

// ApplyStun chains with any existing stun by taking the max of the two
// end times (spec.md §4.5: "chaining with any existing stun (max of)").
func (s *Stun) ApplyStun(untilGVT int32) {
	if untilGVT > s.UntilGVT {
		s.UntilGVT = untilGVT
	}
}

// AnimState is the current animation frame plus an auto-zero-time: the
// frame reverts to the default (0) at a given GVT.
type AnimState struct {
	Frame      int
	Overlay    dungeon.GraphicID
	ZeroAtGVT  int32 // NoAutoZero means the frame never auto-reverts
	SpeechBubble bool
}

const NoAutoZero int32 = -1

// ResolveFrame returns the effective frame at gvt, applying auto-zero.
func (a AnimState) ResolveFrame(gvt int32) int {
	if a.ZeroAtGVT != NoAutoZero && gvt >= a.ZeroAtGVT {
		return 0
	}
	return a.Frame
}

// Flags holds the miscellaneous booleans spec.md §4.5 groups together.
type Flags struct {
	Invisible   bool
	Invulnerable bool
}
