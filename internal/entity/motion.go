package entity

// StartMotion transitions m into a Moving state of the given kind,
// capturing the entity's current (static) offset as the interpolation
// start point. approachOffset is the configured approach-offset tunable
// (spec.md §4.5); it is only consulted for MotionApproach.
func StartMotion(m *Motion, kind MotionKind, approachOffset int16, startGVT, arrivalGVT int32, missile bool) {
	start := m.StaticOffset
	if m.Moving {
		// Re-entering motion while already moving (e.g. a flying
		// monster biting mid-move): continue from wherever the
		// current interpolation has reached.
		start = m.Offset(startGVT)
	}
	m.Moving = true
	m.Kind = kind
	m.StartOffset = start
	m.FinalOffset = kind.FinalOffset(approachOffset)
	m.StartTimeGVT = startGVT
	m.ArrivalTimeGVT = arrivalGVT
	m.MissileMode = missile
}

// SettleMotion collapses a completed Moving state back into
// NotMoving. Callers invoke this once gvt has reached
// m.ArrivalTimeGVT; it is idempotent. A completed MotionMove settles
// to static offset 0: the caller updates Position.Pos to the
// destination square in the same step, so offset 0 is "centered in
// the (new) square" again. Approach/withdraw never change Pos, so
// they settle to their final offset instead (spec.md §4.5: "approach
// means the entity has partially stepped into the next square while
// still logically occupying its origin square").
func SettleMotion(m *Motion, gvt int32) {
	if !m.Moving {
		return
	}
	if gvt < m.ArrivalTimeGVT {
		return
	}
	if m.Kind == MotionMove {
		m.StaticOffset = 0
	} else {
		m.StaticOffset = m.FinalOffset
	}
	m.Moving = false
}

// HalfwayGVT returns the GVT at which a Moving motion reaches its
// midpoint, used by the flying monster AI's halfway-bite rule
// (spec.md §4.8 step 3: "mid-move -> if bite_allowed, bite").
func (m Motion) HalfwayGVT() int32 {
	return m.StartTimeGVT + (m.ArrivalTimeGVT-m.StartTimeGVT)/2
}

// CannotActUntil returns the GVT at which this entity becomes free to
// act again, folding together its stun and motion state (spec.md
// §4.8: "cannot_act_until is the max of the stun-end and the
// motion-arrival"). haltAtHalfway lets a flying monster that is
// allowed to attack mid-move treat its own halfway point as the
// effective arrival.
func CannotActUntil(stun Stun, m Motion, haltAtHalfway bool) int32 {
	until := int32(0)
	if stun.UntilGVT != NoStun {
		until = stun.UntilGVT
	}
	if m.Moving {
		arrival := m.ArrivalTimeGVT
		if haltAtHalfway {
			arrival = m.HalfwayGVT()
		}
		if arrival > until {
			until = arrival
		}
	}
	return until
}

// CanAct reports whether the entity is free to act at gvt: not
// stunned and not mid-move (spec.md §4.5/§4.8).
func CanAct(stun Stun, m Motion, gvt int32) bool {
	return !stun.Active(gvt) && !m.Moving
}
