// Package clientview is the client side of spec.md §4.10's dungeon
// view stream: an EntityMap that consumes add_entity/move_entity/
// reposition_entity/flip_entity_motion/set_anim_data/set_facing
// events and interpolates each entity's on-screen position at an
// arbitrary local draw time. This is the "non-trivial part" spec.md
// calls out by name — every command must execute in the order it
// arrived, each taking its stated share of real time, while a client
// that has fallen behind catches back up by speeding its own
// animation rather than ever showing a stale position.
//
// Grounded on the same per-entity known-state idiom internal/view
// uses server-side, run in reverse: instead of diffing engine state to
// decide what to tell the client, EntityMap applies what it was told
// to decide what to draw.
package clientview

// MotionKind mirrors the wire values of protocol.DViewMoveEntity.Kind.
type MotionKind uint8

const (
	MotionMove MotionKind = iota
	MotionApproach
	MotionWithdraw
)

// lagThresholdUs is the maximum amount of real time a client is
// allowed to fall behind its own queued commands before a Move's
// finish time is clamped to now+duration, speeding the animation up
// to catch the server back up (spec.md §4.10).
const lagThresholdUs = 100_000

// Command is one queued EntityMap action. Exactly one of the Is*
// fields is meaningful per value, mirroring the sum-type command feed
// the spec describes ([Move | Reposition | SetAnim | SetFacing]).
type Command struct {
	IsMove       bool
	Kind         MotionKind
	DurationUs   int64
	Missile      bool
	DuringMotion bool // SetAnim only: insert before the final queued Move

	IsReposition bool
	X, Y         int16

	IsSetAnim bool
	Anim      uint16
	Overlay   uint16
	AnimFrame uint16

	IsSetFacing bool
	Facing      uint8
}

// entityState is an EntityMap entry's drawable state plus its pending
// command queue and the three timestamps spec.md names explicitly.
type entityState struct {
	x, y   int16
	facing uint8

	anim, overlay, animFrame uint16
	invisible, invulnerable  bool
	height                   uint8
	playerID                 uint16

	queue []Command

	// pendingFinalOffsets holds one entry per queued Move (parallel to
	// the Move commands within queue), since a Move's terminal offset
	// is supplied by the caller rather than always being 1000.
	pendingFinalOffsets []int16

	startOffset, finalOffset int16
	startTimeUs              int64
	finishTimeUs             int64
	totalNaturalTimeUs       int64

	// scheduledStartUs is the ideal (unlagged) start time of whatever
	// Move is at, or will next reach, the queue head: the previous
	// move's scheduled start plus its natural duration. Comparing this
	// to the real clock is what lets startHeadMove detect backlog.
	scheduledStartUs int64

	// currentOffset is the entity's last-computed sub-square offset
	// (0..1000 tenths), kept so FlipEntityMotion and re-entrant Move
	// pushes can read "where is this entity right now" without
	// re-deriving it from a stale queue head.
	currentOffset int16
}

// EntityMap is the client's full set of tracked entities, keyed by
// the server-allocated u16 entity ID (0 reserved for "my own knight").
type EntityMap struct {
	entities map[uint16]*entityState
}

func NewEntityMap() *EntityMap {
	return &EntityMap{entities: make(map[uint16]*entityState)}
}

// AddEntity begins tracking a new entity at the given logical square
// and sub-square offset, with an initial in-flight motion if any.
func (m *EntityMap) AddEntity(id uint16, x, y int16, height uint8, facing uint8, curOfs int16, nowUs int64, kind MotionKind, remainingUs int64) {
	e := &entityState{
		x: x, y: y, facing: facing, height: height,
		currentOffset: curOfs,
	}
	if remainingUs > 0 {
		e.startOffset = curOfs
		e.finalOffset = finalOffsetFor(kind)
		e.startTimeUs = nowUs
		e.finishTimeUs = nowUs + remainingUs
		e.totalNaturalTimeUs = remainingUs
		e.queue = append(e.queue, Command{IsMove: true, Kind: kind, DurationUs: remainingUs})
		e.pendingFinalOffsets = append(e.pendingFinalOffsets, e.finalOffset)
		e.scheduledStartUs = nowUs + remainingUs
	}
	m.entities[id] = e
}

func (m *EntityMap) RmEntity(id uint16) {
	delete(m.entities, id)
}

func finalOffsetFor(kind MotionKind) int16 {
	switch kind {
	case MotionMove:
		return 1000
	case MotionApproach:
		return 500 // placeholder magnitude; add_entity carries no final offset (Move takes one from its caller)
	case MotionWithdraw:
		return 0
	default:
		return 1000
	}
}

// Reposition is an immediate, non-animated relocation (used when the
// server corrects drift rather than playing a move).
func (m *EntityMap) Reposition(id uint16, x, y int16) {
	e, ok := m.entities[id]
	if !ok {
		return
	}
	e.x, e.y = x, y
	e.currentOffset = 0
	e.queue = nil
	e.pendingFinalOffsets = nil
	e.scheduledStartUs = 0
}

// Move enqueues a move command of the given kind and duration,
// starting from whatever offset is live when it reaches the head of
// the queue. If another Move is already queued, its live offset and
// remaining time are first recomputed and rewritten in place so the
// new command starts from a correct, not stale, point (spec.md
// §4.10's "entering a new Move while another is queued" rule).
func (m *EntityMap) Move(id uint16, nowUs int64, kind MotionKind, durationUs int64, finalOffset int16, missile bool) {
	e, ok := m.entities[id]
	if !ok {
		return
	}
	if len(e.queue) > 0 {
		m.rewriteHeadToNow(e, nowUs)
	}
	e.queue = append(e.queue, Command{
		IsMove: true, Kind: kind, DurationUs: durationUs, Missile: missile,
	})
	// finalOffset travels alongside the command via the entity's
	// pending-final-offset slot consumed when this Move reaches the head.
	e.pendingFinalOffsets = append(e.pendingFinalOffsets, finalOffset)
	if len(e.queue) == 1 {
		m.startHeadMove(e, nowUs)
	}
}

// SetFacing enqueues a facing change, applied in FIFO order alongside
// motion commands.
func (m *EntityMap) SetFacing(id uint16, facing uint8) {
	e, ok := m.entities[id]
	if !ok {
		return
	}
	e.queue = append(e.queue, Command{IsSetFacing: true, Facing: facing})
}

// SetAnimData enqueues an animation change. When duringMotion is true
// and a Move is already queued, the change is inserted just before
// the final queued Move so attack animations during locomotion appear
// instantly rather than waiting for the move to finish (spec.md
// §4.10).
func (m *EntityMap) SetAnimData(id uint16, anim, overlay, animFrame uint16, duringMotion bool) {
	e, ok := m.entities[id]
	if !ok {
		return
	}
	cmd := Command{IsSetAnim: true, Anim: anim, Overlay: overlay, AnimFrame: animFrame, DuringMotion: duringMotion}
	if !duringMotion {
		e.queue = append(e.queue, cmd)
		return
	}
	lastMove := -1
	for i := len(e.queue) - 1; i >= 0; i-- {
		if e.queue[i].IsMove {
			lastMove = i
			break
		}
	}
	if lastMove < 0 {
		e.queue = append(e.queue, cmd)
		return
	}
	e.queue = append(e.queue[:lastMove], append([]Command{cmd}, e.queue[lastMove:]...)...)
}

// FlipEntityMotion reverses an in-progress or queued move: turn the
// entity around and have it retrace its steps, used when a monster's
// target doubles back mid-approach (spec.md §4.10's three cases).
func (m *EntityMap) FlipEntityMotion(id uint16, nowUs int64, initialDelayUs, durationUs int64) {
	e, ok := m.entities[id]
	if !ok || durationUs == 0 {
		// spec.md §8: "flip_entity_motion with motion_duration_ms == 0 is a no-op".
		return
	}

	switch {
	case len(e.queue) == 0:
		// Queue empty: turn around and start a normal move of the given
		// total duration.
		e.facing = opposite(e.facing)
		e.queue = append(e.queue, Command{IsMove: true, Kind: MotionMove, DurationUs: durationUs})
		e.pendingFinalOffsets = append(e.pendingFinalOffsets, 1000)
		m.startHeadMove(e, nowUs)

	case e.queue[0].IsMove:
		// Head of queue is the move being flipped: reverse offset,
		// flip facing, swap pos with the displaced square, update
		// duration and total-natural-time.
		so := currentOffset(e, nowUs)
		e.startOffset = 1000 - so
		e.finalOffset = 1000 - e.finalOffset
		e.x, e.y = displace(e.x, e.y, e.facing)
		e.facing = opposite(e.facing)
		e.totalNaturalTimeUs = durationUs
		e.startTimeUs = nowUs
		e.finishTimeUs = nowUs + durationUs

	default:
		// A later move in the queue: compress the current queued move
		// to one time unit, then append a setFacing + move (rare, heavy
		// lag path).
		e.finishTimeUs = nowUs + 1
		e.queue = append(e.queue, Command{IsSetFacing: true, Facing: opposite(e.facing)})
		e.queue = append(e.queue, Command{IsMove: true, Kind: MotionMove, DurationUs: durationUs})
		e.pendingFinalOffsets = append(e.pendingFinalOffsets, 1000)
	}

	// Prepend the initial delay by advancing start time, but only when
	// the queue holds exactly the one move this flip concerns.
	if len(e.queue) == 1 && initialDelayUs > 0 {
		e.startTimeUs -= initialDelayUs
	}
}

// Tick drains any commands whose execution window has ended as of
// nowUs, applying their permanent effects. It returns nothing; Offset
// reports the interpolated offset of the current head Move.
func (m *EntityMap) Tick(id uint16, nowUs int64) {
	e, ok := m.entities[id]
	if !ok {
		return
	}
	for len(e.queue) > 0 {
		head := e.queue[0]
		if head.IsMove {
			if nowUs < e.finishTimeUs {
				break
			}
			e.x, e.y = displace(e.x, e.y, e.facing)
			e.currentOffset = 0
			e.queue = e.queue[1:]
			if len(e.pendingFinalOffsets) > 0 {
				e.pendingFinalOffsets = e.pendingFinalOffsets[1:]
			}
			if len(e.queue) > 0 {
				m.startHeadMove(e, nowUs)
			}
			continue
		}
		// Non-motion commands apply instantly once reached.
		if head.IsReposition {
			e.x, e.y = head.X, head.Y
		}
		if head.IsSetAnim {
			e.anim, e.overlay, e.animFrame = head.Anim, head.Overlay, head.AnimFrame
		}
		if head.IsSetFacing {
			e.facing = head.Facing
		}
		e.queue = e.queue[1:]
	}
}

// Offset returns the entity's current sub-square offset (0..1000
// tenths) at local time nowUs, interpolating a live head Move.
func (m *EntityMap) Offset(id uint16, nowUs int64) int16 {
	e, ok := m.entities[id]
	if !ok {
		return 0
	}
	return currentOffset(e, nowUs)
}

func currentOffset(e *entityState, nowUs int64) int16 {
	if len(e.queue) == 0 || !e.queue[0].IsMove {
		return e.currentOffset
	}
	if nowUs >= e.finishTimeUs {
		return e.finalOffset
	}
	elapsed := nowUs - e.startTimeUs
	if e.totalNaturalTimeUs <= 0 {
		return e.finalOffset
	}
	delta := int64(e.finalOffset) - int64(e.startOffset)
	ofs := int64(e.startOffset) + delta*elapsed/e.totalNaturalTimeUs
	e.currentOffset = int16(ofs)
	return e.currentOffset
}

// Position returns the entity's current logical square and facing.
func (m *EntityMap) Position(id uint16) (x, y int16, facing uint8, ok bool) {
	e, found := m.entities[id]
	if !found {
		return 0, 0, 0, false
	}
	return e.x, e.y, e.facing, true
}

// startHeadMove activates the queue's new head Move. Its ideal,
// unlagged start is e.scheduledStartUs (the previous move's scheduled
// start plus its natural duration, or the enqueue time for the first
// move in a fresh queue). If the real clock has pulled more than
// lagThresholdUs past that ideal start, the client has fallen behind;
// the move is started from now instead, shortening its displayed
// span back down to its natural duration rather than replaying a
// now-stale backlog at full length (spec.md §4.10's catch-up rule).
func (m *EntityMap) startHeadMove(e *entityState, nowUs int64) {
	head := e.queue[0]
	e.startOffset = e.currentOffset
	finalOffset := int16(1000)
	if len(e.pendingFinalOffsets) > 0 {
		finalOffset = e.pendingFinalOffsets[0]
	}
	e.finalOffset = finalOffset

	natural := head.DurationUs
	start := e.scheduledStartUs
	if start == 0 || nowUs-start > lagThresholdUs {
		start = nowUs
	}
	e.startTimeUs = start
	e.finishTimeUs = start + natural
	e.totalNaturalTimeUs = natural
	e.scheduledStartUs = start + natural
}

// rewriteHeadToNow recomputes the live offset of the current head
// Move and rewrites its (start_offset, remaining_time) to reflect the
// current instant, so a newly queued Move starts from a correct
// point rather than the original command's stale bookkeeping (spec.md
// §4.10).
func (m *EntityMap) rewriteHeadToNow(e *entityState, nowUs int64) {
	if len(e.queue) == 0 || !e.queue[0].IsMove {
		return
	}
	ofs := currentOffset(e, nowUs)
	e.startOffset = ofs
	e.startTimeUs = nowUs
	if e.finishTimeUs > nowUs {
		e.totalNaturalTimeUs = e.finishTimeUs - nowUs
	} else {
		e.totalNaturalTimeUs = 0
	}
}

func opposite(facing uint8) uint8 { return (facing + 2) % 4 }

func displace(x, y int16, facing uint8) (int16, int16) {
	switch facing % 4 {
	case 0: // north
		return x, y - 1
	case 1: // east
		return x + 1, y
	case 2: // south
		return x, y + 1
	default: // west
		return x - 1, y
	}
}
