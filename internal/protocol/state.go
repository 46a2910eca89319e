package protocol

import (
	"fmt"

	"go.uber.org/zap"
)

// ConnectionState is a connection's position in spec.md §4.11's
// observable state machine: UNCONNECTED -> CONNECTING -> IN_LOBBY ->
// IN_GAME_MENU -> IN_GAME, with FAILED reachable from any state.
type ConnectionState int

const (
	StateUnconnected ConnectionState = iota
	StateConnecting
	StateInLobby
	StateInGameMenu
	StateInGame
	StateFailed
)

func (s ConnectionState) String() string {
	switch s {
	case StateUnconnected:
		return "Unconnected"
	case StateConnecting:
		return "Connecting"
	case StateInLobby:
		return "InLobby"
	case StateInGameMenu:
		return "InGameMenu"
	case StateInGame:
		return "InGame"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc processes one decoded message body. sess is passed as
// an opaque interface to avoid the protocol package importing the
// session/connection type that embeds it.
type HandlerFunc func(sess any, r *Reader)

type handlerEntry struct {
	fn      HandlerFunc
	allowed map[ConnectionState]bool
}

// Registry maps tags to handlers gated by connection state, adapted
// from the teacher's internal/net/packet.Registry generalised from a
// fixed MMO session-state enum to Knights' lobby/game state machine.
type Registry struct {
	handlers map[Tag]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{handlers: make(map[Tag]*handlerEntry), log: log}
}

// Register maps tag to fn, callable only while the connection is in
// one of states.
func (reg *Registry) Register(tag Tag, states []ConnectionState, fn HandlerFunc) {
	allowed := make(map[ConnectionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[tag] = &handlerEntry{fn: fn, allowed: allowed}
}

// Dispatch reads the tag from data's first byte, checks it is
// registered and allowed in state, and invokes its handler with a
// Reader positioned just past the tag. A bad tag or disallowed state
// is a spec.md §7 protocol error: the caller should drop the
// connection on a non-nil error.
func (reg *Registry) Dispatch(sess any, state ConnectionState, data []byte) error {
	r := NewReader(data)
	tagByte, err := r.Tag()
	if err != nil {
		return fmt.Errorf("empty message")
	}
	tag := Tag(tagByte)

	entry, ok := reg.handlers[tag]
	if !ok {
		return fmt.Errorf("unknown tag 0x%02x", tagByte)
	}
	if !entry.allowed[state] {
		return fmt.Errorf("tag 0x%02x not allowed in state %s", tagByte, state)
	}

	return reg.safeCall(entry.fn, sess, r, tagByte)
}

// safeCall recovers a handler panic so one malformed or adversarial
// message can't take down the whole connection loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *Reader, tag byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if reg.log != nil {
				reg.log.Error("protocol handler panic recovered",
					zap.Uint8("tag", tag),
					zap.Any("panic", rec),
				)
			}
			err = fmt.Errorf("handler panic for tag 0x%02x: %v", tag, rec)
		}
	}()
	fn(sess, r)
	return nil
}
