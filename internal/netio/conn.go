package netio

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/knights-server/engine/internal/protocol"
	"go.uber.org/zap"
)

// Conn is one client connection: frame-level read/write goroutines
// plus the connection's current protocol state. Generalised from the
// teacher's internal/net.Session, dropping its per-session Cipher and
// plaintext init-packet handshake (spec.md's protocol has no wire
// encryption and no fixed client-version handshake payload — version
// exchange happens via connection_accepted/connection_failed
// messages instead).
type Conn struct {
	ID   uint64
	conn net.Conn

	state atomic.Int32 // protocol.ConnectionState

	InQueue  chan []byte // lobby reads decoded frames from here
	OutQueue chan []byte // writer goroutine sends these frames

	RemoteAddr string

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func NewConn(c net.Conn, id uint64, inSize, outSize int, log *zap.Logger) *Conn {
	conn := &Conn{
		ID:         id,
		conn:       c,
		InQueue:    make(chan []byte, inSize),
		OutQueue:   make(chan []byte, outSize),
		RemoteAddr: c.RemoteAddr().String(),
		closeCh:    make(chan struct{}),
		log:        log.With(zap.Uint64("conn", id)),
	}
	conn.state.Store(int32(protocol.StateUnconnected))
	return conn
}

func (c *Conn) State() protocol.ConnectionState {
	return protocol.ConnectionState(c.state.Load())
}

func (c *Conn) SetState(st protocol.ConnectionState) {
	c.state.Store(int32(st))
}

// Start launches the reader and writer goroutines. Unlike the
// teacher's Session.Start, there is no plaintext handshake to send
// first — the client opens CONNECTING and waits for
// connection_accepted/connection_failed like any other message.
func (c *Conn) Start() {
	go c.readLoop()
	go c.writeLoop()
}

// Send queues an already-encoded message for sending. Non-blocking:
// a full OutQueue means a slow/stuck client, and is treated as
// grounds to disconnect rather than apply backpressure to the whole
// game loop.
func (c *Conn) Send(data []byte) {
	if c.closed.Load() {
		return
	}
	select {
	case c.OutQueue <- data:
	default:
		c.log.Warn("output queue full, dropping slow connection")
		c.Close()
	}
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.SetState(protocol.StateFailed)
		close(c.closeCh)
		c.conn.Close()
	})
}

func (c *Conn) IsClosed() bool { return c.closed.Load() }

func (c *Conn) readLoop() {
	defer c.Close()

	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		payload, err := protocol.ReadFrame(c.conn)
		if err != nil {
			if !c.closed.Load() {
				c.log.Debug("read error", zap.Error(err))
			}
			return
		}

		select {
		case c.InQueue <- payload:
		case <-c.closeCh:
			return
		}
	}
}

func (c *Conn) writeLoop() {
	defer c.Close()

	for {
		select {
		case data := <-c.OutQueue:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := protocol.WriteFrame(c.conn, data); err != nil {
				if !c.closed.Load() {
					c.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-c.closeCh:
			return
		}
	}
}
