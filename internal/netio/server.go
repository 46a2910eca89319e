// Package netio is the TCP transport beneath internal/protocol: it
// owns accepting connections, framing bytes on and off the wire, and
// handing decoded frames to the lobby/game loop through channels. It
// carries no message semantics of its own — internal/protocol and
// internal/lobby own the tag dispatch and connection state.
package netio

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Server accepts TCP connections and wraps each in a Conn. New and
// dead connections are communicated to the lobby via channels, the
// same shape as the teacher's internal/net.Server — generalised here
// from an L1J-specific per-session cipher/handshake init packet (this
// protocol has neither) down to plain framed byte streams.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	newConns chan *Conn
	deadCh   chan uint64
	inSize   int
	outSize  int
	log      *zap.Logger
	closeCh  chan struct{}
}

func NewServer(bindAddr string, inSize, outSize int, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		newConns: make(chan *Conn, 64),
		deadCh:   make(chan uint64, 64),
		inSize:   inSize,
		outSize:  outSize,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// AcceptLoop runs in its own goroutine, accepting connections and
// pushing them onto NewConns until Shutdown is called.
func (s *Server) AcceptLoop() {
	for {
		c, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		conn := NewConn(c, id, s.inSize, s.outSize, s.log)
		conn.Start()

		s.log.Info("connection accepted", zap.Uint64("conn", id), zap.String("addr", conn.RemoteAddr))

		select {
		case s.newConns <- conn:
		default:
			s.log.Warn("new-connection queue full, dropping connection")
			conn.Close()
		}
	}
}

func (s *Server) NewConns() <-chan *Conn { return s.newConns }

func (s *Server) NotifyDead(connID uint64) {
	select {
	case s.deadCh <- connID:
	default:
	}
}

func (s *Server) DeadConns() <-chan uint64 { return s.deadCh }

func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

func (s *Server) Addr() net.Addr { return s.listener.Addr() }
