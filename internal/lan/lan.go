// Package lan implements the UDP broadcast discovery protocol of
// spec.md §4.11/§6: clients ping the broadcast address, servers on
// the local network reply in kind, letting a player find a game
// without typing an IP. Grounded on the teacher's internal/net.Server
// accept-loop-in-a-goroutine idiom, generalised from a TCP accept
// loop to a UDP send/receive loop — there is no pack example of UDP
// discovery, so this stays on stdlib net (see DESIGN.md).
package lan

import (
	"bytes"
	"encoding/binary"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Port is the fixed UDP port LAN discovery listens and broadcasts on.
const Port = 16398

var magic = [3]byte{'K', 'T', 'S'}

const (
	msgPing byte = 0x02
	msgPong byte = 0x03
)

const pongKind byte = 'L'

// lookupAddr is net.LookupAddr, indirected so tests can substitute a
// deterministic stand-in for real reverse DNS.
var lookupAddr = net.LookupAddr

// Peer is one discovered server, as reported by a pong.
type Peer struct {
	Addr       *net.UDPAddr
	NumPlayers uint16
	Host       string
	QuestKey   string
	seenAt     time.Time

	// ResolvedHost is the reverse-DNS name for Addr, filled in
	// asynchronously by a dedicated lookup goroutine; empty until that
	// lookup completes (spec.md §5: "hostname resolution for the LAN
	// discovery list runs on a worker thread per in-flight lookup;
	// results are merged under a mutex").
	ResolvedHost string
}

func buildPing(version byte) []byte {
	return []byte{magic[0], magic[1], magic[2], version, msgPing}
}

func parsePing(data []byte) (version byte, ok bool) {
	if len(data) != 5 || !bytes.Equal(data[:3], magic[:]) || data[4] != msgPing {
		return 0, false
	}
	return data[3], true
}

func buildPong(version byte, numPlayers uint16, host, questKey string) []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(version)
	buf.WriteByte(msgPong)
	buf.WriteByte(pongKind)
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], numPlayers)
	buf.Write(n[:])
	buf.WriteString(host)
	buf.WriteByte(0)
	buf.WriteString(questKey)
	buf.WriteByte(0)
	return buf.Bytes()
}

func parsePong(data []byte) (version byte, numPlayers uint16, host, questKey string, ok bool) {
	if len(data) < 8 || !bytes.Equal(data[:3], magic[:]) || data[4] != msgPong || data[5] != pongKind {
		return 0, 0, "", "", false
	}
	version = data[3]
	numPlayers = binary.BigEndian.Uint16(data[6:8])
	rest := data[8:]
	nul1 := bytes.IndexByte(rest, 0)
	if nul1 < 0 {
		return 0, 0, "", "", false
	}
	host = string(rest[:nul1])
	rest = rest[nul1+1:]
	nul2 := bytes.IndexByte(rest, 0)
	if nul2 < 0 {
		return 0, 0, "", "", false
	}
	questKey = string(rest[:nul2])
	return version, numPlayers, host, questKey, true
}

// cadence is how often a Prober re-broadcasts, self-throttled to the
// number of peers it has already observed (spec.md §6: "each client
// broadcasts every 3 × observed_peer_count seconds").
func cadence(peerCount int) time.Duration {
	n := peerCount
	if n < 1 {
		n = 1
	}
	return time.Duration(3*n) * time.Second
}

// timeout is how long a peer's last pong remains valid before it is
// dropped from the visible list (spec.md §8 scenario 5: "3 × cadence /
// peers + 1s").
func timeout(peerCount int) time.Duration {
	n := peerCount
	if n < 1 {
		n = 1
	}
	c := cadence(n)
	return 3*c/time.Duration(n) + time.Second
}

// Responder listens on Port and answers pings whose version matches
// Version with a pong describing the local game (spec.md §8: "a
// server replies iff its version byte equals the client's").
type Responder struct {
	Version    byte
	Host       string
	QuestKey   string
	NumPlayers func() uint16

	conn *net.UDPConn
	log  *zap.Logger
	stop chan struct{}
}

func NewResponder(version byte, host, questKey string, numPlayers func() uint16, log *zap.Logger) (*Responder, error) {
	addr := &net.UDPAddr{Port: Port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}
	return &Responder{
		Version:    version,
		Host:       host,
		QuestKey:   questKey,
		NumPlayers: numPlayers,
		conn:       conn,
		log:        log,
		stop:       make(chan struct{}),
	}, nil
}

// Serve runs the receive loop until Close is called.
func (r *Responder) Serve() {
	buf := make([]byte, 64)
	for {
		select {
		case <-r.stop:
			return
		default:
		}
		n, from, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-r.stop:
				return
			default:
				r.log.Debug("lan responder read error", zap.Error(err))
				continue
			}
		}
		version, ok := parsePing(buf[:n])
		if !ok || version != r.Version {
			continue
		}
		pong := buildPong(r.Version, r.NumPlayers(), r.Host, r.QuestKey)
		if _, err := r.conn.WriteToUDP(pong, from); err != nil {
			r.log.Debug("lan responder write error", zap.Error(err))
		}
	}
}

func (r *Responder) Close() {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	r.conn.Close()
}

// Prober periodically broadcasts pings and accumulates Peer replies,
// aging out entries that haven't renewed within timeout(len(peers))
// (spec.md §8 scenario 5).
type Prober struct {
	Version byte

	conn *net.UDPConn
	log  *zap.Logger
	stop chan struct{}

	mu       sync.Mutex
	peers    map[string]Peer
	resolved map[string]bool // addrs with a lookup already in flight or done
}

func NewProber(version byte, log *zap.Logger) (*Prober, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, err
	}
	return &Prober{
		Version: version,
		conn:    conn,
		log:     log,
		stop:     make(chan struct{}),
		peers:    make(map[string]Peer),
		resolved: make(map[string]bool),
	}, nil
}

// Run broadcasts on its self-throttled cadence and listens for pongs
// until Close is called.
func (p *Prober) Run() {
	go p.receiveLoop()

	for {
		select {
		case <-p.stop:
			return
		default:
		}
		p.broadcast()
		p.expireStale()

		select {
		case <-time.After(cadence(p.peerCount())):
		case <-p.stop:
			return
		}
	}
}

func (p *Prober) broadcast() {
	bcast := &net.UDPAddr{IP: net.IPv4bcast, Port: Port}
	if _, err := p.conn.WriteToUDP(buildPing(p.Version), bcast); err != nil {
		p.log.Debug("lan prober broadcast error", zap.Error(err))
	}
}

func (p *Prober) receiveLoop() {
	buf := make([]byte, 512)
	for {
		select {
		case <-p.stop:
			return
		default:
		}
		n, from, err := p.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-p.stop:
				return
			default:
				continue
			}
		}
		version, numPlayers, host, questKey, ok := parsePong(buf[:n])
		if !ok || version != p.Version {
			continue
		}
		key := from.String()
		p.mu.Lock()
		peer := p.peers[key]
		peer.Addr = from
		peer.NumPlayers = numPlayers
		peer.Host = host
		peer.QuestKey = questKey
		peer.seenAt = time.Now()
		p.peers[key] = peer
		needsLookup := !p.resolved[key]
		if needsLookup {
			p.resolved[key] = true
		}
		p.mu.Unlock()

		if needsLookup {
			go p.resolveHostname(key, from.IP)
		}
	}
}

// resolveHostname runs a reverse-DNS lookup for a newly discovered
// peer's address on its own goroutine, merging the result into peers
// under the Prober's mutex once it completes (spec.md §5). One
// goroutine per in-flight lookup; a peer is only ever looked up once,
// even if it keeps pinging while the lookup is outstanding.
func (p *Prober) resolveHostname(key string, ip net.IP) {
	names, err := lookupAddr(ip.String())
	if err != nil || len(names) == 0 {
		return
	}
	p.mu.Lock()
	if peer, ok := p.peers[key]; ok {
		peer.ResolvedHost = names[0]
		p.peers[key] = peer
	}
	p.mu.Unlock()
}

func (p *Prober) peerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.peers)
}

func (p *Prober) expireStale() {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := timeout(len(p.peers))
	now := time.Now()
	for k, peer := range p.peers {
		if now.Sub(peer.seenAt) > cutoff {
			delete(p.peers, k)
			delete(p.resolved, k)
		}
	}
}

// Peers returns a snapshot of the currently visible servers.
func (p *Prober) Peers() []Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Peer, 0, len(p.peers))
	for _, peer := range p.peers {
		out = append(out, peer)
	}
	return out
}

func (p *Prober) Close() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	p.conn.Close()
}
