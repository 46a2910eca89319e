package lan

import (
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPingRoundTrip(t *testing.T) {
	msg := buildPing(5)
	version, ok := parsePing(msg)
	if !ok || version != 5 {
		t.Fatalf("parsePing = %v, %v", version, ok)
	}
}

func TestPongRoundTrip(t *testing.T) {
	msg := buildPong(5, 3, "myhost", "castle-of-doom")
	version, numPlayers, host, questKey, ok := parsePong(msg)
	if !ok {
		t.Fatalf("parsePong failed")
	}
	if version != 5 || numPlayers != 3 || host != "myhost" || questKey != "castle-of-doom" {
		t.Fatalf("got version=%d players=%d host=%q key=%q", version, numPlayers, host, questKey)
	}
}

func TestParsePingRejectsWrongMagicOrTag(t *testing.T) {
	if _, ok := parsePing([]byte("XYZ\x05\x02")); ok {
		t.Fatalf("expected bad magic to be rejected")
	}
	if _, ok := parsePing([]byte("KTS\x05\x03")); ok {
		t.Fatalf("expected wrong message tag to be rejected")
	}
}

func TestAgeOutTimeoutMatchesSpecScenario(t *testing.T) {
	// spec.md §8 scenario 5: one peer gives a 10000ms age-out timeout.
	if got := timeout(1); got != 10*time.Second {
		t.Fatalf("timeout(1) = %v, want 10s", got)
	}
}

func TestCadenceScalesWithPeerCount(t *testing.T) {
	if got := cadence(1); got != 3*time.Second {
		t.Fatalf("cadence(1) = %v, want 3s", got)
	}
	if got := cadence(4); got != 12*time.Second {
		t.Fatalf("cadence(4) = %v, want 12s", got)
	}
}

func TestResolveHostnameMergesResultUnderLock(t *testing.T) {
	orig := lookupAddr
	defer func() { lookupAddr = orig }()
	lookupAddr = func(addr string) ([]string, error) {
		return []string{"castle.lan."}, nil
	}

	p := &Prober{
		Version:  5,
		log:      zap.NewNop(),
		stop:     make(chan struct{}),
		peers:    map[string]Peer{"10.0.0.5:16398": {}},
		resolved: make(map[string]bool),
	}

	p.resolveHostname("10.0.0.5:16398", net.ParseIP("10.0.0.5"))

	if got := p.peers["10.0.0.5:16398"].ResolvedHost; got != "castle.lan." {
		t.Fatalf("ResolvedHost = %q, want castle.lan.", got)
	}
}

func TestResolveHostnameLeavesPeerUnresolvedOnLookupError(t *testing.T) {
	orig := lookupAddr
	defer func() { lookupAddr = orig }()
	lookupAddr = func(addr string) ([]string, error) {
		return nil, &net.DNSError{Err: "no such host", IsNotFound: true}
	}

	p := &Prober{
		peers:    map[string]Peer{"10.0.0.6:16398": {}},
		resolved: make(map[string]bool),
	}

	p.resolveHostname("10.0.0.6:16398", net.ParseIP("10.0.0.6"))

	if got := p.peers["10.0.0.6:16398"].ResolvedHost; got != "" {
		t.Fatalf("ResolvedHost = %q, want empty on lookup failure", got)
	}
}
