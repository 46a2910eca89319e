package netio

import (
	"net"
	"testing"
	"time"

	"github.com/knights-server/engine/internal/protocol"
	"go.uber.org/zap"
)

func TestConnSendAndReceiveRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	log := zap.NewNop()
	conn := NewConn(server, 1, 4, 4, log)
	conn.Start()
	defer conn.Close()

	msg := protocol.JoinGame{GameName: "Crypt of Shadows", AsObserver: true}
	w := protocol.NewWriter()
	msg.Encode(w)
	conn.Send(w.Bytes())

	payload, err := protocol.ReadFrame(client)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	r := protocol.NewReader(payload)
	if _, err := r.Tag(); err != nil {
		t.Fatalf("Tag: %v", err)
	}
	got, err := protocol.DecodeJoinGame(r)
	if err != nil {
		t.Fatalf("DecodeJoinGame: %v", err)
	}
	if got != msg {
		t.Fatalf("got %+v, want %+v", got, msg)
	}
}

func TestConnReadLoopDeliversIncomingFrames(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	log := zap.NewNop()
	conn := NewConn(server, 2, 4, 4, log)
	conn.Start()
	defer conn.Close()

	msg := protocol.SetReady{Ready: true}
	w := protocol.NewWriter()
	msg.Encode(w)
	if err := protocol.WriteFrame(client, w.Bytes()); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	select {
	case payload := <-conn.InQueue:
		r := protocol.NewReader(payload)
		if _, err := r.Tag(); err != nil {
			t.Fatalf("Tag: %v", err)
		}
		got, err := protocol.DecodeSetReady(r)
		if err != nil {
			t.Fatalf("DecodeSetReady: %v", err)
		}
		if got != msg {
			t.Fatalf("got %+v, want %+v", got, msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for InQueue delivery")
	}
}

func TestConnStateDefaultsUnconnected(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()

	conn := NewConn(server, 3, 1, 1, zap.NewNop())
	if conn.State() != protocol.StateUnconnected {
		t.Fatalf("expected initial state Unconnected, got %v", conn.State())
	}
	conn.SetState(protocol.StateInLobby)
	if conn.State() != protocol.StateInLobby {
		t.Fatalf("SetState did not persist")
	}
}
