package protocol

import "testing"

func TestRegistryDispatchGatesOnState(t *testing.T) {
	reg := NewRegistry(nil)
	var gotName string
	reg.Register(TagJoinGame, []ConnectionState{StateInLobby}, func(sess any, r *Reader) {
		msg, err := DecodeJoinGame(r)
		if err != nil {
			t.Fatalf("DecodeJoinGame: %v", err)
		}
		gotName = msg.GameName
	})

	msg := JoinGame{GameName: "Test Dungeon", AsObserver: false}
	w := NewWriter()
	msg.Encode(w)

	if err := reg.Dispatch(nil, StateInGameMenu, w.Bytes()); err == nil {
		t.Fatalf("expected dispatch to reject join_game while in IN_GAME_MENU")
	}
	if err := reg.Dispatch(nil, StateInLobby, w.Bytes()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if gotName != "Test Dungeon" {
		t.Fatalf("handler did not run, gotName = %q", gotName)
	}
}

func TestRegistryDispatchUnknownTag(t *testing.T) {
	reg := NewRegistry(nil)
	if err := reg.Dispatch(nil, StateInLobby, []byte{0xFF}); err == nil {
		t.Fatalf("expected error for unregistered tag")
	}
}

func TestRegistryDispatchRecoversHandlerPanic(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(TagSetReady, []ConnectionState{StateInGameMenu}, func(sess any, r *Reader) {
		panic("boom")
	})

	msg := SetReady{Ready: true}
	w := NewWriter()
	msg.Encode(w)

	if err := reg.Dispatch(nil, StateInGameMenu, w.Bytes()); err == nil {
		t.Fatalf("expected recovered panic to surface as an error")
	}
}
