package lobby

import (
	"testing"

	"github.com/knights-server/engine/internal/protocol"
)

func testMenu() protocol.Menu {
	return protocol.Menu{
		Title: "New Game",
		Items: []protocol.MenuItem{
			{Title: "Difficulty", Strings: []string{"Easy", "Hard"}},
			{Title: "Time Limit", Numeric: true, Digits: 2, Suffix: "minutes"},
		},
	}
}

func TestGameJoinAssignsRosterAndCounts(t *testing.T) {
	g := NewGame("Crypt", testMenu())
	p1 := g.Join("Alice", false, &fakeConn{})
	p2 := g.Join("Bob", true, &fakeConn{})

	players, observers := g.Counts()
	if players != 1 || observers != 1 {
		t.Fatalf("got players=%d observers=%d", players, observers)
	}

	ids, ready, _, obsIDs := g.Roster()
	if len(ids) != 1 || ids[0] != p1.ID {
		t.Fatalf("player roster = %v, want [%v]", ids, p1.ID)
	}
	if len(obsIDs) != 1 || obsIDs[0] != p2.ID {
		t.Fatalf("observer roster = %v, want [%v]", obsIDs, p2.ID)
	}
	if ready[0] {
		t.Fatalf("new player should default to not ready")
	}
}

func TestGameAllReadyRequiresAtLeastOnePlayer(t *testing.T) {
	g := NewGame("Crypt", testMenu())
	if g.AllReady() {
		t.Fatalf("empty game should not be all-ready")
	}
	p := g.Join("Alice", false, &fakeConn{})
	if g.AllReady() {
		t.Fatalf("unready player should block AllReady")
	}
	g.SetReady(p.ID, true)
	if !g.AllReady() {
		t.Fatalf("expected AllReady once the only player is ready")
	}
}

func TestGameVoteThreshold(t *testing.T) {
	g := NewGame("Crypt", testMenu())
	p1 := g.Join("Alice", false, &fakeConn{})
	p2 := g.Join("Bob", false, &fakeConn{})

	if more, reached := g.Vote(p1.ID, protocol.VoteFlagVote); reached || more != 1 {
		t.Fatalf("after first vote: more=%d reached=%v", more, reached)
	}
	if more, reached := g.Vote(p2.ID, protocol.VoteFlagVote); !reached || more != 0 {
		t.Fatalf("after second vote: more=%d reached=%v", more, reached)
	}
}

func TestGameVoteThresholdRecomputesAsRosterChanges(t *testing.T) {
	g := NewGame("Crypt", testMenu())
	p1 := g.Join("Alice", false, &fakeConn{})
	p2 := g.Join("Bob", false, &fakeConn{})
	g.Join("Carl", false, &fakeConn{})

	if more, reached := g.Vote(p1.ID, protocol.VoteFlagVote); reached || more != 1 {
		t.Fatalf("after first vote of 3 players: more=%d reached=%v", more, reached)
	}

	g.Leave(p2.ID) // 2 non-observer players remain; majority is still 2
	g.Join("Dana", true, &fakeConn{})

	if more, reached := g.Vote(p1.ID, protocol.VoteFlagVote); reached || more != 1 {
		t.Fatalf("after roster shrank to 2 players: more=%d reached=%v", more, reached)
	}
}

func TestGameVoteCancelRetractsVote(t *testing.T) {
	g := NewGame("Crypt", testMenu())
	p1 := g.Join("Alice", false, &fakeConn{})
	g.Join("Bob", false, &fakeConn{})

	if _, reached := g.Vote(p1.ID, protocol.VoteFlagVote); reached {
		t.Fatalf("single vote of 2 should not reach majority")
	}
	if more, reached := g.Vote(p1.ID, 0); reached || more != 2 {
		t.Fatalf("after retracting vote: more=%d reached=%v", more, reached)
	}
}

func TestApplyMenuSelectionLocksNumericToSingleton(t *testing.T) {
	g := NewGame("Crypt", testMenu())
	allowed, ok := g.ApplyMenuSelection(1, 15)
	if !ok || len(allowed) != 1 || allowed[0] != 15 {
		t.Fatalf("numeric selection = %v, %v", allowed, ok)
	}
	if _, ok := g.ApplyMenuSelection(1, 999); ok {
		t.Fatalf("expected out-of-range digit count to be rejected")
	}
}

func TestApplyMenuSelectionStringChoiceKeepsFullAllowedSet(t *testing.T) {
	g := NewGame("Crypt", testMenu())
	allowed, ok := g.ApplyMenuSelection(0, 1)
	if !ok || len(allowed) != 2 {
		t.Fatalf("string selection = %v, %v", allowed, ok)
	}
}

func TestLobbyListSortedByName(t *testing.T) {
	l := New()
	l.Add(NewGame("Zeta", testMenu()))
	l.Add(NewGame("Alpha", testMenu()))

	list := l.List()
	if len(list) != 2 || list[0].Name != "Alpha" || list[1].Name != "Zeta" {
		t.Fatalf("unexpected list order: %+v", list)
	}
}

type fakeConn struct {
	sent [][]byte
}

func (f *fakeConn) Send(data []byte) { f.sent = append(f.sent, data) }

func TestRegisterHandlersJoinGame(t *testing.T) {
	reg := protocol.NewRegistry(nil)
	l := New()
	g := NewGame("Crypt", testMenu())
	l.Add(g)

	sess := &Session{Conn: &fakeConn{}}
	RegisterHandlers(reg, l, func(any) *Session { return sess })

	join := protocol.JoinGame{GameName: "Crypt", AsObserver: false}
	w := protocol.NewWriter()
	join.Encode(w)

	if err := reg.Dispatch(nil, protocol.StateInLobby, w.Bytes()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if sess.Game != g {
		t.Fatalf("expected session to be attached to game Crypt")
	}

	fc := sess.Conn.(*fakeConn)
	if len(fc.sent) != 1 {
		t.Fatalf("expected one join_accepted reply, got %d", len(fc.sent))
	}
	r := protocol.NewReader(fc.sent[0])
	tagByte, _ := r.Tag()
	if protocol.Tag(tagByte) != protocol.TagJoinAccepted {
		t.Fatalf("expected join_accepted tag, got 0x%02x", tagByte)
	}
}
