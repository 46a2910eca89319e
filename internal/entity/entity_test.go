package entity

import (
	"testing"

	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/geom"
)

func TestMotionOffsetInterpolatesLinearly(t *testing.T) {
	m := Motion{}
	StartMotion(&m, MotionMove, 400, 1000, 2000, false)

	if got := m.Offset(1000); got != 0 {
		t.Fatalf("offset at start = %d, want 0", got)
	}
	if got := m.Offset(1500); got != 500 {
		t.Fatalf("offset at midpoint = %d, want 500", got)
	}
	if got := m.Offset(2000); got != 1000 {
		t.Fatalf("offset at arrival = %d, want 1000", got)
	}
	if got := m.Offset(5000); got != 1000 {
		t.Fatalf("offset past arrival = %d, want clamped 1000", got)
	}
}

func TestStartMotionApproachUsesConfiguredOffset(t *testing.T) {
	m := Motion{}
	StartMotion(&m, MotionApproach, 250, 0, 100, false)
	if m.FinalOffset != 250 {
		t.Fatalf("approach final offset = %d, want 250", m.FinalOffset)
	}
}

func TestSettleMotionIsIdempotent(t *testing.T) {
	m := Motion{}
	StartMotion(&m, MotionWithdraw, 250, 0, 100, false)
	SettleMotion(&m, 50)
	if !m.Moving {
		t.Fatalf("settle before arrival should be a no-op")
	}
	SettleMotion(&m, 100)
	if m.Moving || m.StaticOffset != 0 {
		t.Fatalf("withdraw should settle to static offset 0, got moving=%v offset=%d", m.Moving, m.StaticOffset)
	}
	SettleMotion(&m, 200)
	if m.Moving {
		t.Fatalf("settle called again after already settled must stay settled")
	}
}

func TestSettleMoveResetsOffsetToZero(t *testing.T) {
	m := Motion{}
	StartMotion(&m, MotionMove, 0, 0, 100, false)
	SettleMotion(&m, 100)
	if m.Moving || m.StaticOffset != 0 {
		t.Fatalf("a completed move should settle to offset 0 (centered in the new square), got moving=%v offset=%d", m.Moving, m.StaticOffset)
	}
}

func TestStunChainsToMax(t *testing.T) {
	s := Stun{UntilGVT: NoStun}
	s.ApplyStun(100)
	if s.UntilGVT != 100 {
		t.Fatalf("first stun = %d, want 100", s.UntilGVT)
	}
	s.ApplyStun(50)
	if s.UntilGVT != 100 {
		t.Fatalf("shorter stun should not shrink existing stun, got %d", s.UntilGVT)
	}
	s.ApplyStun(200)
	if s.UntilGVT != 200 {
		t.Fatalf("longer stun should extend, got %d", s.UntilGVT)
	}
	if !s.Active(150) {
		t.Fatalf("stun should be active before its end time")
	}
	if s.Active(200) {
		t.Fatalf("stun should not be active once gvt reaches its end time")
	}
}

func TestCanActRequiresNoStunAndNoMotion(t *testing.T) {
	s := Stun{UntilGVT: NoStun}
	m := Motion{}
	if !CanAct(s, m, 0) {
		t.Fatalf("idle, unstunned entity should be able to act")
	}
	StartMotion(&m, MotionMove, 0, 0, 100, false)
	if CanAct(s, m, 50) {
		t.Fatalf("mid-move entity should not be able to act")
	}
}

func TestCannotActUntilHalfwayForFlyingBite(t *testing.T) {
	m := Motion{}
	StartMotion(&m, MotionMove, 0, 1000, 2000, false)
	s := Stun{UntilGVT: NoStun}
	if got := CannotActUntil(s, m, true); got != 1500 {
		t.Fatalf("halfway cutoff = %d, want 1500", got)
	}
	if got := CannotActUntil(s, m, false); got != 2000 {
		t.Fatalf("full arrival cutoff = %d, want 2000", got)
	}
}

func TestAnimResolveFrameAutoZero(t *testing.T) {
	a := AnimState{Frame: 3, ZeroAtGVT: 100}
	if a.ResolveFrame(50) != 3 {
		t.Fatalf("frame before auto-zero should stay 3")
	}
	if a.ResolveFrame(100) != 0 {
		t.Fatalf("frame at/after auto-zero should read 0")
	}
}

func TestKnightBackpackStackingAndCarrying(t *testing.T) {
	gem := &dungeon.ItemType{ID: 1, Name: "gem", MaxStack: 5}
	k := &KnightData{}
	k.AddToBackpack(gem, 3)
	k.AddToBackpack(gem, 4)

	if len(k.Backpack) != 2 {
		t.Fatalf("expected overflow into a second stack, got %d stacks", len(k.Backpack))
	}
	if k.Backpack[0].Count != 5 || k.Backpack[1].Count != 2 {
		t.Fatalf("expected stacks [5,2], got [%d,%d]", k.Backpack[0].Count, k.Backpack[1].Count)
	}
	if !k.Carrying(gem) {
		t.Fatalf("knight holding a backpack stack should report Carrying")
	}
}

func TestWorldSpawnKnightAndMonster(t *testing.T) {
	w := NewWorld()
	kid := w.SpawnKnight(Position{Pos: geom.MapCoord{X: 1, Y: 1}}, 7)
	if !w.Alive(kid) {
		t.Fatalf("spawned knight should be alive")
	}
	if _, ok := w.Knights.Get(kid); !ok {
		t.Fatalf("spawned knight should have KnightData")
	}

	mtype := &MType{Name: "bat", Kind: MonsterFlying}
	mid := w.SpawnMonster(Position{Pos: geom.MapCoord{X: 2, Y: 2}}, MonsterData{Type: mtype, Target: NoTarget})
	if _, ok := w.Monsters.Get(mid); !ok {
		t.Fatalf("spawned monster should have MonsterData")
	}

	w.Destroy(kid)
	w.FlushDestroyed()
	if w.Alive(kid) {
		t.Fatalf("destroyed knight should no longer be alive")
	}
	if _, ok := w.Positions.Get(kid); ok {
		t.Fatalf("destroyed knight's Position component should be cleared")
	}
}
