package home

import (
	"testing"

	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/ids"
)

func loc(x int16) HomeLocation {
	return HomeLocation{MapID: 1, Pos: geom.MapCoord{X: x, Y: 0}, Facing: geom.North}
}

func TestSecureUnsecuredHome(t *testing.T) {
	m := NewManager()
	m.AddHome(loc(0), false)

	p := &Player{ID: 1, Team: 0}
	var coloured bool
	res := m.SecureHome(p, loc(0), []*Player{p}, clock.NewRNG(1),
		func(HomeLocation, dungeon.ColourChange) { coloured = true },
		nil,
		func(ids.PlayerID) dungeon.ColourChange { return 0 },
	)
	if res != SecureSuccess || !coloured {
		t.Fatalf("securing an unsecured home should succeed and recolour, got %v coloured=%v", res, coloured)
	}
}

func TestSecureByOwnerFails(t *testing.T) {
	m := NewManager()
	m.AddHome(loc(0), false)
	p := &Player{ID: 1, Team: 0}
	colourFor := func(ids.PlayerID) dungeon.ColourChange { return 0 }
	m.SecureHome(p, loc(0), []*Player{p}, clock.NewRNG(1), nil, nil, colourFor)

	res := m.SecureHome(p, loc(0), []*Player{p}, clock.NewRNG(1), nil, nil, colourFor)
	if res != SecureFailedAlreadySecure {
		t.Fatalf("re-securing own home should fail, got %v", res)
	}
}

func TestSecureByEnemyWallsTheHome(t *testing.T) {
	m := NewManager()
	l := loc(0)
	m.AddHome(l, false)
	owner := &Player{ID: 1, Team: 0}
	enemy := &Player{ID: 2, Team: 1}
	colourFor := func(ids.PlayerID) dungeon.ColourChange { return 0 }
	roster := []*Player{owner, enemy}

	m.SecureHome(owner, l, roster, clock.NewRNG(1), nil, nil, colourFor)

	var walled bool
	res := m.SecureHome(enemy, l, roster, clock.NewRNG(1), nil,
		func(HomeLocation) { walled = true }, colourFor)
	if res != SecureSuccess || !walled {
		t.Fatalf("securing an enemy-held home should wall it, got %v walled=%v", res, walled)
	}
	if m.IsSecurableHome(owner.ID, l) || m.IsSecurableHome(enemy.ID, l) {
		t.Fatalf("walled home should no longer be securable by anyone")
	}
}

func TestSpecialExitNeverSecurable(t *testing.T) {
	m := NewManager()
	l := loc(0)
	m.AddHome(l, true)
	p := &Player{ID: 1}
	res := m.SecureHome(p, l, []*Player{p}, clock.NewRNG(1), nil, nil, func(ids.PlayerID) dungeon.ColourChange { return 0 })
	if res != SecureFailedSpecialExit {
		t.Fatalf("special exit should reject securing, got %v", res)
	}
}

func TestRehomePicksNewHomeWhenOldOneWalled(t *testing.T) {
	m := NewManager()
	a, b := loc(0), loc(1)
	m.AddHome(a, false)
	m.AddHome(b, false)

	owner := &Player{ID: 1, Team: 0, HasHome: true, Home: a}
	enemy := &Player{ID: 2, Team: 1}
	roster := []*Player{owner, enemy}
	colourFor := func(ids.PlayerID) dungeon.ColourChange { return 0 }

	m.SecureHome(owner, a, roster, clock.NewRNG(1), nil, nil, colourFor)
	m.SecureHome(enemy, a, roster, clock.NewRNG(1), nil, nil, colourFor)

	if owner.Home == a {
		t.Fatalf("owner's home should have been reassigned away from the now-walled square")
	}
	if owner.Home != b {
		t.Fatalf("owner should have been rehomed to the only remaining home, got %v", owner.Home)
	}
}

func TestOnKnightDeathRerollsOnlyForDifferentEveryTime(t *testing.T) {
	m := NewManager()
	a, b := loc(0), loc(1)
	m.AddHome(a, false)
	m.AddHome(b, false)

	fixed := &Player{ID: 1, RespawnType: RespawnFixed, HasHome: true, Home: a}
	m.OnKnightDeath(fixed, []*Player{fixed}, clock.NewRNG(1))
	if fixed.Home != a {
		t.Fatalf("fixed-respawn player's home should not change on death")
	}

	roaming := &Player{ID: 2, RespawnType: RespawnDifferentEveryTime, HasHome: true, Home: a}
	m.OnKnightDeath(roaming, []*Player{roaming}, clock.NewRNG(1))
	if !roaming.HasHome {
		t.Fatalf("roaming player should still have a home after death re-roll")
	}
}
