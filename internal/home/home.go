// Package home implements HomeManager (spec.md §4.7): registration of
// home squares, securing ("Wand of Securing"), and the re-homing pass
// that runs after every secure and every knight death.
//
// Grounded on original_source/src/engine/impl/home_manager.hpp — the
// HomeLocation key (map + the tile-outside-home coordinate + facing,
// though facing is not part of the comparison), the homes map whose
// value means unsecured (nil/zero), secured-by-one-team (a player),
// or secured-by-both (entry absent entirely and the square is now a
// wall), and the onKnightDeath re-roll for DifferentEveryTime respawn.
package home

import (
	"github.com/knights-server/engine/internal/clock"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/ids"
)

// TeamID groups players for the "secured by a teammate" / "secured by
// the other team" distinction spec.md §4.7 draws.
type TeamID int

// RespawnType controls onKnightDeath's re-homing behaviour.
type RespawnType uint8

const (
	RespawnFixed RespawnType = iota
	RespawnDifferentEveryTime
)

// Player is the minimal view of a connected player HomeManager needs:
// team membership, respawn policy, and their currently assigned home.
type Player struct {
	ID          ids.PlayerID
	Team        TeamID
	RespawnType RespawnType

	HasHome bool
	Home    HomeLocation
}

// HomeLocation is the tile one outside a home, and the facing
// pointing towards it (original's HomeLocation). Facing is carried
// for use by callers (e.g. to re-place the knight) but, matching the
// original's operator<, does not participate in map-key comparison
// beyond what MapID/Pos already disambiguate.
type HomeLocation struct {
	MapID  ids.MapID
	Pos    geom.MapCoord
	Facing geom.MapDirection
}

type homeState struct {
	secured bool
	owner   ids.PlayerID
}

// SecureResult is the outcome of a SecureHome attempt.
type SecureResult int

const (
	SecureSuccess SecureResult = iota
	SecureFailedNotAHome
	SecureFailedSpecialExit
	SecureFailedAlreadySecure
)

// Manager owns the home registry for a single game (spec.md assumes
// all homes live in one DungeonMap, per the original).
type Manager struct {
	homes        map[HomeLocation]*homeState
	specialExits map[HomeLocation]bool
}

func NewManager() *Manager {
	return &Manager{
		homes:        make(map[HomeLocation]*homeState),
		specialExits: make(map[HomeLocation]bool),
	}
}

// AddHome registers a home. special marks it as a special exit: never
// securable, used for e.g. victory-condition squares.
func (m *Manager) AddHome(loc HomeLocation, special bool) {
	if special {
		m.specialExits[loc] = true
		return
	}
	m.homes[loc] = &homeState{}
}

// IsSecurableHome reports whether loc is a home not currently secured
// by playerID (spec.md §4.7's is_securable_home — a coarse check used
// for client highlighting; SecureHome re-derives the authoritative
// teammate/enemy distinction).
func (m *Manager) IsSecurableHome(playerID ids.PlayerID, loc HomeLocation) bool {
	if m.specialExits[loc] {
		return false
	}
	st, ok := m.homes[loc]
	if !ok {
		return false
	}
	return !st.secured || st.owner != playerID
}

// teamOf looks up a player's team from the roster passed to SecureHome
// / the re-homing pass; used for the teammate/enemy distinction.
func teamOf(roster []*Player, id ids.PlayerID) (TeamID, bool) {
	for _, p := range roster {
		if p.ID == id {
			return p.Team, true
		}
	}
	return 0, false
}

// SecureHome attempts to secure loc for actor. roster is every
// currently-connected player (needed for the teammate check and the
// subsequent re-homing pass). setColour is invoked on success to push
// the "owned by" colour change onto the home tile at loc;
// replaceWithWall is invoked when the home becomes a wall (secured by
// both teams) and receives only loc.
func (m *Manager) SecureHome(
	actor *Player,
	loc HomeLocation,
	roster []*Player,
	rng *clock.RNG,
	setColour func(loc HomeLocation, cc dungeon.ColourChange),
	replaceWithWall func(loc HomeLocation),
	colourFor func(ids.PlayerID) dungeon.ColourChange,
) SecureResult {
	if m.specialExits[loc] {
		return SecureFailedSpecialExit
	}
	st, ok := m.homes[loc]
	if !ok {
		return SecureFailedNotAHome
	}

	if st.secured {
		if st.owner == actor.ID {
			return SecureFailedAlreadySecure
		}
		if ownerTeam, ok := teamOf(roster, st.owner); ok && ownerTeam == actor.Team {
			return SecureFailedAlreadySecure
		}
		// Secured by the other team: this home is now contested by
		// both teams and becomes a permanent wall.
		delete(m.homes, loc)
		if replaceWithWall != nil {
			replaceWithWall(loc)
		}
	} else {
		st.secured = true
		st.owner = actor.ID
		if setColour != nil {
			setColour(loc, colourFor(actor.ID))
		}
	}

	m.rehome(roster, rng)
	return SecureSuccess
}

// rehome reassigns any player whose current home is no longer theirs
// to secure (walled, or secured by a different team) — spec.md §4.7
// step 5.
func (m *Manager) rehome(roster []*Player, rng *clock.RNG) {
	for _, p := range roster {
		if !p.HasHome {
			continue
		}
		st, ok := m.homes[p.Home]
		stillValid := ok && (!st.secured || teamMatches(roster, st.owner, p.Team))
		if stillValid {
			continue
		}
		if loc, ok := m.randomHomeFor(p, roster, rng); ok {
			p.Home = loc
			p.HasHome = true
		} else {
			p.HasHome = false
		}
	}
}

func teamMatches(roster []*Player, owner ids.PlayerID, team TeamID) bool {
	t, ok := teamOf(roster, owner)
	return ok && t == team
}

// randomHomeFor picks uniformly among homes that are unsecured or
// secured by the player's own team.
func (m *Manager) randomHomeFor(p *Player, roster []*Player, rng *clock.RNG) (HomeLocation, bool) {
	var candidates []HomeLocation
	for loc, st := range m.homes {
		if !st.secured || st.owner == p.ID || teamMatches(roster, st.owner, p.Team) {
			candidates = append(candidates, loc)
		}
	}
	if len(candidates) == 0 {
		return HomeLocation{}, false
	}
	idx := rng.Int(0, len(candidates))
	return candidates[idx], true
}

// OnKnightDeath re-rolls p's home if their respawn policy demands it
// (spec.md §4.7).
func (m *Manager) OnKnightDeath(p *Player, roster []*Player, rng *clock.RNG) {
	if p.RespawnType != RespawnDifferentEveryTime {
		return
	}
	if loc, ok := m.randomHomeFor(p, roster, rng); ok {
		p.Home = loc
		p.HasHome = true
	}
}
