// Package lobby holds the state that lives behind spec.md §4.11's
// connection state machine: the list of open games, each game's live
// Menu and player roster, chat fan-out, and restart voting. The state
// machine itself (tag <-> handler dispatch gated by connection state)
// is internal/protocol's Registry; this package supplies the handlers
// and the data they mutate.
package lobby

import (
	"sort"
	"sync"

	"github.com/knights-server/engine/internal/protocol"
)

// PlayerID is a per-connection identifier, stable for the lifetime of
// a Game membership (spec.md §4.11's join_accepted roster, §6's
// set_player_id).
type PlayerID uint16

// Player is one connection's membership record within a Game.
type Player struct {
	ID          PlayerID
	Name        string
	Observer    bool
	Ready       bool
	HouseColour int32
	Team        bool
	Conn        Broadcaster
}

// GameStatus mirrors the three states a listed game can be in for the
// lobby's update_game broadcasts.
type GameStatus int

const (
	GameWaiting GameStatus = iota
	GameInProgress
	GameEnded
)

// Game is one lobby entry: its configuration Menu, connected players
// and observers, and restart-vote accumulator.
type Game struct {
	Name   string
	Menu   protocol.Menu
	Status GameStatus

	mu      sync.Mutex
	players map[PlayerID]*Player
	nextID  PlayerID
	votes   map[PlayerID]uint8
	started bool
}

func NewGame(name string, menu protocol.Menu) *Game {
	return &Game{
		Name:    name,
		Menu:    menu,
		players: make(map[PlayerID]*Player),
		votes:   make(map[PlayerID]uint8),
	}
}

// Join adds a new player or observer, assigning the next free
// PlayerID (spec.md §4.11's join_accepted). conn is kept so the
// lobby's chat/announcement fan-out can reach this member directly.
func (g *Game) Join(name string, observer bool, conn Broadcaster) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	p := &Player{ID: g.nextID, Name: name, Observer: observer, Conn: conn}
	g.players[p.ID] = p
	return p
}

func (g *Game) Leave(id PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.players, id)
	delete(g.votes, id)
}

// Broadcast sends data to every current member of g, player and
// observer alike (spec.md §6's chat fan-out).
func (g *Game) Broadcast(data []byte) {
	g.mu.Lock()
	members := make([]Broadcaster, 0, len(g.players))
	for _, p := range g.players {
		if p.Conn != nil {
			members = append(members, p.Conn)
		}
	}
	g.mu.Unlock()
	for _, conn := range members {
		conn.Send(data)
	}
}

func (g *Game) SetReady(id PlayerID, ready bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok {
		p.Ready = ready
	}
}

func (g *Game) SetObserver(id PlayerID, observer bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok {
		p.Observer = observer
	}
}

func (g *Game) SetHouseColour(id PlayerID, colour int32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.players[id]; ok {
		p.HouseColour = colour
	}
}

// Counts returns the number of non-observer players and the number of
// observers, for update_game's n_players/n_observers fields.
func (g *Game) Counts() (players, observers int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.players {
		if p.Observer {
			observers++
		} else {
			players++
		}
	}
	return
}

// AllReady reports whether every non-observer player is ready, the
// condition that allows a start_game broadcast.
func (g *Game) AllReady() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	any := false
	for _, p := range g.players {
		if p.Observer {
			continue
		}
		any = true
		if !p.Ready {
			return false
		}
	}
	return any
}

// Roster returns the join_accepted-shaped player and observer ID
// lists, sorted by ID for deterministic wire output.
func (g *Game) Roster() (ids []PlayerID, ready []bool, houses []int32, observerIDs []PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.players {
		if p.Observer {
			observerIDs = append(observerIDs, p.ID)
			continue
		}
		ids = append(ids, p.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	sort.Slice(observerIDs, func(i, j int) bool { return observerIDs[i] < observerIDs[j] })
	for _, id := range ids {
		p := g.players[id]
		ready = append(ready, p.Ready)
		houses = append(houses, p.HouseColour)
	}
	return
}

// Vote registers or retracts a player's vote_to_restart flags
// (VF_VOTE set means "voting", clear means "cancelling") and reports
// whether the threshold — a strict majority of currently-connected
// non-observer players, recomputed here against the live roster — has
// now been reached.
func (g *Game) Vote(id PlayerID, flags uint8) (moreNeeded int, thresholdReached bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if flags&protocol.VoteFlagVote != 0 {
		g.votes[id] = flags
	} else {
		delete(g.votes, id)
	}

	connected := 0
	for _, p := range g.players {
		if !p.Observer {
			connected++
		}
	}
	needed := connected/2 + 1 // smallest n with n*2 > connected
	moreNeeded = needed - len(g.votes)
	if moreNeeded < 0 {
		moreNeeded = 0
	}
	return moreNeeded, len(g.votes)*2 > connected
}

// ApplyMenuSelection validates choice for menu item i and returns the
// set of values allowed there: every index of a dropdown, or the
// singleton {choice} for a numeric field. The choice itself is not
// stored on the Menu.
func (g *Game) ApplyMenuSelection(item, choice int) (allowed []int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if item < 0 || item >= len(g.Menu.Items) {
		return nil, false
	}
	mi := &g.Menu.Items[item]
	if mi.Numeric {
		limit := 1
		for d := 0; d < mi.Digits; d++ {
			limit *= 10
		}
		if choice < 0 || choice >= limit {
			return nil, false
		}
		return []int{choice}, true
	}
	if choice < 0 || choice >= len(mi.Strings) {
		return nil, false
	}
	allowed = make([]int, len(mi.Strings))
	for i := range mi.Strings {
		allowed[i] = i
	}
	return allowed, true
}

// MarkStarted flips the game into IN_GAME, recorded so a late
// join_game (an observer joining mid-match) gets AlreadyStarted set in
// its join_accepted response.
func (g *Game) MarkStarted() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.started = true
	g.Status = GameInProgress
}

// Lobby is the set of currently listed games.
type Lobby struct {
	mu    sync.Mutex
	games map[string]*Game
}

func New() *Lobby {
	return &Lobby{games: make(map[string]*Game)}
}

func (l *Lobby) Add(g *Game) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.games[g.Name] = g
}

func (l *Lobby) Remove(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.games, name)
}

func (l *Lobby) Get(name string) (*Game, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.games[name]
	return g, ok
}

// List returns every listed game's current update_game fields, sorted
// by name for deterministic broadcast order.
func (l *Lobby) List() []protocol.UpdateGame {
	l.mu.Lock()
	names := make([]string, 0, len(l.games))
	for name := range l.games {
		names = append(names, name)
	}
	l.mu.Unlock()
	sort.Strings(names)

	out := make([]protocol.UpdateGame, 0, len(names))
	for _, name := range names {
		g, ok := l.Get(name)
		if !ok {
			continue
		}
		players, observers := g.Counts()
		out = append(out, protocol.UpdateGame{
			Name:         g.Name,
			NumPlayers:   players,
			NumObservers: observers,
			Status:       statusString(g.Status),
		})
	}
	return out
}

func statusString(s GameStatus) string {
	switch s {
	case GameWaiting:
		return "waiting"
	case GameInProgress:
		return "in progress"
	case GameEnded:
		return "ended"
	default:
		return "unknown"
	}
}
