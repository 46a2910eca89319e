// Command knightsd is the Knights server process: it listens for
// client connections, serves the lobby/game-menu protocol, and runs
// one engine.Engine per started game.
//
// Wiring order follows cmd/l1jgo/main.go's run(): load config, build
// the logger, connect to PostgreSQL and migrate, build repositories,
// load game data, bring up the network layer, then enter the tick
// loop with signal-triggered graceful shutdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/knights-server/engine/internal/action"
	"github.com/knights-server/engine/internal/config"
	"github.com/knights-server/engine/internal/dungeon"
	"github.com/knights-server/engine/internal/dungeonfile"
	"github.com/knights-server/engine/internal/engine"
	"github.com/knights-server/engine/internal/geom"
	"github.com/knights-server/engine/internal/home"
	"github.com/knights-server/engine/internal/ids"
	"github.com/knights-server/engine/internal/lobby"
	"github.com/knights-server/engine/internal/logging"
	"github.com/knights-server/engine/internal/netio"
	"github.com/knights-server/engine/internal/persist"
	"github.com/knights-server/engine/internal/protocol"
	"github.com/knights-server/engine/internal/scripting"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  +-------------------------------------------+\033[0m")
	fmt.Println("\033[36;1m  |\033[0m              KNIGHTS  v0.1.0               \033[36;1m|\033[0m")
	fmt.Println("\033[36;1m  |\033[0m     dungeon-crawl game server (Go)          \033[36;1m|\033[0m")
	fmt.Println("\033[36;1m  +-------------------------------------------+\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m-- %s %s\033[0m\n", title, strings.Repeat("-", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat(".", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m+\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m>\033[0m %s\n", msg)
}

// ── Main server logic ──────────────────────────────────────────────

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("KNIGHTS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(logging.Config{Level: cfg.Logging.Level, Encoding: cfg.Logging.Encoding})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	printSection("database")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("connected to postgres")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	playerRepo := persist.NewPlayerRepo(db)
	gameResultRepo := persist.NewGameResultRepo(db, playerRepo)
	replayRepo := persist.NewReplayRepo(db)
	recorder := &engine.Recorder{Players: playerRepo, Games: gameResultRepo, Replay: replayRepo}

	printSection("game data")
	gameConfig, err := dungeonfile.Load(cfg.Server.DungeonFile)
	if err != nil {
		return fmt.Errorf("load dungeon file: %w", err)
	}
	printStat("item types", len(gameConfig.Items))
	printStat("monster species", len(gameConfig.Monsters))
	printStat("tile prototypes", len(gameConfig.Tiles))
	printStat("quests", len(gameConfig.Quests))

	scripts, err := scripting.NewEngine(cfg.Scripting.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting engine: %w", err)
	}
	printOK("scripting fragments loaded")
	fmt.Println()

	srv := newGameServer(cfg, gameConfig, scripts, recorder, log)

	pktReg := protocol.NewRegistry(log)
	lobby.RegisterHandlers(pktReg, srv.lobby, srv.sessionFor)
	srv.registerStartGameVote(pktReg)

	netServer, err := netio.NewServer(cfg.Network.BindAddress, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.AcceptLoop()
	go srv.acceptSessions(netServer, pktReg)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickInterval)
	defer ticker.Stop()

	printSection("server ready")
	printReady(fmt.Sprintf("listening on %s", netServer.Addr().String()))
	printReady(fmt.Sprintf("game tick: %s", cfg.Network.TickInterval))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			srv.tickGames(cfg.Network.TickInterval)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			srv.finishAllGames(context.Background())
			netServer.Shutdown()
			log.Info("server stopped")
			return nil
		}
	}
}

// gameServer holds the lobby and the set of running engines it has
// started games on, plus the connection <-> lobby.Session bookkeeping
// the protocol registry's handlers need.
type gameServer struct {
	cfg        *config.Config
	gameConfig *dungeonfile.GameConfig
	scripts    *scripting.Engine
	recorder   *engine.Recorder
	log        *zap.Logger

	lobby *lobby.Lobby

	mu       sync.Mutex
	sessions map[uint64]*lobby.Session
	games    map[string]*engine.Engine
}

func newGameServer(cfg *config.Config, gc *dungeonfile.GameConfig, scripts *scripting.Engine, rec *engine.Recorder, log *zap.Logger) *gameServer {
	s := &gameServer{
		cfg: cfg, gameConfig: gc, scripts: scripts, recorder: rec, log: log,
		lobby:    lobby.New(),
		sessions: make(map[uint64]*lobby.Session),
		games:    make(map[string]*engine.Engine),
	}
	s.lobby.Add(lobby.NewGame("Crypt of Shadows", protocol.Menu{Title: "Game Options"}))
	return s
}

// sessionFor resolves the opaque `any` the protocol registry passes
// handlers back into this connection's lobby.Session, creating one on
// first use.
func (s *gameServer) sessionFor(sess any) *lobby.Session {
	c := sess.(*netio.Conn)
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.sessions[c.ID]
	if !ok {
		sc = &lobby.Session{Conn: c}
		s.sessions[c.ID] = sc
	}
	return sc
}

// registerStartGameVote replaces the set_ready handler that
// lobby.RegisterHandlers installed (Registry.Register overwrites by
// tag) with one that records the ready flag and then, once AllReady
// reports every non-observer player in the game ready, starts the game
// (spec.md's start_game transition, IN_GAME_MENU -> IN_GAME).
func (s *gameServer) registerStartGameVote(reg *protocol.Registry) {
	reg.Register(protocol.TagSetReady, []protocol.ConnectionState{protocol.StateInGameMenu}, func(sess any, r *protocol.Reader) {
		msg, err := protocol.DecodeSetReady(r)
		if err != nil {
			return
		}
		sc := s.sessionFor(sess)
		if sc.Game == nil {
			return
		}
		sc.Game.SetReady(sc.PlayerID, msg.Ready)
		if sc.Game.AllReady() {
			s.startGame(sc.Game)
		}
	})
}

// startGame constructs an Engine for g, joins every current
// non-observer member as a knight, and flips each joined player's
// connection into StateInGame; observers' connections are not changed.
func (s *gameServer) startGame(g *lobby.Game) {
	s.mu.Lock()
	if _, already := s.games[g.Name]; already {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	opts := engine.Options{
		MapID:               ids.MapID(1),
		Width:               40,
		Height:              24,
		RNGSeed:             uint64(time.Now().UnixNano()),
		GVTMillisPerTick:    int32(s.cfg.Network.TickInterval.Milliseconds()),
		MoveMillisPerSquare: 250,
		QuestKey:            g.Name,
	}
	e := engine.New(opts, s.gameConfig, s.scripts, s.log)
	buildDemoDungeon(e)
	e.Start()
	g.MarkStarted()

	seatIDs, _, houses, _ := g.Roster()
	spawns := spawnPoints(len(seatIDs))
	for i, pid := range seatIDs {
		s.mu.Lock()
		var sink *netio.Conn
		for _, sc := range s.sessions {
			if sc.Game == g && sc.PlayerID == pid {
				sink = sc.Conn.(*netio.Conn)
			}
		}
		s.mu.Unlock()
		if sink == nil {
			continue
		}
		team := home.TeamID(0)
		if i%2 == 1 {
			team = home.TeamID(1)
		}
		e.Join(toPlayerID(pid), houses[i], team, spawns[i%len(spawns)], home.RespawnFixed, sink)
		sink.SetState(protocol.StateInGame)
		sink.Send(encodeMsg(&protocol.StartGame{}))
	}

	s.mu.Lock()
	s.games[g.Name] = e
	s.mu.Unlock()
}

func toPlayerID(p lobby.PlayerID) ids.PlayerID { return ids.PlayerID(p) }

func encodeMsg(msg interface{ Encode(*protocol.Writer) }) []byte {
	w := protocol.NewWriter()
	msg.Encode(w)
	return w.Bytes()
}

// spawnPoints returns n distinct starting squares inside the demo
// dungeon's single room, one per seat.
func spawnPoints(n int) []geom.MapCoord {
	if n < 1 {
		n = 1
	}
	out := make([]geom.MapCoord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, geom.MapCoord{X: int16(3 + i), Y: 3})
	}
	return out
}

// buildDemoDungeon lays out a single rectangular room ringed by walls
// with two home squares, one per team. Authoring a full level layout
// format is the same out-of-scope boundary as the menu/quest scripting
// DSL (spec.md §1's Non-goals) — this is the minimal playable shell a
// loaded GameConfig's catalogues run inside.
func buildDemoDungeon(e *engine.Engine) {
	const w, h = 40, 24
	floor := [3]geom.MapAccess{geom.AccessClear, geom.AccessClear, geom.AccessClear}
	wallAccess := [3]geom.MapAccess{geom.AccessBlocked, geom.AccessBlocked, geom.AccessBlocked}

	noOrigin := action.Originator{}
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			pos := geom.MapCoord{X: x, Y: y}
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				wall := dungeon.NewPlainTile(0, 0, wallAccess, false, false, false)
				e.DMap.AddTile(pos, wall, noOrigin)
				continue
			}
			tile := dungeon.NewPlainTile(1, 0, floor, false, false, true)
			e.DMap.AddTile(pos, tile, noOrigin)
		}
	}
	e.Rooms.AddRoom(geom.MapCoord{X: 0, Y: 0}, w, h)

	homeA := home.HomeLocation{MapID: 1, Pos: geom.MapCoord{X: 2, Y: 2}, Facing: geom.South}
	homeB := home.HomeLocation{MapID: 1, Pos: geom.MapCoord{X: w - 3, Y: h - 3}, Facing: geom.North}
	e.AddHome(homeA, false, dungeon.NewHomeTile(2, 0, floor, homeA.Facing, false))
	e.AddHome(homeB, false, dungeon.NewHomeTile(2, 0, floor, homeB.Facing, false))
}

func (s *gameServer) tickGames(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, e := range s.games {
		e.Tick(dt)
		if e.Completed() {
			delete(s.games, name)
		}
	}
}

func (s *gameServer) finishAllGames(ctx context.Context) {
	s.mu.Lock()
	games := make([]*engine.Engine, 0, len(s.games))
	for _, e := range s.games {
		games = append(games, e)
	}
	s.mu.Unlock()
	for _, e := range games {
		if err := s.recorder.Finish(ctx, e, nil); err != nil {
			s.log.Error("finish game on shutdown", zap.Error(err))
		}
	}
}

// acceptSessions greets every newly accepted connection and spawns its
// protocol-dispatch pump. There is no client-version handshake payload
// (spec.md's protocol carries none), so a connection moves straight
// from CONNECTING to IN_LOBBY on accept.
func (s *gameServer) acceptSessions(netServer *netio.Server, pktReg *protocol.Registry) {
	for c := range netServer.NewConns() {
		c.SetState(protocol.StateInLobby)
		c.Send(encodeMsg(&protocol.ConnectionAccepted{ServerVersion: 1}))
		go s.pumpConn(c, pktReg)
	}
}

func (s *gameServer) pumpConn(c *netio.Conn, pktReg *protocol.Registry) {
	defer s.cleanupConn(c)
	for {
		select {
		case frame := <-c.InQueue:
			if err := pktReg.Dispatch(c, c.State(), frame); err != nil {
				s.log.Debug("protocol error, dropping connection", zap.Uint64("conn", c.ID), zap.Error(err))
				c.Close()
				return
			}
			// join_game (handled by lobby.RegisterHandlers) only
			// assigns sc.Game; it has no Conn.SetState, since
			// Broadcaster is deliberately narrower than netio.Conn.
			// Advance IN_LOBBY -> IN_GAME_MENU here once a join has
			// taken effect.
			if c.State() == protocol.StateInLobby {
				if sc := s.sessionFor(c); sc.Game != nil {
					c.SetState(protocol.StateInGameMenu)
				}
			}
		case <-time.After(time.Second):
			if c.IsClosed() {
				return
			}
		}
	}
}

func (s *gameServer) cleanupConn(c *netio.Conn) {
	s.mu.Lock()
	sc, ok := s.sessions[c.ID]
	delete(s.sessions, c.ID)
	s.mu.Unlock()
	if ok && sc.Game != nil {
		sc.Game.Leave(sc.PlayerID)
	}
}

