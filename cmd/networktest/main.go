// Command networktest is a headless connectivity-test client: it
// dials a running knightsd, drives the join/ready/start handshake
// automatically, and logs every message it decodes off the wire. It
// has no graphical view of its own — spec.md §1 puts rendering out of
// scope — so it stands in for the real client during protocol and
// server smoke-testing.
//
// Grounded on original_source/src/network_test/network_test.cpp: that
// tool auto-joins "Game 1", sets itself ready as soon as join is
// accepted, and logs every callback it receives. This rewrites the
// same sequence against internal/protocol's Go codec instead of
// KnightsClient's C++ callback interface.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/knights-server/engine/internal/clientview"
	"github.com/knights-server/engine/internal/protocol"
)

func main() {
	host := flag.String("host", "localhost", "server hostname")
	port := flag.Int("port", 16399, "server port")
	gameName := flag.String("game", "Game 1", "name of the game to auto-join")
	observer := flag.Bool("observer", false, "join as an observer instead of a player")
	flag.Parse()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	logf("connecting to %s", addr)

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	c := &testClient{
		conn:    conn,
		entities: clientview.NewEntityMap(),
		game:    *gameName,
		asObs:   *observer,
	}
	c.run()
}

func logf(format string, args ...any) {
	log.Printf(format, args...)
}

// testClient mirrors network_test.cpp's TestClientCallbacks: it tracks
// just enough state (join_game_accepted / game_started, here
// joinAccepted / gameStarted) to drive the auto-sequence, and logs
// every other message it decodes.
type testClient struct {
	conn net.Conn

	entities *clientview.EntityMap

	game  string
	asObs bool

	joinSent     bool
	joinAccepted bool
	gameStarted  bool
}

func (c *testClient) run() {
	for {
		payload, err := protocol.ReadFrame(c.conn)
		if err != nil {
			logf("<connection closed: %v>", err)
			return
		}
		c.dispatch(payload)
		c.sendIfRequired()
	}
}

// send encodes and writes one client->server message, logging (not
// fatally aborting) a write failure so the read loop's own error
// reports the disconnect.
func (c *testClient) send(msg interface{ Encode(*protocol.Writer) }) {
	w := protocol.NewWriter()
	msg.Encode(w)
	if err := protocol.WriteFrame(c.conn, w.Bytes()); err != nil {
		logf("send failed: %v", err)
	}
}

// sendIfRequired mirrors SendMessagesIfRequired's state machine: join
// once, ready up once join is accepted, nothing further once the game
// has started (spec.md has no "finished loading" handshake message,
// since there is no graphical asset load to wait for here).
func (c *testClient) sendIfRequired() {
	if !c.joinSent {
		c.joinSent = true
		logf("-> join_game %q (observer=%v)", c.game, c.asObs)
		c.send(&protocol.JoinGame{GameName: c.game, AsObserver: c.asObs})
		return
	}
	if c.joinAccepted {
		c.joinAccepted = false
		logf("-> set_ready true")
		c.send(&protocol.SetReady{Ready: true})
		return
	}
	if c.gameStarted {
		c.gameStarted = false
		logf("(game running, watching dungeon-view stream)")
	}
}

func (c *testClient) dispatch(payload []byte) {
	r := protocol.NewReader(payload)
	tag, err := r.Tag()
	if err != nil {
		logf("short frame: %v", err)
		return
	}

	switch protocol.Tag(tag) {
	case protocol.TagConnectionAccepted:
		m, _ := protocol.DecodeConnectionAccepted(r)
		logf("connection accepted, server version %d", m.ServerVersion)
	case protocol.TagConnectionFailed:
		m, _ := protocol.DecodeConnectionFailed(r)
		logf("connection failed: %s", m.Reason)

	case protocol.TagUpdateGame:
		m, _ := protocol.DecodeUpdateGame(r)
		logf("update_game: %q players=%d observers=%d status=%s", m.Name, m.NumPlayers, m.NumObservers, m.Status)
	case protocol.TagDropGame:
		m, _ := protocol.DecodeDropGame(r)
		logf("drop_game: %q", m.Name)
	case protocol.TagUpdatePlayer:
		logf("update_player")
	case protocol.TagPlayerConnected:
		logf("player_connected")
	case protocol.TagPlayerDisconnected:
		logf("player_disconnected")
	case protocol.TagChat:
		m, _ := protocol.DecodeChat(r)
		logf("chat from=%d observer=%v team=%v: %s", m.From, m.Observer, m.Team, m.Text)
	case protocol.TagAnnouncement:
		logf("announcement")
	case protocol.TagPlayerList:
		logf("player_list")
	case protocol.TagSetTimeRemaining:
		logf("set_time_remaining")
	case protocol.TagPlayerReadyToEnd:
		logf("player_ready_to_end")
	case protocol.TagVotedToRestart:
		m, _ := protocol.DecodeVotedToRestart(r)
		logf("voted_to_restart: player=%d flags=%d more_needed=%d", m.PlayerID, m.Flags, m.MoreNeeded)

	case protocol.TagJoinAccepted:
		m, _ := protocol.DecodeJoinAccepted(r)
		logf("join_accepted: house=%d players=%v observers=%v already_started=%v",
			m.HouseColour, m.PlayerIDs, m.ObserverIDs, m.AlreadyStarted)
		c.joinAccepted = !m.AlreadyStarted
	case protocol.TagJoinDenied:
		m, _ := protocol.DecodeJoinDenied(r)
		logf("join_denied: %s", m.Reason)
	case protocol.TagLoadGraphic:
		logf("load_graphic")
	case protocol.TagSetMenuSelectionSvr:
		m, _ := protocol.DecodeSetMenuSelectionServer(r)
		logf("set_menu_selection: item=%d choice=%d allowed=%v", m.ItemIndex, m.Choice, m.Allowed)
	case protocol.TagSetQuestDescription:
		logf("set_quest_description")

	case protocol.TagStartGame:
		logf("start_game")
		c.gameStarted = true

	case protocol.TagDViewSetCurrentRoom:
		m, _ := protocol.DecodeDViewSetCurrentRoom(r)
		logf("dview: set_current_room room=%d size=%dx%d", m.RoomID, m.Width, m.Height)
	case protocol.TagDViewAddEntity:
		m, _ := protocol.DecodeDViewAddEntity(r)
		now := time.Now().UnixMicro()
		c.entities.AddEntity(m.ID, m.X, m.Y, m.Height, m.Facing, m.CurOfs, now,
			clientview.MotionKind(m.MotionKind), int64(m.MotionTimeRemainingMs)*1000)
		logf("dview: add_entity id=%d pos=(%d,%d) height=%d facing=%d player=%d", m.ID, m.X, m.Y, m.Height, m.Facing, m.PlayerID)
	case protocol.TagDViewRmEntity:
		m, _ := protocol.DecodeDViewRmEntity(r)
		c.entities.RmEntity(m.ID)
		logf("dview: rm_entity id=%d", m.ID)
	case protocol.TagDViewRepositionEntity:
		m, _ := protocol.DecodeDViewRepositionEntity(r)
		c.entities.Reposition(m.ID, m.X, m.Y)
		logf("dview: reposition id=%d pos=(%d,%d)", m.ID, m.X, m.Y)
	case protocol.TagDViewMoveEntity:
		m, _ := protocol.DecodeDViewMoveEntity(r)
		now := time.Now().UnixMicro()
		c.entities.Move(m.ID, now, clientview.MotionKind(m.Kind), int64(m.DurationMs)*1000, 0, m.Missile)
		logf("dview: move_entity id=%d kind=%d duration_ms=%d missile=%v", m.ID, m.Kind, m.DurationMs, m.Missile)
	case protocol.TagDViewFlipEntityMotion:
		m, _ := protocol.DecodeDViewFlipEntityMotion(r)
		now := time.Now().UnixMicro()
		c.entities.FlipEntityMotion(m.ID, now, int64(m.InitialDelayMs)*1000, int64(m.DurationMs)*1000)
		logf("dview: flip_entity_motion id=%d", m.ID)
	case protocol.TagDViewSetAnimData:
		logf("dview: set_anim_data")
	case protocol.TagDViewSetFacing:
		m, _ := protocol.DecodeDViewSetFacing(r)
		c.entities.SetFacing(m.ID, m.Facing)
		logf("dview: set_facing id=%d facing=%d", m.ID, m.Facing)
	case protocol.TagDViewSetSpeechBubble:
		logf("dview: set_speech_bubble")
	case protocol.TagDViewClearTiles:
		logf("dview: clear_tiles")
	case protocol.TagDViewSetTile:
		logf("dview: set_tile")
	case protocol.TagDViewSetItem:
		logf("dview: set_item")
	case protocol.TagDViewPlaceIcon:
		logf("dview: place_icon")
	case protocol.TagDViewFlashMessage:
		m, _ := protocol.DecodeDViewFlashMessage(r)
		logf("dview: flash_message: %s", m.Text)
	case protocol.TagDViewCancelContinuous:
		logf("dview: cancel_continuous_messages")
	case protocol.TagDViewAddContinuousMsg:
		m, _ := protocol.DecodeDViewAddContinuousMessage(r)
		logf("dview: add_continuous_message: %s", m.Text)

	case protocol.TagMiniMapSetSize:
		logf("map: set_size")
	case protocol.TagMiniMapSetColour:
		logf("map: set_colour")
	case protocol.TagMiniMapWipe:
		logf("map: wipe")
	case protocol.TagMiniMapKnightLocation:
		logf("map: knight_location")
	case protocol.TagMiniMapItemLocation:
		logf("map: item_location")

	case protocol.TagStatusSetBackpack:
		logf("status: set_backpack")
	case protocol.TagStatusAddSkull:
		logf("status: add_skull")
	case protocol.TagStatusSetHealth:
		m, _ := protocol.DecodeStatusSetHealth(r)
		logf("status: set_health: %d", m.Health)
	case protocol.TagStatusSetPotionMagic:
		logf("status: set_potion_magic")
	case protocol.TagStatusSetQuestHints:
		m, _ := protocol.DecodeStatusSetQuestHints(r)
		logf("status: set_quest_hints: %v", m.Lines)

	default:
		logf("unrecognised tag 0x%02x, %d bytes", tag, r.Remaining())
	}
}
