package lobby

import (
	"github.com/knights-server/engine/internal/protocol"
)

// Broadcaster is anything a handler can push an encoded message to
// (a netio.Conn's Send, or a fan-out across a Game's membership). Kept
// minimal and decoupled from netio so this package never imports it.
type Broadcaster interface {
	Send(data []byte)
}

// Session is the per-connection context a handler needs: which
// connection sent the message, which game (if any) it has joined, and
// its assigned PlayerID within that game.
type Session struct {
	Conn     Broadcaster
	Game     *Game
	PlayerID PlayerID
}

func encode(msg interface{ Encode(*protocol.Writer) }) []byte {
	w := protocol.NewWriter()
	msg.Encode(w)
	return w.Bytes()
}

// RegisterHandlers wires every lobby/game-menu/chat/voting tag this
// package owns onto reg, gated to the connection states spec.md
// §4.11's state diagram allows each message in.
func RegisterHandlers(reg *protocol.Registry, lobby *Lobby, sessionFor func(any) *Session) {
	reg.Register(protocol.TagJoinGame, []protocol.ConnectionState{protocol.StateInLobby}, func(sess any, r *protocol.Reader) {
		msg, err := protocol.DecodeJoinGame(r)
		if err != nil {
			return
		}
		s := sessionFor(sess)
		game, ok := lobby.Get(msg.GameName)
		if !ok {
			resp := protocol.JoinDenied{Reason: "no such game"}
			s.Conn.Send(encode(&resp))
			return
		}
		p := game.Join("", msg.AsObserver, s.Conn)
		s.Game = game
		s.PlayerID = p.ID

		ids, ready, houses, obsIDs := game.Roster()
		u16ids := make([]uint16, len(ids))
		for i, id := range ids {
			u16ids[i] = uint16(id)
		}
		u16obs := make([]uint16, len(obsIDs))
		for i, id := range obsIDs {
			u16obs[i] = uint16(id)
		}
		accepted := protocol.JoinAccepted{
			Menu:           game.Menu,
			HouseColour:    p.HouseColour,
			PlayerIDs:      u16ids,
			Ready:          ready,
			HouseColours:   houses,
			ObserverIDs:    u16obs,
			AlreadyStarted: game.started,
		}
		s.Conn.Send(encode(&accepted))
	})

	reg.Register(protocol.TagSetReady, []protocol.ConnectionState{protocol.StateInGameMenu}, func(sess any, r *protocol.Reader) {
		msg, err := protocol.DecodeSetReady(r)
		if err != nil {
			return
		}
		s := sessionFor(sess)
		if s.Game == nil {
			return
		}
		s.Game.SetReady(s.PlayerID, msg.Ready)
	})

	reg.Register(protocol.TagSetObsFlag, []protocol.ConnectionState{protocol.StateInGameMenu}, func(sess any, r *protocol.Reader) {
		msg, err := protocol.DecodeSetObsFlag(r)
		if err != nil {
			return
		}
		s := sessionFor(sess)
		if s.Game == nil {
			return
		}
		s.Game.SetObserver(s.PlayerID, msg.Observer)
	})

	reg.Register(protocol.TagSetHouseColour, []protocol.ConnectionState{protocol.StateInGameMenu}, func(sess any, r *protocol.Reader) {
		msg, err := protocol.DecodeSetHouseColour(r)
		if err != nil {
			return
		}
		s := sessionFor(sess)
		if s.Game == nil {
			return
		}
		s.Game.SetHouseColour(s.PlayerID, msg.Colour)
	})

	reg.Register(protocol.TagSetMenuSelectionCli, []protocol.ConnectionState{protocol.StateInGameMenu}, func(sess any, r *protocol.Reader) {
		msg, err := protocol.DecodeSetMenuSelectionClient(r)
		if err != nil {
			return
		}
		s := sessionFor(sess)
		if s.Game == nil {
			return
		}
		allowed, ok := s.Game.ApplyMenuSelection(msg.ItemIndex, msg.Choice)
		if !ok {
			return
		}
		resp := protocol.SetMenuSelectionServer{ItemIndex: msg.ItemIndex, Choice: msg.Choice, Allowed: allowed}
		s.Game.Broadcast(encode(&resp))
	})

	reg.Register(protocol.TagChatFromClient, []protocol.ConnectionState{protocol.StateInLobby, protocol.StateInGameMenu, protocol.StateInGame}, func(sess any, r *protocol.Reader) {
		msg, err := protocol.DecodeChatFromClient(r)
		if err != nil {
			return
		}
		s := sessionFor(sess)
		if s.Game == nil {
			return
		}
		resp := protocol.Chat{From: uint16(s.PlayerID), Team: msg.Team, Text: msg.Text}
		s.Game.Broadcast(encode(&resp))
	})

	reg.Register(protocol.TagVoteToRestart, []protocol.ConnectionState{protocol.StateInGame, protocol.StateInGameMenu}, func(sess any, r *protocol.Reader) {
		msg, err := protocol.DecodeVoteToRestart(r)
		if err != nil {
			return
		}
		s := sessionFor(sess)
		if s.Game == nil {
			return
		}
		moreNeeded, reached := s.Game.Vote(s.PlayerID, msg.Flags)
		flags := msg.Flags
		if reached {
			flags |= protocol.VoteFlagGameEnding
		}
		resp := protocol.VotedToRestart{PlayerID: uint16(s.PlayerID), Flags: flags, MoreNeeded: moreNeeded}
		s.Conn.Send(encode(&resp))
	})
}
