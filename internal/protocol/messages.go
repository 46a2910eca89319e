package protocol

// This file defines Encode/Decode pairs for a representative slice of
// the tag table in tags.go — one struct per message actually consumed
// by internal/lobby and internal/netio elsewhere in this module. Every
// message's Encode begins by writing its own tag, so a fully-formed
// message produced by Encode is ready to hand straight to WriteFrame.

// ConnectionAccepted is sent once the server has validated the
// client's protocol version (spec.md §4.11's CONNECTING → IN_LOBBY
// transition).
type ConnectionAccepted struct {
	ServerVersion int32
}

func (m *ConnectionAccepted) Encode(w *Writer) {
	w.WriteU8(byte(TagConnectionAccepted))
	w.WriteI32(m.ServerVersion)
}

func DecodeConnectionAccepted(r *Reader) (ConnectionAccepted, error) {
	v, err := r.ReadI32()
	return ConnectionAccepted{ServerVersion: v}, err
}

// ConnectionFailed carries a human-readable reason and drives the
// CONNECTING → FAILED transition.
type ConnectionFailed struct {
	Reason string
}

func (m *ConnectionFailed) Encode(w *Writer) {
	w.WriteU8(byte(TagConnectionFailed))
	w.WriteString(m.Reason)
}

func DecodeConnectionFailed(r *Reader) (ConnectionFailed, error) {
	s, err := r.ReadString()
	return ConnectionFailed{Reason: s}, err
}

// UpdateGame announces a new game or changes to an existing one's
// lobby listing.
type UpdateGame struct {
	Name         string
	NumPlayers   int
	NumObservers int
	Status       string
}

func (m *UpdateGame) Encode(w *Writer) {
	w.WriteU8(byte(TagUpdateGame))
	w.WriteString(m.Name)
	w.WriteVarInt(uint64(m.NumPlayers))
	w.WriteVarInt(uint64(m.NumObservers))
	w.WriteString(m.Status)
}

func DecodeUpdateGame(r *Reader) (UpdateGame, error) {
	var m UpdateGame
	var err error
	if m.Name, err = r.ReadString(); err != nil {
		return UpdateGame{}, err
	}
	n, err := r.ReadVarInt()
	if err != nil {
		return UpdateGame{}, err
	}
	m.NumPlayers = int(n)
	o, err := r.ReadVarInt()
	if err != nil {
		return UpdateGame{}, err
	}
	m.NumObservers = int(o)
	if m.Status, err = r.ReadString(); err != nil {
		return UpdateGame{}, err
	}
	return m, nil
}

// DropGame removes a game from the lobby listing.
type DropGame struct {
	Name string
}

func (m *DropGame) Encode(w *Writer) {
	w.WriteU8(byte(TagDropGame))
	w.WriteString(m.Name)
}

func DecodeDropGame(r *Reader) (DropGame, error) {
	s, err := r.ReadString()
	return DropGame{Name: s}, err
}

// JoinAccepted is the server's response to join_game: the game's
// current Menu, this connection's assigned house colour, and the
// current roster (spec.md §4.11).
type JoinAccepted struct {
	Menu            Menu
	HouseColour     int32
	PlayerIDs       []uint16
	Ready           []bool
	HouseColours    []int32
	ObserverIDs     []uint16
	AlreadyStarted  bool
}

func (m *JoinAccepted) Encode(w *Writer) {
	w.WriteU8(byte(TagJoinAccepted))
	m.Menu.Encode(w)
	w.WriteI32(m.HouseColour)
	w.WriteVarInt(uint64(len(m.PlayerIDs)))
	for i, id := range m.PlayerIDs {
		w.WriteU16(id)
		w.WriteBool(m.Ready[i])
		w.WriteI32(m.HouseColours[i])
	}
	w.WriteVarInt(uint64(len(m.ObserverIDs)))
	for _, id := range m.ObserverIDs {
		w.WriteU16(id)
	}
	w.WriteBool(m.AlreadyStarted)
}

func DecodeJoinAccepted(r *Reader) (JoinAccepted, error) {
	var m JoinAccepted
	var err error
	if m.Menu, err = DecodeMenu(r); err != nil {
		return JoinAccepted{}, err
	}
	if m.HouseColour, err = r.ReadI32(); err != nil {
		return JoinAccepted{}, err
	}
	n, err := r.ReadVarInt()
	if err != nil {
		return JoinAccepted{}, err
	}
	m.PlayerIDs = make([]uint16, n)
	m.Ready = make([]bool, n)
	m.HouseColours = make([]int32, n)
	for i := range m.PlayerIDs {
		if m.PlayerIDs[i], err = r.ReadU16(); err != nil {
			return JoinAccepted{}, err
		}
		if m.Ready[i], err = r.ReadBool(); err != nil {
			return JoinAccepted{}, err
		}
		if m.HouseColours[i], err = r.ReadI32(); err != nil {
			return JoinAccepted{}, err
		}
	}
	obsN, err := r.ReadVarInt()
	if err != nil {
		return JoinAccepted{}, err
	}
	m.ObserverIDs = make([]uint16, obsN)
	for i := range m.ObserverIDs {
		if m.ObserverIDs[i], err = r.ReadU16(); err != nil {
			return JoinAccepted{}, err
		}
	}
	if m.AlreadyStarted, err = r.ReadBool(); err != nil {
		return JoinAccepted{}, err
	}
	return m, nil
}

// JoinDenied carries the reason a join_game request was refused.
type JoinDenied struct {
	Reason string
}

func (m *JoinDenied) Encode(w *Writer) {
	w.WriteU8(byte(TagJoinDenied))
	w.WriteString(m.Reason)
}

func DecodeJoinDenied(r *Reader) (JoinDenied, error) {
	s, err := r.ReadString()
	return JoinDenied{Reason: s}, err
}

// SetMenuSelectionClient is the client's request to change one menu
// item's choice.
type SetMenuSelectionClient struct {
	ItemIndex int
	Choice    int
}

func (m *SetMenuSelectionClient) Encode(w *Writer) {
	w.WriteU8(byte(TagSetMenuSelectionCli))
	w.WriteVarInt(uint64(m.ItemIndex))
	w.WriteVarInt(uint64(m.Choice))
}

func DecodeSetMenuSelectionClient(r *Reader) (SetMenuSelectionClient, error) {
	idx, err := r.ReadVarInt()
	if err != nil {
		return SetMenuSelectionClient{}, err
	}
	choice, err := r.ReadVarInt()
	return SetMenuSelectionClient{ItemIndex: int(idx), Choice: int(choice)}, err
}

// SetMenuSelectionServer is the authoritative broadcast: the chosen
// value plus the (possibly collapsed to a singleton) set of values
// still allowed, locking the field when len(Allowed) == 1.
type SetMenuSelectionServer struct {
	ItemIndex int
	Choice    int
	Allowed   []int
}

func (m *SetMenuSelectionServer) Encode(w *Writer) {
	w.WriteU8(byte(TagSetMenuSelectionSvr))
	w.WriteVarInt(uint64(m.ItemIndex))
	w.WriteVarInt(uint64(m.Choice))
	w.WriteVarInt(uint64(len(m.Allowed)))
	for _, v := range m.Allowed {
		w.WriteVarInt(uint64(v))
	}
}

func DecodeSetMenuSelectionServer(r *Reader) (SetMenuSelectionServer, error) {
	idx, err := r.ReadVarInt()
	if err != nil {
		return SetMenuSelectionServer{}, err
	}
	choice, err := r.ReadVarInt()
	if err != nil {
		return SetMenuSelectionServer{}, err
	}
	n, err := r.ReadVarInt()
	if err != nil {
		return SetMenuSelectionServer{}, err
	}
	allowed := make([]int, n)
	for i := range allowed {
		v, err := r.ReadVarInt()
		if err != nil {
			return SetMenuSelectionServer{}, err
		}
		allowed[i] = int(v)
	}
	return SetMenuSelectionServer{ItemIndex: int(idx), Choice: int(choice), Allowed: allowed}, nil
}

// StartGame signals the IN_GAME_MENU → IN_GAME transition.
type StartGame struct{}

func (m *StartGame) Encode(w *Writer) { w.WriteU8(byte(TagStartGame)) }

// JoinGame is the client's request to enter a named game, either as a
// player or as an observer.
type JoinGame struct {
	GameName   string
	AsObserver bool
}

func (m *JoinGame) Encode(w *Writer) {
	w.WriteU8(byte(TagJoinGame))
	w.WriteString(m.GameName)
	w.WriteBool(m.AsObserver)
}

func DecodeJoinGame(r *Reader) (JoinGame, error) {
	var m JoinGame
	var err error
	if m.GameName, err = r.ReadString(); err != nil {
		return JoinGame{}, err
	}
	m.AsObserver, err = r.ReadBool()
	return m, err
}

// SetPlayerID assigns this connection's stable per-game player id.
type SetPlayerID struct {
	PlayerID uint16
}

func (m *SetPlayerID) Encode(w *Writer) {
	w.WriteU8(byte(TagSetPlayerID))
	w.WriteU16(m.PlayerID)
}

func DecodeSetPlayerID(r *Reader) (SetPlayerID, error) {
	id, err := r.ReadU16()
	return SetPlayerID{PlayerID: id}, err
}

// SetReady toggles a player's readiness to start.
type SetReady struct {
	Ready bool
}

func (m *SetReady) Encode(w *Writer) {
	w.WriteU8(byte(TagSetReady))
	w.WriteBool(m.Ready)
}

func DecodeSetReady(r *Reader) (SetReady, error) {
	v, err := r.ReadBool()
	return SetReady{Ready: v}, err
}

// SetObsFlag toggles whether a connection observes rather than plays.
type SetObsFlag struct {
	Observer bool
}

func (m *SetObsFlag) Encode(w *Writer) {
	w.WriteU8(byte(TagSetObsFlag))
	w.WriteBool(m.Observer)
}

func DecodeSetObsFlag(r *Reader) (SetObsFlag, error) {
	v, err := r.ReadBool()
	return SetObsFlag{Observer: v}, err
}

// SetHouseColour requests a house colour change.
type SetHouseColour struct {
	Colour int32
}

func (m *SetHouseColour) Encode(w *Writer) {
	w.WriteU8(byte(TagSetHouseColour))
	w.WriteI32(m.Colour)
}

func DecodeSetHouseColour(r *Reader) (SetHouseColour, error) {
	v, err := r.ReadI32()
	return SetHouseColour{Colour: v}, err
}

// Chat is used both ways: a client sends its text, and the server
// rebroadcasts it tagged with the speaker.
type Chat struct {
	From    uint16
	Observer bool
	Team    bool
	Text    string
}

func (m *Chat) Encode(w *Writer) {
	w.WriteU8(byte(TagChat))
	w.WriteU16(m.From)
	w.WriteBool(m.Observer)
	w.WriteBool(m.Team)
	w.WriteString(m.Text)
}

func DecodeChat(r *Reader) (Chat, error) {
	var m Chat
	var err error
	if m.From, err = r.ReadU16(); err != nil {
		return Chat{}, err
	}
	if m.Observer, err = r.ReadBool(); err != nil {
		return Chat{}, err
	}
	if m.Team, err = r.ReadBool(); err != nil {
		return Chat{}, err
	}
	m.Text, err = r.ReadString()
	return m, err
}

// ChatFromClient is the outbound-only shape a client actually sends;
// the server fills in From/Observer/Team itself before rebroadcasting
// as Chat.
type ChatFromClient struct {
	Team bool
	Text string
}

func (m *ChatFromClient) Encode(w *Writer) {
	w.WriteU8(byte(TagChatFromClient))
	w.WriteBool(m.Team)
	w.WriteString(m.Text)
}

func DecodeChatFromClient(r *Reader) (ChatFromClient, error) {
	var m ChatFromClient
	var err error
	if m.Team, err = r.ReadBool(); err != nil {
		return ChatFromClient{}, err
	}
	m.Text, err = r.ReadString()
	return m, err
}

// Vote flags, per spec.md §4.11's "Voting" paragraph (bit values fixed
// by the original protocol's VF_VOTE/VF_IS_ME/VF_SHOW_MSG/VF_GAME_ENDING).
const (
	VoteFlagVote uint8 = 1 << iota
	VoteFlagIsMe
	VoteFlagShowMsg
	VoteFlagGameEnding
)

// VoteToRestart is the client's request to register (or retract) a
// restart vote.
type VoteToRestart struct {
	Flags uint8
}

func (m *VoteToRestart) Encode(w *Writer) {
	w.WriteU8(byte(TagVoteToRestart))
	w.WriteU8(m.Flags)
}

func DecodeVoteToRestart(r *Reader) (VoteToRestart, error) {
	v, err := r.ReadU8()
	return VoteToRestart{Flags: v}, err
}

// VotedToRestart is the server's broadcast of one player's vote state
// plus the aggregate threshold-reached flag.
type VotedToRestart struct {
	PlayerID   uint16
	Flags      uint8
	MoreNeeded int
}

func (m *VotedToRestart) Encode(w *Writer) {
	w.WriteU8(byte(TagVotedToRestart))
	w.WriteU16(m.PlayerID)
	w.WriteU8(m.Flags)
	w.WriteVarInt(uint64(m.MoreNeeded))
}

func DecodeVotedToRestart(r *Reader) (VotedToRestart, error) {
	var m VotedToRestart
	var err error
	if m.PlayerID, err = r.ReadU16(); err != nil {
		return VotedToRestart{}, err
	}
	if m.Flags, err = r.ReadU8(); err != nil {
		return VotedToRestart{}, err
	}
	n, err := r.ReadVarInt()
	m.MoreNeeded = int(n)
	return m, err
}

// GameInput carries one client-intent action for the server to
// validate and apply: a directional move/attack request, a weapon
// swing, or a use-item request, keyed by Kind (spec.md §4.11's
// "In-game inputs").
type InputKind uint8

const (
	InputMove InputKind = iota
	InputAttack
	InputUseItem
	InputWithdraw
)

type GameInput struct {
	Kind      InputKind
	Direction uint8
}

func (m *GameInput) Encode(w *Writer) {
	w.WriteU8(byte(TagGameInput))
	w.WriteU8(byte(m.Kind))
	w.WriteU8(m.Direction)
}

func DecodeGameInput(r *Reader) (GameInput, error) {
	var m GameInput
	k, err := r.ReadU8()
	if err != nil {
		return GameInput{}, err
	}
	m.Kind = InputKind(k)
	m.Direction, err = r.ReadU8()
	return m, err
}
