package view

import "github.com/knights-server/engine/internal/protocol"

// MiniMap colours, re-exported so callers needn't import
// internal/protocol directly for this narrow enum (spec.md §4.10).
const (
	ColourUnmapped  = protocol.MiniMapUnmapped
	ColourFloor     = protocol.MiniMapFloor
	ColourWall      = protocol.MiniMapWall
	ColourHighlight = protocol.MiniMapHighlight
)

// MiniMap is one player's overview-map producer.
type MiniMap struct {
	sink Sink
}

func NewMiniMap(sink Sink) *MiniMap {
	return &MiniMap{sink: sink}
}

func (m *MiniMap) SetSize(w, h uint16) {
	msg := protocol.MiniMapSetSize{Width: w, Height: h}
	m.sink.Send(encode(&msg))
}

func (m *MiniMap) SetColour(x, y int16, c uint8) {
	msg := protocol.MiniMapSetColour{X: x, Y: y, Colour: c}
	m.sink.Send(encode(&msg))
}

func (m *MiniMap) WipeMap() {
	msg := protocol.MiniMapWipe{}
	m.sink.Send(encode(&msg))
}

// MapKnightLocation reports a player's position on the minimap; (-1,
// -1) removes that slot's marker (spec.md §4.10).
func (m *MiniMap) MapKnightLocation(playerSlot uint8, x, y int16) {
	msg := protocol.MiniMapKnightLocation{PlayerSlot: playerSlot, X: x, Y: y}
	m.sink.Send(encode(&msg))
}

func (m *MiniMap) MapItemLocation(x, y int16, on bool) {
	msg := protocol.MiniMapItemLocation{X: x, Y: y, On: on}
	m.sink.Send(encode(&msg))
}
