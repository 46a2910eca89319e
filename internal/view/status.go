package view

import "github.com/knights-server/engine/internal/protocol"

// Potion-magic kinds, re-exported from internal/protocol (spec.md §4.10).
const (
	PotionNone         = protocol.PotionNone
	PotionInvisibility = protocol.PotionInvisibility
	PotionStrength     = protocol.PotionStrength
	PotionQuickness    = protocol.PotionQuickness
	PotionSlowRegen    = protocol.PotionSlowRegen
	PotionFastRegen    = protocol.PotionFastRegen
	PotionParalyzation = protocol.PotionParalyzation
	PotionSuper        = protocol.PotionSuper
)

// StatusDisplay is one player's HUD producer: backpack slots, health,
// active potion effect, and quest hints (spec.md §4.10).
type StatusDisplay struct {
	sink Sink
}

func NewStatusDisplay(sink Sink) *StatusDisplay {
	return &StatusDisplay{sink: sink}
}

func (s *StatusDisplay) SetBackpack(slot uint8, graphic, overdraw uint16, count, max int) {
	msg := protocol.StatusSetBackpack{Slot: slot, Graphic: graphic, Overdraw: overdraw, Count: count, Max: max}
	s.sink.Send(encode(&msg))
}

func (s *StatusDisplay) AddSkull() {
	msg := protocol.StatusAddSkull{}
	s.sink.Send(encode(&msg))
}

func (s *StatusDisplay) SetHealth(h int) {
	msg := protocol.StatusSetHealth{Health: h}
	s.sink.Send(encode(&msg))
}

func (s *StatusDisplay) SetPotionMagic(kind uint8, poisonImmune bool) {
	msg := protocol.StatusSetPotionMagic{Kind: kind, PoisonImmune: poisonImmune}
	s.sink.Send(encode(&msg))
}

// SetQuestHints implements quest.StatusSink, letting a StatusDisplay
// be handed directly to quest.HintManager.SendHints.
func (s *StatusDisplay) SetQuestHints(lines []string) {
	msg := protocol.StatusSetQuestHints{Lines: lines}
	s.sink.Send(encode(&msg))
}
