package protocol

// This file covers the dungeon-view stream tags (spec.md §4.10): the
// per-player event vocabulary a DungeonView/MiniMap/StatusDisplay
// implementation emits. Entity IDs are u16, server-allocated, stable
// for the entity's lifetime; id 0 is reserved for "my own knight" so
// a client can suppress its own name label.

type DViewSetCurrentRoom struct {
	RoomID uint16
	Width  uint16
	Height uint16
}

func (m *DViewSetCurrentRoom) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewSetCurrentRoom))
	w.WriteU16(m.RoomID)
	w.WriteU16(m.Width)
	w.WriteU16(m.Height)
}

func DecodeDViewSetCurrentRoom(r *Reader) (DViewSetCurrentRoom, error) {
	var m DViewSetCurrentRoom
	var err error
	if m.RoomID, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.Width, err = r.ReadU16(); err != nil {
		return m, err
	}
	m.Height, err = r.ReadU16()
	return m, err
}

type DViewAddEntity struct {
	ID                       uint16
	X, Y                     int16
	Height                   uint8
	Facing                   uint8
	Anim                     uint16
	Overlay                  uint16
	AnimFrame                uint16
	AnimZeroTimeDeltaMs      int32
	Invisible                bool
	Invulnerable             bool
	CurOfs                   int16
	MotionKind               uint8
	MotionTimeRemainingMs    int32
	PlayerID                 uint16
}

func (m *DViewAddEntity) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewAddEntity))
	w.WriteU16(m.ID)
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
	w.WriteU8(m.Height)
	w.WriteU8(m.Facing)
	w.WriteU16(m.Anim)
	w.WriteU16(m.Overlay)
	w.WriteU16(m.AnimFrame)
	w.WriteI32(m.AnimZeroTimeDeltaMs)
	w.WriteBool(m.Invisible)
	w.WriteBool(m.Invulnerable)
	w.WriteI16(m.CurOfs)
	w.WriteU8(m.MotionKind)
	w.WriteI32(m.MotionTimeRemainingMs)
	w.WriteU16(m.PlayerID)
}

func DecodeDViewAddEntity(r *Reader) (DViewAddEntity, error) {
	var m DViewAddEntity
	var err error
	if m.ID, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Y, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Height, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.Facing, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.Anim, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.Overlay, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.AnimFrame, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.AnimZeroTimeDeltaMs, err = r.ReadI32(); err != nil {
		return m, err
	}
	if m.Invisible, err = r.ReadBool(); err != nil {
		return m, err
	}
	if m.Invulnerable, err = r.ReadBool(); err != nil {
		return m, err
	}
	if m.CurOfs, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.MotionKind, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.MotionTimeRemainingMs, err = r.ReadI32(); err != nil {
		return m, err
	}
	m.PlayerID, err = r.ReadU16()
	return m, err
}

type DViewRmEntity struct{ ID uint16 }

func (m *DViewRmEntity) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewRmEntity))
	w.WriteU16(m.ID)
}

func DecodeDViewRmEntity(r *Reader) (DViewRmEntity, error) {
	id, err := r.ReadU16()
	return DViewRmEntity{ID: id}, err
}

type DViewRepositionEntity struct {
	ID   uint16
	X, Y int16
}

func (m *DViewRepositionEntity) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewRepositionEntity))
	w.WriteU16(m.ID)
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
}

func DecodeDViewRepositionEntity(r *Reader) (DViewRepositionEntity, error) {
	var m DViewRepositionEntity
	var err error
	if m.ID, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	m.Y, err = r.ReadI16()
	return m, err
}

type DViewMoveEntity struct {
	ID         uint16
	Kind       uint8
	DurationMs int
	Missile    bool
}

func (m *DViewMoveEntity) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewMoveEntity))
	w.WriteU16(m.ID)
	w.WriteU8(m.Kind)
	w.WriteVarInt(uint64(m.DurationMs))
	w.WriteBool(m.Missile)
}

func DecodeDViewMoveEntity(r *Reader) (DViewMoveEntity, error) {
	var m DViewMoveEntity
	var err error
	if m.ID, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.Kind, err = r.ReadU8(); err != nil {
		return m, err
	}
	d, err := r.ReadVarInt()
	if err != nil {
		return m, err
	}
	m.DurationMs = int(d)
	m.Missile, err = r.ReadBool()
	return m, err
}

type DViewFlipEntityMotion struct {
	ID             uint16
	InitialDelayMs int
	DurationMs     int
}

func (m *DViewFlipEntityMotion) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewFlipEntityMotion))
	w.WriteU16(m.ID)
	w.WriteVarInt(uint64(m.InitialDelayMs))
	w.WriteVarInt(uint64(m.DurationMs))
}

func DecodeDViewFlipEntityMotion(r *Reader) (DViewFlipEntityMotion, error) {
	var m DViewFlipEntityMotion
	var err error
	if m.ID, err = r.ReadU16(); err != nil {
		return m, err
	}
	d1, err := r.ReadVarInt()
	if err != nil {
		return m, err
	}
	m.InitialDelayMs = int(d1)
	d2, err := r.ReadVarInt()
	m.DurationMs = int(d2)
	return m, err
}

type DViewSetFacing struct {
	ID     uint16
	Facing uint8
}

func (m *DViewSetFacing) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewSetFacing))
	w.WriteU16(m.ID)
	w.WriteU8(m.Facing)
}

func DecodeDViewSetFacing(r *Reader) (DViewSetFacing, error) {
	var m DViewSetFacing
	var err error
	if m.ID, err = r.ReadU16(); err != nil {
		return m, err
	}
	m.Facing, err = r.ReadU8()
	return m, err
}

type DViewSetSpeechBubble struct {
	ID     uint16
	Active bool
}

func (m *DViewSetSpeechBubble) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewSetSpeechBubble))
	w.WriteU16(m.ID)
	w.WriteBool(m.Active)
}

func DecodeDViewSetSpeechBubble(r *Reader) (DViewSetSpeechBubble, error) {
	var m DViewSetSpeechBubble
	var err error
	if m.ID, err = r.ReadU16(); err != nil {
		return m, err
	}
	m.Active, err = r.ReadBool()
	return m, err
}

type DViewClearTiles struct {
	X, Y  int16
	Force bool
}

func (m *DViewClearTiles) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewClearTiles))
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
	w.WriteBool(m.Force)
}

func DecodeDViewClearTiles(r *Reader) (DViewClearTiles, error) {
	var m DViewClearTiles
	var err error
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Y, err = r.ReadI16(); err != nil {
		return m, err
	}
	m.Force, err = r.ReadBool()
	return m, err
}

type DViewSetTile struct {
	X, Y    int16
	Depth   uint8
	Graphic uint16
	Cc      uint8
	Force   bool
}

func (m *DViewSetTile) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewSetTile))
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
	w.WriteU8(m.Depth)
	w.WriteU16(m.Graphic)
	w.WriteU8(m.Cc)
	w.WriteBool(m.Force)
}

func DecodeDViewSetTile(r *Reader) (DViewSetTile, error) {
	var m DViewSetTile
	var err error
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Y, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Depth, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.Graphic, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.Cc, err = r.ReadU8(); err != nil {
		return m, err
	}
	m.Force, err = r.ReadBool()
	return m, err
}

type DViewSetItem struct {
	X, Y    int16
	Graphic uint16
	Force   bool
}

func (m *DViewSetItem) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewSetItem))
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
	w.WriteU16(m.Graphic)
	w.WriteBool(m.Force)
}

func DecodeDViewSetItem(r *Reader) (DViewSetItem, error) {
	var m DViewSetItem
	var err error
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Y, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Graphic, err = r.ReadU16(); err != nil {
		return m, err
	}
	m.Force, err = r.ReadBool()
	return m, err
}

type DViewPlaceIcon struct {
	X, Y       int16
	Graphic    uint16
	DurationMs int
}

func (m *DViewPlaceIcon) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewPlaceIcon))
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
	w.WriteU16(m.Graphic)
	w.WriteVarInt(uint64(m.DurationMs))
}

func DecodeDViewPlaceIcon(r *Reader) (DViewPlaceIcon, error) {
	var m DViewPlaceIcon
	var err error
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Y, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Graphic, err = r.ReadU16(); err != nil {
		return m, err
	}
	d, err := r.ReadVarInt()
	m.DurationMs = int(d)
	return m, err
}

type DViewFlashMessage struct {
	Text   string
	NTimes int
}

func (m *DViewFlashMessage) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewFlashMessage))
	w.WriteString(m.Text)
	w.WriteVarInt(uint64(m.NTimes))
}

func DecodeDViewFlashMessage(r *Reader) (DViewFlashMessage, error) {
	var m DViewFlashMessage
	var err error
	if m.Text, err = r.ReadString(); err != nil {
		return m, err
	}
	n, err := r.ReadVarInt()
	m.NTimes = int(n)
	return m, err
}

type DViewCancelContinuousMessages struct{}

func (m *DViewCancelContinuousMessages) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewCancelContinuous))
}

type DViewAddContinuousMessage struct{ Text string }

func (m *DViewAddContinuousMessage) Encode(w *Writer) {
	w.WriteU8(byte(TagDViewAddContinuousMsg))
	w.WriteString(m.Text)
}

func DecodeDViewAddContinuousMessage(r *Reader) (DViewAddContinuousMessage, error) {
	s, err := r.ReadString()
	return DViewAddContinuousMessage{Text: s}, err
}

// MiniMap colour enum (spec.md §4.10).
const (
	MiniMapUnmapped uint8 = iota
	MiniMapFloor
	MiniMapWall
	MiniMapHighlight
)

type MiniMapSetSize struct{ Width, Height uint16 }

func (m *MiniMapSetSize) Encode(w *Writer) {
	w.WriteU8(byte(TagMiniMapSetSize))
	w.WriteU16(m.Width)
	w.WriteU16(m.Height)
}

func DecodeMiniMapSetSize(r *Reader) (MiniMapSetSize, error) {
	var m MiniMapSetSize
	var err error
	if m.Width, err = r.ReadU16(); err != nil {
		return m, err
	}
	m.Height, err = r.ReadU16()
	return m, err
}

type MiniMapSetColour struct {
	X, Y   int16
	Colour uint8
}

func (m *MiniMapSetColour) Encode(w *Writer) {
	w.WriteU8(byte(TagMiniMapSetColour))
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
	w.WriteU8(m.Colour)
}

func DecodeMiniMapSetColour(r *Reader) (MiniMapSetColour, error) {
	var m MiniMapSetColour
	var err error
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Y, err = r.ReadI16(); err != nil {
		return m, err
	}
	m.Colour, err = r.ReadU8()
	return m, err
}

type MiniMapWipe struct{}

func (m *MiniMapWipe) Encode(w *Writer) { w.WriteU8(byte(TagMiniMapWipe)) }

type MiniMapKnightLocation struct {
	PlayerSlot uint8
	X, Y       int16
}

func (m *MiniMapKnightLocation) Encode(w *Writer) {
	w.WriteU8(byte(TagMiniMapKnightLocation))
	w.WriteU8(m.PlayerSlot)
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
}

func DecodeMiniMapKnightLocation(r *Reader) (MiniMapKnightLocation, error) {
	var m MiniMapKnightLocation
	var err error
	if m.PlayerSlot, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	m.Y, err = r.ReadI16()
	return m, err
}

type MiniMapItemLocation struct {
	X, Y int16
	On   bool
}

func (m *MiniMapItemLocation) Encode(w *Writer) {
	w.WriteU8(byte(TagMiniMapItemLocation))
	w.WriteI16(m.X)
	w.WriteI16(m.Y)
	w.WriteBool(m.On)
}

func DecodeMiniMapItemLocation(r *Reader) (MiniMapItemLocation, error) {
	var m MiniMapItemLocation
	var err error
	if m.X, err = r.ReadI16(); err != nil {
		return m, err
	}
	if m.Y, err = r.ReadI16(); err != nil {
		return m, err
	}
	m.On, err = r.ReadBool()
	return m, err
}

// Potion-magic kinds (spec.md §4.10's StatusDisplay).
const (
	PotionNone uint8 = iota
	PotionInvisibility
	PotionStrength
	PotionQuickness
	PotionSlowRegen
	PotionFastRegen
	PotionParalyzation
	PotionSuper
)

type StatusSetBackpack struct {
	Slot     uint8
	Graphic  uint16
	Overdraw uint16
	Count    int
	Max      int
}

func (m *StatusSetBackpack) Encode(w *Writer) {
	w.WriteU8(byte(TagStatusSetBackpack))
	w.WriteU8(m.Slot)
	w.WriteU16(m.Graphic)
	w.WriteU16(m.Overdraw)
	w.WriteVarInt(uint64(m.Count))
	w.WriteVarInt(uint64(m.Max))
}

func DecodeStatusSetBackpack(r *Reader) (StatusSetBackpack, error) {
	var m StatusSetBackpack
	var err error
	if m.Slot, err = r.ReadU8(); err != nil {
		return m, err
	}
	if m.Graphic, err = r.ReadU16(); err != nil {
		return m, err
	}
	if m.Overdraw, err = r.ReadU16(); err != nil {
		return m, err
	}
	c, err := r.ReadVarInt()
	if err != nil {
		return m, err
	}
	m.Count = int(c)
	mx, err := r.ReadVarInt()
	m.Max = int(mx)
	return m, err
}

type StatusAddSkull struct{}

func (m *StatusAddSkull) Encode(w *Writer) { w.WriteU8(byte(TagStatusAddSkull)) }

type StatusSetHealth struct{ Health int }

func (m *StatusSetHealth) Encode(w *Writer) {
	w.WriteU8(byte(TagStatusSetHealth))
	w.WriteVarInt(uint64(m.Health))
}

func DecodeStatusSetHealth(r *Reader) (StatusSetHealth, error) {
	h, err := r.ReadVarInt()
	return StatusSetHealth{Health: int(h)}, err
}

type StatusSetPotionMagic struct {
	Kind         uint8
	PoisonImmune bool
}

func (m *StatusSetPotionMagic) Encode(w *Writer) {
	w.WriteU8(byte(TagStatusSetPotionMagic))
	w.WriteU8(m.Kind)
	w.WriteBool(m.PoisonImmune)
}

func DecodeStatusSetPotionMagic(r *Reader) (StatusSetPotionMagic, error) {
	var m StatusSetPotionMagic
	var err error
	if m.Kind, err = r.ReadU8(); err != nil {
		return m, err
	}
	m.PoisonImmune, err = r.ReadBool()
	return m, err
}

type StatusSetQuestHints struct{ Lines []string }

func (m *StatusSetQuestHints) Encode(w *Writer) {
	w.WriteU8(byte(TagStatusSetQuestHints))
	w.WriteVarInt(uint64(len(m.Lines)))
	for _, l := range m.Lines {
		w.WriteString(l)
	}
}

func DecodeStatusSetQuestHints(r *Reader) (StatusSetQuestHints, error) {
	n, err := r.ReadVarInt()
	if err != nil {
		return StatusSetQuestHints{}, err
	}
	lines := make([]string, n)
	for i := range lines {
		if lines[i], err = r.ReadString(); err != nil {
			return StatusSetQuestHints{}, err
		}
	}
	return StatusSetQuestHints{Lines: lines}, nil
}
