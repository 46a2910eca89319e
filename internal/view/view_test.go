package view

import (
	"testing"

	"github.com/knights-server/engine/internal/protocol"
)

type recordingSink struct {
	sent [][]byte
}

func (s *recordingSink) Send(data []byte) { s.sent = append(s.sent, data) }

func (s *recordingSink) tags(t *testing.T) []protocol.Tag {
	t.Helper()
	out := make([]protocol.Tag, len(s.sent))
	for i, data := range s.sent {
		r := protocol.NewReader(data)
		tagByte, err := r.Tag()
		if err != nil {
			t.Fatalf("Tag: %v", err)
		}
		out[i] = protocol.Tag(tagByte)
	}
	return out
}

func TestSyncEntitiesAddsNewcomer(t *testing.T) {
	sink := &recordingSink{}
	v := NewDungeonView(sink)

	v.SyncEntities([]EntitySnapshot{{ID: 7, X: 1, Y: 2}})

	tags := sink.tags(t)
	if len(tags) != 1 || tags[0] != protocol.TagDViewAddEntity {
		t.Fatalf("expected one add_entity, got %v", tags)
	}
}

func TestSyncEntitiesRepositionsKnownEntity(t *testing.T) {
	sink := &recordingSink{}
	v := NewDungeonView(sink)
	v.SyncEntities([]EntitySnapshot{{ID: 7, X: 1, Y: 2}})
	sink.sent = nil

	v.SyncEntities([]EntitySnapshot{{ID: 7, X: 3, Y: 2}})

	tags := sink.tags(t)
	if len(tags) != 1 || tags[0] != protocol.TagDViewRepositionEntity {
		t.Fatalf("expected one reposition_entity, got %v", tags)
	}
}

func TestSyncEntitiesSkipsUnchangedEntity(t *testing.T) {
	sink := &recordingSink{}
	v := NewDungeonView(sink)
	v.SyncEntities([]EntitySnapshot{{ID: 7, X: 1, Y: 2}})
	sink.sent = nil

	v.SyncEntities([]EntitySnapshot{{ID: 7, X: 1, Y: 2}})

	if len(sink.sent) != 0 {
		t.Fatalf("expected no messages for an unchanged entity, got %d", len(sink.sent))
	}
}

func TestSyncEntitiesRemovesVanishedEntity(t *testing.T) {
	sink := &recordingSink{}
	v := NewDungeonView(sink)
	v.SyncEntities([]EntitySnapshot{{ID: 7, X: 1, Y: 2}})
	sink.sent = nil

	v.SyncEntities(nil)

	tags := sink.tags(t)
	if len(tags) != 1 || tags[0] != protocol.TagDViewRmEntity {
		t.Fatalf("expected one rm_entity, got %v", tags)
	}
}

func TestFlipEntityMotionZeroDurationIsNoOp(t *testing.T) {
	sink := &recordingSink{}
	v := NewDungeonView(sink)

	v.FlipEntityMotion(1, 0, 0)

	if len(sink.sent) != 0 {
		t.Fatalf("expected flip_entity_motion with duration 0 to be a no-op, got %d messages", len(sink.sent))
	}
}

func TestStatusDisplaySetQuestHintsImplementsSink(t *testing.T) {
	sink := &recordingSink{}
	sd := NewStatusDisplay(sink)
	sd.SetQuestHints([]string{"a gem is required"})

	tags := sink.tags(t)
	if len(tags) != 1 || tags[0] != protocol.TagStatusSetQuestHints {
		t.Fatalf("expected set_quest_hints, got %v", tags)
	}
}

func TestMiniMapKnightLocationRemovalSentinel(t *testing.T) {
	sink := &recordingSink{}
	mm := NewMiniMap(sink)
	mm.MapKnightLocation(0, -1, -1)

	tags := sink.tags(t)
	if len(tags) != 1 || tags[0] != protocol.TagMiniMapKnightLocation {
		t.Fatalf("expected map_knight_location, got %v", tags)
	}
	decoded, err := protocol.DecodeMiniMapKnightLocation(protocol.NewReader(sink.sent[0][1:]))
	if err != nil {
		t.Fatalf("DecodeMiniMapKnightLocation: %v", err)
	}
	if decoded.X != -1 || decoded.Y != -1 {
		t.Fatalf("expected (-1,-1) removal sentinel, got (%d,%d)", decoded.X, decoded.Y)
	}
}
