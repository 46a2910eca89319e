package protocol

import (
	"bytes"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU8(7)
	w.WriteBool(true)
	w.WriteU16(40000)
	w.WriteI16(-42)
	w.WriteU32(0xDEADBEEF)
	w.WriteI32(-12345)
	w.WriteVarInt(300)
	w.WriteString("hello, knights")

	r := NewReader(w.Bytes())
	if v, err := r.ReadU8(); err != nil || v != 7 {
		t.Fatalf("ReadU8 = %v, %v", v, err)
	}
	if v, err := r.ReadBool(); err != nil || v != true {
		t.Fatalf("ReadBool = %v, %v", v, err)
	}
	if v, err := r.ReadU16(); err != nil || v != 40000 {
		t.Fatalf("ReadU16 = %v, %v", v, err)
	}
	if v, err := r.ReadI16(); err != nil || v != -42 {
		t.Fatalf("ReadI16 = %v, %v", v, err)
	}
	if v, err := r.ReadU32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadU32 = %v, %v", v, err)
	}
	if v, err := r.ReadI32(); err != nil || v != -12345 {
		t.Fatalf("ReadI32 = %v, %v", v, err)
	}
	if v, err := r.ReadVarInt(); err != nil || v != 300 {
		t.Fatalf("ReadVarInt = %v, %v", v, err)
	}
	if v, err := r.ReadString(); err != nil || v != "hello, knights" {
		t.Fatalf("ReadString = %q, %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected buffer fully consumed, %d bytes left", r.Remaining())
	}
}

func TestReaderShortReadErrors(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.ReadU32(); err != ErrShortRead {
		t.Fatalf("expected ErrShortRead, got %v", err)
	}

	r2 := NewReader([]byte{})
	if _, err := r2.ReadU8(); err != ErrShortRead {
		t.Fatalf("expected ErrShortRead on empty buffer, got %v", err)
	}

	w := NewWriter()
	w.WriteVarInt(10)
	w.WriteString("ab")
	truncated := w.Bytes()[:len(w.Bytes())-1]
	r3 := NewReader(truncated)
	if _, err := r3.ReadString(); err != ErrShortRead {
		t.Fatalf("expected ErrShortRead on truncated string, got %v", err)
	}
}

func TestMenuItemRoundTrip(t *testing.T) {
	items := []MenuItem{
		{Title: "Number of Lives", Numeric: true, Digits: 2, Suffix: "lives", SpaceAfter: true},
		{Title: "Difficulty", Numeric: false, Strings: []string{"Easy", "Normal", "Hard"}, SpaceAfter: false},
	}
	for _, item := range items {
		w := NewWriter()
		item.Encode(w)
		r := NewReader(w.Bytes())
		got, err := DecodeMenuItem(r)
		if err != nil {
			t.Fatalf("DecodeMenuItem: %v", err)
		}
		if got.Title != item.Title || got.Numeric != item.Numeric ||
			got.Digits != item.Digits || got.Suffix != item.Suffix ||
			got.SpaceAfter != item.SpaceAfter || len(got.Strings) != len(item.Strings) {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, item)
		}
		for i := range item.Strings {
			if got.Strings[i] != item.Strings[i] {
				t.Fatalf("string %d mismatch: got %q, want %q", i, got.Strings[i], item.Strings[i])
			}
		}
		if r.Remaining() != 0 {
			t.Fatalf("leftover bytes after MenuItem decode: %d", r.Remaining())
		}
	}
}

func TestMenuRoundTrip(t *testing.T) {
	menu := Menu{
		Title: "New Game",
		Items: []MenuItem{
			{Title: "Quest", Strings: []string{"Retrieve the Gem", "Destroy the Book"}},
			{Title: "Time Limit", Numeric: true, Digits: 3, Suffix: "minutes"},
		},
	}
	w := NewWriter()
	menu.Encode(w)
	got, err := DecodeMenu(NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("DecodeMenu: %v", err)
	}
	if got.Title != menu.Title || len(got.Items) != len(menu.Items) {
		t.Fatalf("menu round trip mismatch: %+v", got)
	}
	for i := range menu.Items {
		if got.Items[i].Title != menu.Items[i].Title {
			t.Fatalf("item %d title mismatch: got %q want %q", i, got.Items[i].Title, menu.Items[i].Title)
		}
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("a message body")
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("ReadFrame = %q, want %q", got, payload)
	}
}

func TestFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	oversized := make([]byte, MaxFrameLen+1)
	if err := WriteFrame(&buf, oversized); err == nil {
		t.Fatalf("expected WriteFrame to reject an oversized payload")
	}
}

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	msg := UpdateGame{Name: "Dungeon of Woe", NumPlayers: 3, NumObservers: 1, Status: "in progress"}
	w := NewWriter()
	msg.Encode(w)

	r := NewReader(w.Bytes())
	tagByte, err := r.Tag()
	if err != nil || Tag(tagByte) != TagUpdateGame {
		t.Fatalf("tag = %v, %v", tagByte, err)
	}
	got, err := DecodeUpdateGame(r)
	if err != nil {
		t.Fatalf("DecodeUpdateGame: %v", err)
	}
	if got != msg {
		t.Fatalf("got %+v, want %+v", got, msg)
	}
}

func TestGameInputEncodeDecode(t *testing.T) {
	msg := GameInput{Kind: InputAttack, Direction: 2}
	w := NewWriter()
	msg.Encode(w)

	r := NewReader(w.Bytes())
	if _, err := r.Tag(); err != nil {
		t.Fatalf("Tag: %v", err)
	}
	got, err := DecodeGameInput(r)
	if err != nil {
		t.Fatalf("DecodeGameInput: %v", err)
	}
	if got != msg {
		t.Fatalf("got %+v, want %+v", got, msg)
	}
}
