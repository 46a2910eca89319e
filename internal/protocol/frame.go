package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameLen bounds a single message's payload so that a corrupt or
// hostile length header can't make ReadFrame allocate unbounded
// memory (spec.md §7's Protocol error class: a bad length is a
// protocol error, not a resource-exhaustion vector). load_graphic
// payloads are the largest legitimate message; 4 MiB comfortably
// covers any single dungeon graphic.
const MaxFrameLen = 4 << 20

// ReadFrame reads one length-prefixed message from r: a 4-byte
// little-endian payload length, then the payload itself. Adapted from
// the teacher's internal/net.ReadFrame, widened from a 2-byte header
// (max 65533 bytes) to 4 bytes since Knights' load_graphic messages
// can exceed that teacher-era L1J packet ceiling.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}
	n := binary.LittleEndian.Uint32(header[:])
	if n == 0 || n > MaxFrameLen {
		return nil, fmt.Errorf("invalid frame length: %d", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", n, err)
	}
	return payload, nil
}

// WriteFrame writes one length-prefixed message to w.
func WriteFrame(w io.Writer, data []byte) error {
	if len(data) == 0 || len(data) > MaxFrameLen {
		return fmt.Errorf("invalid frame length: %d", len(data))
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(data)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}
