// Package protocol implements the Knights wire protocol of spec.md
// §4.11/§6: a 1-byte tag followed by type-specific fields, integers
// little-endian, strings varint-length-prefixed UTF-8. Grounded on the
// teacher's internal/net/packet/{reader,writer}.go for the overall
// cursor-reader/append-writer shape, generalised from L1J's
// fixed-width C/H/D fields and null-terminated Big5 strings to
// Knights' varint-length UTF-8 strings (there is no Big5 concern here
// — Knights' client population was never CJK-market-specific).
package protocol

import (
	"encoding/binary"
	"errors"
)

// ErrShortRead is returned by every Reader method when the buffer runs
// out before a field is fully read. Unlike the teacher's packet.Reader
// (which silently returns zero values), this protocol treats a short
// read as spec.md §7's Protocol error class: the caller must drop the
// connection, not limp on with corrupted fields.
var ErrShortRead = errors.New("protocol: short read")

// Writer builds one wire message. All multi-byte writes are
// little-endian; Bytes() returns the unpadded content (Knights frames
// are varint/length-prefixed, not 4-byte aligned like the teacher's
// L1J packets).
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{buf: make([]byte, 0, 64)} }

func NewWriterTag(tag byte) *Writer {
	w := NewWriter()
	w.WriteU8(tag)
	return w
}

func (w *Writer) WriteU8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

// WriteVarInt writes v as an unsigned LEB128 varint (spec.md §4.11's
// "VarInt byte length"). Negative lengths/counts never occur on this
// wire, so there is no signed variant.
func (w *Writer) WriteVarInt(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf = append(w.buf, tmp[:n]...)
}

// WriteString writes s as a varint byte-length prefix followed by its
// UTF-8 bytes (spec.md §6: "strings varint-length-prefixed UTF-8").
func (w *Writer) WriteString(s string) {
	w.WriteVarInt(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

// Reader reads fields back out of a decoded message in the same order
// Writer wrote them.
type Reader struct {
	data []byte
	off  int
}

func NewReader(data []byte) *Reader { return &Reader{data: data} }

func (r *Reader) Remaining() int { return len(r.data) - r.off }

func (r *Reader) Tag() (byte, error) { return r.ReadU8() }

func (r *Reader) ReadU8() (byte, error) {
	if r.off >= len(r.data) {
		return 0, ErrShortRead
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

func (r *Reader) ReadU16() (uint16, error) {
	if r.off+2 > len(r.data) {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, ErrShortRead
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadVarInt() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.off:])
	if n <= 0 {
		return 0, ErrShortRead
	}
	r.off += n
	return v, nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadVarInt()
	if err != nil {
		return "", err
	}
	if r.off+int(n) > len(r.data) {
		return "", ErrShortRead
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.off+n > len(r.data) {
		return nil, ErrShortRead
	}
	b := make([]byte, n)
	copy(b, r.data[r.off:r.off+n])
	r.off += n
	return b, nil
}
