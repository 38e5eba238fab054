// Package codec implements the protocol's compact binary encoding
// (spec.md §6): little-endian fixed-width integers and compact
// variable-length-prefixed byte sequences, in the spirit of the teacher's
// rlp package but specialized to the protocol's own wire format rather
// than RLP's.
package codec

import (
	"bytes"
	"encoding/binary"
)

// Encoder accumulates an encoded byte stream.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// WriteUint8 appends a single byte.
func (e *Encoder) WriteUint8(v uint8) {
	e.buf.WriteByte(v)
}

// WriteUint32 appends a little-endian u32.
func (e *Encoder) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

// WriteUint64 appends a little-endian u64.
func (e *Encoder) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// WriteCompactLength appends n as a compact variable-length-prefixed
// integer: values below 0x80 encode as a single byte; larger values
// encode as a length-of-length byte (0x80 | number of following bytes)
// followed by the little-endian magnitude.
func (e *Encoder) WriteCompactLength(n int) {
	if n < 0 {
		panic("codec: negative length")
	}
	if n < 0x80 {
		e.buf.WriteByte(byte(n))
		return
	}
	var magnitude []byte
	v := uint64(n)
	for v > 0 {
		magnitude = append(magnitude, byte(v))
		v >>= 8
	}
	e.buf.WriteByte(0x80 | byte(len(magnitude)))
	e.buf.Write(magnitude)
}

// WriteBytes appends a compact length prefix followed by raw bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteCompactLength(len(b))
	e.buf.Write(b)
}

// WriteFixed appends raw bytes with no length prefix (for fixed-width
// fields such as hashes and keys).
func (e *Encoder) WriteFixed(b []byte) {
	e.buf.Write(b)
}
