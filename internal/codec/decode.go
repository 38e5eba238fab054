package codec

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned when the decoder runs out of input before
// satisfying a read.
var ErrShortBuffer = errors.New("codec: unexpected end of buffer")

// Decoder reads values off an encoded byte stream in the order they were
// written.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps buf for sequential decoding.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// ReadUint8 reads a single byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	if d.Remaining() < 1 {
		return 0, ErrShortBuffer
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

// ReadUint32 reads a little-endian u32.
func (d *Decoder) ReadUint32() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	return v, nil
}

// ReadUint64 reads a little-endian u64.
func (d *Decoder) ReadUint64() (uint64, error) {
	if d.Remaining() < 8 {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint64(d.buf[d.pos : d.pos+8])
	d.pos += 8
	return v, nil
}

// ReadCompactLength reads a compact variable-length-prefixed integer.
func (d *Decoder) ReadCompactLength() (int, error) {
	head, err := d.ReadUint8()
	if err != nil {
		return 0, err
	}
	if head < 0x80 {
		return int(head), nil
	}
	numBytes := int(head &^ 0x80)
	if d.Remaining() < numBytes {
		return 0, ErrShortBuffer
	}
	var v uint64
	for i := 0; i < numBytes; i++ {
		v |= uint64(d.buf[d.pos+i]) << (8 * i)
	}
	d.pos += numBytes
	return int(v), nil
}

// ReadBytes reads a compact-length-prefixed byte slice.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadCompactLength()
	if err != nil {
		return nil, err
	}
	if d.Remaining() < n {
		return nil, ErrShortBuffer
	}
	out := make([]byte, n)
	copy(out, d.buf[d.pos:d.pos+n])
	d.pos += n
	return out, nil
}

// ReadFixed reads exactly n raw bytes with no length prefix.
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, ErrShortBuffer
	}
	out := make([]byte, n)
	copy(out, d.buf[d.pos:d.pos+n])
	d.pos += n
	return out, nil
}
