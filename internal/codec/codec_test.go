package codec

import (
	"bytes"
	"testing"
)

func TestUint32RoundTrip(t *testing.T) {
	e := NewEncoder()
	e.WriteUint32(0x01020304)
	d := NewDecoder(e.Bytes())
	got, err := d.ReadUint32()
	if err != nil || got != 0x01020304 {
		t.Fatalf("ReadUint32 = %x, %v", got, err)
	}
}

func TestCompactLengthSmall(t *testing.T) {
	e := NewEncoder()
	e.WriteCompactLength(5)
	if got := e.Bytes(); len(got) != 1 || got[0] != 5 {
		t.Fatalf("small length should encode as one byte, got %x", got)
	}
}

func TestCompactLengthLarge(t *testing.T) {
	e := NewEncoder()
	e.WriteCompactLength(300)
	d := NewDecoder(e.Bytes())
	got, err := d.ReadCompactLength()
	if err != nil || got != 300 {
		t.Fatalf("ReadCompactLength = %d, %v", got, err)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.WriteBytes([]byte("hello world"))
	d := NewDecoder(e.Bytes())
	got, err := d.ReadBytes()
	if err != nil || !bytes.Equal(got, []byte("hello world")) {
		t.Fatalf("ReadBytes = %q, %v", got, err)
	}
}

func TestReadPastEndReturnsErrShortBuffer(t *testing.T) {
	d := NewDecoder([]byte{0x01})
	if _, err := d.ReadUint32(); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestTicketEnvelopeRoundTrip(t *testing.T) {
	sig := bytes.Repeat([]byte{0xab}, 96)
	enc := EncodeTicketEnvelope(3, sig)
	attempt, gotSig, err := DecodeTicketEnvelope(enc)
	if err != nil {
		t.Fatalf("DecodeTicketEnvelope: %v", err)
	}
	if attempt != 3 || !bytes.Equal(gotSig, sig) {
		t.Fatalf("round trip mismatch: attempt=%d sig=%x", attempt, gotSig)
	}
}
