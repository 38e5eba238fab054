package jamcrypto

import "testing"

func TestHash256Deterministic(t *testing.T) {
	a := Hash256([]byte("alpha"), []byte("beta"))
	b := Hash256([]byte("alpha"), []byte("beta"))
	if a != b {
		t.Fatalf("Hash256 is not deterministic: %x vs %x", a, b)
	}
}

func TestHash256DiffersOnOrder(t *testing.T) {
	a := Hash256([]byte("alpha"), []byte("beta"))
	b := Hash256([]byte("beta"), []byte("alpha"))
	if a == b {
		t.Fatalf("Hash256 should be sensitive to part order")
	}
}

func TestHash256BytesMatchesHash256(t *testing.T) {
	h := Hash256([]byte("gamma"))
	b := Hash256Bytes([]byte("gamma"))
	if string(h[:]) != string(b) {
		t.Fatalf("Hash256Bytes disagrees with Hash256")
	}
}
