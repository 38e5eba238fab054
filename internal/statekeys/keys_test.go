package statekeys

import (
	"testing"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
)

func TestSimpleKeysAreTrailingZero(t *testing.T) {
	k := Simple(ComponentSafrole)
	if k[0] != byte(ComponentSafrole) {
		t.Fatalf("k[0] = %d, want %d", k[0], ComponentSafrole)
	}
	for i := 1; i < len(k); i++ {
		if k[i] != 0 {
			t.Fatalf("byte %d should be zero, got %d", i, k[i])
		}
	}
}

func TestServiceBaseInterleavesIDAndMarksBytes(t *testing.T) {
	k := ServiceBase(state.ServiceID(0x01020304))
	if k[0] != 0x04 || k[2] != 0xff || k[4] != 0xff || k[6] != 0xff {
		t.Fatalf("unexpected service base key: %x", k)
	}
}

func TestStorageKeyDiffersFromServiceBase(t *testing.T) {
	base := ServiceBase(state.ServiceID(7))
	storage := Storage(state.ServiceID(7), jam.Hash{0xde, 0xad})
	if base == storage {
		t.Fatalf("storage key should differ from the service base key")
	}
	if storage[0] != base[0] {
		t.Fatalf("storage key should carry the same interleaved service id")
	}
}

func TestServiceIDFromBaseKeyRoundTrips(t *testing.T) {
	k := ServiceBase(state.ServiceID(42))
	id, ok := ServiceIDFromBaseKey(k)
	if !ok || id != 42 {
		t.Fatalf("ServiceIDFromBaseKey = (%d, %v), want (42, true)", id, ok)
	}
}

func TestServiceIDFromBaseKeyRejectsNonBaseKey(t *testing.T) {
	k := Storage(state.ServiceID(7), jam.Hash{0xde, 0xad})
	if _, ok := ServiceIDFromBaseKey(k); ok {
		t.Fatalf("storage key should not be mistaken for a service base key")
	}
}

func TestStorageKeyDeterministic(t *testing.T) {
	h := jam.Hash{0x01, 0x02, 0x03}
	a := Storage(state.ServiceID(9), h)
	b := Storage(state.ServiceID(9), h)
	if a != b {
		t.Fatalf("same inputs should yield the same key")
	}
}
