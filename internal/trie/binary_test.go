package trie

import (
	"bytes"
	"testing"
)

func key(b byte) Key {
	var k Key
	k[0] = b
	return k
}

func TestPutGetRoundTrip(t *testing.T) {
	tr := New()
	tr.Put(key(1), []byte("alpha"))
	tr.Put(key(2), []byte("beta"))

	got, err := tr.Get(key(1))
	if err != nil || !bytes.Equal(got, []byte("alpha")) {
		t.Fatalf("Get(1) = %q, %v", got, err)
	}
	got, err = tr.Get(key(2))
	if err != nil || !bytes.Equal(got, []byte("beta")) {
		t.Fatalf("Get(2) = %q, %v", got, err)
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	tr := New()
	tr.Put(key(1), []byte("alpha"))
	if _, err := tr.Get(key(9)); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesKey(t *testing.T) {
	tr := New()
	tr.Put(key(1), []byte("alpha"))
	tr.Put(key(2), []byte("beta"))
	tr.Delete(key(1))
	if _, err := tr.Get(key(1)); err != ErrNotFound {
		t.Fatalf("key 1 should be gone, got err=%v", err)
	}
	if got, err := tr.Get(key(2)); err != nil || !bytes.Equal(got, []byte("beta")) {
		t.Fatalf("key 2 should survive deletion of key 1")
	}
}

func TestEmptyTrieHasZeroRoot(t *testing.T) {
	tr := New()
	if tr.Root() != ([32]byte{}) {
		t.Fatalf("empty trie root should be zero")
	}
	if !tr.Empty() {
		t.Fatalf("new trie should report empty")
	}
}

func TestRootInsertionOrderIndependent(t *testing.T) {
	a := New()
	a.Put(key(1), []byte("alpha"))
	a.Put(key(2), []byte("beta"))
	a.Put(key(3), []byte("gamma"))

	b := New()
	b.Put(key(3), []byte("gamma"))
	b.Put(key(1), []byte("alpha"))
	b.Put(key(2), []byte("beta"))

	if a.Root() != b.Root() {
		t.Fatalf("root should be independent of insertion order")
	}
}

func TestRootChangesOnMutation(t *testing.T) {
	tr := New()
	tr.Put(key(1), []byte("alpha"))
	r1 := tr.Root()
	tr.Put(key(1), []byte("alpha2"))
	r2 := tr.Root()
	if r1 == r2 {
		t.Fatalf("root should change when a value changes")
	}
}

func TestLeafWithLongValueIsHashed(t *testing.T) {
	tr := New()
	long := bytes.Repeat([]byte{0xab}, 64)
	tr.Put(key(1), long)
	got, err := tr.Get(key(1))
	if err != nil || !bytes.Equal(got, long) {
		t.Fatalf("long value round-trip failed: %v", err)
	}
	if tr.Root() == ([32]byte{}) {
		t.Fatalf("root should be non-zero for a populated trie")
	}
}

func TestLen(t *testing.T) {
	tr := New()
	tr.Put(key(1), []byte("a"))
	tr.Put(key(2), []byte("b"))
	tr.Put(key(3), []byte("c"))
	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
	tr.Delete(key(2))
	if tr.Len() != 2 {
		t.Fatalf("Len() after delete = %d, want 2", tr.Len())
	}
}
