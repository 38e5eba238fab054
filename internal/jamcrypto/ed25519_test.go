package jamcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/jamnode/jam/internal/jam"
)

func signItem(t *testing.T, msg []byte) Ed25519SignItem {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	sig := ed25519.Sign(priv, msg)
	var item Ed25519SignItem
	copy(item.PubKey[:], pub)
	copy(item.Signature[:], sig)
	item.Message = msg
	return item
}

func TestVerifyEd25519RoundTrip(t *testing.T) {
	item := signItem(t, []byte("jam_valid"))
	if !VerifyEd25519(jam.Ed25519Key(item.PubKey), item.Message, item.Signature) {
		t.Fatalf("valid signature rejected")
	}
}

func TestVerifyEd25519RejectsTamperedMessage(t *testing.T) {
	item := signItem(t, []byte("jam_valid"))
	if VerifyEd25519(jam.Ed25519Key(item.PubKey), []byte("jam_invalid"), item.Signature) {
		t.Fatalf("tampered message should not verify")
	}
}

func TestBatchVerifyEd25519AllValid(t *testing.T) {
	items := []Ed25519SignItem{
		signItem(t, []byte("one")),
		signItem(t, []byte("two")),
		signItem(t, []byte("three")),
	}
	if err := BatchVerifyEd25519(items); err != nil {
		t.Fatalf("BatchVerifyEd25519: %v", err)
	}
}

func TestBatchVerifyEd25519FailsOnFirstBadItem(t *testing.T) {
	items := []Ed25519SignItem{
		signItem(t, []byte("one")),
		signItem(t, []byte("two")),
	}
	items[1].Message = []byte("tampered")

	err := BatchVerifyEd25519(items)
	if err == nil {
		t.Fatalf("expected a batch verification error")
	}
}
