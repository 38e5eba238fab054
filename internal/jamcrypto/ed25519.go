package jamcrypto

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/jamnode/jam/internal/jam"
)

// ErrBatchVerifyFailed is returned by BatchVerifyEd25519 when any item in
// the batch fails; the returned error wraps it together with the index of
// the first failing item.
var ErrBatchVerifyFailed = errors.New("jamcrypto: ed25519 batch verification failed")

// Ed25519SignItem is one signature to verify in a batch: a judgement
// ("jam_valid"/"jam_invalid" ‖ target) or a guarantor attestation.
type Ed25519SignItem struct {
	PubKey    jam.Ed25519Key
	Message   []byte
	Signature [64]byte
}

// BatchVerifyEd25519 verifies the items one by one in input order and stops
// at the first failure, returning ErrBatchVerifyFailed wrapped with that
// item's index ("...: item 3"). It returns nil when every item verifies.
func BatchVerifyEd25519(items []Ed25519SignItem) error {
	for i, it := range items {
		if !ed25519.Verify(it.PubKey[:], it.Message, it.Signature[:]) {
			return fmt.Errorf("%w: item %d", ErrBatchVerifyFailed, i)
		}
	}
	return nil
}

// VerifyEd25519 verifies a single signature.
func VerifyEd25519(pub jam.Ed25519Key, message []byte, sig [64]byte) bool {
	return ed25519.Verify(pub[:], message, sig[:])
}
