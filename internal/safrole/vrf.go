package safrole

import (
	"errors"
	"fmt"

	"github.com/jamnode/jam/internal/jam"
)

// VRFOutput is the 32-byte deterministic output of a ring-VRF or direct-VRF
// evaluation; it doubles as a ticket id.
type VRFOutput [32]byte

// RingCommitment is the opaque ring-VRF commitment carried in γ.z, computed
// over the next-epoch Bandersnatch key ring.
type RingCommitment []byte

// RingVRFItem is one signature to verify: the VRF input string, auxiliary
// data (always empty for ticket envelopes per spec.md §4.3), and the
// ring-VRF signature bytes.
type RingVRFItem struct {
	Input     []byte
	Aux       []byte
	Signature []byte
}

// ErrRingBatchVerifyFailed wraps the semantic error of the first failing
// item in a ring-VRF batch (spec.md §5).
var ErrRingBatchVerifyFailed = errors.New("safrole: ring-VRF batch verification failed")

// RingVRF is the opaque capability the STF uses for ring-VRF signature
// verification. The ring-VRF cryptographic primitive itself is a non-goal
// of this implementation (spec.md §1, §9): callers only ever see
// single-verify, batch-verify, and the output they extract, never the
// signature scheme's internals. Production wiring wraps a real Bandersnatch
// ring-VRF library behind this interface; tests use a deterministic double
// (see fakeRingVRF in vrf_fake_test.go) that preserves the seal/fallback
// output-equivalence relation spec.md §8 requires.
type RingVRF interface {
	// SingleVerify verifies one ring-VRF signature against a commitment
	// over a ring of the given size, returning its deterministic output.
	SingleVerify(commitment RingCommitment, ringSize int, item RingVRFItem) (VRFOutput, error)

	// BatchVerify verifies every item against the same commitment/ring and
	// returns one output per item, in input order. On the first failure it
	// returns a batch-scoped error wrapping that item's semantic cause.
	BatchVerify(commitment RingCommitment, ringSize int, items []RingVRFItem) ([]VRFOutput, error)

	// DirectVerify verifies a non-ring VRF signature produced directly by
	// signerKey (the fallback seal path), returning the same deterministic
	// output a ring verification of the same (key, input) would produce.
	DirectVerify(signerKey jam.BandersnatchKey, item RingVRFItem) (VRFOutput, error)
}

func wrapBatchErr(idx int, err error) error {
	return fmt.Errorf("%w: item %d: %v", ErrRingBatchVerifyFailed, idx, err)
}
