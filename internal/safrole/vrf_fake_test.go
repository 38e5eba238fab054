package safrole

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
)

// fakeRingVRF is a deterministic test double for the opaque RingVRF
// capability (spec.md §9: "never exercise the cryptographic primitive
// inside tests except through these interfaces"). It derives an output
// from the signature bytes alone, independent of the domain-tag prefix
// baked into Input, which is what spec.md §8's seal/fallback equivalence
// property requires: the same (key, ticket-identity) pair must produce the
// same output whether reached via the ring path or the direct path.
//
// A signature here is simply: 32-byte identity marker ‖ domain-independent
// marker. SingleVerify/BatchVerify treat any non-empty signature as valid;
// DirectVerify does the same. This is intentionally not a cryptographic
// simulation — it only has to satisfy the equivalence and batch-ordering
// contracts the STF depends on.
type fakeRingVRF struct {
	fail map[int]bool // item indices to force-fail, keyed by call order
}

var errFakeVerifyFailed = errors.New("fakeRingVRF: forced failure")

func (f *fakeRingVRF) SingleVerify(_ RingCommitment, _ int, item RingVRFItem) (VRFOutput, error) {
	if len(item.Signature) == 0 {
		return VRFOutput{}, errFakeVerifyFailed
	}
	return ticketIdentity(item.Signature), nil
}

func (f *fakeRingVRF) BatchVerify(commitment RingCommitment, ringSize int, items []RingVRFItem) ([]VRFOutput, error) {
	out := make([]VRFOutput, len(items))
	for i, it := range items {
		if f.fail[i] {
			return nil, wrapBatchErr(i, errFakeVerifyFailed)
		}
		o, err := f.SingleVerify(commitment, ringSize, it)
		if err != nil {
			return nil, wrapBatchErr(i, err)
		}
		out[i] = o
	}
	return out, nil
}

func (f *fakeRingVRF) DirectVerify(_ jam.BandersnatchKey, item RingVRFItem) (VRFOutput, error) {
	return f.SingleVerify(nil, 0, item)
}

// ticketIdentity takes the leading signature bytes as the output,
// deliberately ignoring the Input domain tag, so that a ticket-path
// verification and a fallback-path verification of "the same signing
// intent" compare equal regardless of which domain string (§4.3's
// "jam_ticket_seal" vs "jam_ticket_fallback") produced the call. Outputs
// therefore sort in the same order as the signatures that produced them.
func ticketIdentity(sig []byte) VRFOutput {
	var out VRFOutput
	copy(out[:], sig)
	return out
}
