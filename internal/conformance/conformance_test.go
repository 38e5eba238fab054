package conformance

import (
	"testing"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/safrole"
	"github.com/jamnode/jam/internal/state"
	"github.com/jamnode/jam/internal/stf"
)

// fakeRingVRF is a deterministic double for the opaque ring-VRF boundary
// (safrole.RingVRF), scoped to this package's tests only.
type fakeRingVRF struct{}

func (fakeRingVRF) SingleVerify(_ safrole.RingCommitment, _ int, item safrole.RingVRFItem) (safrole.VRFOutput, error) {
	var out safrole.VRFOutput
	copy(out[:], item.Signature)
	return out, nil
}

func (f fakeRingVRF) BatchVerify(commitment safrole.RingCommitment, ringSize int, items []safrole.RingVRFItem) ([]safrole.VRFOutput, error) {
	out := make([]safrole.VRFOutput, len(items))
	for i, it := range items {
		o, err := f.SingleVerify(commitment, ringSize, it)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

func (f fakeRingVRF) DirectVerify(_ jam.BandersnatchKey, item safrole.RingVRFItem) (safrole.VRFOutput, error) {
	return f.SingleVerify(nil, 0, item)
}

func tinyDictionary() Dictionary {
	s := &state.State{
		Services: map[state.ServiceID]*state.ServiceAccount{},
	}
	return ToDictionary(s)
}

func TestToDictionaryFromDictionaryRoundTrip(t *testing.T) {
	s := &state.State{
		Time:     7,
		Services: map[state.ServiceID]*state.ServiceAccount{},
	}
	s.Entropy[0] = jam.Hash{0x1}
	s.Validators.Active = []jam.ValidatorDescriptor{{Ed25519: jam.Ed25519Key{0x2}}}
	s.Safrole.Variant = state.VariantFallback
	s.Safrole.FallbackKeys = []jam.BandersnatchKey{{0x3}}
	s.Disputes.Good = []jam.Hash{{0x4}}

	d := ToDictionary(s)
	got, err := FromDictionary(d)
	if err != nil {
		t.Fatalf("FromDictionary: %v", err)
	}
	if got.Time != s.Time {
		t.Fatalf("time mismatch: got %d want %d", got.Time, s.Time)
	}
	if got.Entropy[0] != s.Entropy[0] {
		t.Fatalf("entropy mismatch")
	}
	if len(got.Validators.Active) != 1 || got.Validators.Active[0].Ed25519 != s.Validators.Active[0].Ed25519 {
		t.Fatalf("validator mismatch: %+v", got.Validators.Active)
	}
	if got.Safrole.Variant != state.VariantFallback || len(got.Safrole.FallbackKeys) != 1 {
		t.Fatalf("safrole mismatch: %+v", got.Safrole)
	}
	if len(got.Disputes.Good) != 1 || got.Disputes.Good[0] != s.Disputes.Good[0] {
		t.Fatalf("disputes mismatch: %+v", got.Disputes)
	}
}

func TestRootIsDeterministic(t *testing.T) {
	d := tinyDictionary()
	r1 := Root(d)
	r2 := Root(d)
	if r1 != r2 {
		t.Fatalf("root not deterministic: %x vs %x", r1, r2)
	}
}

func TestApplyNoOpBlockCommits(t *testing.T) {
	base := &state.State{Services: map[state.ServiceID]*state.ServiceAccount{}}
	base.Safrole.Variant = state.VariantFallback
	base.Safrole.FallbackKeys = []jam.BandersnatchKey{{0x1}}
	base.Validators.Active = []jam.ValidatorDescriptor{{Bandersnatch: jam.BandersnatchKey{0x1}}}
	d := ToDictionary(base)

	params := jam.TinyParams()
	block := stf.Block{
		HeaderHash:   jam.Hash{0xaa},
		Slot:         1,
		Seal:         safrole.Seal{Signature: []byte{0x1}},
		SealIsTicket: false,
	}
	deps := stf.Deps{VRF: fakeRingVRF{}}

	_, _, err := Apply(d, params, block, deps)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
}
