package disputes

import (
	"crypto/ed25519"
	"testing"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
)

func signedVote(t *testing.T, priv ed25519.PrivateKey, idx jam.ValidatorIndex, target jam.Hash, positive bool) Vote {
	t.Helper()
	domain := sealInvalidDomain
	if positive {
		domain = sealValidDomain
	}
	msg := append([]byte(domain), target[:]...)
	sig := ed25519.Sign(priv, msg)
	return Vote{Validator: idx, Positive: positive, Signature: sig}
}

func validatorSet(n int) ([]jam.ValidatorDescriptor, []ed25519.PrivateKey) {
	set := make([]jam.ValidatorDescriptor, n)
	privs := make([]ed25519.PrivateKey, n)
	for i := 0; i < n; i++ {
		pub, priv, _ := ed25519.GenerateKey(nil)
		var k jam.Ed25519Key
		copy(k[:], pub)
		set[i].Ed25519 = k
		privs[i] = priv
	}
	return set, privs
}

func TestAcceptExtrinsicGoodVerdict(t *testing.T) {
	active, privs := validatorSet(3)
	target := jam.Hash{0xaa}

	votes := []Vote{
		signedVote(t, privs[0], 0, target, true),
		signedVote(t, privs[1], 1, target, true),
		signedVote(t, privs[2], 2, target, true),
	}
	ex := Extrinsic{
		Verdicts: []Verdict{{Target: target, Age: 5, Votes: votes}},
		Faults:   []Fault{{Key: jam.Ed25519Key{0x1}, Target: target, Vote: false}},
	}

	env := state.New(&state.State{})
	params := jam.Params{ValidatorCount: 3}
	if err := AcceptExtrinsic(env, params, 5, ex, active, nil); err != nil {
		t.Fatalf("AcceptExtrinsic: %v", err)
	}
	d := *env.EnsureDisputes()
	if len(d.Good) != 1 || d.Good[0] != target {
		t.Fatalf("target should have joined the good set: %+v", d)
	}
}

func TestAcceptExtrinsicBadVerdictRequiresTwoCulprits(t *testing.T) {
	active, privs := validatorSet(3)
	target := jam.Hash{0xbb}
	votes := []Vote{
		signedVote(t, privs[0], 0, target, false),
		signedVote(t, privs[1], 1, target, false),
		signedVote(t, privs[2], 2, target, false),
	}
	ex := Extrinsic{Verdicts: []Verdict{{Target: target, Age: 0, Votes: votes}}}

	env := state.New(&state.State{})
	params := jam.Params{ValidatorCount: 3}
	if err := AcceptExtrinsic(env, params, 0, ex, active, nil); err != ErrBadVoteSplit {
		t.Fatalf("expected ErrBadVoteSplit (missing culprits), got %v", err)
	}
}

func TestAcceptExtrinsicRejectsAlreadyJudged(t *testing.T) {
	active, privs := validatorSet(3)
	target := jam.Hash{0xcc}
	votes := []Vote{
		signedVote(t, privs[0], 0, target, true),
		signedVote(t, privs[1], 1, target, true),
		signedVote(t, privs[2], 2, target, true),
	}
	base := &state.State{Disputes: state.Disputes{Good: []jam.Hash{target}}}
	env := state.New(base)
	params := jam.Params{ValidatorCount: 3}
	ex := Extrinsic{Verdicts: []Verdict{{Target: target, Age: 0, Votes: votes}}}
	if err := AcceptExtrinsic(env, params, 0, ex, active, nil); err != ErrAlreadyJudged {
		t.Fatalf("expected ErrAlreadyJudged, got %v", err)
	}
}

func TestAcceptExtrinsicRejectsUnsortedVerdicts(t *testing.T) {
	active, _ := validatorSet(3)
	env := state.New(&state.State{})
	params := jam.Params{ValidatorCount: 3}
	ex := Extrinsic{Verdicts: []Verdict{
		{Target: jam.Hash{0x2}},
		{Target: jam.Hash{0x1}},
	}}
	if err := AcceptExtrinsic(env, params, 0, ex, active, nil); err != ErrVerdictsNotSorted {
		t.Fatalf("expected ErrVerdictsNotSorted, got %v", err)
	}
}

func TestAcceptExtrinsicRejectsDuplicateOffender(t *testing.T) {
	active, _ := validatorSet(3)
	env := state.New(&state.State{Disputes: state.Disputes{Punished: []jam.Ed25519Key{{0x9}}}})
	params := jam.Params{ValidatorCount: 3}
	ex := Extrinsic{Culprits: []Culprit{{Key: jam.Ed25519Key{0x9}, Target: jam.Hash{0x1}}}}
	if err := AcceptExtrinsic(env, params, 0, ex, active, nil); err != ErrOffenderAlreadyReported {
		t.Fatalf("expected ErrOffenderAlreadyReported, got %v", err)
	}
}
