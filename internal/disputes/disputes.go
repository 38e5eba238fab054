// Package disputes implements verdict/culprit/fault extrinsic acceptance
// (spec.md §4.7): good/bad/wonky verdict-set membership, offender-set
// bookkeeping, and the post-state consistency checks that tie them
// together.
package disputes

import (
	"bytes"
	"errors"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/jamcrypto"
	"github.com/jamnode/jam/internal/state"
)

// Error sentinels (spec.md §4.7).
var (
	ErrVerdictsNotSorted     = errors.New("disputes: verdicts must be strictly ascending by target hash")
	ErrCulpritsNotSorted     = errors.New("disputes: culprits must be strictly ascending by key")
	ErrFaultsNotSorted       = errors.New("disputes: faults must be strictly ascending by key")
	ErrVotesNotSorted        = errors.New("disputes: votes within a verdict must be strictly ascending by validator index")
	ErrBadJudgementAge       = errors.New("disputes: verdict age must be the current or immediately prior epoch")
	ErrBadJudgementSignature = errors.New("disputes: judgement signature does not verify")
	ErrBadVoteSplit          = errors.New("disputes: vote count does not match any recognized threshold")
	ErrOffenderAlreadyReported = errors.New("disputes: offender key already reported")
	ErrAlreadyJudged         = errors.New("disputes: target already present in a verdict set")
	ErrPostStateInvariant    = errors.New("disputes: post-state invariant violated")
)

const (
	sealValidDomain   = "jam_valid"
	sealInvalidDomain = "jam_invalid"
)

// Vote is one validator's judgement within a verdict.
type Vote struct {
	Validator jam.ValidatorIndex
	Positive  bool
	Signature []byte
}

// Verdict is a target hash's full judgement, at the epoch age it was
// raised.
type Verdict struct {
	Target jam.Hash
	Age    jam.Epoch
	Votes  []Vote
}

// Culprit names a key that authored the disputed (bad) report.
type Culprit struct {
	Key       jam.Ed25519Key
	Target    jam.Hash
	Signature []byte
}

// Fault names a key whose judgement vote disagreed with the final
// verdict.
type Fault struct {
	Key       jam.Ed25519Key
	Target    jam.Hash
	Vote      bool
	Signature []byte
}

// Extrinsic is the full disputes payload for one block.
type Extrinsic struct {
	Verdicts []Verdict
	Culprits []Culprit
	Faults   []Fault
}

// AcceptExtrinsic validates and folds a disputes extrinsic into ψ′
// (spec.md §4.7). currentEpoch is the epoch of the block under import;
// active and prior are the κ/λ validator sets used to resolve judgement
// signers by age.
func AcceptExtrinsic(env *state.Envelope, params jam.Params, currentEpoch jam.Epoch, ex Extrinsic, active, prior []jam.ValidatorDescriptor) error {
	if err := checkVerdictOrder(ex.Verdicts); err != nil {
		return err
	}
	if err := checkCulpritOrder(ex.Culprits); err != nil {
		return err
	}
	if err := checkFaultOrder(ex.Faults); err != nil {
		return err
	}

	disputes := *env.EnsureDisputes()
	alreadyJudged := func(target jam.Hash) bool {
		return containsHash(disputes.Good, target) || containsHash(disputes.Bad, target) || containsHash(disputes.Wonky, target)
	}

	type pendingTarget struct {
		target   jam.Hash
		bucket   bucketKind
		positive int
	}
	var pendings []pendingTarget

	for _, v := range ex.Verdicts {
		if alreadyJudged(v.Target) {
			return ErrAlreadyJudged
		}
		signer, err := signerSetForAge(v.Age, currentEpoch, active, prior)
		if err != nil {
			return err
		}
		if err := checkVoteOrder(v.Votes); err != nil {
			return err
		}

		positive := 0
		var items []jamcrypto.Ed25519SignItem
		for _, vote := range v.Votes {
			if int(vote.Validator) < 0 || int(vote.Validator) >= len(signer) {
				return ErrBadJudgementSignature
			}
			domain := sealInvalidDomain
			if vote.Positive {
				domain = sealValidDomain
				positive++
			}
			if len(vote.Signature) != 64 {
				return ErrBadJudgementSignature
			}
			var sig [64]byte
			copy(sig[:], vote.Signature)
			msg := append([]byte(domain), v.Target[:]...)
			items = append(items, jamcrypto.Ed25519SignItem{
				PubKey:    signer[vote.Validator].Ed25519,
				Message:   msg,
				Signature: sig,
			})
		}
		if err := jamcrypto.BatchVerifyEd25519(items); err != nil {
			return ErrBadJudgementSignature
		}

		bucket, err := classify(positive, params.ValidatorCount, ex.Culprits, ex.Faults, v.Target)
		if err != nil {
			return err
		}
		pendings = append(pendings, pendingTarget{target: v.Target, bucket: bucket, positive: positive})
	}

	offenders := make(map[jam.Ed25519Key]bool, len(disputes.Punished))
	for _, k := range disputes.Punished {
		offenders[k] = true
	}
	for _, c := range ex.Culprits {
		if offenders[c.Key] {
			return ErrOffenderAlreadyReported
		}
		offenders[c.Key] = true
	}
	for _, f := range ex.Faults {
		if offenders[f.Key] {
			return ErrOffenderAlreadyReported
		}
		offenders[f.Key] = true
	}

	for _, p := range pendings {
		switch p.bucket {
		case bucketGood:
			disputes.Good = append(disputes.Good, p.target)
		case bucketBad:
			disputes.Bad = append(disputes.Bad, p.target)
		case bucketWonky:
			disputes.Wonky = append(disputes.Wonky, p.target)
		}
	}
	var newPunished []jam.Ed25519Key
	for _, c := range ex.Culprits {
		newPunished = append(newPunished, c.Key)
	}
	for _, f := range ex.Faults {
		newPunished = append(newPunished, f.Key)
	}
	disputes.Punished = append(disputes.Punished, newPunished...)

	if err := checkPostStateInvariants(disputes, ex); err != nil {
		return err
	}

	*env.EnsureDisputes() = disputes
	return nil
}

// bucketKind names which verdict set a target joins.
type bucketKind int

const (
	bucketGood bucketKind = iota
	bucketBad
	bucketWonky
)

// classify maps a verdict's positive-vote count to its destination set
// (spec.md §4.7's threshold table), checking the set's extra requirement.
func classify(positive, validatorCount int, culprits []Culprit, faults []Fault, target jam.Hash) (bucketKind, error) {
	good := 2*validatorCount/3 + 1
	wonky := validatorCount / 3

	switch positive {
	case good:
		if countFaultsFor(faults, target) < 1 {
			return 0, ErrBadVoteSplit
		}
		return bucketGood, nil
	case 0:
		if countCulpritsFor(culprits, target) < 2 {
			return 0, ErrBadVoteSplit
		}
		return bucketBad, nil
	case wonky:
		return bucketWonky, nil
	default:
		return 0, ErrBadVoteSplit
	}
}

func countCulpritsFor(culprits []Culprit, target jam.Hash) int {
	n := 0
	for _, c := range culprits {
		if c.Target == target {
			n++
		}
	}
	return n
}

func countFaultsFor(faults []Fault, target jam.Hash) int {
	n := 0
	for _, f := range faults {
		if f.Target == target {
			n++
		}
	}
	return n
}

func signerSetForAge(age, current jam.Epoch, active, prior []jam.ValidatorDescriptor) ([]jam.ValidatorDescriptor, error) {
	switch {
	case age == current:
		return active, nil
	case age+1 == current:
		return prior, nil
	default:
		return nil, ErrBadJudgementAge
	}
}

func checkVerdictOrder(verdicts []Verdict) error {
	for i := 1; i < len(verdicts); i++ {
		if bytes.Compare(verdicts[i-1].Target[:], verdicts[i].Target[:]) >= 0 {
			return ErrVerdictsNotSorted
		}
	}
	return nil
}

func checkCulpritOrder(culprits []Culprit) error {
	for i := 1; i < len(culprits); i++ {
		if bytes.Compare(culprits[i-1].Key[:], culprits[i].Key[:]) >= 0 {
			return ErrCulpritsNotSorted
		}
	}
	return nil
}

func checkFaultOrder(faults []Fault) error {
	for i := 1; i < len(faults); i++ {
		if bytes.Compare(faults[i-1].Key[:], faults[i].Key[:]) >= 0 {
			return ErrFaultsNotSorted
		}
	}
	return nil
}

func checkVoteOrder(votes []Vote) error {
	for i := 1; i < len(votes); i++ {
		if votes[i-1].Validator >= votes[i].Validator {
			return ErrVotesNotSorted
		}
	}
	return nil
}

func checkPostStateInvariants(disputes state.Disputes, ex Extrinsic) error {
	for _, c := range ex.Culprits {
		if !containsHash(disputes.Bad, c.Target) {
			return ErrPostStateInvariant
		}
	}
	for _, f := range ex.Faults {
		if f.Vote {
			if !containsHash(disputes.Bad, f.Target) {
				return ErrPostStateInvariant
			}
		} else {
			if !containsHash(disputes.Good, f.Target) {
				return ErrPostStateInvariant
			}
		}
	}
	return nil
}

func containsHash(hashes []jam.Hash, target jam.Hash) bool {
	for _, h := range hashes {
		if h == target {
			return true
		}
	}
	return false
}
