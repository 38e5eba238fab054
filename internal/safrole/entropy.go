package safrole

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/jamcrypto"
	"github.com/jamnode/jam/internal/state"
)

// ErrZeroSlotAdvance is returned when a block attempts to advance time by
// zero slots (spec.md §4.2).
var ErrZeroSlotAdvance = errors.New("safrole: cannot advance time by zero slots")

// ErrInvalidValidatorKey is returned when a validator entering the active
// set at an epoch boundary carries a Bandersnatch key that does not
// decompress to a point on the curve (spec.md §3's validator-descriptor
// invariant).
var ErrInvalidValidatorKey = errors.New("safrole: validator entering active set carries an invalid bandersnatch key")

// AdvanceTimeAndEntropy runs the entropy/time sub-transition (spec.md
// §4.2): τ advances to newSlot, η₀ rotates via the Blake2b-256 hash step,
// and on an epoch boundary η shifts down and the validator sets rotate.
// Per spec.md §9's pinned ordering decision, this MUST run before ticket
// processing within the same block (see DESIGN.md "Open Question
// decisions").
func AdvanceTimeAndEntropy(env *state.Envelope, params jam.Params, newSlot jam.Slot, headerHash jam.Hash) error {
	base := env.Base()
	if newSlot <= base.Time {
		return ErrZeroSlotAdvance
	}

	prevEpoch := params.EpochOf(base.Time)
	newEpoch := params.EpochOf(newSlot)

	entropy := env.EnsureEntropy()
	preUpdate := *entropy
	entropy[0] = jamcrypto.Hash256(entropy[0][:], headerHash[:])

	if newEpoch != prevEpoch {
		// Shift uses the PRE-update pool (spec.md §4.2: "previous η₀",
		// "previous η₁", "previous η₂" name the values this block's hash
		// step has not yet touched), while η₀ itself keeps its freshly
		// hashed value.
		entropy[3] = preUpdate[2]
		entropy[2] = preUpdate[1]
		entropy[1] = preUpdate[0]

		vs := env.EnsureValidators()
		for _, v := range vs.Next {
			if !jamcrypto.ValidateBandersnatchKey(v.Bandersnatch) {
				return ErrInvalidValidatorKey
			}
		}
		vs.Prior = append([]jam.ValidatorDescriptor(nil), vs.Active...)
		vs.Active = append([]jam.ValidatorDescriptor(nil), vs.Next...)
		// ι (Next) is left unchanged. This transition does not update γ.k
		// (NextEpochKeys) or γ.z (RingCommitment): both keep their
		// pre-state values across the epoch boundary.

		nextEpochActiveKeys := make([]jam.BandersnatchKey, len(vs.Active))
		for i, v := range vs.Active {
			nextEpochActiveKeys[i] = v.Bandersnatch
		}
		FinalizeEpochTickets(env, params, nextEpochActiveKeys)
	}

	*env.EnsureTime() = newSlot
	return nil
}
