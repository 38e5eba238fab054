// Package stf orchestrates the block-import state-transition function: the
// fixed sub-transition order from spec.md §2 (time/entropy advance →
// Safrole ticket/seal checks → dispute processing → guarantee acceptance
// → assurance tallying → availability-triggered accumulation → statistics
// update), implementing the abort-and-discard error semantics of spec.md
// §7. No preimage integration step is performed: Block carries no preimage
// extrinsic.
package stf

import (
	"github.com/jamnode/jam/internal/assignment"
	"github.com/jamnode/jam/internal/disputes"
	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/log"
	"github.com/jamnode/jam/internal/merkle"
	"github.com/jamnode/jam/internal/reports"
	"github.com/jamnode/jam/internal/safrole"
	"github.com/jamnode/jam/internal/state"
)

var logger = log.Default().Module("stf")

// Block is the minimal shape of a block the STF consumes: a header hash
// and slot, a seal, plus the four extrinsics (tickets, disputes,
// guarantees, assurances) that feed the sub-transitions.
type Block struct {
	HeaderHash jam.Hash
	Slot       jam.Slot
	Author     jam.ValidatorIndex

	// PriorStateRoot is the root of the state this block is importing
	// against (spec.md §3: every β entry names "the state root at
	// post-state" of its own block, which by construction cannot be known
	// until the following block is imported). Import uses it to backfill
	// the most recent existing β entry — the one describing this block's
	// parent — rather than trying to embed a state root inside the very
	// state it describes.
	PriorStateRoot jam.Hash

	Tickets      []safrole.TicketEnvelope
	Seal         safrole.Seal
	SealIsTicket bool
	SealAttempt  uint8

	Disputes   disputes.Extrinsic
	Guarantees []reports.Guarantee
	Assurances []reports.Assurance
}

// Deps bundles the capability interfaces STF treats as opaque boundaries
// (spec.md §1 non-goals): the ring-VRF verifier and the service-code
// accumulator.
type Deps struct {
	VRF         safrole.RingVRF
	Accumulator reports.Accumulator
}

// Import runs the full STF over base with block B, returning the
// committed successor state or an error. On any error the envelope is
// discarded and base is returned untouched (spec.md §7: "the STF aborts
// on the first error and discards σ′. No partial state is committed.").
func Import(base *state.State, params jam.Params, b Block, deps Deps) (*state.State, error) {
	env := state.New(base)
	blockLogger := logger.AtSlot(params, b.Slot)

	if err := safrole.AdvanceTimeAndEntropy(env, params, b.Slot, b.HeaderHash); err != nil {
		blockLogger.Warn("time/entropy advance failed", "err", err)
		env.Discard()
		return base, err
	}

	slotInEpoch := params.SlotInEpoch(b.Slot)
	if err := safrole.SubmitTickets(env, params, deps.VRF, slotInEpoch, b.Tickets); err != nil {
		blockLogger.Warn("ticket submission failed", "err", err)
		env.Discard()
		return base, err
	}

	sf := env.EnsureSafrole()
	eta3 := env.EnsureEntropy()[3]
	if b.SealIsTicket {
		if _, err := safrole.VerifyTicketSeal(deps.VRF, safrole.RingCommitment(sf.RingCommitment), params.ValidatorCount, eta3, b.SealAttempt, b.Seal); err != nil {
			blockLogger.Warn("ticket seal verification failed", "err", err)
			env.Discard()
			return base, err
		}
	} else {
		vs := env.EnsureValidators()
		key, ok := safrole.ScheduledFallbackKey(sf, slotInEpoch)
		if !ok && len(vs.Active) > 0 {
			key = vs.Active[slotInEpoch%len(vs.Active)].Bandersnatch
		}
		if _, err := safrole.VerifyFallbackSeal(deps.VRF, key, eta3, b.Seal); err != nil {
			blockLogger.Warn("fallback seal verification failed", "err", err)
			env.Discard()
			return base, err
		}
	}

	vs := env.EnsureValidators()
	currentEpoch := params.EpochOf(b.Slot)
	if err := disputes.AcceptExtrinsic(env, params, currentEpoch, b.Disputes, vs.Active, vs.Prior); err != nil {
		blockLogger.Warn("disputes extrinsic rejected", "err", err)
		env.Discard()
		return base, err
	}

	assignFor := func(p jam.Params, slot jam.Slot) assignment.Assignment {
		entropy := env.EnsureEntropy()
		seed := assignment.ForGuarantee(p, slot, b.Slot, entropy[2], entropy[3])
		return assignment.Compute(p, seed, p.Rotation(slot))
	}
	if err := reports.AcceptGuarantees(env, params, b.Slot, b.Guarantees, assignFor); err != nil {
		blockLogger.Warn("guarantee acceptance failed", "err", err)
		env.Discard()
		return base, err
	}

	available, err := reports.TallyAvailable(env, params, b.Assurances)
	if err != nil {
		blockLogger.Warn("assurance tally failed", "err", err)
		env.Discard()
		return base, err
	}

	// Backfill the parent block's β entry with the state root this block
	// was imported against, now that it is known (see Block.PriorStateRoot).
	if history := *env.EnsureHistory(); len(history) > 0 {
		history[len(history)-1].StateRoot = b.PriorStateRoot
		*env.EnsureHistory() = history
	}

	if len(available) > 0 {
		services := *env.EnsureServices()
		if err := env.InitServicesDagger(services); err != nil {
			env.Discard()
			return base, err
		}
		entries, err := reports.Accumulate(env, deps.Accumulator, available)
		if err != nil {
			blockLogger.Warn("accumulation failed", "err", err)
			env.Discard()
			return base, err
		}
		if err := reports.ShiftWindow(env, params, entries); err != nil {
			blockLogger.Warn("accumulated-reports window shift failed", "err", err)
			env.Discard()
			return base, err
		}
		newServices, err := env.ServicesDagger()
		if err != nil {
			env.Discard()
			return base, err
		}
		*env.EnsureServices() = newServices

		historyEntry := state.HistoryEntry{HeaderHash: b.HeaderHash}
		if history := *env.EnsureHistory(); len(history) > 0 {
			carried := merkle.MMR{Peaks: history[len(history)-1].MMRPeaks}
			historyEntry.MMRPeaks = carried.Clone().Peaks
		}
		for i, r := range available {
			historyEntry.Reports = append(historyEntry.Reports, state.WorkReportSummary{
				WorkPackageHash: r.WorkPackageHash,
				ReportHash:      entries[i].ReportHash,
				SegmentRoot:     entries[i].SegmentRoot,
			})
			reports.AppendMMR(&historyEntry, entries[i].ReportHash)
		}
		// historyEntry.StateRoot is left zero: it records the state after
		// THIS block, which is only known once the next block is imported
		// (see the backfill above).
		if err := reports.PromoteEntry(env, params, historyEntry); err != nil {
			blockLogger.Warn("history promotion failed", "err", err)
			env.Discard()
			return base, err
		}
	} else if err := reports.ShiftWindow(env, params, nil); err != nil {
		blockLogger.Warn("accumulated-reports window shift failed", "err", err)
		env.Discard()
		return base, err
	}

	updateStats(env, params, b)

	return env.Commit(), nil
}

// updateStats bumps π's per-validator counters for this block (spec.md
// §3: blocks authored, tickets submitted, reports, assurances).
func updateStats(env *state.Envelope, params jam.Params, b Block) {
	stats := env.EnsureStats()
	for len(stats.Validators) < params.ValidatorCount {
		stats.Validators = append(stats.Validators, state.ValidatorStats{})
	}
	if int(b.Author) < len(stats.Validators) {
		stats.Validators[b.Author].BlocksAuthored++
		stats.Validators[b.Author].Tickets += len(b.Tickets)
		stats.Validators[b.Author].Reports += len(b.Guarantees)
		stats.Validators[b.Author].Assurances += len(b.Assurances)
	}
}
