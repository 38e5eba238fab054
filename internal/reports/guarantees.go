package reports

import (
	"errors"
	"sort"

	"github.com/jamnode/jam/internal/assignment"
	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
)

// Error sentinels for guarantee acceptance (spec.md §4.4).
var (
	ErrDuplicatePackageInGuarantees = errors.New("reports: duplicate work-package hash within guarantee batch")
	ErrCoreEngaged                  = errors.New("reports: core already has a pending report")
	ErrBadGuarantorSignature        = errors.New("reports: guarantor not assigned to this core at the guarantee slot")
	ErrDependencyMissing            = errors.New("reports: dependency does not resolve to a known report")
	ErrSegmentRootLookupInvalid     = errors.New("reports: segment-root lookup does not resolve")
	ErrTooManyDependencies          = errors.New("reports: report exceeds the maximum dependency count")
	ErrNotAuthorized                = errors.New("reports: authorizer hash not present in the core's pool")
)

// GuarantorSignature is one validator's signature over a guaranteed report.
type GuarantorSignature struct {
	Validator jam.ValidatorIndex
	Signature []byte
}

// Guarantee is one work report plus its guarantor signatures, as it
// arrives in a block's guarantees extrinsic.
type Guarantee struct {
	Report     state.WorkReport
	Signatures []GuarantorSignature
}

// AssignmentSource supplies the guarantor assignment for a given slot,
// selecting current- or previous-epoch entropy per spec.md §4.6.
type AssignmentSource func(params jam.Params, slot jam.Slot) assignment.Assignment

// AcceptGuarantees validates and installs a batch of guarantees into ρ′
// (spec.md §4.4). currentSlot is s′; assignmentFor resolves the guarantor
// assignment active at a guarantee's own slot.
func AcceptGuarantees(env *state.Envelope, params jam.Params, currentSlot jam.Slot, guarantees []Guarantee, assignmentFor AssignmentSource) error {
	if err := checkBatchDuplicates(guarantees); err != nil {
		return err
	}

	history := *env.EnsureHistory()
	pending := *env.EnsurePending()
	authPools := *env.EnsureAuthPools()

	batchHashes := make(map[jam.Hash]bool, len(guarantees))
	for _, g := range guarantees {
		batchHashes[g.Report.WorkPackageHash] = true
	}

	for _, g := range guarantees {
		if historyContainsPackage(history, g.Report.WorkPackageHash) {
			return ErrDuplicatePackage
		}
		core := int(g.Report.Core)
		if core < 0 || core >= len(pending) {
			return ErrCoreEngaged
		}
		if pending[core] != nil {
			return ErrCoreEngaged
		}
		if len(g.Report.Dependencies) > params.MaxDependenciesPerReport {
			return ErrTooManyDependencies
		}
		if !assignment.ValidGuaranteeSlot(params, g.Report.Slot, currentSlot) {
			return assignment.ErrSlotOutsideWindow
		}

		assign := assignmentFor(params, g.Report.Slot)
		for _, sig := range g.Signatures {
			assignedCore, ok := assign.CoreOf(sig.Validator)
			if !ok || assignedCore != g.Report.Core {
				return ErrBadGuarantorSignature
			}
		}

		for _, dep := range g.Report.Dependencies {
			if !historyContainsPackage(history, dep) && !batchHashes[dep] {
				return ErrDependencyMissing
			}
		}
		for _, lookup := range g.Report.SegmentRootLooks {
			if !historyContainsPackage(history, lookup) && !batchHashes[lookup] {
				return ErrSegmentRootLookupInvalid
			}
		}

		pool := authPools[core]
		idx := indexOfHash(pool, g.Report.AuthorizerHash)
		if idx < 0 {
			return ErrNotAuthorized
		}
		authPools[core] = append(append([]jam.Hash(nil), pool[:idx]...), pool[idx+1:]...)

		pending[core] = &state.PendingReport{
			Report: g.Report,
			Slot:   g.Report.Slot,
		}
	}

	*env.EnsurePending() = pending
	*env.EnsureAuthPools() = authPools
	return nil
}

func checkBatchDuplicates(guarantees []Guarantee) error {
	seen := make(map[jam.Hash]bool, len(guarantees))
	for _, g := range guarantees {
		if seen[g.Report.WorkPackageHash] {
			return ErrDuplicatePackageInGuarantees
		}
		seen[g.Report.WorkPackageHash] = true
	}
	return nil
}

func indexOfHash(hashes []jam.Hash, target jam.Hash) int {
	for i, h := range hashes {
		if h == target {
			return i
		}
	}
	return -1
}

// sortedCores returns the core indices with a pending report, ascending.
func sortedCores(pending []*state.PendingReport) []int {
	var cores []int
	for c, p := range pending {
		if p != nil {
			cores = append(cores, c)
		}
	}
	sort.Ints(cores)
	return cores
}
