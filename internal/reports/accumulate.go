package reports

import (
	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
)

// AccumulationResult is what running a work report's code produces. The
// PVM itself is out of scope for this spec; Accumulator is the capability
// boundary a real VM sits behind, mirroring the ring-VRF capability
// pattern used for Safrole seal verification.
type AccumulationResult struct {
	Service      state.ServiceID
	StorageRoot  jam.Hash
	PreimageRoot jam.Hash
	GasUsed      uint64
	SegmentRoot  jam.Hash
}

// Accumulator runs a work report's accumulation logic. Implementations are
// expected to be deterministic given (report, prior service state).
type Accumulator interface {
	Accumulate(report state.WorkReport, services map[state.ServiceID]*state.ServiceAccount) (AccumulationResult, error)
}

// Accumulate runs accumulation over the given available reports (already
// ascending by core index per TallyAvailable), folding results into δ‡,
// χ's always-accumulate gas ledger, and π's per-service counters. It
// returns the (report hash → segment-tree root) entries for the newest ξ
// slot (spec.md §4.5).
func Accumulate(env *state.Envelope, acc Accumulator, reports []state.WorkReport) ([]state.AccumulatedEntry, error) {
	services, err := env.ServicesDagger()
	if err != nil {
		return nil, err
	}

	priv := *env.EnsurePrivileged()
	stats := *env.EnsureStats()
	if stats.ServiceData == nil {
		stats.ServiceData = make(map[state.ServiceID]state.ServiceStats)
	}

	entries := make([]state.AccumulatedEntry, 0, len(reports))
	for _, report := range reports {
		result, err := acc.Accumulate(report, services)
		if err != nil {
			return nil, err
		}

		svc, ok := services[result.Service]
		if ok {
			svc.StorageRoot = result.StorageRoot
			svc.PreimageRoot = result.PreimageRoot
		}

		sd := stats.ServiceData[result.Service]
		sd.GasUsed += result.GasUsed
		stats.ServiceData[result.Service] = sd

		if gas, always := priv.AlwaysAccumulate[result.Service]; always {
			priv.AlwaysAccumulate[result.Service] = gas + result.GasUsed
		}

		reportHash := jam.Hash{}
		copy(reportHash[:], report.WorkPackageHash[:])
		entries = append(entries, state.AccumulatedEntry{
			ReportHash:  reportHash,
			SegmentRoot: result.SegmentRoot,
		})
	}

	env.OverwriteServicesDagger(services)
	*env.EnsurePrivileged() = priv
	*env.EnsureStats() = stats
	return entries, nil
}
