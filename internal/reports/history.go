// Package reports implements the recent-history ring and work-report
// pipeline (spec.md §4.4, §4.5): guarantee acceptance into ρ, availability
// assurance tallying, availability-triggered accumulation, and the
// accumulated-reports window ξ.
package reports

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/merkle"
	"github.com/jamnode/jam/internal/state"
)

// ErrDuplicatePackage is returned when a guarantee's work-package hash
// already appears in any β entry.
var ErrDuplicatePackage = errors.New("reports: duplicate work-package hash in recent history")

// PromoteEntry appends a new β entry for a block whose reports have just
// completed accumulation, evicting the oldest entry once the FIFO is at
// its configured bound H (spec.md §4.4).
func PromoteEntry(env *state.Envelope, params jam.Params, entry state.HistoryEntry) error {
	history := *env.EnsureHistory()
	for _, h := range history {
		for _, r := range h.Reports {
			for _, nr := range entry.Reports {
				if r.WorkPackageHash == nr.WorkPackageHash {
					return ErrDuplicatePackage
				}
			}
		}
	}

	history = append(history, entry)
	if len(history) > params.RecentHistoryLength {
		history = history[len(history)-params.RecentHistoryLength:]
	}
	*env.EnsureHistory() = history
	return nil
}

// AppendMMR folds a newly-completed report hash into the MMR carried by
// the most recent β entry, returning the updated super-peak.
func AppendMMR(entry *state.HistoryEntry, reportHash jam.Hash) jam.Hash {
	m := &merkle.MMR{Peaks: entry.MMRPeaks}
	m.Append(reportHash)
	entry.MMRPeaks = m.Peaks
	return m.SuperPeak()
}

// historyContainsPackage reports whether hash appears anywhere in β.
func historyContainsPackage(history []state.HistoryEntry, hash jam.Hash) bool {
	for _, h := range history {
		for _, r := range h.Reports {
			if r.WorkPackageHash == hash {
				return true
			}
		}
	}
	return false
}
