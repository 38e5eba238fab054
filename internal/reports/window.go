package reports

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
)

// ErrDuplicateReportInWindow is returned when re-establishing the
// global-index invariant (spec.md §3: ξ contains no duplicate work-report
// hashes across its slots) finds a collision after a shift.
var ErrDuplicateReportInWindow = errors.New("reports: duplicate work-report hash across accumulated-reports window")

// ShiftWindow records newEntries as the newest ξ slot and drops the
// oldest slot, keeping ξ at exactly epoch_length slots (spec.md §4.5).
func ShiftWindow(env *state.Envelope, params jam.Params, newEntries []state.AccumulatedEntry) error {
	window := *env.EnsureWindow()

	shifted := make([][]state.AccumulatedEntry, 0, params.EpochLength)
	if len(window) > 0 {
		shifted = append(shifted, window[1:]...)
	}
	shifted = append(shifted, append([]state.AccumulatedEntry(nil), newEntries...))

	for len(shifted) < params.EpochLength {
		shifted = append([][]state.AccumulatedEntry{nil}, shifted...)
	}
	for len(shifted) > params.EpochLength {
		shifted = shifted[1:]
	}

	if err := checkNoDuplicateReports(shifted); err != nil {
		return err
	}

	*env.EnsureWindow() = shifted
	return nil
}

func checkNoDuplicateReports(window [][]state.AccumulatedEntry) error {
	seen := make(map[jam.Hash]bool)
	for _, slot := range window {
		for _, e := range slot {
			if seen[e.ReportHash] {
				return ErrDuplicateReportInWindow
			}
			seen[e.ReportHash] = true
		}
	}
	return nil
}
