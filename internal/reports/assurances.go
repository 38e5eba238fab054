package reports

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
)

// ErrBadAssuranceLength is returned when an assurance's bitfield does not
// have one entry per core.
var ErrBadAssuranceLength = errors.New("reports: assurance bitfield length does not match core count")

// Assurance is one validator's per-core availability bitfield.
type Assurance struct {
	Validator jam.ValidatorIndex
	Available []bool // indexed by core
}

// TallyAvailable applies a batch of assurances and returns the reports
// that just became available: strictly more than 2/3 of validators marked
// their core available (spec.md §4.5). Available reports are removed from
// ρ′ and returned in ascending core-index order.
func TallyAvailable(env *state.Envelope, params jam.Params, assurances []Assurance) ([]state.WorkReport, error) {
	pending := *env.EnsurePending()
	counts := make([]int, params.CoreCount)

	for _, a := range assurances {
		if len(a.Available) != params.CoreCount {
			return nil, ErrBadAssuranceLength
		}
		for c, avail := range a.Available {
			if avail {
				counts[c]++
			}
		}
	}

	threshold := (2*params.ValidatorCount)/3 + 1
	var available []state.WorkReport
	for _, c := range sortedCores(pending) {
		if counts[c] >= threshold {
			available = append(available, pending[c].Report)
			pending[c] = nil
		}
	}

	*env.EnsurePending() = pending
	return available, nil
}
