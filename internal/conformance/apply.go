package conformance

import (
	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/stf"
)

// Apply is the sole operation this node exposes to a conformance harness
// (spec.md §6): decode a base dictionary, import block b against it, and
// either return the successor dictionary and its root, or the error that
// aborted the import. On error the returned dictionary is the untouched
// base, matching stf.Import's discard semantics (spec.md §7).
func Apply(base Dictionary, params jam.Params, b stf.Block, deps stf.Deps) (Dictionary, jam.Hash, error) {
	baseState, err := FromDictionary(base)
	if err != nil {
		return base, Root(base), err
	}

	b.PriorStateRoot = Root(base)
	next, err := stf.Import(baseState, params, b, deps)
	if err != nil {
		return base, Root(base), err
	}

	out := ToDictionary(next)
	return out, Root(out), nil
}
