package main

import (
	"os"

	"github.com/jamnode/jam/internal/conformance"
	"github.com/jamnode/jam/internal/state"
)

// loadGenesis builds the initial state dictionary. On-disk persistence is
// an explicit non-goal of the underlying spec (spec.md §1): this does not
// attempt to load or validate a real snapshot format, only to check that
// dataDir exists (creating it if not) and return an empty genesis state,
// matching "σ is constructed from genesis" (spec.md §3) for a fresh chain.
func loadGenesis(dataDir string) (conformance.Dictionary, error) {
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, err
		}
	}
	genesis := &state.State{Services: make(map[state.ServiceID]*state.ServiceAccount)}
	return conformance.ToDictionary(genesis), nil
}
