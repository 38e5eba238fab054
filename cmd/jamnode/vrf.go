package main

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/jamcrypto"
	"github.com/jamnode/jam/internal/reports"
	"github.com/jamnode/jam/internal/safrole"
	"github.com/jamnode/jam/internal/state"
)

// placeholderRingVRF wires safrole.RingVRF to something deterministic but
// non-cryptographic. The ring-VRF primitive itself is out of scope for
// this repository (spec.md §1): production deployments replace this with
// a real Bandersnatch ring-VRF verifier behind the same interface.
type placeholderRingVRF struct{}

var errPlaceholderVerifyFailed = errors.New("jamnode: placeholder ring-VRF rejected an empty signature")

func (placeholderRingVRF) SingleVerify(_ safrole.RingCommitment, _ int, item safrole.RingVRFItem) (safrole.VRFOutput, error) {
	if len(item.Signature) == 0 {
		return safrole.VRFOutput{}, errPlaceholderVerifyFailed
	}
	return safrole.VRFOutput(jamcrypto.Hash256(item.Signature)), nil
}

func (v placeholderRingVRF) BatchVerify(commitment safrole.RingCommitment, ringSize int, items []safrole.RingVRFItem) ([]safrole.VRFOutput, error) {
	out := make([]safrole.VRFOutput, len(items))
	for i, it := range items {
		o, err := v.SingleVerify(commitment, ringSize, it)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

func (v placeholderRingVRF) DirectVerify(_ jam.BandersnatchKey, item safrole.RingVRFItem) (safrole.VRFOutput, error) {
	return v.SingleVerify(nil, 0, item)
}

// placeholderAccumulator wires reports.Accumulator to a no-op pass-through.
// The PVM that actually executes service code is out of scope for this
// repository (spec.md §1): production deployments replace this with a
// real service-code accumulator.
type placeholderAccumulator struct{}

func (placeholderAccumulator) Accumulate(report state.WorkReport, services map[state.ServiceID]*state.ServiceAccount) (reports.AccumulationResult, error) {
	return reports.AccumulationResult{
		SegmentRoot: jamcrypto.Hash256(report.WorkPackageHash[:]),
	}, nil
}
