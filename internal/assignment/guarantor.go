// Package assignment derives which validator guards which core at which
// slot (spec.md §4.6), by shuffling the repeated-core sequence with epoch
// entropy and rotating it by the elapsed rotation count.
package assignment

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/safrole"
)

// ErrSlotOutsideWindow is returned when a guarantee's slot falls outside
// the valid assignment-lookup window (spec.md §4.6).
var ErrSlotOutsideWindow = errors.New("assignment: guarantee slot outside valid window")

// Assignment maps validator index -> core index for one rotation window.
type Assignment []jam.CoreIndex

// Compute builds the guarantor assignment for a given rotation: it
// constructs [c repeated (N/C) times for c in 0..C), shuffles with seed,
// and rotates by rotation positions (spec.md §4.6).
func Compute(params jam.Params, seed jam.Hash, rotation uint32) Assignment {
	n := params.ValidatorCount
	c := params.CoreCount
	base := make([]jam.CoreIndex, n)
	for i := 0; i < n; i++ {
		base[i] = jam.CoreIndex(i * c / n)
	}

	perm := safrole.FisherYatesPermutation(seed, n)
	shuffled := make([]jam.CoreIndex, n)
	for i, p := range perm {
		shuffled[i] = base[p]
	}

	out := make(Assignment, n)
	rot := int(rotation) % n
	for i := 0; i < n; i++ {
		out[i] = shuffled[(i+rot)%n]
	}
	return out
}

// CoreOf returns the core assigned to validator v under this assignment.
func (a Assignment) CoreOf(v jam.ValidatorIndex) (jam.CoreIndex, bool) {
	if int(v) < 0 || int(v) >= len(a) {
		return 0, false
	}
	return a[v], true
}

// SlotWindow computes the guarantee slot-window bound for current slot s′
// (spec.md §4.6): ⌊s′/R⌋·R − R ≤ s ≤ s′. At the genesis rotation
// (⌊s′/R⌋ == 0) the lower bound would underflow; per DESIGN.md's Open
// Question decision, it clamps to 0 rather than wrapping.
func SlotWindow(params jam.Params, currentSlot jam.Slot) (lower, upper jam.Slot) {
	r := jam.Slot(params.ValidatorRotationPeriod)
	rotation := currentSlot / r
	if rotation == 0 {
		return 0, currentSlot
	}
	return (rotation - 1) * r, currentSlot
}

// ForGuarantee selects the right epoch-entropy seed for a guarantee at
// slot s relative to current slot s′, per spec.md §4.6: same rotation
// epoch uses currentEntropy (η₂), a prior one uses priorEntropy.
func ForGuarantee(params jam.Params, s, currentSlot jam.Slot, currentEntropy, priorEntropy jam.Hash) jam.Hash {
	r := jam.Slot(params.ValidatorRotationPeriod)
	if s/r == currentSlot/r {
		return currentEntropy
	}
	return priorEntropy
}

// ValidGuaranteeSlot reports whether a guarantee's slot s is within the
// accepted window relative to the current slot s′.
func ValidGuaranteeSlot(params jam.Params, s, currentSlot jam.Slot) bool {
	lower, upper := SlotWindow(params, currentSlot)
	return s >= lower && s <= upper
}
