package safrole

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
)

// ErrBadSeal is returned when a block's seal fails verification under
// either the ticket or fallback path.
var ErrBadSeal = errors.New("safrole: seal verification failed")

// Seal is a sealed block's author proof: either a ticket-based ring-VRF
// seal (verified against γ.z) or a fallback seal from the slot's scheduled
// key (verified directly, spec.md §4.3).
type Seal struct {
	Signature []byte
}

// VerifyTicketSeal verifies a ticket-based seal. ringSize is the active
// validator count; the input domain is "jam_ticket_seal" over η₃ and the
// winning ticket's attempt byte, matching the ticket that won the slot.
func VerifyTicketSeal(vrf RingVRF, commitment RingCommitment, ringSize int, eta3 jam.Hash, attempt uint8, seal Seal) (VRFOutput, error) {
	item := RingVRFItem{Input: ticketInput(eta3, attempt), Signature: seal.Signature}
	out, err := vrf.SingleVerify(commitment, ringSize, item)
	if err != nil {
		return VRFOutput{}, ErrBadSeal
	}
	return out, nil
}

// VerifyFallbackSeal verifies a fallback seal produced directly by the
// slot's scheduled Bandersnatch key (no ring membership proof), using the
// "jam_ticket_fallback" domain. Per spec.md §4.3 and §8's equivalence
// property, this MUST yield the same VRFOutput a ring verification of the
// same (key, input) would, for implementations that want ticket ids and
// fallback seals to be comparable.
func VerifyFallbackSeal(vrf RingVRF, signer jam.BandersnatchKey, eta3 jam.Hash, seal Seal) (VRFOutput, error) {
	input := make([]byte, 0, len(TicketFallbackDomain)+32)
	input = append(input, TicketFallbackDomain...)
	input = append(input, eta3[:]...)
	out, err := vrf.DirectVerify(signer, RingVRFItem{Input: input, Signature: seal.Signature})
	if err != nil {
		return VRFOutput{}, ErrBadSeal
	}
	return out, nil
}

// ScheduledFallbackKey returns γ.s[slotInEpoch] in the fallback variant:
// the Bandersnatch key scheduled to seal this slot.
func ScheduledFallbackKey(safrole *state.Safrole, slotInEpoch int) (jam.BandersnatchKey, bool) {
	if safrole.Variant != state.VariantFallback || slotInEpoch < 0 || slotInEpoch >= len(safrole.FallbackKeys) {
		return jam.BandersnatchKey{}, false
	}
	return safrole.FallbackKeys[slotInEpoch], true
}

// WinningTicket returns γ.s[slotInEpoch] in the tickets variant.
func WinningTicket(safrole *state.Safrole, slotInEpoch int) (state.TicketBody, bool) {
	if safrole.Variant != state.VariantTickets || slotInEpoch < 0 || slotInEpoch >= len(safrole.Tickets) {
		return state.TicketBody{}, false
	}
	return safrole.Tickets[slotInEpoch], true
}
