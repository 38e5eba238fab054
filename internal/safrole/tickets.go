package safrole

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/state"
)

// Ticket-envelope validation errors (spec.md §4.3, §7 "consensus" kind
// unless noted).
var (
	ErrUnexpectedTicket        = errors.New("safrole: ticket submitted outside the submission window")
	ErrBadTicketAttempt        = errors.New("safrole: ticket attempt out of range")
	ErrTooManyTickets          = errors.New("safrole: too many ticket envelopes in extrinsic")
	ErrBadTicketProof          = errors.New("safrole: ring-VRF proof failed")
	ErrDuplicateTicket         = errors.New("safrole: duplicate ticket id")
	ErrBadTicketOrder          = errors.New("safrole: ticket envelopes out of order")
)

// TicketSealDomain is the ring-VRF input domain tag for ticket submission
// (spec.md §4.3).
const TicketSealDomain = "jam_ticket_seal"

// TicketFallbackDomain is the ring-VRF input domain tag used to verify a
// fallback-path seal (spec.md §4.3).
const TicketFallbackDomain = "jam_ticket_fallback"

// TicketEnvelope is one ticket-submission entry: an attempt byte and a
// ring-VRF signature over "jam_ticket_seal" ‖ η₂ ‖ attempt.
type TicketEnvelope struct {
	Attempt   uint8
	Signature []byte
}

// ticketInput builds the ring-VRF input string for a ticket attempt.
func ticketInput(eta2 jam.Hash, attempt uint8) []byte {
	out := make([]byte, 0, len(TicketSealDomain)+32+1)
	out = append(out, TicketSealDomain...)
	out = append(out, eta2[:]...)
	out = append(out, attempt)
	return out
}

// SubmitTickets validates and merges a batch of ticket envelopes into γ.a
// (spec.md §4.3). slotInEpoch is the current block's offset within its
// epoch. The ring size passed to vrf is params.ValidatorCount.
func SubmitTickets(
	env *state.Envelope,
	params jam.Params,
	vrf RingVRF,
	slotInEpoch int,
	envelopes []TicketEnvelope,
) error {
	if len(envelopes) == 0 {
		return nil
	}
	if slotInEpoch >= params.TicketSubmissionEndEpochSlot {
		return ErrUnexpectedTicket
	}
	if len(envelopes) > params.EpochLength {
		return ErrTooManyTickets
	}
	for _, t := range envelopes {
		if int(t.Attempt) >= params.MaxTicketEntriesPerValidator {
			return ErrBadTicketAttempt
		}
	}

	safrole := env.EnsureSafrole()
	eta2 := env.Base().Entropy[2]

	items := make([]RingVRFItem, len(envelopes))
	for i, t := range envelopes {
		items[i] = RingVRFItem{Input: ticketInput(eta2, t.Attempt), Signature: t.Signature}
	}
	outputs, err := vrf.BatchVerify(RingCommitment(safrole.RingCommitment), params.ValidatorCount, items)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadTicketProof, err)
	}

	var lastID jam.Hash
	haveLast := false
	for i, out := range outputs {
		id := jam.Hash(out)
		if haveLast {
			switch {
			case id == lastID:
				return fmt.Errorf("%w: item %d", ErrDuplicateTicket, i)
			case bytesLess(id, lastID):
				return fmt.Errorf("%w: item %d", ErrBadTicketOrder, i)
			}
		}
		lastID = id
		haveLast = true

		if ticketIndexOf(safrole.Accumulator, id) >= 0 {
			return fmt.Errorf("%w: item %d", ErrDuplicateTicket, i)
		}
		safrole.Accumulator = insertTicketSorted(safrole.Accumulator, state.TicketBody{ID: id, Attempt: envelopes[i].Attempt})
	}
	return nil
}

// ticketIndexOf performs the binary search spec.md §4.3 describes for γ.a
// membership. Returns -1 if absent.
func ticketIndexOf(sorted []state.TicketBody, id jam.Hash) int {
	i := sort.Search(len(sorted), func(i int) bool { return !bytesLess(sorted[i].ID, id) })
	if i < len(sorted) && sorted[i].ID == id {
		return i
	}
	return -1
}

func insertTicketSorted(sorted []state.TicketBody, t state.TicketBody) []state.TicketBody {
	i := sort.Search(len(sorted), func(i int) bool { return !bytesLess(sorted[i].ID, t.ID) })
	sorted = append(sorted, state.TicketBody{})
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = t
	return sorted
}

func bytesLess(a, b jam.Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// FinalizeEpochTickets runs the epoch-boundary ticket selection (spec.md
// §4.3): if γ.a holds at least epoch_length tickets, the lowest
// epoch_length ids become γ.s (tickets variant); otherwise γ.s is
// populated as the Fisher-Yates fallback shuffle of the next-epoch active
// key list, seeded with η₂.
func FinalizeEpochTickets(env *state.Envelope, params jam.Params, nextEpochActiveKeys []jam.BandersnatchKey) {
	safrole := env.EnsureSafrole()
	eta2 := env.Base().Entropy[2]

	if len(safrole.Accumulator) >= params.EpochLength {
		safrole.Variant = state.VariantTickets
		safrole.Tickets = append([]state.TicketBody(nil), safrole.Accumulator[:params.EpochLength]...)
		safrole.FallbackKeys = nil
	} else {
		safrole.Variant = state.VariantFallback
		safrole.FallbackKeys = ShuffleBandersnatchKeys(eta2, nextEpochActiveKeys)
		safrole.Tickets = nil
	}
	safrole.Accumulator = nil
}
