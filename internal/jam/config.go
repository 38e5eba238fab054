package jam

// Params collects the compile/startup-time constants threaded through every
// sub-transition. A Params value is never mutated after construction; the
// same value is shared by the whole envelope for the lifetime of a run.
type Params struct {
	// ValidatorCount is N, the number of validators in each of κ, λ, ι.
	ValidatorCount int

	// CoreCount is C, the number of cores validators rotate across.
	CoreCount int

	// EpochLength is the number of slots per epoch, and the length of γ.s
	// and each slot in ξ.
	EpochLength int

	// TicketSubmissionEndEpochSlot is the slot-in-epoch at which ticket
	// submission closes (exclusive upper bound).
	TicketSubmissionEndEpochSlot int

	// MaxTicketEntriesPerValidator bounds the attempt byte of a ticket
	// envelope.
	MaxTicketEntriesPerValidator int

	// RecentHistoryLength is H, the bound on β's FIFO length.
	RecentHistoryLength int

	// AuthPoolSize is O, the bound on α[c]'s length.
	AuthPoolSize int

	// AuthQueueSize is Q, the bound on φ[c]'s length.
	AuthQueueSize int

	// ValidatorRotationPeriod is R, the number of slots between guarantor
	// rotations.
	ValidatorRotationPeriod int

	// MaxDependenciesPerReport bounds a work report's dependency list.
	MaxDependenciesPerReport int
}

// DefaultParams returns mainnet-shaped configuration values.
func DefaultParams() Params {
	return Params{
		ValidatorCount:               1023,
		CoreCount:                    341,
		EpochLength:                  600,
		TicketSubmissionEndEpochSlot: 500,
		MaxTicketEntriesPerValidator: 2,
		RecentHistoryLength:          8,
		AuthPoolSize:                 8,
		AuthQueueSize:                80,
		ValidatorRotationPeriod:      10,
		MaxDependenciesPerReport:     8,
	}
}

// TinyParams returns the tiny configuration used by conformance fixtures
// (spec.md §8 scenario 1: N=6, epoch=12, C=2).
func TinyParams() Params {
	return Params{
		ValidatorCount:               6,
		CoreCount:                    2,
		EpochLength:                  12,
		TicketSubmissionEndEpochSlot: 10,
		MaxTicketEntriesPerValidator: 2,
		RecentHistoryLength:          4,
		AuthPoolSize:                 4,
		AuthQueueSize:                8,
		ValidatorRotationPeriod:      4,
		MaxDependenciesPerReport:     4,
	}
}

// EpochOf returns the epoch containing slot s.
func (p Params) EpochOf(s Slot) Epoch {
	return Epoch(uint32(s) / uint32(p.EpochLength))
}

// SlotInEpoch returns s's offset within its epoch.
func (p Params) SlotInEpoch(s Slot) int {
	return int(uint32(s) % uint32(p.EpochLength))
}

// Rotation returns the guarantor-assignment rotation index for slot s
// (spec.md §4.6).
func (p Params) Rotation(s Slot) uint32 {
	return uint32(s) / uint32(p.ValidatorRotationPeriod)
}
