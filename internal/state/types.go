// Package state implements the state-transition envelope (spec.md §4.1):
// a base state σ, an in-progress successor σ′, and a small set of named
// intermediate ("dagger") states that sub-transitions read from and write
// to in a fixed order. It owns the plain data types of σ; the transition
// logic that mutates them lives in the sibling safrole/reports/disputes/
// assignment packages.
package state

import (
	"github.com/holiman/uint256"

	"github.com/jamnode/jam/internal/jam"
)

// TicketBody is one accumulated or selected ticket: its ring-VRF output
// (the ticket id) and the attempt byte that produced it.
type TicketBody struct {
	ID      jam.Hash
	Attempt uint8
}

// SafroleVariant distinguishes whether γ.s holds a quorum of tickets or a
// Fisher-Yates fallback key sequence.
type SafroleVariant int

const (
	VariantTickets SafroleVariant = iota
	VariantFallback
)

// Safrole is γ: the ticket-lottery and seal-verification state.
type Safrole struct {
	// NextEpochKeys is k: the Bandersnatch keys of the next-epoch
	// validator set, in the order used to build the ring commitment.
	NextEpochKeys []jam.BandersnatchKey

	// RingCommitment is z: the ring-VRF commitment over NextEpochKeys.
	RingCommitment []byte

	// Variant selects which of Tickets/FallbackKeys is populated.
	Variant SafroleVariant

	// Tickets is s in the tickets variant: length epoch_length, ordered
	// ascending by id.
	Tickets []TicketBody

	// FallbackKeys is s in the fallback variant: the Fisher-Yates shuffle
	// of the next-epoch active key list, one entry per key (its length is
	// the validator count, not epoch_length).
	FallbackKeys []jam.BandersnatchKey

	// Accumulator is a: in-epoch candidate tickets, sorted ascending by id,
	// deduplicated.
	Accumulator []TicketBody
}

// Clone returns a deep copy of the Safrole state.
func (s Safrole) Clone() Safrole {
	out := s
	out.NextEpochKeys = append([]jam.BandersnatchKey(nil), s.NextEpochKeys...)
	out.RingCommitment = append([]byte(nil), s.RingCommitment...)
	out.Tickets = append([]TicketBody(nil), s.Tickets...)
	out.FallbackKeys = append([]jam.BandersnatchKey(nil), s.FallbackKeys...)
	out.Accumulator = append([]TicketBody(nil), s.Accumulator...)
	return out
}

// WorkReportSummary is the per-entry payload recorded in recent history
// once a work report is available and staged.
type WorkReportSummary struct {
	WorkPackageHash jam.Hash
	ReportHash      jam.Hash
	SegmentRoot     jam.Hash
}

// HistoryEntry is one β FIFO slot.
type HistoryEntry struct {
	HeaderHash jam.Hash
	StateRoot  jam.Hash
	MMRPeaks   []*jam.Hash // nil entries are absent peaks
	Reports    []WorkReportSummary
}

// Clone deep-copies a HistoryEntry.
func (h HistoryEntry) Clone() HistoryEntry {
	out := h
	out.MMRPeaks = append([]*jam.Hash(nil), h.MMRPeaks...)
	out.Reports = append([]WorkReportSummary(nil), h.Reports...)
	return out
}

// WorkReport is the minimal shape of a work report needed by the reports
// pipeline: its package hash, the core it targets, dependency/segment-root
// lookups, the authorizer it claims, and the guarantor signatures over it.
type WorkReport struct {
	WorkPackageHash  jam.Hash
	Core             jam.CoreIndex
	AuthorizerHash   jam.Hash
	Dependencies     []jam.Hash // prerequisite report/work-package hashes
	SegmentRootLooks []jam.Hash // segment-root lookup keys
	Slot             jam.Slot
}

// PendingReport is ρ[c]: at most one in-flight report per core.
type PendingReport struct {
	Report       WorkReport
	Availability []bool // per-validator availability bitfield
	Slot         jam.Slot
}

// Clone deep-copies a PendingReport.
func (p *PendingReport) Clone() *PendingReport {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Report.Dependencies = append([]jam.Hash(nil), p.Report.Dependencies...)
	cp.Report.SegmentRootLooks = append([]jam.Hash(nil), p.Report.SegmentRootLooks...)
	cp.Availability = append([]bool(nil), p.Availability...)
	return &cp
}

// AccumulatedEntry is one (report hash → segment-tree root) pair tracked in
// a ξ slot.
type AccumulatedEntry struct {
	ReportHash  jam.Hash
	SegmentRoot jam.Hash
}

// Disputes is ψ: the four verdict/offender sets.
type Disputes struct {
	Good     []jam.Hash
	Bad      []jam.Hash
	Wonky    []jam.Hash
	Punished []jam.Ed25519Key
}

// Clone deep-copies the Disputes state.
func (d Disputes) Clone() Disputes {
	return Disputes{
		Good:     append([]jam.Hash(nil), d.Good...),
		Bad:      append([]jam.Hash(nil), d.Bad...),
		Wonky:    append([]jam.Hash(nil), d.Wonky...),
		Punished: append([]jam.Ed25519Key(nil), d.Punished...),
	}
}

// ServiceID identifies a service account in δ.
type ServiceID uint32

// ServiceAccount is one entry of δ.
type ServiceAccount struct {
	CodeHash         jam.Hash
	Balance          uint256.Int
	MinBalance       uint256.Int
	ItemCount        uint32
	StorageFootprint uint64
	LastAccumulation jam.Slot
	StorageRoot      jam.Hash
	PreimageRoot     jam.Hash
}

// Privileged is χ: the privileged-service designations.
type Privileged struct {
	Manager        ServiceID
	AssignPerCore  []ServiceID
	Designate      ServiceID
	Registrar      ServiceID
	AlwaysAccumulate map[ServiceID]uint64
}

// Clone deep-copies Privileged.
func (p Privileged) Clone() Privileged {
	out := p
	out.AssignPerCore = append([]ServiceID(nil), p.AssignPerCore...)
	out.AlwaysAccumulate = make(map[ServiceID]uint64, len(p.AlwaysAccumulate))
	for k, v := range p.AlwaysAccumulate {
		out.AlwaysAccumulate[k] = v
	}
	return out
}

// ValidatorStats tracks π's per-validator counters.
type ValidatorStats struct {
	BlocksAuthored int
	Tickets        int
	Preimages      int
	Reports        int
	Assurances     int
}

// Stats is π.
type Stats struct {
	Validators  []ValidatorStats
	ServiceData map[ServiceID]ServiceStats
}

// ServiceStats tracks per-service counters.
type ServiceStats struct {
	Imports   int
	Exports   int
	GasUsed   uint64
	Preimages int
}

// Clone deep-copies Stats.
func (s Stats) Clone() Stats {
	out := Stats{
		Validators:  append([]ValidatorStats(nil), s.Validators...),
		ServiceData: make(map[ServiceID]ServiceStats, len(s.ServiceData)),
	}
	for k, v := range s.ServiceData {
		out.ServiceData[k] = v
	}
	return out
}

// Validators is the triple (κ, λ, ι).
type Validators struct {
	Active []jam.ValidatorDescriptor
	Prior  []jam.ValidatorDescriptor
	Next   []jam.ValidatorDescriptor
}

// Clone deep-copies Validators.
func (v Validators) Clone() Validators {
	return Validators{
		Active: append([]jam.ValidatorDescriptor(nil), v.Active...),
		Prior:  append([]jam.ValidatorDescriptor(nil), v.Prior...),
		Next:   append([]jam.ValidatorDescriptor(nil), v.Next...),
	}
}

// State is σ: the full block-import state.
type State struct {
	Time       jam.Slot
	Entropy    [4]jam.Hash
	Validators Validators
	Safrole    Safrole

	RecentHistory []HistoryEntry // β
	AuthPools     [][]jam.Hash   // α, per core
	AuthQueues    [][]jam.Hash   // φ, per core

	PendingReports []*PendingReport     // ρ, per core
	Accumulated    [][]AccumulatedEntry // ξ, per epoch-length slot

	Disputes Disputes
	Services map[ServiceID]*ServiceAccount
	Priv     Privileged
	Stats    Stats
}

// Clone returns a deep copy of the whole state. The envelope does not call
// it: copy-on-write happens per field, lazily, inside the envelope.
func (s *State) Clone() *State {
	out := &State{
		Time:       s.Time,
		Entropy:    s.Entropy,
		Validators: s.Validators.Clone(),
		Safrole:    s.Safrole.Clone(),
		Disputes:   s.Disputes.Clone(),
		Priv:       s.Priv.Clone(),
		Stats:      s.Stats.Clone(),
	}
	out.RecentHistory = make([]HistoryEntry, len(s.RecentHistory))
	for i, h := range s.RecentHistory {
		out.RecentHistory[i] = h.Clone()
	}
	out.AuthPools = make([][]jam.Hash, len(s.AuthPools))
	for i, p := range s.AuthPools {
		out.AuthPools[i] = append([]jam.Hash(nil), p...)
	}
	out.AuthQueues = make([][]jam.Hash, len(s.AuthQueues))
	for i, q := range s.AuthQueues {
		out.AuthQueues[i] = append([]jam.Hash(nil), q...)
	}
	out.PendingReports = make([]*PendingReport, len(s.PendingReports))
	for i, p := range s.PendingReports {
		out.PendingReports[i] = p.Clone()
	}
	out.Accumulated = make([][]AccumulatedEntry, len(s.Accumulated))
	for i, a := range s.Accumulated {
		out.Accumulated[i] = append([]AccumulatedEntry(nil), a...)
	}
	out.Services = make(map[ServiceID]*ServiceAccount, len(s.Services))
	for k, v := range s.Services {
		cp := *v
		out.Services[k] = &cp
	}
	return out
}
