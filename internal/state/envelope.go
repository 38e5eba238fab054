package state

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
)

// Errors returned by envelope field accessors (spec.md §4.1, §7 "internal"
// kind: envelope misuse is a programming error, not a block-validation
// failure).
var (
	ErrStateTransitioned    = errors.New("state: field already installed")
	ErrDaggerNotInitialized = errors.New("state: intermediate field not initialized from its prime")
)

// cow is a lazily-materialized copy-on-write slot: it starts empty, and on
// first Ensure call deep-clones the base value it is handed. Subsequent
// calls return the same materialized value. Generic over every field type
// the envelope carries (§9 "Copy-on-write envelope without pointer-into-
// pointer aliasing").
type cow[T any] struct {
	has bool
	val T
}

// ensure materializes the slot from base (via clone) on first call.
func (c *cow[T]) ensure(base T, clone func(T) T) *T {
	if !c.has {
		c.val = clone(base)
		c.has = true
	}
	return &c.val
}

// initialize installs val exactly once; a second call is a programming
// error (ErrStateTransitioned).
func (c *cow[T]) initialize(val T) error {
	if c.has {
		return ErrStateTransitioned
	}
	c.val = val
	c.has = true
	return nil
}

// overwrite replaces an already-installed slot's value.
func (c *cow[T]) overwrite(val T) {
	c.val = val
	c.has = true
}

// get returns the materialized value, or an error if nothing has been
// installed yet (for dagger fields, which must be initialized from their
// prime before being read).
func (c *cow[T]) get() (T, error) {
	var zero T
	if !c.has {
		return zero, ErrDaggerNotInitialized
	}
	return c.val, nil
}

// Envelope carries σ (read-only), σ′ (the in-progress successor, one cow
// slot per field), and the four named intermediate ("dagger") states β†,
// δ‡, ρ†, ρ‡ that sub-transitions read from and write to in the fixed order
// described in spec.md §2. The envelope owns every allocation it performs;
// the caller owns σ.
type Envelope struct {
	base *State

	time       cow[jam.Slot]
	entropy    cow[[4]jam.Hash]
	validators cow[Validators]
	safrole    cow[Safrole]
	history    cow[[]HistoryEntry]
	authPools  cow[[][]jam.Hash]
	authQueues cow[[][]jam.Hash]
	pending    cow[[]*PendingReport]
	window     cow[[][]AccumulatedEntry]
	disputes   cow[Disputes]
	services   cow[map[ServiceID]*ServiceAccount]
	priv       cow[Privileged]
	stats      cow[Stats]

	// Named intermediates (daggers). β† and ρ† feed the guarantee/
	// assurance stage; δ‡ feeds accumulation; ρ‡ is the post-assurance,
	// pre-accumulation pending-report set.
	historyDagger  cow[[]HistoryEntry]
	servicesDagger cow[map[ServiceID]*ServiceAccount]
	pendingDaggerA cow[[]*PendingReport]
	pendingDaggerB cow[[]*PendingReport]
}

// New creates an envelope over base. base is not mutated until Commit,
// which writes σ′ into it in place; σ′ is built lazily as fields are
// touched.
func New(base *State) *Envelope {
	return &Envelope{base: base}
}

// Base returns the untouched base state, for read-only inspection.
func (e *Envelope) Base() *State { return e.base }

func cloneHashSlices(in [][]jam.Hash) [][]jam.Hash {
	out := make([][]jam.Hash, len(in))
	for i, s := range in {
		out[i] = append([]jam.Hash(nil), s...)
	}
	return out
}

func cloneHistory(in []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(in))
	for i, h := range in {
		out[i] = h.Clone()
	}
	return out
}

func clonePending(in []*PendingReport) []*PendingReport {
	out := make([]*PendingReport, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneWindow(in [][]AccumulatedEntry) [][]AccumulatedEntry {
	out := make([][]AccumulatedEntry, len(in))
	for i, a := range in {
		out[i] = append([]AccumulatedEntry(nil), a...)
	}
	return out
}

func cloneServices(in map[ServiceID]*ServiceAccount) map[ServiceID]*ServiceAccount {
	out := make(map[ServiceID]*ServiceAccount, len(in))
	for k, v := range in {
		cp := *v
		out[k] = &cp
	}
	return out
}

// --- σ′ prime accessors: one Ensure/Get pair per field ---

// EnsureTime materializes and returns a mutable pointer to τ′.
func (e *Envelope) EnsureTime() *jam.Slot {
	return e.time.ensure(e.base.Time, func(v jam.Slot) jam.Slot { return v })
}

// EnsureEntropy materializes and returns a mutable pointer to η′.
func (e *Envelope) EnsureEntropy() *[4]jam.Hash {
	return e.entropy.ensure(e.base.Entropy, func(v [4]jam.Hash) [4]jam.Hash { return v })
}

// EnsureValidators materializes and returns a mutable pointer to the
// (κ, λ, ι)′ triple.
func (e *Envelope) EnsureValidators() *Validators {
	return e.validators.ensure(e.base.Validators, Validators.Clone)
}

// EnsureSafrole materializes and returns a mutable pointer to γ′.
func (e *Envelope) EnsureSafrole() *Safrole {
	return e.safrole.ensure(e.base.Safrole, Safrole.Clone)
}

// EnsureHistory materializes and returns a mutable pointer to β′.
func (e *Envelope) EnsureHistory() *[]HistoryEntry {
	return e.history.ensure(e.base.RecentHistory, cloneHistory)
}

// EnsureAuthPools materializes and returns a mutable pointer to α′.
func (e *Envelope) EnsureAuthPools() *[][]jam.Hash {
	return e.authPools.ensure(e.base.AuthPools, cloneHashSlices)
}

// EnsureAuthQueues materializes and returns a mutable pointer to φ′.
func (e *Envelope) EnsureAuthQueues() *[][]jam.Hash {
	return e.authQueues.ensure(e.base.AuthQueues, cloneHashSlices)
}

// EnsurePending materializes and returns a mutable pointer to ρ′.
func (e *Envelope) EnsurePending() *[]*PendingReport {
	return e.pending.ensure(e.base.PendingReports, clonePending)
}

// EnsureWindow materializes and returns a mutable pointer to ξ′.
func (e *Envelope) EnsureWindow() *[][]AccumulatedEntry {
	return e.window.ensure(e.base.Accumulated, cloneWindow)
}

// EnsureDisputes materializes and returns a mutable pointer to ψ′.
func (e *Envelope) EnsureDisputes() *Disputes {
	return e.disputes.ensure(e.base.Disputes, Disputes.Clone)
}

// EnsureServices materializes and returns a mutable pointer to δ′.
func (e *Envelope) EnsureServices() *map[ServiceID]*ServiceAccount {
	return e.services.ensure(e.base.Services, cloneServices)
}

// EnsurePrivileged materializes and returns a mutable pointer to χ′.
func (e *Envelope) EnsurePrivileged() *Privileged {
	return e.priv.ensure(e.base.Priv, Privileged.Clone)
}

// EnsureStats materializes and returns a mutable pointer to π′.
func (e *Envelope) EnsureStats() *Stats {
	return e.stats.ensure(e.base.Stats, Stats.Clone)
}

// --- dagger accessors ---

// InitHistoryDagger installs β† from value, once.
func (e *Envelope) InitHistoryDagger(v []HistoryEntry) error { return e.historyDagger.initialize(v) }

// HistoryDagger returns β†; it must already be initialized.
func (e *Envelope) HistoryDagger() ([]HistoryEntry, error) { return e.historyDagger.get() }

// OverwriteHistoryDagger replaces an already-installed β†.
func (e *Envelope) OverwriteHistoryDagger(v []HistoryEntry) { e.historyDagger.overwrite(v) }

// InitServicesDagger installs δ‡ from value, once.
func (e *Envelope) InitServicesDagger(v map[ServiceID]*ServiceAccount) error {
	return e.servicesDagger.initialize(v)
}

// ServicesDagger returns δ‡; it must already be initialized.
func (e *Envelope) ServicesDagger() (map[ServiceID]*ServiceAccount, error) {
	return e.servicesDagger.get()
}

// OverwriteServicesDagger replaces an already-installed δ‡.
func (e *Envelope) OverwriteServicesDagger(v map[ServiceID]*ServiceAccount) {
	e.servicesDagger.overwrite(v)
}

// InitPendingDaggerA installs ρ† from value, once.
func (e *Envelope) InitPendingDaggerA(v []*PendingReport) error { return e.pendingDaggerA.initialize(v) }

// PendingDaggerA returns ρ†; it must already be initialized.
func (e *Envelope) PendingDaggerA() ([]*PendingReport, error) { return e.pendingDaggerA.get() }

// OverwritePendingDaggerA replaces an already-installed ρ†.
func (e *Envelope) OverwritePendingDaggerA(v []*PendingReport) { e.pendingDaggerA.overwrite(v) }

// InitPendingDaggerB installs ρ‡ from value, once.
func (e *Envelope) InitPendingDaggerB(v []*PendingReport) error { return e.pendingDaggerB.initialize(v) }

// PendingDaggerB returns ρ‡; it must already be initialized.
func (e *Envelope) PendingDaggerB() ([]*PendingReport, error) { return e.pendingDaggerB.get() }

// OverwritePendingDaggerB replaces an already-installed ρ‡.
func (e *Envelope) OverwritePendingDaggerB(v []*PendingReport) { e.pendingDaggerB.overwrite(v) }

// Commit merges σ′ into σ atomically: it replaces base's fields with
// whichever prime fields were touched during this transition, leaving
// untouched fields as they were. Returns the new canonical state; the
// caller should discard any prior reference to the pre-commit base.
func (e *Envelope) Commit() *State {
	out := e.base
	if e.time.has {
		out.Time = e.time.val
	}
	if e.entropy.has {
		out.Entropy = e.entropy.val
	}
	if e.validators.has {
		out.Validators = e.validators.val
	}
	if e.safrole.has {
		out.Safrole = e.safrole.val
	}
	if e.history.has {
		out.RecentHistory = e.history.val
	}
	if e.authPools.has {
		out.AuthPools = e.authPools.val
	}
	if e.authQueues.has {
		out.AuthQueues = e.authQueues.val
	}
	if e.pending.has {
		out.PendingReports = e.pending.val
	}
	if e.window.has {
		out.Accumulated = e.window.val
	}
	if e.disputes.has {
		out.Disputes = e.disputes.val
	}
	if e.services.has {
		out.Services = e.services.val
	}
	if e.priv.has {
		out.Priv = e.priv.val
	}
	if e.stats.has {
		out.Stats = e.stats.val
	}
	return out
}

// Discard frees σ′ without touching σ. Any sub-transition error path
// should call Discard (or simply drop the envelope) instead of Commit.
func (e *Envelope) Discard() {
	*e = Envelope{base: e.base}
}
