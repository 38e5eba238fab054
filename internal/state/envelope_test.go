package state

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/jamnode/jam/internal/jam"
)

func testBase() *State {
	return &State{
		Time: 10,
		Entropy: [4]jam.Hash{
			{0x01}, {0x02}, {0x03}, {0x04},
		},
		RecentHistory: []HistoryEntry{{HeaderHash: jam.Hash{0xaa}}},
		Services:      map[ServiceID]*ServiceAccount{1: {Balance: *uint256.NewInt(100)}},
	}
}

func TestEnvelopeNoopCheapCommit(t *testing.T) {
	base := testBase()
	env := New(base)
	out := env.Commit()
	if out != base {
		t.Fatalf("commit with no touched fields should return the same base pointer")
	}
	if out.Time != 10 {
		t.Fatalf("untouched field mutated")
	}
}

func TestEnvelopeEnsureIsolatesBase(t *testing.T) {
	base := testBase()
	env := New(base)

	timePrime := env.EnsureTime()
	*timePrime = 11

	if base.Time != 10 {
		t.Fatalf("base mutated before commit: %d", base.Time)
	}

	out := env.Commit()
	if out.Time != 11 {
		t.Fatalf("commit did not apply prime value: %d", out.Time)
	}
}

func TestEnvelopeEnsureServicesDeepCopy(t *testing.T) {
	base := testBase()
	env := New(base)

	svc := env.EnsureServices()
	(*svc)[1].Balance = *uint256.NewInt(999)

	if base.Services[1].Balance.Uint64() != 100 {
		t.Fatalf("ensure aliased the base map's values: got %d", base.Services[1].Balance.Uint64())
	}
}

func TestEnvelopeDiscard(t *testing.T) {
	base := testBase()
	env := New(base)
	*env.EnsureTime() = 999
	env.Discard()

	if env.time.has {
		t.Fatalf("discard did not clear prime state")
	}
	if base.Time != 10 {
		t.Fatalf("discard must never touch base")
	}
}

func TestDaggerInitializeOnce(t *testing.T) {
	base := testBase()
	env := New(base)

	if _, err := env.HistoryDagger(); err == nil {
		t.Fatalf("expected error reading uninitialized dagger")
	}

	if err := env.InitHistoryDagger([]HistoryEntry{{HeaderHash: jam.Hash{0xbb}}}); err != nil {
		t.Fatalf("InitHistoryDagger: %v", err)
	}
	if err := env.InitHistoryDagger(nil); err == nil {
		t.Fatalf("expected StateTransitioned on double-install")
	}

	got, err := env.HistoryDagger()
	if err != nil {
		t.Fatalf("HistoryDagger: %v", err)
	}
	if len(got) != 1 || got[0].HeaderHash != (jam.Hash{0xbb}) {
		t.Fatalf("unexpected dagger contents: %+v", got)
	}

	env.OverwriteHistoryDagger([]HistoryEntry{{HeaderHash: jam.Hash{0xcc}}})
	got, _ = env.HistoryDagger()
	if got[0].HeaderHash != (jam.Hash{0xcc}) {
		t.Fatalf("overwrite did not apply")
	}
}
