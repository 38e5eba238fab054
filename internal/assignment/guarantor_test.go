package assignment

import (
	"testing"

	"github.com/jamnode/jam/internal/jam"
)

func TestComputeEvenCoreDistribution(t *testing.T) {
	params := jam.Params{ValidatorCount: 12, CoreCount: 3, ValidatorRotationPeriod: 4}
	a := Compute(params, jam.Hash{0x5}, 0)
	counts := make(map[jam.CoreIndex]int)
	for _, core := range a {
		counts[core]++
	}
	for c := 0; c < params.CoreCount; c++ {
		if counts[jam.CoreIndex(c)] != params.ValidatorCount/params.CoreCount {
			t.Fatalf("core %d count = %d, want %d", c, counts[jam.CoreIndex(c)], params.ValidatorCount/params.CoreCount)
		}
	}
}

func TestComputeRotationPermutes(t *testing.T) {
	params := jam.Params{ValidatorCount: 12, CoreCount: 3, ValidatorRotationPeriod: 4}
	a0 := Compute(params, jam.Hash{0x5}, 0)
	a1 := Compute(params, jam.Hash{0x5}, 1)
	same := true
	for i := range a0 {
		if a0[i] != a1[i] {
			same = false
		}
	}
	if same {
		t.Fatalf("rotation did not change the assignment")
	}
}

func TestSlotWindowGenesisClamp(t *testing.T) {
	params := jam.Params{ValidatorRotationPeriod: 10}
	lower, upper := SlotWindow(params, 5)
	if lower != 0 || upper != 5 {
		t.Fatalf("genesis rotation window = [%d, %d], want [0, 5]", lower, upper)
	}
}

func TestSlotWindowLaterRotation(t *testing.T) {
	params := jam.Params{ValidatorRotationPeriod: 10}
	lower, upper := SlotWindow(params, 25)
	if lower != 10 || upper != 25 {
		t.Fatalf("window = [%d, %d], want [10, 25]", lower, upper)
	}
}

func TestValidGuaranteeSlot(t *testing.T) {
	params := jam.Params{ValidatorRotationPeriod: 10}
	if !ValidGuaranteeSlot(params, 12, 25) {
		t.Fatalf("slot 12 should be valid for current slot 25")
	}
	if ValidGuaranteeSlot(params, 5, 25) {
		t.Fatalf("slot 5 should be outside the window for current slot 25")
	}
	if ValidGuaranteeSlot(params, 26, 25) {
		t.Fatalf("future slot should be invalid")
	}
}
