package safrole

import (
	"testing"

	"github.com/jamnode/jam/internal/jam"
)

func seedFromByte(b byte) jam.Hash {
	var h jam.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func TestFisherYatesIsPermutation(t *testing.T) {
	seed := seedFromByte(0x2a)
	n := 1023
	perm := FisherYatesPermutation(seed, n)
	if len(perm) != n {
		t.Fatalf("expected length %d, got %d", n, len(perm))
	}
	seen := make(map[int]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n {
			t.Fatalf("value %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("value %d repeated", v)
		}
		seen[v] = true
	}
}

func TestFisherYatesDeterministic(t *testing.T) {
	seed := seedFromByte(0x07)
	p1 := FisherYatesPermutation(seed, 256)
	p2 := FisherYatesPermutation(seed, 256)
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("index %d differs: %d vs %d", i, p1[i], p2[i])
		}
	}
}

func TestFisherYatesDifferentSeedsDiverge(t *testing.T) {
	p1 := FisherYatesPermutation(seedFromByte(0x01), 128)
	p2 := FisherYatesPermutation(seedFromByte(0x02), 128)
	same := true
	for i := range p1 {
		if p1[i] != p2[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical permutations")
	}
}

func TestGuarantorAssignmentUsesPermutationEvenly(t *testing.T) {
	// Mirrors spec.md §8: "every core index appears N/C times in the
	// output assignment" — exercised here directly on the repeated-index
	// sequence the assignment package shuffles.
	const n, c = 12, 3
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i * c / n
	}
	perm := FisherYatesPermutation(seedFromByte(0x09), n)
	counts := make(map[int]int)
	for _, p := range perm {
		counts[seq[p]]++
	}
	for core := 0; core < c; core++ {
		if counts[core] != n/c {
			t.Fatalf("core %d appears %d times, want %d", core, counts[core], n/c)
		}
	}
}
