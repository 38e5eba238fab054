package merkle

import (
	"testing"

	"github.com/jamnode/jam/internal/jam"
)

func leaf(b byte) jam.Hash {
	var out jam.Hash
	out[0] = b
	return out
}

func TestBuildTreeRootMatchesManualFold(t *testing.T) {
	leaves := []jam.Hash{leaf(1), leaf(2), leaf(3), leaf(4)}
	tree, depth := BuildTree(leaves)
	if depth != 2 {
		t.Fatalf("depth = %d, want 2", depth)
	}
	want := hashPair(hashPair(leaf(1), leaf(2)), hashPair(leaf(3), leaf(4)))
	if tree[1] != want {
		t.Fatalf("root mismatch")
	}
}

func TestGenerateAndVerifyMultiProofSingleLeaf(t *testing.T) {
	leaves := []jam.Hash{leaf(1), leaf(2), leaf(3), leaf(4)}
	tree, depth := BuildTree(leaves)
	proof, err := GenerateMultiProof(tree, depth, []uint64{2})
	if err != nil {
		t.Fatalf("GenerateMultiProof: %v", err)
	}
	if !VerifyMultiProof(tree[1], proof) {
		t.Fatalf("proof for leaf 2 failed to verify")
	}
}

func TestGenerateAndVerifyMultiProofMultipleLeaves(t *testing.T) {
	leaves := []jam.Hash{leaf(1), leaf(2), leaf(3), leaf(4), leaf(5), leaf(6), leaf(7), leaf(8)}
	tree, depth := BuildTree(leaves)
	proof, err := GenerateMultiProof(tree, depth, []uint64{0, 3, 7})
	if err != nil {
		t.Fatalf("GenerateMultiProof: %v", err)
	}
	if !VerifyMultiProof(tree[1], proof) {
		t.Fatalf("multi-leaf proof failed to verify")
	}
}

func TestVerifyMultiProofRejectsWrongRoot(t *testing.T) {
	leaves := []jam.Hash{leaf(1), leaf(2), leaf(3), leaf(4)}
	tree, depth := BuildTree(leaves)
	proof, err := GenerateMultiProof(tree, depth, []uint64{0})
	if err != nil {
		t.Fatalf("GenerateMultiProof: %v", err)
	}
	if VerifyMultiProof(leaf(0xff), proof) {
		t.Fatalf("proof verified against the wrong root")
	}
}

func TestGenerateMultiProofRejectsOutOfRange(t *testing.T) {
	leaves := []jam.Hash{leaf(1), leaf(2)}
	tree, depth := BuildTree(leaves)
	if _, err := GenerateMultiProof(tree, depth, []uint64{5}); err != ErrLeafOutOfRange {
		t.Fatalf("expected ErrLeafOutOfRange, got %v", err)
	}
}

func TestGenerateMultiProofRejectsEmptySelection(t *testing.T) {
	leaves := []jam.Hash{leaf(1), leaf(2)}
	tree, depth := BuildTree(leaves)
	if _, err := GenerateMultiProof(tree, depth, nil); err != ErrNoLeaves {
		t.Fatalf("expected ErrNoLeaves, got %v", err)
	}
}
