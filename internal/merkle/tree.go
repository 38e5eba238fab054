package merkle

import (
	"errors"
	"math/bits"
	"sort"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/jamcrypto"
)

// ErrTreeTooSmall is returned when a caller-supplied flat tree array does
// not hold enough slots for the declared depth.
var ErrTreeTooSmall = errors.New("merkle: tree array too small for given depth")

// ErrNoLeaves is returned when a multi-proof is requested or verified
// with no leaf indices.
var ErrNoLeaves = errors.New("merkle: no leaf indices provided")

// ErrLeafOutOfRange is returned when a requested leaf position does not
// exist at the given depth.
var ErrLeafOutOfRange = errors.New("merkle: leaf index out of range")

// Leaf is a proved leaf value, keyed by its generalized index.
type Leaf struct {
	GeneralizedIndex uint64
	Hash             jam.Hash
}

// Node is a proof-carried internal node, keyed by its generalized index.
type Node struct {
	GeneralizedIndex uint64
	Hash             jam.Hash
}

// MultiProof demonstrates that a set of leaves exist at specific
// positions in a binary Merkle tree, using the minimal set of internal
// nodes required for verification. The root sits at generalized index 1;
// a node at index i has children 2i and 2i+1.
type MultiProof struct {
	Leaves []Leaf
	Proof  []Node
	Depth  uint
}

// GeneralizedIndex computes the generalized index for a leaf at the
// given position in a tree of the given depth.
func GeneralizedIndex(depth uint, leafPos uint64) uint64 {
	return (uint64(1) << depth) + leafPos
}

// Parent returns the generalized index of gi's parent.
func Parent(gi uint64) uint64 { return gi / 2 }

// Sibling returns the generalized index of gi's sibling.
func Sibling(gi uint64) uint64 { return gi ^ 1 }

// IsLeft reports whether gi is a left child.
func IsLeft(gi uint64) bool { return gi%2 == 0 }

// DepthOf returns the depth (level) of a generalized index; the root
// (gi=1) is at depth 0.
func DepthOf(gi uint64) uint {
	if gi == 0 {
		return 0
	}
	return uint(bits.Len64(gi) - 1)
}

// BuildTree constructs a binary Merkle tree from the given leaves,
// returning the flat array indexed by generalized index (index 0 is
// unused). The leaf count is rounded up to the next power of two,
// zero-padded.
func BuildTree(leaves []jam.Hash) ([]jam.Hash, uint) {
	n := len(leaves)
	if n == 0 {
		n = 1
	}
	depth := uint(0)
	size := 1
	for size < n {
		size *= 2
		depth++
	}
	tree := make([]jam.Hash, size*2)
	for i, l := range leaves {
		tree[size+i] = l
	}
	for i := size - 1; i >= 1; i-- {
		tree[i] = hashPair(tree[2*i], tree[2*i+1])
	}
	return tree, depth
}

func hashPair(left, right jam.Hash) jam.Hash {
	return jamcrypto.Hash256(left[:], right[:])
}

// GenerateMultiProof builds a multi-proof for the given leaf positions
// against a flat tree array produced by BuildTree.
func GenerateMultiProof(tree []jam.Hash, depth uint, leafPositions []uint64) (*MultiProof, error) {
	treeSize := uint64(1) << (depth + 1)
	if uint64(len(tree)) < treeSize {
		return nil, ErrTreeTooSmall
	}
	if len(leafPositions) == 0 {
		return nil, ErrNoLeaves
	}

	gis := make([]uint64, len(leafPositions))
	for i, pos := range leafPositions {
		gi := GeneralizedIndex(depth, pos)
		if gi >= treeSize {
			return nil, ErrLeafOutOfRange
		}
		gis[i] = gi
	}
	gis = dedupSorted(gis)

	known := make(map[uint64]bool, len(gis))
	for _, gi := range gis {
		known[gi] = true
	}

	needed := make(map[uint64]bool)
	for _, gi := range gis {
		cur := gi
		for cur > 1 {
			sib := Sibling(cur)
			if !known[sib] {
				needed[sib] = true
			}
			par := Parent(cur)
			known[par] = true
			cur = par
		}
	}

	proofGIs := make([]uint64, 0, len(needed))
	for gi := range needed {
		proofGIs = append(proofGIs, gi)
	}
	sort.Slice(proofGIs, func(i, j int) bool { return proofGIs[i] < proofGIs[j] })

	leaves := make([]Leaf, len(gis))
	for i, gi := range gis {
		leaves[i] = Leaf{GeneralizedIndex: gi, Hash: tree[gi]}
	}
	proof := make([]Node, len(proofGIs))
	for i, gi := range proofGIs {
		proof[i] = Node{GeneralizedIndex: gi, Hash: tree[gi]}
	}

	return &MultiProof{Leaves: leaves, Proof: proof, Depth: depth}, nil
}

// VerifyMultiProof checks that proof reconstructs to root.
func VerifyMultiProof(root jam.Hash, proof *MultiProof) bool {
	if proof == nil || len(proof.Leaves) == 0 {
		return false
	}

	hashes := make(map[uint64]jam.Hash, len(proof.Leaves)+len(proof.Proof))
	for _, leaf := range proof.Leaves {
		hashes[leaf.GeneralizedIndex] = leaf.Hash
	}
	for _, node := range proof.Proof {
		hashes[node.GeneralizedIndex] = node.Hash
	}

	changed := true
	for changed {
		changed = false
		for gi := range hashes {
			if gi <= 1 {
				continue
			}
			sib := Sibling(gi)
			sibHash, hasSib := hashes[sib]
			if !hasSib {
				continue
			}
			par := Parent(gi)
			if _, has := hashes[par]; has {
				continue
			}
			myHash := hashes[gi]
			var left, right jam.Hash
			if IsLeft(gi) {
				left, right = myHash, sibHash
			} else {
				left, right = sibHash, myHash
			}
			hashes[par] = hashPair(left, right)
			changed = true
		}
	}

	computedRoot, ok := hashes[1]
	if !ok {
		return false
	}
	return computedRoot == root
}

func dedupSorted(gis []uint64) []uint64 {
	sorted := append([]uint64(nil), gis...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:0]
	var last uint64
	first := true
	for _, gi := range sorted {
		if first || gi != last {
			out = append(out, gi)
			last = gi
			first = false
		}
	}
	return out
}
