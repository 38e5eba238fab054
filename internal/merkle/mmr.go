// Package merkle implements the append-only Merkle Mountain Range used by
// recent history (spec.md §4.9) and a generalized-index binary Merkle tree
// with multi-proofs, adapted from the teacher's crypto.MerkleMultiProof.
package merkle

import "github.com/jamnode/jam/internal/jamcrypto"
import "github.com/jamnode/jam/internal/jam"

// MMR is a bounded sequence of optional peak hashes, one per power-of-two
// tree size. A nil entry means that peak slot is currently empty.
type MMR struct {
	Peaks []*jam.Hash
}

// Append adds a leaf hash to the MMR (spec.md §4.9): if slot n is empty,
// the incoming hash is placed there and the recursion stops; otherwise the
// slot is combined with the incoming hash and the carry recurses into
// slot n+1.
func (m *MMR) Append(leaf jam.Hash) {
	incoming := leaf
	for n := 0; ; n++ {
		if n == len(m.Peaks) {
			m.Peaks = append(m.Peaks, &incoming)
			return
		}
		if m.Peaks[n] == nil {
			h := incoming
			m.Peaks[n] = &h
			return
		}
		combined := jamcrypto.Hash256(m.Peaks[n][:], incoming[:])
		m.Peaks[n] = nil
		incoming = combined
	}
}

// Clone returns a deep copy of the MMR.
func (m *MMR) Clone() *MMR {
	out := &MMR{Peaks: make([]*jam.Hash, len(m.Peaks))}
	for i, p := range m.Peaks {
		if p != nil {
			h := *p
			out.Peaks[i] = &h
		}
	}
	return out
}

// zeroHash is the super-peak of an empty MMR.
var zeroHash jam.Hash

// SuperPeak folds the peak list left-to-right into a single commitment
// (spec.md §4.9): starting from the rightmost present peak, fold with
// H("node" ‖ acc ‖ next) toward the left. An empty range yields the zero
// hash; a single peak returns itself.
func (m *MMR) SuperPeak() jam.Hash {
	var present []jam.Hash
	for _, p := range m.Peaks {
		if p != nil {
			present = append(present, *p)
		}
	}
	return foldPeaks(present)
}

func foldPeaks(peaks []jam.Hash) jam.Hash {
	switch len(peaks) {
	case 0:
		return zeroHash
	case 1:
		return peaks[0]
	}
	acc := peaks[len(peaks)-1]
	for i := len(peaks) - 2; i >= 0; i-- {
		acc = jamcrypto.Hash256([]byte("node"), acc[:], peaks[i][:])
	}
	return acc
}
