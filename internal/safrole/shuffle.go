package safrole

import (
	"encoding/binary"

	"github.com/jamnode/jam/internal/jam"
	"github.com/jamnode/jam/internal/jamcrypto"
)

// FisherYatesPermutation computes the deterministic Fisher-Yates
// permutation of the indices [0, n) driven by seed, per spec.md §4.6: the
// i-th entropy word is Blake2b-256(seed ‖ LE32(⌊i/8⌋)), read 4 bytes at
// offset 4*(i mod 8); index e_i mod (n−i) is drawn from the remaining
// pool, emitted, and replaced with the pool's last element. The recursive
// reference algorithm from spec.md §9 is expressed here iteratively, as
// §9 prefers.
func FisherYatesPermutation(seed jam.Hash, n int) []int {
	if n == 0 {
		return nil
	}
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		remLen := len(remaining)
		e := entropyWord(seed, i)
		idx := int(e % uint32(remLen))
		out = append(out, remaining[idx])
		remaining[idx] = remaining[remLen-1]
		remaining = remaining[:remLen-1]
	}
	return out
}

// entropyWord derives the i-th little-endian u32 entropy word used by the
// shuffle, per spec.md §4.6.
func entropyWord(seed jam.Hash, i int) uint32 {
	block := uint32(i / 8)
	var blockBytes [4]byte
	binary.LittleEndian.PutUint32(blockBytes[:], block)

	h := jamcrypto.Hash256(seed[:], blockBytes[:])
	off := 4 * (i % 8)
	return binary.LittleEndian.Uint32(h[off : off+4])
}

// ShuffleBandersnatchKeys returns the Fisher-Yates shuffle of keys using
// seed, used to derive the Safrole fallback key sequence (spec.md §4.3)
// from the next-epoch active validator key list.
func ShuffleBandersnatchKeys(seed jam.Hash, keys []jam.BandersnatchKey) []jam.BandersnatchKey {
	perm := FisherYatesPermutation(seed, len(keys))
	out := make([]jam.BandersnatchKey, len(keys))
	for i, p := range perm {
		out[i] = keys[p]
	}
	return out
}
