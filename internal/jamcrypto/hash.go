// Package jamcrypto holds the hashing and key-material primitives shared by
// the state-transition packages: Blake2b-256 hashing (grounded on the
// teacher's crypto.Keccak256 pattern, swapped to the hash spec.md actually
// requires), Ed25519 batch verification, a BLS key wrapper, and a
// Bandersnatch/Banderwagon key type adapted from the teacher's Verkle-tree
// curve implementation.
package jamcrypto

import (
	"golang.org/x/crypto/blake2b"

	"github.com/jamnode/jam/internal/jam"
)

// Hash256 computes the Blake2b-256 digest of the concatenation of parts.
func Hash256(parts ...[]byte) jam.Hash {
	d, err := blake2b.New256(nil)
	if err != nil {
		// New256 only errors on bad key length; we never pass one.
		panic(err)
	}
	for _, p := range parts {
		d.Write(p)
	}
	var out jam.Hash
	copy(out[:], d.Sum(nil))
	return out
}

// Hash256Bytes is Hash256 returning a plain byte slice, for call sites that
// feed the digest into further hashing rather than holding it as jam.Hash.
func Hash256Bytes(parts ...[]byte) []byte {
	h := Hash256(parts...)
	return h[:]
}
