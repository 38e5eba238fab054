// Package jam holds the primitive types and compile-time parameters shared
// by every sub-transition of the block-import state-transition function.
package jam

import "fmt"

// Hash is an opaque 32-byte digest: a header hash, state root, work-report
// hash, or entropy pool entry.
type Hash [32]byte

// String renders the hash as a 0x-prefixed hex string.
func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Slot is a monotonically increasing 32-bit time-slot counter.
type Slot uint32

// Epoch is a slot's containing epoch number.
type Epoch uint32

// ValidatorIndex identifies a validator within an epoch's validator set.
type ValidatorIndex uint32

// CoreIndex identifies one of the configured cores.
type CoreIndex uint32

// BandersnatchKey is a compressed 32-byte Bandersnatch (Banderwagon) public
// key, used for ticket/seal ring-VRF membership.
type BandersnatchKey [32]byte

// Ed25519Key is a standard 32-byte Ed25519 public key.
type Ed25519Key [32]byte

// BLSKey is a compressed 48-byte BLS12-381 public key.
type BLSKey [48]byte

// ValidatorMetadata is an opaque 128-byte blob carried alongside each
// validator descriptor (peer address hints, etc. — uninterpreted by STF).
type ValidatorMetadata [128]byte

// ValidatorDescriptor is one entry of a validator set (κ, λ, or ι).
type ValidatorDescriptor struct {
	Bandersnatch BandersnatchKey
	Ed25519      Ed25519Key
	BLS          BLSKey
	Metadata     ValidatorMetadata
}
