package jamcrypto

import (
	"errors"

	"github.com/jamnode/jam/internal/jam"
)

// ErrInvalidBLSKey is returned when a validator descriptor's BLS key is not
// a validly-encoded compressed G1 point.
var ErrInvalidBLSKey = errors.New("jamcrypto: invalid BLS public key encoding")

// blsKeyValidator is swapped for the real blst-backed check when built with
// the "blst" tag (blskey_blst.go); see bls_integration.go in the teacher
// corpus for the same backend-switch shape.
var blsKeyValidator func(jam.BLSKey) bool = validateBLSKeyStructural

// ValidateBLSKey reports whether key is an acceptable compressed BLS12-381
// G1 key. Built with the "blst" tag it checks that the key decodes to a G1
// point; otherwise it checks only the header bits (validateBLSKeyStructural).
// The STF never performs a BLS pairing operation itself, and neither
// genesis load nor validator-set rotation calls this check.
func ValidateBLSKey(key jam.BLSKey) bool {
	return blsKeyValidator(key)
}

// validateBLSKeyStructural is the pure-Go fallback: it checks the
// compressed-point header bits (compression flag set, infinity flag
// consistent with an all-zero body) without doing full curve arithmetic.
// Built without the "blst" tag, this is the active validator.
func validateBLSKeyStructural(key jam.BLSKey) bool {
	const compressedFlag = 0x80
	const infinityFlag = 0x40
	if key[0]&compressedFlag == 0 {
		return false
	}
	if key[0]&infinityFlag != 0 {
		for i := 1; i < len(key); i++ {
			if key[i] != 0 {
				return false
			}
		}
		return key[0] == (compressedFlag | infinityFlag)
	}
	return true
}
