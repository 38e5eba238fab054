//go:build blst

package jamcrypto

import (
	blst "github.com/supranational/blst/bindings/go"

	"github.com/jamnode/jam/internal/jam"
)

func init() {
	blsKeyValidator = validateBLSKeyBlst
}

// validateBLSKeyBlst validates a compressed G1 point with the real blst
// library, matching the "MinPk" scheme (pubkeys in G1) used throughout this
// repo's BLS plumbing.
func validateBLSKeyBlst(key jam.BLSKey) bool {
	pk := new(blst.P1Affine).Uncompress(key[:])
	return pk != nil && pk.KeyValidate()
}
