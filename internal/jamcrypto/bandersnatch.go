// Bandersnatch/Banderwagon public-key representation, adapted from the
// teacher's Verkle-tree curve implementation (crypto/banderwagon.go). Only
// the group-membership half of that file survives here: decompression and
// curve-membership checking for the validator descriptor's Bandersnatch
// key. The ring-VRF signing/verification relation over this key is an
// explicit non-goal (spec.md §1, §9) and lives behind the opaque RingVRF
// capability in internal/safrole instead.
package jamcrypto

import (
	"errors"
	"math/big"

	"github.com/jamnode/jam/internal/jam"
)

// Banderwagon base-field modulus r (BLS12-381 scalar field) and the twisted
// Edwards curve parameters -5x² + y² = 1 + dx²y², copied verbatim from the
// teacher's crypto.banderFr/banderA/banderD.
var (
	banderFr, _ = new(big.Int).SetString(
		"73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

	banderA = func() *big.Int {
		a := new(big.Int).Sub(banderFr, big.NewInt(5))
		return a
	}()

	banderD, _ = new(big.Int).SetString(
		"6389c12633c267cbc66e3bf86be3b6d8cb66677177e54f92b369f2f5188d58e7", 16)
)

// ErrInvalidBandersnatchKey is returned when a key does not decompress to a
// point on the Banderwagon curve.
var ErrInvalidBandersnatchKey = errors.New("jamcrypto: invalid bandersnatch public key")

// BandersnatchPoint is a decompressed Banderwagon point in affine
// coordinates.
type BandersnatchPoint struct {
	X, Y *big.Int
}

// DecompressBandersnatch decompresses a 32-byte compressed key into its
// affine coordinates, rejecting any encoding that is not a point on the
// curve. The encoding matches the teacher's BanderDeserialize: Y is
// little-endian with the sign of X carried in the top bit of the last byte;
// y = 1 (first byte 0x01, all other bytes zero) denotes the identity.
func DecompressBandersnatch(key jam.BandersnatchKey) (*BandersnatchPoint, error) {
	data := key
	signBit := data[31] & 0x80
	data[31] &= 0x7f

	if data == (jam.BandersnatchKey{0x01}) {
		// Identity point is reserved; reject it as a validator key, since a
		// validator cannot usefully hold the neutral element.
		return nil, ErrInvalidBandersnatchKey
	}

	beBytes := make([]byte, 32)
	for i := 0; i < 32; i++ {
		beBytes[31-i] = data[i]
	}
	y := new(big.Int).SetBytes(beBytes)
	if y.Cmp(banderFr) >= 0 {
		return nil, ErrInvalidBandersnatchKey
	}

	y2 := fMul(y, y)
	num := fSub(y2, big.NewInt(1))
	den := fAdd(big.NewInt(5), fMul(banderD, y2))
	denInv := new(big.Int).ModInverse(den, banderFr)
	if denInv == nil {
		return nil, ErrInvalidBandersnatchKey
	}
	x2 := fMul(num, denInv)

	x := new(big.Int).ModSqrt(x2, banderFr)
	if x == nil {
		return nil, ErrInvalidBandersnatchKey
	}

	half := new(big.Int).Rsh(banderFr, 1)
	if signBit != 0 && x.Cmp(half) <= 0 {
		x = fNeg(x)
	} else if signBit == 0 && x.Cmp(half) > 0 {
		x = fNeg(x)
	}

	if !onCurve(x, y) {
		return nil, ErrInvalidBandersnatchKey
	}
	return &BandersnatchPoint{X: x, Y: y}, nil
}

// ValidateBandersnatchKey reports whether key decompresses to a valid
// curve point, without returning the point itself. Used on validator-set
// rotation (spec.md §3's validator-descriptor invariant); genesis load does
// not call it.
func ValidateBandersnatchKey(key jam.BandersnatchKey) bool {
	_, err := DecompressBandersnatch(key)
	return err == nil
}

func onCurve(x, y *big.Int) bool {
	x2 := fMul(x, x)
	y2 := fMul(y, y)
	lhs := fAdd(fMul(banderA, x2), y2)
	rhs := fAdd(big.NewInt(1), fMul(banderD, fMul(x2, y2)))
	return lhs.Cmp(rhs) == 0
}

func fAdd(a, b *big.Int) *big.Int { return new(big.Int).Mod(new(big.Int).Add(a, b), banderFr) }
func fSub(a, b *big.Int) *big.Int { return new(big.Int).Mod(new(big.Int).Sub(a, b), banderFr) }
func fMul(a, b *big.Int) *big.Int { return new(big.Int).Mod(new(big.Int).Mul(a, b), banderFr) }
func fNeg(a *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(banderFr, new(big.Int).Mod(a, banderFr))
}
