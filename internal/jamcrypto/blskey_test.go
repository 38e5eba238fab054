package jamcrypto

import "github.com/jamnode/jam/internal/jam"
import "testing"

func TestValidateBLSKeyRejectsUncompressed(t *testing.T) {
	var key jam.BLSKey
	key[0] = 0x00
	if ValidateBLSKey(key) {
		t.Fatalf("key without the compression flag should be rejected")
	}
}

func TestValidateBLSKeyAcceptsCompressedPoint(t *testing.T) {
	var key jam.BLSKey
	key[0] = 0x80
	key[1] = 0x01
	if !ValidateBLSKey(key) {
		t.Fatalf("structurally valid compressed point should be accepted")
	}
}

func TestValidateBLSKeyAcceptsWellFormedInfinity(t *testing.T) {
	var key jam.BLSKey
	key[0] = 0x80 | 0x40
	if !ValidateBLSKey(key) {
		t.Fatalf("all-zero infinity encoding should be accepted")
	}
}

func TestValidateBLSKeyRejectsMalformedInfinity(t *testing.T) {
	var key jam.BLSKey
	key[0] = 0x80 | 0x40
	key[10] = 0x01
	if ValidateBLSKey(key) {
		t.Fatalf("infinity flag set with non-zero body should be rejected")
	}
}
