package base58check

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// ErrChecksumMismatch ...
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrInvalidFormat ...
	ErrInvalidFormat = errors.New("invalid format: version and/or checksum bytes missing")
)

// Checksum returns the first four bytes of the double SHA256 of buf. It is
// the integrity tag appended by CheckEncode and is also usable on its own
// to fingerprint arbitrary payloads.
func Checksum(buf []byte) (sum [4]byte) {
	copy(sum[:], chainhash.DoubleHashB(buf)[:4])
	return
}

// CheckEncode prepends the version byte to payload, appends the four byte
// checksum of the result and encodes everything in base58.
func CheckEncode(payload []byte, version byte) string {
	buf := make([]byte, 0, 1+len(payload)+4)
	buf = append(buf, version)
	buf = append(buf, payload...)
	sum := Checksum(buf)
	buf = append(buf, sum[:]...)
	return base58.Encode(buf)
}

// CheckDecode decodes a base58 string, verifies its trailing checksum and
// splits off the leading version byte. The returned payload contains
// everything between version and checksum.
func CheckDecode(encoded string) ([]byte, byte, error) {
	decoded := base58.Decode(encoded)
	if len(decoded) < 5 {
		return nil, 0, ErrInvalidFormat
	}
	var sum [4]byte
	copy(sum[:], decoded[len(decoded)-4:])
	if Checksum(decoded[:len(decoded)-4]) != sum {
		return nil, 0, ErrChecksumMismatch
	}
	return decoded[1 : len(decoded)-4], decoded[0], nil
}
