package secp256k1

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

const (
	// PubKeyBytesLenCompressed is the length of the compressed point
	// encoding: a parity prefix followed by the X coordinate.
	PubKeyBytesLenCompressed = 33
	// PubKeyBytesLenUncompressed is the length of the uncompressed point
	// encoding: a 0x04 prefix followed by both coordinates.
	PubKeyBytesLenUncompressed = 65

	pubKeyEven         byte = 0x02
	pubKeyOdd          byte = 0x03
	pubKeyUncompressed byte = 0x04
)

var (
	// ErrInvalidPubKeyLen ...
	ErrInvalidPubKeyLen = errors.New("public key must be 33 (compressed) or 65 (uncompressed) bytes")
	// ErrPubKeyNotOnCurve ...
	ErrPubKeyNotOnCurve = errors.New("public key is not a point on the secp256k1 curve")
)

// PublicKey is a point on the curve usable for signature verification and
// address construction.
type PublicKey struct {
	X, Y *big.Int
}

// ParsePubKey parses a compressed or uncompressed point encoding, verifying
// coordinate ranges and curve membership. Compressed encodings resolve the
// two Y candidates by the parity carried in the prefix byte.
func ParsePubKey(b []byte) (*PublicKey, error) {
	switch len(b) {
	case PubKeyBytesLenCompressed:
		prefix := b[0]
		if prefix != pubKeyEven && prefix != pubKeyOdd {
			return nil, fmt.Errorf("invalid compressed public key prefix 0x%02x", prefix)
		}
		x := new(big.Int).SetBytes(b[1:])
		if x.Cmp(S256().P) >= 0 {
			return nil, ErrPubKeyNotOnCurve
		}
		y, err := S256().decompressY(x, prefix == pubKeyOdd)
		if err != nil {
			return nil, err
		}
		return &PublicKey{X: x, Y: y}, nil

	case PubKeyBytesLenUncompressed:
		if b[0] != pubKeyUncompressed {
			return nil, fmt.Errorf("invalid uncompressed public key prefix 0x%02x", b[0])
		}
		x := new(big.Int).SetBytes(b[1:33])
		y := new(big.Int).SetBytes(b[33:])
		pub := &PublicKey{X: x, Y: y}
		if !S256().IsOnCurve(pub.Point()) {
			return nil, ErrPubKeyNotOnCurve
		}
		return pub, nil

	default:
		return nil, ErrInvalidPubKeyLen
	}
}

// ParsePubKeyHex parses a point from its hex encoded compressed or
// uncompressed form.
func ParsePubKeyHex(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid public key hex: %v", err)
	}
	return ParsePubKey(b)
}

// Point returns the affine point backing the key.
func (p *PublicKey) Point() *Point {
	return &Point{X: p.X, Y: p.Y}
}

// SerializeCompressed returns the 33-byte compressed encoding, a parity
// prefix (0x02 even, 0x03 odd) followed by the X coordinate.
func (p *PublicKey) SerializeCompressed() []byte {
	var buf [PubKeyBytesLenCompressed]byte
	buf[0] = pubKeyEven
	if isOdd(p.Y) {
		buf[0] = pubKeyOdd
	}
	p.X.FillBytes(buf[1:])
	return buf[:]
}

// SerializeUncompressed returns the 65-byte uncompressed encoding, the 0x04
// prefix followed by the X and Y coordinates.
func (p *PublicKey) SerializeUncompressed() []byte {
	var buf [PubKeyBytesLenUncompressed]byte
	buf[0] = pubKeyUncompressed
	p.X.FillBytes(buf[1:33])
	p.Y.FillBytes(buf[33:])
	return buf[:]
}

// Serialize returns the encoding selected by the compression flag.
func (p *PublicKey) Serialize(compressed bool) []byte {
	if compressed {
		return p.SerializeCompressed()
	}
	return p.SerializeUncompressed()
}

// IsEqual reports whether p and q represent the same point.
func (p *PublicKey) IsEqual(q *PublicKey) bool {
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}
