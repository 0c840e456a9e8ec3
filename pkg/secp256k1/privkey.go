package secp256k1

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
)

var (
	// ErrInvalidPrivKeyLen ...
	ErrInvalidPrivKeyLen = errors.New("private key must be 32 bytes")
	// ErrPrivKeyOutOfRange ...
	ErrPrivKeyOutOfRange = errors.New("private key scalar out of range [1, N-1]")
)

// PrivKeyBytesLen is the length of a serialized private key.
const PrivKeyBytesLen = 32

// PrivateKey is a secp256k1 scalar in [1, N-1] usable for signing and for
// deriving its public point.
type PrivateKey struct {
	D *big.Int
}

// GeneratePrivateKey returns a private key drawn uniformly from [1, N-1] by
// rejection sampling entropy read from r, or from crypto/rand when r is nil.
func GeneratePrivateKey(r io.Reader) (*PrivateKey, error) {
	if r == nil {
		r = rand.Reader
	}
	var buf [PrivKeyBytesLen]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d := new(big.Int).SetBytes(buf[:])
		if d.Sign() > 0 && d.Cmp(S256().N) < 0 {
			return &PrivateKey{D: d}, nil
		}
	}
}

// PrivKeyFromBytes parses a 32-byte big-endian scalar, rejecting values
// outside [1, N-1].
func PrivKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivKeyBytesLen {
		return nil, ErrInvalidPrivKeyLen
	}
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(S256().N) >= 0 {
		return nil, ErrPrivKeyOutOfRange
	}
	return &PrivateKey{D: d}, nil
}

// PrivKeyFromHex parses a private key from its 64-character hex form.
func PrivKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %v", err)
	}
	return PrivKeyFromBytes(b)
}

// PubKey returns the public point D*G.
func (k *PrivateKey) PubKey() *PublicKey {
	p := S256().ScalarBaseMult(k.D)
	return &PublicKey{X: p.X, Y: p.Y}
}

// Serialize returns the scalar as 32 big-endian bytes, left padded with
// zeros.
func (k *PrivateKey) Serialize() []byte {
	var buf [PrivKeyBytesLen]byte
	k.D.FillBytes(buf[:])
	return buf[:]
}
