// Package electrum implements the legacy sequential key scheme used by
// first-generation deterministic wallets. A whole wallet is summarized by a
// single 64-byte master public key blob; every receive and change key is
// reachable from it by index, with no chain codes and no hardening.
package electrum

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"runtime"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/sync/errgroup"

	"github.com/keysmith-network/keysmith/pkg/secp256k1"
)

const (
	// StretchRounds is the historical iteration count of the seed
	// stretching loop.
	StretchRounds = 100000

	// MasterPublicKeyLen is the length of the master public key blob:
	// both affine coordinates of the master point, big-endian, with no
	// format prefix.
	MasterPublicKeyLen = 64

	// MaxRangeCount bounds how many positions a single KeyRange call
	// derives, keeping the result allocation proportionate to real
	// wallet gap limits rather than to whatever count a caller passes.
	MaxRangeCount = 1 << 16
)

var (
	// ErrEmptySeed ...
	ErrEmptySeed = errors.New("seed must not be empty")
	// ErrInvalidMPKLen ...
	ErrInvalidMPKLen = fmt.Errorf(
		"master public key must be %d bytes", MasterPublicKeyLen,
	)
	// ErrInvalidMPK ...
	ErrInvalidMPK = errors.New("master public key is not a point on the curve")
	// ErrInvalidChildKey ...
	ErrInvalidChildKey = errors.New("derived child key is not usable")
	// ErrRangeTooLarge ...
	ErrRangeTooLarge = fmt.Errorf(
		"key range count must not exceed %d", MaxRangeCount,
	)
)

// StretchSeed runs the legacy stretching loop over the raw seed bytes.
// Starting from the seed itself, each round hashes the running digest
// concatenated with the original seed. The result is the master secret.
func StretchSeed(seed []byte) []byte {
	running := seed
	h := sha256.New()
	for i := 0; i < StretchRounds; i++ {
		h.Reset()
		h.Write(running)
		h.Write(seed)
		running = h.Sum(nil)
	}
	return running
}

// SequenceOffset computes the scalar offset that moves the master key to
// the key at the given position. The offset commits to the index, the
// chain (external or change) and the master public key blob, so two
// wallets never share a sequence.
func SequenceOffset(mpk []byte, index uint32, change bool) (*big.Int, error) {
	if len(mpk) != MasterPublicKeyLen {
		return nil, ErrInvalidMPKLen
	}
	chain := 0
	if change {
		chain = 1
	}
	preimage := append([]byte(fmt.Sprintf("%d:%d:", index, chain)), mpk...)
	z := new(big.Int).SetBytes(chainhash.DoubleHashB(preimage))
	return z.Mod(z, secp256k1.S256().N), nil
}

// ParseMasterPublicKey validates a 64-byte master public key blob and
// returns the point it encodes.
func ParseMasterPublicKey(mpk []byte) (*secp256k1.PublicKey, error) {
	if len(mpk) != MasterPublicKeyLen {
		return nil, ErrInvalidMPKLen
	}
	x := new(big.Int).SetBytes(mpk[:32])
	y := new(big.Int).SetBytes(mpk[32:])
	point := secp256k1.NewPoint(x, y)
	if !secp256k1.S256().IsOnCurve(point) {
		return nil, ErrInvalidMPK
	}
	return &secp256k1.PublicKey{X: x, Y: y}, nil
}

// ChildPublicKey derives the public key at the given position from the
// master public key blob alone. No private material is required, which is
// what makes watch-only sequential wallets possible.
func ChildPublicKey(mpk []byte, index uint32, change bool) (*secp256k1.PublicKey, error) {
	master, err := ParseMasterPublicKey(mpk)
	if err != nil {
		return nil, err
	}
	z, err := SequenceOffset(mpk, index, change)
	if err != nil {
		return nil, err
	}

	curve := secp256k1.S256()
	point := curve.Add(curve.ScalarBaseMult(z), master.Point())
	if point.IsInfinity() {
		return nil, ErrInvalidChildKey
	}
	return &secp256k1.PublicKey{X: point.X, Y: point.Y}, nil
}

// MasterKey is the root of a sequential wallet: the stretched master
// scalar together with its public point.
type MasterKey struct {
	secret *secp256k1.PrivateKey
	mpk    *secp256k1.PublicKey
}

// NewMasterKey stretches the seed into the master secret. The stretched
// value must land in the valid scalar range, anything else is rejected.
func NewMasterKey(seed []byte) (*MasterKey, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	secret, err := secp256k1.PrivKeyFromBytes(StretchSeed(seed))
	if err != nil {
		return nil, err
	}
	return &MasterKey{secret: secret, mpk: secret.PubKey()}, nil
}

// MasterPublicKey returns the 64-byte blob shared with watch-only
// consumers.
func (m *MasterKey) MasterPublicKey() []byte {
	return m.mpk.SerializeUncompressed()[1:]
}

// ChildPrivateKey returns the private key at the given position, the
// master scalar plus the sequence offset.
func (m *MasterKey) ChildPrivateKey(index uint32, change bool) (*secp256k1.PrivateKey, error) {
	z, err := SequenceOffset(m.MasterPublicKey(), index, change)
	if err != nil {
		return nil, err
	}
	d := secp256k1.S256().AddModN(m.secret.D, z)
	if d.Sign() == 0 {
		return nil, ErrInvalidChildKey
	}
	return &secp256k1.PrivateKey{D: d}, nil
}

// KeyPair is one derived position of the sequence.
type KeyPair struct {
	Index   uint32
	Change  bool
	PrivKey *secp256k1.PrivateKey
	PubKey  *secp256k1.PublicKey
}

// KeyRange derives count consecutive positions starting at first. Each
// position depends only on the master key and its own index, so the batch
// fans out across CPUs and is reassembled in index order.
func (m *MasterKey) KeyRange(first, count uint32, change bool) ([]KeyPair, error) {
	if count > MaxRangeCount {
		return nil, ErrRangeTooLarge
	}
	pairs := make([]KeyPair, count)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := uint32(0); i < count; i++ {
		i := i
		g.Go(func() error {
			priv, err := m.ChildPrivateKey(first+i, change)
			if err != nil {
				return err
			}
			pairs[i] = KeyPair{
				Index:   first + i,
				Change:  change,
				PrivKey: priv,
				PubKey:  priv.PubKey(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pairs, nil
}
