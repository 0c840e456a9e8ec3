// Package hdkeychain implements BIP32 hierarchical deterministic extended
// keys: master key generation from a seed, hardened and normal child key
// derivation for both private and public extended keys, and the canonical
// 78-byte Base58Check serialization.
package hdkeychain

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/keysmith-network/keysmith/pkg/address"
	"github.com/keysmith-network/keysmith/pkg/base58check"
	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/secp256k1"
)

const (
	// HardenedKeyStart is the index boundary at 2^31: children at or above
	// it require the parent private key to derive.
	HardenedKeyStart uint32 = 0x80000000

	// MinSeedBytes and MaxSeedBytes bound the accepted master seed length.
	MinSeedBytes = 16
	MaxSeedBytes = 64

	// serializedKeyLen is the length of the binary extended key layout:
	// 4 bytes version, 1 byte depth, 4 bytes parent fingerprint, 4 bytes
	// child index, 32 bytes chain code and 33 bytes key data.
	serializedKeyLen = 78

	maxDepth = 255
)

var (
	// ErrDeriveHardFromPublic ...
	ErrDeriveHardFromPublic = errors.New("hardened derivation requires a private key")
	// ErrDeriveBeyondMaxDepth ...
	ErrDeriveBeyondMaxDepth = errors.New("cannot derive a key with more than 255 indices in its path")
	// ErrNotPrivExtKey ...
	ErrNotPrivExtKey = errors.New("operation requires a private extended key")
	// ErrInvalidChild signals the statistically unreachable case of a child
	// whose intermediate scalar falls outside [1, N-1] or whose point is
	// the identity. Callers should skip to the next index.
	ErrInvalidChild = errors.New("the derived child key is invalid")
	// ErrUnusableSeed ...
	ErrUnusableSeed = errors.New("unusable seed: the master key it generates is outside the valid scalar range")
	// ErrInvalidSeedLen ...
	ErrInvalidSeedLen = fmt.Errorf("seed length must be between %d and %d bytes", MinSeedBytes, MaxSeedBytes)
	// ErrInvalidKeyLen ...
	ErrInvalidKeyLen = errors.New("the provided serialized extended key length is invalid")
	// ErrUnknownVersion ...
	ErrUnknownVersion = errors.New("unrecognized extended key version bytes")

	// masterHMACKey seeds the HMAC producing the master key material.
	masterHMACKey = []byte("Bitcoin seed")
)

// ExtendedKey is a BIP32 extended private or public key: the key material
// plus the chain code and positional metadata needed to derive children.
// Exactly one of the private and public variants is held, a private key can
// always project its public counterpart but never the reverse. Keys are
// immutable values, derivation produces new ones.
type ExtendedKey struct {
	version   [4]byte
	depth     uint8
	parentFP  [4]byte
	childNum  uint32
	chainCode [32]byte

	priv *secp256k1.PrivateKey
	pub  *secp256k1.PublicKey
}

// NewMaster generates the master extended private key for the given seed on
// the given network. Seeds outside [MinSeedBytes, MaxSeedBytes] are
// rejected, as is the unusable edge case of master key material falling
// outside the valid scalar range.
func NewMaster(seed []byte, net *network.Network) (*ExtendedKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, ErrInvalidSeedLen
	}

	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	lr := mac.Sum(nil)

	priv, err := secp256k1.PrivKeyFromBytes(lr[:32])
	if err != nil {
		return nil, ErrUnusableSeed
	}

	key := &ExtendedKey{
		version: net.HDPrivateKey,
		priv:    priv,
	}
	copy(key.chainCode[:], lr[32:])
	return key, nil
}

// IsPrivate reports whether the key is the private variant.
func (k *ExtendedKey) IsPrivate() bool {
	return k.priv != nil
}

// Depth returns the number of derivation steps below the master key.
func (k *ExtendedKey) Depth() uint8 {
	return k.depth
}

// ParentFingerprint returns the first four bytes of the parent's hash160,
// zero for a master key.
func (k *ExtendedKey) ParentFingerprint() [4]byte {
	return k.parentFP
}

// ChildIndex returns the index this key was derived at, with the high bit
// set for hardened children.
func (k *ExtendedKey) ChildIndex() uint32 {
	return k.childNum
}

// ChainCode returns the 32-byte chain code extending the key material.
func (k *ExtendedKey) ChainCode() [32]byte {
	return k.chainCode
}

// ECPrivKey returns the private key material, failing on public-only keys.
func (k *ExtendedKey) ECPrivKey() (*secp256k1.PrivateKey, error) {
	if k.priv == nil {
		return nil, ErrNotPrivExtKey
	}
	return k.priv, nil
}

// ECPubKey returns the public key material, deriving it from the scalar on
// first use for private keys.
func (k *ExtendedKey) ECPubKey() *secp256k1.PublicKey {
	if k.pub == nil {
		k.pub = k.priv.PubKey()
	}
	return k.pub
}

// Fingerprint returns the first four bytes of the key's own hash160,
// identifying it as a parent in its children's serialization.
func (k *ExtendedKey) Fingerprint() [4]byte {
	var fp [4]byte
	copy(fp[:], address.Hash160(k.ECPubKey().SerializeCompressed())[:4])
	return fp
}

// Address returns the pay-to-pubkey-hash address of the key's public point
// in compressed form.
func (k *ExtendedKey) Address(net *network.Network) *address.Address {
	return address.FromPubKey(k.ECPubKey(), net, true)
}

// Derive returns the child key at index i. Indices at or above
// HardenedKeyStart derive hardened children and are only reachable from a
// private parent. The two statistically unreachable invalid-child cases
// surface as ErrInvalidChild.
func (k *ExtendedKey) Derive(i uint32) (*ExtendedKey, error) {
	if k.depth == maxDepth {
		return nil, ErrDeriveBeyondMaxDepth
	}
	hardened := i >= HardenedKeyStart
	if hardened && !k.IsPrivate() {
		return nil, ErrDeriveHardFromPublic
	}

	// data is 0x00 || ser256(parent scalar) || ser32(i) for hardened
	// children, serP(parent point) || ser32(i) for normal ones.
	data := make([]byte, 0, 37)
	if hardened {
		data = append(data, 0x00)
		data = append(data, k.priv.Serialize()...)
	} else {
		data = append(data, k.ECPubKey().SerializeCompressed()...)
	}
	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], i)
	data = append(data, indexBytes[:]...)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data)
	lr := mac.Sum(nil)

	il := new(big.Int).SetBytes(lr[:32])
	if il.Cmp(secp256k1.S256().N) >= 0 || il.Sign() == 0 {
		return nil, ErrInvalidChild
	}

	child := &ExtendedKey{
		version:  k.version,
		depth:    k.depth + 1,
		parentFP: k.Fingerprint(),
		childNum: i,
	}
	copy(child.chainCode[:], lr[32:])

	if k.IsPrivate() {
		// child scalar = (IL + parent scalar) mod N
		childScalar := secp256k1.S256().AddModN(il, k.priv.D)
		if childScalar.Sign() == 0 {
			return nil, ErrInvalidChild
		}
		child.priv = &secp256k1.PrivateKey{D: childScalar}
		return child, nil
	}

	// child point = IL*G + parent point
	point := secp256k1.S256().Add(
		secp256k1.S256().ScalarBaseMult(il),
		k.pub.Point(),
	)
	if point.IsInfinity() {
		return nil, ErrInvalidChild
	}
	child.pub = &secp256k1.PublicKey{X: point.X, Y: point.Y}
	return child, nil
}

// DerivePath applies every step of the path in order.
func (k *ExtendedKey) DerivePath(path DerivationPath) (*ExtendedKey, error) {
	key := k
	for _, i := range path {
		var err error
		if key, err = key.Derive(i); err != nil {
			return nil, err
		}
	}
	return key, nil
}

// Neuter projects the extended private key to its extended public
// counterpart, dropping the scalar and keeping the derived point. Neutering
// a public key returns it unchanged.
func (k *ExtendedKey) Neuter() (*ExtendedKey, error) {
	if !k.IsPrivate() {
		return k, nil
	}
	pubVersion, ok := hdPubVersionFor(k.version)
	if !ok {
		return nil, ErrUnknownVersion
	}
	return &ExtendedKey{
		version:   pubVersion,
		depth:     k.depth,
		parentFP:  k.parentFP,
		childNum:  k.childNum,
		chainCode: k.chainCode,
		pub:       k.ECPubKey(),
	}, nil
}

// String returns the Base58Check form of the 78-byte extended key layout.
func (k *ExtendedKey) String() string {
	payload := make([]byte, 0, serializedKeyLen+4)
	payload = append(payload, k.version[:]...)
	payload = append(payload, k.depth)
	payload = append(payload, k.parentFP[:]...)
	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], k.childNum)
	payload = append(payload, indexBytes[:]...)
	payload = append(payload, k.chainCode[:]...)
	if k.IsPrivate() {
		payload = append(payload, 0x00)
		payload = append(payload, k.priv.Serialize()...)
	} else {
		payload = append(payload, k.pub.SerializeCompressed()...)
	}

	sum := base58check.Checksum(payload)
	return base58.Encode(append(payload, sum[:]...))
}

// NewKeyFromString parses the Base58Check form of an extended key,
// verifying the checksum, the version bytes and the embedded key material.
func NewKeyFromString(encoded string) (*ExtendedKey, error) {
	decoded := base58.Decode(encoded)
	if len(decoded) != serializedKeyLen+4 {
		return nil, ErrInvalidKeyLen
	}

	payload := decoded[:serializedKeyLen]
	var sum [4]byte
	copy(sum[:], decoded[serializedKeyLen:])
	if base58check.Checksum(payload) != sum {
		return nil, base58check.ErrChecksumMismatch
	}

	key := &ExtendedKey{
		depth:    payload[4],
		childNum: binary.BigEndian.Uint32(payload[9:13]),
	}
	copy(key.version[:], payload[:4])
	copy(key.parentFP[:], payload[5:9])
	copy(key.chainCode[:], payload[13:45])
	keyData := payload[45:]

	isPrivate, ok := isPrivVersion(key.version)
	if !ok {
		return nil, ErrUnknownVersion
	}
	if isPrivate {
		if keyData[0] != 0x00 {
			return nil, fmt.Errorf("invalid private key padding byte 0x%02x", keyData[0])
		}
		priv, err := secp256k1.PrivKeyFromBytes(keyData[1:])
		if err != nil {
			return nil, err
		}
		key.priv = priv
		return key, nil
	}
	pub, err := secp256k1.ParsePubKey(keyData)
	if err != nil {
		return nil, err
	}
	key.pub = pub
	return key, nil
}

var knownNetworks = []*network.Network{&network.Mainnet, &network.Testnet}

func hdPubVersionFor(privVersion [4]byte) ([4]byte, bool) {
	for _, net := range knownNetworks {
		if net.HDPrivateKey == privVersion {
			return net.HDPublicKey, true
		}
	}
	return [4]byte{}, false
}

func isPrivVersion(version [4]byte) (isPrivate, known bool) {
	for _, net := range knownNetworks {
		if net.HDPrivateKey == version {
			return true, true
		}
		if net.HDPublicKey == version {
			return false, true
		}
	}
	return false, false
}
