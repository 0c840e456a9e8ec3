package hdkeychain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/wif"
)

var (
	// ErrEmptyPath ...
	ErrEmptyPath = errors.New("malformed path: empty")
	// ErrEmptyPathSegment ...
	ErrEmptyPathSegment = errors.New("malformed path: empty segment")
)

// DerivationPath is the parsed step list of a derivation request, each entry
// a child index with the high bit marking hardened steps.
type DerivationPath []uint32

// ParseDerivationPath converts a '/'-separated list of decimal indices,
// each optionally suffixed with the ' hardening marker, to the internal
// binary representation. Indices must lie in [0, 2^31).
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	if strPath == "" {
		return nil, ErrEmptyPath
	}

	elems := strings.Split(strPath, "/")
	path := make(DerivationPath, 0, len(elems))
	for _, elem := range elems {
		if elem == "" {
			return nil, ErrEmptyPathSegment
		}

		var value uint32
		if strings.HasSuffix(elem, "'") {
			value = HardenedKeyStart
			elem = strings.TrimSuffix(elem, "'")
		}

		// big.Int absorbs arbitrarily long digit runs without overflow
		bigval, ok := new(big.Int).SetString(elem, 10)
		if !ok {
			return nil, fmt.Errorf("malformed path: non-numeric index '%s'", elem)
		}
		if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(HardenedKeyStart))) >= 0 {
			return nil, fmt.Errorf("malformed path: index %v outside range [0, %d]", bigval, HardenedKeyStart-1)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}
	return path, nil
}

// String converts a binary derivation path to its canonical representation.
func (path DerivationPath) String() string {
	elems := make([]string, len(path))
	for i, component := range path {
		var hardened bool
		if component >= HardenedKeyStart {
			component -= HardenedKeyStart
			hardened = true
		}
		elems[i] = fmt.Sprintf("%d", component)
		if hardened {
			elems[i] += "'"
		}
	}
	return strings.Join(elems, "/")
}

// Shape selects the textual form a path evaluation produces from the key it
// lands on.
type Shape byte

const (
	// ShapeAddress renders the pay-to-pubkey-hash address.
	ShapeAddress Shape = 'a'
	// ShapeCompressedPub renders the compressed public key in hex.
	ShapeCompressedPub Shape = 'p'
	// ShapeUncompressedPub renders the uncompressed public key in hex.
	ShapeUncompressedPub Shape = 'P'
	// ShapeCompressedPriv renders the private key as a compressed-usage WIF.
	ShapeCompressedPriv Shape = 'k'
	// ShapeUncompressedPriv renders the private key as an
	// uncompressed-usage WIF.
	ShapeUncompressedPriv Shape = 'K'
	// ShapeExtendedPriv renders the serialized extended private key.
	ShapeExtendedPriv Shape = 'm'
	// ShapeExtendedPub renders the serialized extended public key.
	ShapeExtendedPub Shape = 'M'
)

// Path is a full derivation request: the output shape followed by the child
// steps to walk.
type Path struct {
	Shape Shape
	Steps DerivationPath
}

// ParsePath parses the grammar SHAPE ('/' INDEX ['\''])*, where SHAPE is one
// of a, p, P, k, K, m and M. A bare shape character addresses the key the
// path is evaluated against without deriving.
func ParsePath(strPath string) (*Path, error) {
	if strPath == "" {
		return nil, ErrEmptyPath
	}

	shape := Shape(strPath[0])
	switch shape {
	case ShapeAddress, ShapeCompressedPub, ShapeUncompressedPub,
		ShapeCompressedPriv, ShapeUncompressedPriv,
		ShapeExtendedPriv, ShapeExtendedPub:
	default:
		return nil, fmt.Errorf("malformed path: unrecognized shape character '%c'", strPath[0])
	}

	rest := strPath[1:]
	if rest == "" {
		return &Path{Shape: shape}, nil
	}
	if rest[0] != '/' {
		return nil, fmt.Errorf("malformed path: expected '/' after shape, got '%c'", rest[0])
	}
	steps, err := ParseDerivationPath(rest[1:])
	if err != nil {
		return nil, err
	}
	return &Path{Shape: shape, Steps: steps}, nil
}

// String returns the canonical textual form of the path.
func (p *Path) String() string {
	if len(p.Steps) == 0 {
		return string(p.Shape)
	}
	return string(p.Shape) + "/" + p.Steps.String()
}

// Evaluate walks the path's steps from key and renders the resulting key in
// the path's shape. Private shapes fail on public-only keys, hardened steps
// fail when key cannot supply a private parent.
func (p *Path) Evaluate(key *ExtendedKey, net *network.Network) (string, error) {
	derived, err := key.DerivePath(p.Steps)
	if err != nil {
		return "", err
	}

	switch p.Shape {
	case ShapeAddress:
		return derived.Address(net).Encode(), nil

	case ShapeCompressedPub:
		return fmt.Sprintf("%x", derived.ECPubKey().SerializeCompressed()), nil

	case ShapeUncompressedPub:
		return fmt.Sprintf("%x", derived.ECPubKey().SerializeUncompressed()), nil

	case ShapeCompressedPriv, ShapeUncompressedPriv:
		priv, err := derived.ECPrivKey()
		if err != nil {
			return "", err
		}
		compressed := p.Shape == ShapeCompressedPriv
		return wif.NewWIF(priv, net, compressed).Encode(), nil

	case ShapeExtendedPriv:
		if !derived.IsPrivate() {
			return "", ErrNotPrivExtKey
		}
		return derived.String(), nil

	case ShapeExtendedPub:
		neutered, err := derived.Neuter()
		if err != nil {
			return "", err
		}
		return neutered.String(), nil

	default:
		return "", fmt.Errorf("malformed path: unrecognized shape character '%c'", p.Shape)
	}
}
