package address

import (
	"crypto/sha256"
	"errors"

	"golang.org/x/crypto/ripemd160"

	"github.com/keysmith-network/keysmith/pkg/base58check"
	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/secp256k1"
)

var (
	// ErrUnknownVersion ...
	ErrUnknownVersion = errors.New("unrecognized address version byte")
	// ErrInvalidHashLen ...
	ErrInvalidHashLen = errors.New("address hash must be 20 bytes")
)

// Hash160Size is the length of the hash wrapped by an address.
const Hash160Size = ripemd160.Size

// Hash160 returns RIPEMD160(SHA256(b)), the digest addresses are built
// from.
func Hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// Address is a version byte paired with the 20-byte hash160 of a public key
// or script. Its textual form is the Base58Check encoding of that pair.
type Address struct {
	hash    [Hash160Size]byte
	version byte
}

// FromPubKey returns the pay-to-pubkey-hash address of pub on the given
// network. The compression flag selects which point encoding feeds the
// hash, compressed and uncompressed keys yield different addresses for the
// same point.
func FromPubKey(pub *secp256k1.PublicKey, net *network.Network, compressed bool) *Address {
	addr := &Address{version: net.PubKeyHash}
	copy(addr.hash[:], Hash160(pub.Serialize(compressed)))
	return addr
}

// FromScriptHash returns the pay-to-script-hash address committing to the
// given redeem script on the given network.
func FromScriptHash(script []byte, net *network.Network) *Address {
	addr := &Address{version: net.ScriptHash}
	copy(addr.hash[:], Hash160(script))
	return addr
}

// FromHash160 wraps an already computed 20-byte hash.
func FromHash160(hash []byte, version byte) (*Address, error) {
	if len(hash) != Hash160Size {
		return nil, ErrInvalidHashLen
	}
	addr := &Address{version: version}
	copy(addr.hash[:], hash)
	return addr, nil
}

// Decode parses a Base58Check address carrying a version byte of any known
// network.
func Decode(encoded string) (*Address, error) {
	payload, version, err := base58check.CheckDecode(encoded)
	if err != nil {
		return nil, err
	}
	switch version {
	case network.Mainnet.PubKeyHash, network.Mainnet.ScriptHash,
		network.Testnet.PubKeyHash, network.Testnet.ScriptHash:
	default:
		return nil, ErrUnknownVersion
	}
	return FromHash160(payload, version)
}

// Encode returns the Base58Check textual form.
func (a *Address) Encode() string {
	return base58check.CheckEncode(a.hash[:], a.version)
}

// Hash160 returns the wrapped hash.
func (a *Address) Hash160() [Hash160Size]byte {
	return a.hash
}

// Version returns the version byte the address was built with.
func (a *Address) Version() byte {
	return a.version
}

// IsScriptHash reports whether the address commits to a script hash
// rather than a public key hash.
func (a *Address) IsScriptHash() bool {
	return a.version == network.Mainnet.ScriptHash ||
		a.version == network.Testnet.ScriptHash
}

// IsForNet reports whether the address belongs to the given network.
func (a *Address) IsForNet(net *network.Network) bool {
	return a.version == net.PubKeyHash || a.version == net.ScriptHash
}

// IsEqual reports whether both addresses carry the same version and hash.
func (a *Address) IsEqual(other *Address) bool {
	return a.version == other.version && a.hash == other.hash
}
