package wif

import (
	"errors"

	"github.com/keysmith-network/keysmith/pkg/base58check"
	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/secp256k1"
)

var (
	// ErrInvalidLength ...
	ErrInvalidLength = errors.New("WIF payload must be 32 or 33 bytes")
	// ErrInvalidCompressionMarker ...
	ErrInvalidCompressionMarker = errors.New("WIF compression marker must be 0x01")
	// ErrUnknownVersion ...
	ErrUnknownVersion = errors.New("unrecognized WIF version byte")
)

// WIF pairs a private key with the metadata carried by its Wallet Import
// Format encoding: the network version byte and the flag selecting which
// public key encoding the key implies. The flag travels through every
// conversion, dropping it silently would change the derived address.
type WIF struct {
	PrivKey    *secp256k1.PrivateKey
	Compressed bool
	netID      byte
}

// NewWIF wraps priv for the given network.
func NewWIF(priv *secp256k1.PrivateKey, net *network.Network, compressed bool) *WIF {
	return &WIF{PrivKey: priv, Compressed: compressed, netID: net.Wif}
}

// Decode parses a WIF string: Base58Check with the network WIF version byte,
// a 32-byte scalar and an optional trailing 0x01 marking compressed usage.
func Decode(encoded string) (*WIF, error) {
	payload, version, err := base58check.CheckDecode(encoded)
	if err != nil {
		return nil, err
	}
	if version != network.Mainnet.Wif && version != network.Testnet.Wif {
		return nil, ErrUnknownVersion
	}

	var compressed bool
	switch len(payload) {
	case secp256k1.PrivKeyBytesLen:
	case secp256k1.PrivKeyBytesLen + 1:
		if payload[secp256k1.PrivKeyBytesLen] != 0x01 {
			return nil, ErrInvalidCompressionMarker
		}
		compressed = true
	default:
		return nil, ErrInvalidLength
	}

	priv, err := secp256k1.PrivKeyFromBytes(payload[:secp256k1.PrivKeyBytesLen])
	if err != nil {
		return nil, err
	}
	return &WIF{PrivKey: priv, Compressed: compressed, netID: version}, nil
}

// Encode returns the Base58Check text form.
func (w *WIF) Encode() string {
	payload := w.PrivKey.Serialize()
	if w.Compressed {
		payload = append(payload, 0x01)
	}
	return base58check.CheckEncode(payload, w.netID)
}

// IsForNet reports whether the WIF was encoded for the given network.
func (w *WIF) IsForNet(net *network.Network) bool {
	return w.netID == net.Wif
}

// SerializePubKey returns the public key of the wrapped private key in the
// encoding selected by the compression flag.
func (w *WIF) SerializePubKey() []byte {
	return w.PrivKey.PubKey().Serialize(w.Compressed)
}
