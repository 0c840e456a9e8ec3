package network

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network holds the version prefixes of a Bitcoin network.
// https://en.bitcoin.it/wiki/List_of_address_prefixes
type Network struct {
	Name string
	// BIP32 hierarchical deterministic extended key magics
	HDPublicKey  [4]byte
	HDPrivateKey [4]byte
	// Address encoding magic
	PubKeyHash byte
	ScriptHash byte
	// First byte of a WIF private key
	Wif byte
}

// Mainnet defines the network parameters for the main Bitcoin network.
var Mainnet = Network{
	Name:         "mainnet",
	HDPublicKey:  [4]byte{0x04, 0x88, 0xb2, 0x1e},
	HDPrivateKey: [4]byte{0x04, 0x88, 0xad, 0xe4},
	PubKeyHash:   0x00,
	ScriptHash:   0x05,
	Wif:          0x80,
}

// Testnet defines the network parameters for the test network.
var Testnet = Network{
	Name:         "testnet",
	HDPublicKey:  [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDPrivateKey: [4]byte{0x04, 0x35, 0x83, 0x94},
	PubKeyHash:   0x6f,
	ScriptHash:   0xc4,
	Wif:          0xef,
}

// Regtest defines the network parameters for the regression test network.
var Regtest = Network{
	Name:         "regtest",
	HDPublicKey:  [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDPrivateKey: [4]byte{0x04, 0x35, 0x83, 0x94},
	PubKeyHash:   0x6f,
	ScriptHash:   0xc4,
	Wif:          0xef,
}

// FromName returns the network matching the given name.
func FromName(name string) (*Network, error) {
	switch name {
	case Mainnet.Name:
		return &Mainnet, nil
	case Testnet.Name:
		return &Testnet, nil
	case Regtest.Name:
		return &Regtest, nil
	default:
		return nil, fmt.Errorf("unknown network '%s'", name)
	}
}

// ChainParams returns the btcd chain parameters matching the network.
func (n *Network) ChainParams() *chaincfg.Params {
	switch n.Name {
	case Testnet.Name:
		return &chaincfg.TestNet3Params
	case Regtest.Name:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}
