package wallet

import (
	"github.com/keysmith-network/keysmith/pkg/address"
	"github.com/keysmith-network/keysmith/pkg/hdkeychain"
	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/secp256k1"
	"github.com/keysmith-network/keysmith/pkg/wif"
)

// MasterExtendedKeyOpts is the struct given to the MasterExtendedKey
// method
type MasterExtendedKeyOpts struct {
	Network *network.Network
	Public  bool
}

func (o MasterExtendedKeyOpts) validate() error {
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// MasterExtendedKey returns the wallet's root key serialized for the
// given network, neutered to its public projection if requested
func (w *Wallet) MasterExtendedKey(opts MasterExtendedKeyOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if err := w.validate(); err != nil {
		return "", err
	}

	root, err := w.masterNode(opts.Network)
	if err != nil {
		return "", err
	}
	if opts.Public {
		root, err = root.Neuter()
		if err != nil {
			return "", err
		}
	}
	return root.String(), nil
}

// DerivePathOpts is the struct given to the DerivePath method
type DerivePathOpts struct {
	Path    string
	Network *network.Network
}

func (o DerivePathOpts) validate() error {
	if _, err := hdkeychain.ParsePath(o.Path); err != nil {
		return err
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// DerivePath evaluates a shaped derivation path against the wallet's root
// key and renders the requested view of the derived node: an address, a
// public key, a WIF key or an extended key, depending on the path's shape
// marker
func (w *Wallet) DerivePath(opts DerivePathOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if err := w.validate(); err != nil {
		return "", err
	}

	path, _ := hdkeychain.ParsePath(opts.Path)
	root, err := w.masterNode(opts.Network)
	if err != nil {
		return "", err
	}
	return path.Evaluate(root, opts.Network)
}

// DeriveSigningKeyPairOpts is the struct given to DeriveSigningKeyPair
// method
type DeriveSigningKeyPairOpts struct {
	DerivationPath string
}

func (o DeriveSigningKeyPairOpts) validate() error {
	if _, err := hdkeychain.ParseDerivationPath(o.DerivationPath); err != nil {
		return err
	}
	return nil
}

// DeriveSigningKeyPair derives the key pair of the provided derivation
// path
func (w *Wallet) DeriveSigningKeyPair(opts DeriveSigningKeyPairOpts) (
	*secp256k1.PrivateKey,
	*secp256k1.PublicKey,
	error,
) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	if err := w.validate(); err != nil {
		return nil, nil, err
	}

	// Derivation math is independent of the serialization network, any
	// version works for the transient root node.
	root, err := w.masterNode(&network.Mainnet)
	if err != nil {
		return nil, nil, err
	}

	derivationPath, _ := hdkeychain.ParseDerivationPath(opts.DerivationPath)
	hdNode, err := root.DerivePath(derivationPath)
	if err != nil {
		return nil, nil, err
	}

	privateKey, err := hdNode.ECPrivKey()
	if err != nil {
		return nil, nil, err
	}
	return privateKey, hdNode.ECPubKey(), nil
}

// DeriveAddressOpts is the struct given to DeriveAddress method
type DeriveAddressOpts struct {
	DerivationPath string
	Network        *network.Network
	Uncompressed   bool
}

func (o DeriveAddressOpts) validate() error {
	if _, err := hdkeychain.ParseDerivationPath(o.DerivationPath); err != nil {
		return err
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// DeriveAddress derives the key pair of the provided derivation path and
// encodes its public key hash for the given network
func (w *Wallet) DeriveAddress(opts DeriveAddressOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	_, pubkey, err := w.DeriveSigningKeyPair(DeriveSigningKeyPairOpts{
		DerivationPath: opts.DerivationPath,
	})
	if err != nil {
		return "", err
	}

	addr := address.FromPubKey(pubkey, opts.Network, !opts.Uncompressed)
	return addr.Encode(), nil
}

// ExportWIFOpts is the struct given to ExportWIF method
type ExportWIFOpts struct {
	DerivationPath string
	Network        *network.Network
	Uncompressed   bool
}

func (o ExportWIFOpts) validate() error {
	if _, err := hdkeychain.ParseDerivationPath(o.DerivationPath); err != nil {
		return err
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// ExportWIF derives the private key of the provided derivation path and
// encodes it in wallet import format
func (w *Wallet) ExportWIF(opts ExportWIFOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	prvkey, _, err := w.DeriveSigningKeyPair(DeriveSigningKeyPairOpts{
		DerivationPath: opts.DerivationPath,
	})
	if err != nil {
		return "", err
	}

	return wif.NewWIF(prvkey, opts.Network, !opts.Uncompressed).Encode(), nil
}
