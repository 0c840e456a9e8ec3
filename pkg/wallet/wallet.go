package wallet

import (
	"errors"
)

var (
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic is null")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed is null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullTx ...
	ErrNullTx = errors.New("transaction hex must not be null")
	// ErrNullOutputScript ...
	ErrNullOutputScript = errors.New("output script must not be null")
	// ErrNullSignature ...
	ErrNullSignature = errors.New("signature must not be null")
	// ErrNullPubKey ...
	ErrNullPubKey = errors.New("public key must not be null")

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")

	// ErrAddressMismatch ...
	ErrAddressMismatch = errors.New(
		"public key does not match the address of the output script",
	)
	// ErrAddressWrongNetwork ...
	ErrAddressWrongNetwork = errors.New(
		"address does not belong to the given network",
	)
	// ErrUnsupportedOutputScript ...
	ErrUnsupportedOutputScript = errors.New(
		"output script does not encode a single address",
	)
)

// Wallet allows to create a hierarchy of keys from a seed or mnemonic,
// render any derivation path as text, export keys in interchange formats
// and sign transaction inputs with the derived keys.
type Wallet struct {
	mnemonic []string
	seed     []byte
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize int
}

func (o NewWalletOpts) validate() error {
	if o.EntropySize < 128 || o.EntropySize > 256 || o.EntropySize%32 != 0 {
		return ErrInvalidEntropySize
	}
	return nil
}

// NewWallet creates a new wallet with a freshly generated mnemonic of the
// requested entropy size
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mnemonic, err := generateMnemonic(opts.EntropySize)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic: mnemonic,
		seed:     generateSeedFromMnemonic(mnemonic),
	}, nil
}

// NewWalletFromMnemonicOpts is the struct given to the
// NewWalletFromMnemonic method
type NewWalletFromMnemonicOpts struct {
	Mnemonic []string
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if !isMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic restores a wallet from its mnemonic
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic: opts.Mnemonic,
		seed:     generateSeedFromMnemonic(opts.Mnemonic),
	}, nil
}

// NewWalletFromSeedOpts is the struct given to the NewWalletFromSeed
// method
type NewWalletFromSeedOpts struct {
	Seed []byte
}

func (o NewWalletFromSeedOpts) validate() error {
	if len(o.Seed) <= 0 {
		return ErrNullSeed
	}
	return nil
}

// NewWalletFromSeed restores a wallet from a raw seed. A wallet built
// this way has no mnemonic to return.
func NewWalletFromSeed(opts NewWalletFromSeedOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &Wallet{seed: opts.Seed}, nil
}

func (w *Wallet) validate() error {
	if len(w.seed) <= 0 {
		return ErrNullSeed
	}
	if len(w.mnemonic) > 0 && !isMnemonicValid(w.mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// Mnemonic is the getter for the wallet's mnemonic
func (w *Wallet) Mnemonic() ([]string, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if len(w.mnemonic) <= 0 {
		return nil, ErrNullMnemonic
	}
	return w.mnemonic, nil
}

// Seed is the getter for the wallet's raw seed
func (w *Wallet) Seed() ([]byte, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w.seed, nil
}
