package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/keysmith-network/keysmith/pkg/address"
	"github.com/keysmith-network/keysmith/pkg/hdkeychain"
	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/secp256k1"
	"github.com/keysmith-network/keysmith/pkg/transaction"
)

// SignTxInputOpts is the struct given to SignTxInput method
type SignTxInputOpts struct {
	TxHex          string
	InIndex        uint32
	PrevoutScript  []byte
	SigHashType    transaction.SigHashType
	DerivationPath string
}

func (o SignTxInputOpts) validate() error {
	if len(o.TxHex) <= 0 {
		return ErrNullTx
	}
	tx, err := txFromHex(o.TxHex)
	if err != nil {
		return err
	}
	if int(o.InIndex) >= len(tx.Inputs) {
		return fmt.Errorf(
			"input index must be in range [0, %d]",
			len(tx.Inputs)-1,
		)
	}
	if len(o.PrevoutScript) <= 0 {
		return ErrNullOutputScript
	}
	if _, err := hdkeychain.ParseDerivationPath(o.DerivationPath); err != nil {
		return err
	}
	return nil
}

// SignTxInput produces (and verifies) a signature for a specific input of
// the given transaction with the key derived at the provided path. The
// input's unlocking script is populated with the signature and the
// compressed public key and the updated transaction is returned in hex
// format. A zero sighash type commits to everything.
func (w *Wallet) SignTxInput(opts SignTxInputOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if err := w.validate(); err != nil {
		return "", err
	}

	tx, _ := txFromHex(opts.TxHex)
	hashType := opts.SigHashType
	if hashType == 0 {
		hashType = transaction.SigHashAll
	}

	prvkey, pubkey, err := w.DeriveSigningKeyPair(DeriveSigningKeyPairOpts{
		DerivationPath: opts.DerivationPath,
	})
	if err != nil {
		return "", err
	}

	digest, err := transaction.SignatureHash(
		tx, int(opts.InIndex), opts.PrevoutScript, hashType,
	)
	if err != nil {
		return "", err
	}

	signature := secp256k1.Sign(prvkey, digest)
	if !signature.Verify(digest, pubkey) {
		return "", fmt.Errorf(
			"signature verification failed for input %d",
			opts.InIndex,
		)
	}

	sigWithHashType := append(signature.Serialize(), byte(hashType))
	scriptSig, err := txscript.NewScriptBuilder().
		AddData(sigWithHashType).
		AddData(pubkey.SerializeCompressed()).
		Script()
	if err != nil {
		return "", err
	}
	tx.Inputs[opts.InIndex].SignatureScript = scriptSig

	return hex.EncodeToString(tx.Bytes()), nil
}

// VerifyTxInputSignatureOpts is the struct given to
// VerifyTxInputSignature method
type VerifyTxInputSignatureOpts struct {
	TxHex        string
	InIndex      uint32
	OutputScript []byte
	Signature    []byte
	PubKey       []byte
	Network      *network.Network
}

func (o VerifyTxInputSignatureOpts) validate() error {
	if len(o.TxHex) <= 0 {
		return ErrNullTx
	}
	tx, err := txFromHex(o.TxHex)
	if err != nil {
		return err
	}
	if int(o.InIndex) >= len(tx.Inputs) {
		return fmt.Errorf(
			"input index must be in range [0, %d]",
			len(tx.Inputs)-1,
		)
	}
	if len(o.OutputScript) <= 0 {
		return ErrNullOutputScript
	}
	if len(o.Signature) <= 0 {
		return ErrNullSignature
	}
	if len(o.PubKey) <= 0 {
		return ErrNullPubKey
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// VerifyTxInputSignature checks a signature made for a specific input
// against the output script it spends. The public key must match the
// address the output script pays to and the signature must verify against
// the digest recomputed for the sighash type carried in its final byte.
// Both conditions must hold for the signature to be accepted.
func VerifyTxInputSignature(opts VerifyTxInputSignatureOpts) error {
	if err := opts.validate(); err != nil {
		return err
	}

	tx, _ := txFromHex(opts.TxHex)
	hashType := transaction.SigHashType(opts.Signature[len(opts.Signature)-1])
	signature, err := secp256k1.ParseDERSignature(
		opts.Signature[:len(opts.Signature)-1],
	)
	if err != nil {
		return err
	}
	pubkey, err := secp256k1.ParsePubKey(opts.PubKey)
	if err != nil {
		return err
	}

	if err := matchOutputScriptAddress(
		opts.OutputScript, pubkey, opts.Network,
	); err != nil {
		return err
	}

	digest, err := transaction.SignatureHash(
		tx, int(opts.InIndex), opts.OutputScript, hashType,
	)
	if err != nil {
		return err
	}
	if !signature.Verify(digest, pubkey) {
		return fmt.Errorf(
			"signature verification failed for input %d",
			opts.InIndex,
		)
	}
	return nil
}

func matchOutputScriptAddress(
	outputScript []byte, pubkey *secp256k1.PublicKey, net *network.Network,
) error {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(
		outputScript, net.ChainParams(),
	)
	if err != nil || len(addrs) != 1 {
		return ErrUnsupportedOutputScript
	}

	scriptAddr := addrs[0].EncodeAddress()
	for _, compressed := range []bool{true, false} {
		addr := address.FromPubKey(pubkey, net, compressed)
		if addr.Encode() == scriptAddr {
			return nil
		}
	}
	return ErrAddressMismatch
}
