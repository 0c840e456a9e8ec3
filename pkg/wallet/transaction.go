package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/keysmith-network/keysmith/pkg/address"
	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/transaction"
)

// CreateTx crafts a new empty transaction and returns it in hex format
func CreateTx() string {
	return hex.EncodeToString(transaction.NewTransaction().Bytes())
}

// AddTxInputOpts is the struct given to AddTxInput method
type AddTxInputOpts struct {
	TxHex        string
	PrevTxID     string
	PrevOutIndex uint32
}

func (o AddTxInputOpts) validate() error {
	if len(o.TxHex) <= 0 {
		return ErrNullTx
	}
	if _, err := txFromHex(o.TxHex); err != nil {
		return err
	}
	if _, err := chainhash.NewHashFromStr(o.PrevTxID); err != nil {
		return fmt.Errorf("invalid previous transaction id: %v", err)
	}
	return nil
}

// AddTxInput appends an input spending the given previous output to the
// transaction and returns the updated transaction in hex format. The input
// is added with an empty unlocking script, SignTxInput fills it later.
func AddTxInput(opts AddTxInputOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	tx, _ := txFromHex(opts.TxHex)
	prevHash, _ := chainhash.NewHashFromStr(opts.PrevTxID)
	tx.AddInput(transaction.NewTxInput(
		transaction.NewOutPoint(prevHash, opts.PrevOutIndex), nil,
	))
	return hex.EncodeToString(tx.Bytes()), nil
}

// AddTxOutputOpts is the struct given to AddTxOutput method. Network is
// optional, when set the address must belong to it.
type AddTxOutputOpts struct {
	TxHex   string
	Address string
	Value   int64
	Network *network.Network
}

func (o AddTxOutputOpts) validate() error {
	if len(o.TxHex) <= 0 {
		return ErrNullTx
	}
	if _, err := txFromHex(o.TxHex); err != nil {
		return err
	}
	addr, err := address.Decode(o.Address)
	if err != nil {
		return err
	}
	if o.Network != nil && !addr.IsForNet(o.Network) {
		return ErrAddressWrongNetwork
	}
	if o.Value <= 0 {
		return fmt.Errorf("output value must be a positive amount")
	}
	return nil
}

// AddTxOutput appends an output paying the given amount to the given
// address and returns the updated transaction in hex format. The locking
// script is chosen from the address version, pay-to-pubkey-hash or
// pay-to-script-hash.
func AddTxOutput(opts AddTxOutputOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	tx, _ := txFromHex(opts.TxHex)
	addr, _ := address.Decode(opts.Address)
	hash := addr.Hash160()

	var script []byte
	var err error
	if addr.IsScriptHash() {
		script, err = payToScriptHashScript(hash[:])
	} else {
		script, err = payToPubKeyHashScript(hash[:])
	}
	if err != nil {
		return "", err
	}
	tx.AddOutput(transaction.NewTxOutput(opts.Value, script))
	return hex.EncodeToString(tx.Bytes()), nil
}
