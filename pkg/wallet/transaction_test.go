package wallet

import (
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"

	"github.com/keysmith-network/keysmith/pkg/address"
	"github.com/keysmith-network/keysmith/pkg/network"
	"github.com/keysmith-network/keysmith/pkg/transaction"
)

const (
	testPrevTxID = "a477af6b2667c29670467e4e0728b685ee07b240235771862318e29ddbe58458"
)

func TestCreateTx(t *testing.T) {
	txHex := CreateTx()

	tx, err := txFromHex(txHex)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, transaction.TxVersion, tx.Version)
	assert.Len(t, tx.Inputs, 0)
	assert.Len(t, tx.Outputs, 0)
}

func TestAddTxInput(t *testing.T) {
	txHex, err := AddTxInput(AddTxInputOpts{
		TxHex:        CreateTx(),
		PrevTxID:     testPrevTxID,
		PrevOutIndex: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	tx, err := txFromHex(txHex)
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, tx.Inputs, 1)
	assert.Equal(t, testPrevTxID, tx.Inputs[0].PreviousOutPoint.Hash.String())
	assert.Equal(t, uint32(1), tx.Inputs[0].PreviousOutPoint.Index)
	assert.Len(t, tx.Inputs[0].SignatureScript, 0)
	assert.Equal(t, transaction.MaxTxInSequenceNum, tx.Inputs[0].Sequence)
}

func TestFailingAddTxInput(t *testing.T) {
	_, err := AddTxInput(AddTxInputOpts{
		PrevTxID: testPrevTxID,
	})
	assert.Equal(t, ErrNullTx, err)

	_, err = AddTxInput(AddTxInputOpts{
		TxHex:    CreateTx(),
		PrevTxID: "not a transaction id",
	})
	assert.Error(t, err)
}

func TestAddTxOutput(t *testing.T) {
	txHex, err := AddTxOutput(AddTxOutputOpts{
		TxHex:   CreateTx(),
		Address: testAddrMainnet,
		Value:   50000,
		Network: &network.Mainnet,
	})
	if err != nil {
		t.Fatal(err)
	}

	tx, err := txFromHex(txHex)
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, tx.Outputs, 1)
	assert.Equal(t, int64(50000), tx.Outputs[0].Value)
	// OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG
	assert.Len(t, tx.Outputs[0].PkScript, 25)
	assert.Equal(t, byte(txscript.OP_DUP), tx.Outputs[0].PkScript[0])
}

func TestAddTxOutputScriptHash(t *testing.T) {
	redeemScript := []byte{txscript.OP_TRUE}
	addr := address.FromScriptHash(redeemScript, &network.Mainnet)

	txHex, err := AddTxOutput(AddTxOutputOpts{
		TxHex:   CreateTx(),
		Address: addr.Encode(),
		Value:   25000,
	})
	if err != nil {
		t.Fatal(err)
	}

	tx, err := txFromHex(txHex)
	if err != nil {
		t.Fatal(err)
	}
	assert.Len(t, tx.Outputs, 1)

	// OP_HASH160 <20 bytes> OP_EQUAL
	hash := addr.Hash160()
	expectedScript := append(
		[]byte{txscript.OP_HASH160, byte(len(hash))}, hash[:]...,
	)
	expectedScript = append(expectedScript, txscript.OP_EQUAL)
	assert.Equal(t, expectedScript, tx.Outputs[0].PkScript)
}

func TestFailingAddTxOutput(t *testing.T) {
	tests := []struct {
		opts AddTxOutputOpts
	}{
		{opts: AddTxOutputOpts{Address: testAddrMainnet, Value: 1}},
		{opts: AddTxOutputOpts{TxHex: CreateTx(), Address: "16UwLL9", Value: 1}},
		{opts: AddTxOutputOpts{TxHex: CreateTx(), Address: testAddrMainnet}},
		{opts: AddTxOutputOpts{TxHex: CreateTx(), Address: testAddrMainnet, Value: -5}},
	}
	for _, tt := range tests {
		_, err := AddTxOutput(tt.opts)
		assert.Error(t, err)
	}

	_, err := AddTxOutput(AddTxOutputOpts{
		TxHex:   CreateTx(),
		Address: testAddrTestnet,
		Value:   1,
		Network: &network.Mainnet,
	})
	assert.Equal(t, ErrAddressWrongNetwork, err)
}
