package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/keysmith-network/keysmith/internal/cfgutil"
	"github.com/keysmith-network/keysmith/pkg/transaction"
	"github.com/keysmith-network/keysmith/pkg/wallet"
)

var (
	tx = cli.Command{
		Name:  "tx",
		Usage: "build, inspect and sign transactions",
		Subcommands: []*cli.Command{
			txCreateCmd, txAddInputCmd, txAddOutputCmd, txDecodeCmd,
			txSighashCmd, txSignInputCmd, txCheckSigCmd,
		},
	}

	txCreateCmd = &cli.Command{
		Name:   "create",
		Usage:  "craft a new empty transaction",
		Action: txCreateAction,
	}
	txAddInputCmd = &cli.Command{
		Name:      "add-input",
		Usage:     "append an input spending a previous output",
		ArgsUsage: "<tx hex> (or @file)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "txid",
				Usage: "the id of the transaction holding the spent output",
			},
			&cli.UintFlag{
				Name:  "vout",
				Usage: "the position of the spent output",
			},
		},
		Action: txAddInputAction,
	}
	txAddOutputCmd = &cli.Command{
		Name:      "add-output",
		Usage:     "append an output paying an address",
		ArgsUsage: "<tx hex> (or @file)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "the receiving address",
			},
			&cli.StringFlag{
				Name:  "amount",
				Usage: "the amount to pay in coins, like 0.015",
			},
		},
		Action: txAddOutputAction,
	}
	txDecodeCmd = &cli.Command{
		Name:      "decode",
		Usage:     "dump the decoded form of a transaction",
		ArgsUsage: "<tx hex> (or @file)",
		Action:    txDecodeAction,
	}
	txSighashCmd = &cli.Command{
		Name:      "sighash",
		Usage:     "compute the digest a signature for an input commits to",
		ArgsUsage: "<tx hex> (or @file)",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "index",
				Usage: "the input being signed",
			},
			&cli.StringFlag{
				Name:  "script",
				Usage: "the locking script of the spent output in hex",
			},
			&cli.UintFlag{
				Name:  "type",
				Usage: "the sighash type",
				Value: uint(transaction.SigHashAll),
			},
		},
		Action: txSighashAction,
	}
	txSignInputCmd = &cli.Command{
		Name:      "sign-input",
		Usage:     "sign an input with a key derived from a stored wallet or a raw seed",
		ArgsUsage: "<tx hex> (or @file)",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "index",
				Usage: "the input to sign",
			},
			&cli.StringFlag{
				Name:  "script",
				Usage: "the locking script of the spent output in hex",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "the derivation path of the signing key, like 0'/0/0",
			},
			&cli.UintFlag{
				Name:  "type",
				Usage: "the sighash type",
				Value: uint(transaction.SigHashAll),
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "the wallet seed in hex",
			},
			&cli.StringFlag{
				Name:  "wallet",
				Usage: "the name of a stored wallet to sign with",
			},
			&cli.StringFlag{
				Name:  "passphrase",
				Usage: "the passphrase unlocking the stored wallet",
			},
		},
		Action: txSignInputAction,
	}
	txCheckSigCmd = &cli.Command{
		Name:      "check-sig",
		Usage:     "check an input signature against the output it spends",
		ArgsUsage: "<tx hex> (or @file)",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "index",
				Usage: "the signed input",
			},
			&cli.StringFlag{
				Name:  "script",
				Usage: "the locking script of the spent output in hex",
			},
			&cli.StringFlag{
				Name:  "sig",
				Usage: "the signature with trailing sighash type byte, in hex",
			},
			&cli.StringFlag{
				Name:  "pubkey",
				Usage: "the signing public key in hex",
			},
		},
		Action: txCheckSigAction,
	}
)

func txHexArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", &invalidUsageError{ctx, ctx.Command.Name}
	}
	return cfgutil.ReadFileOrArg(ctx.Args().First())
}

func txCreateAction(ctx *cli.Context) error {
	fmt.Println(wallet.CreateTx())
	return nil
}

func txAddInputAction(ctx *cli.Context) error {
	txHex, err := txHexArg(ctx)
	if err != nil {
		return err
	}

	updated, err := wallet.AddTxInput(wallet.AddTxInputOpts{
		TxHex:        txHex,
		PrevTxID:     ctx.String("txid"),
		PrevOutIndex: uint32(ctx.Uint("vout")),
	})
	if err != nil {
		return err
	}
	fmt.Println(updated)
	return nil
}

func txAddOutputAction(ctx *cli.Context) error {
	txHex, err := txHexArg(ctx)
	if err != nil {
		return err
	}
	value, err := cfgutil.ParseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	updated, err := wallet.AddTxOutput(wallet.AddTxOutputOpts{
		TxHex:   txHex,
		Address: ctx.String("address"),
		Value:   value,
		Network: currentNetwork(),
	})
	if err != nil {
		return err
	}
	fmt.Println(updated)
	return nil
}

func txDecodeAction(ctx *cli.Context) error {
	txHex, err := txHexArg(ctx)
	if err != nil {
		return err
	}
	raw, err := cfgutil.ParseHex(txHex)
	if err != nil {
		return err
	}
	decoded, err := transaction.FromBytes(raw)
	if err != nil {
		return err
	}

	type inputView struct {
		TxID     string `json:"txid"`
		Vout     uint32 `json:"vout"`
		Script   string `json:"script"`
		Sequence uint32 `json:"sequence"`
	}
	type outputView struct {
		Value  string `json:"value"`
		Script string `json:"script"`
	}
	view := struct {
		TxID     string       `json:"txid"`
		Version  int32        `json:"version"`
		Inputs   []inputView  `json:"inputs"`
		Outputs  []outputView `json:"outputs"`
		LockTime uint32       `json:"locktime"`
	}{
		TxID:     decoded.TxHash().String(),
		Version:  decoded.Version,
		LockTime: decoded.LockTime,
	}
	for _, in := range decoded.Inputs {
		view.Inputs = append(view.Inputs, inputView{
			TxID:     in.PreviousOutPoint.Hash.String(),
			Vout:     in.PreviousOutPoint.Index,
			Script:   hex.EncodeToString(in.SignatureScript),
			Sequence: in.Sequence,
		})
	}
	for _, out := range decoded.Outputs {
		view.Outputs = append(view.Outputs, outputView{
			Value:  cfgutil.FormatAmount(out.Value),
			Script: hex.EncodeToString(out.PkScript),
		})
	}

	buf, err := json.MarshalIndent(view, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}

func txSighashAction(ctx *cli.Context) error {
	txHex, err := txHexArg(ctx)
	if err != nil {
		return err
	}
	raw, err := cfgutil.ParseHex(txHex)
	if err != nil {
		return err
	}
	decoded, err := transaction.FromBytes(raw)
	if err != nil {
		return err
	}
	script, err := cfgutil.ParseHex(ctx.String("script"))
	if err != nil {
		return err
	}

	digest, err := transaction.SignatureHash(
		decoded, int(ctx.Uint("index")), script,
		transaction.SigHashType(ctx.Uint("type")),
	)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(digest))
	return nil
}

func txSignInputAction(ctx *cli.Context) error {
	txHex, err := txHexArg(ctx)
	if err != nil {
		return err
	}
	script, err := cfgutil.ParseHex(ctx.String("script"))
	if err != nil {
		return err
	}

	w, err := signingWallet(ctx)
	if err != nil {
		return err
	}

	signed, err := w.SignTxInput(wallet.SignTxInputOpts{
		TxHex:          txHex,
		InIndex:        uint32(ctx.Uint("index")),
		PrevoutScript:  script,
		SigHashType:    transaction.SigHashType(ctx.Uint("type")),
		DerivationPath: ctx.String("path"),
	})
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}

func txCheckSigAction(ctx *cli.Context) error {
	txHex, err := txHexArg(ctx)
	if err != nil {
		return err
	}
	script, err := cfgutil.ParseHex(ctx.String("script"))
	if err != nil {
		return err
	}
	sig, err := cfgutil.ParseHex(ctx.String("sig"))
	if err != nil {
		return err
	}
	pubkey, err := cfgutil.ParseHex(ctx.String("pubkey"))
	if err != nil {
		return err
	}

	if err := wallet.VerifyTxInputSignature(wallet.VerifyTxInputSignatureOpts{
		TxHex:        txHex,
		InIndex:      uint32(ctx.Uint("index")),
		OutputScript: script,
		Signature:    sig,
		PubKey:       pubkey,
		Network:      currentNetwork(),
	}); err != nil {
		return err
	}
	fmt.Println("valid")
	return nil
}

// signingWallet builds the wallet for sign-input either from a raw seed
// given on the command line or from a named record in the keystore.
func signingWallet(ctx *cli.Context) (*wallet.Wallet, error) {
	if seedArg := ctx.String("seed"); seedArg != "" {
		seed, err := cfgutil.ParseHex(seedArg)
		if err != nil {
			return nil, err
		}
		return wallet.NewWalletFromSeed(wallet.NewWalletFromSeedOpts{
			Seed: seed,
		})
	}

	name := ctx.String("wallet")
	if name == "" {
		return nil, fmt.Errorf("either --seed or --wallet is required")
	}
	seed, err := storedSeed(name, ctx.String("passphrase"))
	if err != nil {
		return nil, err
	}
	return wallet.NewWalletFromSeed(wallet.NewWalletFromSeedOpts{Seed: seed})
}
