package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/vulpemventures/go-bip39"

	"github.com/keysmith-network/keysmith/internal/cfgutil"
)

var (
	mnemonic = cli.Command{
		Name:  "mnemonic",
		Usage: "convert between mnemonic words, entropy and seeds",
		Subcommands: []*cli.Command{
			mnemonicToSeedCmd, mnemonicToEntropyCmd, mnemonicFromEntropyCmd,
		},
	}

	mnemonicToSeedCmd = &cli.Command{
		Name:      "to-seed",
		Usage:     "derive the wallet seed of a mnemonic",
		ArgsUsage: "\"word1 word2 ...\" (or @file)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "passphrase",
				Usage: "optional mnemonic protection passphrase",
			},
		},
		Action: mnemonicToSeedAction,
	}
	mnemonicToEntropyCmd = &cli.Command{
		Name:      "to-entropy",
		Usage:     "recover the entropy a mnemonic encodes",
		ArgsUsage: "\"word1 word2 ...\" (or @file)",
		Action:    mnemonicToEntropyAction,
	}
	mnemonicFromEntropyCmd = &cli.Command{
		Name:      "from-entropy",
		Usage:     "encode entropy as mnemonic words",
		ArgsUsage: "<entropy hex>",
		Action:    mnemonicFromEntropyAction,
	}
)

func mnemonicArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", &invalidUsageError{ctx, ctx.Command.Name}
	}
	return cfgutil.ReadFileOrArg(ctx.Args().First())
}

func mnemonicToSeedAction(ctx *cli.Context) error {
	words, err := mnemonicArg(ctx)
	if err != nil {
		return err
	}
	if !bip39.IsMnemonicValid(words) {
		return fmt.Errorf("mnemonic is invalid")
	}

	seed := bip39.NewSeed(words, ctx.String("passphrase"))
	fmt.Println(hex.EncodeToString(seed))
	return nil
}

func mnemonicToEntropyAction(ctx *cli.Context) error {
	words, err := mnemonicArg(ctx)
	if err != nil {
		return err
	}

	entropy, err := bip39.EntropyFromMnemonic(words)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(entropy))
	return nil
}

func mnemonicFromEntropyAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	entropy, err := cfgutil.ParseHex(ctx.Args().First())
	if err != nil {
		return err
	}

	words, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return err
	}
	fmt.Println(words)
	return nil
}
