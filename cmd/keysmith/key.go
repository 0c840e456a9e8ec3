package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/keysmith-network/keysmith/internal/cfgutil"
	"github.com/keysmith-network/keysmith/pkg/address"
	"github.com/keysmith-network/keysmith/pkg/secp256k1"
	"github.com/keysmith-network/keysmith/pkg/wif"
)

var (
	key = cli.Command{
		Name:  "key",
		Usage: "single key pair operations",
		Subcommands: []*cli.Command{
			keyNewCmd, keyPubCmd, keyWifEncodeCmd, keyWifDecodeCmd, keyAddrCmd,
		},
	}

	keyNewCmd = &cli.Command{
		Name:   "new",
		Usage:  "generate a random private key",
		Action: keyNewAction,
	}
	keyPubCmd = &cli.Command{
		Name:      "pub",
		Usage:     "compute the public key of a private key",
		ArgsUsage: "<private key hex>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "uncompressed",
				Usage: "use the uncompressed point encoding",
			},
		},
		Action: keyPubAction,
	}
	keyWifEncodeCmd = &cli.Command{
		Name:      "wif-encode",
		Usage:     "encode a private key in wallet import format",
		ArgsUsage: "<private key hex>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "uncompressed",
				Usage: "mark the key for uncompressed public key usage",
			},
		},
		Action: keyWifEncodeAction,
	}
	keyWifDecodeCmd = &cli.Command{
		Name:      "wif-decode",
		Usage:     "decode a wallet import format key",
		ArgsUsage: "<WIF>",
		Action:    keyWifDecodeAction,
	}
	keyAddrCmd = &cli.Command{
		Name:      "addr",
		Usage:     "compute the address of a public key",
		ArgsUsage: "<public key hex>",
		Action:    keyAddrAction,
	}
)

func keyNewAction(ctx *cli.Context) error {
	prvkey, err := secp256k1.GeneratePrivateKey(nil)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(prvkey.Serialize()))
	return nil
}

func keyPubAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	prvkey, err := secp256k1.PrivKeyFromHex(ctx.Args().First())
	if err != nil {
		return err
	}

	pub := prvkey.PubKey().Serialize(!ctx.Bool("uncompressed"))
	fmt.Println(hex.EncodeToString(pub))
	return nil
}

func keyWifEncodeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	prvkey, err := secp256k1.PrivKeyFromHex(ctx.Args().First())
	if err != nil {
		return err
	}

	compressed := !ctx.Bool("uncompressed")
	fmt.Println(wif.NewWIF(prvkey, currentNetwork(), compressed).Encode())
	return nil
}

func keyWifDecodeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	decoded, err := wif.Decode(ctx.Args().First())
	if err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(decoded.PrivKey.Serialize()))
	fmt.Printf("compressed: %t\n", decoded.Compressed)
	return nil
}

func keyAddrAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	raw, err := cfgutil.ParseHex(ctx.Args().First())
	if err != nil {
		return err
	}
	pubkey, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return err
	}

	compressed := len(raw) == secp256k1.PubKeyBytesLenCompressed
	fmt.Println(address.FromPubKey(pubkey, currentNetwork(), compressed).Encode())
	return nil
}
