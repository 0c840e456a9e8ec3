package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/keysmith-network/keysmith/internal/cfgutil"
	"github.com/keysmith-network/keysmith/pkg/base58check"
)

var (
	b58 = cli.Command{
		Name:  "b58",
		Usage: "base58check encoding utilities",
		Subcommands: []*cli.Command{
			b58CheckEncodeCmd, b58CheckDecodeCmd, b58ChecksumCmd,
		},
	}

	b58CheckEncodeCmd = &cli.Command{
		Name:      "check-encode",
		Usage:     "wrap a payload in base58check",
		ArgsUsage: "<payload hex>",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "version",
				Usage: "the version byte prepended to the payload",
			},
		},
		Action: b58CheckEncodeAction,
	}
	b58CheckDecodeCmd = &cli.Command{
		Name:      "check-decode",
		Usage:     "unwrap a base58check string",
		ArgsUsage: "<encoded>",
		Action:    b58CheckDecodeAction,
	}
	b58ChecksumCmd = &cli.Command{
		Name:      "checksum",
		Usage:     "compute the 4-byte double-hash checksum of a payload",
		ArgsUsage: "<payload hex>",
		Action:    b58ChecksumAction,
	}
)

func b58CheckEncodeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	payload, err := cfgutil.ParseHex(ctx.Args().First())
	if err != nil {
		return err
	}
	version := ctx.Uint("version")
	if version > 0xff {
		return fmt.Errorf("version byte must be in range [0, 255]")
	}

	fmt.Println(base58check.CheckEncode(payload, byte(version)))
	return nil
}

func b58CheckDecodeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	payload, version, err := base58check.CheckDecode(ctx.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("version: %d\n", version)
	fmt.Printf("payload: %s\n", hex.EncodeToString(payload))
	return nil
}

func b58ChecksumAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	payload, err := cfgutil.ParseHex(ctx.Args().First())
	if err != nil {
		return err
	}

	sum := base58check.Checksum(payload)
	fmt.Println(hex.EncodeToString(sum[:]))
	return nil
}
