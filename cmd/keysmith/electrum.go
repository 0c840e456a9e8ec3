package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/keysmith-network/keysmith/internal/cfgutil"
	"github.com/keysmith-network/keysmith/pkg/address"
	"github.com/keysmith-network/keysmith/pkg/electrum"
	"github.com/keysmith-network/keysmith/pkg/wif"
)

var (
	electrumCmd = cli.Command{
		Name:  "electrum",
		Usage: "legacy sequential deterministic wallet",
		Subcommands: []*cli.Command{
			electrumMpkCmd, electrumDeriveCmd, electrumRangeCmd,
		},
	}

	electrumMpkCmd = &cli.Command{
		Name:      "mpk",
		Usage:     "compute the master public key of a seed",
		ArgsUsage: "<seed hex> (or @file)",
		Action:    electrumMpkAction,
	}
	electrumDeriveCmd = &cli.Command{
		Name:  "derive",
		Usage: "derive the key at an index, from the seed or watch-only from the master public key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "seed",
				Usage: "the wallet seed in hex, yields the private key too",
			},
			&cli.StringFlag{
				Name:  "mpk",
				Usage: "the 64-byte master public key in hex, watch-only",
			},
			&cli.UintFlag{
				Name:  "index",
				Usage: "the position in the sequence",
			},
			&cli.BoolFlag{
				Name:  "change",
				Usage: "derive on the change chain instead of the receive chain",
			},
		},
		Action: electrumDeriveAction,
	}
	electrumRangeCmd = &cli.Command{
		Name:  "range",
		Usage: "derive a contiguous range of keys from the seed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "seed",
				Usage: "the wallet seed in hex",
			},
			&cli.UintFlag{
				Name:  "first",
				Usage: "the first position of the range",
			},
			&cli.UintFlag{
				Name:  "count",
				Usage: "how many consecutive positions to derive",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "change",
				Usage: "derive on the change chain instead of the receive chain",
			},
		},
		Action: electrumRangeAction,
	}
)

func electrumMasterKey(seedArg string) (*electrum.MasterKey, error) {
	arg, err := cfgutil.ReadFileOrArg(seedArg)
	if err != nil {
		return nil, err
	}
	seed, err := cfgutil.ParseHex(arg)
	if err != nil {
		return nil, err
	}
	return electrum.NewMasterKey(seed)
}

func electrumMpkAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	master, err := electrumMasterKey(ctx.Args().First())
	if err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(master.MasterPublicKey()))
	return nil
}

func electrumDeriveAction(ctx *cli.Context) error {
	index := uint32(ctx.Uint("index"))
	change := ctx.Bool("change")
	net := currentNetwork()

	if seedArg := ctx.String("seed"); seedArg != "" {
		master, err := electrumMasterKey(seedArg)
		if err != nil {
			return err
		}
		prvkey, err := master.ChildPrivateKey(index, change)
		if err != nil {
			return err
		}
		pubkey := prvkey.PubKey()
		fmt.Println(wif.NewWIF(prvkey, net, false).Encode())
		fmt.Println(address.FromPubKey(pubkey, net, false).Encode())
		return nil
	}

	mpkArg := ctx.String("mpk")
	if mpkArg == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	mpk, err := cfgutil.ParseHex(mpkArg)
	if err != nil {
		return err
	}
	pubkey, err := electrum.ChildPublicKey(mpk, index, change)
	if err != nil {
		return err
	}
	fmt.Println(address.FromPubKey(pubkey, net, false).Encode())
	return nil
}

func electrumRangeAction(ctx *cli.Context) error {
	seedArg := ctx.String("seed")
	if seedArg == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	master, err := electrumMasterKey(seedArg)
	if err != nil {
		return err
	}

	pairs, err := master.KeyRange(
		uint32(ctx.Uint("first")), uint32(ctx.Uint("count")),
		ctx.Bool("change"),
	)
	if err != nil {
		return err
	}

	net := currentNetwork()
	for _, pair := range pairs {
		fmt.Printf(
			"%d %s %s\n",
			pair.Index,
			wif.NewWIF(pair.PrivKey, net, false).Encode(),
			address.FromPubKey(pair.PubKey, net, false).Encode(),
		)
	}
	return nil
}
