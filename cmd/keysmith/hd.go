package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/keysmith-network/keysmith/internal/cfgutil"
	"github.com/keysmith-network/keysmith/pkg/hdkeychain"
)

var (
	hd = cli.Command{
		Name:  "hd",
		Usage: "hierarchical deterministic key derivation",
		Subcommands: []*cli.Command{
			hdNewCmd, hdDeriveCmd, hdPubCmd,
		},
	}

	hdNewCmd = &cli.Command{
		Name:      "new",
		Usage:     "generate the master extended private key of a seed",
		ArgsUsage: "<seed hex> (or @file)",
		Action:    hdNewAction,
	}
	hdDeriveCmd = &cli.Command{
		Name:      "derive",
		Usage:     "evaluate a shaped derivation path against an extended key",
		ArgsUsage: "<extended key> <path>",
		Action:    hdDeriveAction,
	}
	hdPubCmd = &cli.Command{
		Name:      "pub",
		Usage:     "neuter an extended private key to its public projection",
		ArgsUsage: "<extended private key>",
		Action:    hdPubAction,
	}
)

func hdNewAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	arg, err := cfgutil.ReadFileOrArg(ctx.Args().First())
	if err != nil {
		return err
	}
	seed, err := cfgutil.ParseHex(arg)
	if err != nil {
		return err
	}

	master, err := hdkeychain.NewMaster(seed, currentNetwork())
	if err != nil {
		return err
	}
	fmt.Println(master.String())
	return nil
}

func hdDeriveAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	key, err := hdkeychain.NewKeyFromString(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	path, err := hdkeychain.ParsePath(ctx.Args().Get(1))
	if err != nil {
		return err
	}

	out, err := path.Evaluate(key, currentNetwork())
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func hdPubAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	key, err := hdkeychain.NewKeyFromString(ctx.Args().First())
	if err != nil {
		return err
	}
	neutered, err := key.Neuter()
	if err != nil {
		return err
	}
	fmt.Println(neutered.String())
	return nil
}
