package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/keysmith-network/keysmith/pkg/wallet"
)

var genseed = cli.Command{
	Name:  "genseed",
	Usage: "generate a mnemonic seed",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "entropy",
			Usage: "entropy size in bits, a multiple of 32 in range [128, 256]",
			Value: 128,
		},
	},
	Action: genSeedAction,
}

func genSeedAction(ctx *cli.Context) error {
	words, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{
		EntropySize: ctx.Int("entropy"),
	})
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(words, " "))
	return nil
}
