package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/keysmith-network/keysmith/config"
	"github.com/keysmith-network/keysmith/pkg/network"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "keysmith CLI"
	app.Usage = "deterministic key management and transaction signing"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "network",
			Usage: "the network to encode keys and addresses for (mainnet|testnet|regtest)",
			Value: config.GetString(config.NetworkKey),
		},
	}
	app.Before = func(ctx *cli.Context) error {
		log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		if _, err := network.FromName(ctx.String("network")); err != nil {
			return err
		}
		config.Set(config.NetworkKey, ctx.String("network"))
		return nil
	}
	app.Commands = append(
		app.Commands,
		&genseed,
		&mnemonic,
		&hd,
		&electrumCmd,
		&key,
		&tx,
		&b58,
		&keystoreCmd,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func currentNetwork() *network.Network {
	return config.GetNetwork()
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[keysmith] %v\n", err)
	}
	os.Exit(1)
}
