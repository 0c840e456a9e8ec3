package main

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/vulpemventures/go-bip39"

	"github.com/keysmith-network/keysmith/config"
	"github.com/keysmith-network/keysmith/internal/cfgutil"
	"github.com/keysmith-network/keysmith/internal/keystore"
)

var (
	keystoreCmd = cli.Command{
		Name:  "keystore",
		Usage: "manage encrypted wallet seeds at rest",
		Subcommands: []*cli.Command{
			keystoreStoreCmd, keystoreListCmd, keystoreExportCmd,
			keystoreDeleteCmd,
		},
	}

	keystoreStoreCmd = &cli.Command{
		Name:  "store",
		Usage: "encrypt and store a wallet seed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "the name identifying the wallet",
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "the seed in hex (or @file)",
			},
			&cli.StringFlag{
				Name:  "mnemonic",
				Usage: "mnemonic words to derive the seed from, instead of --seed",
			},
			&cli.StringFlag{
				Name:  "passphrase",
				Usage: "the passphrase encrypting the seed",
			},
		},
		Action: keystoreStoreAction,
	}
	keystoreListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list the stored wallets",
		Action: keystoreListAction,
	}
	keystoreExportCmd = &cli.Command{
		Name:  "export",
		Usage: "decrypt and print a stored seed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "the name of the wallet to export",
			},
			&cli.StringFlag{
				Name:  "passphrase",
				Usage: "the passphrase the seed was encrypted with",
			},
		},
		Action: keystoreExportAction,
	}
	keystoreDeleteCmd = &cli.Command{
		Name:  "delete",
		Usage: "remove a stored wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "the name of the wallet to remove",
			},
		},
		Action: keystoreDeleteAction,
	}
)

func openKeystore() (*keystore.Store, error) {
	if err := config.InitDatadir(); err != nil {
		return nil, err
	}
	return keystore.Open(filepath.Join(config.GetDatadir(), config.DbLocation))
}

// storedSeed loads and decrypts the seed of a named wallet record.
func storedSeed(name, passphrase string) ([]byte, error) {
	store, err := openKeystore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	record, err := store.Get(name)
	if err != nil {
		return nil, err
	}
	return record.Decrypt(passphrase)
}

func keystoreStoreAction(ctx *cli.Context) error {
	var seed []byte
	switch {
	case ctx.String("mnemonic") != "":
		words, err := cfgutil.ReadFileOrArg(ctx.String("mnemonic"))
		if err != nil {
			return err
		}
		if !bip39.IsMnemonicValid(words) {
			return fmt.Errorf("mnemonic is invalid")
		}
		seed = bip39.NewSeed(words, "")
	case ctx.String("seed") != "":
		arg, err := cfgutil.ReadFileOrArg(ctx.String("seed"))
		if err != nil {
			return err
		}
		if seed, err = cfgutil.ParseHex(arg); err != nil {
			return err
		}
	default:
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	store, err := openKeystore()
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.StoreSeed(keystore.StoreSeedOpts{
		Name:       ctx.String("name"),
		Seed:       seed,
		Network:    currentNetwork().Name,
		Passphrase: ctx.String("passphrase"),
	})
	if err != nil {
		return err
	}
	fmt.Println(record.ID)
	return nil
}

func keystoreListAction(ctx *cli.Context) error {
	store, err := openKeystore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}
	for _, record := range records {
		fmt.Printf(
			"%s\t%s\t%s\t%s\n",
			record.Name, record.Network, record.ID,
			record.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return nil
}

func keystoreExportAction(ctx *cli.Context) error {
	seed, err := storedSeed(ctx.String("name"), ctx.String("passphrase"))
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(seed))
	return nil
}

func keystoreDeleteAction(ctx *cli.Context) error {
	store, err := openKeystore()
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Delete(ctx.String("name"))
}
