package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ark-network/descriptor/bip32"
)

var pathFlag = cli.StringFlag{
	Name:  "path",
	Usage: "derivation path applied to each key, e.g. m/44'/0'/0'",
}

var deriveKeyCommand = cli.Command{
	Name:      "derive-key",
	Usage:     "Derive child keys from BIP32 extended keys",
	ArgsUsage: "XKEY... (or - to read from stdin)",
	Flags:     []cli.Flag{&pathFlag},
	Action:    deriveKeyAction,
}

func deriveKeyAction(ctx *cli.Context) error {
	path, err := parseDerivationPath(ctx.String(pathFlag.Name))
	if err != nil {
		return fail(err)
	}

	inputs, err := readInputs(ctx)
	if err != nil {
		return fail(err)
	}

	for _, input := range inputs {
		key, err := bip32.Parse(input)
		if err != nil {
			return fail(err)
		}

		derived, err := key.DerivePath(path)
		if err != nil {
			return fail(err)
		}

		// Public part first, then the private part when there is one.
		if derived.IsPrivate() {
			neutered, err := derived.Neuter()
			if err != nil {
				return fail(err)
			}
			fmt.Printf("%s:%s\n", neutered, derived)
			continue
		}
		fmt.Printf("%s:\n", derived)
	}
	return nil
}
