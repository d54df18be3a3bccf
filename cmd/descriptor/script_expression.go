package main

import (
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ark-network/descriptor/descriptor"
	"github.com/ark-network/descriptor/internal/config"
)

var (
	indexFlag = cli.UintFlag{
		Name:  "index",
		Usage: "child index substituted for the * wildcard",
	}
	addressFlag = cli.BoolFlag{
		Name:  "address",
		Usage: "print the address of each expanded descriptor",
	}
	scriptsFlag = cli.BoolFlag{
		Name:  "scripts",
		Usage: "print the output script(s) of each expanded descriptor in hex",
	}
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "chain to decode and build addresses for, overrides the env config",
	}
)

var scriptExpressionCommand = cli.Command{
	Name:      "script-expression",
	Usage:     "Parse and validate script expressions, print them in canonical form",
	ArgsUsage: "DESCRIPTOR... (or - to read from stdin)",
	Flags:     []cli.Flag{&indexFlag, &addressFlag, &scriptsFlag, &networkFlag},
	Action:    scriptExpressionAction,
}

func scriptExpressionAction(ctx *cli.Context) error {
	inputs, err := readInputs(ctx)
	if err != nil {
		return fail(err)
	}

	network := appConfig.Network
	if ctx.IsSet(networkFlag.Name) {
		network = ctx.String(networkFlag.Name)
	}
	params, err := config.ChainParams(network)
	if err != nil {
		return fail(err)
	}

	index := uint32(ctx.Uint(indexFlag.Name))
	printScripts := ctx.Bool(scriptsFlag.Name) || ctx.IsSet(indexFlag.Name)
	for _, input := range inputs {
		desc, err := descriptor.ParseWithParams(input, params)
		if err != nil {
			return fail(err)
		}

		fmt.Println(desc.String())

		if !ctx.Bool(addressFlag.Name) && !printScripts {
			continue
		}

		expanded, err := expandAll(desc, index)
		if err != nil {
			return fail(err)
		}
		for _, concrete := range expanded {
			if printScripts {
				scripts, err := concrete.Scripts()
				if err != nil {
					return fail(err)
				}
				for _, script := range scripts {
					fmt.Println(hex.EncodeToString(script))
				}
			}
			if ctx.Bool(addressFlag.Name) {
				addr, err := concrete.Address()
				if err != nil {
					return fail(err)
				}
				fmt.Println(addr.EncodeAddress())
			}
		}
	}
	return nil
}

// expandAll resolves a descriptor into its concrete siblings: one per
// multipath alternative, each with the wildcard pinned to index. Concrete
// descriptors pass through untouched.
func expandAll(
	desc *descriptor.Descriptor, index uint32,
) ([]*descriptor.Descriptor, error) {
	alts := desc.MultipathLen()
	if alts == 0 {
		if !desc.IsRanged() {
			return []*descriptor.Descriptor{desc}, nil
		}
		alts = 1
	}

	expanded := make([]*descriptor.Descriptor, 0, alts)
	for alt := 0; alt < alts; alt++ {
		concrete, err := desc.ExpandAt(alt, index)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, concrete)
	}
	return expanded, nil
}
