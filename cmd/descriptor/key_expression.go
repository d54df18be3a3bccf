package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ark-network/descriptor/descriptor"
)

var keyExpressionCommand = cli.Command{
	Name:      "key-expression",
	Usage:     "Parse and validate key expressions, print them in canonical form",
	ArgsUsage: "KEY... (or - to read from stdin)",
	Action:    keyExpressionAction,
}

func keyExpressionAction(ctx *cli.Context) error {
	inputs, err := readInputs(ctx)
	if err != nil {
		return fail(err)
	}

	for _, input := range inputs {
		key, err := descriptor.ParseKey(input)
		if err != nil {
			return fail(err)
		}
		fmt.Println(key.String())
	}
	return nil
}
