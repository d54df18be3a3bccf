package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ark-network/descriptor/descriptor"
)

var (
	fullFlag = cli.BoolFlag{
		Name:  "full",
		Usage: "print the whole descriptor with the checksum appended",
	}
	verifyFlag = cli.StringFlag{
		Name:  "verify",
		Usage: "verify the inputs against this checksum instead of printing",
	}
)

var checksumCommand = cli.Command{
	Name:      "checksum",
	Usage:     "Compute or verify descriptor checksums",
	ArgsUsage: "DESCRIPTOR... (or - to read from stdin)",
	Flags:     []cli.Flag{&fullFlag, &verifyFlag},
	Action:    checksumAction,
}

func checksumAction(ctx *cli.Context) error {
	inputs, err := readInputs(ctx)
	if err != nil {
		return fail(err)
	}

	for _, input := range inputs {
		// An embedded checksum is verified rather than recomputed blindly.
		payload, embedded, found := strings.Cut(input, "#")
		if found {
			if err := descriptor.VerifyChecksum(payload, embedded); err != nil {
				return fail(err)
			}
		}

		if expected := ctx.String(verifyFlag.Name); expected != "" {
			if err := descriptor.VerifyChecksum(payload, expected); err != nil {
				return fail(err)
			}
			fmt.Println("OK")
			continue
		}

		checksum, err := descriptor.Checksum(payload)
		if err != nil {
			return fail(err)
		}
		if ctx.Bool(fullFlag.Name) {
			fmt.Printf("%s#%s\n", payload, checksum)
			continue
		}
		fmt.Println(checksum)
	}
	return nil
}
