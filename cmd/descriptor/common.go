package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ark-network/descriptor/bip32"
	"github.com/ark-network/descriptor/descriptor"
)

const (
	// exitInvalidInput covers syntax, checksum and key encoding failures.
	exitInvalidInput = 1
	// exitInvalidDescriptor covers semantic and derivation failures on
	// well-formed inputs.
	exitInvalidDescriptor = 2
)

// readInputs collects the command inputs from its arguments, reading them
// line by line from stdin when the sole argument is "-".
func readInputs(ctx *cli.Context) ([]string, error) {
	args := ctx.Args().Slice()
	if len(args) == 0 {
		return nil, fmt.Errorf("missing input, pass it as argument or - for stdin")
	}
	if len(args) == 1 && args[0] == "-" {
		inputs := make([]string, 0)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) == 0 {
				continue
			}
			inputs = append(inputs, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		if len(inputs) == 0 {
			return nil, fmt.Errorf("no input read from stdin")
		}
		return inputs, nil
	}
	return args, nil
}

// fail wraps an error into the exit code contract: well-formed but invalid
// descriptors exit with 2, everything else with 1.
func fail(err error) cli.ExitCoder {
	code := exitInvalidInput

	var semErr *descriptor.SemanticError
	var derErr *descriptor.DerivationError
	switch {
	case errors.As(err, &semErr), errors.As(err, &derErr):
		code = exitInvalidDescriptor
	case errors.Is(err, bip32.ErrDeriveHardenedFromPublic),
		errors.Is(err, bip32.ErrInvalidChild),
		errors.Is(err, bip32.ErrDeriveBeyondMaxDepth):
		code = exitInvalidDescriptor
	}

	return cli.Exit(err.Error(), code)
}

// parseDerivationPath parses a slash-separated derivation path such as
// m/44'/0'/0' into child indices, hardened steps offset by
// bip32.HardenedKeyStart. The leading m/ is optional and h or H is accepted
// in place of '.
func parseDerivationPath(path string) ([]uint32, error) {
	trimmed := strings.TrimPrefix(path, "m")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if len(trimmed) == 0 {
		return nil, nil
	}

	steps := strings.Split(trimmed, "/")
	indices := make([]uint32, 0, len(steps))
	for _, step := range steps {
		if len(step) == 0 {
			return nil, fmt.Errorf("invalid derivation path %q: empty step", path)
		}

		hardened := false
		switch step[len(step)-1] {
		case '\'', 'h', 'H':
			hardened = true
			step = step[:len(step)-1]
		}

		index, err := strconv.ParseUint(step, 10, 32)
		if err != nil || index >= uint64(bip32.HardenedKeyStart) {
			return nil, fmt.Errorf(
				"invalid derivation path %q: child index %q out of range",
				path, step,
			)
		}
		if hardened {
			index += uint64(bip32.HardenedKeyStart)
		}
		indices = append(indices, uint32(index))
	}
	return indices, nil
}
