package descriptor

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// Expression is a node of the script expression tree. Every node exclusively
// owns its children; operations walk the tree with exhaustive type switches.
type Expression interface {
	String() string
}

// Pk pays to a public key with a bare CHECKSIG script.
type Pk struct {
	Key *Key
}

func (e *Pk) String() string { return fmt.Sprintf("pk(%s)", e.Key) }

// Pkh pays to the HASH160 of a public key.
type Pkh struct {
	Key *Key
}

func (e *Pkh) String() string { return fmt.Sprintf("pkh(%s)", e.Key) }

// Wpkh pays to a version 0 witness public key hash.
type Wpkh struct {
	Key *Key
}

func (e *Wpkh) String() string { return fmt.Sprintf("wpkh(%s)", e.Key) }

// Sh wraps the inner script in pay-to-script-hash.
type Sh struct {
	Inner Expression
}

func (e *Sh) String() string { return fmt.Sprintf("sh(%s)", e.Inner) }

// Wsh wraps the inner script in a version 0 witness script hash.
type Wsh struct {
	Inner Expression
}

func (e *Wsh) String() string { return fmt.Sprintf("wsh(%s)", e.Inner) }

// Multi is a k-of-n CHECKMULTISIG script. When Sorted is set the serialized
// public keys are ordered lexicographically at build time (sortedmulti).
type Multi struct {
	Threshold int
	Keys      []*Key
	Sorted    bool
}

func (e *Multi) String() string {
	name := "multi"
	if e.Sorted {
		name = "sortedmulti"
	}
	keys := make([]string, len(e.Keys))
	for i, key := range e.Keys {
		keys[i] = key.String()
	}
	return fmt.Sprintf("%s(%d,%s)", name, e.Threshold, strings.Join(keys, ","))
}

// Addr pays to an already-encoded address.
type Addr struct {
	Address btcutil.Address
}

func (e *Addr) String() string {
	return fmt.Sprintf("addr(%s)", e.Address.EncodeAddress())
}

// Raw is a verbatim output script.
type Raw struct {
	Script []byte
}

func (e *Raw) String() string {
	return fmt.Sprintf("raw(%s)", hex.EncodeToString(e.Script))
}

// Combo expands to the standard single-key scripts of a key: pk and pkh, plus
// wpkh and sh(wpkh) when the key is compressed. Valid only as the outermost
// expression.
type Combo struct {
	Key *Key
}

func (e *Combo) String() string { return fmt.Sprintf("combo(%s)", e.Key) }

// keysOf returns the keys referenced directly by the expression, nil for
// wrapper and keyless nodes.
func keysOf(expr Expression) []*Key {
	switch e := expr.(type) {
	case *Pk:
		return []*Key{e.Key}
	case *Pkh:
		return []*Key{e.Key}
	case *Wpkh:
		return []*Key{e.Key}
	case *Combo:
		return []*Key{e.Key}
	case *Multi:
		return e.Keys
	default:
		return nil
	}
}

// walk visits expr and every descendant, stopping at the first error.
func walk(expr Expression, visit func(Expression) error) error {
	if err := visit(expr); err != nil {
		return err
	}
	switch e := expr.(type) {
	case *Sh:
		return walk(e.Inner, visit)
	case *Wsh:
		return walk(e.Inner, visit)
	}
	return nil
}
