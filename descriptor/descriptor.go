// Package descriptor parses, validates and evaluates BIP380 output script
// descriptors: a textual grammar describing how to derive spendable output
// scripts from one or more keys.
//
// A Descriptor is immutable once parsed. Expanding a ranged or multipath
// descriptor produces a new, fully concrete Descriptor; the template is never
// mutated, so descriptors can be shared freely between goroutines.
package descriptor

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// Descriptor binds a validated script expression tree to the chain
// parameters it was parsed against.
type Descriptor struct {
	Script Expression

	params *chaincfg.Params
}

// ChainParams returns the chain parameters the descriptor was parsed with.
func (d *Descriptor) ChainParams() *chaincfg.Params { return d.params }

// String serializes the descriptor to canonical text with a freshly computed
// checksum. Hex is lowered and hardeners are rendered as ', so the result of
// String is stable under re-parsing even when the input was not canonical.
func (d *Descriptor) String() string {
	text := d.Script.String()
	checksum, err := Checksum(text)
	if err != nil {
		// Serialized trees only emit descriptor-alphabet characters.
		panic(fmt.Sprintf("canonical serialization escaped the alphabet: %s", err))
	}
	return text + "#" + checksum
}

// IsRanged reports whether any key carries a wildcard step.
func (d *Descriptor) IsRanged() bool {
	ranged := false
	//nolint:errcheck
	walk(d.Script, func(node Expression) error {
		for _, key := range keysOf(node) {
			if key.IsRanged() {
				ranged = true
			}
		}
		return nil
	})
	return ranged
}

// MultipathLen returns the number of sibling descriptors a multipath
// expression expands to, or 0 when the descriptor has no multipath step.
func (d *Descriptor) MultipathLen() int {
	length := 0
	//nolint:errcheck
	walk(d.Script, func(node Expression) error {
		for _, key := range keysOf(node) {
			if n := key.MultipathLen(); n > 0 {
				length = n
			}
		}
		return nil
	})
	return length
}

// ExpandAt produces a concrete sibling of the descriptor: the multipath step
// selects its alt-th alternative and every wildcard resolves to index.
// Extended keys are derived along the resolved paths, growing their origins
// by the steps taken. Expanding a concrete descriptor returns a copy.
func (d *Descriptor) ExpandAt(alt int, index uint32) (*Descriptor, error) {
	if n := d.MultipathLen(); n == 0 {
		if alt != 0 {
			return nil, fmt.Errorf("descriptor has no multipath step")
		}
	} else if alt < 0 || alt >= n {
		return nil, fmt.Errorf(
			"multipath alternative %d out of range [0,%d)", alt, n,
		)
	}

	expanded, err := cloneExpr(d.Script, func(key *Key) (*Key, error) {
		return key.expandAt(alt, index)
	})
	if err != nil {
		return nil, err
	}
	return &Descriptor{Script: expanded, params: d.params}, nil
}

// Scripts compiles the descriptor into its output scripts: one script for
// every expression except combo, which expands to its standard single-key
// forms. The descriptor must be concrete.
func (d *Descriptor) Scripts() ([][]byte, error) {
	if err := d.requireConcrete(); err != nil {
		return nil, err
	}
	if combo, ok := d.Script.(*Combo); ok {
		return comboScripts(combo.Key, d.params)
	}
	script, err := buildScript(d.Script, d.params)
	if err != nil {
		return nil, err
	}
	return [][]byte{script}, nil
}

// Address returns the canonical address of the descriptor, or an error for
// expressions without an address form. The descriptor must be concrete.
func (d *Descriptor) Address() (btcutil.Address, error) {
	if err := d.requireConcrete(); err != nil {
		return nil, err
	}
	return address(d.Script, d.params)
}

func (d *Descriptor) requireConcrete() error {
	if d.IsRanged() {
		return fmt.Errorf(
			"descriptor is ranged: expand it at a concrete index first",
		)
	}
	if d.MultipathLen() > 0 {
		return fmt.Errorf(
			"descriptor has multipath steps: expand an alternative first",
		)
	}
	return nil
}

// cloneExpr rebuilds the tree with every key mapped through f.
func cloneExpr(expr Expression, f func(*Key) (*Key, error)) (Expression, error) {
	switch e := expr.(type) {
	case *Pk:
		key, err := f(e.Key)
		if err != nil {
			return nil, err
		}
		return &Pk{Key: key}, nil

	case *Pkh:
		key, err := f(e.Key)
		if err != nil {
			return nil, err
		}
		return &Pkh{Key: key}, nil

	case *Wpkh:
		key, err := f(e.Key)
		if err != nil {
			return nil, err
		}
		return &Wpkh{Key: key}, nil

	case *Combo:
		key, err := f(e.Key)
		if err != nil {
			return nil, err
		}
		return &Combo{Key: key}, nil

	case *Sh:
		inner, err := cloneExpr(e.Inner, f)
		if err != nil {
			return nil, err
		}
		return &Sh{Inner: inner}, nil

	case *Wsh:
		inner, err := cloneExpr(e.Inner, f)
		if err != nil {
			return nil, err
		}
		return &Wsh{Inner: inner}, nil

	case *Multi:
		keys := make([]*Key, len(e.Keys))
		for i, key := range e.Keys {
			mapped, err := f(key)
			if err != nil {
				return nil, err
			}
			keys[i] = mapped
		}
		return &Multi{Threshold: e.Threshold, Keys: keys, Sorted: e.Sorted}, nil

	case *Addr:
		return &Addr{Address: e.Address}, nil

	case *Raw:
		script := make([]byte, len(e.Script))
		copy(script, e.Script)
		return &Raw{Script: script}, nil

	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}
