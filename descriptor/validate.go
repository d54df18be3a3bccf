package descriptor

import "fmt"

// maxMultisigKeys is the CHECKMULTISIG limit on the number of keys.
const maxMultisigKeys = 20

type nestingCtx struct {
	root    bool
	parent  string
	witness bool
}

// validate enforces the structural rules of a parsed tree: sh/wsh nesting,
// threshold bounds, top-level-only expressions, key compression in witness
// context and multipath consistency across keys.
func validate(expr Expression) error {
	if err := validateNode(expr, nestingCtx{root: true}); err != nil {
		return err
	}
	return validateMultipath(expr)
}

func validateNode(expr Expression, c nestingCtx) error {
	switch e := expr.(type) {
	case *Sh:
		if !c.root {
			return &SemanticError{Msg: "sh is only valid at the top level"}
		}
		switch e.Inner.(type) {
		case *Pk, *Pkh, *Wpkh, *Wsh, *Multi:
		default:
			return &SemanticError{
				Msg: fmt.Sprintf("sh cannot wrap %s", functionName(e.Inner)),
			}
		}
		return validateNode(e.Inner, nestingCtx{parent: "sh"})

	case *Wsh:
		if c.parent == "wsh" {
			return &SemanticError{Msg: "wsh cannot be nested inside wsh"}
		}
		if !c.root && c.parent != "sh" {
			return &SemanticError{
				Msg: "wsh is only valid at the top level or directly inside sh",
			}
		}
		switch e.Inner.(type) {
		case *Pk, *Pkh, *Multi:
		default:
			return &SemanticError{
				Msg: fmt.Sprintf("wsh cannot wrap %s", functionName(e.Inner)),
			}
		}
		return validateNode(e.Inner, nestingCtx{parent: "wsh", witness: true})

	case *Wpkh:
		if c.parent == "wsh" {
			return &SemanticError{Msg: "wpkh cannot be nested inside wsh"}
		}
		if !e.Key.compressed() {
			return &SemanticError{
				Msg: "uncompressed keys are not allowed in witness scripts",
			}
		}

	case *Combo:
		if !c.root {
			return &SemanticError{Msg: "combo is only valid at the top level"}
		}

	case *Addr:
		if !c.root {
			return &SemanticError{Msg: "addr is only valid at the top level"}
		}

	case *Raw:
		if !c.root {
			return &SemanticError{Msg: "raw is only valid at the top level"}
		}

	case *Multi:
		if e.Threshold < 1 {
			return &SemanticError{Msg: "multisig threshold must be at least 1"}
		}
		if e.Threshold > len(e.Keys) {
			return &SemanticError{
				Msg: fmt.Sprintf(
					"multisig threshold %d exceeds key count %d",
					e.Threshold, len(e.Keys),
				),
			}
		}
		if len(e.Keys) > maxMultisigKeys {
			return &SemanticError{
				Msg: fmt.Sprintf(
					"multisig supports at most %d keys, got %d",
					maxMultisigKeys, len(e.Keys),
				),
			}
		}
		if c.witness {
			for _, key := range e.Keys {
				if !key.compressed() {
					return &SemanticError{
						Msg: "uncompressed keys are not allowed in witness scripts",
					}
				}
			}
		}

	case *Pk, *Pkh:
		if c.witness {
			for _, key := range keysOf(expr) {
				if !key.compressed() {
					return &SemanticError{
						Msg: "uncompressed keys are not allowed in witness scripts",
					}
				}
			}
		}
	}
	return nil
}

// validateMultipath requires every multipath step in the tree to list the
// same number of alternatives, so the descriptor expands to a well-defined
// tuple of siblings.
func validateMultipath(expr Expression) error {
	tupleLen := 0
	return walk(expr, func(node Expression) error {
		for _, key := range keysOf(node) {
			n := key.MultipathLen()
			if n == 0 {
				continue
			}
			if tupleLen == 0 {
				tupleLen = n
				continue
			}
			if n != tupleLen {
				return &SemanticError{
					Msg: fmt.Sprintf(
						"multipath steps disagree on the number of alternatives: %d vs %d",
						tupleLen, n,
					),
				}
			}
		}
		return nil
	})
}

func (k *Key) compressed() bool {
	switch {
	case k.PubKey != nil:
		return !k.Uncompressed
	case k.WIF != nil:
		return k.WIF.CompressPubKey
	default:
		// Extended keys always serialize compressed points.
		return true
	}
}

func functionName(expr Expression) string {
	switch expr.(type) {
	case *Pk:
		return "pk"
	case *Pkh:
		return "pkh"
	case *Wpkh:
		return "wpkh"
	case *Sh:
		return "sh"
	case *Wsh:
		return "wsh"
	case *Multi:
		return "multi"
	case *Addr:
		return "addr"
	case *Raw:
		return "raw"
	case *Combo:
		return "combo"
	default:
		return "unknown"
	}
}
