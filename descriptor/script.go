package descriptor

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// buildScript compiles a concrete expression into its output script.
// Ranged keys must have been expanded beforehand.
func buildScript(expr Expression, params *chaincfg.Params) ([]byte, error) {
	switch e := expr.(type) {
	case *Pk:
		pub, err := e.Key.SerializedPubKey(0, 0)
		if err != nil {
			return nil, err
		}
		return txscript.NewScriptBuilder().
			AddData(pub).
			AddOp(txscript.OP_CHECKSIG).
			Script()

	case *Pkh:
		pub, err := e.Key.SerializedPubKey(0, 0)
		if err != nil {
			return nil, err
		}
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_DUP).
			AddOp(txscript.OP_HASH160).
			AddData(btcutil.Hash160(pub)).
			AddOp(txscript.OP_EQUALVERIFY).
			AddOp(txscript.OP_CHECKSIG).
			Script()

	case *Wpkh:
		pub, err := e.Key.SerializedPubKey(0, 0)
		if err != nil {
			return nil, err
		}
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_0).
			AddData(btcutil.Hash160(pub)).
			Script()

	case *Sh:
		inner, err := buildScript(e.Inner, params)
		if err != nil {
			return nil, err
		}
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_HASH160).
			AddData(btcutil.Hash160(inner)).
			AddOp(txscript.OP_EQUAL).
			Script()

	case *Wsh:
		inner, err := buildScript(e.Inner, params)
		if err != nil {
			return nil, err
		}
		innerHash := sha256.Sum256(inner)
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_0).
			AddData(innerHash[:]).
			Script()

	case *Multi:
		keys := make([][]byte, len(e.Keys))
		for i, key := range e.Keys {
			pub, err := key.SerializedPubKey(0, 0)
			if err != nil {
				return nil, err
			}
			keys[i] = pub
		}
		if e.Sorted {
			sort.Slice(keys, func(i, j int) bool {
				return bytes.Compare(keys[i], keys[j]) < 0
			})
		}
		builder := txscript.NewScriptBuilder().AddInt64(int64(e.Threshold))
		for _, pub := range keys {
			builder.AddData(pub)
		}
		return builder.
			AddInt64(int64(len(keys))).
			AddOp(txscript.OP_CHECKMULTISIG).
			Script()

	case *Addr:
		return txscript.PayToAddrScript(e.Address)

	case *Raw:
		script := make([]byte, len(e.Script))
		copy(script, e.Script)
		return script, nil

	case *Combo:
		return nil, fmt.Errorf("combo expands to multiple scripts")

	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

// comboScripts expands combo(KEY) into pk and pkh, plus wpkh and sh(wpkh)
// when the key is compressed.
func comboScripts(key *Key, params *chaincfg.Params) ([][]byte, error) {
	exprs := []Expression{&Pk{Key: key}, &Pkh{Key: key}}
	if key.compressed() {
		exprs = append(exprs,
			&Wpkh{Key: key},
			&Sh{Inner: &Wpkh{Key: key}},
		)
	}

	scripts := make([][]byte, 0, len(exprs))
	for _, expr := range exprs {
		script, err := buildScript(expr, params)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}

// address returns the canonical address of the expression, or an error for
// expressions without an address form (pk, bare multi, raw).
func address(expr Expression, params *chaincfg.Params) (btcutil.Address, error) {
	switch e := expr.(type) {
	case *Pkh:
		pub, err := e.Key.SerializedPubKey(0, 0)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub), params)

	case *Wpkh:
		pub, err := e.Key.SerializedPubKey(0, 0)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pub), params)

	case *Sh:
		inner, err := buildScript(e.Inner, params)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressScriptHash(inner, params)

	case *Wsh:
		inner, err := buildScript(e.Inner, params)
		if err != nil {
			return nil, err
		}
		innerHash := sha256.Sum256(inner)
		return btcutil.NewAddressWitnessScriptHash(innerHash[:], params)

	case *Addr:
		return e.Address, nil

	case *Combo:
		pub, err := e.Key.SerializedPubKey(0, 0)
		if err != nil {
			return nil, err
		}
		return btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub), params)

	default:
		return nil, fmt.Errorf(
			"%s expressions have no address form", functionName(expr),
		)
	}
}
