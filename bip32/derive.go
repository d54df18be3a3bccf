package bip32

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Derive computes the child extended key at the given index. Indices at or
// above HardenedKeyStart request hardened derivation, which requires the
// parent private key.
//
// A tweak outside the curve order or a degenerate child key yields
// ErrInvalidChild. Per BIP32 the caller may move on to the next index; this
// function never substitutes a different child on its own.
func (k *ExtendedKey) Derive(index uint32) (*ExtendedKey, error) {
	if k.depth == 255 {
		return nil, ErrDeriveBeyondMaxDepth
	}

	hardened := index >= HardenedKeyStart
	if hardened && !k.private {
		return nil, ErrDeriveHardenedFromPublic
	}

	// data is 0x00 || parent scalar || index for hardened children, or the
	// serialized parent point || index otherwise.
	data := make([]byte, 0, 37)
	if hardened {
		data = append(data, k.key[:]...)
	} else {
		pub, err := k.PublicKey()
		if err != nil {
			return nil, err
		}
		data = append(data, pub.SerializeCompressed()...)
	}
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)
	il, ir := sum[:32], sum[32:]

	var tweak secp256k1.ModNScalar
	if overflow := tweak.SetByteSlice(il); overflow {
		return nil, ErrInvalidChild
	}

	child := ExtendedKey{
		version:  k.version,
		depth:    k.depth + 1,
		childNum: index,
		private:  k.private,
	}
	copy(child.chainCode[:], ir)

	parentFP, err := k.Fingerprint()
	if err != nil {
		return nil, err
	}
	child.parentFP = parentFP

	if k.private {
		var parentScalar secp256k1.ModNScalar
		parentScalar.SetByteSlice(k.key[1:])
		tweak.Add(&parentScalar)
		parentScalar.Zero()
		if tweak.IsZero() {
			return nil, ErrInvalidChild
		}
		childScalar := tweak.Bytes()
		copy(child.key[1:], childScalar[:])
	} else {
		parentPub, err := k.PublicKey()
		if err != nil {
			return nil, err
		}

		var tweakPoint, parentPoint, childPoint secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&tweak, &tweakPoint)
		parentPub.AsJacobian(&parentPoint)
		secp256k1.AddNonConst(&tweakPoint, &parentPoint, &childPoint)
		if childPoint.Z.IsZero() {
			return nil, ErrInvalidChild
		}
		childPoint.ToAffine()
		childPub := secp256k1.NewPublicKey(&childPoint.X, &childPoint.Y)
		copy(child.key[:], childPub.SerializeCompressed())
	}
	tweak.Zero()

	return &child, nil
}

// DerivePath applies every step of path in order. Hardened steps are encoded
// by offsetting the index with HardenedKeyStart.
func (k *ExtendedKey) DerivePath(path []uint32) (*ExtendedKey, error) {
	key := k
	for _, index := range path {
		child, err := key.Derive(index)
		if err != nil {
			return nil, err
		}
		key = child
	}
	return key, nil
}
