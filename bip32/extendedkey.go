// Package bip32 implements hierarchical deterministic key derivation over
// serialized extended keys as defined by BIP32. Only extended key strings are
// consumed, master key generation from entropy is out of scope.
package bip32

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// HardenedKeyStart is the first hardened child index.
const HardenedKeyStart uint32 = 0x80000000

// serializedKeyLen is version (4) || depth (1) || parent fingerprint (4) ||
// child number (4) || chain code (32) || key material (33).
const serializedKeyLen = 78

// networks whose HD version bytes are accepted when decoding.
var hdNetworks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.SimNetParams,
}

// ExtendedKey is an immutable BIP32 extended key. Derivation always returns a
// new key, so a single ExtendedKey may be shared between goroutines.
type ExtendedKey struct {
	version   [4]byte
	depth     uint8
	parentFP  [4]byte
	childNum  uint32
	chainCode [32]byte
	// key holds 0x00 || 32-byte scalar for private keys, or the SEC1
	// compressed point for public keys.
	key     [33]byte
	private bool
}

// Parse decodes and validates a base58check extended key string (xprv, xpub
// and the testnet/simnet equivalents).
func Parse(s string) (*ExtendedKey, error) {
	decoded := base58.Decode(s)
	if len(decoded) != serializedKeyLen+4 {
		return nil, ErrInvalidKeyLength
	}

	payload := decoded[:serializedKeyLen]
	checksum := decoded[serializedKeyLen:]
	if !bytes.Equal(chainhash.DoubleHashB(payload)[:4], checksum) {
		return nil, ErrBadChecksum
	}

	var k ExtendedKey
	copy(k.version[:], payload[:4])
	k.depth = payload[4]
	copy(k.parentFP[:], payload[5:9])
	k.childNum = binary.BigEndian.Uint32(payload[9:13])
	copy(k.chainCode[:], payload[13:45])
	copy(k.key[:], payload[45:78])

	private, err := classifyVersion(k.version)
	if err != nil {
		return nil, err
	}
	k.private = private

	if k.depth == 0 && (k.parentFP != [4]byte{} || k.childNum != 0) {
		return nil, ErrBadDepthZeroKey
	}

	if k.private {
		if k.key[0] != 0x00 {
			return nil, ErrInvalidKeyData
		}
		var scalar secp256k1.ModNScalar
		overflow := scalar.SetByteSlice(k.key[1:])
		if overflow || scalar.IsZero() {
			return nil, ErrInvalidKeyData
		}
		scalar.Zero()
	} else {
		if _, err := secp256k1.ParsePubKey(k.key[:]); err != nil {
			return nil, ErrInvalidKeyData
		}
	}

	return &k, nil
}

func classifyVersion(version [4]byte) (private bool, err error) {
	for _, net := range hdNetworks {
		if version == net.HDPrivateKeyID {
			return true, nil
		}
		if version == net.HDPublicKeyID {
			return false, nil
		}
	}
	return false, ErrUnknownVersion
}

// IsPrivate reports whether the key carries a private scalar.
func (k *ExtendedKey) IsPrivate() bool { return k.private }

// Depth returns the number of derivation steps from the master key.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ChildNum returns the child number the key was derived with.
func (k *ExtendedKey) ChildNum() uint32 { return k.childNum }

// ParentFingerprint returns the first 4 bytes of HASH160 of the parent
// public key.
func (k *ExtendedKey) ParentFingerprint() [4]byte { return k.parentFP }

// PublicKey returns the secp256k1 public point of the key.
func (k *ExtendedKey) PublicKey() (*secp256k1.PublicKey, error) {
	if !k.private {
		return secp256k1.ParsePubKey(k.key[:])
	}
	priv := secp256k1.PrivKeyFromBytes(k.key[1:])
	pub := priv.PubKey()
	priv.Zero()
	return pub, nil
}

// Fingerprint returns the first 4 bytes of HASH160 of the serialized public
// point. Used for origin matching and as the parent fingerprint of children.
func (k *ExtendedKey) Fingerprint() ([4]byte, error) {
	var fp [4]byte
	pub, err := k.PublicKey()
	if err != nil {
		return fp, err
	}
	copy(fp[:], btcutil.Hash160(pub.SerializeCompressed())[:4])
	return fp, nil
}

// Neuter returns the public-only counterpart of the key. Calling Neuter on a
// public key returns a copy.
func (k *ExtendedKey) Neuter() (*ExtendedKey, error) {
	if !k.private {
		copied := *k
		return &copied, nil
	}

	pubVersion, err := chaincfg.HDPrivateKeyToPublicKeyID(k.version[:])
	if err != nil {
		return nil, ErrUnknownVersion
	}
	pub, err := k.PublicKey()
	if err != nil {
		return nil, err
	}

	neutered := *k
	copy(neutered.version[:], pubVersion)
	copy(neutered.key[:], pub.SerializeCompressed())
	neutered.private = false
	return &neutered, nil
}

// String serializes the key back to its base58check form.
func (k *ExtendedKey) String() string {
	payload := make([]byte, 0, serializedKeyLen+4)
	payload = append(payload, k.version[:]...)
	payload = append(payload, k.depth)
	payload = append(payload, k.parentFP[:]...)
	payload = binary.BigEndian.AppendUint32(payload, k.childNum)
	payload = append(payload, k.chainCode[:]...)
	payload = append(payload, k.key[:]...)
	payload = append(payload, chainhash.DoubleHashB(payload)[:4]...)
	return base58.Encode(payload)
}
