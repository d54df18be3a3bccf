package descriptor

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/ark-network/descriptor/bip32"
)

// KeyOrigin is the optional [fingerprint/path] prefix of a key expression,
// recording where the key sits under its master key.
type KeyOrigin struct {
	Fingerprint [4]byte
	// Path holds fixed derivation steps, hardened ones offset by
	// bip32.HardenedKeyStart. Wildcards and multipath steps are not
	// permitted inside an origin.
	Path []uint32
}

func (o *KeyOrigin) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(hex.EncodeToString(o.Fingerprint[:]))
	for _, index := range o.Path {
		sb.WriteByte('/')
		sb.WriteString(formatChildIndex(index))
	}
	sb.WriteByte(']')
	return sb.String()
}

func formatChildIndex(index uint32) string {
	if index >= bip32.HardenedKeyStart {
		return fmt.Sprintf("%d'", index-bip32.HardenedKeyStart)
	}
	return fmt.Sprintf("%d", index)
}

// PathStep is one element of a derivation path suffix: a fixed child index, a
// '*' wildcard, or a <a;b;...> multipath listing alternative indices.
type PathStep struct {
	// Indices holds one entry for a fixed step and two or more for a
	// multipath step. Empty for wildcards.
	Indices  []uint32
	Wildcard bool
	Hardened bool
}

// Path is the ordered derivation suffix applied to an extended key at use
// time.
type Path []PathStep

// IsRanged reports whether the path contains a wildcard step.
func (p Path) IsRanged() bool {
	for _, step := range p {
		if step.Wildcard {
			return true
		}
	}
	return false
}

// multipathLen returns the number of alternatives of the multipath step, or 0
// when the path has none.
func (p Path) multipathLen() int {
	for _, step := range p {
		if len(step.Indices) > 1 {
			return len(step.Indices)
		}
	}
	return 0
}

// resolve turns the path into concrete child indices, selecting alt for the
// multipath step and index for the wildcard.
func (p Path) resolve(alt int, index uint32) ([]uint32, error) {
	resolved := make([]uint32, 0, len(p))
	for _, step := range p {
		var child uint32
		switch {
		case step.Wildcard:
			child = index
		case len(step.Indices) > 1:
			if alt < 0 || alt >= len(step.Indices) {
				return nil, fmt.Errorf(
					"multipath alternative %d out of range [0,%d)",
					alt, len(step.Indices),
				)
			}
			child = step.Indices[alt]
		default:
			child = step.Indices[0]
		}
		if child >= bip32.HardenedKeyStart {
			return nil, fmt.Errorf("child index %d out of range", child)
		}
		if step.Hardened {
			child += bip32.HardenedKeyStart
		}
		resolved = append(resolved, child)
	}
	return resolved, nil
}

func (p Path) String() string {
	var sb strings.Builder
	for _, step := range p {
		sb.WriteByte('/')
		switch {
		case step.Wildcard:
			sb.WriteByte('*')
		case len(step.Indices) > 1:
			sb.WriteByte('<')
			for i, index := range step.Indices {
				if i > 0 {
					sb.WriteByte(';')
				}
				fmt.Fprintf(&sb, "%d", index)
			}
			sb.WriteByte('>')
		default:
			fmt.Fprintf(&sb, "%d", step.Indices[0])
		}
		if step.Hardened {
			sb.WriteByte('\'')
		}
	}
	return sb.String()
}

// Key is a parsed key expression. Exactly one of PubKey, WIF and XKey is set.
type Key struct {
	Origin *KeyOrigin

	// PubKey is a raw hex-encoded public key. Uncompressed records whether
	// the 65-byte encoding was used, so serialization round-trips.
	PubKey       *btcec.PublicKey
	Uncompressed bool

	// WIF is a raw private key; its compression flag selects the derived
	// public key encoding.
	WIF *btcutil.WIF

	// XKey is a BIP32 extended key, with Path applied at use time.
	XKey *bip32.ExtendedKey
	Path Path
}

// IsRanged reports whether the key needs a wildcard index to become concrete.
func (k *Key) IsRanged() bool { return k.Path.IsRanged() }

// MultipathLen returns the number of multipath alternatives, or 0.
func (k *Key) MultipathLen() int { return k.Path.multipathLen() }

// SerializedPubKey resolves the key to its serialized public key bytes,
// deriving the path suffix with the given multipath alternative and wildcard
// index. For non-ranged keys the index is unused.
func (k *Key) SerializedPubKey(alt int, index uint32) ([]byte, error) {
	switch {
	case k.PubKey != nil:
		if k.Uncompressed {
			return k.PubKey.SerializeUncompressed(), nil
		}
		return k.PubKey.SerializeCompressed(), nil

	case k.WIF != nil:
		return k.WIF.SerializePubKey(), nil

	default:
		derived, err := k.derived(alt, index)
		if err != nil {
			return nil, err
		}
		pub, err := derived.PublicKey()
		if err != nil {
			return nil, &DerivationError{Key: k.String(), Err: err}
		}
		return pub.SerializeCompressed(), nil
	}
}

func (k *Key) derived(alt int, index uint32) (*bip32.ExtendedKey, error) {
	path, err := k.Path.resolve(alt, index)
	if err != nil {
		return nil, &DerivationError{Key: k.String(), Err: err}
	}
	derived, err := k.XKey.DerivePath(path)
	if err != nil {
		return nil, &DerivationError{Key: k.String(), Err: err}
	}
	return derived, nil
}

// expandAt returns a concrete copy of the key: extended keys are derived
// along the resolved path and their origin grows by the taken steps, so the
// provenance of the concrete key stays visible.
func (k *Key) expandAt(alt int, index uint32) (*Key, error) {
	copied := *k
	if k.XKey == nil || len(k.Path) == 0 {
		return &copied, nil
	}

	path, err := k.Path.resolve(alt, index)
	if err != nil {
		return nil, &DerivationError{Key: k.String(), Err: err}
	}
	derived, err := k.XKey.DerivePath(path)
	if err != nil {
		return nil, &DerivationError{Key: k.String(), Err: err}
	}

	origin := KeyOrigin{}
	if k.Origin != nil {
		origin.Fingerprint = k.Origin.Fingerprint
		origin.Path = append(origin.Path, k.Origin.Path...)
	} else {
		fp, err := k.XKey.Fingerprint()
		if err != nil {
			return nil, &DerivationError{Key: k.String(), Err: err}
		}
		origin.Fingerprint = fp
	}
	origin.Path = append(origin.Path, path...)

	copied.Origin = &origin
	copied.XKey = derived
	copied.Path = nil
	return &copied, nil
}

func (k *Key) String() string {
	var sb strings.Builder
	if k.Origin != nil {
		sb.WriteString(k.Origin.String())
	}
	switch {
	case k.PubKey != nil:
		if k.Uncompressed {
			sb.WriteString(hex.EncodeToString(k.PubKey.SerializeUncompressed()))
		} else {
			sb.WriteString(hex.EncodeToString(k.PubKey.SerializeCompressed()))
		}
	case k.WIF != nil:
		sb.WriteString(k.WIF.String())
	default:
		sb.WriteString(k.XKey.String())
		sb.WriteString(k.Path.String())
	}
	return sb.String()
}
