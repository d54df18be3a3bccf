package bip32

import "errors"

var (
	// ErrDeriveHardenedFromPublic is returned when a hardened child is
	// requested from a public-only extended key. Hardened derivation needs
	// the parent private key.
	ErrDeriveHardenedFromPublic = errors.New(
		"cannot derive hardened child from extended public key",
	)

	// ErrInvalidChild is returned when the derived tweak is not a valid
	// scalar or the resulting key is degenerate. The caller may decide to
	// retry with the next index, this package never does it on its own.
	ErrInvalidChild = errors.New("invalid child key at this index")

	// ErrDeriveBeyondMaxDepth is returned when deriving from a key that
	// already sits at depth 255.
	ErrDeriveBeyondMaxDepth = errors.New(
		"cannot derive beyond maximum depth of 255",
	)

	ErrInvalidKeyLength = errors.New("invalid extended key length")
	ErrBadChecksum      = errors.New("bad extended key checksum")
	ErrUnknownVersion   = errors.New("unknown extended key version bytes")
	ErrInvalidKeyData   = errors.New("invalid key material")

	// ErrBadDepthZeroKey is returned for keys claiming to be master keys
	// (depth 0) while carrying a parent fingerprint or a child number.
	ErrBadDepthZeroKey = errors.New(
		"zero depth key with non-zero parent fingerprint or child number",
	)
)
