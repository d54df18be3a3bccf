package descriptor

import "fmt"

// SyntaxError reports malformed descriptor text. Offset is the byte position
// of the offending token.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

// ChecksumError reports a malformed or mismatching descriptor checksum, or a
// character outside the descriptor alphabet found while computing one.
type ChecksumError struct {
	Offset   int
	Expected string
	Actual   string
	Msg      string
}

func (e *ChecksumError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf(
			"checksum mismatch: expected %q, got %q", e.Expected, e.Actual,
		)
	}
	return fmt.Sprintf("invalid checksum: %s", e.Msg)
}

// SemanticError reports a structurally valid descriptor violating nesting,
// threshold or placement rules.
type SemanticError struct {
	Msg string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("invalid descriptor: %s", e.Msg)
}

// KeyEncodingError reports a key expression whose body failed to decode as a
// hex public key, WIF private key or extended key.
type KeyEncodingError struct {
	Offset int
	Msg    string
	Err    error
}

func (e *KeyEncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"invalid key at offset %d: %s: %s", e.Offset, e.Msg, e.Err,
		)
	}
	return fmt.Sprintf("invalid key at offset %d: %s", e.Offset, e.Msg)
}

func (e *KeyEncodingError) Unwrap() error { return e.Err }

// DerivationError reports a failure while resolving a key's derivation path,
// wrapping the underlying bip32 error.
type DerivationError struct {
	Key string
	Err error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("cannot derive %s: %s", e.Key, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }
