package descriptor

import (
	"fmt"
	"strings"
)

// checksumLen is the fixed length of a descriptor checksum.
const checksumLen = 8

func polymod(symbols []int) uint64 {
	chk := uint64(1)
	for _, value := range symbols {
		top := chk >> 35
		chk = (chk&0x7ffffffff)<<5 ^ uint64(value)
		for i, gen := range generator {
			if (top>>uint(i))&1 != 0 {
				chk ^= gen
			}
		}
	}
	return chk
}

// expand maps every character of the descriptor text to its checksum symbols:
// one 5-bit symbol per character plus one extra symbol for every group of
// three characters, built from their high bits.
func expand(text string) ([]int, error) {
	symbols := make([]int, 0, len(text)+len(text)/3+1)
	groups := make([]int, 0, 3)

	for i, c := range text {
		index := strings.IndexRune(inputCharset, c)
		if index < 0 {
			return nil, &ChecksumError{
				Offset: i,
				Msg:    fmt.Sprintf("character %q is not in the descriptor alphabet", c),
			}
		}
		symbols = append(symbols, index&31)
		groups = append(groups, index>>5)
		if len(groups) == 3 {
			symbols = append(symbols, groups[0]*9+groups[1]*3+groups[2])
			groups = groups[:0]
		}
	}

	switch len(groups) {
	case 1:
		symbols = append(symbols, groups[0])
	case 2:
		symbols = append(symbols, groups[0]*3+groups[1])
	}
	return symbols, nil
}

// Checksum computes the 8-character BIP380 checksum of the descriptor text.
// The text must not include a '#' suffix.
func Checksum(text string) (string, error) {
	symbols, err := expand(text)
	if err != nil {
		return "", err
	}
	symbols = append(symbols, make([]int, checksumLen)...)
	chk := polymod(symbols) ^ 1

	var sb strings.Builder
	for i := 0; i < checksumLen; i++ {
		sb.WriteByte(checksumCharset[(chk>>uint(5*(checksumLen-1-i)))&31])
	}
	return sb.String(), nil
}

// VerifyChecksum recomputes the checksum of text and compares it against the
// provided one. A malformed or mismatching checksum yields a *ChecksumError.
func VerifyChecksum(text, checksum string) error {
	if len(checksum) != checksumLen {
		return &ChecksumError{
			Msg: fmt.Sprintf(
				"checksum must be %d characters, got %d", checksumLen, len(checksum),
			),
		}
	}
	for i := 0; i < len(checksum); i++ {
		if strings.IndexByte(checksumCharset, checksum[i]) < 0 {
			return &ChecksumError{
				Offset: len(text) + 1 + i,
				Msg:    fmt.Sprintf("invalid checksum character %q", checksum[i]),
			}
		}
	}

	expected, err := Checksum(text)
	if err != nil {
		return err
	}
	if expected != checksum {
		return &ChecksumError{
			Expected: expected,
			Actual:   checksum,
			Msg:      "checksum mismatch",
		}
	}
	return nil
}
