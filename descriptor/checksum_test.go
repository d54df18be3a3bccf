package descriptor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		text     string
		checksum string
	}{
		{"raw(deadbeef)", "89f8spxm"},
		{"raw( deadbeef )", "985dv2zl"},
		{"raw(DEAD BEEF)", "qqn7ll2h"},
		{"raw(DEA D BEEF)", "egs9fwsr"},
		{
			"pkh(xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8)",
			"vm4xc4ed",
		},
		{
			"multi(2, xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8, xpub661MyMwAqRbcFW31YEwpkMuc5THy2PSt5bDMsktWQcFF8syAmRUapSCGu8ED9W6oDMSgv6Zz8idoc4a6mr8BDzTJY47LJhkJ8UB7WEGuduB)",
			"5jlj4shz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			checksum, err := Checksum(tt.text)
			require.NoError(t, err)
			require.Equal(t, tt.checksum, checksum)

			require.NoError(t, VerifyChecksum(tt.text, tt.checksum))
		})
	}
}

func TestChecksumRejectsInvalidCharacters(t *testing.T) {
	_, err := Checksum("raw(deadbeef)é")
	require.Error(t, err)

	var checksumErr *ChecksumError
	require.ErrorAs(t, err, &checksumErr)
	require.Equal(t, len("raw(deadbeef)"), checksumErr.Offset)
}

func TestVerifyChecksum(t *testing.T) {
	t.Run("wrong length", func(t *testing.T) {
		err := VerifyChecksum("raw(deadbeef)", "89f8spx")
		require.Error(t, err)
	})

	t.Run("character outside checksum charset", func(t *testing.T) {
		err := VerifyChecksum("raw(deadbeef)", "89f8spxb")
		require.Error(t, err)
	})

	t.Run("single character mutations are caught", func(t *testing.T) {
		const text = "raw(deadbeef)"
		checksum, err := Checksum(text)
		require.NoError(t, err)

		for i := 0; i < len(checksum); i++ {
			for _, c := range checksumCharset {
				if byte(c) == checksum[i] {
					continue
				}
				mutated := checksum[:i] + string(c) + checksum[i+1:]
				err := VerifyChecksum(text, mutated)
				require.Error(t, err, "mutation %q accepted", mutated)

				var checksumErr *ChecksumError
				require.ErrorAs(t, err, &checksumErr)
				require.Equal(t, checksum, checksumErr.Expected)
			}
		}
	})

	t.Run("mismatch reports expected and actual", func(t *testing.T) {
		err := VerifyChecksum("raw(deadbeef)", "985dv2zl")
		require.Error(t, err)

		var checksumErr *ChecksumError
		require.ErrorAs(t, err, &checksumErr)
		require.Equal(t, "89f8spxm", checksumErr.Expected)
		require.Equal(t, "985dv2zl", checksumErr.Actual)
	})
}

func TestChecksumCharsetIsStable(t *testing.T) {
	require.Len(t, checksumCharset, 32)
	require.Len(t, inputCharset, 95)

	// Every checksum character must itself be valid descriptor input, so a
	// serialized descriptor with its checksum stays inside the alphabet.
	for _, c := range checksumCharset {
		require.True(t, strings.ContainsRune(inputCharset, c))
	}
}
