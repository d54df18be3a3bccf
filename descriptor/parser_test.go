package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	compressedKey   = "0260b2003c386519fc9eadf2b5cf124dd8eea4c4e68d5e154050a9346ea98ce600"
	compressedKey2  = "03a34b99f22c790c4e36b2b3c2c35a36db06226e41c692fc82b8b56ac1c540c5bd"
	uncompressedKey = "04a34b99f22c790c4e36b2b3c2c35a36db06226e41c692fc82b8b56ac1c540c5bd5b8dec5235a0fa8722476c7709c02559e3aa73aa03918ba2d492eea75abea235"
	compressedWIF   = "L4rK1yDtCWekvXuE6oXD9jCYfFNV2cWRpVuPLBcCU2z8TrisoyY1"
	uncompressedWIF = "5KYZdUEo39z3FPrtuX2QbbwGnNP5zTd7yyr2SC1j299sBCnWjss"
	testXpub        = "xpub6ERApfZwUNrhLCkDtcHTcxd75RbzS1ed54G1LkBUHQVHQKqhMkhgbmJbZRkrgZw4koxb5JaHWkY4ALHY2grBGRjaDMzQLcgJvLJuZZvRcEL"
	testXprv        = "xprvA1RpRA33e1JQ7ifknakTFpgNXPmW2YvmhqLQYMmrj4xJXXWYpDPS3xz7iAxn8L39njGVyuoseXzU6rcxFLJ8HFsTjSyQbLYnMpCqE2VbFWc"
)

func TestParseKey(t *testing.T) {
	valid := []string{
		compressedKey,
		"[deadbeef/0h/1h/2]" + compressedKey,
		"[deadbeef/0h/1h/2]" + testXprv + "/3h/4h/5h/*h",
		uncompressedKey,
		"[deadbeef/0h/0h/0h]" + compressedKey,
		"[deadbeef/0'/0'/0']" + compressedKey,
		"[deadbeef/0'/0h/0']" + compressedKey,
		uncompressedWIF,
		compressedWIF,
		testXpub,
		"[deadbeef/0h/1h/2h]" + testXpub,
		"[deadbeef/0h/1h/2h]" + testXpub + "/3/4/5",
		"[deadbeef/0h/1h/2h]" + testXpub + "/3/4/5/*",
		testXpub + "/3h/4h/5h/*",
		testXpub + "/3h/4h/5h/*h",
		"[deadbeef/0h/1h/2]" + testXpub + "/3h/4h/5h/*h",
		testXprv,
		"[deadbeef/0h/1h/2h]" + testXprv,
		"[deadbeef/0h/1h/2h]" + testXprv + "/3/4/5",
		"[deadbeef/0h/1h/2h]" + testXprv + "/3/4/5/*",
		testXprv + "/3h/4h/5h/*",
		testXprv + "/3h/4h/5h/*h",
		testXpub + "/<0;1>/*",
		"[deadbeef/44'/0']" + testXprv + "/<0;1;2>/8",
	}
	for _, input := range valid {
		t.Run(input, func(t *testing.T) {
			_, err := ParseKey(input)
			require.NoError(t, err)
		})
	}

	invalid := []string{
		"",
		"[deadbeef/0h/0h/0h/*]" + compressedKey,
		"[deadbeef/0h/0h/0h/]" + compressedKey,
		"[deadbef/0h/0h/0h]" + compressedKey,
		"[deadbeeef/0h/0h/0h]" + compressedKey,
		"[deadbeef/0f/0f/0f]" + compressedKey,
		"[deadbeef/0H/0H/0H]" + compressedKey,
		"[deadbeef/-0/-0/-0]" + compressedKey,
		compressedWIF + "/0",
		compressedWIF + "/*",
		testXprv + "/2147483648",
		testXprv + "/1aa",
		"[aaaaaaaa][aaaaaaaa]" + testXprv + "/2147483647'/0",
		"aaaaaaaa]" + testXprv + "/2147483647'/0",
		"[gaaaaaaa]" + testXprv + "/2147483647'/0",
		"[deadbeef]",
		testXpub + "/*/0",
		testXpub + "/<0;1>/<2;3>",
		testXpub + "/<0>",
		testXpub + "/<0;>",
		// 32 bytes, one short of a compressed point.
		compressedKey[:64],
	}
	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := ParseKey(input)
			require.Error(t, err)
		})
	}
}

func TestParseKeyCanonicalForm(t *testing.T) {
	tests := []struct {
		input     string
		canonical string
	}{
		// h hardeners normalize to ' and hex to lower case.
		{
			"[deadbeef/0h/1h/2]" + compressedKey,
			"[deadbeef/0'/1'/2]" + compressedKey,
		},
		{
			"[DEADBEEF/0'/0'/0']" + compressedKey,
			"[deadbeef/0'/0'/0']" + compressedKey,
		},
		{
			testXpub + "/3h/4h/5h/*h",
			testXpub + "/3'/4'/5'/*'",
		},
		{testXpub + "/<0;1>/*", testXpub + "/<0;1>/*"},
		{compressedKey, compressedKey},
		{uncompressedKey, uncompressedKey},
		{compressedWIF, compressedWIF},
	}
	for _, tt := range tests {
		key, err := ParseKey(tt.input)
		require.NoError(t, err)
		require.Equal(t, tt.canonical, key.String())
	}
}

func TestParseDescriptor(t *testing.T) {
	valid := []string{
		"pk(" + compressedKey + ")",
		"pk(" + uncompressedKey + ")",
		"pkh(" + compressedKey + ")",
		"pkh(" + compressedWIF + ")",
		"wpkh(" + compressedKey + ")",
		"combo(" + compressedKey + ")",
		"combo(" + uncompressedKey + ")",
		"sh(pk(" + compressedKey + "))",
		"sh(wpkh(" + compressedKey + "))",
		"sh(wsh(pkh(" + compressedKey + ")))",
		"wsh(pk(" + compressedKey + "))",
		"multi(1," + compressedKey + "," + compressedKey2 + ")",
		"sortedmulti(2," + compressedKey + "," + compressedKey2 + ")",
		"sh(multi(2," + compressedKey + "," + compressedKey2 + "))",
		"wsh(multi(1," + compressedKey + "," + compressedKey2 + "))",
		"addr(1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2)",
		"addr(bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4)",
		"raw(deadbeef)",
		"raw(001464d8ce4a17545f85d1f85b8db2b17a33fa2bdf50)",
		"pkh([deadbeef/44'/0'/0']" + testXpub + "/1/*)",
		"wpkh(" + testXpub + "/<0;1>/*)",
		"pkh(" + testXprv + "/0'/1)",
	}
	for _, input := range valid {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.NoError(t, err)
		})
	}

	invalid := []string{
		"",
		"pk()",
		"pk(" + compressedKey,
		"pkh(" + compressedKey + "))",
		"unknown(" + compressedKey + ")",
		"pk(" + compressedKey + ")x",
		"multi(" + compressedKey + ")",
		"multi(1)",
		"addr(notanaddress)",
		"addr(tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx)",
		"raw(xyz)",
		"sh(sh(pk(" + compressedKey + ")))",
		"sh(wsh(wsh(pk(" + compressedKey + "))))",
	}
	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
		})
	}
}

func TestParseReportsOffsets(t *testing.T) {
	t.Run("invalid alphabet character", func(t *testing.T) {
		_, err := Parse("pkh(é)")
		var synErr *SyntaxError
		require.ErrorAs(t, err, &synErr)
		require.Equal(t, 4, synErr.Offset)
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := Parse("sh(foo(" + compressedKey + "))")
		var synErr *SyntaxError
		require.ErrorAs(t, err, &synErr)
		require.Equal(t, 3, synErr.Offset)
	})

	t.Run("bad key reports body offset", func(t *testing.T) {
		_, err := Parse("wsh(pk(02abcdef))")
		var keyErr *KeyEncodingError
		require.ErrorAs(t, err, &keyErr)
		require.Equal(t, 7, keyErr.Offset)
	})
}

func TestParseChecksummedDescriptor(t *testing.T) {
	const payload = "pkh(xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8)"

	t.Run("valid checksum", func(t *testing.T) {
		desc, err := Parse(payload + "#vm4xc4ed")
		require.NoError(t, err)
		require.Equal(t, payload+"#vm4xc4ed", desc.String())
	})

	t.Run("mismatching checksum", func(t *testing.T) {
		_, err := Parse(payload + "#89f8spxm")
		var checksumErr *ChecksumError
		require.ErrorAs(t, err, &checksumErr)
		require.Equal(t, "vm4xc4ed", checksumErr.Expected)
	})

	t.Run("truncated checksum", func(t *testing.T) {
		_, err := Parse(payload + "#vm4xc4e")
		var checksumErr *ChecksumError
		require.ErrorAs(t, err, &checksumErr)
	})
}

func TestDescriptorRoundTrip(t *testing.T) {
	descriptors := []string{
		"pk(" + compressedKey + ")",
		"pkh([deadbeef/44'/0'/0']" + testXpub + "/1/*)",
		"sh(wsh(multi(1," + compressedKey + "," + compressedKey2 + ")))",
		"sortedmulti(2," + compressedKey + "," + compressedKey2 + ")",
		"wpkh(" + testXpub + "/<0;1>/*)",
		"combo(" + compressedWIF + ")",
		"raw(deadbeef)",
		"addr(bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4)",
	}
	for _, input := range descriptors {
		t.Run(input, func(t *testing.T) {
			desc, err := Parse(input)
			require.NoError(t, err)

			serialized := desc.String()
			reparsed, err := Parse(serialized)
			require.NoError(t, err)
			require.Equal(t, serialized, reparsed.String())
		})
	}
}
