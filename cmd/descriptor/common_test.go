package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ark-network/descriptor/bip32"
	"github.com/ark-network/descriptor/descriptor"
)

func TestParseDerivationPath(t *testing.T) {
	h := func(index uint32) uint32 { return bip32.HardenedKeyStart + index }

	tests := []struct {
		path string
		want []uint32
	}{
		{"", nil},
		{"m", nil},
		{"m/", nil},
		{"0", []uint32{0}},
		{"/0", []uint32{0}},
		{"m/44'/0'/0'", []uint32{h(44), h(0), h(0)}},
		{"2H/2/1000000000", []uint32{h(2), 2, 1000000000}},
		{"0/2147483647h/1", []uint32{0, h(2147483647), 1}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := parseDerivationPath(tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	for _, path := range []string{
		"m//0",
		"m/x",
		"m/2147483648",
		"m/-1",
		"m/0''",
	} {
		t.Run(path, func(t *testing.T) {
			_, err := parseDerivationPath(path)
			require.Error(t, err)
		})
	}
}

func TestFailExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{
			"syntax errors are input errors",
			&descriptor.SyntaxError{Offset: 0, Msg: "boom"},
			exitInvalidInput,
		},
		{
			"checksum errors are input errors",
			&descriptor.ChecksumError{Msg: "boom"},
			exitInvalidInput,
		},
		{
			"key encoding errors are input errors",
			&descriptor.KeyEncodingError{Msg: "boom"},
			exitInvalidInput,
		},
		{
			"semantic errors are descriptor errors",
			&descriptor.SemanticError{Msg: "boom"},
			exitInvalidDescriptor,
		},
		{
			"derivation errors are descriptor errors",
			&descriptor.DerivationError{
				Key: "k", Err: bip32.ErrDeriveHardenedFromPublic,
			},
			exitInvalidDescriptor,
		},
		{
			"bare bip32 errors are descriptor errors",
			bip32.ErrInvalidChild,
			exitInvalidDescriptor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, fail(tt.err).ExitCode())
		})
	}
}
