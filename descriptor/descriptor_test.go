package descriptor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ark-network/descriptor/bip32"
)

func TestExpandAtWildcard(t *testing.T) {
	template, err := Parse("pkh(" + testXpub + "/1/*)")
	require.NoError(t, err)
	require.True(t, template.IsRanged())

	// Scripts on a ranged descriptor must be refused.
	_, err = template.Scripts()
	require.Error(t, err)

	expanded, err := template.ExpandAt(0, 2)
	require.NoError(t, err)
	require.False(t, expanded.IsRanged())

	// The expansion matches the descriptor with the index written out.
	pinned, err := Parse("pkh(" + testXpub + "/1/2)")
	require.NoError(t, err)

	want, err := pinned.Scripts()
	require.NoError(t, err)
	got, err := expanded.Scripts()
	require.NoError(t, err)
	require.Equal(t, want, got)

	// Derivation provenance is kept: the origin records the taken steps.
	require.True(t, strings.HasPrefix(expanded.String(), "pkh(["))
	require.Contains(t, expanded.String(), "/1/2]")
	require.NotContains(t, expanded.String(), "*")
}

func TestExpandAtMultipath(t *testing.T) {
	template, err := Parse("wpkh(" + testXpub + "/<0;1>/*)")
	require.NoError(t, err)
	require.Equal(t, 2, template.MultipathLen())

	_, err = template.Scripts()
	require.Error(t, err)

	for alt, suffix := range []string{"/0/5", "/1/5"} {
		expanded, err := template.ExpandAt(alt, 5)
		require.NoError(t, err)

		pinned, err := Parse("wpkh(" + testXpub + suffix + ")")
		require.NoError(t, err)

		want, err := pinned.Scripts()
		require.NoError(t, err)
		got, err := expanded.Scripts()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err = template.ExpandAt(2, 0)
	require.Error(t, err)
	_, err = template.ExpandAt(-1, 0)
	require.Error(t, err)
}

func TestExpandAtIsDeterministic(t *testing.T) {
	template, err := Parse("pkh([deadbeef/44'/0'/0']" + testXpub + "/1/*)")
	require.NoError(t, err)

	first, err := template.ExpandAt(0, 7)
	require.NoError(t, err)
	second, err := template.ExpandAt(0, 7)
	require.NoError(t, err)
	require.Equal(t, first.String(), second.String())

	// The template itself is untouched.
	require.True(t, template.IsRanged())
}

func TestExpandAtGrowsOrigin(t *testing.T) {
	template, err := Parse("pkh([deadbeef/44']" + testXpub + "/3/*)")
	require.NoError(t, err)

	expanded, err := template.ExpandAt(0, 9)
	require.NoError(t, err)
	require.Contains(t, expanded.String(), "[deadbeef/44'/3/9]")
}

func TestExpandAtHardenedFromPublic(t *testing.T) {
	template, err := Parse("pkh(" + testXpub + "/0'/*)")
	require.NoError(t, err)

	_, err = template.ExpandAt(0, 0)
	require.Error(t, err)

	var derErr *DerivationError
	require.ErrorAs(t, err, &derErr)
	require.ErrorIs(t, err, bip32.ErrDeriveHardenedFromPublic)
}

func TestExpandAtConcreteDescriptorCopies(t *testing.T) {
	desc, err := Parse("pkh(" + compressedKey + ")")
	require.NoError(t, err)

	copied, err := desc.ExpandAt(0, 0)
	require.NoError(t, err)
	require.Equal(t, desc.String(), copied.String())

	_, err = desc.ExpandAt(1, 0)
	require.Error(t, err)
}

func TestPrivateKeysDeriveLikeTheirNeuteredForm(t *testing.T) {
	xprv, err := bip32.Parse(testXprv)
	require.NoError(t, err)
	xpub, err := xprv.Neuter()
	require.NoError(t, err)

	private, err := Parse("wpkh(" + testXprv + "/0/*)")
	require.NoError(t, err)
	public, err := Parse("wpkh(" + xpub.String() + "/0/*)")
	require.NoError(t, err)

	privExpanded, err := private.ExpandAt(0, 3)
	require.NoError(t, err)
	pubExpanded, err := public.ExpandAt(0, 3)
	require.NoError(t, err)

	want, err := pubExpanded.Scripts()
	require.NoError(t, err)
	got, err := privExpanded.Scripts()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
