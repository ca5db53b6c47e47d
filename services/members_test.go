package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "Bilal Ahmed", normalizeName("  bilal ahmed "))
	require.Equal(t, "Bilal", normalizeName("bilal"))
	// NoLower: already-capitalized input is left alone.
	require.Equal(t, "BILAL", normalizeName("BILAL"))
	// Urdu script has no case, passes through.
	require.Equal(t, "بلال احمد", normalizeName("بلال احمد"))
	require.Equal(t, "", normalizeName("   "))
}

func TestGenerateMembershipNo(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		no := generateMembershipNo()
		require.True(t, strings.HasPrefix(no, "AR-"))
		require.Len(t, no, len("AR-")+8)
		require.Equal(t, strings.ToUpper(no), no)
		require.False(t, seen[no], "membership numbers must not repeat")
		seen[no] = true
	}
}

func TestGenerateReferralCode(t *testing.T) {
	code := generateReferralCode("Bilal Ahmed")
	require.True(t, strings.HasPrefix(code, "bilal-ahmed-"))
	require.Len(t, code, len("bilal-ahmed-")+6)

	// Names that slug away to nothing still get a usable code.
	fallback := generateReferralCode("   ")
	require.True(t, strings.HasPrefix(fallback, "member-"))

	// Urdu names transliterate instead of vanishing.
	urdu := generateReferralCode("بلال احمد")
	require.NotEmpty(t, urdu)
	require.Contains(t, urdu, "-")
}
