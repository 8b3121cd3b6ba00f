package integrity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksum_Deterministic(t *testing.T) {
	data := []byte("parchive merged segment bytes")
	require.Equal(t, Checksum(data), Checksum(data))
}

func TestChecksum_DiffersOnMutation(t *testing.T) {
	a := []byte("segment-a")
	b := []byte("segment-b")
	require.NotEqual(t, Checksum(a), Checksum(b))
}

func TestVerify_MatchesAndDetectsCorruption(t *testing.T) {
	data := []byte("stable merged payload")
	sum := Checksum(data)
	require.True(t, Verify(data, sum))

	corrupted := append([]byte{}, data...)
	corrupted[0] ^= 0xFF
	require.False(t, Verify(corrupted, sum))
}

func TestChecksum_EmptyInput(t *testing.T) {
	require.Equal(t, Checksum(nil), Checksum([]byte{}))
}
