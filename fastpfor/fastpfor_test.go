package fastpfor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeValues(n int, seed int64) []uint32 {
	r := rand.New(rand.NewSource(seed))
	out := make([]uint32, n)
	for i := range out {
		// mostly small values with occasional large exceptions,
		// representative of ZigZag-coded delta-of-delta output.
		if r.Intn(20) == 0 {
			out[i] = r.Uint32()
		} else {
			out[i] = uint32(r.Intn(64))
		}
	}
	return out
}

func TestEncodeDecode_RoundTrip_WholeBlocks(t *testing.T) {
	for _, n := range []int{128, 256, 384} {
		values := makeValues(n, int64(n))

		encoded, consumed := Encode(nil, values)
		require.Equal(t, n, consumed)

		decoded, next, err := Decode(nil, encoded, 0, n)
		require.NoError(t, err)
		require.Equal(t, len(encoded), next)
		require.Equal(t, values, decoded)
	}
}

func TestEncode_OnlyConsumesWholeBlocks(t *testing.T) {
	values := makeValues(129, 1)
	encoded, consumed := Encode(nil, values)
	require.Equal(t, BlockSize, consumed)

	decoded, _, err := Decode(nil, encoded, 0, BlockSize)
	require.NoError(t, err)
	require.Equal(t, values[:BlockSize], decoded)
}

func TestEncode_ZeroLength(t *testing.T) {
	encoded, consumed := Encode(nil, nil)
	require.Equal(t, 0, consumed)
	require.Empty(t, encoded)
}

func TestEncode_Under128IsNotConsumed(t *testing.T) {
	values := makeValues(127, 2)
	encoded, consumed := Encode(nil, values)
	require.Equal(t, 0, consumed)
	require.Empty(t, encoded)
}

func TestEncodeDecode_AllZeros(t *testing.T) {
	values := make([]uint32, BlockSize)
	encoded, consumed := Encode(nil, values)
	require.Equal(t, BlockSize, consumed)

	decoded, _, err := Decode(nil, encoded, 0, BlockSize)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestEncodeDecode_AllMaxValues(t *testing.T) {
	values := make([]uint32, BlockSize)
	for i := range values {
		values[i] = 0xFFFFFFFF
	}
	encoded, consumed := Encode(nil, values)
	require.Equal(t, BlockSize, consumed)

	decoded, _, err := Decode(nil, encoded, 0, BlockSize)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestDecode_TruncatedBufferFails(t *testing.T) {
	values := makeValues(BlockSize, 3)
	encoded, _ := Encode(nil, values)
	truncated := encoded[:len(encoded)-1]
	_, _, err := Decode(nil, truncated, 0, BlockSize)
	require.Error(t, err)
}
