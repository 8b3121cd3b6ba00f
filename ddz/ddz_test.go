package ddz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := [][]int32{
		nil,
		{0},
		{1, 2, 3, 4, 5},
		{100, 100, 100, 100},
		{-5, -3, -1, 1, 3, 5},
		{math.MinInt32, 0, math.MaxInt32},
		{10, 20, 40, 80, 160},
	}

	for _, x := range cases {
		codes := Encode(x)
		require.Len(t, codes, len(x))
		got := Decode(codes)
		require.Equal(t, x, got)
	}
}

func TestEncode_FirstCodeIsPlainZigZag(t *testing.T) {
	codes := Encode([]int32{-5, 10})
	require.Equal(t, uint32(9), codes[0]) // zigzag(-5) == 9
}

func TestDecode_EmptyInput(t *testing.T) {
	require.Nil(t, Decode(nil))
}
