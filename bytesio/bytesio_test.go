package bytesio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xpromache/parchive/errs"
)

func TestZigZag32_RoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 2, -2, math.MaxInt32, math.MinInt32}
	for _, v := range values {
		got := ZigZagDecode32(ZigZagEncode32(v))
		require.Equal(t, v, got)
	}
}

func TestZigZag32_SmallMagnitudeProducesSmallCode(t *testing.T) {
	require.Equal(t, uint32(0), ZigZagEncode32(0))
	require.Equal(t, uint32(1), ZigZagEncode32(-1))
	require.Equal(t, uint32(2), ZigZagEncode32(1))
}

func TestZigZag64_RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		got := ZigZagDecode64(ZigZagEncode64(v))
		require.Equal(t, v, got)
	}
}

func TestVarint32_RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 16383, 16384, math.MaxUint32}
	for _, v := range values {
		buf := AppendVarint32(nil, v)
		require.Equal(t, VarintLen32(v), len(buf))

		got, next, err := ReadVarint32(buf, 0)
		require.NoError(t, err)
		require.Equal(t, len(buf), next)
		require.Equal(t, v, got)
	}
}

func TestVarint64_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		buf := AppendVarint64(nil, v)
		got, next, err := ReadVarint64(buf, 0)
		require.NoError(t, err)
		require.Equal(t, len(buf), next)
		require.Equal(t, v, got)
	}
}

func TestReadVarint32_OverflowsPastFiveBytes(t *testing.T) {
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, _, err := ReadVarint32(buf, 0)
	require.ErrorIs(t, err, errs.ErrVarintOverflow)
}

func TestReadVarint32_TruncatedBuffer(t *testing.T) {
	buf := []byte{0x80, 0x80}
	_, _, err := ReadVarint32(buf, 0)
	require.ErrorIs(t, err, errs.ErrShortBuffer)
}

func TestUint32_RoundTrip(t *testing.T) {
	buf := AppendUint32(nil, 0xDEADBEEF)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, buf)

	got, next, err := ReadUint32(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 4, next)
	require.Equal(t, uint32(0xDEADBEEF), got)
}

func TestFloat32_RoundTrip(t *testing.T) {
	values := []float32{0, -0, 1.5, -1.5, float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))}
	for _, f := range values {
		buf := AppendFloat32(nil, f)
		got, _, err := ReadFloat32(buf, 0)
		require.NoError(t, err)
		require.Equal(t, math.Float32bits(f), math.Float32bits(got))
	}
}

func TestFloat64_RoundTrip(t *testing.T) {
	buf := AppendFloat64(nil, 3.14159)
	got, next, err := ReadFloat64(buf, 0)
	require.NoError(t, err)
	require.Equal(t, 8, next)
	require.Equal(t, 3.14159, got)
}

func TestReadUint32_ShortBuffer(t *testing.T) {
	_, _, err := ReadUint32([]byte{1, 2}, 0)
	require.ErrorIs(t, err, errs.ErrShortBuffer)
}
