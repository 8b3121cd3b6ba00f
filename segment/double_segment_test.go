package segment

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/format"
)

func encodeDoubleSegment(values []float64) []byte {
	buf := []byte{byte(format.DoubleValue), doubleRawSubformat}
	buf = bytesio.AppendVarint32(buf, uint32(len(values)))
	for _, v := range values {
		buf = bytesio.AppendFloat64(buf, v)
	}
	return buf
}

func TestDoubleSegment_RawPlusRaw(t *testing.T) {
	existing := encodeDoubleSegment([]float64{1.1, 2.2})
	operand := encodeDoubleSegment([]float64{3.3})

	s, _, err := NewDoubleSegment(existing, 1)
	require.NoError(t, err)
	_, err = s.MergeFrom(operand, 1)
	require.NoError(t, err)

	require.Equal(t, []float64{1.1, 2.2, 3.3}, s.values)

	out, err := s.WriteTo([]byte{byte(format.DoubleValue)})
	require.NoError(t, err)

	roundTrip, _, err := NewDoubleSegment(out, 1)
	require.NoError(t, err)
	require.Equal(t, s.values, roundTrip.values)
}

func TestDoubleSegment_SingleOperandIdentity(t *testing.T) {
	wire := encodeDoubleSegment([]float64{0, -1, 1e300})
	s, _, err := NewDoubleSegment(wire, 1)
	require.NoError(t, err)

	out, err := s.WriteTo([]byte{byte(format.DoubleValue)})
	require.NoError(t, err)

	roundTrip, _, err := NewDoubleSegment(out, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{0, -1, 1e300}, roundTrip.values)
}

func TestDoubleSegment_EmptyRoundTrip(t *testing.T) {
	wire := encodeDoubleSegment(nil)
	s, _, err := NewDoubleSegment(wire, 1)
	require.NoError(t, err)
	require.Empty(t, s.values)
}
