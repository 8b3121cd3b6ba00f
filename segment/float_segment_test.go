package segment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/floatxor"
	"github.com/xpromache/parchive/format"
)

func encodeFloatSegmentRaw(values []float32) []byte {
	buf := []byte{byte(format.FloatValue), byte(format.FloatRaw)}
	buf = bytesio.AppendVarint32(buf, uint32(len(values)))
	for _, f := range values {
		buf = bytesio.AppendFloat32(buf, f)
	}
	return buf
}

func encodeFloatSegmentCompressed(values []float32) []byte {
	buf := []byte{byte(format.FloatValue), byte(format.FloatCompressed)}
	buf = bytesio.AppendVarint32(buf, uint32(len(values)))
	return floatxor.Encode(buf, values)
}

func TestFloatSegment_RawPlusRaw(t *testing.T) {
	existing := encodeFloatSegmentRaw([]float32{1.5, 2.5})
	operand := encodeFloatSegmentRaw([]float32{3.5})

	s, _, err := NewFloatSegment(existing, 1)
	require.NoError(t, err)
	_, err = s.MergeFrom(operand, 1)
	require.NoError(t, err)

	require.Equal(t, []float32{1.5, 2.5, 3.5}, s.values)
}

func TestFloatSegment_CompressedPlusCompressed(t *testing.T) {
	existing := []float32{1.0, 1.0, 1.0000001}
	operand := []float32{1.0000001, float32(math.NaN())}

	existingWire := encodeFloatSegmentCompressed(existing)
	require.Equal(t, byte(format.FloatCompressed), existingWire[1])

	operandWire := encodeFloatSegmentCompressed(operand)
	require.Equal(t, byte(format.FloatCompressed), operandWire[1])

	merged, _, err := NewFloatSegment(existingWire, 1)
	require.NoError(t, err)
	_, err = merged.MergeFrom(operandWire, 1)
	require.NoError(t, err)

	require.Len(t, merged.values, 5)
	for i, v := range append(append([]float32{}, existing...), operand...) {
		if math.IsNaN(float64(v)) {
			require.True(t, math.IsNaN(float64(merged.values[i])))
			continue
		}
		require.Equal(t, v, merged.values[i])
	}
}

func TestFloatSegment_PicksSmallerEncoding(t *testing.T) {
	repeated := make([]float32, 200)
	for i := range repeated {
		repeated[i] = 42.0
	}
	s := &FloatSegment{values: repeated}
	out, err := s.WriteTo(nil)
	require.NoError(t, err)
	require.Less(t, len(out), 4*len(repeated))
}

func TestFloatSegment_SingleOperandIdentity(t *testing.T) {
	values := []float32{0, float32(math.Copysign(0, -1)), 3.14, -3.14}
	wire := encodeFloatSegmentRaw(values)

	s, _, err := NewFloatSegment(wire, 1)
	require.NoError(t, err)

	out, err := s.WriteTo([]byte{byte(format.FloatValue)})
	require.NoError(t, err)

	roundTrip, _, err := NewFloatSegment(out, 1)
	require.NoError(t, err)

	for i, v := range values {
		require.Equal(t, math.Float32bits(v), math.Float32bits(roundTrip.values[i]))
	}
}
