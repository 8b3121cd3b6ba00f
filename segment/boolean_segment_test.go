package segment

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xpromache/parchive/bitmap"
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/format"
)

func encodeBooleanSegment(bits []bool) []byte {
	bm := bitmap.New()
	for _, b := range bits {
		bm.Add(b)
	}

	buf := []byte{byte(format.BooleanValue)}
	buf = bytesio.AppendVarint32(buf, uint32(bm.Len()))
	buf = bytesio.AppendVarint32(buf, uint32(bm.WordCount()))
	for _, w := range bm.Words() {
		buf = bytesio.AppendUint64(buf, w)
	}
	return buf
}

func bitsToBools(s *BooleanSegment) []bool {
	out := make([]bool, s.bits.Len())
	for i := range out {
		out[i] = s.bits.Get(i)
	}
	return out
}

func TestBooleanSegment_ConcatenatesAcrossOperand(t *testing.T) {
	existing := []bool{true, false, true}
	operandBits := make([]bool, 65)
	for i := range operandBits {
		operandBits[i] = i%2 == 1 // starts with false
	}

	existingWire := encodeBooleanSegment(existing)
	operandWire := encodeBooleanSegment(operandBits)

	s, _, err := NewBooleanSegment(existingWire, 1)
	require.NoError(t, err)
	_, err = s.MergeFrom(operandWire, 1)
	require.NoError(t, err)

	require.Equal(t, 68, s.bits.Len())
	require.Equal(t, append(append([]bool{}, existing...), operandBits...), bitsToBools(s))
}

func TestBooleanSegment_NotMultipleOf64RoundTrip(t *testing.T) {
	bits := make([]bool, 100)
	for i := range bits {
		bits[i] = i%3 == 0
	}
	wire := encodeBooleanSegment(bits)

	s, _, err := NewBooleanSegment(wire, 1)
	require.NoError(t, err)
	require.Equal(t, bits, bitsToBools(s))

	out, err := s.WriteTo([]byte{byte(format.BooleanValue)})
	require.NoError(t, err)

	roundTrip, _, err := NewBooleanSegment(out, 1)
	require.NoError(t, err)
	require.Equal(t, bits, bitsToBools(roundTrip))
}

func TestBooleanSegment_EmptyRoundTrip(t *testing.T) {
	wire := encodeBooleanSegment(nil)
	s, _, err := NewBooleanSegment(wire, 1)
	require.NoError(t, err)
	require.Equal(t, 0, s.bits.Len())
}
