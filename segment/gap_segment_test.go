package segment

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/ddz"
	"github.com/xpromache/parchive/format"
)

func encodeGapSegment(offset int32, relative []int32) []byte {
	codes := ddz.Encode(relative)
	buf := []byte{byte(format.Gap)}
	buf = bytesio.AppendVarint32(buf, uint32(offset))
	buf = append(buf, byte(format.GapDeltaDZVB))
	buf = bytesio.AppendVarint32(buf, uint32(len(codes)))
	for _, c := range codes {
		buf = bytesio.AppendVarint32(buf, c)
	}
	return buf
}

func TestGapSegment_OffsetOperandsBecomeAbsolute(t *testing.T) {
	// Spec scenario: existing offset=0 [5,9,12] + operand offset=100 DDZ of
	// [0,3,4] -> merged [5,9,12,100,103,104], rewritten offset always 0.
	existing := encodeGapSegment(0, []int32{5, 9, 12})
	operand := encodeGapSegment(100, []int32{0, 3, 4})

	s, _, err := NewGapSegment(existing, 1)
	require.NoError(t, err)
	_, err = s.MergeFrom(operand, 1)
	require.NoError(t, err)

	require.Equal(t, []int32{5, 9, 12, 100, 103, 104}, s.values)

	out, err := s.WriteTo([]byte{byte(format.Gap)})
	require.NoError(t, err)

	roundTrip, _, err := NewGapSegment(out, 1)
	require.NoError(t, err)
	require.Equal(t, s.values, roundTrip.values)

	// The rewritten interval_start_offset must always be zero.
	offset, _, err := bytesio.ReadVarint32(out, 1)
	require.NoError(t, err)
	require.Equal(t, uint32(0), offset)
}

func TestGapSegment_SingleOperandIdentity(t *testing.T) {
	wire := encodeGapSegment(50, []int32{0, 1, 2, 3})
	s, _, err := NewGapSegment(wire, 1)
	require.NoError(t, err)
	require.Equal(t, []int32{50, 51, 52, 53}, s.values)

	out, err := s.WriteTo([]byte{byte(format.Gap)})
	require.NoError(t, err)

	roundTrip, _, err := NewGapSegment(out, 1)
	require.NoError(t, err)
	require.Equal(t, s.values, roundTrip.values)
}

func TestGapSegment_EmptyRoundTrip(t *testing.T) {
	wire := encodeGapSegment(0, nil)
	s, _, err := NewGapSegment(wire, 1)
	require.NoError(t, err)
	require.Empty(t, s.values)
}
