package segment

import (
	"fmt"

	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/errs"
	"github.com/xpromache/parchive/format"
)

// longRawSubformat is LongSegment's only wire subformat (§4.K); the low
// nibble of its header byte is always 0, with the logical subtype packed
// into bits 4-5 (the low two bits of format.Flags).
const longRawSubformat = 0

// LongSegment holds an int64 column (format id 18, LongValue) tagged with
// a logical subtype (UINT64, SINT64, or TIMESTAMP) that is opaque to the
// codec but must agree across every operand merged into the segment.
type LongSegment struct {
	latch
	subtype format.LongSubtype
	values  []int64
}

var _ Segment = (*LongSegment)(nil)

func longHeader(subtype format.LongSubtype) byte {
	return format.PackHeader(longRawSubformat, byte(subtype))
}

// NewLongSegment decodes the initial operand's payload starting at cursor
// (just past the format-id byte).
func NewLongSegment(buf []byte, cursor int) (*LongSegment, int, error) {
	if cursor >= len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	header := buf[cursor]
	cursor++
	if format.Subformat(header) != longRawSubformat {
		return nil, cursor, errs.ErrUnknownSubformat
	}
	subtype := format.LongSubtype(format.Flags(header) & 0x03)

	values, next, err := decodeLongValues(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	return &LongSegment{subtype: subtype, values: values}, next, nil
}

// MergeFrom decodes another operand sharing the same logical subtype and
// appends its values.
func (s *LongSegment) MergeFrom(buf []byte, cursor int) (int, error) {
	if err := s.failed(); err != nil {
		return cursor, err
	}
	if cursor >= len(buf) {
		return cursor, s.fail(errs.ErrShortBuffer)
	}
	header := buf[cursor]
	cursor++
	if format.Subformat(header) != longRawSubformat {
		return cursor, s.fail(errs.ErrUnknownSubformat)
	}
	subtype := format.LongSubtype(format.Flags(header) & 0x03)
	if subtype != s.subtype {
		return cursor, s.fail(fmt.Errorf("%w: long segment subtype=%d, operand subtype=%d", errs.ErrSubtypeMismatch, s.subtype, subtype))
	}

	values, next, err := decodeLongValues(buf, cursor)
	if err != nil {
		return cursor, s.fail(err)
	}

	if _, err := checkCount(len(s.values) + len(values)); err != nil {
		return next, s.fail(err)
	}

	s.values = append(s.values, values...)
	return next, nil
}

// WriteTo serializes the merged values as RAW: header byte, varint count,
// then N big-endian uint64 words (the int64 values reinterpreted bitwise).
func (s *LongSegment) WriteTo(dst []byte) ([]byte, error) {
	if err := s.failed(); err != nil {
		return dst, err
	}
	if err := s.finish(); err != nil {
		return dst, err
	}

	n := len(s.values)
	if _, err := checkCount(n); err != nil {
		return dst, s.fail(err)
	}

	dst = append(dst, longHeader(s.subtype))
	dst = bytesio.AppendVarint32(dst, uint32(n))
	for _, v := range s.values {
		dst = bytesio.AppendUint64(dst, uint64(v))
	}
	return dst, nil
}

// MaxSerializedSize returns the RAW encoding's exact size.
func (s *LongSegment) MaxSerializedSize() int {
	return 1 + bytesio.VarintLen32(uint32(len(s.values))) + 8*len(s.values)
}

func decodeLongValues(buf []byte, cursor int) ([]int64, int, error) {
	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	count := int(count32)

	values := make([]int64, count)
	for i := 0; i < count; i++ {
		var u uint64
		u, cursor, err = bytesio.ReadUint64(buf, cursor)
		if err != nil {
			return nil, cursor, err
		}
		values[i] = int64(u)
	}
	return values, cursor, nil
}
