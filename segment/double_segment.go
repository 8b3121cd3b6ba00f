package segment

import (
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/errs"
)

// doubleRawSubformat is DoubleSegment's only wire subformat (§4.J).
const doubleRawSubformat = 0

// DoubleSegment holds a float64 column (format id 17, DoubleValue). It has
// a single RAW subformat: there is no compressed variant for doubles.
type DoubleSegment struct {
	latch
	values []float64
}

var _ Segment = (*DoubleSegment)(nil)

// NewDoubleSegment decodes the initial operand's payload starting at
// cursor (just past the format-id byte).
func NewDoubleSegment(buf []byte, cursor int) (*DoubleSegment, int, error) {
	if cursor >= len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	subfmt := buf[cursor]
	cursor++
	if subfmt != doubleRawSubformat {
		return nil, cursor, errs.ErrUnknownSubformat
	}

	values, next, err := decodeDoubleValues(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	return &DoubleSegment{values: values}, next, nil
}

// MergeFrom decodes another operand and appends its values.
func (s *DoubleSegment) MergeFrom(buf []byte, cursor int) (int, error) {
	if err := s.failed(); err != nil {
		return cursor, err
	}
	if cursor >= len(buf) {
		return cursor, s.fail(errs.ErrShortBuffer)
	}
	subfmt := buf[cursor]
	cursor++
	if subfmt != doubleRawSubformat {
		return cursor, s.fail(errs.ErrUnknownSubformat)
	}

	values, next, err := decodeDoubleValues(buf, cursor)
	if err != nil {
		return cursor, s.fail(err)
	}

	if _, err := checkCount(len(s.values) + len(values)); err != nil {
		return next, s.fail(err)
	}

	s.values = append(s.values, values...)
	return next, nil
}

// WriteTo serializes the merged values as RAW: varint count then N
// big-endian float64s.
func (s *DoubleSegment) WriteTo(dst []byte) ([]byte, error) {
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

	dst = append(dst, doubleRawSubformat)
	dst = bytesio.AppendVarint32(dst, uint32(n))
	for _, v := range s.values {
		dst = bytesio.AppendFloat64(dst, v)
	}
	return dst, nil
}

// MaxSerializedSize returns the RAW encoding's exact size (there is only
// one subformat).
func (s *DoubleSegment) MaxSerializedSize() int {
	return 1 + bytesio.VarintLen32(uint32(len(s.values))) + 8*len(s.values)
}

func decodeDoubleValues(buf []byte, cursor int) ([]float64, int, error) {
	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	count := int(count32)

	values := make([]float64, count)
	for i := 0; i < count; i++ {
		values[i], cursor, err = bytesio.ReadFloat64(buf, cursor)
		if err != nil {
			return nil, cursor, err
		}
	}
	return values, cursor, nil
}
