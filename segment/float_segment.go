package segment

import (
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/errs"
	"github.com/xpromache/parchive/floatxor"
	"github.com/xpromache/parchive/format"
)

// FloatSegment holds a float32 column (format id 16, FloatValue).
type FloatSegment struct {
	latch
	values []float32
}

var _ Segment = (*FloatSegment)(nil)

// NewFloatSegment decodes the initial operand's payload starting at cursor
// (just past the format-id byte).
func NewFloatSegment(buf []byte, cursor int) (*FloatSegment, int, error) {
	if cursor >= len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	subfmt := format.FloatSubformat(format.Subformat(buf[cursor]))
	cursor++

	values, next, err := decodeFloatValues(buf, cursor, subfmt)
	if err != nil {
		return nil, cursor, err
	}
	return &FloatSegment{values: values}, next, nil
}

// MergeFrom decodes another operand and appends its values.
func (s *FloatSegment) MergeFrom(buf []byte, cursor int) (int, error) {
	if err := s.failed(); err != nil {
		return cursor, err
	}
	if cursor >= len(buf) {
		return cursor, s.fail(errs.ErrShortBuffer)
	}

	subfmt := format.FloatSubformat(format.Subformat(buf[cursor]))
	cursor++

	values, next, err := decodeFloatValues(buf, cursor, subfmt)
	if err != nil {
		return cursor, s.fail(err)
	}

	if _, err := checkCount(len(s.values) + len(values)); err != nil {
		return next, s.fail(err)
	}

	s.values = append(s.values, values...)
	return next, nil
}

// WriteTo picks whichever of RAW and XOR-COMPRESSED is smaller.
func (s *FloatSegment) WriteTo(dst []byte) ([]byte, error) {
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

	rawSize := 1 + bytesio.VarintLen32(uint32(n)) + 4*n
	compressed := floatxor.Encode(nil, s.values)
	compressedSize := 1 + bytesio.VarintLen32(uint32(n)) + len(compressed)

	if compressedSize < rawSize {
		dst = append(dst, byte(format.FloatCompressed))
		dst = bytesio.AppendVarint32(dst, uint32(n))
		dst = append(dst, compressed...)
		return dst, nil
	}

	dst = append(dst, byte(format.FloatRaw))
	dst = bytesio.AppendVarint32(dst, uint32(n))
	for _, f := range s.values {
		dst = bytesio.AppendFloat32(dst, f)
	}
	return dst, nil
}

// MaxSerializedSize returns the RAW encoding's size, which always upper
// bounds the chosen encoding.
func (s *FloatSegment) MaxSerializedSize() int {
	return 1 + bytesio.VarintLen32(uint32(len(s.values))) + 4*len(s.values)
}

func decodeFloatValues(buf []byte, cursor int, subfmt format.FloatSubformat) ([]float32, int, error) {
	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	count := int(count32)

	switch subfmt {
	case format.FloatRaw:
		values := make([]float32, count)
		for i := 0; i < count; i++ {
			values[i], cursor, err = bytesio.ReadFloat32(buf, cursor)
			if err != nil {
				return nil, cursor, err
			}
		}
		return values, cursor, nil

	case format.FloatCompressed:
		values, consumed, err := floatxor.Decode(buf[cursor:], count)
		if err != nil {
			return nil, cursor, err
		}
		return values, cursor + consumed, nil

	default:
		return nil, cursor, errs.ErrUnknownSubformat
	}
}
