package segment

import (
	"fmt"

	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/ddz"
	"github.com/xpromache/parchive/errs"
	"github.com/xpromache/parchive/fastpfor"
	"github.com/xpromache/parchive/format"
)

// IntSegment holds a signed or unsigned int32 column (format id 11,
// IntValue; also reused as-is for SortedTimeValueV2, format id 21).
type IntSegment struct {
	latch
	signed bool
	values []int32
}

var _ Segment = (*IntSegment)(nil)

// Values returns the segment's decoded int32 values in logical order.
func (s *IntSegment) Values() []int32 {
	return s.values
}

func intSignedFlag(signed bool) byte {
	if signed {
		return format.IntSignedFlag
	}
	return 0
}

// NewIntSegment decodes the initial operand's payload starting at cursor
// (just past the format-id byte).
func NewIntSegment(buf []byte, cursor int) (*IntSegment, int, error) {
	if cursor >= len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	header := buf[cursor]
	cursor++

	signed := format.Flags(header)&format.IntSignedFlag != 0
	subfmt := format.IntSubformat(format.Subformat(header))

	values, next, err := decodeIntValues(buf, cursor, subfmt)
	if err != nil {
		return nil, cursor, err
	}

	return &IntSegment{signed: signed, values: values}, next, nil
}

// MergeFrom decodes another operand sharing the same signed flag and
// appends its values.
func (s *IntSegment) MergeFrom(buf []byte, cursor int) (int, error) {
	if err := s.failed(); err != nil {
		return cursor, err
	}
	if cursor >= len(buf) {
		return cursor, s.fail(errs.ErrShortBuffer)
	}

	header := buf[cursor]
	cursor++

	signed := format.Flags(header)&format.IntSignedFlag != 0
	if signed != s.signed {
		return cursor, s.fail(fmt.Errorf("%w: int segment signed=%v, operand signed=%v", errs.ErrSignedFlagMismatch, s.signed, signed))
	}

	subfmt := format.IntSubformat(format.Subformat(header))
	values, next, err := decodeIntValues(buf, cursor, subfmt)
	if err != nil {
		return cursor, s.fail(err)
	}

	if _, err := checkCount(len(s.values) + len(values)); err != nil {
		return next, s.fail(err)
	}

	s.values = append(s.values, values...)
	return next, nil
}

// WriteTo picks the smallest of RAW, DELTADZ_VB, and DELTADZ_FPF128_VB and
// writes it.
func (s *IntSegment) WriteTo(dst []byte) ([]byte, error) {
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

	codes := ddz.Encode(s.values)

	fpfBuf, consumed := fastpfor.Encode(nil, codes)
	tail := codes[consumed:]
	fpfSize := 1 + bytesio.VarintLen32(uint32(n)) + len(fpfBuf)
	for _, c := range tail {
		fpfSize += bytesio.VarintLen32(c)
	}

	vbSize := 1 + bytesio.VarintLen32(uint32(n))
	for _, c := range codes {
		vbSize += bytesio.VarintLen32(c)
	}

	choice := format.IntRaw
	best := rawSize
	if fpfSize < best {
		best = fpfSize
		choice = format.IntDeltaDZFPF128VB
	}
	if vbSize < best {
		choice = format.IntDeltaDZVB
	}

	dst = append(dst, format.PackHeader(byte(choice), intSignedFlag(s.signed)))
	dst = bytesio.AppendVarint32(dst, uint32(n))

	switch choice {
	case format.IntRaw:
		for _, v := range s.values {
			dst = bytesio.AppendUint32(dst, uint32(v))
		}
	case format.IntDeltaDZFPF128VB:
		dst = append(dst, fpfBuf...)
		for _, c := range tail {
			dst = bytesio.AppendVarint32(dst, c)
		}
	case format.IntDeltaDZVB:
		for _, c := range codes {
			dst = bytesio.AppendVarint32(dst, c)
		}
	}

	return dst, nil
}

// MaxSerializedSize returns the RAW encoding's size, which always upper
// bounds the chosen encoding.
func (s *IntSegment) MaxSerializedSize() int {
	return 1 + bytesio.VarintLen32(uint32(len(s.values))) + 4*len(s.values)
}

func decodeIntValues(buf []byte, cursor int, subfmt format.IntSubformat) ([]int32, int, error) {
	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	count := int(count32)

	switch subfmt {
	case format.IntRaw:
		values := make([]int32, count)
		for i := 0; i < count; i++ {
			var u uint32
			u, cursor, err = bytesio.ReadUint32(buf, cursor)
			if err != nil {
				return nil, cursor, err
			}
			values[i] = int32(u)
		}
		return values, cursor, nil

	case format.IntDeltaDZFPF128VB:
		nBlockValues := (count / fastpfor.BlockSize) * fastpfor.BlockSize
		codes := make([]uint32, 0, count)
		codes, cursor, err = fastpfor.Decode(codes, buf, cursor, nBlockValues)
		if err != nil {
			return nil, cursor, err
		}
		for i := nBlockValues; i < count; i++ {
			var v uint32
			v, cursor, err = bytesio.ReadVarint32(buf, cursor)
			if err != nil {
				return nil, cursor, err
			}
			codes = append(codes, v)
		}
		return ddz.Decode(codes), cursor, nil

	case format.IntDeltaDZVB:
		codes := make([]uint32, count)
		for i := 0; i < count; i++ {
			codes[i], cursor, err = bytesio.ReadVarint32(buf, cursor)
			if err != nil {
				return nil, cursor, err
			}
		}
		return ddz.Decode(codes), cursor, nil

	default:
		return nil, cursor, errs.ErrUnknownSubformat
	}
}
