package segment

import (
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/ddz"
	"github.com/xpromache/parchive/errs"
	"github.com/xpromache/parchive/fastpfor"
	"github.com/xpromache/parchive/format"
)

// GapSegment holds a sparse vector of non-negative int32 indices (format
// id 22, Gap), stored on the wire as offsets relative to an
// interval_start_offset. Per §4.N and §9, every value is made absolute as
// soon as it is decoded, so the in-memory values slice always holds
// absolute indices; the segment rewrites interval_start_offset as 0 on
// every WriteTo.
type GapSegment struct {
	latch
	values []int32
}

var _ Segment = (*GapSegment)(nil)

// NewGapSegment decodes the initial operand's payload starting at cursor
// (just past the format-id byte).
func NewGapSegment(buf []byte, cursor int) (*GapSegment, int, error) {
	values, next, err := decodeGapOperand(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	return &GapSegment{values: values}, next, nil
}

// MergeFrom decodes another operand, makes its values absolute relative
// to its own interval_start_offset, and appends them.
func (s *GapSegment) MergeFrom(buf []byte, cursor int) (int, error) {
	if err := s.failed(); err != nil {
		return cursor, err
	}

	values, next, err := decodeGapOperand(buf, cursor)
	if err != nil {
		return cursor, s.fail(err)
	}

	if _, err := checkCount(len(s.values) + len(values)); err != nil {
		return next, s.fail(err)
	}

	s.values = append(s.values, values...)
	return next, nil
}

// decodeGapOperand reads interval_start_offset, the subformat byte, and
// the DDZ payload, returning absolute values (operand_offset + decoded).
func decodeGapOperand(buf []byte, cursor int) ([]int32, int, error) {
	offset32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	offset := int32(offset32)

	if cursor >= len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	subfmt := format.GapSubformat(format.Subformat(buf[cursor]))
	cursor++

	relative, next, err := decodeGapValues(buf, cursor, subfmt)
	if err != nil {
		return nil, cursor, err
	}

	absolute := make([]int32, len(relative))
	for i, v := range relative {
		absolute[i] = v + offset
	}
	return absolute, next, nil
}

func decodeGapValues(buf []byte, cursor int, subfmt format.GapSubformat) ([]int32, int, error) {
	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	count := int(count32)

	switch subfmt {
	case format.GapDeltaDZFPF128VB:
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

	case format.GapDeltaDZVB:
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

// WriteTo always emits interval_start_offset = 0 (§9: "the source writes
// interval_offset = 0 post-merge") since every in-memory value is already
// absolute, then picks the smaller of DELTADZ_FPF128_VB and DELTADZ_VB,
// exactly as IntSegment does for its compressed forms.
func (s *GapSegment) WriteTo(dst []byte) ([]byte, error) {
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

	codes := ddz.Encode(s.values)

	fpfBuf, consumed := fastpfor.Encode(nil, codes)
	tail := codes[consumed:]
	fpfSize := len(fpfBuf)
	for _, c := range tail {
		fpfSize += bytesio.VarintLen32(c)
	}

	vbSize := 0
	for _, c := range codes {
		vbSize += bytesio.VarintLen32(c)
	}

	dst = bytesio.AppendVarint32(dst, 0) // interval_start_offset

	if fpfSize < vbSize {
		dst = append(dst, byte(format.GapDeltaDZFPF128VB))
		dst = bytesio.AppendVarint32(dst, uint32(n))
		dst = append(dst, fpfBuf...)
		for _, c := range tail {
			dst = bytesio.AppendVarint32(dst, c)
		}
		return dst, nil
	}

	dst = append(dst, byte(format.GapDeltaDZVB))
	dst = bytesio.AppendVarint32(dst, uint32(n))
	for _, c := range codes {
		dst = bytesio.AppendVarint32(dst, c)
	}
	return dst, nil
}

// MaxSerializedSize upper-bounds WriteTo's output with 5 bytes per value
// (bytesio.MaxVarint32Len): that bounds the DELTADZ_VB form, and WriteTo
// only picks DELTADZ_FPF128_VB when it is smaller still.
func (s *GapSegment) MaxSerializedSize() int {
	n := len(s.values)
	return bytesio.VarintLen32(0) + 1 + bytesio.VarintLen32(uint32(n)) + 5*n
}
