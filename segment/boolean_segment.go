package segment

import (
	"github.com/xpromache/parchive/bitmap"
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/errs"
)

// BooleanSegment holds a bit-packed boolean column (format id 20,
// BooleanValue). The wire form stores the element count separately from
// the backing word count so the last word's trailing bits can be ignored
// on read (§3 invariants, §4.L).
type BooleanSegment struct {
	latch
	bits *bitmap.Bitmap
}

var _ Segment = (*BooleanSegment)(nil)

// NewBooleanSegment decodes the initial operand's payload starting at
// cursor (just past the format-id byte).
func NewBooleanSegment(buf []byte, cursor int) (*BooleanSegment, int, error) {
	bm, next, err := decodeBooleanBitmap(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	return &BooleanSegment{bits: bm}, next, nil
}

// MergeFrom decodes another operand's bitmap and appends its bits.
func (s *BooleanSegment) MergeFrom(buf []byte, cursor int) (int, error) {
	if err := s.failed(); err != nil {
		return cursor, err
	}

	bm, next, err := decodeBooleanBitmap(buf, cursor)
	if err != nil {
		return cursor, s.fail(err)
	}

	if _, err := checkCount(s.bits.Len() + bm.Len()); err != nil {
		return next, s.fail(err)
	}

	n := bm.Len()
	for i := 0; i < n; {
		width := n - i
		if width > 64 {
			width = 64
		}
		s.bits.PushBack(bm.GetBits(i, width), width)
		i += width
	}

	return next, nil
}

// WriteTo serializes the merged bitmap: varint element count, varint word
// count, then the underlying words verbatim.
func (s *BooleanSegment) WriteTo(dst []byte) ([]byte, error) {
	if err := s.failed(); err != nil {
		return dst, err
	}
	if err := s.finish(); err != nil {
		return dst, err
	}

	n := s.bits.Len()
	if _, err := checkCount(n); err != nil {
		return dst, s.fail(err)
	}

	words := s.bits.Words()
	wordCount := s.bits.WordCount()

	dst = bytesio.AppendVarint32(dst, uint32(n))
	dst = bytesio.AppendVarint32(dst, uint32(wordCount))
	for i := 0; i < wordCount; i++ {
		dst = bytesio.AppendUint64(dst, words[i])
	}
	return dst, nil
}

// MaxSerializedSize returns the exact size of the single wire encoding.
func (s *BooleanSegment) MaxSerializedSize() int {
	n := s.bits.Len()
	wordCount := s.bits.WordCount()
	return bytesio.VarintLen32(uint32(n)) + bytesio.VarintLen32(uint32(wordCount)) + 8*wordCount
}

func decodeBooleanBitmap(buf []byte, cursor int) (*bitmap.Bitmap, int, error) {
	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	count := int(count32)

	wordCount32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	wordCount := int(wordCount32)

	if wordCount != (count+63)/64 {
		return nil, cursor, errs.ErrTruncatedPayload
	}

	words := make([]uint64, wordCount)
	for i := 0; i < wordCount; i++ {
		words[i], cursor, err = bytesio.ReadUint64(buf, cursor)
		if err != nil {
			return nil, cursor, err
		}
	}

	return bitmap.FromWords(words, count), cursor, nil
}
