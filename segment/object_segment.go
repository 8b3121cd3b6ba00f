package segment

import (
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/ddz"
	"github.com/xpromache/parchive/errs"
	"github.com/xpromache/parchive/fastpfor"
	"github.com/xpromache/parchive/format"
)

// objCategory is the in-memory *shape* ObjectSegment preserves across a
// merge, per §4.M: "the subformat of the existing segment determines the
// in-memory shape and is preserved." The wire distinction between
// ENUM_VB and ENUM_FPF128 is purely a WriteTo-time compression choice
// (mirroring IntSegment), not a distinct in-memory shape, so both
// collapse to catNonRLEEnum here.
type objCategory int

const (
	catRaw objCategory = iota
	catRLEEnum
	catNonRLEEnum
)

// ObjectSegment holds a variable-length byte-string column (format ids 2
// ParameterStatus, 13 StringValue, 19 BinaryValue). It is the subtlest
// codec in the family: four wire subformats, and a merge that may need to
// translate between them (§4.M).
type ObjectSegment struct {
	latch

	category objCategory

	// catRaw: flatValues holds the logical value sequence directly.
	flatValues []string

	// catRLEEnum / catNonRLEEnum: dictionary is the deduplicated set of
	// unique values, index maps a value back to its dictionary position.
	dictionary []string
	index      map[string]int32

	// catRLEEnum only: parallel run-length streams.
	rleCounts []uint32
	rleValues []uint32

	// catNonRLEEnum only: one dictionary index per logical value, in order.
	valuesIdx []uint32
}

var _ Segment = (*ObjectSegment)(nil)

// NewObjectSegment decodes the initial operand's payload starting at
// cursor (just past the format-id byte). The subformat byte selects both
// the wire layout and the in-memory shape preserved for the rest of the
// merge.
func NewObjectSegment(buf []byte, cursor int) (*ObjectSegment, int, error) {
	if cursor >= len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	subfmt := format.ObjectSubformat(format.Subformat(buf[cursor]))
	cursor++

	s := &ObjectSegment{}
	next, err := s.initFrom(buf, cursor, subfmt)
	if err != nil {
		return nil, cursor, err
	}
	return s, next, nil
}

// initFrom decodes the payload at cursor (subformat already consumed) and
// establishes s's category and initial state.
func (s *ObjectSegment) initFrom(buf []byte, cursor int, subfmt format.ObjectSubformat) (int, error) {
	switch subfmt {
	case format.ObjectRaw:
		values, next, err := decodeStringList(buf, cursor)
		if err != nil {
			return cursor, err
		}
		s.category = catRaw
		s.flatValues = values
		return next, nil

	case format.ObjectEnumRLE:
		dict, counts, vals, next, err := decodeObjectEnumRLE(buf, cursor)
		if err != nil {
			return cursor, err
		}
		s.category = catRLEEnum
		s.setDictionary(dict)
		s.rleCounts = counts
		s.rleValues = vals
		return next, nil

	case format.ObjectEnumVB:
		dict, idx, next, err := decodeObjectEnumIndexed(buf, cursor, false)
		if err != nil {
			return cursor, err
		}
		s.category = catNonRLEEnum
		s.setDictionary(dict)
		s.valuesIdx = idx
		return next, nil

	case format.ObjectEnumFPF128:
		dict, idx, next, err := decodeObjectEnumIndexed(buf, cursor, true)
		if err != nil {
			return cursor, err
		}
		s.category = catNonRLEEnum
		s.setDictionary(dict)
		s.valuesIdx = idx
		return next, nil

	default:
		return cursor, errs.ErrUnknownSubformat
	}
}

func (s *ObjectSegment) setDictionary(dict []string) {
	s.dictionary = dict
	s.index = make(map[string]int32, len(dict))
	for i, v := range dict {
		s.index[v] = int32(i)
	}
}

// findOrInsert returns value's dictionary position, inserting a new owned
// copy if it is not already present.
func (s *ObjectSegment) findOrInsert(value string) int32 {
	if idx, ok := s.index[value]; ok {
		return idx
	}
	idx := int32(len(s.dictionary))
	s.dictionary = append(s.dictionary, value)
	s.index[value] = idx
	return idx
}

// appendRun appends a run to the RLE streams, coalescing with the
// trailing run when it shares the same dictionary index.
func (s *ObjectSegment) appendRun(valueIdx int32, count uint32) {
	if count == 0 {
		return
	}
	n := len(s.rleValues)
	if n > 0 && s.rleValues[n-1] == uint32(valueIdx) {
		s.rleCounts[n-1] += count
		return
	}
	s.rleValues = append(s.rleValues, uint32(valueIdx))
	s.rleCounts = append(s.rleCounts, count)
}

// logicalCount returns the number of logical values the segment currently
// represents, regardless of in-memory shape.
func (s *ObjectSegment) logicalCount() int {
	switch s.category {
	case catRaw:
		return len(s.flatValues)
	case catRLEEnum:
		total := 0
		for _, c := range s.rleCounts {
			total += int(c)
		}
		return total
	default:
		return len(s.valuesIdx)
	}
}

// decodedOperand is the normalized shape of one operand's payload,
// regardless of its own wire subformat, so MergeFrom can dispatch purely
// on (existing category, operand category).
type decodedOperand struct {
	isRaw bool
	raw   []string

	dict      []string
	isRLE     bool
	rleCounts []uint32
	rleValues []uint32
	idx       []uint32
}

func decodeOperand(buf []byte, cursor int) (decodedOperand, int, error) {
	if cursor >= len(buf) {
		return decodedOperand{}, cursor, errs.ErrShortBuffer
	}
	subfmt := format.ObjectSubformat(format.Subformat(buf[cursor]))
	cursor++

	switch subfmt {
	case format.ObjectRaw:
		values, next, err := decodeStringList(buf, cursor)
		if err != nil {
			return decodedOperand{}, cursor, err
		}
		return decodedOperand{isRaw: true, raw: values}, next, nil

	case format.ObjectEnumRLE:
		dict, counts, vals, next, err := decodeObjectEnumRLE(buf, cursor)
		if err != nil {
			return decodedOperand{}, cursor, err
		}
		return decodedOperand{dict: dict, isRLE: true, rleCounts: counts, rleValues: vals}, next, nil

	case format.ObjectEnumVB:
		dict, idx, next, err := decodeObjectEnumIndexed(buf, cursor, false)
		if err != nil {
			return decodedOperand{}, cursor, err
		}
		return decodedOperand{dict: dict, idx: idx}, next, nil

	case format.ObjectEnumFPF128:
		dict, idx, next, err := decodeObjectEnumIndexed(buf, cursor, true)
		if err != nil {
			return decodedOperand{}, cursor, err
		}
		return decodedOperand{dict: dict, idx: idx}, next, nil

	default:
		return decodedOperand{}, cursor, errs.ErrUnknownSubformat
	}
}

// MergeFrom decodes one operand (which may use any of the four
// subformats) and folds it into the existing segment's preserved shape,
// per the eight merge-direction rules of §4.M.
func (s *ObjectSegment) MergeFrom(buf []byte, cursor int) (int, error) {
	if err := s.failed(); err != nil {
		return cursor, err
	}

	op, next, err := decodeOperand(buf, cursor)
	if err != nil {
		return cursor, s.fail(err)
	}

	switch {
	case op.isRaw:
		s.mergeRawOperand(op.raw)
	case op.isRLE:
		s.mergeRLEOperand(op.dict, op.rleCounts, op.rleValues)
	default:
		s.mergeIndexedOperand(op.dict, op.idx)
	}

	if _, err := checkCount(s.logicalCount()); err != nil {
		return next, s.fail(err)
	}

	return next, nil
}

// mergeRawOperand implements cases 1 ("raw into raw") and 2 ("raw into
// enum", both RLE and non-RLE existing shapes).
func (s *ObjectSegment) mergeRawOperand(values []string) {
	switch s.category {
	case catRaw:
		s.flatValues = append(s.flatValues, values...)
	case catRLEEnum:
		for _, v := range values {
			s.appendRun(s.findOrInsert(v), 1)
		}
	case catNonRLEEnum:
		for _, v := range values {
			s.valuesIdx = append(s.valuesIdx, uint32(s.findOrInsert(v)))
		}
	}
}

// mergeRLEOperand implements cases 3 ("RLE enum into raw"), 4 ("RLE enum
// into RLE enum"), and 5 ("RLE enum into non-RLE enum").
func (s *ObjectSegment) mergeRLEOperand(opDict []string, counts, values []uint32) {
	switch s.category {
	case catRaw:
		for i, vi := range values {
			v := opDict[vi]
			for c := uint32(0); c < counts[i]; c++ {
				s.flatValues = append(s.flatValues, v)
			}
		}
	case catRLEEnum:
		remap := s.mergeDictionary(opDict)
		for i, vi := range values {
			s.rleValues = append(s.rleValues, uint32(remap[vi]))
			s.rleCounts = append(s.rleCounts, counts[i])
		}
	case catNonRLEEnum:
		remap := s.mergeDictionary(opDict)
		for i, vi := range values {
			newIdx := uint32(remap[vi])
			for c := uint32(0); c < counts[i]; c++ {
				s.valuesIdx = append(s.valuesIdx, newIdx)
			}
		}
	}
}

// mergeIndexedOperand implements cases 6 ("non-RLE enum into raw"), 7
// ("non-RLE enum into non-RLE enum"), and 8 ("non-RLE enum into RLE
// enum").
func (s *ObjectSegment) mergeIndexedOperand(opDict []string, idx []uint32) {
	switch s.category {
	case catRaw:
		for _, vi := range idx {
			s.flatValues = append(s.flatValues, opDict[vi])
		}
	case catRLEEnum:
		remap := s.mergeDictionary(opDict)
		for _, vi := range idx {
			s.appendRun(remap[vi], 1)
		}
	case catNonRLEEnum:
		remap := s.mergeDictionary(opDict)
		for _, vi := range idx {
			s.valuesIdx = append(s.valuesIdx, uint32(remap[vi]))
		}
	}
}

// mergeDictionary folds opDict's entries into s's dictionary, reusing an
// existing position when the value is already present, and returns
// remap such that remap[i] is opDict[i]'s position in s.dictionary.
func (s *ObjectSegment) mergeDictionary(opDict []string) []int32 {
	remap := make([]int32, len(opDict))
	for i, v := range opDict {
		remap[i] = s.findOrInsert(v)
	}
	return remap
}

// WriteTo serializes the merged state in its preserved category. For
// catNonRLEEnum it picks whichever of ENUM_VB and ENUM_FPF128 is smaller,
// exactly as IntSegment picks between its two compressed index forms.
func (s *ObjectSegment) WriteTo(dst []byte) ([]byte, error) {
	if err := s.failed(); err != nil {
		return dst, err
	}
	if err := s.finish(); err != nil {
		return dst, err
	}
	if _, err := checkCount(s.logicalCount()); err != nil {
		return dst, s.fail(err)
	}

	switch s.category {
	case catRaw:
		dst = append(dst, byte(format.ObjectRaw))
		dst = encodeStringList(dst, s.flatValues)
		return dst, nil

	case catRLEEnum:
		dst = append(dst, byte(format.ObjectEnumRLE))
		dst = encodeStringList(dst, s.dictionary)
		dst = encodeVarintList(dst, s.rleCounts)
		dst = encodeVarintList(dst, s.rleValues)
		return dst, nil

	default: // catNonRLEEnum
		n := len(s.valuesIdx)
		signedIdx := make([]int32, n)
		for i, v := range s.valuesIdx {
			signedIdx[i] = int32(v)
		}
		codes := ddz.Encode(signedIdx)

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

		dict := encodeStringList(nil, s.dictionary)

		if fpfSize < vbSize {
			dst = append(dst, byte(format.ObjectEnumFPF128))
			dst = append(dst, dict...)
			dst = bytesio.AppendVarint32(dst, uint32(n))
			dst = append(dst, fpfBuf...)
			for _, c := range tail {
				dst = bytesio.AppendVarint32(dst, c)
			}
			return dst, nil
		}

		dst = append(dst, byte(format.ObjectEnumVB))
		dst = append(dst, dict...)
		dst = bytesio.AppendVarint32(dst, uint32(n))
		for _, c := range codes {
			dst = bytesio.AppendVarint32(dst, c)
		}
		return dst, nil
	}
}

// MaxSerializedSize returns an upper bound derived from the actual
// dictionary and stream sizes currently held, rather than the source's
// "4 + 8*values.size()" placeholder, which is wrong for strings (§9 open
// question): it never accounts for the bytes of the strings themselves.
func (s *ObjectSegment) MaxSerializedSize() int {
	switch s.category {
	case catRaw:
		return 1 + stringListSize(s.flatValues)
	case catRLEEnum:
		size := 1 + stringListSize(s.dictionary)
		size += bytesio.VarintLen32(uint32(len(s.rleCounts)))
		for _, c := range s.rleCounts {
			size += bytesio.VarintLen32(c)
		}
		size += bytesio.VarintLen32(uint32(len(s.rleValues)))
		for _, v := range s.rleValues {
			size += bytesio.VarintLen32(v)
		}
		return size
	default:
		size := 1 + stringListSize(s.dictionary)
		size += bytesio.VarintLen32(uint32(len(s.valuesIdx)))
		// MaxVarint32Len per index upper-bounds either compressed form.
		size += len(s.valuesIdx) * bytesio.MaxVarint32Len
		return size
	}
}

func stringListSize(values []string) int {
	size := bytesio.VarintLen32(uint32(len(values)))
	for _, v := range values {
		size += bytesio.VarintLen32(uint32(len(v))) + len(v)
	}
	return size
}

func encodeStringList(dst []byte, values []string) []byte {
	dst = bytesio.AppendVarint32(dst, uint32(len(values)))
	for _, v := range values {
		dst = bytesio.AppendVarint32(dst, uint32(len(v)))
		dst = append(dst, v...)
	}
	return dst
}

func decodeStringList(buf []byte, cursor int) ([]string, int, error) {
	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	count := int(count32)

	values := make([]string, count)
	for i := 0; i < count; i++ {
		l, next, err := bytesio.ReadVarint32(buf, cursor)
		if err != nil {
			return nil, cursor, err
		}
		cursor = next
		if cursor+int(l) > len(buf) {
			return nil, cursor, errs.ErrShortBuffer
		}
		values[i] = string(buf[cursor : cursor+int(l)])
		cursor += int(l)
	}
	return values, cursor, nil
}

func encodeVarintList(dst []byte, values []uint32) []byte {
	dst = bytesio.AppendVarint32(dst, uint32(len(values)))
	for _, v := range values {
		dst = bytesio.AppendVarint32(dst, v)
	}
	return dst
}

func decodeVarintList(buf []byte, cursor int) ([]uint32, int, error) {
	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	count := int(count32)

	values := make([]uint32, count)
	for i := 0; i < count; i++ {
		values[i], cursor, err = bytesio.ReadVarint32(buf, cursor)
		if err != nil {
			return nil, cursor, err
		}
	}
	return values, cursor, nil
}

func decodeObjectEnumRLE(buf []byte, cursor int) (dict []string, counts []uint32, values []uint32, next int, err error) {
	dict, cursor, err = decodeStringList(buf, cursor)
	if err != nil {
		return nil, nil, nil, cursor, err
	}
	counts, cursor, err = decodeVarintList(buf, cursor)
	if err != nil {
		return nil, nil, nil, cursor, err
	}
	values, cursor, err = decodeVarintList(buf, cursor)
	if err != nil {
		return nil, nil, nil, cursor, err
	}
	if len(counts) != len(values) {
		return nil, nil, nil, cursor, errs.ErrTruncatedPayload
	}
	for _, v := range values {
		if int(v) >= len(dict) {
			return nil, nil, nil, cursor, errs.ErrIndexOutOfRange
		}
	}
	return dict, counts, values, cursor, nil
}

// decodeObjectEnumIndexed decodes the dictionary followed by a DDZ index
// stream, compressed with FastPFor128+VB (useFPF true) or plain VB
// (useFPF false) — ENUM_FPF128 and ENUM_VB respectively.
func decodeObjectEnumIndexed(buf []byte, cursor int, useFPF bool) (dict []string, idx []uint32, next int, err error) {
	dict, cursor, err = decodeStringList(buf, cursor)
	if err != nil {
		return nil, nil, cursor, err
	}

	count32, cursor, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, nil, cursor, err
	}
	count := int(count32)

	var codes []uint32
	if useFPF {
		nBlockValues := (count / fastpfor.BlockSize) * fastpfor.BlockSize
		codes = make([]uint32, 0, count)
		codes, cursor, err = fastpfor.Decode(codes, buf, cursor, nBlockValues)
		if err != nil {
			return nil, nil, cursor, err
		}
		for i := nBlockValues; i < count; i++ {
			var v uint32
			v, cursor, err = bytesio.ReadVarint32(buf, cursor)
			if err != nil {
				return nil, nil, cursor, err
			}
			codes = append(codes, v)
		}
	} else {
		codes = make([]uint32, count)
		for i := 0; i < count; i++ {
			codes[i], cursor, err = bytesio.ReadVarint32(buf, cursor)
			if err != nil {
				return nil, nil, cursor, err
			}
		}
	}

	signed := ddz.Decode(codes)
	idx = make([]uint32, len(signed))
	for i, v := range signed {
		if v < 0 || int(v) >= len(dict) {
			return nil, nil, cursor, errs.ErrIndexOutOfRange
		}
		idx[i] = uint32(v)
	}

	return dict, idx, cursor, nil
}
