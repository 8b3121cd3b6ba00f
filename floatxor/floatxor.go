// Package floatxor implements the Gorilla-style XOR compression codec for
// float32 sequences (§4.F): the first value is stored raw, later values
// are coded as the XOR against their predecessor, exploiting that
// consecutive samples in a column usually share most of their bit
// pattern.
//
// This mirrors the 64-bit Gorilla codec the teacher implements for
// float64 timestamps/values, narrowed to float32's 5-bit leading-zero and
// 5-bit meaningful-bit-count fields (where an encoded 0 means 32 bits) —
// the layout the archive's C++ original uses for float columns, as
// opposed to the teacher's own 5+6-bit float64 variant.
package floatxor

import (
	"math"
	"math/bits"

	"github.com/xpromache/parchive/bitstream"
)

// Encode appends the XOR-compressed bit stream for values to dst. The
// value count is not part of the stream; the caller (FloatSegment) frames
// it separately as a varint.
func Encode(dst []byte, values []float32) []byte {
	if len(values) == 0 {
		return dst
	}

	w := bitstream.NewWriter(dst)

	prev := math.Float32bits(values[0])
	w.WriteBits(uint64(prev), 32)

	prevLZ, prevTZ := 0, 0
	haveWindow := false

	for _, f := range values[1:] {
		cur := math.Float32bits(f)
		xor := cur ^ prev
		prev = cur

		if xor == 0 {
			w.WriteBit(0)
			continue
		}
		w.WriteBit(1)

		lz := bits.LeadingZeros32(xor)
		tz := bits.TrailingZeros32(xor)
		meaningful := 32 - lz - tz

		if haveWindow && lz >= prevLZ && tz >= prevTZ && lz < prevLZ+7 {
			w.WriteBit(0)
			w.WriteBits(uint64(xor>>uint(prevTZ)), 32-prevLZ-prevTZ)
			continue
		}

		w.WriteBit(1)
		w.WriteBits(uint64(lz), 5)
		mb := meaningful
		if mb == 32 {
			w.WriteBits(0, 5)
		} else {
			w.WriteBits(uint64(mb), 5)
		}
		w.WriteBits(uint64(xor>>uint(tz)), meaningful)

		prevLZ, prevTZ = lz, tz
		haveWindow = true
	}

	w.Flush()
	return w.Bytes()
}

// Decode reads exactly n float32 values from the XOR-compressed bit
// stream in data, returning the number of leading bytes of data the
// stream occupies. The count is rounded up to whole 64-bit words, because
// Encode's final Flush always pads the last word to 8 bytes, so a decoder
// embedded inline in a larger buffer must skip that padding too.
func Decode(data []byte, n int) ([]float32, int, error) {
	if n == 0 {
		return nil, 0, nil
	}

	r := bitstream.NewReader(data)
	out := make([]float32, n)

	bits, err := r.ReadBits(32)
	if err != nil {
		return nil, 0, err
	}
	prev := uint32(bits)
	out[0] = math.Float32frombits(prev)

	prevLZ, prevTZ := 0, 0

	for i := 1; i < n; i++ {
		ctrl, err := r.ReadBit()
		if err != nil {
			return nil, 0, err
		}
		if ctrl == 0 {
			out[i] = math.Float32frombits(prev)
			continue
		}

		windowBit, err := r.ReadBit()
		if err != nil {
			return nil, 0, err
		}

		var lz, tz, meaningful int
		if windowBit == 0 {
			lz, tz = prevLZ, prevTZ
			meaningful = 32 - lz - tz
		} else {
			lzBits, err := r.ReadBits(5)
			if err != nil {
				return nil, 0, err
			}
			mbBits, err := r.ReadBits(5)
			if err != nil {
				return nil, 0, err
			}
			lz = int(lzBits)
			mb := int(mbBits)
			if mb == 0 {
				mb = 32
			}
			tz = 32 - lz - mb
			meaningful = mb
			prevLZ, prevTZ = lz, tz
		}

		bits, err := r.ReadBits(meaningful)
		if err != nil {
			return nil, 0, err
		}
		xor := uint32(bits) << uint(tz)
		cur := prev ^ xor
		prev = cur
		out[i] = math.Float32frombits(cur)
	}

	return out, r.WordsConsumedBytes(), nil
}

