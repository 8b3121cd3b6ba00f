// Package ddz implements the delta-of-delta + ZigZag transform shared by
// IntSegment's DELTADZ subformats, SortedTimeValueV2 (which reuses the
// IntSegment codec), and GapSegment.
//
// Encode turns a sequence of signed 32-bit integers into a sequence of
// unsigned 32-bit ZigZag codes such that small, roughly-linear runs (the
// common case for sorted time offsets and monotonic counters) produce
// small codes. Decode is the exact inverse.
package ddz

import "github.com/xpromache/parchive/bytesio"

// Encode returns zz(x[0]), then zz((x[i]-x[i-1]) - prevDelta) for i >= 1,
// with prevDelta initialized to 0 and updated to (x[i]-x[i-1]) after each
// step.
func Encode(x []int32) []uint32 {
	if len(x) == 0 {
		return nil
	}

	out := make([]uint32, len(x))
	out[0] = bytesio.ZigZagEncode32(x[0])

	var prevDelta int32
	for i := 1; i < len(x); i++ {
		delta := x[i] - x[i-1]
		out[i] = bytesio.ZigZagEncode32(delta - prevDelta)
		prevDelta = delta
	}

	return out
}

// Decode is the exact inverse of Encode: round_trip(decode(encode(x))) ==
// x for any x where consecutive deltas fit in int32.
func Decode(codes []uint32) []int32 {
	if len(codes) == 0 {
		return nil
	}

	out := make([]int32, len(codes))
	out[0] = bytesio.ZigZagDecode32(codes[0])

	var prevDelta int32
	for i := 1; i < len(codes); i++ {
		deltaDelta := bytesio.ZigZagDecode32(codes[i])
		delta := deltaDelta + prevDelta
		out[i] = out[i-1] + delta
		prevDelta = delta
	}

	return out
}
