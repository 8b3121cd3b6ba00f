// Package fastpfor implements a FastPFor-style block-parallel bit-packing
// codec for sequences of unsigned 32-bit integers.
//
// Values are processed in fixed blocks of 128. For each block the encoder
// picks a base bit width b covering most of the block's values, packs
// every value's low b bits into a dense bit-packed array, and routes the
// minority of values that don't fit into b bits through a per-block
// exception stream: their positions, plus the bits of the value above b
// (the "extra bits"), packed at a second, block-wide exception bit width.
// This is the standard patched frame-of-reference construction FastPFOR is
// built from; see §4.D for the contract it must uphold (whole-block
// consumption, exact cursor advancement, corruption on header/size
// mismatch).
package fastpfor

import (
	"github.com/xpromache/parchive/bitstream"
	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/errs"
)

// BlockSize is the fixed number of values FastPFor128 processes per block.
const BlockSize = 128

// Encode compresses as many whole 128-value blocks from in as possible,
// appending the result to dst. consumed is always a multiple of BlockSize
// and never exceeds len(in); any tail values must be encoded by the caller
// using another codec (plain varints, per IntSegment's DELTADZ_FPF128_VB).
func Encode(dst []byte, in []uint32) (out []byte, consumed int) {
	nBlocks := len(in) / BlockSize
	out = dst
	for i := 0; i < nBlocks; i++ {
		out = encodeBlock(out, in[i*BlockSize:(i+1)*BlockSize])
	}
	return out, nBlocks * BlockSize
}

// Decode decompresses exactly nBlocks full blocks (nBlocks = n/BlockSize)
// starting at buf[cursor], appending the decoded values to dst. It returns
// the advanced cursor. A truncated buffer, an out-of-range per-block bit
// width, or an exception count exceeding BlockSize is reported as
// corruption.
func Decode(dst []uint32, buf []byte, cursor int, n int) (out []uint32, next int, err error) {
	nBlocks := n / BlockSize
	out = dst
	for i := 0; i < nBlocks; i++ {
		var block []uint32
		block, cursor, err = decodeBlock(buf, cursor)
		if err != nil {
			return dst, cursor, err
		}
		out = append(out, block...)
	}
	return out, cursor, nil
}

func bitWidth(v uint32) int {
	w := 0
	for v != 0 {
		w++
		v >>= 1
	}
	return w
}

// chooseBaseWidth picks the base bit width minimizing total encoded words:
// the base-packed array cost grows linearly with b, while exceptions cost
// a fixed per-exception overhead, so the optimum trades one against the
// other. Bit widths are evaluated from 0 to 32.
func chooseBaseWidth(block []uint32) int {
	best := 32
	bestCost := 1 << 30
	for b := 0; b <= 32; b++ {
		exceptions := 0
		for _, v := range block {
			if bitWidth(v) > b {
				exceptions++
			}
		}
		// cost in bytes: base array + exception positions (1 byte each)
		// + a rough estimate of exception extra-bit payload.
		cost := (len(block)*b+7)/8 + exceptions*2
		if cost < bestCost {
			bestCost = cost
			best = b
		}
	}
	return best
}

func encodeBlock(dst []byte, block []uint32) []byte {
	b := chooseBaseWidth(block)

	var positions []byte
	var extras []uint32
	exceptionBitWidth := 0
	for i, v := range block {
		if bitWidth(v) > b {
			positions = append(positions, byte(i))
			extra := v >> uint(b)
			if w := bitWidth(extra); w > exceptionBitWidth {
				exceptionBitWidth = w
			}
			extras = append(extras, extra)
		}
	}

	dst = append(dst, byte(b), byte(exceptionBitWidth))
	dst = bytesio.AppendVarint32(dst, uint32(len(positions)))
	dst = append(dst, positions...)

	if exceptionBitWidth > 0 {
		w := bitstream.NewWriter(nil)
		for _, e := range extras {
			w.WriteBits(uint64(e), exceptionBitWidth)
		}
		w.Flush()
		dst = append(dst, w.Bytes()...)
	}

	bw := bitstream.NewWriter(nil)
	for _, v := range block {
		bw.WriteBits(uint64(v), b)
	}
	bw.Flush()
	dst = append(dst, bw.Bytes()...)

	return dst
}

func decodeBlock(buf []byte, cursor int) ([]uint32, int, error) {
	if cursor+2 > len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	b := int(buf[cursor])
	exceptionBitWidth := int(buf[cursor+1])
	cursor += 2

	if b > 32 || exceptionBitWidth > 32 {
		return nil, cursor, errs.ErrUnknownSubformat
	}

	exceptionCount, next, err := bytesio.ReadVarint32(buf, cursor)
	if err != nil {
		return nil, cursor, err
	}
	cursor = next
	if exceptionCount > BlockSize {
		return nil, cursor, errs.ErrFastPForLengthMismatch
	}

	if cursor+int(exceptionCount) > len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	positions := buf[cursor : cursor+int(exceptionCount)]
	cursor += int(exceptionCount)

	extras := make([]uint32, exceptionCount)
	if exceptionBitWidth > 0 && exceptionCount > 0 {
		exceptionBits := int(exceptionCount) * exceptionBitWidth
		// Writer.Flush always emits a full trailing 64-bit word (§4.B), so
		// the byte length must round up to an 8-byte boundary, not to the
		// nearest byte.
		exceptionBytes := ((exceptionBits + 63) / 64) * 8
		if cursor+exceptionBytes > len(buf) {
			return nil, cursor, errs.ErrShortBuffer
		}
		r := bitstream.NewReader(buf[cursor : cursor+exceptionBytes])
		for i := range extras {
			v, rerr := r.ReadBits(exceptionBitWidth)
			if rerr != nil {
				return nil, cursor, rerr
			}
			extras[i] = uint32(v)
		}
		cursor += exceptionBytes
	}

	baseBits := BlockSize * b
	baseBytes := ((baseBits + 63) / 64) * 8
	if cursor+baseBytes > len(buf) {
		return nil, cursor, errs.ErrShortBuffer
	}
	br := bitstream.NewReader(buf[cursor : cursor+baseBytes])
	values := make([]uint32, BlockSize)
	for i := range values {
		v, rerr := br.ReadBits(b)
		if rerr != nil {
			return nil, cursor, rerr
		}
		values[i] = uint32(v)
	}
	cursor += baseBytes

	for i, pos := range positions {
		if int(pos) >= BlockSize {
			return nil, cursor, errs.ErrIndexOutOfRange
		}
		values[pos] |= extras[i] << uint(b)
	}

	return values, cursor, nil
}
