// Package bytesio provides the fixed-width big-endian and unsigned LEB128
// varint primitives every segment codec is built from.
//
// Fixed-width integers and floats are always big-endian on the wire
// (reinterpreted at the bit level, never cast); varints are unsigned
// LEB128 with 7-bit groups and an MSB continuation bit, capped at 5 bytes
// for 32-bit values and 10 bytes for 64-bit values.
package bytesio

import (
	"encoding/binary"
	"math"

	"github.com/xpromache/parchive/errs"
)

// be is the wire's fixed byte order (§3 invariants: "all multi-byte
// integers and floats on the wire are big-endian"). parchive never needs
// to switch byte order at runtime, so this talks to encoding/binary
// directly rather than through a pluggable engine interface.
var be = binary.BigEndian

// MaxVarint32Len and MaxVarint64Len are the hard overrun limits from §4.A.
const (
	MaxVarint32Len = 5
	MaxVarint64Len = 10
)

// AppendUint32 appends the big-endian encoding of v to dst.
func AppendUint32(dst []byte, v uint32) []byte {
	return be.AppendUint32(dst, v)
}

// AppendUint64 appends the big-endian encoding of v to dst.
func AppendUint64(dst []byte, v uint64) []byte {
	return be.AppendUint64(dst, v)
}

// AppendFloat32 appends the big-endian bit pattern of f to dst.
func AppendFloat32(dst []byte, f float32) []byte {
	return be.AppendUint32(dst, math.Float32bits(f))
}

// AppendFloat64 appends the big-endian bit pattern of f to dst.
func AppendFloat64(dst []byte, f float64) []byte {
	return be.AppendUint64(dst, math.Float64bits(f))
}

// ReadUint32 reads a big-endian uint32 at cursor, returning the new cursor.
func ReadUint32(buf []byte, cursor int) (uint32, int, error) {
	if cursor < 0 || cursor+4 > len(buf) {
		return 0, cursor, errs.ErrShortBuffer
	}
	return be.Uint32(buf[cursor : cursor+4]), cursor + 4, nil
}

// ReadUint64 reads a big-endian uint64 at cursor, returning the new cursor.
func ReadUint64(buf []byte, cursor int) (uint64, int, error) {
	if cursor < 0 || cursor+8 > len(buf) {
		return 0, cursor, errs.ErrShortBuffer
	}
	return be.Uint64(buf[cursor : cursor+8]), cursor + 8, nil
}

// ReadFloat32 reads a big-endian IEEE-754 float32 at cursor.
func ReadFloat32(buf []byte, cursor int) (float32, int, error) {
	bits, next, err := ReadUint32(buf, cursor)
	if err != nil {
		return 0, cursor, err
	}
	return math.Float32frombits(bits), next, nil
}

// ReadFloat64 reads a big-endian IEEE-754 float64 at cursor.
func ReadFloat64(buf []byte, cursor int) (float64, int, error) {
	bits, next, err := ReadUint64(buf, cursor)
	if err != nil {
		return 0, cursor, err
	}
	return math.Float64frombits(bits), next, nil
}

// ZigZagEncode32 maps a signed 32-bit integer onto the unsigned domain so
// that small-magnitude values (positive or negative) encode to small
// varints. It is a bijection over the entire int32 range, including
// math.MinInt32.
func ZigZagEncode32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

// ZigZagDecode32 is the inverse of ZigZagEncode32.
func ZigZagDecode32(u uint32) int32 {
	return int32((u >> 1)) ^ -int32(u&1)
}

// ZigZagEncode64 is the 64-bit analogue of ZigZagEncode32.
func ZigZagEncode64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// ZigZagDecode64 is the inverse of ZigZagEncode64.
func ZigZagDecode64(u uint64) int64 {
	return int64((u >> 1)) ^ -int64(u&1)
}

// AppendVarint32 appends v to dst as an unsigned LEB128 varint.
func AppendVarint32(dst []byte, v uint32) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendVarint64 appends v to dst as an unsigned LEB128 varint.
func AppendVarint64(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// ReadVarint32 decodes an unsigned LEB128 varint, failing with corruption if
// it exceeds MaxVarint32Len bytes or overflows 32 bits.
func ReadVarint32(buf []byte, cursor int) (uint32, int, error) {
	var result uint32
	for i := 0; i < MaxVarint32Len; i++ {
		if cursor+i >= len(buf) {
			return 0, cursor, errs.ErrShortBuffer
		}
		b := buf[cursor+i]
		shift := uint(i) * 7
		if i == MaxVarint32Len-1 && b > 0x0f {
			return 0, cursor, errs.ErrVarintOverflow
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, cursor + i + 1, nil
		}
	}
	return 0, cursor, errs.ErrVarintOverflow
}

// ReadVarint64 decodes an unsigned LEB128 varint, failing with corruption if
// it exceeds MaxVarint64Len bytes or overflows 64 bits.
func ReadVarint64(buf []byte, cursor int) (uint64, int, error) {
	var result uint64
	for i := 0; i < MaxVarint64Len; i++ {
		if cursor+i >= len(buf) {
			return 0, cursor, errs.ErrShortBuffer
		}
		b := buf[cursor+i]
		shift := uint(i) * 7
		if i == MaxVarint64Len-1 && b > 0x01 {
			return 0, cursor, errs.ErrVarintOverflow
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, cursor + i + 1, nil
		}
	}
	return 0, cursor, errs.ErrVarintOverflow
}

// VarintLen32 returns the number of bytes AppendVarint32 would emit for v.
func VarintLen32(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// VarintLen64 returns the number of bytes AppendVarint64 would emit for v.
func VarintLen64(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
