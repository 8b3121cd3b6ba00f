// Package mergeop implements the merge-operator entry points a host
// storage engine calls during flush/compaction (§4.O, §6): it reads the
// format id off the existing/first-operand slice, constructs the matching
// segment.Segment, folds every operand into it in order, and serializes
// the result.
//
// Logging is an external collaborator per spec.md §1: the dispatcher
// reports failures through the Logger interface rather than importing a
// concrete logging library, so a host can plug in whatever façade it
// already uses (or accept the log.Default() fallback).
package mergeop

import (
	"fmt"
	"log"

	"github.com/xpromache/parchive/bytesio"
	"github.com/xpromache/parchive/compress"
	"github.com/xpromache/parchive/errs"
	"github.com/xpromache/parchive/format"
	"github.com/xpromache/parchive/integrity"
	"github.com/xpromache/parchive/internal/pool"
	"github.com/xpromache/parchive/segment"
)

// AllowSingleOperand is always true: a single-operand partial merge is
// well-defined and semantically identity (§6).
const AllowSingleOperand = true

// Logger is the minimal façade the dispatcher logs failures through.
type Logger interface {
	Printf(format string, args ...any)
}

var defaultLogger Logger = log.Default()

// constructor decodes a segment.Segment of a given format from an initial
// slice. The caller passes the full slice, including the format id byte,
// and cursor 1, just past the format id it has already read.
type constructor func(buf []byte, cursor int) (segment.Segment, int, error)

var constructors = map[format.ID]constructor{
	format.ParameterStatus: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewObjectSegment(buf, cursor)
	},
	format.IntValue: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewIntSegment(buf, cursor)
	},
	format.StringValue: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewObjectSegment(buf, cursor)
	},
	format.FloatValue: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewFloatSegment(buf, cursor)
	},
	format.DoubleValue: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewDoubleSegment(buf, cursor)
	},
	format.LongValue: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewLongSegment(buf, cursor)
	},
	format.BinaryValue: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewObjectSegment(buf, cursor)
	},
	format.BooleanValue: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewBooleanSegment(buf, cursor)
	},
	format.SortedTimeValueV2: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewIntSegment(buf, cursor)
	},
	format.Gap: func(buf []byte, cursor int) (segment.Segment, int, error) {
		return segment.NewGapSegment(buf, cursor)
	},
}

// fullMerge is FullMerge's implementation, also returning the format id so
// CompressedFullMerge can feed it to SelectCodec without re-parsing the
// output.
func fullMerge(logger Logger, key []byte, existing []byte, operands [][]byte) (format.ID, []byte, error) {
	if logger == nil {
		logger = defaultLogger
	}

	var initial []byte
	var remaining [][]byte

	switch {
	case existing != nil:
		initial = existing
		remaining = operands
	case len(operands) > 0:
		initial = operands[0]
		remaining = operands[1:]
	default:
		logger.Printf("parchive merge key=%x: %v", key, errs.ErrEmptyOperandList)
		return 0, nil, errs.ErrEmptyOperandList
	}

	if len(initial) == 0 {
		err := fmt.Errorf("%w: initial segment slice is empty", errs.ErrShortBuffer)
		logger.Printf("parchive merge key=%x: %v", key, err)
		return 0, nil, err
	}

	id := format.ID(initial[0])
	ctor, ok := constructors[id]
	if !ok {
		err := fmt.Errorf("%w: %d", errs.ErrUnknownFormatID, id)
		logger.Printf("parchive merge key=%x format=%d: %v", key, id, err)
		return 0, nil, err
	}

	seg, _, err := ctor(initial, 1)
	if err != nil {
		logger.Printf("parchive merge key=%x format=%s: construct existing: %v", key, id, err)
		return 0, nil, err
	}

	for _, operand := range remaining {
		if len(operand) == 0 {
			err := fmt.Errorf("%w: operand slice is empty", errs.ErrShortBuffer)
			logger.Printf("parchive merge key=%x format=%s: %v", key, id, err)
			return 0, nil, err
		}
		if format.ID(operand[0]) != id {
			err := fmt.Errorf("%w: existing=%s operand=%d", errs.ErrFormatIDMismatch, id, operand[0])
			logger.Printf("parchive merge key=%x: %v", key, err)
			return 0, nil, err
		}
		if _, err := seg.MergeFrom(operand, 1); err != nil {
			logger.Printf("parchive merge key=%x format=%s: merge operand: %v", key, id, err)
			return 0, nil, err
		}
	}

	buf := pool.Get()
	defer pool.Put(buf)
	buf.Grow(1 + seg.MaxSerializedSize())
	buf.MustWrite([]byte{byte(id)})

	out, err := seg.WriteTo(buf.Bytes())
	if err != nil {
		logger.Printf("parchive merge key=%x format=%s: write merged segment: %v", key, id, err)
		return 0, nil, err
	}

	result := make([]byte, len(out))
	copy(result, out)
	return id, result, nil
}

// FullMerge recomputes a stored value from an optional existing segment
// plus an ordered list of operand segments, per §6's full_merge contract.
// Pass a nil logger to use the package default (log.Default()).
func FullMerge(logger Logger, key []byte, existing []byte, operands [][]byte) ([]byte, error) {
	_, out, err := fullMerge(logger, key, existing, operands)
	return out, err
}

// PartialMerge combines a run of operands without an existing value,
// using the first operand as the initial segment (§6). A single-operand
// partial merge is identity.
func PartialMerge(logger Logger, key []byte, operands [][]byte) ([]byte, error) {
	return FullMerge(logger, key, nil, operands)
}

// Codec selection thresholds for CompressedFullMerge's automatic
// envelope policy (§5: a merge is a bounded CPU+allocation burst, so
// below compressionFloorBytes the envelope overhead isn't worth paying,
// and above zstdThresholdBytes the choice leans on ratio over latency).
const (
	compressionFloorBytes = 256
	zstdThresholdBytes    = 16 * 1024
)

// SelectCodec picks the compress.Algorithm CompressedFullMerge wraps a
// merged segment's bytes in, based on its format id and size. Gap and the
// ObjectSegment-backed formats (ParameterStatus, StringValue, BinaryValue)
// carry sparse indices or string dictionaries that are written far more
// often than read back and compress disproportionately well, so once
// they cross zstdThresholdBytes the higher-ratio zstd codec pays for
// itself; every other format favors lz4's cheaper CPU cost at that size.
// Below compressionFloorBytes the envelope's own overhead would dominate
// a small merge, so no compression is applied at all.
func SelectCodec(id format.ID, size int) compress.Algorithm {
	if size < compressionFloorBytes {
		return compress.AlgorithmNone
	}
	if size < zstdThresholdBytes {
		return compress.AlgorithmS2
	}
	switch id {
	case format.Gap, format.ParameterStatus, format.StringValue, format.BinaryValue:
		return compress.AlgorithmZstd
	default:
		return compress.AlgorithmLZ4
	}
}

// CompressedFullMerge runs FullMerge and wraps the result in a compressed
// envelope: [algorithm byte][uncompressed length varint][xxhash64 of the
// uncompressed bytes][compressed payload]. The codec is chosen
// automatically by SelectCodec from the merged segment's own format id
// and size, and the checksum lets DecompressSegment catch envelope-level
// corruption before it ever reaches a segment constructor. This is an
// opt-in layer outside the core MergeFrom/WriteTo contract — §6 requires
// the *segment* bytes to stay bit-exact; the envelope wraps around that,
// it never touches it.
func CompressedFullMerge(logger Logger, key []byte, existing []byte, operands [][]byte) ([]byte, error) {
	id, merged, err := fullMerge(logger, key, existing, operands)
	if err != nil {
		return nil, err
	}

	algo := SelectCodec(id, len(merged))
	codec, err := compress.GetCodec(algo)
	if err != nil {
		return nil, err
	}

	compressed, err := codec.Compress(merged)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+bytesio.MaxVarint32Len+8+len(compressed))
	out = append(out, byte(algo))
	out = bytesio.AppendVarint32(out, uint32(len(merged)))
	out = bytesio.AppendUint64(out, integrity.Checksum(merged))
	out = append(out, compressed...)
	return out, nil
}

// DecompressSegment reverses CompressedFullMerge's envelope: it reads the
// algorithm tag and original length back out, decompresses (using the
// known length to skip LZ4Compressor's guess-and-grow loop when the
// envelope used lz4), and verifies the result against the stored xxhash64
// checksum before handing the bit-exact segment bytes back to a
// constructor.
func DecompressSegment(data []byte) ([]byte, error) {
	if len(data) < 1 {
		return nil, errs.ErrShortBuffer
	}
	algo := compress.Algorithm(data[0])
	cursor := 1

	originalLen, cursor, err := bytesio.ReadVarint32(data, cursor)
	if err != nil {
		return nil, err
	}

	wantSum, cursor, err := bytesio.ReadUint64(data, cursor)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(algo)
	if err != nil {
		return nil, err
	}

	var merged []byte
	if lz4Codec, ok := codec.(compress.LZ4Compressor); ok {
		merged, err = lz4Codec.DecompressSized(data[cursor:], int(originalLen))
	} else {
		merged, err = codec.Decompress(data[cursor:])
	}
	if err != nil {
		return nil, err
	}

	if !integrity.Verify(merged, wantSum) {
		return nil, errs.ErrChecksumMismatch
	}
	return merged, nil
}
