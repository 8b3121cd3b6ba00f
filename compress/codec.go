// Package compress implements an optional, opt-in envelope around a
// merged segment's bytes (§6's wire format stays bit-exact; this package
// never touches it). A host that merges very large GapSegments or
// ObjectSegments with large dictionaries can wrap mergeop.FullMerge's
// output in one of these codecs before persisting it, and unwrap with the
// matching Decompress before handing bytes back to a segment
// constructor.
package compress

import "fmt"

// Algorithm identifies which codec produced a compressed envelope.
type Algorithm byte

const (
	AlgorithmNone Algorithm = iota
	AlgorithmZstd
	AlgorithmS2
	AlgorithmLZ4
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmZstd:
		return "zstd"
	case AlgorithmS2:
		return "s2"
	case AlgorithmLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a merged segment's bytes before they are handed
// back to the host for persistence.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor, recovering the original segment
// bytes so they can be parsed by segment.NewXxxSegment/MergeFrom again.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// funcCodec adapts a pair of plain functions into a Codec. AlgorithmNone's
// identity pass-through doesn't carry any state worth a dedicated type, so
// it's built from this instead of a one-off empty struct.
type funcCodec struct {
	compress   func([]byte) ([]byte, error)
	decompress func([]byte) ([]byte, error)
}

func (f funcCodec) Compress(data []byte) ([]byte, error)   { return f.compress(data) }
func (f funcCodec) Decompress(data []byte) ([]byte, error) { return f.decompress(data) }

func identity(data []byte) ([]byte, error) { return data, nil }

var builtinCodecs = map[Algorithm]Codec{
	AlgorithmNone: funcCodec{compress: identity, decompress: identity},
	AlgorithmZstd: NewZstdCompressor(),
	AlgorithmS2:   NewS2Compressor(),
	AlgorithmLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the given algorithm.
func GetCodec(algorithm Algorithm) (Codec, error) {
	if codec, ok := builtinCodecs[algorithm]; ok {
		return codec, nil
	}
	return nil, fmt.Errorf("compress: unsupported algorithm %s", algorithm)
}
