package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances: they carry internal
// match-finder state that is expensive to allocate per call.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor wraps pierrec/lz4/v4's block codec, trading a somewhat
// lower ratio than zstd for much cheaper compression — suited to merges
// on the hot synchronous path (§5: a merge is a bounded CPU+allocation
// burst, not a place to spend zstd-level time).
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor returns a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// lz4MaxScratchBytes bounds the guess-and-grow loop in Decompress: lz4
// block mode carries no embedded uncompressed-size field, so a caller
// that doesn't already know the original size has to let the scratch
// buffer grow until it's large enough or this limit is hit.
const lz4MaxScratchBytes = 128 * 1024 * 1024

// Decompress reverses Compress without knowing the original uncompressed
// size up front: it starts from a 4x-of-input guess and doubles on
// lz4.ErrInvalidSourceShortBuffer until it fits or lz4MaxScratchBytes is
// exceeded. Callers that already know the original length (mergeop's
// envelope records it) should call DecompressSized instead and skip this
// loop entirely.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	for scratch := len(data) * 4; scratch <= lz4MaxScratchBytes; scratch *= 2 {
		buf := make([]byte, scratch)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || scratch == lz4MaxScratchBytes {
			return nil, err
		}
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}

// DecompressSized reverses Compress when the original uncompressed length
// is already known, decompressing into an exactly-sized buffer in one
// call instead of Decompress's guess-and-grow loop.
func (c LZ4Compressor) DecompressSized(data []byte, originalLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	buf := make([]byte, originalLen)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
