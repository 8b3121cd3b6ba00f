package compress

// ZstdCompressor wraps Zstandard, chosen for cold-storage envelopes where
// ratio matters more than the per-merge latency budget: an
// infrequently-read archival GapSegment or a large ObjectSegment
// dictionary benefits most from its higher compression ratio.
//
// Two implementations exist: zstd_cgo.go (valyala/gozstd, cgo-backed,
// higher throughput) and zstd_pure.go (klauspost/compress/zstd, pure Go,
// used when cgo is unavailable).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor returns a new Zstd compressor.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
