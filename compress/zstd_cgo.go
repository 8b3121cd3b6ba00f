//go:build cgo

package compress

import "github.com/valyala/gozstd"

// Compress compresses data with gozstd's cgo-backed encoder at a
// moderate level chosen to favor throughput on the synchronous merge
// path over maximum ratio.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return gozstd.Decompress(nil, data)
}
