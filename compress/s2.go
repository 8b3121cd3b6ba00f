package compress

import "github.com/klauspost/compress/s2"

// S2Compressor wraps klauspost/compress's S2 codec, a Snappy-compatible
// format tuned for speed over ratio — a good default for the frequent,
// small merges this operator produces.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor returns a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 0, s2.MaxEncodedLen(len(data)))
	return s2.Encode(dst, data), nil
}

func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	return s2.Decode(make([]byte, 0, n), data)
}
