package compress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allAlgorithms = []Algorithm{AlgorithmNone, AlgorithmZstd, AlgorithmS2, AlgorithmLZ4}

func TestGetCodec_RoundTripsEveryAlgorithm(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated: " +
		"the quick brown fox jumps over the lazy dog")

	for _, alg := range allAlgorithms {
		alg := alg
		t.Run(alg.String(), func(t *testing.T) {
			codec, err := GetCodec(alg)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, payload, decompressed)
		})
	}
}

func TestGetCodec_UnknownAlgorithmFails(t *testing.T) {
	_, err := GetCodec(Algorithm(255))
	require.Error(t, err)
}

func TestGetCodec_EmptyPayloadRoundTrips(t *testing.T) {
	for _, alg := range allAlgorithms {
		codec, err := GetCodec(alg)
		require.NoError(t, err)

		compressed, err := codec.Compress(nil)
		require.NoError(t, err)

		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, decompressed)
	}
}

func TestAlgorithm_String(t *testing.T) {
	require.Equal(t, "none", AlgorithmNone.String())
	require.Equal(t, "zstd", AlgorithmZstd.String())
	require.Equal(t, "s2", AlgorithmS2.String())
	require.Equal(t, "lz4", AlgorithmLZ4.String())
	require.Equal(t, "unknown", Algorithm(255).String())
}
