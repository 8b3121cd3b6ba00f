// Package integrity provides a checksum helper for tagging a freshly
// merged segment's bytes for corruption detection at rest. It is
// independent of the segment codecs themselves — the bit-exact wire
// format in §6 is the merge operator's own contract — but mergeop's
// compressed envelope (CompressedFullMerge/DecompressSegment) uses it to
// stamp and verify the merged bytes around the chosen compression codec.
package integrity

import "github.com/cespare/xxhash/v2"

// Checksum returns the xxHash64 of data.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Verify reports whether data's checksum matches want.
func Verify(data []byte, want uint64) bool {
	return Checksum(data) == want
}
