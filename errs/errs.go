// Package errs collects the sentinel errors returned throughout parchive.
//
// Every exported error is meant to be wrapped with additional context via
// fmt.Errorf("%w: ...", errs.ErrXxx, ...) and tested for with errors.Is.
package errs

import "errors"

// Corruption errors: the wire bytes are malformed, truncated, or otherwise
// fail to decode into a valid segment.
var (
	ErrShortBuffer          = errors.New("buffer too short to read mandatory field")
	ErrUnknownFormatID      = errors.New("unknown segment format id")
	ErrUnknownSubformat     = errors.New("unknown subformat byte")
	ErrVarintOverflow       = errors.New("varint exceeds maximum encoded byte length")
	ErrIndexOutOfRange      = errors.New("dictionary or value index out of range")
	ErrFastPForLengthMismatch = errors.New("fastpfor decoded word count does not match declared length")
	ErrBitStreamTruncated   = errors.New("bit stream read past end of buffer")
	ErrTruncatedPayload     = errors.New("payload truncated before declared value count was read")
	ErrChecksumMismatch     = errors.New("compressed envelope checksum does not match decompressed bytes")
)

// Mismatch errors: an operand disagrees with the existing segment's shape.
// Per the merge dispatcher's contract these are reported as corruption, not
// as a distinct error class, but are named separately here so call sites can
// produce a precise message.
var (
	ErrFormatIDMismatch = errors.New("operand format id does not match existing segment")
	ErrSignedFlagMismatch = errors.New("operand signed flag does not match existing segment")
	ErrSubtypeMismatch  = errors.New("operand logical subtype does not match existing segment")
)

// ErrCompactionTooLarge is returned distinctly (not as corruption) when a
// merge would produce more values than fit in a signed 32-bit count, so the
// host can skip the compaction rather than silently truncate or wrap.
var ErrCompactionTooLarge = errors.New("merged segment value count exceeds int32 range")

// Logic errors: caller misuse rather than bad wire data.
var (
	ErrEmptyOperandList = errors.New("full_merge called with no existing value and no operands")
	ErrAlreadyFailed    = errors.New("segment already latched a previous error")
	ErrAlreadyFinished  = errors.New("operation called after the segment was finalized")
)
