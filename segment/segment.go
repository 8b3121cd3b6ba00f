// Package segment implements the per-format codecs a merged parameter
// archive value is made of: IntSegment, FloatSegment, DoubleSegment,
// LongSegment, BooleanSegment, ObjectSegment, and GapSegment. Each type
// satisfies the Segment contract shared by the merge dispatcher
// (package mergeop).
package segment

import (
	"fmt"

	"github.com/xpromache/parchive/errs"
)

// Segment is the shared contract every format's in-memory segment
// satisfies. A Segment is constructed once from an existing slice (via
// each type's New constructor), mutated through repeated MergeFrom calls
// (one per operand), and consumed exactly once by WriteTo.
type Segment interface {
	// MergeFrom decodes one operand's payload, starting at cursor (just
	// past the operand's own format-id byte), and appends its values to
	// the segment's in-memory state. It returns the cursor advanced past
	// the consumed payload.
	MergeFrom(buf []byte, cursor int) (int, error)

	// WriteTo serializes the merged in-memory state, appending it to dst,
	// and returns the extended slice. It must not be called more than
	// once.
	WriteTo(dst []byte) ([]byte, error)

	// MaxSerializedSize returns an upper bound on WriteTo's output,
	// used to pre-reserve the dispatcher's output buffer.
	MaxSerializedSize() int
}

// latch is embedded by every segment type to implement the "first error
// wins" status behavior from §7: once a segment has failed, every further
// MergeFrom/WriteTo call short-circuits and returns the original error
// instead of operating on (possibly partially mutated) state. It also
// guards WriteTo's "consumed exactly once" contract (§4.G).
type latch struct {
	err      error
	finished bool
}

// fail latches err if this is the first failure, and always returns the
// latched error (so call sites can `return n, l.fail(err)`).
func (l *latch) fail(err error) error {
	if l.err == nil {
		l.err = err
	}
	return l.err
}

// failed reports the latched status. A call against a segment with no
// prior failure returns nil. A call against a segment that has already
// failed returns the latched error wrapped in ErrAlreadyFailed, so a
// caller observing this return can tell "this call just failed" (fail's
// unwrapped return) from "a previous call already failed and this one
// short-circuited".
func (l *latch) failed() error {
	if l.err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errs.ErrAlreadyFailed, l.err)
}

// finish marks the segment as written. Called once, at the top of
// WriteTo, after the failed() check. A second WriteTo call latches and
// returns ErrAlreadyFinished instead of re-serializing (or, worse,
// silently producing different output from) already-consumed state.
func (l *latch) finish() error {
	if l.finished {
		return l.fail(errs.ErrAlreadyFinished)
	}
	l.finished = true
	return nil
}

// checkCount converts n to int32 if it fits, else reports CompactionTooLarge.
func checkCount(n int) (int32, error) {
	if n < 0 || n > (1<<31)-1 {
		return 0, errs.ErrCompactionTooLarge
	}
	return int32(n), nil
}
