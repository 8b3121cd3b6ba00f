// Package format defines the segment format-id registry (§3) and the
// shared bit-packed header byte conventions every segment type's
// subformat/flag byte follows — the same "low nibble is the variant, high
// nibble is per-type flags" packing the teacher uses for its numeric flag
// byte (section.NumericFlag), generalized to every segment type here.
package format

// ID identifies a segment's logical type. It is always the first byte on
// the wire.
type ID byte

const (
	ParameterStatus   ID = 2
	IntValue          ID = 11
	StringValue       ID = 13
	FloatValue        ID = 16
	DoubleValue       ID = 17
	LongValue         ID = 18
	BinaryValue       ID = 19
	BooleanValue      ID = 20
	SortedTimeValueV2 ID = 21
	Gap               ID = 22
)

// Known reports whether id is present in the format-id registry.
func Known(id ID) bool {
	switch id {
	case ParameterStatus, IntValue, StringValue, FloatValue, DoubleValue,
		LongValue, BinaryValue, BooleanValue, SortedTimeValueV2, Gap:
		return true
	default:
		return false
	}
}

func (id ID) String() string {
	switch id {
	case ParameterStatus:
		return "ParameterStatus"
	case IntValue:
		return "IntValue"
	case StringValue:
		return "StringValue"
	case FloatValue:
		return "FloatValue"
	case DoubleValue:
		return "DoubleValue"
	case LongValue:
		return "LongValue"
	case BinaryValue:
		return "BinaryValue"
	case BooleanValue:
		return "BooleanValue"
	case SortedTimeValueV2:
		return "SortedTimeValueV2"
	case Gap:
		return "Gap"
	default:
		return "Unknown"
	}
}

// subformatMask isolates the low 4 bits (the subformat/variant) of a
// header byte; the high 4 bits carry per-segment flags.
const subformatMask = 0x0F

// Subformat extracts the low-nibble subformat from a header byte.
func Subformat(header byte) byte {
	return header & subformatMask
}

// Flags extracts the high-nibble flags from a header byte.
func Flags(header byte) byte {
	return header >> 4
}

// PackHeader combines a subformat (0-15) and flags (0-15) into one header
// byte.
func PackHeader(subformat, flags byte) byte {
	return (flags << 4) | (subformat & subformatMask)
}

// IntSignedFlag is IntSegment's single flag bit: bit 4 of the header byte.
const IntSignedFlag byte = 0x01

// LongSubtype is LongSegment's 2-bit logical subtype, packed into bits 4-5
// of the header byte (i.e. the low 2 bits of Flags()).
type LongSubtype byte

const (
	LongUint64    LongSubtype = 0
	LongSint64    LongSubtype = 1
	LongTimestamp LongSubtype = 2
)

// IntSubformat enumerates IntSegment's wire subformats.
type IntSubformat byte

const (
	IntRaw             IntSubformat = 0
	IntDeltaDZFPF128VB IntSubformat = 1
	IntDeltaDZVB       IntSubformat = 2
)

// FloatSubformat enumerates FloatSegment's wire subformats.
type FloatSubformat byte

const (
	FloatRaw        FloatSubformat = 0
	FloatCompressed FloatSubformat = 1
)

// ObjectSubformat enumerates ObjectSegment's wire subformats.
type ObjectSubformat byte

const (
	ObjectRaw        ObjectSubformat = 0
	ObjectEnumRLE    ObjectSubformat = 1
	ObjectEnumVB     ObjectSubformat = 2
	ObjectEnumFPF128 ObjectSubformat = 3
)

// GapSubformat enumerates GapSegment's wire subformats (shared with
// IntSegment's compressed variants).
type GapSubformat byte

const (
	GapDeltaDZFPF128VB GapSubformat = 1
	GapDeltaDZVB       GapSubformat = 2
)
