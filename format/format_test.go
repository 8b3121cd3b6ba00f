package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKnown_RegistryMembership(t *testing.T) {
	known := []ID{ParameterStatus, IntValue, StringValue, FloatValue, DoubleValue,
		LongValue, BinaryValue, BooleanValue, SortedTimeValueV2, Gap}
	for _, id := range known {
		require.True(t, Known(id), "%v should be known", id)
	}
	require.False(t, Known(ID(0)))
	require.False(t, Known(ID(99)))
}

func TestPackHeader_SubformatAndFlagsRoundTrip(t *testing.T) {
	header := PackHeader(byte(IntDeltaDZVB), IntSignedFlag)
	require.Equal(t, byte(IntDeltaDZVB), Subformat(header))
	require.Equal(t, IntSignedFlag, Flags(header))
}

func TestPackHeader_SubformatMaskedToLowNibble(t *testing.T) {
	header := PackHeader(0x1F, 0x0A)
	require.Equal(t, byte(0x0F), Subformat(header))
	require.Equal(t, byte(0x0A), Flags(header))
}

func TestID_String(t *testing.T) {
	require.Equal(t, "IntValue", IntValue.String())
	require.Equal(t, "Gap", Gap.String())
	require.Equal(t, "Unknown", ID(200).String())
}
