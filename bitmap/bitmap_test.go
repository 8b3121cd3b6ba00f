package bitmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd_RoundTrip(t *testing.T) {
	bits := []bool{true, false, true, true, false}
	b := New()
	for _, v := range bits {
		b.Add(v)
	}

	require.Equal(t, len(bits), b.Len())
	for i, v := range bits {
		require.Equal(t, v, b.Get(i))
	}
}

func TestPushBack_ChunksAcrossWordBoundary(t *testing.T) {
	b := New()
	b.PushBack(0, 60) // fill up to bit offset 60
	b.PushBack(0b10110111, 8) // straddles the word-0/word-1 boundary

	require.Equal(t, 68, b.Len())
	require.Equal(t, 2, b.WordCount())
	require.Equal(t, uint64(0b10110111), b.GetBits(60, 8))
}

func TestNotMultipleOf64_LastWordPartial(t *testing.T) {
	b := New()
	for i := 0; i < 65; i++ {
		b.Add(true)
	}

	require.Equal(t, 65, b.Len())
	require.Equal(t, 2, b.WordCount())
	for i := 0; i < 65; i++ {
		require.True(t, b.Get(i))
	}
}

func TestFromWords_PreservesCount(t *testing.T) {
	b := FromWords([]uint64{0b1011}, 4)
	require.Equal(t, 4, b.Len())
	require.True(t, b.Get(0))
	require.True(t, b.Get(1))
	require.False(t, b.Get(2))
	require.True(t, b.Get(3))
}
