package greenspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpaceRoundTrip(t *testing.T) {
	spaces := []Space{
		{},
		{ID: 1, Name: "Central Park", Location: "NYC", Description: "Big park"},
		{ID: 1<<64 - 1, Name: "Парк", Location: "Сад", Description: "Описание"},
	}

	for _, space := range spaces {
		data, err := Encode(space)
		require.NoError(t, err)
		require.LessOrEqual(t, len(data), MaxEncodedSize)

		got, err := Decode(data)
		require.NoError(t, err)
		require.Equal(t, space, got)
	}
}

func TestEncodeSizeBound(t *testing.T) {
	space := Space{
		ID:          1,
		Name:        "ok",
		Location:    "ok",
		Description: strings.Repeat("x", MaxEncodedSize),
	}

	_, err := Encode(space)
	require.Error(t, err)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02})
	require.Error(t, err)

	_, err = Decode(nil)
	require.Error(t, err)
}

func TestPayloadValid(t *testing.T) {
	require.True(t, Payload{Name: "a", Location: "b", Description: "c"}.Valid())
	require.False(t, Payload{}.Valid())
	require.False(t, Payload{Name: "a", Location: "b"}.Valid())
	require.False(t, Payload{Name: "a", Description: "c"}.Valid())
	require.False(t, Payload{Location: "b", Description: "c"}.Valid())
}
