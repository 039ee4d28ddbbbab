package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()

	data, err := Encode(v)
	require.NoError(t, err)

	got, n, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n, "decode must consume the whole encoding")
	return got
}

func TestUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1<<64 - 1} {
		got := roundTrip(t, Uint64(v))
		require.Equal(t, v, got.Uint64)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "Central Park", "многобайтовый текст"} {
		got := roundTrip(t, String(s))
		require.Equal(t, s, got.String)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	msg := Message(
		F(1, Uint64(7)),
		F(2, String("hello")),
		F(3, Message(F(1, String("nested")))),
	)

	got := roundTrip(t, msg)
	require.Equal(t, msg, got)
}

func TestEncodeDecodeBytesStable(t *testing.T) {
	msg := Message(F(1, Uint64(99)), F(2, String("x")))

	data, err := Encode(msg)
	require.NoError(t, err)

	decoded, _, err := Decode(data)
	require.NoError(t, err)

	again, err := Encode(decoded)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestDecodeTruncated(t *testing.T) {
	data, err := Encode(Message(F(1, String("hello"))))
	require.NoError(t, err)

	for i := 0; i < len(data); i++ {
		_, _, err := Decode(data[:i])
		require.Error(t, err, "truncated at %d bytes", i)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, _, err := Decode([]byte{0xFF})
	require.Error(t, err)

	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
}

func TestEncodeUnknownType(t *testing.T) {
	_, err := Encode(Value{Type: TypeID(200)})
	require.Error(t, err)
}
