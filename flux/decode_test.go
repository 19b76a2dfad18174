package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDictExample(t *testing.T) {
	b, err := Marshal(map[string]any{"name": "Alice", "age": 30, "active": true})
	require.NoError(t, err)

	var v any
	require.NoError(t, Unmarshal(b, &v))

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", m["name"])
	assert.EqualValues(t, 30, m["age"])
	assert.Equal(t, true, m["active"])
}

func TestDecodeEmptyList(t *testing.T) {
	b := []byte{0x43, 0x52, 0x4F, 0x55, 0x02, 0x07, 0x00}
	var v any
	require.NoError(t, Unmarshal(b, &v))
	assert.Equal(t, []any{}, v)

	_, err := Decode(b[:6])
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, Truncated, de.Kind)
}

func TestDecodeTupleKindFidelity(t *testing.T) {
	b := []byte{0x43, 0x52, 0x4F, 0x55, 0x02, 0x08, 0x03, 0x03, 0x02, 0x05, 0x01, 0x61, 0x00}
	var v any
	require.NoError(t, Unmarshal(b, &v))
	tup, ok := v.(Tuple)
	require.True(t, ok)
	require.Len(t, tup, 3)
	assert.EqualValues(t, 1, tup[0])
	assert.Equal(t, "a", tup[1])
	assert.Nil(t, tup[2])
}

func TestDecodeBytesValue(t *testing.T) {
	b := []byte{0x43, 0x52, 0x4F, 0x55, 0x02, 0x06, 0x02, 0x00, 0xFF}
	var v any
	require.NoError(t, Unmarshal(b, &v))
	got, ok := v.([]byte)
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0xFF}, got)
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x02})
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, InvalidHeader, de.Kind)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	b, err := Marshal(1)
	require.NoError(t, err)
	b[4] = 0x99
	_, err = Decode(b)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, InvalidHeader, de.Kind)
}

func TestDecodeUnknownTag(t *testing.T) {
	b := []byte{0x43, 0x52, 0x4F, 0x55, 0x02, 0xEE}
	_, err := Decode(b)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, TagUnknown, de.Kind)
}

func TestDecodeInvalidUtf8InStrButNotInBytes(t *testing.T) {
	bad := []byte{0xC3, 0x28}

	strFrame := append([]byte{0x43, 0x52, 0x4F, 0x55, 0x02, 0x05, 0x02}, bad...)
	_, err := Decode(strFrame)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, InvalidUtf8, de.Kind)

	bytesFrame := append([]byte{0x43, 0x52, 0x4F, 0x55, 0x02, 0x06, 0x02}, bad...)
	v, err := Decode(bytesFrame)
	require.NoError(t, err)
	assert.Equal(t, bad, v)
}

func TestDecodeTrailingBytes(t *testing.T) {
	b, err := Marshal(1)
	require.NoError(t, err)
	b = append(b, 0x00)
	_, err = Decode(b)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, TrailingBytes, de.Kind)
}

func TestDecodeAdversarialDeclaredLength(t *testing.T) {
	// Declares a 10-byte string payload but supplies zero bytes of it.
	b := []byte{0x43, 0x52, 0x4F, 0x55, 0x02, 0x05, 0x0A}
	_, err := Decode(b)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, Truncated, de.Kind)
}

func TestDecodeAdversarialHugeContainerCount(t *testing.T) {
	w := newWriter()
	w.AppendRaw(magic[:])
	w.AppendByte(version)
	w.AppendTag(tagList)
	w.AppendUvarint(1 << 40) // declares way more elements than bytes remain
	_, err := Decode(w.Bytes())
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, Truncated, de.Kind)
}

func TestDecodeTruncationOfEveryPrefixFails(t *testing.T) {
	b, err := Marshal(map[string]any{
		"users": []any{1, 2, 3},
		"name":  "hi",
		"f":     1.5,
		"tup":   Tuple{1, "a"},
	})
	require.NoError(t, err)

	for n := 0; n < len(b); n++ {
		_, err := Decode(b[:n])
		require.Errorf(t, err, "prefix of length %d unexpectedly decoded", n)
		var de *DecodeError
		require.ErrorAsf(t, err, &de, "prefix length %d", n)
		assert.NotEqual(t, Internal, de.Kind, "prefix length %d", n)
	}
}

func TestDecodeDepthExceeded(t *testing.T) {
	v := deeplyNestedList(300)
	e := &Encoder{DepthLimit: 400}
	b, err := e.Marshal(v)
	require.NoError(t, err)

	d := &Decoder{DepthLimit: 256}
	_, err = d.DecodeValue(b)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, DepthExceeded, de.Kind)

	d2 := &Decoder{DepthLimit: 400}
	_, err = d2.DecodeValue(b)
	assert.NoError(t, err)
}
